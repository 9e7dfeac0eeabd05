package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rdelaney/orchestra/internal/backend"
	"github.com/rdelaney/orchestra/internal/model"
)

// interTaskPause is the fixed delay between tasks in sequential runs, to
// avoid bursting the provider. It applies after failures too.
const interTaskPause = 2 * time.Second

// TaskResolver resolves the backend for one task, honoring its per-task
// client mode override.
type TaskResolver interface {
	ResolveForTask(task model.Task, global backend.Mode) (backend.Backend, backend.Mode, error)
}

// Engine executes batches of agent tasks. A batch always completes and
// always yields exactly one Result per input task; individual failures
// never abort the run.
type Engine struct {
	resolver TaskResolver
	global   backend.Mode
	logger   *slog.Logger
	pause    time.Duration
}

// NewEngine creates an engine that resolves task backends against the given
// global client mode.
func NewEngine(resolver TaskResolver, global backend.Mode, logger *slog.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		global:   global,
		logger:   logger,
		pause:    interTaskPause,
	}
}

// WithPause overrides the sequential inter-task pause. Used by tests.
func (e *Engine) WithPause(d time.Duration) *Engine {
	e.pause = d
	return e
}

// RunSequential executes tasks one at a time in input order, pausing
// between tasks. Task N+1 never starts before task N's result is recorded.
func (e *Engine) RunSequential(ctx context.Context, tasks []model.Task) model.BatchOutcome {
	outcome := make(model.BatchOutcome, 0, len(tasks))

	for i, task := range tasks {
		if i > 0 {
			time.Sleep(e.pause)
		}

		b, mode, err := e.resolver.ResolveForTask(task, e.global)
		if err != nil {
			e.logger.Error("backend resolution failed", "agent", task.Name, "error", err)
			outcome = append(outcome, model.FailedResult(task.Name, err.Error(), mode.String()))
			continue
		}

		outcome = append(outcome, e.runTask(ctx, task, b, mode))
	}

	return outcome
}

// RunConcurrent launches every resolvable task at once, with no concurrency
// cap, and assembles results in input order. Tasks whose backend cannot be
// resolved fail immediately without a goroutine. A goroutine that panics is
// recovered into a failed result so no output slot is ever dropped.
func (e *Engine) RunConcurrent(ctx context.Context, tasks []model.Task) model.BatchOutcome {
	outcome := make(model.BatchOutcome, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		b, mode, err := e.resolver.ResolveForTask(task, e.global)
		if err != nil {
			e.logger.Error("backend resolution failed", "agent", task.Name, "error", err)
			outcome[i] = model.FailedResult(task.Name, err.Error(), mode.String())
			continue
		}

		wg.Add(1)
		go func(i int, task model.Task, b backend.Backend, mode backend.Mode) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("execution unit crashed", "agent", task.Name, "panic", r)
					outcome[i] = model.FailedResult(task.Name,
						fmt.Sprintf("execution unit crashed: %v", r), mode.String())
				}
			}()
			outcome[i] = e.runTask(ctx, task, b, mode)
		}(i, task, b, mode)
	}

	wg.Wait()
	return outcome
}

// sendOutcome carries one backend call's return values across the timeout race.
type sendOutcome struct {
	text string
	err  error
}

// runTask runs one backend call under the task's timeout. The call is raced
// against a timer: on expiry the engine stops waiting but does not terminate
// the underlying call — a timed-out CLI process keeps running until it exits
// on its own.
func (e *Engine) runTask(ctx context.Context, task model.Task, b backend.Backend, mode backend.Mode) model.Result {
	e.logger.Info("running agent", "agent", task.Name, "client_mode", mode.String())

	start := time.Now()
	inFlightTasks.Inc()
	defer inFlightTasks.Dec()

	done := make(chan sendOutcome, 1)
	go func() {
		// Faults are captured here, inside the unit, so every task yields a
		// result even when a backend implementation panics.
		defer func() {
			if r := recover(); r != nil {
				done <- sendOutcome{err: fmt.Errorf("execution unit crashed: %v", r)}
			}
		}()
		text, err := b.Send(ctx, task.Prompt, task.SystemPrompt)
		done <- sendOutcome{text: text, err: err}
	}()

	timeout := time.Duration(task.TimeoutSeconds) * time.Second

	select {
	case out := <-done:
		taskDuration.Observe(time.Since(start).Seconds())
		if out.err != nil {
			e.logger.Error("agent failed", "agent", task.Name, "error", out.err)
			tasksTotal.WithLabelValues(mode.String(), model.StatusFailed).Inc()
			return model.FailedResult(task.Name, out.err.Error(), mode.String())
		}
		e.logger.Info("agent completed", "agent", task.Name, "duration_ms", time.Since(start).Milliseconds())
		tasksTotal.WithLabelValues(mode.String(), model.StatusSuccess).Inc()
		return model.SuccessResult(task.Name, out.text, mode.String())

	case <-time.After(timeout):
		taskDuration.Observe(time.Since(start).Seconds())
		e.logger.Error("agent timed out", "agent", task.Name, "timeout_s", task.TimeoutSeconds)
		tasksTotal.WithLabelValues(mode.String(), model.StatusFailed).Inc()
		return model.FailedResult(task.Name,
			fmt.Sprintf("Timed out after %ds", task.TimeoutSeconds), mode.String())
	}
}
