package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/rdelaney/orchestra/internal/backend"
	"github.com/rdelaney/orchestra/internal/config"
	"github.com/rdelaney/orchestra/internal/engine"
	"github.com/rdelaney/orchestra/internal/model"
	"github.com/rdelaney/orchestra/internal/output"
	"github.com/rdelaney/orchestra/internal/store"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	settings := config.LoadSettings()
	logger := config.NewLogger(os.Stdout, settings.LogLevel)

	cfg, err := config.LoadFile(settings.ConfigPath)
	if err != nil {
		logger.Warn("config file not loaded, using defaults", "path", settings.ConfigPath, "error", err)
		cfg = config.Default()
	}

	clientMode := settings.ClientMode
	if clientMode == "" {
		clientMode = cfg.Client.DefaultMode
	}
	globalMode, err := backend.ParseMode(clientMode)
	if err != nil {
		log.Fatalf("invalid client mode: %v", err)
	}

	resolver := backend.NewResolver(settings.APIKey, settings.Model, logger)

	// Fail fast if the global mode cannot be constructed at all; per-task
	// overrides are still checked individually during the run.
	if _, err := resolver.Resolve(globalMode); err != nil {
		log.Fatalf("cannot construct backend: %v", err)
	}

	logger.Info("starting Agent Orchestra",
		"mode", settings.RunMode,
		"client_mode", globalMode.String(),
	)

	tasks := config.TasksForMode(settings.RunMode, cfg.Agents, logger)
	logger.Info("running agents", "count", len(tasks))

	eng := engine.NewEngine(resolver, globalMode, logger)

	startedAt := time.Now().UTC()
	ctx := context.Background()

	var outcome model.BatchOutcome
	if cfg.Features.ParallelExecution {
		outcome = eng.RunConcurrent(ctx, tasks)
	} else {
		outcome = eng.RunSequential(ctx, tasks)
	}
	finishedAt := time.Now().UTC()

	summary := engine.Summarize(outcome)
	run := &model.Run{
		ID:           model.NewID(),
		Mode:         settings.RunMode,
		ClientMode:   globalMode.String(),
		Concurrent:   cfg.Features.ParallelExecution,
		AgentCount:   summary.Total,
		SuccessCount: summary.Succeeded,
		FailCount:    summary.Failed,
		StartedAt:    startedAt,
		FinishedAt:   &finishedAt,
		Results:      outcome,
	}

	writer, err := output.NewWriter(cfg.Outputs.Directory)
	if err != nil {
		log.Fatalf("failed to prepare output directory: %v", err)
	}

	resultsPath, err := writer.WriteResults(run)
	if err != nil {
		log.Fatalf("failed to write results: %v", err)
	}
	logger.Info("results saved", "path", resultsPath)

	summaryPath, err := writer.WriteSummary(run)
	if err != nil {
		log.Fatalf("failed to write summary: %v", err)
	}
	logger.Info("summary saved", "path", summaryPath)

	if err := writer.Prune(cfg.Outputs.RetentionDays); err != nil {
		logger.Warn("output pruning failed", "error", err)
	}

	db, err := store.NewSQLiteStore(settings.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.CreateRun(ctx, run); err != nil {
		log.Fatalf("failed to record run: %v", err)
	}

	logger.Info("orchestration complete",
		"run_id", run.ID,
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
}
