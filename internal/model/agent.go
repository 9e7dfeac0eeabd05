package model

import "time"

// Result status constants.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Task execution state constants.
const (
	StatePending   = "pending"
	StateRunning   = "running"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
)

// validTransitions maps each task state to the set of states it may transition to.
var validTransitions = map[string]map[string]bool{
	StatePending: {
		StateRunning: true,
	},
	StateRunning: {
		StateSucceeded: true,
		StateFailed:    true,
	},
}

// ValidTransition reports whether transitioning from one task state to another is allowed.
func ValidTransition(from, to string) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// Task is one unit of agent work. Tasks are built before a batch run and
// never mutated afterward.
type Task struct {
	Name           string `json:"name"`
	Prompt         string `json:"prompt"`
	TimeoutSeconds int    `json:"timeout_seconds"`

	// ClientMode overrides the batch's global client mode for this task.
	// Empty means inherit the global mode.
	ClientMode string `json:"client_mode,omitempty"`

	// SystemPrompt gives the agent its role/identity. Backends decide how
	// to attach it; the engine never touches it.
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// Result is the immutable outcome of running one Task. Exactly one of
// Output/Error is set, according to Status.
type Result struct {
	Agent      string    `json:"agent"`
	Status     string    `json:"status"`
	Output     string    `json:"output,omitempty"`
	Error      string    `json:"error,omitempty"`
	ClientMode string    `json:"client_mode"`
	Timestamp  time.Time `json:"timestamp"`
}

// BatchOutcome is the ordered list of Results for one run, in input task order.
type BatchOutcome []Result

// SuccessResult builds a success Result for the named agent.
func SuccessResult(agent, output, clientMode string) Result {
	return Result{
		Agent:      agent,
		Status:     StatusSuccess,
		Output:     output,
		ClientMode: clientMode,
		Timestamp:  time.Now().UTC(),
	}
}

// FailedResult builds a failed Result for the named agent.
func FailedResult(agent, errMsg, clientMode string) Result {
	return Result{
		Agent:      agent,
		Status:     StatusFailed,
		Error:      errMsg,
		ClientMode: clientMode,
		Timestamp:  time.Now().UTC(),
	}
}

// Run is the persisted record of one orchestration batch.
type Run struct {
	ID           string     `json:"id"`
	Mode         string     `json:"mode"`
	ClientMode   string     `json:"client_mode"`
	Concurrent   bool       `json:"concurrent"`
	AgentCount   int        `json:"agent_count"`
	SuccessCount int        `json:"success_count"`
	FailCount    int        `json:"fail_count"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`

	// Results is populated on single-run reads; list endpoints omit it.
	Results BatchOutcome `json:"results,omitempty"`
}
