package store

import (
	"context"
	"errors"

	"github.com/rdelaney/orchestra/internal/model"
)

// ErrNotFound is returned when a run is not found.
var ErrNotFound = errors.New("run not found")

// RunStats holds aggregate statistics over all recorded runs.
type RunStats struct {
	Total           int            `json:"total"`
	CountByMode     map[string]int `json:"count_by_mode"`
	AgentsRun       int            `json:"agents_run"`
	AgentsSucceeded int            `json:"agents_succeeded"`
	AgentsFailed    int            `json:"agents_failed"`
}

// Store defines the persistence operations for run history.
type Store interface {
	// CreateRun records a finished run together with its ordered results.
	CreateRun(ctx context.Context, run *model.Run) error

	// GetRun retrieves a run by ID, including its results in batch order.
	GetRun(ctx context.Context, id string) (*model.Run, error)

	// ListRuns returns a page of runs newest-first, without results, along
	// with the total run count.
	ListRuns(ctx context.Context, limit, offset int) ([]*model.Run, int, error)

	GetRunStats(ctx context.Context) (*RunStats, error)
	Close() error
}
