package backend

import (
	"log/slog"

	"github.com/rdelaney/orchestra/internal/model"
)

// Resolver constructs backends for the closed set of client modes. The API
// key and model are supplied by the caller; nothing here reads process
// environment for configuration.
type Resolver struct {
	apiKey string
	model  string
	logger *slog.Logger
}

// NewResolver creates a resolver. apiKey may be empty; modes that require
// it fail at resolution time. model may be empty to use the default.
func NewResolver(apiKey, model string, logger *slog.Logger) *Resolver {
	return &Resolver{apiKey: apiKey, model: model, logger: logger}
}

// Resolve constructs the backend for the given mode. Modes that talk to the
// API directly (api, hybrid) require a non-empty API key.
func (r *Resolver) Resolve(mode Mode) (Backend, error) {
	switch mode {
	case ModeAPI:
		if r.apiKey == "" {
			return nil, &MissingCredentialError{Mode: mode}
		}
		b := NewAPIBackend(r.apiKey)
		if r.model != "" {
			b.WithModel(r.model)
		}
		return b, nil
	case ModeClaudeCode:
		return NewCLIBackend(), nil
	case ModeHybrid:
		if r.apiKey == "" {
			return nil, &MissingCredentialError{Mode: mode}
		}
		b := NewHybridBackend(r.apiKey, r.logger)
		if r.model != "" {
			b.api.WithModel(r.model)
		}
		return b, nil
	case ModeAgentTeams:
		return NewTeamsBackend(r.logger), nil
	default:
		return nil, &UnknownModeError{Name: string(mode)}
	}
}

// ResolveForTask resolves the backend for one task, honoring its client
// mode override and falling back to the global mode. The returned mode is
// the one actually used, for recording on the task's Result.
func (r *Resolver) ResolveForTask(task model.Task, global Mode) (Backend, Mode, error) {
	mode := global
	if task.ClientMode != "" {
		parsed, err := ParseMode(task.ClientMode)
		if err != nil {
			return nil, Mode(task.ClientMode), err
		}
		mode = parsed
	}

	b, err := r.Resolve(mode)
	if err != nil {
		return nil, mode, err
	}
	return b, mode, nil
}
