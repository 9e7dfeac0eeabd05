package backend

import (
	"context"
	"log/slog"
)

// HybridBackend tries the API first and falls back to the CLI on any API
// failure. Exactly one leg's response is returned when either succeeds.
type HybridBackend struct {
	api    *APIBackend
	cli    *CLIBackend
	logger *slog.Logger
}

// NewHybridBackend creates a hybrid backend around the given API key.
func NewHybridBackend(apiKey string, logger *slog.Logger) *HybridBackend {
	return &HybridBackend{
		api:    NewAPIBackend(apiKey),
		cli:    NewCLIBackend(),
		logger: logger,
	}
}

// WithAPI replaces the API leg. Used by tests.
func (b *HybridBackend) WithAPI(api *APIBackend) *HybridBackend {
	b.api = api
	return b
}

// WithCLI replaces the CLI leg. Used by tests.
func (b *HybridBackend) WithCLI(cli *CLIBackend) *HybridBackend {
	b.cli = cli
	return b
}

// Send attempts the API leg, then the CLI leg with the identical prompt and
// system prompt. When both fail the returned error carries both causes.
func (b *HybridBackend) Send(ctx context.Context, prompt, systemPrompt string) (string, error) {
	out, apiErr := b.api.Send(ctx, prompt, systemPrompt)
	if apiErr == nil {
		b.logger.Info("hybrid: API succeeded")
		return out, nil
	}

	b.logger.Warn("hybrid: API failed, falling back to CLI", "error", apiErr)

	out, cliErr := b.cli.Send(ctx, prompt, systemPrompt)
	if cliErr != nil {
		return "", &FallbackError{APIErr: apiErr, CLIErr: cliErr}
	}
	return out, nil
}
