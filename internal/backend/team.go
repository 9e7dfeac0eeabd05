package backend

import (
	"context"
	"log/slog"
	"os"
)

// Agent Teams constants.
const (
	// cliPathEnv overrides the claude executable path for the teams backend.
	cliPathEnv = "CLAUDE_CLI_PATH"

	// teamsInstallPath is the known system-wide claude installation.
	teamsInstallPath = "/usr/local/bin/claude"

	// teamsFlagEnv enables the multi-agent Agent Teams mode in the CLI.
	teamsFlagEnv = "CLAUDE_CODE_EXPERIMENTAL_AGENT_TEAMS"
)

// TeamsBackend shells out to the claude CLI with Agent Teams enabled.
type TeamsBackend struct {
	cliPath string
	logger  *slog.Logger
}

// NewTeamsBackend creates a teams backend. The executable path is resolved
// once here: $CLAUDE_CLI_PATH, else the system-wide install if present,
// else the bare command name via the caller's PATH.
func NewTeamsBackend(logger *slog.Logger) *TeamsBackend {
	cliPath := os.Getenv(cliPathEnv)
	if cliPath == "" {
		if _, err := os.Stat(teamsInstallPath); err == nil {
			cliPath = teamsInstallPath
		} else {
			cliPath = "claude"
		}
	}
	return &TeamsBackend{cliPath: cliPath, logger: logger}
}

// WithPath overrides the CLI executable path. Used by tests.
func (b *TeamsBackend) WithPath(path string) *TeamsBackend {
	b.cliPath = path
	return b
}

// Send runs the CLI with the Agent Teams flag set. The system prompt is
// prepended with a team-specific annotation.
func (b *TeamsBackend) Send(ctx context.Context, prompt, systemPrompt string) (string, error) {
	full := contextPrompt("TEAM CONTEXT", prompt, systemPrompt)

	b.logger.Info("teams: launching claude with Agent Teams enabled")

	out, err := runCLI(ctx, b.cliPath, full, []string{teamsFlagEnv + "=1"})
	if err != nil {
		return "", err
	}

	b.logger.Info("teams: session completed", "output_bytes", len(out))
	return out, nil
}
