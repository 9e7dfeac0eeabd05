package backend

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// CLI constants.
const (
	// DefaultCLIPath is where the claude CLI is installed in the agent image.
	DefaultCLIPath = "/home/claude/.local/bin/claude"

	// apiKeyEnv is stripped from the child environment so the CLI cannot
	// silently bill the API key meant for the direct backend.
	apiKeyEnv = "ANTHROPIC_API_KEY"
)

// CLIBackend shells out to `claude -p <prompt>`.
type CLIBackend struct {
	cliPath string
}

// NewCLIBackend creates a CLI backend using the default installation path.
func NewCLIBackend() *CLIBackend {
	return &CLIBackend{cliPath: DefaultCLIPath}
}

// WithPath overrides the CLI executable path. Used by tests.
func (b *CLIBackend) WithPath(path string) *CLIBackend {
	b.cliPath = path
	return b
}

// Send runs the CLI with the prompt. A system prompt is prepended inline as
// a bracketed context annotation.
func (b *CLIBackend) Send(ctx context.Context, prompt, systemPrompt string) (string, error) {
	full := contextPrompt("CONTEXT", prompt, systemPrompt)
	return runCLI(ctx, b.cliPath, full, nil)
}

// runCLI invokes the claude CLI with -p and the full prompt, returning raw
// stdout on success. extraEnv entries are appended after the filtered
// parent environment.
func runCLI(ctx context.Context, cliPath, fullPrompt string, extraEnv []string) (string, error) {
	cmd := exec.CommandContext(ctx, cliPath, "-p", fullPrompt)
	cmd.Env = append(envWithout(apiKeyEnv), extraEnv...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := strings.TrimSpace(stderr.String())
			if detail == "" {
				detail = strings.TrimSpace(stdout.String())
			}
			return "", &ProcessError{ExitCode: exitErr.ExitCode(), Detail: detail}
		}
		return "", &ProcessError{ExitCode: -1, Detail: err.Error()}
	}

	return stdout.String(), nil
}

// envWithout returns the current environment with the named variable removed.
func envWithout(name string) []string {
	prefix := name + "="
	env := os.Environ()
	filtered := make([]string, 0, len(env))
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			continue
		}
		filtered = append(filtered, kv)
	}
	return filtered
}
