package backend_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rdelaney/orchestra/internal/backend"
)

// writeScript writes an executable shell script standing in for the claude
// CLI and returns its path. Scripts receive "-p" as $1 and the full prompt
// as $2.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claude")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCLIBackendSuccess(t *testing.T) {
	cli := writeScript(t, `printf 'response text'`)
	b := backend.NewCLIBackend().WithPath(cli)

	out, err := b.Send(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if out != "response text" {
		t.Errorf("output = %q, want raw stdout", out)
	}
}

func TestCLIBackendPromptArgs(t *testing.T) {
	// Echo the arguments back so the test can inspect the invocation.
	cli := writeScript(t, `printf '%s|%s' "$1" "$2"`)
	b := backend.NewCLIBackend().WithPath(cli)

	out, err := b.Send(context.Background(), "do the thing", "")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if out != "-p|do the thing" {
		t.Errorf("invocation = %q, want -p followed by the prompt", out)
	}
}

func TestCLIBackendContextAnnotation(t *testing.T) {
	cli := writeScript(t, `printf '%s' "$2"`)
	b := backend.NewCLIBackend().WithPath(cli)

	out, err := b.Send(context.Background(), "report status", "you are the monitor")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	want := "[CONTEXT: you are the monitor]\n\nreport status"
	if out != want {
		t.Errorf("full prompt = %q, want %q", out, want)
	}
}

func TestCLIBackendStripsAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-should-not-leak")

	cli := writeScript(t, `printf '%s' "key=$ANTHROPIC_API_KEY"`)
	b := backend.NewCLIBackend().WithPath(cli)

	out, err := b.Send(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if out != "key=" {
		t.Errorf("child saw API key: %q", out)
	}
}

func TestCLIBackendProcessError(t *testing.T) {
	cli := writeScript(t, `echo 'something broke' >&2; exit 3`)
	b := backend.NewCLIBackend().WithPath(cli)

	_, err := b.Send(context.Background(), "hello", "")

	var procErr *backend.ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("error = %v, want *ProcessError", err)
	}
	if procErr.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", procErr.ExitCode)
	}
	if procErr.Detail != "something broke" {
		t.Errorf("detail = %q, want stderr content", procErr.Detail)
	}
}

func TestCLIBackendProcessErrorStdoutFallback(t *testing.T) {
	// No stderr output: detail falls back to stdout.
	cli := writeScript(t, `echo 'usage: claude -p PROMPT'; exit 2`)
	b := backend.NewCLIBackend().WithPath(cli)

	_, err := b.Send(context.Background(), "hello", "")

	var procErr *backend.ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("error = %v, want *ProcessError", err)
	}
	if procErr.Detail != "usage: claude -p PROMPT" {
		t.Errorf("detail = %q, want stdout content", procErr.Detail)
	}
}

func TestCLIBackendMissingExecutable(t *testing.T) {
	b := backend.NewCLIBackend().WithPath(filepath.Join(t.TempDir(), "nonexistent"))

	_, err := b.Send(context.Background(), "hello", "")

	var procErr *backend.ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("error = %v, want *ProcessError", err)
	}
}
