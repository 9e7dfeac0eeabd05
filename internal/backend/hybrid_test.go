package backend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rdelaney/orchestra/internal/backend"
)

// failingAPI returns an API backend pointed at an endpoint that always
// responds 500.
func failingAPI(t *testing.T) *backend.APIBackend {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return backend.NewAPIBackend("sk-test").WithURL(srv.URL)
}

func TestHybridAPISucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"from api"}]}`))
	}))
	defer srv.Close()

	// The CLI leg would fail loudly if invoked.
	cli := backend.NewCLIBackend().WithPath(writeScript(t, `exit 1`))

	b := backend.NewHybridBackend("sk-test", discardLogger()).
		WithAPI(backend.NewAPIBackend("sk-test").WithURL(srv.URL)).
		WithCLI(cli)

	out, err := b.Send(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if out != "from api" {
		t.Errorf("output = %q, want the API response", out)
	}
}

func TestHybridFallsBackToCLI(t *testing.T) {
	// The CLI echoes the full prompt so the test can verify the fallback
	// leg received the exact original prompt and system context.
	cli := backend.NewCLIBackend().WithPath(writeScript(t, `printf '%s' "$2"`))

	b := backend.NewHybridBackend("sk-test", discardLogger()).
		WithAPI(failingAPI(t)).
		WithCLI(cli)

	out, err := b.Send(context.Background(), "report status", "you are the monitor")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	want := "[CONTEXT: you are the monitor]\n\nreport status"
	if out != want {
		t.Errorf("CLI received %q, want %q", out, want)
	}
}

func TestHybridBothFail(t *testing.T) {
	cli := backend.NewCLIBackend().WithPath(writeScript(t, `echo 'cli down' >&2; exit 1`))

	b := backend.NewHybridBackend("sk-test", discardLogger()).
		WithAPI(failingAPI(t)).
		WithCLI(cli)

	_, err := b.Send(context.Background(), "hello", "")

	var fbErr *backend.FallbackError
	if !errors.As(err, &fbErr) {
		t.Fatalf("error = %v, want *FallbackError", err)
	}

	// Both underlying failures must remain reachable through the chain.
	var provErr *backend.ProviderError
	if !errors.As(err, &provErr) {
		t.Errorf("API failure not reachable from %v", err)
	}
	var procErr *backend.ProcessError
	if !errors.As(err, &procErr) {
		t.Errorf("CLI failure not reachable from %v", err)
	}
}
