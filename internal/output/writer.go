// Package output writes per-run result and summary files, mirroring the
// record handed to the run-history store.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rdelaney/orchestra/internal/engine"
	"github.com/rdelaney/orchestra/internal/model"
)

// timestampLayout names output files, e.g. results-20260825-153000.json.
const timestampLayout = "20060102-150405"

// Writer persists run outcomes as files under a single directory.
type Writer struct {
	dir string
}

// NewWriter creates the output directory if needed and returns a writer for it.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// WriteResults writes the full run record as pretty-printed JSON and
// returns the file path.
func (w *Writer) WriteResults(run *model.Run) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("results-%s.json", run.StartedAt.Format(timestampLayout)))

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize results: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write results file: %w", err)
	}
	return path, nil
}

// WriteSummary writes the human-readable run summary and returns the file path.
func (w *Writer) WriteSummary(run *model.Run) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("summary-%s.txt", run.StartedAt.Format(timestampLayout)))

	summary := engine.Summarize(run.Results)

	var b strings.Builder
	b.WriteString("Agent Orchestra Run Summary\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", run.StartedAt.Format(timestampLayout))
	fmt.Fprintf(&b, "Mode: %s\n", run.Mode)
	fmt.Fprintf(&b, "Total Agents: %d\n", summary.Total)
	fmt.Fprintf(&b, "Successful: %d\n", summary.Succeeded)
	fmt.Fprintf(&b, "Failed: %d\n\n", summary.Failed)

	for _, r := range run.Results {
		b.WriteString("\n" + strings.Repeat("-", 50) + "\n")
		fmt.Fprintf(&b, "Agent: %s\n", r.Agent)
		fmt.Fprintf(&b, "Status: %s\n", r.Status)

		if r.Status == model.StatusSuccess {
			fmt.Fprintf(&b, "Output:\n%s\n", r.Output)
		} else {
			fmt.Fprintf(&b, "Error: %s\n", r.Error)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write summary file: %w", err)
	}
	return path, nil
}

// Prune removes output files older than retentionDays. A retention of zero
// or less keeps everything.
func (w *Writer) Prune(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(w.dir, entry.Name())); err != nil {
				return fmt.Errorf("prune %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}
