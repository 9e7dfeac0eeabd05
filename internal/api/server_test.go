package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rdelaney/orchestra/internal/api"
	"github.com/rdelaney/orchestra/internal/model"
	"github.com/rdelaney/orchestra/internal/store"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	runs  map[string]*model.Run
	order []string
	stats *store.RunStats
	err   error
}

var _ store.Store = (*fakeStore)(nil)

func (f *fakeStore) CreateRun(_ context.Context, run *model.Run) error {
	if f.runs == nil {
		f.runs = make(map[string]*model.Run)
	}
	f.runs[run.ID] = run
	f.order = append(f.order, run.ID)
	return nil
}

func (f *fakeStore) GetRun(_ context.Context, id string) (*model.Run, error) {
	if f.err != nil {
		return nil, f.err
	}
	run, ok := f.runs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return run, nil
}

func (f *fakeStore) ListRuns(_ context.Context, limit, offset int) ([]*model.Run, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var page []*model.Run
	for i := offset; i < len(f.order) && len(page) < limit; i++ {
		page = append(page, f.runs[f.order[i]])
	}
	return page, len(f.order), nil
}

func (f *fakeStore) GetRunStats(_ context.Context) (*store.RunStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.stats == nil {
		return &store.RunStats{CountByMode: map[string]int{}}, nil
	}
	return f.stats, nil
}

func (f *fakeStore) Close() error { return nil }

func newTestServer(t *testing.T, fs *fakeStore) *api.Server {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return api.NewServer(":0", fs, logger)
}

func doRequest(t *testing.T, srv *api.Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func seedRun(t *testing.T, fs *fakeStore, mode string) *model.Run {
	t.Helper()
	run := &model.Run{
		ID:           model.NewID(),
		Mode:         mode,
		ClientMode:   "claude-code",
		AgentCount:   2,
		SuccessCount: 2,
		StartedAt:    time.Now().UTC(),
		Results: model.BatchOutcome{
			model.SuccessResult("monitor", "ok", "claude-code"),
			model.SuccessResult("analyzer", "ok", "claude-code"),
		},
	}
	if err := fs.CreateRun(context.Background(), run); err != nil {
		t.Fatalf("seed run: %v", err)
	}
	return run
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	rec := doRequest(t, srv, http.MethodGet, "/healthz")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestGetRun(t *testing.T) {
	fs := &fakeStore{}
	run := seedRun(t, fs, "auto")
	srv := newTestServer(t, fs)

	rec := doRequest(t, srv, http.MethodGet, "/v1/runs/"+run.ID)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got model.Run
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != run.ID || len(got.Results) != 2 {
		t.Errorf("run = %+v, want the seeded run with results", got)
	}
}

func TestGetRunNotFound(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	rec := doRequest(t, srv, http.MethodGet, "/v1/runs/missing")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Error("error message missing from 404 body")
	}
}

func TestListRuns(t *testing.T) {
	fs := &fakeStore{}
	for i := 0; i < 3; i++ {
		seedRun(t, fs, "auto")
	}
	srv := newTestServer(t, fs)

	rec := doRequest(t, srv, http.MethodGet, "/v1/runs?limit=2")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Runs   []*model.Run `json:"runs"`
		Total  int          `json:"total"`
		Limit  int          `json:"limit"`
		Offset int          `json:"offset"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Total != 3 {
		t.Errorf("total = %d, want 3", body.Total)
	}
	if len(body.Runs) != 2 || body.Limit != 2 {
		t.Errorf("page = %d runs with limit %d, want 2/2", len(body.Runs), body.Limit)
	}
}

func TestListRunsEmpty(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	rec := doRequest(t, srv, http.MethodGet, "/v1/runs")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// The runs field must be an empty array, not null.
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if string(body["runs"]) != "[]" {
		t.Errorf("runs = %s, want []", body["runs"])
	}
}

func TestListRunsClampsBadLimit(t *testing.T) {
	fs := &fakeStore{}
	seedRun(t, fs, "auto")
	srv := newTestServer(t, fs)

	rec := doRequest(t, srv, http.MethodGet, "/v1/runs?limit=9999&offset=-3")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Limit != 20 {
		t.Errorf("limit = %d, want the default 20", body.Limit)
	}
	if body.Offset != 0 {
		t.Errorf("offset = %d, want 0", body.Offset)
	}
}

func TestGetStats(t *testing.T) {
	fs := &fakeStore{
		stats: &store.RunStats{
			Total:           4,
			CountByMode:     map[string]int{"auto": 3, "research": 1},
			AgentsRun:       8,
			AgentsSucceeded: 7,
			AgentsFailed:    1,
		},
	}
	srv := newTestServer(t, fs)

	rec := doRequest(t, srv, http.MethodGet, "/v1/stats")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Total           int            `json:"total"`
		ByMode          map[string]int `json:"by_mode"`
		AgentsSucceeded int            `json:"agents_succeeded"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Total != 4 || body.ByMode["auto"] != 3 || body.AgentsSucceeded != 7 {
		t.Errorf("stats = %+v, want the seeded aggregates", body)
	}
}

func TestStoreErrorReturns500(t *testing.T) {
	srv := newTestServer(t, &fakeStore{err: io.ErrUnexpectedEOF})

	for _, path := range []string{"/v1/runs", "/v1/runs/some-id", "/v1/stats"} {
		rec := doRequest(t, srv, http.MethodGet, path)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("GET %s status = %d, want 500", path, rec.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	rec := doRequest(t, srv, http.MethodGet, "/metrics")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("metrics body is empty")
	}
}
