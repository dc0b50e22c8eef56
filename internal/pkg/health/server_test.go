package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Vodeneev/leonspider/internal/parser/harvest"
	"github.com/Vodeneev/leonspider/internal/pkg/health/handlers"
	"github.com/Vodeneev/leonspider/internal/pkg/performance"
)

type fakeRunner struct {
	mu     sync.Mutex
	res    *harvest.RunResult
	err    error
	ctxErr error
	obs    harvest.Observer
}

func (f *fakeRunner) Run(ctx context.Context) (*harvest.RunResult, error) {
	f.mu.Lock()
	f.ctxErr = ctx.Err()
	f.mu.Unlock()
	if f.obs != nil {
		f.obs.RunFinished(f.res, f.err)
	}
	return f.res, f.err
}

func newTestServer(t *testing.T, runner *fakeRunner) (*httptest.Server, *RunStore) {
	t.Helper()
	runs := NewRunStore()
	runner.obs = runs
	srv := httptest.NewServer(NewRouter(Options{
		Service: "leonspider",
		Runner:  runner,
		Tracker: performance.NewTracker(),
		Runs:    runs,
	}))
	t.Cleanup(srv.Close)
	return srv, runs
}

func postAnalyze(t *testing.T, srv *httptest.Server) handlers.AnalyzeResponse {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/analyze-leon", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body handlers.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestAnalyzeSuccess(t *testing.T) {
	runner := &fakeRunner{res: &harvest.RunResult{
		Pages:      []harvest.PageResult{{Name: "football", Matches: 2}},
		Matches:    2,
		ReportPath: "report.txt",
		Duration:   time.Second,
	}}
	srv, _ := newTestServer(t, runner)

	body := postAnalyze(t, srv)
	if body.Message != handlers.AckMessage || !body.Success || body.Matches != 2 || body.ReportPath != "report.txt" {
		t.Errorf("body = %+v", body)
	}
	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.ctxErr != nil {
		t.Errorf("run context already done: %v", runner.ctxErr)
	}
}

// A failed run is still acknowledged with 200; the failure is in the body.
func TestAnalyzeFailureStillAcknowledged(t *testing.T) {
	runner := &fakeRunner{
		res: &harvest.RunResult{Pages: []harvest.PageResult{{Name: "tennis", Error: "read seed page"}}},
		err: errors.New("page tennis: read seed page"),
	}
	srv, _ := newTestServer(t, runner)

	body := postAnalyze(t, srv)
	if body.Message != handlers.AckMessage || body.Success || !strings.Contains(body.Error, "tennis") {
		t.Errorf("body = %+v", body)
	}
}

func TestAnalyzeRequiresPost(t *testing.T) {
	srv, _ := newTestServer(t, &fakeRunner{res: &harvest.RunResult{}})
	resp, err := http.Get(srv.URL + "/api/analyze-leon")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestLastRun(t *testing.T) {
	srv, _ := newTestServer(t, &fakeRunner{res: &harvest.RunResult{Matches: 4}})

	resp, err := http.Get(srv.URL + "/api/analyze-leon/last")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("before first run: status = %d, want 404", resp.StatusCode)
	}

	postAnalyze(t, srv)

	resp, err = http.Get(srv.URL + "/api/analyze-leon/last")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var lr handlers.LastRun
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		t.Fatal(err)
	}
	if !lr.Success || lr.Result == nil || lr.Result.Matches != 4 {
		t.Errorf("last run = %+v", lr)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, &fakeRunner{})

	tests := []struct {
		path string
		want string
	}{
		{"/ping", "pong"},
		{"/health", `"service":"leonspider"`},
		{"/metrics", `"total_runs":0`},
	}
	for _, tt := range tests {
		resp, err := http.Get(srv.URL + tt.path)
		if err != nil {
			t.Fatal(err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), tt.want) {
			t.Errorf("%s: status %d body %q", tt.path, resp.StatusCode, body)
		}
	}
}

func TestRunStoreCopiesResult(t *testing.T) {
	s := NewRunStore()
	res := &harvest.RunResult{Pages: []harvest.PageResult{{Name: "football"}}}
	s.RunFinished(res, nil)
	res.Pages[0].Name = "changed"

	lr, ok := s.Last()
	if !ok || lr.Result.Pages[0].Name != "football" {
		t.Errorf("last = %+v", lr)
	}
}
