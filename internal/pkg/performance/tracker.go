package performance

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Vodeneev/leonspider/internal/parser/harvest"
	"github.com/Vodeneev/leonspider/internal/pkg/retry"
)

// maxRecentRuns bounds RecentRuns.
const maxRecentRuns = 20

// Tracker tracks harvesting statistics. It is a harvest.Observer and a
// retry notify hook; both may be called from worker goroutines.
type Tracker struct {
	mu sync.RWMutex

	// Overall metrics
	TotalRuns      int
	FailedRuns     int
	TotalMatches   int
	TotalLeagues   int
	FailedLeagues  int
	TotalRetries   int
	ReportsWritten int
	ReportFailures int

	TotalDuration time.Duration

	// Per-page metrics, keyed by sport page name
	Pages map[string]*PageStats

	RecentRuns []RunTiming
}

// PageStats accumulates results of a single sport page across runs.
type PageStats struct {
	Runs     int
	Failures int
	Matches  int
	Leagues  int
	LastErr  string
}

// RunTiming tracks a single pipeline run
type RunTiming struct {
	StartedAt time.Time
	Duration  time.Duration
	Matches   int
	Success   bool
	Error     string
}

var globalTracker = NewTracker()

// GetTracker returns the global performance tracker
func GetTracker() *Tracker {
	return globalTracker
}

func NewTracker() *Tracker {
	return &Tracker{
		Pages:      make(map[string]*PageStats),
		RecentRuns: make([]RunTiming, 0, maxRecentRuns),
	}
}

// Reset resets all metrics
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.TotalRuns = 0
	t.FailedRuns = 0
	t.TotalMatches = 0
	t.TotalLeagues = 0
	t.FailedLeagues = 0
	t.TotalRetries = 0
	t.ReportsWritten = 0
	t.ReportFailures = 0
	t.TotalDuration = 0
	t.Pages = make(map[string]*PageStats)
	t.RecentRuns = t.RecentRuns[:0]
}

func (t *Tracker) page(name string) *PageStats {
	ps, ok := t.Pages[name]
	if !ok {
		ps = &PageStats{}
		t.Pages[name] = ps
	}
	return ps
}

func (t *Tracker) RunStarted(int)     {}
func (t *Tracker) PageStarted(string) {}

func (t *Tracker) LeagueHarvested(page, leagueID string, matches int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.TotalLeagues++
	t.page(page).Leagues++
	if err != nil {
		t.FailedLeagues++
	}
}

func (t *Tracker) PageFinished(page string, matches int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ps := t.page(page)
	ps.Runs++
	ps.Matches += matches
	if err != nil {
		ps.Failures++
		ps.LastErr = err.Error()
	}
}

func (t *Tracker) ReportWritten(path string, matches int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.ReportFailures++
		return
	}
	t.ReportsWritten++
}

// RunFinished records a complete pipeline run
func (t *Tracker) RunFinished(res *harvest.RunResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.TotalRuns++
	t.TotalDuration += res.Duration
	t.TotalMatches += res.Matches

	rt := RunTiming{
		StartedAt: time.Now().Add(-res.Duration),
		Duration:  res.Duration,
		Matches:   res.Matches,
		Success:   err == nil,
	}
	if err != nil {
		t.FailedRuns++
		rt.Error = err.Error()
	}
	if len(t.RecentRuns) == maxRecentRuns {
		t.RecentRuns = append(t.RecentRuns[:0], t.RecentRuns[1:]...)
	}
	t.RecentRuns = append(t.RecentRuns, rt)
}

// RecordRetry counts a retried remote call. It has the retry.Policy Notify signature.
func (t *Tracker) RecordRetry(retry.Attempt) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.TotalRetries++
}

// PrintSummary prints a performance summary
func (t *Tracker) PrintSummary() {
	m := t.GetMetrics()
	if m.Overall.TotalRuns == 0 {
		slog.Info("No performance data collected yet")
		return
	}

	slog.Info("PERFORMANCE SUMMARY",
		"total_runs", m.Overall.TotalRuns,
		"failed_runs", m.Overall.FailedRuns,
		"total_matches", m.Overall.TotalMatches,
		"total_leagues", m.Overall.TotalLeagues,
		"failed_leagues", m.Overall.FailedLeagues,
		"retries", m.Overall.TotalRetries,
		"avg_run_duration", m.Timing.AvgRunDuration)

	for name, p := range m.Pages {
		slog.Info("Sport page statistics",
			"page", name,
			"runs", p.Runs,
			"success_rate", p.SuccessRate,
			"avg_matches", p.AvgMatches,
			"last_error", p.LastError)
	}
}

// MetricsResponse represents the JSON response structure for /metrics endpoint
type MetricsResponse struct {
	Overall struct {
		TotalRuns      int `json:"total_runs"`
		FailedRuns     int `json:"failed_runs"`
		TotalMatches   int `json:"total_matches"`
		TotalLeagues   int `json:"total_leagues"`
		FailedLeagues  int `json:"failed_leagues"`
		TotalRetries   int `json:"total_retries"`
		ReportsWritten int `json:"reports_written"`
		ReportFailures int `json:"report_failures"`
	} `json:"overall"`

	Timing struct {
		TotalDuration  string `json:"total_duration"`
		AvgRunDuration string `json:"avg_run_duration"`
	} `json:"timing"`

	Pages map[string]PageMetrics `json:"pages"`

	RecentRuns []RunMetrics `json:"recent_runs"`
}

type PageMetrics struct {
	Runs        int     `json:"runs"`
	Failures    int     `json:"failures"`
	SuccessRate float64 `json:"success_rate"`
	Leagues     int     `json:"leagues"`
	AvgMatches  float64 `json:"avg_matches"`
	LastError   string  `json:"last_error,omitempty"`
}

type RunMetrics struct {
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Matches   int       `json:"matches"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// GetMetrics returns structured metrics for JSON API
func (t *Tracker) GetMetrics() MetricsResponse {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var resp MetricsResponse

	resp.Overall.TotalRuns = t.TotalRuns
	resp.Overall.FailedRuns = t.FailedRuns
	resp.Overall.TotalMatches = t.TotalMatches
	resp.Overall.TotalLeagues = t.TotalLeagues
	resp.Overall.FailedLeagues = t.FailedLeagues
	resp.Overall.TotalRetries = t.TotalRetries
	resp.Overall.ReportsWritten = t.ReportsWritten
	resp.Overall.ReportFailures = t.ReportFailures

	resp.Timing.TotalDuration = t.TotalDuration.String()
	if t.TotalRuns > 0 {
		resp.Timing.AvgRunDuration = (t.TotalDuration / time.Duration(t.TotalRuns)).String()
	}

	resp.Pages = make(map[string]PageMetrics, len(t.Pages))
	for name, ps := range t.Pages {
		pm := PageMetrics{
			Runs:      ps.Runs,
			Failures:  ps.Failures,
			Leagues:   ps.Leagues,
			LastError: ps.LastErr,
		}
		if ps.Runs > 0 {
			pm.SuccessRate = float64(ps.Runs-ps.Failures) / float64(ps.Runs) * 100
			pm.AvgMatches = float64(ps.Matches) / float64(ps.Runs)
		}
		resp.Pages[name] = pm
	}

	resp.RecentRuns = make([]RunMetrics, 0, len(t.RecentRuns))
	for _, r := range t.RecentRuns {
		resp.RecentRuns = append(resp.RecentRuns, RunMetrics{
			StartedAt: r.StartedAt,
			Duration:  r.Duration.String(),
			Matches:   r.Matches,
			Success:   r.Success,
			Error:     r.Error,
		})
	}

	return resp
}

var _ harvest.Observer = (*Tracker)(nil)
