package harvest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/Vodeneev/leonspider/internal/parser/seed"
	"github.com/Vodeneev/leonspider/internal/pkg/models"
)

const DefaultWorkers = 3

// Reporter persists the combined matches of a successful run.
type Reporter interface {
	Write(matches []models.Match) error
	Path() string
}

// PageError is a failed sport page. A run with any failed page writes no report.
type PageError struct {
	Page string
	Err  error
}

func (e *PageError) Error() string { return fmt.Sprintf("page %s: %v", e.Page, e.Err) }

func (e *PageError) Unwrap() error { return e.Err }

type PageResult struct {
	Name    string `json:"name"`
	Matches int    `json:"matches"`
	Error   string `json:"error,omitempty"`
}

type RunResult struct {
	Pages      []PageResult  `json:"pages"`
	Matches    int           `json:"matches"`
	ReportPath string        `json:"report_path,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Pipeline runs one page harvest per sport page on a bounded worker pool and
// reports the combined matches in page declaration order.
type Pipeline struct {
	harvester *Harvester
	pages     []seed.Page
	workers   int
	reporter  Reporter
	observer  Observer

	runMu sync.Mutex
}

func NewPipeline(h *Harvester, pages []seed.Page, workers int, reporter Reporter, observer Observer) *Pipeline {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Pipeline{
		harvester: h,
		pages:     pages,
		workers:   workers,
		reporter:  reporter,
		observer:  observer,
	}
}

// Run harvests every page and writes the report. Dispatched pages are never
// cancelled early: all of them finish before the first failure (in page
// order) is returned. Concurrent calls are serialized.
func (p *Pipeline) Run(ctx context.Context) (res *RunResult, err error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	start := time.Now()
	res = &RunResult{}
	p.observer.RunStarted(len(p.pages))
	defer func() {
		res.Duration = time.Since(start)
		p.observer.RunFinished(res, err)
	}()

	results, errs := p.harvestPages(ctx)

	var firstErr error
	for i, page := range p.pages {
		pr := PageResult{Name: page.Name, Matches: len(results[i])}
		if errs[i] != nil {
			pr.Error = errs[i].Error()
			if firstErr == nil {
				firstErr = &PageError{Page: page.Name, Err: errs[i]}
			}
		}
		res.Pages = append(res.Pages, pr)
	}
	if firstErr != nil {
		return res, firstErr
	}

	var matches []models.Match
	for _, r := range results {
		matches = append(matches, r...)
	}
	res.Matches = len(matches)

	err = p.reporter.Write(matches)
	p.observer.ReportWritten(p.reporter.Path(), len(matches), err)
	if err != nil {
		return res, err
	}
	res.ReportPath = p.reporter.Path()
	return res, nil
}

// harvestPages runs every page on a pool owned by this call. Each task writes
// only its own slot, so merging needs no locking.
func (p *Pipeline) harvestPages(ctx context.Context) ([][]models.Match, []error) {
	results := make([][]models.Match, len(p.pages))
	errs := make([]error, len(p.pages))

	workers := pool.New().WithMaxGoroutines(p.workers)
	for i, page := range p.pages {
		workers.Go(func() {
			p.observer.PageStarted(page.Name)
			results[i], errs[i] = p.harvester.HarvestPage(ctx, page)
			p.observer.PageFinished(page.Name, len(results[i]), errs[i])
		})
	}
	workers.Wait()
	return results, errs
}
