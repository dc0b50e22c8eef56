package health

import (
	"sync"
	"time"

	"github.com/Vodeneev/leonspider/internal/parser/harvest"
	"github.com/Vodeneev/leonspider/internal/pkg/health/handlers"
)

// RunStore keeps the outcome of the most recent pipeline run. It is a
// harvest.Observer so every run is recorded, whoever triggered it.
type RunStore struct {
	harvest.NopObserver

	mu   sync.RWMutex
	last *handlers.LastRun
}

func NewRunStore() *RunStore {
	return &RunStore{}
}

func (s *RunStore) RunFinished(res *harvest.RunResult, err error) {
	lr := &handlers.LastRun{FinishedAt: time.Now().UTC(), Success: err == nil}
	if res != nil {
		cp := *res
		cp.Pages = append([]harvest.PageResult(nil), res.Pages...)
		lr.Result = &cp
	}
	if err != nil {
		lr.Error = err.Error()
	}

	s.mu.Lock()
	s.last = lr
	s.mu.Unlock()
}

// Last returns a copy of the latest run, false before the first run.
func (s *RunStore) Last() (handlers.LastRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return handlers.LastRun{}, false
	}
	return *s.last, true
}
