package logging

import (
	"log/slog"

	"github.com/Vodeneev/leonspider/internal/parser/harvest"
	"github.com/Vodeneev/leonspider/internal/pkg/retry"
)

// HarvestObserver turns harvesting progress into log records.
type HarvestObserver struct {
	log *slog.Logger
}

func NewHarvestObserver(log *slog.Logger) *HarvestObserver {
	if log == nil {
		log = slog.Default()
	}
	return &HarvestObserver{log: log}
}

func (o *HarvestObserver) RunStarted(pages int) {
	o.log.Info("Starting Leon harvest", "pages", pages)
}

func (o *HarvestObserver) PageStarted(page string) {
	o.log.Info("Harvesting sport page", "page", page)
}

func (o *HarvestObserver) LeagueHarvested(page, leagueID string, matches int, err error) {
	if err != nil {
		o.log.Error("League failed", "page", page, "league_id", leagueID, "error", err)
		return
	}
	o.log.Debug("League harvested", "page", page, "league_id", leagueID, "matches", matches)
}

func (o *HarvestObserver) PageFinished(page string, matches int, err error) {
	if err != nil {
		o.log.Error("Sport page failed", "page", page, "error", err)
		return
	}
	o.log.Info("Sport page harvested", "page", page, "matches", matches)
}

func (o *HarvestObserver) ReportWritten(path string, matches int, err error) {
	if err != nil {
		o.log.Error("Failed to write report", "path", path, "error", err)
		return
	}
	o.log.Info("Report written", "path", path, "matches", matches)
}

func (o *HarvestObserver) RunFinished(res *harvest.RunResult, err error) {
	if err != nil {
		o.log.Error("Leon harvest failed", "duration", res.Duration, "error", err)
		return
	}
	o.log.Info("Leon harvest finished", "matches", res.Matches, "report", res.ReportPath, "duration", res.Duration)
}

// RetryNotifier returns a retry.Policy Notify hook that logs every retry.
func RetryNotifier(log *slog.Logger) func(retry.Attempt) {
	if log == nil {
		log = slog.Default()
	}
	return func(a retry.Attempt) {
		log.Warn("Retrying request after error", "attempt", a.Number, "delay", a.Delay, "error", a.Err)
	}
}
