package harvest

// Observer receives progress of a harvesting run. Harvesting code never logs
// by itself; logging and metrics are Observer implementations wired in main.
// Page callbacks are invoked from worker goroutines, implementations must be
// safe for concurrent use.
type Observer interface {
	RunStarted(pages int)
	PageStarted(page string)
	LeagueHarvested(page, leagueID string, matches int, err error)
	PageFinished(page string, matches int, err error)
	ReportWritten(path string, matches int, err error)
	RunFinished(res *RunResult, err error)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) RunStarted(int)                             {}
func (NopObserver) PageStarted(string)                         {}
func (NopObserver) LeagueHarvested(string, string, int, error) {}
func (NopObserver) PageFinished(string, int, error)            {}
func (NopObserver) ReportWritten(string, int, error)           {}
func (NopObserver) RunFinished(*RunResult, error)              {}

// Observers fans every callback out to each element in order.
type Observers []Observer

func (o Observers) RunStarted(pages int) {
	for _, x := range o {
		x.RunStarted(pages)
	}
}

func (o Observers) PageStarted(page string) {
	for _, x := range o {
		x.PageStarted(page)
	}
}

func (o Observers) LeagueHarvested(page, leagueID string, matches int, err error) {
	for _, x := range o {
		x.LeagueHarvested(page, leagueID, matches, err)
	}
}

func (o Observers) PageFinished(page string, matches int, err error) {
	for _, x := range o {
		x.PageFinished(page, matches, err)
	}
}

func (o Observers) ReportWritten(path string, matches int, err error) {
	for _, x := range o {
		x.ReportWritten(path, matches, err)
	}
}

func (o Observers) RunFinished(res *RunResult, err error) {
	for _, x := range o {
		x.RunFinished(res, err)
	}
}
