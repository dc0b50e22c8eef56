// Package harvest drives the Leon harvesting run: sport page -> league ids ->
// league events -> detailed matches -> report.
package harvest

import (
	"context"
	"fmt"

	"github.com/Vodeneev/leonspider/internal/parser/seed"
	"github.com/Vodeneev/leonspider/internal/pkg/models"
)

// DefaultMatchesPerLeague caps how many events of a league get detailed odds.
const DefaultMatchesPerLeague = 2

// Fetcher is the remote API as seen by the harvester. Calls block until a
// result or a terminal error is available.
type Fetcher interface {
	FetchLeagueEvents(ctx context.Context, leagueID string) (*models.Betline, error)
	FetchEventDetail(ctx context.Context, eventID string) (*models.Match, error)
}

type Harvester struct {
	fetcher          Fetcher
	extractor        *seed.Extractor
	matchesPerLeague int
	observer         Observer
}

func NewHarvester(fetcher Fetcher, matchesPerLeague int, observer Observer) *Harvester {
	if matchesPerLeague <= 0 {
		matchesPerLeague = DefaultMatchesPerLeague
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Harvester{
		fetcher:          fetcher,
		extractor:        seed.NewExtractor(),
		matchesPerLeague: matchesPerLeague,
		observer:         observer,
	}
}

// HarvestLeague fetches the league listing and detailed odds for its first
// events, one after another. Any failure discards the whole league.
func (h *Harvester) HarvestLeague(ctx context.Context, leagueID string) ([]models.Match, error) {
	betline, err := h.fetcher.FetchLeagueEvents(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("league %s: %w", leagueID, err)
	}
	if betline == nil {
		return nil, nil
	}

	events := betline.Events
	if len(events) > h.matchesPerLeague {
		events = events[:h.matchesPerLeague]
	}

	matches := make([]models.Match, 0, len(events))
	for _, ev := range events {
		m, err := h.fetcher.FetchEventDetail(ctx, ev.ID.String())
		if err != nil {
			return nil, fmt.Errorf("league %s: event %s: %w", leagueID, ev.ID, err)
		}
		matches = append(matches, *m)
	}
	return matches, nil
}

// HarvestPage extracts league ids from the seed page and harvests them
// sequentially, keeping league order.
func (h *Harvester) HarvestPage(ctx context.Context, page seed.Page) ([]models.Match, error) {
	leagueIDs, err := h.extractor.ExtractFile(page.File)
	if err != nil {
		return nil, err
	}

	var out []models.Match
	for _, id := range leagueIDs {
		matches, err := h.HarvestLeague(ctx, id)
		h.observer.LeagueHarvested(page.Name, id, len(matches), err)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}
