package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrIncompleteMatch is returned when a detailed event arrives without league or sport.
var ErrIncompleteMatch = errors.New("match without league or sport")

// ID is a Leon identifier. The API sends ids as JSON numbers, but they are
// only ever compared and printed, so they are kept as text.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Event is a match as listed by /betline/events/all.
type Event struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Betline is the response of the league events query. Events keep the order
// the API returned them in.
type Betline struct {
	Enabled    bool    `json:"enabled"`
	TotalCount int     `json:"totalCount"`
	Events     []Event `json:"events"`
}

type Sport struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type League struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Sport *Sport `json:"sport"`
}

// Match is a fully detailed event with all of its markets.
type Match struct {
	ID      ID
	Name    string
	Kickoff time.Time // UTC
	League  *League
	Markets []Market
}

type matchJSON struct {
	ID      ID       `json:"id"`
	Name    string   `json:"name"`
	Kickoff int64    `json:"kickoff"` // ms since epoch
	League  *League  `json:"league"`
	Markets []Market `json:"markets"`
}

func (m *Match) UnmarshalJSON(data []byte) error {
	var raw matchJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Match{
		ID:      raw.ID,
		Name:    raw.Name,
		Kickoff: time.UnixMilli(raw.Kickoff).UTC(),
		League:  raw.League,
		Markets: raw.Markets,
	}
	return nil
}

func (m Match) MarshalJSON() ([]byte, error) {
	return json.Marshal(matchJSON{
		ID:      m.ID,
		Name:    m.Name,
		Kickoff: m.Kickoff.UnixMilli(),
		League:  m.League,
		Markets: m.Markets,
	})
}

// Validate checks that the match can be reported: league and sport must be present.
func (m *Match) Validate() error {
	if m.League == nil || m.League.Sport == nil {
		return fmt.Errorf("match %s: %w", m.ID, ErrIncompleteMatch)
	}
	return nil
}

type Market struct {
	ID      ID       `json:"id"`
	Name    string   `json:"name"`
	Runners []Runner `json:"runners"`
}

// Runner is one selectable outcome. Value is the price exactly as the API
// formatted it ("1.85", "12"), it is never parsed into a number.
type Runner struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (r *Runner) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       ID     `json:"id"`
		Name     string `json:"name"`
		Value    ID     `json:"value"` // a number in most payloads
		PriceStr string `json:"priceStr"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ID = raw.ID
	r.Name = raw.Name
	r.Value = raw.PriceStr
	if r.Value == "" {
		r.Value = raw.Value.String()
	}
	return nil
}
