package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Vodeneev/leonspider/internal/pkg/models"
)

func sampleMatch() models.Match {
	return models.Match{
		ID:      "1970324846215811",
		Name:    "Arsenal - Chelsea",
		Kickoff: time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC),
		League: &models.League{
			Name:  "Premier League",
			Sport: &models.Sport{Name: "Soccer"},
		},
		Markets: []models.Market{{
			ID:   "11",
			Name: "Match Result",
			Runners: []models.Runner{
				{ID: "1", Name: "Arsenal", Value: "2.10"},
				{ID: "2", Name: "Chelsea", Value: "3.40"},
			},
		}},
	}
}

func TestEncodeSingleMatch(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, []models.Match{sampleMatch()}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []string{
		"Soccer, Premier League",
		"Arsenal - Chelsea, 2024-05-01T18:00, 1970324846215811",
		"Match Result",
		"\tArsenal, 2.10, 1",
		"\tChelsea, 3.40, 2",
		"",
		"",
	}
	if diff := cmp.Diff(want, strings.Split(buf.String(), "\n")); diff != "" {
		t.Errorf("report lines (-want +got):\n%s", diff)
	}
}

func TestEncodeKeepsMatchOrder(t *testing.T) {
	a, b := sampleMatch(), sampleMatch()
	b.ID, b.Name, b.Markets = "2", "Second", nil

	var buf bytes.Buffer
	if err := Encode(&buf, []models.Match{a, b}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Index(out, "Arsenal - Chelsea") > strings.Index(out, "Second, ") {
		t.Errorf("matches out of order:\n%s", out)
	}
	if !strings.HasSuffix(out, "Second, 2024-05-01T18:00, 2\n\n") {
		t.Errorf("match without markets should end with blank line:\n%q", out)
	}
}

func TestFormatKickoff(t *testing.T) {
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC), "2024-05-01T18:00"},
		{time.Date(2024, 5, 1, 18, 0, 30, 0, time.UTC), "2024-05-01T18:00:30"},
		{time.Date(2024, 5, 1, 18, 0, 30, 250_000_000, time.UTC), "2024-05-01T18:00:30.250"},
		{time.Date(2024, 5, 1, 21, 0, 0, 0, time.FixedZone("MSK", 3*3600)), "2024-05-01T18:00"},
		{time.UnixMilli(1714586400000), "2024-05-01T18:00"},
	}
	for _, tt := range tests {
		if got := FormatKickoff(tt.t); got != tt.want {
			t.Errorf("FormatKickoff(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestWriterOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), 0o644); err != nil {
		t.Fatal(err)
	}
	w := NewWriter(path)
	if err := w.Write([]models.Match{sampleMatch()}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale") {
		t.Errorf("old content survived:\n%s", data)
	}
	if !strings.HasPrefix(string(data), "Soccer, Premier League\n") {
		t.Errorf("unexpected report:\n%s", data)
	}
}

func TestWriterError(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "no-such-dir", "report.txt"))
	err := w.Write([]models.Match{sampleMatch()})
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("err = %v, want WriteError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("WriteError should wrap the fs error: %v", err)
	}
}
