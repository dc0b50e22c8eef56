// Package report writes harvested matches as a flat text report.
//
// Layout per match:
//
//	<Sport>, <League>
//	<Match>, <Kickoff>, <MatchId>
//	<Market>
//		<Runner>, <Value>, <RunnerId>
//	<blank line>
//
// Fields are joined with ", " and are not escaped: a name that itself
// contains ", " cannot be told apart from the field separator.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Vodeneev/leonspider/internal/pkg/models"
)

const separator = ", "

// WriteError is a failure to create or fill the report file. Output already
// written is left as is.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write report %s: %v", e.Path, e.Err) }

func (e *WriteError) Unwrap() error { return e.Err }

type Writer struct {
	path string
}

func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) Path() string { return w.path }

// Write replaces the report file with matches.
func (w *Writer) Write(matches []models.Match) error {
	f, err := os.Create(w.path)
	if err != nil {
		return &WriteError{Path: w.path, Err: err}
	}
	bw := bufio.NewWriter(f)
	if err := Encode(bw, matches); err != nil {
		f.Close()
		return &WriteError{Path: w.path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return &WriteError{Path: w.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: w.path, Err: err}
	}
	return nil
}

// Encode writes matches in report order to out.
func Encode(out io.Writer, matches []models.Match) error {
	for i := range matches {
		if err := encodeMatch(out, &matches[i]); err != nil {
			return err
		}
	}
	return nil
}

func encodeMatch(out io.Writer, m *models.Match) error {
	var sport, league string
	if m.League != nil {
		league = m.League.Name
		if m.League.Sport != nil {
			sport = m.League.Sport.Name
		}
	}
	if _, err := fmt.Fprintf(out, "%s%s%s\n", sport, separator, league); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "%s%s%s%s%s\n", m.Name, separator, FormatKickoff(m.Kickoff), separator, m.ID); err != nil {
		return err
	}
	for _, market := range m.Markets {
		if _, err := fmt.Fprintf(out, "%s\n", market.Name); err != nil {
			return err
		}
		for _, r := range market.Runners {
			if _, err := fmt.Fprintf(out, "\t%s%s%s%s%s\n", r.Name, separator, r.Value, separator, r.ID); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(out, "\n")
	return err
}

// FormatKickoff prints t in UTC as an ISO-8601 local date-time, dropping
// seconds and fractions when they are zero: 2024-05-01T18:00,
// 2024-05-01T18:00:30, 2024-05-01T18:00:30.250.
func FormatKickoff(t time.Time) string {
	t = t.UTC()
	switch {
	case t.Nanosecond() != 0:
		return t.Format("2006-01-02T15:04:05.000")
	case t.Second() != 0:
		return t.Format("2006-01-02T15:04:05")
	default:
		return t.Format("2006-01-02T15:04")
	}
}
