// Package seed reads static Leon sport pages and extracts top league ids.
package seed

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

const (
	// TopLeagueSelector matches the "top leagues" links of the sports sidebar.
	TopLeagueSelector = "a.sports-sidebar-top-leagues__league_Rd8VZ"
	linkAttr          = "href"
)

// League links look like /bets/soccer/england/1970324836975412-premier-league.
var leagueIDPattern = regexp.MustCompile(`(\d+)-[a-zA-Z0-9-]+`)

// ReadError means a seed document could not be read. It is fatal for that page only.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read seed page %s: %v", e.Path, e.Err) }

func (e *ReadError) Unwrap() error { return e.Err }

type Extractor struct {
	selector string
	pattern  *regexp.Regexp
}

func NewExtractor() *Extractor {
	return &Extractor{selector: TopLeagueSelector, pattern: leagueIDPattern}
}

// Extract returns league ids in document order. Duplicates are kept, links
// without a numeric id are skipped.
func (e *Extractor) Extract(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse seed page: %w", err)
	}
	var ids []string
	doc.Find(e.selector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr(linkAttr)
		if !ok {
			return
		}
		if m := e.pattern.FindStringSubmatch(href); m != nil {
			ids = append(ids, m[1])
		}
	})
	return ids, nil
}

// ExtractFile reads the whole file before extracting.
func (e *Extractor) ExtractFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return e.Extract(bytes.NewReader(data))
}

// Page is one seed document, e.g. {football sport-pages/football.html}.
type Page struct {
	Name string
	File string
}

// DefaultSports is the default page registry, in report order.
var DefaultSports = []string{"football", "tennis", "basketball", "esports"}

// Pages builds the registry for dir, preserving the order of names.
func Pages(dir string, names []string) []Page {
	pages := make([]Page, 0, len(names))
	for _, n := range names {
		pages = append(pages, Page{Name: n, File: filepath.Join(dir, n+".html")})
	}
	return pages
}
