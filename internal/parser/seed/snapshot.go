package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

const chromeUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// Snapshotter renders live sport pages in headless Chrome and stores them as
// seed documents. The sidebar is built by JavaScript, so a plain GET is not enough.
type Snapshotter struct {
	Wait    time.Duration // extra settle time after the sidebar shows up
	Timeout time.Duration // per page
}

// Snapshot renders url and writes the resulting HTML to page.File.
func (s *Snapshotter) Snapshot(ctx context.Context, url string, page Page) error {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(chromeUserAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(TopLeagueSelector, chromedp.ByQuery),
		chromedp.Sleep(s.Wait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("render %s: %w", url, err)
	}

	return writePage(page, html)
}

// writePage stores html as page.File, creating the seed directory and
// replacing an older snapshot.
func writePage(page Page, html string) error {
	if err := os.MkdirAll(filepath.Dir(page.File), 0o755); err != nil {
		return fmt.Errorf("create seed dir: %w", err)
	}
	if err := os.WriteFile(page.File, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write seed page %s: %w", page.File, err)
	}
	return nil
}
