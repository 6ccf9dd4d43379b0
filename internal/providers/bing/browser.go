package bing

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders the scorecard page in headless Chrome and returns
// the resulting DOM. Used when the plain HTTP page is missing client-rendered
// sections.
type BrowserFetcher struct {
	baseURL    string
	userAgent  string
	chromePath string
	timeout    time.Duration
}

// NewBrowserFetcher creates a headless fetcher
func NewBrowserFetcher(opts Options, chromePath string) *BrowserFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	timeout := opts.Timeout * 2
	if timeout < 30*time.Second {
		timeout = 60 * time.Second // page scripts need longer than plain fetches
	}
	return &BrowserFetcher{
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		chromePath: chromePath,
		timeout:    timeout,
	}
}

// Fetch navigates to the match page and returns its rendered markup.
func (b *BrowserFetcher) Fetch(ctx context.Context, matchID, tournamentID string) (string, error) {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("headless", "new"),
		chromedp.WindowSize(1366, 900),
	}
	if b.userAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(b.userAgent))
	}
	if b.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(b.chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	runCtx, cancel := context.WithTimeout(allocCtx, b.timeout)
	defer cancel()
	runCtx, cancel = chromedp.NewContext(runCtx)
	defer cancel()

	var page string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(MatchURL(b.baseURL, matchID, tournamentID)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &page, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("rendering match %s: %w", matchID, err)
	}
	return page, nil
}
