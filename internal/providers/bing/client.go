package bing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/retry"
)

const (
	DefaultBaseURL = "https://www.bing.com/cricketdetails"

	// maxBodyBytes bounds a scorecard page read.
	maxBodyBytes = 8 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	MaxAttempts       int
	RetryDelay        time.Duration
	RequestsPerSecond float64
}

// Client fetches full-score cricket pages. Cookies persist across requests
// and requests are paced through a shared limiter.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	retry      *retry.RetryPolicy
}

// New creates a new scorecard client
func New(opts Options) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Jar:     jar,
		},
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		limiter:   rate.NewLimiter(limit, 1),
		retry:     retry.NewRetryPolicy(opts.MaxAttempts, opts.RetryDelay),
	}, nil
}

// MatchURL builds the full-score page URL for a match.
func MatchURL(baseURL, matchID, tournamentID string) string {
	q := url.Values{}
	q.Set("q", "IPL")
	q.Set("IsCricketV3", "1")
	q.Set("ResponseType", "FullScore")
	q.Set("CricketTournamentId", tournamentID)
	q.Set("GameId", matchID)
	q.Set("Provider", "SI")
	q.Set("ScenarioName", "SingleGame")
	q.Set("Intent", "Schedule")
	q.Set("Lang", "English")
	q.Set("QueryTimeZoneId", "India Standard Time")
	return baseURL + "?" + q.Encode()
}

// Fetch returns the raw scorecard markup for a match.
func (c *Client) Fetch(ctx context.Context, matchID, tournamentID string) (string, error) {
	target := MatchURL(c.baseURL, matchID, tournamentID)

	var body string
	err := c.retry.Execute(ctx, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return retry.Permanent(fmt.Errorf("waiting for rate limiter: %w", err))
		}
		var err error
		body, err = c.fetch(ctx, target)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("fetching match %s: %w", matchID, err)
	}
	return body, nil
}

// fetch makes one HTTP GET request and returns the body
func (c *Client) fetch(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("creating request: %w", err))
	}
	c.setBrowserHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("scorecard source error: status=%d, body=%s", resp.StatusCode, string(body))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", retry.Permanent(err)
		}
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(data), nil
}

func (c *Client) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", "https://www.bing.com/")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
}
