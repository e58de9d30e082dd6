package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"newsfeed/types"
)

// maxBodyBytes caps how much of the listing response is read
const maxBodyBytes = 10 << 20

// ErrBodyTooLarge is wrapped in the FetchError for a listing page over the size cap
var ErrBodyTooLarge = errors.New("listing page exceeds size limit")

// Fetcher retrieves the raw markup of the listing page
type Fetcher struct {
	client    *http.Client
	url       string
	userAgent string
	maxBytes  int64
}

// NewFetcher creates a fetcher for a single listing URL
func NewFetcher(url, userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		url:       url,
		userAgent: userAgent,
		maxBytes:  maxBodyBytes,
	}
}

// URL returns the listing page address
func (f *Fetcher) URL() string { return f.url }

// Fetch performs one GET of the listing page. Every failure is a *types.FetchError.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, http.NoBody)
	if err != nil {
		return "", &types.FetchError{URL: f.url, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	// Set user agent to avoid being blocked
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &types.FetchError{URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &types.FetchError{URL: f.url, StatusCode: resp.StatusCode}
	}

	// one byte past the cap tells a full page from a truncated one
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", &types.FetchError{URL: f.url, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	if int64(len(body)) > f.maxBytes {
		return "", &types.FetchError{URL: f.url, Err: fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, f.maxBytes)}
	}
	return string(body), nil
}
