// Package spacex fetches resource collections from the public
// SpaceX API (api.spacexdata.com).
package spacex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/franz/launchbase/internal/normalize"
	"github.com/franz/launchbase/internal/util"
)

const (
	// BaseURL is the SpaceX API base URL
	BaseURL = "https://api.spacexdata.com"

	// UserAgent identifies this application to the API
	UserAgent = "launchbase/1.0 (https://github.com/franz/launchbase)"
)

// Client handles SpaceX API requests
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	retry      *util.RetryConfig
}

// NewClient creates a new SpaceX API client
func NewClient() *Client {
	return NewClientWithBaseURL(BaseURL)
}

// NewClientWithBaseURL creates a client against a custom base URL.
// Used by tests to point at a local server.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL:   baseURL,
		userAgent: UserAgent,
		retry:     util.DefaultRetryConfig(),
	}
}

// Rockets fetches the full rocket collection
func (c *Client) Rockets(ctx context.Context) ([]normalize.Record, error) {
	return c.fetch(ctx, "/v4/rockets")
}

// Launches fetches the full launch collection
func (c *Client) Launches(ctx context.Context) ([]normalize.Record, error) {
	return c.fetch(ctx, "/v5/launches")
}

// Payloads fetches the full payload collection
func (c *Client) Payloads(ctx context.Context) ([]normalize.Record, error) {
	return c.fetch(ctx, "/v4/payloads")
}

// FetchAll fetches the three collections concurrently. The reads are
// mutually independent; only the subsequent load has ordering
// constraints. Any failure fails the whole fetch.
func (c *Client) FetchAll(ctx context.Context) (rockets, launches, payloads []normalize.Record, err error) {
	var wg sync.WaitGroup
	var rocketsErr, launchesErr, payloadsErr error

	wg.Add(3)
	go func() {
		defer wg.Done()
		rockets, rocketsErr = c.Rockets(ctx)
	}()
	go func() {
		defer wg.Done()
		launches, launchesErr = c.Launches(ctx)
	}()
	go func() {
		defer wg.Done()
		payloads, payloadsErr = c.Payloads(ctx)
	}()
	wg.Wait()

	for _, e := range []error{rocketsErr, launchesErr, payloadsErr} {
		if e != nil {
			return nil, nil, nil, e
		}
	}

	return rockets, launches, payloads, nil
}

// fetch retrieves one collection endpoint, retrying transient failures
func (c *Client) fetch(ctx context.Context, path string) ([]normalize.Record, error) {
	urlStr := c.baseURL + path

	records, err := util.RetryWithBackoff(c.retry, func() ([]normalize.Record, error) {
		return c.fetchOnce(ctx, urlStr)
	}, fmt.Sprintf("GET %s", path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", util.ErrTransport, path, err)
	}

	util.DebugLog("SpaceX API: fetched %d records from %s", len(records), path)
	return records, nil
}

func (c *Client) fetchOnce(ctx context.Context, urlStr string) ([]normalize.Record, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, fmt.Errorf("service unavailable (503)")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var records []normalize.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return records, nil
}
