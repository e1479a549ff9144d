package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fortuna/courtside/internal/logging"
)

const (
	// BaseURL of the stats.nba.com JSON API
	BaseURL = "https://stats.nba.com/stats"

	// UserAgent for requests; stats.nba.com stalls requests without browser headers
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	DefaultTimeout = 30 * time.Second

	SeasonTypeRegular = "Regular Season"
)

// Client handles stats.nba.com requests
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// New creates a stats.nba.com client. An empty baseURL uses BaseURL and a
// non-positive timeout uses DefaultTimeout.
func New(baseURL string, timeout time.Duration, logger logging.Logger) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "nba-client"),
	}
}

// fetch requests an endpoint and decodes its result sets
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) (*response, error) {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("stats request finished",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("%s returned status %d: %s", endpoint, resp.StatusCode, body)
	}

	var out response
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return &out, nil
}
