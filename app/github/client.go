package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// MaxRetries is the number of additional attempts after the initial
	// request fails.
	MaxRetries = 3
	// RetryDelay is the fixed wait between attempts. No backoff.
	RetryDelay = 2 * time.Second

	defaultRetryAfter = 60 * time.Second
)

// Client is a minimal wrapper around GitHub's repository search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string
	retryDelay time.Duration
}

// NewClient returns a ready-to-use search client. token may be empty, but
// unauthenticated requests are subject to very low rate limits.
func NewClient(baseURL, token, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		},
		baseURL:    baseURL,
		token:      token,
		userAgent:  userAgent,
		retryDelay: RetryDelay,
	}
}

// SearchRepositories runs a repository search query, retrying failed
// attempts with a fixed delay. The same request is issued every time and
// the last error is propagated once retries are exhausted. Responses are
// not cached at this layer.
func (c *Client) SearchRepositories(ctx context.Context, query string) (*SearchResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		result, err := c.search(ctx, query)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func (c *Client) search(ctx context.Context, query string) (*SearchResponse, error) {
	u := c.baseURL + "/search/repositories?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return &result, nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}
