// Package fetch wraps the outbound HTTP access used by the avatar
// pipeline: plain GETs for image bytes and conditional GETs for
// profile pages.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin wrapper over net/http carrying the configured
// User-Agent and timeout. All requests go to a single external host,
// one at a time; the caller owns the inter-request delay.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

func NewClient(userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Get performs a GET request and returns the response body.
// Any status other than 200 OK is an error.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// GetConditional performs a GET request with an If-Modified-Since
// header when since is non-empty. A 304 response returns
// notModified=true with no body; a 200 returns the body.
func (c *Client) GetConditional(ctx context.Context, url, since string) (body []byte, notModified bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if since != "" {
		req.Header.Set("If-Modified-Since", since)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		return nil, true, nil
	case http.StatusOK:
		body, err = io.ReadAll(resp.Body)
		return body, false, err
	default:
		return nil, false, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
}
