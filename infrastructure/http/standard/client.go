// ABOUTME: Standard HTTP client implementation with retry logic and timeout support
// ABOUTME: Provides GET with exponential backoff for resilient calls to the arXiv export API

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Lucasff16/arxiv-api-backend/core/interfaces"
)

const (
	maxRetries  = 3
	baseBackoff = 100 * time.Millisecond
	userAgent   = "arxiv-api-backend/1.0 (+https://github.com/Lucasff16/arxiv-api-backend)"
)

// StandardHTTPClient implements the HTTPClient interface using standard library
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout.
// transport may be nil to use http.DefaultTransport.
func NewStandardHTTPClient(timeout time.Duration, transport http.RoundTripper) *StandardHTTPClient {
	return &StandardHTTPClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Get performs an HTTP GET request, retrying transport failures and 5xx answers
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 100ms, 200ms
			backoff := baseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/atom+xml")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			lastErr = err
			continue
		}

		// Don't retry on success or 4xx errors, and hand the last 5xx to the caller
		if resp.StatusCode < 500 || attempt == maxRetries-1 {
			return &httpResponse{
				statusCode: resp.StatusCode,
				body:       resp.Body,
				headers:    resp.Header,
			}, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
	}

	return nil, lastErr
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
