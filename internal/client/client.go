// Package client provides HTTP clients for the portfolio screening API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/eddiefleurent/option_screener/internal/models"
)

// Interface defines the operations exposed by the screening service.
type Interface interface {
	// Screen submits one portfolio and returns the mixed result list.
	Screen(ctx context.Context, portfolio *models.Portfolio) ([]models.ScreenResult, error)
	// ScreenBatch submits several portfolios in one call. Results come back
	// in request order; per-portfolio failures are reported inline.
	ScreenBatch(ctx context.Context, portfolios []*models.Portfolio) ([]BatchResult, error)
	// Health checks that the service is up.
	Health(ctx context.Context) error
}

// APIError represents an API error with status code and response body
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Body)
}

// BatchResult is the per-portfolio outcome of a batch screening call.
type BatchResult struct {
	PortfolioID string
	Results     []models.ScreenResult
	Error       string
}

// UnmarshalJSON decodes the nested result list through the screen-result
// union helper.
func (r *BatchResult) UnmarshalJSON(data []byte) error {
	var aux struct {
		PortfolioID string          `json:"portfolio_id"`
		Results     json.RawMessage `json:"results"`
		Error       string          `json:"error"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.PortfolioID = aux.PortfolioID
	r.Error = aux.Error
	if len(aux.Results) > 0 && !bytes.Equal(aux.Results, []byte("null")) {
		results, err := models.UnmarshalScreenResults(aux.Results)
		if err != nil {
			return err
		}
		r.Results = results
	}
	return nil
}

// Failed reports whether this batch element was rejected.
func (r *BatchResult) Failed() bool {
	return r.Error != ""
}

// HTTPClient talks to a running screening service.
type HTTPClient struct {
	client    *http.Client
	baseURL   string
	authToken string
}

// Ensure HTTPClient implements Interface at compile time.
var _ Interface = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the service at baseURL. authToken may be
// empty when the service runs without auth.
func NewHTTPClient(baseURL, authToken string) *HTTPClient {
	return &HTTPClient{
		client:    &http.Client{Timeout: 30 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
	}
}

// WithHTTPClient allows overriding the HTTP client (tests, custom transport).
func (c *HTTPClient) WithHTTPClient(hc *http.Client) *HTTPClient {
	if hc != nil {
		c.client = hc
	}
	return c
}

// WithTimeout sets the HTTP client timeout duration.
func (c *HTTPClient) WithTimeout(timeout time.Duration) *HTTPClient {
	c.client.Timeout = timeout
	return c
}

// Screen submits one portfolio for screening.
func (c *HTTPClient) Screen(ctx context.Context, portfolio *models.Portfolio) ([]models.ScreenResult, error) {
	var raw json.RawMessage
	if err := c.makeRequestCtx(ctx, http.MethodPost, "/api/screen", portfolio, &raw); err != nil {
		return nil, err
	}
	results, err := models.UnmarshalScreenResults(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding screen results: %w", err)
	}
	return results, nil
}

// ScreenBatch submits several portfolios in one call.
func (c *HTTPClient) ScreenBatch(ctx context.Context, portfolios []*models.Portfolio) ([]BatchResult, error) {
	payload := struct {
		Portfolios []*models.Portfolio `json:"portfolios"`
	}{Portfolios: portfolios}

	var resp struct {
		Results []BatchResult `json:"results"`
	}
	if err := c.makeRequestCtx(ctx, http.MethodPost, "/api/screen/batch", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Health checks that the service reports itself healthy.
func (c *HTTPClient) Health(ctx context.Context) error {
	var health struct {
		Status string `json:"status"`
	}
	if err := c.makeRequestCtx(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return err
	}
	if health.Status != "healthy" {
		return fmt.Errorf("unexpected health status %q", health.Status)
	}
	return nil
}

// makeRequestCtx makes an HTTP request with context support for
// timeout/cancellation. A nil payload sends no body; a nil response
// discards the reply.
func (c *HTTPClient) makeRequestCtx(ctx context.Context, method, path string,
	payload, response interface{}) error {
	endpoint := c.baseURL + path

	var req *http.Request
	var err error

	if payload != nil {
		body, merr := json.Marshal(payload)
		if merr != nil {
			return fmt.Errorf("encoding request: %w", merr)
		}
		req, err = http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Add("Content-Type", "application/json")
	} else {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, http.NoBody)
		if err != nil {
			return err
		}
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add("User-Agent", "option-screener/1.0")
	if c.authToken != "" {
		req.Header.Add("X-Auth-Token", c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)) // 64KB cap to avoid huge payloads
		if err != nil {
			return &APIError{Status: resp.StatusCode, Body: fmt.Sprintf("%s %s -> failed to read error body", method, path)}
		}
		return &APIError{Status: resp.StatusCode, Body: fmt.Sprintf("%s %s -> %s", method, path, strings.TrimSpace(string(body)))}
	}

	if response == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(response); err != nil && err != io.EOF {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
