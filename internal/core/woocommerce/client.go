// Package woocommerce is a minimal client for the WooCommerce REST API (wc/v3).
package woocommerce

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"courier-bridge/internal/core/config"
	"courier-bridge/internal/core/httpclient"
)

const apiPrefix = "/wp-json/wc/v3"

// maxPerPage is the largest page size the API accepts.
const maxPerPage = 100

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("woocommerce: resource not found")

// StatusError is a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("woocommerce %s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Client calls the WooCommerce REST API with Basic authentication.
type Client struct {
	http   *http.Client
	config config.WooCommerceConfig
}

// NewClient creates a WooCommerce client.
func NewClient(cfg config.WooCommerceConfig) *Client {
	return &Client{
		http:   httpclient.NewClient("woocommerce", 15*time.Second),
		config: cfg,
	}
}

// Get decodes GET path into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.do(ctx, http.MethodGet, path, query, nil, out)
	return err
}

// Put sends body as JSON and decodes the response into out (which may be nil).
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, http.MethodPut, path, nil, body, out)
	return err
}

// Post sends body as JSON and decodes the response into out (which may be nil).
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, http.MethodPost, path, nil, body, out)
	return err
}

// GetAll pages through a list endpoint, calling page with each decoded page body.
func (c *Client) GetAll(ctx context.Context, path string, query url.Values, page func(raw json.RawMessage) error) error {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("per_page", strconv.Itoa(maxPerPage))

	for n := 1; ; n++ {
		q.Set("page", strconv.Itoa(n))

		var raw json.RawMessage
		header, err := c.do(ctx, http.MethodGet, path, q, nil, &raw)
		if err != nil {
			return err
		}
		if err := page(raw); err != nil {
			return err
		}

		total, err := strconv.Atoi(header.Get("X-WP-TotalPages"))
		if err != nil || n >= total {
			return nil
		}
	}
}

// HealthCheck verifies that the API is reachable and the credentials are valid.
func (c *Client) HealthCheck(ctx context.Context) error {
	var orders []json.RawMessage
	if err := c.Get(ctx, "/orders", url.Values{"per_page": {"1"}}, &orders); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (http.Header, error) {
	endpoint := strings.TrimSuffix(c.config.URL, "/") + apiPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	authVal := make([]byte, 0, len(c.config.ConsumerKey)+len(c.config.ConsumerSecret)+1)
	authVal = fmt.Appendf(authVal, "%s:%s", c.config.ConsumerKey, c.config.ConsumerSecret)
	req.Header.Add("Authorization", "Basic "+base64.StdEncoding.EncodeToString(authVal))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.Header, nil
}
