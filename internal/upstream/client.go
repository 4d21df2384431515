// Package upstream talks to the Central Weather Administration open data API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cwaproxy/cwaproxy/internal/model"
)

const (
	// DefaultTimeout is the total request timeout.
	DefaultTimeout = 15 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second

	// maxBodySize caps how much of an upstream body is read. The full
	// 36-hour dataset is well under this.
	maxBodySize = 16 << 20
)

// Query parameter names understood by the provider.
const (
	ParamAuthorization = "Authorization"
	ParamLocationName  = "locationName"
)

// Query describes one upstream request.
type Query struct {
	Authorization string
	// LocationName filters the dataset to one administrative division. Empty means all.
	LocationName string
}

// Client fetches forecast documents from the provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates an HTTP client with bounded timeouts for upstream calls.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: TLSHandshakeTimeout,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// NewClient creates a Client for the given endpoint.
// Pass nil httpClient to use NewHTTPClient(DefaultTimeout).
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTimeout)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Fetch issues one GET against the provider and returns its JSON document.
// Non-2xx answers yield *APIError; anything else that prevents a usable
// document yields *TransportError. The call is bound to ctx.
func (c *Client) Fetch(ctx context.Context, q Query) (*model.Document, error) {
	endpoint, err := c.buildURL(q)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "request", Err: redactError(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &TransportError{Op: "read body", Err: redactError(err)}
	}

	c.logger.Debug("upstream_response",
		"status_code", resp.StatusCode,
		"location_name", q.LocationName,
		"bytes", len(body),
		"duration_ms", float64(time.Since(start).Microseconds())/1000,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	doc, err := model.ParseDocument(body)
	if err != nil {
		return nil, &TransportError{Op: "decode body", Err: err}
	}
	return doc, nil
}

// Close releases idle upstream connections.
func (c *Client) Close(ctx context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) buildURL(q Query) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse upstream url: %w", err)
	}

	params := u.Query()
	params.Set(ParamAuthorization, q.Authorization)
	if q.LocationName != "" {
		params.Set(ParamLocationName, q.LocationName)
	}
	u.RawQuery = params.Encode()

	return u.String(), nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	if json.Valid(body) {
		apiErr.Body = json.RawMessage(body)
		if doc, err := model.ParseDocument(body); err == nil {
			apiErr.Message, _ = doc.TruthyField("message")
		}
		return apiErr
	}

	// Non-JSON bodies (HTML error pages, plain text) pass through as a string.
	raw, _ := json.Marshal(string(body))
	apiErr.Body = raw
	return apiErr
}

// redactError strips the query string, which carries the credential, from
// URL errors produced by net/http.
func redactError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	u, parseErr := url.Parse(urlErr.URL)
	if parseErr != nil {
		return &url.Error{Op: urlErr.Op, URL: "[redacted]", Err: urlErr.Err}
	}
	q := u.Query()
	if q.Has(ParamAuthorization) {
		q.Set(ParamAuthorization, "redacted")
		u.RawQuery = q.Encode()
	}
	return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
}
