// Package sanity is a small client for the Sanity HTTP query API.
//
// Queries are GROQ strings chosen from a fixed catalog by the caller; every
// variable part travels as a bound "$name" parameter and is never spliced into
// the query text.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Defaults for a public read-only dataset.
const (
	DefaultAPIVersion = "2024-01-01"
	DefaultTimeout    = 10 * time.Second

	// maxGETURL is the URL length above which queries are sent as POST.
	maxGETURL = 11 * 1024
)

var paramName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Params maps GROQ parameter names (without the leading "$") to scalar or
// JSON-encodable values.
type Params map[string]any

// Config holds the connection settings for one project/dataset.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string        // default DefaultAPIVersion
	UseCDN     bool          // query the API CDN instead of the live API
	Token      string        // optional read token
	Timeout    time.Duration // default DefaultTimeout
	CacheTTL   time.Duration // response cache TTL, 0 disables the cache

	// BaseURL overrides the computed API host, e.g. for a test server.
	BaseURL string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default logging http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client issues parameterized GROQ queries against one dataset.
type Client struct {
	cfg        Config
	endpoint   string
	httpClient *http.Client
	cache      *ResponseCache
}

// New validates cfg and returns a ready Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, fmt.Errorf("sanity: project id is required")
	}
	if strings.TrimSpace(cfg.Dataset) == "" {
		return nil, fmt.Errorf("sanity: dataset is required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	cfg.APIVersion = strings.TrimPrefix(cfg.APIVersion, "v")
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		cfg:   cfg,
		cache: NewResponseCache(cfg.CacheTTL),
	}
	c.endpoint = c.buildEndpoint()
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = NewHTTPClient(cfg.Timeout)
	}
	return c, nil
}

func (c *Client) buildEndpoint() string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	if base == "" {
		host := "api.sanity.io"
		// Authenticated requests bypass the CDN.
		if c.cfg.UseCDN && c.cfg.Token == "" {
			host = "apicdn.sanity.io"
		}
		base = "https://" + c.cfg.ProjectID + "." + host
	}
	return base + "/v" + c.cfg.APIVersion + "/data/query/" + url.PathEscape(c.cfg.Dataset)
}

// Endpoint returns the query URL without parameters.
func (c *Client) Endpoint() string { return c.endpoint }

// ProjectID returns the configured project identifier.
func (c *Client) ProjectID() string { return c.cfg.ProjectID }

// Dataset returns the configured dataset name.
func (c *Client) Dataset() string { return c.cfg.Dataset }

// Invalidate drops every cached response.
func (c *Client) Invalidate() { c.cache.Invalidate() }

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	} `json:"error"`
}

// Fetch runs query with params and decodes the "result" member into out.
// A null result leaves pointer and slice targets nil.
func (c *Client) Fetch(ctx context.Context, query string, params Params, out any) error {
	encoded, err := encodeParams(params)
	if err != nil {
		return err
	}
	key := cacheKey(query, encoded)
	if body, ok := c.cache.Get(key); ok {
		return decodeResult(body, out)
	}

	req, err := c.newRequest(ctx, query, params, encoded)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sanity: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("sanity: read response: %w", err)
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Description: snippet(body)}
		}
		return fmt.Errorf("sanity: decode response: %w", err)
	}
	if resp.StatusCode >= 300 || qr.Error != nil {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if qr.Error != nil {
			apiErr.Type = qr.Error.Type
			apiErr.Description = qr.Error.Description
		}
		return apiErr
	}

	if len(qr.Result) == 0 {
		qr.Result = json.RawMessage("null")
	}
	if err := decodeResult(qr.Result, out); err != nil {
		return err
	}
	c.cache.Set(key, qr.Result)
	return nil
}

func (c *Client) newRequest(ctx context.Context, query string, params Params, encoded url.Values) (*http.Request, error) {
	q := url.Values{}
	q.Set("query", query)
	for name, vals := range encoded {
		q["$"+name] = vals
	}
	getURL := c.endpoint + "?" + q.Encode()

	var (
		req *http.Request
		err error
	)
	if len(getURL) <= maxGETURL {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, getURL, nil)
	} else {
		payload, merr := json.Marshal(struct {
			Query  string `json:"query"`
			Params Params `json:"params,omitempty"`
		}{Query: query, Params: params})
		if merr != nil {
			return nil, fmt.Errorf("sanity: encode body: %w", merr)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("sanity: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	return req, nil
}

// encodeParams JSON-encodes every value, which is how the query API expects
// "$name" parameters on the URL.
func encodeParams(params Params) (url.Values, error) {
	out := url.Values{}
	for name, v := range params {
		if !paramName.MatchString(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidParam, name)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("sanity: encode param %q: %w", name, err)
		}
		out.Set(name, string(b))
	}
	return out, nil
}

func cacheKey(query string, encoded url.Values) string {
	names := make([]string, 0, len(encoded))
	for n := range encoded {
		names = append(names, n)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(query)
	for _, n := range names {
		b.WriteString("\x00")
		b.WriteString(n)
		b.WriteString("=")
		b.WriteString(encoded.Get(n))
	}
	return b.String()
}

func decodeResult(raw []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("sanity: decode result: %w", err)
	}
	return nil
}

func snippet(body []byte) string {
	const max = 512
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
