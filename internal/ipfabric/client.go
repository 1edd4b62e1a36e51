// Package ipfabric is a client for the IP Fabric REST API.
package ipfabric

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"

	"github.com/ivoronin/ipfq/internal/version"
)

// DefaultAPIVersion is the API path segment used when none is configured.
const DefaultAPIVersion = "v1"

// DefaultTimeout bounds a single API call.
const DefaultTimeout = 30 * time.Second

// tokenHeader carries the API token.
const tokenHeader = "X-API-Token"

// Config holds connection settings.
type Config struct {
	Addr       string        // https://ipfabric.example.com
	Token      string        // API token
	APIVersion string        // "v1", "v6.3" or version.Auto
	Insecure   bool          // skip TLS verification
	Timeout    time.Duration // per-request timeout
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. hc is used as-is:
// Config.Timeout and Config.Insecure are not applied to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Client) { c.log = l }
}

// Client talks to one IP Fabric instance. It is safe for concurrent use.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
	log   *logrus.Entry

	mu         sync.Mutex
	apiVersion string
}

// New validates cfg and creates a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Addr == "" {
		return nil, ErrMissingAddr
	}
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}

	addr := cfg.Addr
	if !strings.Contains(addr, "://") {
		addr = "https://" + addr
	}
	base, err := url.Parse(strings.TrimRight(addr, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", cfg.Addr, err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid address %q: missing host", cfg.Addr)
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if apiVersion, err = version.NormalizeAPIVersion(apiVersion); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	if cfg.Insecure {
		if tr, ok := hc.Transport.(*http.Transport); ok {
			tr.TLSClientConfig = &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec // G402: opt-in for self-signed appliances
			}
		}
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		base:       base,
		token:      cfg.Token,
		http:       hc,
		log:        logrus.NewEntry(discard),
		apiVersion: apiVersion,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server address without API path.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// ResolveAPIVersion returns the API path segment, detecting it from the
// server release when configured as version.Auto. The result is cached.
func (c *Client) ResolveAPIVersion(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.apiVersion != version.Auto {
		return c.apiVersion, nil
	}

	v, err := c.Version(ctx)
	if err != nil {
		return "", fmt.Errorf("detect API version: %w", err)
	}
	c.apiVersion = version.APIPrefix(v)
	c.log.WithField("api_version", c.apiVersion).Debug("Detected API version")
	return c.apiVersion, nil
}

// apiURL builds <base>/api/<version>/<path>.
func (c *Client) apiURL(ctx context.Context, path string) (string, error) {
	v, err := c.ResolveAPIVersion(ctx)
	if err != nil {
		return "", err
	}
	return c.base.String() + "/api/" + v + "/" + strings.TrimPrefix(path, "/"), nil
}

// get and post call versioned API endpoints.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u, err := c.apiURL(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, u, nil)
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	u, err := c.apiURL(ctx, path)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, u, body)
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, u string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(tokenHeader, c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.WithFields(logrus.Fields{"method": method, "url": u})
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Debug("Request failed")
		return nil, fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}

	log.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
		"bytes":   len(data),
	}).Debug("Request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Method: method, URL: u, StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
