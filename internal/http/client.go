// Package http wraps the underlying HTTP transport with URL building,
// header policy, and the interceptor pipeline.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/edent/crossref-client/internal/constants"
	"github.com/edent/crossref-client/pkg/crossref"
)

// goDefaultUserAgent is the transport's own identifier, appended to the
// composed User-Agent string.
const goDefaultUserAgent = "Go-http-client/1.1"

// Request represents an HTTP request to the API.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
}

// Response represents an HTTP response from the API.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Logger interface for HTTP client logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client is the HTTP transport for the Crossref API. It builds absolute
// request URLs, applies the interceptor chain around each call, and retries
// transient failures.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	logger       Logger
	debug        bool
	userAgent    string
	interceptors *crossref.InterceptorChain

	mu         sync.RWMutex
	apiVersion string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets a caller-supplied User-Agent prefix.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithAPIVersion sets the version segment prepended to relative paths.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// WithRetryConfig tunes retry behavior for transient failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithHTTPTimeout sets the per-request timeout on the underlying transport.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// NewClient creates a new HTTP client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   retryClient,
		interceptors: crossref.NewInterceptorChain(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Interceptors returns the chain applied around every request.
func (c *Client) Interceptors() *crossref.InterceptorChain {
	return c.interceptors
}

// SetAPIVersion changes the version segment used for subsequent requests.
func (c *Client) SetAPIVersion(version string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.apiVersion = version
}

// UserAgent returns the full composed User-Agent string: the caller-supplied
// part (when set), the fixed client identifier, and the transport's default,
// joined with spaces and with blank parts dropped.
func (c *Client) UserAgent() string {
	return crossref.ComposeUserAgent(c.userAgent, crossref.ClientIdentifier, goDefaultUserAgent)
}

// BuildURL composes the absolute request URL for path. A configured API
// version is prepended only when the path is relative (no leading slash);
// absolute paths bypass version prefixing.
func (c *Client) BuildURL(path string) string {
	c.mu.RLock()
	version := c.apiVersion
	c.mu.RUnlock()

	if version != "" && !strings.HasPrefix(path, "/") {
		path = version + "/" + path
	}

	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// Do executes an HTTP request through the interceptor pipeline.
//
// Non-2xx responses are returned together with a *crossref.APIError so
// callers can inspect both.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	pipelineReq := &crossref.Request{
		Method:   req.Method,
		Path:     req.Path,
		Query:    req.Query,
		Headers:  make(http.Header),
		Metadata: make(map[string]interface{}),
	}

	for key, value := range req.Headers {
		pipelineReq.Headers.Set(key, value)
	}

	err := c.interceptors.ExecuteRequestInterceptors(ctx, pipelineReq)
	if err != nil {
		return nil, err
	}

	// A request interceptor may have satisfied the call from cache.
	if cached, ok := pipelineReq.Metadata[crossref.MetadataCachedResponse].(*crossref.Response); ok && cached != nil {
		c.logDebug("HTTP Cache Hit", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return &Response{
			StatusCode: cached.StatusCode,
			Headers:    cached.Headers,
			Body:       cached.Body,
		}, nil
	}

	resp, err := c.send(ctx, pipelineReq)
	if err != nil {
		return nil, err
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, pipelineReq, resp)
	if err != nil {
		return nil, err
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}

	if response.StatusCode >= constants.HTTPStatusBadRequest {
		return response, &crossref.APIError{
			StatusCode: response.StatusCode,
			Body:       string(response.Body),
		}
	}

	return response, nil
}

// send performs the actual network call.
func (c *Client) send(ctx context.Context, req *crossref.Request) (*crossref.Response, error) {
	requestURL := c.BuildURL(req.Path)
	if len(req.Query) > 0 {
		requestURL += "?" + req.Query.Encode()
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if req.Method == http.MethodGet {
		httpReq.Header.Set("Accept", "application/json")
	}

	for key, values := range req.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.UserAgent())
	}

	c.logDebug("HTTP Request", map[string]interface{}{
		"method": req.Method,
		"url":    requestURL,
	})

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() {
		closeErr := httpResp.Body.Close()
		if closeErr != nil {
			c.logDebug("closing response body failed", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.logDebug("HTTP Response", map[string]interface{}{
		"method":      req.Method,
		"url":         requestURL,
		"status_code": httpResp.StatusCode,
	})

	return &crossref.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Head issues a HEAD request. A 404 is returned as a response without an
// error so callers can map it to an existence check.
func (c *Client) Head(ctx context.Context, path string) (*Response, error) {
	resp, err := c.Do(ctx, &Request{
		Method: http.MethodHead,
		Path:   path,
	})

	apiErr := &crossref.APIError{}
	if err != nil && errors.As(err, &apiErr) && apiErr.StatusCode == constants.HTTPStatusNotFound {
		return resp, nil
	}

	return resp, err
}

func (c *Client) logDebug(msg string, fields map[string]interface{}) {
	if c.debug && c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}
