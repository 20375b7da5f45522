package crossref

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Request represents an HTTP request that can be intercepted.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Headers  http.Header
	Metadata map[string]interface{}
}

// Response represents an HTTP response that can be intercepted.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// MetadataCachedResponse is the request metadata key under which the cache
// interceptor stashes a stored response. The transport short-circuits the
// network call when it is present.
const MetadataCachedResponse = "cached-response"

// metadataCacheKey carries the derived cache key between the request and
// response halves of the cache interceptor.
const metadataCacheKey = "cache-key"

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// Names under which the standard interceptors install themselves.
const (
	InterceptorUserAgent = "user-agent"
	InterceptorCache     = "cache"
	InterceptorRateLimit = "rate-limit"
	InterceptorLogging   = "logging"
)

type namedRequestInterceptor struct {
	name string
	fn   RequestInterceptor
}

type namedResponseInterceptor struct {
	name string
	fn   ResponseInterceptor
}

// InterceptorChain manages ordered, named request and response interceptors.
// Installing an interceptor under a name that is already registered removes
// the previous registration first, so reconfiguration replaces rather than
// duplicates behavior.
type InterceptorChain struct {
	requestInterceptors  []namedRequestInterceptor
	responseInterceptors []namedResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// UseRequest installs a request interceptor under name, replacing any prior
// registration with the same name.
func (c *InterceptorChain) UseRequest(name string, interceptor RequestInterceptor) {
	c.RemoveRequest(name)
	c.requestInterceptors = append(c.requestInterceptors, namedRequestInterceptor{name: name, fn: interceptor})
}

// UseResponse installs a response interceptor under name, replacing any prior
// registration with the same name.
func (c *InterceptorChain) UseResponse(name string, interceptor ResponseInterceptor) {
	c.RemoveResponse(name)
	c.responseInterceptors = append(c.responseInterceptors, namedResponseInterceptor{name: name, fn: interceptor})
}

// RemoveRequest removes the request interceptor registered under name.
func (c *InterceptorChain) RemoveRequest(name string) {
	for i, entry := range c.requestInterceptors {
		if entry.name == name {
			c.requestInterceptors = append(c.requestInterceptors[:i], c.requestInterceptors[i+1:]...)

			return
		}
	}
}

// RemoveResponse removes the response interceptor registered under name.
func (c *InterceptorChain) RemoveResponse(name string) {
	for i, entry := range c.responseInterceptors {
		if entry.name == name {
			c.responseInterceptors = append(c.responseInterceptors[:i], c.responseInterceptors[i+1:]...)

			return
		}
	}
}

// RequestInterceptorNames returns the registered request interceptor names
// in execution order.
func (c *InterceptorChain) RequestInterceptorNames() []string {
	names := make([]string, len(c.requestInterceptors))
	for i, entry := range c.requestInterceptors {
		names[i] = entry.name
	}

	return names
}

// ResponseInterceptorNames returns the registered response interceptor names
// in execution order.
func (c *InterceptorChain) ResponseInterceptorNames() []string {
	names := make([]string, len(c.responseInterceptors))
	for i, entry := range c.responseInterceptors {
		names[i] = entry.name
	}

	return names
}

// ExecuteRequestInterceptors runs all request interceptors in order.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	for _, entry := range c.requestInterceptors {
		err := entry.fn(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor %q failed: %w", entry.name, err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors in order.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	for _, entry := range c.responseInterceptors {
		err := entry.fn(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor %q failed: %w", entry.name, err)
		}
	}

	return nil
}

// Standard interceptors

// ComposeUserAgent joins the non-blank parts with single spaces.
func ComposeUserAgent(parts ...string) string {
	kept := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			kept = append(kept, part)
		}
	}

	return strings.Join(kept, " ")
}

// UserAgentInterceptor sets the User-Agent header on every request.
func UserAgentInterceptor(userAgent string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		req.Headers.Set("User-Agent", userAgent)

		return nil
	}
}

// CacheInterceptor returns the request and response halves of response
// caching over manager.
//
// The request half looks up stored GET responses: a live entry short-circuits
// the network call via MetadataCachedResponse, and an expired-but-known ETag
// turns into an If-None-Match conditional request. The response half stores
// fresh 200 responses (greedy, subject to Cache-Control) and converts 304
// revalidations back into the stored body.
func CacheInterceptor(manager *CacheManager) (RequestInterceptor, ResponseInterceptor) {
	requestInterceptor := func(ctx context.Context, req *Request) error {
		if req.Method != http.MethodGet {
			return nil
		}

		key := manager.GetCacheKey(req.Method, req.Path, req.Query)

		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata[metadataCacheKey] = key

		entry, ok := manager.Get(ctx, key)
		if !ok {
			return nil
		}

		if !entry.Expired() {
			req.Metadata[MetadataCachedResponse] = &Response{
				StatusCode: http.StatusOK,
				Headers:    make(http.Header),
				Body:       entry.Data,
			}

			return nil
		}

		if entry.ETag != "" {
			if req.Headers == nil {
				req.Headers = make(http.Header)
			}

			req.Headers.Set("If-None-Match", entry.ETag)
		}

		return nil
	}

	responseInterceptor := func(ctx context.Context, req *Request, resp *Response) error {
		if req.Method != http.MethodGet {
			return nil
		}

		key, _ := req.Metadata[metadataCacheKey].(string)
		if key == "" {
			return nil
		}

		switch resp.StatusCode {
		case http.StatusOK:
			manager.Store(ctx, key, resp.Body, resp.Headers)
		case http.StatusNotModified:
			entry, ok := manager.Get(ctx, key)
			if ok {
				resp.StatusCode = http.StatusOK
				resp.Body = entry.Data
				manager.Refresh(ctx, key, entry)
			}
		}

		return nil
	}

	return requestInterceptor, responseInterceptor
}

// RateLimitInterceptor returns the request and response halves of outbound
// pacing over pacer. The request half delays until the last observed quota
// window permits another call; the response half records fresh quota headers.
func RateLimitInterceptor(pacer *Pacer) (RequestInterceptor, ResponseInterceptor) {
	requestInterceptor := func(ctx context.Context, req *Request) error {
		// A cache hit will not reach the network; pacing it wastes quota.
		if _, cached := req.Metadata[MetadataCachedResponse]; cached {
			return nil
		}

		return pacer.Wait(ctx)
	}

	responseInterceptor := func(ctx context.Context, req *Request, resp *Response) error {
		pacer.Observe(ctx, resp.Headers)

		return nil
	}

	return requestInterceptor, responseInterceptor
}

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		logger.Debug("API Response", map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		})

		return nil
	}
}
