package crossref_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edent/crossref-client/pkg/crossref"
)

func TestInterceptorChain_ExecutionOrder(t *testing.T) {
	chain := crossref.NewInterceptorChain()
	ctx := context.Background()

	var executionOrder []string

	chain.UseRequest("first", func(ctx context.Context, req *crossref.Request) error {
		executionOrder = append(executionOrder, "first")
		return nil
	})

	chain.UseRequest("second", func(ctx context.Context, req *crossref.Request) error {
		executionOrder = append(executionOrder, "second")
		return nil
	})

	req := &crossref.Request{Method: "GET", Path: "works"}

	err := chain.ExecuteRequestInterceptors(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, executionOrder)
}

func TestInterceptorChain_ReplaceByName(t *testing.T) {
	chain := crossref.NewInterceptorChain()
	ctx := context.Background()

	var calls []string

	chain.UseRequest("user-agent", func(ctx context.Context, req *crossref.Request) error {
		calls = append(calls, "old")
		return nil
	})

	// Reinstalling under the same name replaces, not duplicates.
	chain.UseRequest("user-agent", func(ctx context.Context, req *crossref.Request) error {
		calls = append(calls, "new")
		return nil
	})

	err := chain.ExecuteRequestInterceptors(ctx, &crossref.Request{Method: "GET", Path: "works"})
	require.NoError(t, err)

	assert.Equal(t, []string{"new"}, calls)
	assert.Equal(t, []string{"user-agent"}, chain.RequestInterceptorNames())
}

func TestInterceptorChain_Remove(t *testing.T) {
	chain := crossref.NewInterceptorChain()

	chain.UseRequest("a", func(ctx context.Context, req *crossref.Request) error { return nil })
	chain.UseRequest("b", func(ctx context.Context, req *crossref.Request) error { return nil })
	chain.UseResponse("c", func(ctx context.Context, req *crossref.Request, resp *crossref.Response) error { return nil })

	chain.RemoveRequest("a")
	chain.RemoveResponse("c")

	assert.Equal(t, []string{"b"}, chain.RequestInterceptorNames())
	assert.Empty(t, chain.ResponseInterceptorNames())
}

func TestInterceptorChain_ErrorStopsChain(t *testing.T) {
	chain := crossref.NewInterceptorChain()
	ctx := context.Background()

	errBoom := errors.New("boom")
	secondCalled := false

	chain.UseRequest("failing", func(ctx context.Context, req *crossref.Request) error {
		return errBoom
	})

	chain.UseRequest("after", func(ctx context.Context, req *crossref.Request) error {
		secondCalled = true
		return nil
	})

	err := chain.ExecuteRequestInterceptors(ctx, &crossref.Request{Method: "GET", Path: "works"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "failing")
	assert.False(t, secondCalled)
}

func TestComposeUserAgent(t *testing.T) {
	assert.Equal(t, "my-app/1.0 crossref-client-go/1.0 Go-http-client/1.1",
		crossref.ComposeUserAgent("my-app/1.0", "crossref-client-go/1.0", "Go-http-client/1.1"))

	assert.Equal(t, "crossref-client-go/1.0",
		crossref.ComposeUserAgent("", "crossref-client-go/1.0", "  "))

	assert.Equal(t, "", crossref.ComposeUserAgent("", "   "))
}

func TestUserAgentInterceptor(t *testing.T) {
	interceptor := crossref.UserAgentInterceptor("my-app/1.0")
	req := &crossref.Request{Method: "GET", Path: "works"}

	err := interceptor(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "my-app/1.0", req.Headers.Get("User-Agent"))
}

func TestCacheInterceptor_HitShortCircuits(t *testing.T) {
	ctx := context.Background()
	manager := crossref.NewCacheManager(crossref.NewMemoryCache(10), time.Minute, nil)
	requestHalf, responseHalf := crossref.CacheInterceptor(manager)

	query := url.Values{"rows": []string{"5"}}
	req := &crossref.Request{Method: "GET", Path: "works", Query: query}

	// First pass: miss, then a 200 response gets stored.
	require.NoError(t, requestHalf(ctx, req))
	_, cached := req.Metadata[crossref.MetadataCachedResponse]
	assert.False(t, cached)

	resp := &crossref.Response{
		StatusCode: http.StatusOK,
		Headers:    http.Header{},
		Body:       []byte(`{"status":"ok"}`),
	}
	require.NoError(t, responseHalf(ctx, req, resp))

	// Second pass: the stored response short-circuits.
	req2 := &crossref.Request{Method: "GET", Path: "works", Query: query}
	require.NoError(t, requestHalf(ctx, req2))

	stored, ok := req2.Metadata[crossref.MetadataCachedResponse].(*crossref.Response)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, stored.StatusCode)
	assert.Equal(t, []byte(`{"status":"ok"}`), stored.Body)
}

func TestCacheInterceptor_IgnoresNonGET(t *testing.T) {
	ctx := context.Background()
	manager := crossref.NewCacheManager(crossref.NewMemoryCache(10), time.Minute, nil)
	requestHalf, _ := crossref.CacheInterceptor(manager)

	req := &crossref.Request{Method: "HEAD", Path: "works/10.5555/12345678"}
	require.NoError(t, requestHalf(ctx, req))

	assert.Empty(t, req.Metadata)
}

func TestCacheInterceptor_NotModifiedReplaysBody(t *testing.T) {
	ctx := context.Background()
	cache := crossref.NewMemoryCache(10)
	manager := crossref.NewCacheManager(cache, time.Minute, nil)
	requestHalf, responseHalf := crossref.CacheInterceptor(manager)

	// Seed an expired entry with an ETag directly.
	key := manager.GetCacheKey("GET", "works", nil)
	require.NoError(t, cache.Set(ctx, key, &crossref.CacheEntry{
		Data:      []byte(`{"status":"ok"}`),
		ExpiresAt: time.Now().Add(time.Minute),
		ETag:      `"abc123"`,
	}))

	req := &crossref.Request{Method: "GET", Path: "works"}
	require.NoError(t, requestHalf(ctx, req))

	resp := &crossref.Response{StatusCode: http.StatusNotModified, Headers: http.Header{}}
	require.NoError(t, responseHalf(ctx, req, resp))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte(`{"status":"ok"}`), resp.Body)
}

func TestCacheInterceptor_ExpiredEntrySendsIfNoneMatch(t *testing.T) {
	ctx := context.Background()

	// staleCache returns entries regardless of expiry, like backends that
	// leave TTL enforcement to the reader.
	cache := &staleCache{entries: map[string]*crossref.CacheEntry{}}
	manager := crossref.NewCacheManager(cache, time.Minute, nil)
	requestHalf, _ := crossref.CacheInterceptor(manager)

	key := manager.GetCacheKey("GET", "works", nil)
	cache.entries[key] = &crossref.CacheEntry{
		Data:      []byte(`{"status":"ok"}`),
		ExpiresAt: time.Now().Add(-time.Minute),
		ETag:      `"abc123"`,
	}

	req := &crossref.Request{Method: "GET", Path: "works"}
	require.NoError(t, requestHalf(ctx, req))

	// Expired entry must not short-circuit, only revalidate.
	_, cached := req.Metadata[crossref.MetadataCachedResponse]
	assert.False(t, cached)
	assert.Equal(t, `"abc123"`, req.Headers.Get("If-None-Match"))
}

func TestRateLimitInterceptor_SkipsCachedResponses(t *testing.T) {
	ctx := context.Background()

	provider := crossref.NewMemoryStateProvider()
	provider.Update(ctx, crossref.RateLimitState{
		Limit:      1,
		Interval:   time.Hour,
		ObservedAt: time.Now(),
	})

	pacer := crossref.NewPacer(provider)
	requestHalf, _ := crossref.RateLimitInterceptor(pacer)

	// Burn the single token.
	require.NoError(t, pacer.Wait(ctx))

	// A cached response must not wait on the exhausted limiter.
	req := &crossref.Request{
		Method: "GET",
		Path:   "works",
		Metadata: map[string]interface{}{
			crossref.MetadataCachedResponse: &crossref.Response{StatusCode: http.StatusOK},
		},
	}

	done := make(chan error, 1)
	go func() { done <- requestHalf(ctx, req) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("cached request should not be paced")
	}
}

func TestRateLimitInterceptor_ObservesHeaders(t *testing.T) {
	ctx := context.Background()
	provider := crossref.NewMemoryStateProvider()
	pacer := crossref.NewPacer(provider)
	_, responseHalf := crossref.RateLimitInterceptor(pacer)

	headers := http.Header{}
	headers.Set("X-Rate-Limit-Limit", "50")
	headers.Set("X-Rate-Limit-Interval", "1s")

	resp := &crossref.Response{StatusCode: http.StatusOK, Headers: headers}
	require.NoError(t, responseHalf(ctx, &crossref.Request{Method: "GET", Path: "works"}, resp))

	state, ok := provider.State(ctx)
	require.True(t, ok)
	assert.Equal(t, 50, state.Limit)
	assert.Equal(t, time.Second, state.Interval)
}

// staleCache is a Cache that serves expired entries.
type staleCache struct {
	entries map[string]*crossref.CacheEntry
}

func (c *staleCache) Get(ctx context.Context, key string) (*crossref.CacheEntry, error) {
	entry, ok := c.entries[key]
	if !ok {
		return nil, crossref.ErrCacheKeyNotFound
	}

	return entry, nil
}

func (c *staleCache) Set(ctx context.Context, key string, entry *crossref.CacheEntry) error {
	c.entries[key] = entry
	return nil
}

func (c *staleCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *staleCache) Clear(ctx context.Context) error {
	c.entries = map[string]*crossref.CacheEntry{}
	return nil
}

func (c *staleCache) Has(ctx context.Context, key string) bool {
	_, ok := c.entries[key]
	return ok
}
