package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edent/crossref-client/internal/client"
	"github.com/edent/crossref-client/pkg/crossref"
)

func newTestClient(t *testing.T, handler http.Handler, config *crossref.Config) *client.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	if config == nil {
		config = &crossref.Config{}
	}

	config.BaseURL = server.URL

	c, err := client.New(config)
	require.NoError(t, err)

	return c
}

func TestNew_NilConfig(t *testing.T) {
	_, err := client.New(nil)
	assert.ErrorIs(t, err, crossref.ErrConfigRequired)
}

func TestNew_NegativeCacheTTL(t *testing.T) {
	_, err := client.New(&crossref.Config{
		BaseURL:  "https://api.crossref.org",
		Cache:    crossref.NewMemoryCache(10),
		CacheTTL: -time.Second,
	})
	assert.ErrorIs(t, err, crossref.ErrInvalidCacheTTL)
}

func TestRequest_DecodesJSON(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/types", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","message-type":"type-list","message":{"total-results":2}}`))
	}), nil)

	value, err := c.Request(context.Background(), "types", nil)
	require.NoError(t, err)

	tree, ok := value.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ok", tree["status"])
}

func TestRequest_EncodesFilterParams(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a:1,b:true,b:false", r.URL.Query().Get("filter"))
		assert.Equal(t, "5", r.URL.Query().Get("rows"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}), nil)

	_, err := c.Request(context.Background(), "works", map[string]interface{}{
		"rows": 5,
		"filter": map[string]interface{}{
			"a": 1,
			"b": []interface{}{true, false},
		},
	})
	require.NoError(t, err)
}

func TestRequest_AddsMailto(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ops@example.com", r.URL.Query().Get("mailto"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}), &crossref.Config{Mailto: "ops@example.com"})

	_, err := c.Request(context.Background(), "works", nil)
	require.NoError(t, err)
}

func TestRequest_CallerMailtoWins(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "caller@example.com", r.URL.Query().Get("mailto"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}), &crossref.Config{Mailto: "ops@example.com"})

	_, err := c.Request(context.Background(), "works", map[string]interface{}{
		"mailto": "caller@example.com",
	})
	require.NoError(t, err)
}

func TestRequest_DecodeError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>not json</html>"))
	}), nil)

	_, err := c.Request(context.Background(), "works", nil)
	require.Error(t, err)

	decodeErr := &crossref.DecodeError{}
	assert.ErrorAs(t, err, &decodeErr)
}

func TestRequest_APIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad filter"))
	}), nil)

	_, err := c.Request(context.Background(), "works", nil)
	require.Error(t, err)

	apiErr := &crossref.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestExists(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)

		switch r.URL.Path {
		case "/works/10.5555/exists":
			w.WriteHeader(http.StatusOK)
		case "/works/10.5555/forbidden":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}), nil)

	ctx := context.Background()

	exists, err := c.Exists(ctx, "works/10.5555/exists")
	require.NoError(t, err)
	assert.True(t, exists)

	// A 404 is the "does not exist" answer, not a failure.
	exists, err = c.Exists(ctx, "works/10.5555/missing")
	require.NoError(t, err)
	assert.False(t, exists)

	// Anything else is a failure the caller must see.
	_, err = c.Exists(ctx, "works/10.5555/forbidden")
	require.Error(t, err)

	apiErr := &crossref.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestSetVersion(t *testing.T) {
	var paths []string

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}), nil)

	ctx := context.Background()

	_, err := c.Request(ctx, "works", nil)
	require.NoError(t, err)

	c.SetVersion("v1")

	_, err = c.Request(ctx, "works", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"/works", "/v1/works"}, paths)
}

func TestSetUserAgent(t *testing.T) {
	var userAgents []string

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents = append(userAgents, r.Header.Get("User-Agent"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}), &crossref.Config{UserAgent: "first/1.0"})

	ctx := context.Background()

	_, err := c.Request(ctx, "works", nil)
	require.NoError(t, err)

	c.SetUserAgent("second/2.0")

	_, err = c.Request(ctx, "works", nil)
	require.NoError(t, err)

	require.Len(t, userAgents, 2)
	assert.Contains(t, userAgents[0], "first/1.0")
	assert.Contains(t, userAgents[1], "second/2.0")
	assert.NotContains(t, userAgents[1], "first/1.0")
}

func TestCaching_SecondRequestSkipsNetwork(t *testing.T) {
	var calls atomic.Int32

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}), &crossref.Config{Cache: crossref.NewMemoryCache(10)})

	ctx := context.Background()

	_, err := c.Request(ctx, "works", nil)
	require.NoError(t, err)

	_, err = c.Request(ctx, "works", nil)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
}

func TestNoCaching_EveryRequestHitsNetwork(t *testing.T) {
	var calls atomic.Int32

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}), nil)

	ctx := context.Background()

	_, err := c.Request(ctx, "works", nil)
	require.NoError(t, err)

	_, err = c.Request(ctx, "works", nil)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestSetCache_ReplacesNotDuplicates(t *testing.T) {
	var calls atomic.Int32

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}), nil)

	// Installing a cache twice must leave one active cache behavior.
	c.SetCache(crossref.NewMemoryCache(10), time.Minute)
	c.SetCache(crossref.NewMemoryCache(10), time.Minute)

	chain := c.HTTPClient().Interceptors()
	assert.Equal(t,
		[]string{"user-agent", "cache", "rate-limit"},
		chain.RequestInterceptorNames())

	ctx := context.Background()

	_, err := c.Request(ctx, "works", nil)
	require.NoError(t, err)

	_, err = c.Request(ctx, "works", nil)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
}
