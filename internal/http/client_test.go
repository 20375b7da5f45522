package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/edent/crossref-client/internal/http"
	"github.com/edent/crossref-client/pkg/crossref"
)

func TestClientDo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL)

	resp, err := client.Get(context.Background(), "works", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(resp.Body), `"status":"ok"`)
}

func TestClientDo_QueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("rows"))
		assert.Equal(t, "type:journal-article", r.URL.Query().Get("filter"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL)

	query := url.Values{}
	query.Set("rows", "5")
	query.Set("filter", "type:journal-article")

	_, err := client.Get(context.Background(), "works", query)
	require.NoError(t, err)
}

func TestClientDo_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Resource not found"))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL)

	resp, err := client.Get(context.Background(), "works/10.5555/nope", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	apiErr := &crossref.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Resource not found", apiErr.Body)
	assert.True(t, crossref.IsNotFound(err))
}

func TestClientDo_UserAgent(t *testing.T) {
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, internalhttp.WithUserAgent("my-app/1.0"))
	client.Interceptors().UseRequest(crossref.InterceptorUserAgent,
		crossref.UserAgentInterceptor(client.UserAgent()))

	_, err := client.Get(context.Background(), "works", nil)
	require.NoError(t, err)

	assert.Contains(t, gotUserAgent, "my-app/1.0")
	assert.Contains(t, gotUserAgent, "crossref-client-go/")
	assert.Contains(t, gotUserAgent, "Go-http-client/1.1")
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name       string
		baseURL    string
		apiVersion string
		path       string
		want       string
	}{
		{
			name:    "no version",
			baseURL: "https://api.crossref.org",
			path:    "works",
			want:    "https://api.crossref.org/works",
		},
		{
			name:       "version prefixes relative path",
			baseURL:    "https://api.crossref.org",
			apiVersion: "v1",
			path:       "works",
			want:       "https://api.crossref.org/v1/works",
		},
		{
			name:       "absolute path bypasses version",
			baseURL:    "https://api.crossref.org",
			apiVersion: "v1",
			path:       "/works",
			want:       "https://api.crossref.org/works",
		},
		{
			name:    "trailing slash on base",
			baseURL: "https://api.crossref.org/",
			path:    "works",
			want:    "https://api.crossref.org/works",
		},
		{
			name:       "nested path",
			baseURL:    "https://api.crossref.org",
			apiVersion: "v1",
			path:       "works/10.5555/12345678/agency",
			want:       "https://api.crossref.org/v1/works/10.5555/12345678/agency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []internalhttp.Option{}
			if tt.apiVersion != "" {
				opts = append(opts, internalhttp.WithAPIVersion(tt.apiVersion))
			}

			client := internalhttp.NewClient(tt.baseURL, opts...)
			assert.Equal(t, tt.want, client.BuildURL(tt.path))
		})
	}
}

func TestSetAPIVersion(t *testing.T) {
	client := internalhttp.NewClient("https://api.crossref.org")
	assert.Equal(t, "https://api.crossref.org/works", client.BuildURL("works"))

	client.SetAPIVersion("v1")
	assert.Equal(t, "https://api.crossref.org/v1/works", client.BuildURL("works"))

	client.SetAPIVersion("")
	assert.Equal(t, "https://api.crossref.org/works", client.BuildURL("works"))
}

func TestClientDo_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL,
		internalhttp.WithRetryConfig(3, time.Millisecond, 5*time.Millisecond))

	resp, err := client.Get(context.Background(), "works", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientDo_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL,
		internalhttp.WithRetryConfig(3, time.Millisecond, 5*time.Millisecond))

	_, err := client.Get(context.Background(), "works", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientDo_CacheShortCircuit(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL)

	manager := crossref.NewCacheManager(crossref.NewMemoryCache(10), time.Minute, nil)
	cacheReq, cacheResp := crossref.CacheInterceptor(manager)
	client.Interceptors().UseRequest(crossref.InterceptorCache, cacheReq)
	client.Interceptors().UseResponse(crossref.InterceptorCache, cacheResp)

	ctx := context.Background()

	first, err := client.Get(ctx, "works", nil)
	require.NoError(t, err)

	second, err := client.Get(ctx, "works", nil)
	require.NoError(t, err)

	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, int32(1), calls.Load(), "second request should be served from cache")
}

func TestHead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)

		switch r.URL.Path {
		case "/works/10.5555/exists":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL)
	ctx := context.Background()

	resp, err := client.Head(ctx, "works/10.5555/exists")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// 404 is a valid answer for an existence probe, not an error.
	resp, err = client.Head(ctx, "works/10.5555/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
