package crossrefclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edent/crossref-client/pkg/crossref"
	"github.com/edent/crossref-client/pkg/crossrefclient"
)

func TestNew_NilConfig(t *testing.T) {
	client, err := crossrefclient.New(nil)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNew_DefaultsApplied(t *testing.T) {
	config := &crossref.Config{}

	_, err := crossrefclient.New(config)
	require.NoError(t, err)

	assert.Equal(t, crossrefclient.DefaultBaseURL, config.BaseURL)
	assert.NotZero(t, config.HTTPTimeout)
	assert.NotZero(t, config.RetryMax)
}

func TestNew_NormalizesBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{
			name:    "trailing slash removed",
			baseURL: "https://api.crossref.org/",
			want:    "https://api.crossref.org",
		},
		{
			name:    "scheme added",
			baseURL: "api.crossref.org",
			want:    "https://api.crossref.org",
		},
		{
			name:    "http preserved",
			baseURL: "http://localhost:8080",
			want:    "http://localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &crossref.Config{BaseURL: tt.baseURL}

			_, err := crossrefclient.New(config)
			require.NoError(t, err)

			assert.Equal(t, tt.want, config.BaseURL)
		})
	}
}

func TestNew_ClientIsUsable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"message-type": "work",
			"message": {"DOI": "10.5555/12345678", "type": "journal-article"}
		}`))
	}))
	defer server.Close()

	client, err := crossrefclient.New(&crossref.Config{BaseURL: server.URL})
	require.NoError(t, err)

	work, err := client.Works().Get(context.Background(), "10.5555/12345678")
	require.NoError(t, err)
	assert.Equal(t, "10.5555/12345678", work.DOI)
}

func TestNew_InvalidCacheTTL(t *testing.T) {
	_, err := crossrefclient.New(&crossref.Config{
		Cache:    crossref.NewMemoryCache(10),
		CacheTTL: -1,
	})
	assert.ErrorIs(t, err, crossref.ErrInvalidCacheTTL)
}
