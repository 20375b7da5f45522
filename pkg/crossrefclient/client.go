// Package crossrefclient provides the main entry point for creating
// Crossref API clients.
package crossrefclient

import (
	"fmt"
	"strings"

	"github.com/edent/crossref-client/internal/client"
	"github.com/edent/crossref-client/internal/constants"
	"github.com/edent/crossref-client/pkg/crossref"
)

// DefaultBaseURL is the public Crossref REST API endpoint.
const DefaultBaseURL = "https://api.crossref.org"

// New creates a new Crossref API client.
//
// A nil config is valid and produces a client against the public API with
// default timeouts and retries. Pass a Config to identify the caller
// (Mailto, UserAgent), enable caching, or pin an API version.
func New(config *crossref.Config) (crossref.Client, error) {
	if config == nil {
		config = &crossref.Config{}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	// Normalize the endpoint
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	config.BaseURL = baseURL

	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	if config.RetryMax == 0 {
		config.RetryMax = constants.DefaultRetryMax
	}

	cli, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return cli, nil
}
