// Package client implements the crossref.Client interface.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/edent/crossref-client/internal/constants"
	"github.com/edent/crossref-client/internal/http"
	"github.com/edent/crossref-client/pkg/crossref"
)

// Client implements the crossref.Client interface.
type Client struct {
	httpClient *http.Client
	logger     crossref.Logger
	userAgent  string
	mailto     string
	pacer      *crossref.Pacer

	// Resource clients
	works    crossref.WorksClient
	members  crossref.MembersClient
	funders  crossref.FundersClient
	journals crossref.JournalsClient
	types    crossref.TypesClient
	prefixes crossref.PrefixesClient
	licenses crossref.LicensesClient
}

// New creates a new Crossref API client from config. The config must have a
// BaseURL; crossrefclient.New fills in defaults before calling this.
func New(config *crossref.Config) (*Client, error) {
	if config == nil {
		return nil, crossref.ErrConfigRequired
	}

	httpOpts := createHTTPClientOptions(config)
	httpClient := http.NewClient(config.BaseURL, httpOpts...)

	client := &Client{
		httpClient: httpClient,
		logger:     config.Logger,
		userAgent:  config.UserAgent,
		mailto:     config.Mailto,
	}

	client.installUserAgent()

	if config.Cache != nil {
		if config.CacheTTL < 0 {
			return nil, crossref.ErrInvalidCacheTTL
		}

		client.installCache(config.Cache, config.CacheTTL)
	}

	client.installRateLimit()

	if config.Debug && config.Logger != nil {
		chain := httpClient.Interceptors()
		chain.UseRequest(crossref.InterceptorLogging, crossref.LoggingInterceptor(config.Logger))
		chain.UseResponse(crossref.InterceptorLogging, crossref.LoggingResponseInterceptor(config.Logger))
	}

	client.initializeResourceClients()

	return client, nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *crossref.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.APIVersion != "" {
		httpOpts = append(httpOpts, http.WithAPIVersion(config.APIVersion))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// installUserAgent (re)installs the User-Agent interceptor with the current
// composed string.
func (c *Client) installUserAgent() {
	userAgent := crossref.ComposeUserAgent(c.userAgent, crossref.ClientIdentifier, "Go-http-client/1.1")
	c.httpClient.Interceptors().UseRequest(crossref.InterceptorUserAgent, crossref.UserAgentInterceptor(userAgent))
}

// installCache (re)installs response caching over cache, and rebinds the
// rate-limit state provider to the same cache so paced state is shared.
func (c *Client) installCache(cache crossref.Cache, ttl time.Duration) {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}

	manager := crossref.NewCacheManager(cache, ttl, c.logger)
	reqInterceptor, respInterceptor := crossref.CacheInterceptor(manager)

	chain := c.httpClient.Interceptors()
	chain.UseRequest(crossref.InterceptorCache, reqInterceptor)
	chain.UseResponse(crossref.InterceptorCache, respInterceptor)

	if c.pacer != nil {
		c.pacer.SetProvider(crossref.NewCachedStateProvider(cache, c.logger))
	} else {
		c.pacer = crossref.NewPacer(crossref.NewCachedStateProvider(cache, c.logger))
	}
}

// installRateLimit (re)installs outbound pacing. Without a cache the state
// provider is in-memory only.
func (c *Client) installRateLimit() {
	if c.pacer == nil {
		c.pacer = crossref.NewPacer(crossref.NewMemoryStateProvider())
	}

	reqInterceptor, respInterceptor := crossref.RateLimitInterceptor(c.pacer)

	chain := c.httpClient.Interceptors()
	chain.UseRequest(crossref.InterceptorRateLimit, reqInterceptor)
	chain.UseResponse(crossref.InterceptorRateLimit, respInterceptor)
}

// Request implements crossref.RawClient.Request.
func (c *Client) Request(ctx context.Context, path string, params map[string]interface{}) (interface{}, error) {
	query := crossref.EncodeParams(params)
	if c.mailto != "" && query.Get("mailto") == "" {
		query.Set("mailto", c.mailto)
	}

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", path, err)
	}

	var value interface{}

	err = json.Unmarshal(resp.Body, &value)
	if err != nil {
		return nil, &crossref.DecodeError{Err: err, Body: resp.Body}
	}

	return value, nil
}

// Exists implements crossref.RawClient.Exists. Only a 404 maps to false;
// other failures (403, 5xx, transport errors) propagate as errors.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	resp, err := c.httpClient.Head(ctx, path)
	if err != nil {
		return false, fmt.Errorf("probing %s: %w", path, err)
	}

	return resp.StatusCode == constants.HTTPStatusOK, nil
}

// SetUserAgent implements crossref.Configurable. It takes effect on the next
// request by reinstalling the User-Agent interceptor.
func (c *Client) SetUserAgent(userAgent string) {
	c.userAgent = userAgent
	c.installUserAgent()
}

// SetCache implements crossref.Configurable. Reinstallation by name
// guarantees a single active cache behavior regardless of how often the
// cache is swapped.
func (c *Client) SetCache(cache crossref.Cache, ttl time.Duration) {
	c.installCache(cache, ttl)
	c.installRateLimit()
}

// SetVersion implements crossref.Configurable.
func (c *Client) SetVersion(version string) {
	c.httpClient.SetAPIVersion(version)
}

// HTTPClient exposes the transport for resource clients and tests.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Resource client accessors

// Works implements crossref.Client.Works.
func (c *Client) Works() crossref.WorksClient {
	return c.works
}

// Members implements crossref.Client.Members.
func (c *Client) Members() crossref.MembersClient {
	return c.members
}

// Funders implements crossref.Client.Funders.
func (c *Client) Funders() crossref.FundersClient {
	return c.funders
}

// Journals implements crossref.Client.Journals.
func (c *Client) Journals() crossref.JournalsClient {
	return c.journals
}

// Types implements crossref.Client.Types.
func (c *Client) Types() crossref.TypesClient {
	return c.types
}

// Prefixes implements crossref.Client.Prefixes.
func (c *Client) Prefixes() crossref.PrefixesClient {
	return c.prefixes
}

// Licenses implements crossref.Client.Licenses.
func (c *Client) Licenses() crossref.LicensesClient {
	return c.licenses
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.works = NewWorksClient(c)
	c.members = NewMembersClient(c)
	c.funders = NewFundersClient(c)
	c.journals = NewJournalsClient(c)
	c.types = NewTypesClient(c)
	c.prefixes = NewPrefixesClient(c)
	c.licenses = NewLicensesClient(c)
}

// listQuery builds query values for resource clients, adding the configured
// contact address when the caller did not set one.
func (c *Client) listQuery(params *crossref.QueryParams) url.Values {
	query := params.ToValues()
	if c.mailto != "" && query.Get("mailto") == "" {
		query.Set("mailto", c.mailto)
	}

	return query
}

// loggerAdapter adapts crossref.Logger to http.Logger.
type loggerAdapter struct {
	logger crossref.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
