package crossref

import (
	"context"
	"time"
)

// WorksClient provides access to the /works endpoints.
type WorksClient interface {
	Get(ctx context.Context, doi string) (*Work, error)
	List(ctx context.Context, params *QueryParams) (*WorkList, error)
	Agency(ctx context.Context, doi string) (*Agency, error)
	Exists(ctx context.Context, doi string) (bool, error)
}

// MembersClient provides access to the /members endpoints.
type MembersClient interface {
	Get(ctx context.Context, id int) (*Member, error)
	List(ctx context.Context, params *QueryParams) (*MemberList, error)
	Works(ctx context.Context, id int, params *QueryParams) (*WorkList, error)
}

// FundersClient provides access to the /funders endpoints.
type FundersClient interface {
	Get(ctx context.Context, id string) (*Funder, error)
	List(ctx context.Context, params *QueryParams) (*FunderList, error)
	Works(ctx context.Context, id string, params *QueryParams) (*WorkList, error)
}

// JournalsClient provides access to the /journals endpoints.
type JournalsClient interface {
	Get(ctx context.Context, issn string) (*Journal, error)
	List(ctx context.Context, params *QueryParams) (*JournalList, error)
	Works(ctx context.Context, issn string, params *QueryParams) (*WorkList, error)
}

// TypesClient provides access to the /types endpoints.
type TypesClient interface {
	Get(ctx context.Context, id string) (*WorkType, error)
	List(ctx context.Context) (*WorkTypeList, error)
}

// PrefixesClient provides access to the /prefixes endpoints.
type PrefixesClient interface {
	Get(ctx context.Context, prefix string) (*Prefix, error)
	Works(ctx context.Context, prefix string, params *QueryParams) (*WorkList, error)
}

// LicensesClient provides access to the /licenses endpoint.
type LicensesClient interface {
	List(ctx context.Context, params *QueryParams) (*LicenseList, error)
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	Works() WorksClient
	Members() MembersClient
	Funders() FundersClient
	Journals() JournalsClient
	Types() TypesClient
	Prefixes() PrefixesClient
	Licenses() LicensesClient
}

// RawClient exposes the generic request surface underneath the typed clients.
type RawClient interface {
	// Request issues a GET against path, encodes params per EncodeParams, and
	// returns the decoded JSON body as a generic value tree.
	Request(ctx context.Context, path string, params map[string]interface{}) (interface{}, error)

	// Exists issues a HEAD against path. It returns true for a 200 response
	// and false for a 404. Any other failure is returned as an error.
	Exists(ctx context.Context, path string) (bool, error)
}

// Configurable exposes the runtime configuration mutators. They take effect
// on the next request; they are not safe for concurrent use with in-flight
// requests and need external synchronization when the client is shared.
type Configurable interface {
	SetUserAgent(userAgent string)
	SetCache(cache Cache, ttl time.Duration)
	SetVersion(version string)
}

// Client is the full Crossref API client surface.
type Client interface {
	ResourceClients
	RawClient
	Configurable
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a crossref.Client.
//
// The zero value is usable: crossrefclient.New fills in the public API
// endpoint, a default timeout, and retry settings. Set Mailto to join the
// polite pool; Crossref routes requests that identify their operator to
// better-provisioned servers.
type Config struct {
	// BaseURL: base URL for the API. Defaults to https://api.crossref.org.
	BaseURL string

	// APIVersion: optional version segment (e.g. "v1") prepended to relative
	// request paths. Paths that start with "/" are used as-is.
	APIVersion string

	// UserAgent: optional caller identifier prepended to the client's own
	// User-Agent string.
	UserAgent string

	// Mailto: contact address appended to every request's query string.
	Mailto string

	// Cache: optional response cache. When set, GET responses are stored and
	// replayed for the configured TTL, and rate-limit state is shared through
	// the same cache.
	Cache Cache

	// CacheTTL: upper bound on how long responses stay cached. Defaults to
	// 1200 seconds when a Cache is set without a TTL.
	CacheTTL time.Duration

	// HTTPTimeout: optional default HTTP timeout. Most calls should rely on
	// context timeouts instead.
	HTTPTimeout time.Duration

	// RetryMax: maximum number of retries for transient failures (>=500, 429,
	// and connection errors). If 0, a sensible default is used.
	RetryMax int

	// RetryWaitMin: minimum backoff between retries.
	RetryWaitMin time.Duration

	// RetryWaitMax: maximum backoff between retries.
	RetryWaitMax time.Duration

	// Debug: enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool

	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
}
