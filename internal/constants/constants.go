package constants

import "time"

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as HEAD probes.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Cache defaults.
const (
	// DefaultCacheTTL is the default time-to-live for cached responses.
	DefaultCacheTTL = 1200 * time.Second

	// DefaultCacheSize is the default maximum number of entries in the
	// in-memory cache.
	DefaultCacheSize = 1000

	// DefaultCacheCleanupInterval is how often expired entries are swept.
	DefaultCacheCleanupInterval = time.Minute
)

// Query defaults.
const (
	// DefaultRows is the number of list items requested per page when the
	// caller does not specify one.
	DefaultRows = 20

	// MaxRows is the largest page size the API accepts.
	MaxRows = 1000
)

// HTTP status codes commonly used.
const (
	// HTTPStatusOK represents a successful HTTP response.
	HTTPStatusOK = 200

	// HTTPStatusNotModified represents a conditional request match.
	HTTPStatusNotModified = 304

	// HTTPStatusBadRequest represents a client error.
	HTTPStatusBadRequest = 400

	// HTTPStatusNotFound represents a missing resource.
	HTTPStatusNotFound = 404

	// HTTPStatusTooManyRequests represents a rate-limited request.
	HTTPStatusTooManyRequests = 429

	// HTTPStatusInternalServerError represents a server error.
	HTTPStatusInternalServerError = 500
)
