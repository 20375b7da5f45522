package crossref

import (
	"errors"
	"fmt"
)

// APIError represents a non-2xx response from the API. It carries the HTTP
// status and the raw response body.
type APIError struct {
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Body       string `json:"body"        yaml:"body"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API request failed with status %d", e.StatusCode)
	}

	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// DecodeError represents a response body that could not be parsed as JSON.
type DecodeError struct {
	Err  error
	Body []byte
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response body: %v", e.Err)
}

// Unwrap returns the underlying JSON error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Static errors that can be wrapped with context.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrCacheKeyNotFound      = errors.New("key not found")
	ErrCacheEntryExpired     = errors.New("entry expired")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrRedisConfigRequired   = errors.New("redis configuration required for redis cache")
	ErrInvalidCacheTTL       = errors.New("cache TTL must be positive")
	ErrDOIRequired           = errors.New("DOI is required")
	ErrISSNRequired          = errors.New("ISSN is required")
	ErrPrefixRequired        = errors.New("prefix is required")
)

// IsNotFound checks whether the error is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}

	return false
}

// IsRateLimited checks whether the error is a 429 from the API.
func IsRateLimited(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}

	return false
}
