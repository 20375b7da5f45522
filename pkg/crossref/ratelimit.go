package crossref

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitStateKey is the fixed cache key under which rate-limit state is
// shared between process instances using the same cache.
const RateLimitStateKey = "crossref:rate-limit-state"

// Rate-limit response headers advertised by the API.
const (
	headerRateLimitLimit    = "X-Rate-Limit-Limit"
	headerRateLimitInterval = "X-Rate-Limit-Interval"
)

// RateLimitState is the most recently observed quota window.
type RateLimitState struct {
	// Limit is the number of requests allowed per Interval.
	Limit int `json:"limit"`

	// Interval is the quota window.
	Interval time.Duration `json:"interval"`

	// ObservedAt is when the state was read from a response.
	ObservedAt time.Time `json:"observed_at"`
}

// RequestsPerSecond converts the window into a steady request rate.
func (s RateLimitState) RequestsPerSecond() float64 {
	if s.Limit <= 0 || s.Interval <= 0 {
		return 0
	}

	return float64(s.Limit) / s.Interval.Seconds()
}

// ParseRateLimitState reads the quota headers from a response. The second
// return value is false when the headers are absent or malformed.
func ParseRateLimitState(headers http.Header) (RateLimitState, bool) {
	limitValue := headers.Get(headerRateLimitLimit)
	intervalValue := headers.Get(headerRateLimitInterval)

	if limitValue == "" || intervalValue == "" {
		return RateLimitState{}, false
	}

	limit, err := strconv.Atoi(limitValue)
	if err != nil || limit <= 0 {
		return RateLimitState{}, false
	}

	interval, ok := parseInterval(intervalValue)
	if !ok {
		return RateLimitState{}, false
	}

	return RateLimitState{
		Limit:      limit,
		Interval:   interval,
		ObservedAt: time.Now(),
	}, true
}

// parseInterval accepts the API's "1s"/"1m" form as well as a bare number
// of seconds.
func parseInterval(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0, false
		}

		return time.Duration(seconds) * time.Second, true
	}

	interval, err := time.ParseDuration(value)
	if err != nil || interval <= 0 {
		return 0, false
	}

	return interval, true
}

// RateLimitStateProvider tracks the last observed rate-limit state so the
// pacer can respect it before the next outbound call.
type RateLimitStateProvider interface {
	// State returns the last known state; ok is false if none was observed.
	State(ctx context.Context) (state RateLimitState, ok bool)

	// Update records a newly observed state.
	Update(ctx context.Context, state RateLimitState)
}

// MemoryStateProvider keeps rate-limit state for the process lifetime.
type MemoryStateProvider struct {
	mu    sync.RWMutex
	state RateLimitState
	known bool
}

// NewMemoryStateProvider creates an in-memory state provider.
func NewMemoryStateProvider() *MemoryStateProvider {
	return &MemoryStateProvider{}
}

// State implements RateLimitStateProvider.
func (p *MemoryStateProvider) State(ctx context.Context) (RateLimitState, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.state, p.known
}

// Update implements RateLimitStateProvider.
func (p *MemoryStateProvider) Update(ctx context.Context, state RateLimitState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = state
	p.known = true
}

// CachedStateProvider persists rate-limit state through a Cache under
// RateLimitStateKey so it survives across process instances. Cache failures
// never reach the request path: reads and writes fall back to an in-memory
// copy and the error is only logged.
type CachedStateProvider struct {
	cache    Cache
	fallback *MemoryStateProvider
	logger   Logger
}

// NewCachedStateProvider creates a cache-backed state provider.
func NewCachedStateProvider(cache Cache, logger Logger) *CachedStateProvider {
	return &CachedStateProvider{
		cache:    cache,
		fallback: NewMemoryStateProvider(),
		logger:   logger,
	}
}

// State implements RateLimitStateProvider.
func (p *CachedStateProvider) State(ctx context.Context) (RateLimitState, bool) {
	entry, err := p.cache.Get(ctx, RateLimitStateKey)
	if err != nil {
		return p.fallback.State(ctx)
	}

	var state RateLimitState

	err = json.Unmarshal(entry.Data, &state)
	if err != nil {
		p.warn("decoding cached rate-limit state failed", err)

		return p.fallback.State(ctx)
	}

	return state, true
}

// Update implements RateLimitStateProvider.
func (p *CachedStateProvider) Update(ctx context.Context, state RateLimitState) {
	p.fallback.Update(ctx, state)

	data, err := json.Marshal(state)
	if err != nil {
		p.warn("encoding rate-limit state failed", err)

		return
	}

	entry := &CacheEntry{
		Data: data,
		// State stays useful well beyond one quota window; a day bounds
		// staleness in shared caches.
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	err = p.cache.Set(ctx, RateLimitStateKey, entry)
	if err != nil {
		p.warn("persisting rate-limit state failed", err)
	}
}

func (p *CachedStateProvider) warn(msg string, err error) {
	if p.logger != nil {
		p.logger.Warn(msg, map[string]interface{}{"error": err.Error()})
	}
}

// Pacer delays outbound requests to stay inside the last observed quota
// window. Until a window has been observed it imposes no delay.
type Pacer struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	provider RateLimitStateProvider
	applied  RateLimitState
}

// NewPacer creates a pacer over the given state provider.
func NewPacer(provider RateLimitStateProvider) *Pacer {
	return &Pacer{
		limiter:  rate.NewLimiter(rate.Inf, 1),
		provider: provider,
	}
}

// SetProvider swaps the state provider, keeping the current pacing until the
// new provider reports a state.
func (p *Pacer) SetProvider(provider RateLimitStateProvider) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.provider = provider
}

// Wait blocks until a request may be sent under the last known quota, or
// until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()

	state, ok := p.provider.State(ctx)
	if ok && state != p.applied {
		rps := state.RequestsPerSecond()
		if rps > 0 {
			p.limiter.SetLimit(rate.Limit(rps))
			p.limiter.SetBurst(state.Limit)
		} else {
			p.limiter.SetLimit(rate.Inf)
		}

		p.applied = state
	}

	limiter := p.limiter
	p.mu.Unlock()

	return limiter.Wait(ctx)
}

// Observe records the quota headers of a response, if present.
func (p *Pacer) Observe(ctx context.Context, headers http.Header) {
	state, ok := ParseRateLimitState(headers)
	if !ok {
		return
	}

	p.mu.Lock()
	provider := p.provider
	p.mu.Unlock()

	provider.Update(ctx, state)
}
