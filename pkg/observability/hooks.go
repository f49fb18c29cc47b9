// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about conversion requests, cache lookups, retries and
// batch progress.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so pkg/nepdate never
// imports a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetHTTPHooks(recorder)
//	    observability.SetCacheHooks(recorder)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.HTTP().OnRequest(ctx, "GET", host, path)
//	// ... do request ...
//	observability.HTTP().OnResponse(ctx, "GET", host, path, status, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the in-memory result cache.
// direction is the conversion path segment, e.g. "ad-to-bs".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, direction string)
	OnCacheMiss(ctx context.Context, direction string)
	OnCacheSet(ctx context.Context, direction string, size int)
}

// =============================================================================
// Retry Hooks
// =============================================================================

// RetryHooks receives events from the retry policy.
type RetryHooks interface {
	// OnRetry is called after a failed attempt, before sleeping delay.
	OnRetry(ctx context.Context, attempt int, err error, delay time.Duration)

	// OnExhausted is called once when every attempt has failed.
	OnExhausted(ctx context.Context, attempts int, err error)
}

// =============================================================================
// Batch Hooks
// =============================================================================

// BatchHooks receives per-item events from the batch driver.
type BatchHooks interface {
	OnBatchItem(ctx context.Context, index int, success bool, duration time.Duration)
	OnBatchComplete(ctx context.Context, total, failed int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopRetryHooks is a no-op implementation of RetryHooks.
type NoopRetryHooks struct{}

func (NoopRetryHooks) OnRetry(context.Context, int, error, time.Duration) {}
func (NoopRetryHooks) OnExhausted(context.Context, int, error)            {}

// NoopBatchHooks is a no-op implementation of BatchHooks.
type NoopBatchHooks struct{}

func (NoopBatchHooks) OnBatchItem(context.Context, int, bool, time.Duration)     {}
func (NoopBatchHooks) OnBatchComplete(context.Context, int, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	retryHooks RetryHooks = NoopRetryHooks{}
	batchHooks BatchHooks = NoopBatchHooks{}
	hooksMu    sync.RWMutex
)

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetRetryHooks registers custom retry hooks.
func SetRetryHooks(h RetryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		retryHooks = h
	}
}

// SetBatchHooks registers custom batch hooks.
func SetBatchHooks(h BatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		batchHooks = h
	}
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Retry returns the registered retry hooks.
func Retry() RetryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return retryHooks
}

// Batch returns the registered batch hooks.
func Batch() BatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return batchHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	httpHooks = NoopHTTPHooks{}
	cacheHooks = NoopCacheHooks{}
	retryHooks = NoopRetryHooks{}
	batchHooks = NoopBatchHooks{}
}
