// Package observability lets an embedding program watch local file
// assembly, the content cache and calls to the content API.
//
// Every hook set has a no-op default, so packages call them
// unconditionally. A program that exports metrics registers its own
// implementation once at startup:
//
//	observability.SetAssemblyHooks(promAssemblyHooks{})
//
// The pipeline then reports each stage of a run:
//
//	observability.Assembly().OnResolveStart(ctx, entity.ID, bp.Sections.Len())
//	observability.Assembly().OnResolveComplete(ctx, entity.ID, unresolved, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// AssemblyHooks receives the stage events of a pipeline run. Render and
// compile completions carry the stage error, if any.
type AssemblyHooks interface {
	OnResolveStart(ctx context.Context, entity string, sections int)
	OnResolveComplete(ctx context.Context, entity string, unresolved int, duration time.Duration)

	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)

	// Compile events fire for PDF output only.
	OnCompileStart(ctx context.Context, texPath string)
	OnCompileComplete(ctx context.Context, texPath string, duration time.Duration, err error)
}

// CacheHooks receives content cache lookups. keyType is the kind of key,
// currently always "content".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives content API calls. OnError is for transport failures;
// error statuses arrive through OnResponse.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

type (
	NoopAssemblyHooks struct{}
	NoopCacheHooks    struct{}
	NoopHTTPHooks     struct{}
)

func (NoopAssemblyHooks) OnResolveStart(context.Context, string, int)                         {}
func (NoopAssemblyHooks) OnResolveComplete(context.Context, string, int, time.Duration)       {}
func (NoopAssemblyHooks) OnRenderStart(context.Context, string)                               {}
func (NoopAssemblyHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}
func (NoopAssemblyHooks) OnCompileStart(context.Context, string)                              {}
func (NoopAssemblyHooks) OnCompileComplete(context.Context, string, time.Duration, error)     {}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

var (
	mu            sync.RWMutex
	assemblyHooks AssemblyHooks = NoopAssemblyHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
)

// SetAssemblyHooks replaces the assembly hooks. nil is ignored.
func SetAssemblyHooks(h AssemblyHooks) {
	if h == nil {
		return
	}
	mu.Lock()
	assemblyHooks = h
	mu.Unlock()
}

// SetCacheHooks replaces the cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	mu.Lock()
	cacheHooks = h
	mu.Unlock()
}

// SetHTTPHooks replaces the HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	mu.Lock()
	httpHooks = h
	mu.Unlock()
}

func Assembly() AssemblyHooks {
	mu.RLock()
	defer mu.RUnlock()
	return assemblyHooks
}

func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}

func HTTP() HTTPHooks {
	mu.RLock()
	defer mu.RUnlock()
	return httpHooks
}

// Reset restores the no-op hooks. Tests that register hooks call it in
// t.Cleanup.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	assemblyHooks = NoopAssemblyHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
