// Package observability exposes event hooks for metrics and tracing.
//
// Instrumentation is optional and backend-agnostic. Consumers register hooks
// at startup to receive events about highlighting, rendering, cache traffic
// and HTTP requests served by the session server.
//
// Each category has a hook interface, a no-op default and a Set function.
// Hooks are registered by main, never by libraries, so there are no import
// cycles and the library stays free of observability frameworks.
//
// # Usage
//
//	observability.SetHighlightHooks(promHighlightHooks{})
//	observability.SetServerHooks(promServerHooks{})
//
// Libraries emit events:
//
//	observability.Highlight().OnShow("traceback", index, len(path))
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/tracegrid/pkg/align"
)

// HighlightHooks receives events from the path highlighter. The highlighter
// runs to completion without I/O, so these hooks take no context.
type HighlightHooks interface {
	// OnShow records a traceback or flow toggle. index is the traceback
	// path index (0 for flows); cells is 0 when the kind was hidden.
	OnShow(kind string, index, cells int)

	// OnRedraw records a full overlay rebuild.
	OnRedraw(lines int, duration time.Duration)

	// OnStaleCell records a path cell that no longer exists in the grid.
	OnStaleCell(cell align.Cell)
}

// PipelineHooks receives events from the render pipeline runner, once per
// call regardless of how many formats came from the cache.
type PipelineHooks interface {
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives artifact cache traffic. keyType is "artifact",
// "graph" or "export".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives one event per HTTP request. route is the chi route
// pattern, so session IDs do not explode label cardinality.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopHighlightHooks is a no-op implementation of HighlightHooks.
type NoopHighlightHooks struct{}

func (NoopHighlightHooks) OnShow(string, int, int)     {}
func (NoopHighlightHooks) OnRedraw(int, time.Duration) {}
func (NoopHighlightHooks) OnStaleCell(align.Cell)      {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// registry is replaced wholesale on every Set so readers never lock.
type registry struct {
	highlight HighlightHooks
	pipeline  PipelineHooks
	cache     CacheHooks
	server    ServerHooks
}

var (
	current atomic.Pointer[registry]
	writeMu sync.Mutex
)

func init() { Reset() }

func update(fn func(r *registry)) {
	writeMu.Lock()
	defer writeMu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// SetHighlightHooks registers highlight hooks. nil is ignored.
func SetHighlightHooks(h HighlightHooks) {
	if h != nil {
		update(func(r *registry) { r.highlight = h })
	}
}

// SetPipelineHooks registers pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetServerHooks registers server hooks. nil is ignored.
func SetServerHooks(h ServerHooks) {
	if h != nil {
		update(func(r *registry) { r.server = h })
	}
}

func Highlight() HighlightHooks { return current.Load().highlight }
func Pipeline() PipelineHooks   { return current.Load().pipeline }
func Cache() CacheHooks         { return current.Load().cache }
func Server() ServerHooks       { return current.Load().server }

// Reset restores the no-op hooks. Tests call it from t.Cleanup.
func Reset() {
	writeMu.Lock()
	defer writeMu.Unlock()
	current.Store(&registry{
		highlight: NoopHighlightHooks{},
		pipeline:  NoopPipelineHooks{},
		cache:     NoopCacheHooks{},
		server:    NoopServerHooks{},
	})
}
