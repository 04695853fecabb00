package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/cache"
	"github.com/matzehuels/tracegrid/pkg/export"
	"github.com/matzehuels/tracegrid/pkg/observability"
	"github.com/matzehuels/tracegrid/pkg/session"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeArtifact = "artifact"
	keyTypeGraph    = "graph"
	keyTypeExport   = "export"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it so the caching logic lives in one place.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// ComputationHash is the content hash used in every cache key.
func ComputationHash(comp *align.Computation) (string, error) {
	data, err := align.MarshalComputation(comp)
	if err != nil {
		return "", fmt.Errorf("serialize computation for cache key: %w", err)
	}
	return cache.Hash(data), nil
}

// Execute builds a workspace for comp, applies the highlights named by opts
// and renders every requested format.
func (r *Runner) Execute(ctx context.Context, comp *align.Computation, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	result, err := r.execute(ctx, comp, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(result.CacheInfo.Hits),
		"lines", result.Stats.Lines,
		"duration", result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) execute(ctx context.Context, comp *align.Computation, opts Options) (*Result, error) {
	ws, err := NewWorkspace(comp, opts)
	if err != nil {
		return nil, err
	}
	if err := ws.Apply(opts); err != nil {
		return nil, err
	}

	hash, err := ComputationHash(comp)
	if err != nil {
		return nil, err
	}

	snap := ws.Highlighter.Snapshot()
	result := &Result{
		Hash:      hash,
		Artifacts: make(map[string][]byte),
		Highlight: snap,
		Stats:     Stats{Cells: snap.PathCells, Lines: len(snap.Lines)},
	}

	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			if data, hit := r.get(ctx, r.key(hash, format, &opts)); hit {
				result.Artifacts[format] = data
				result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return result, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := RenderScene(ws.Scene(), sub)
	if err != nil {
		return nil, err
	}
	graphs, err := RenderGraph(ctx, comp.Output, sub)
	if err != nil {
		return nil, err
	}
	for format, data := range graphs {
		rendered[format] = data
	}

	for format, data := range rendered {
		result.Artifacts[format] = data
		r.set(ctx, r.key(hash, format, &opts), data)
	}
	result.CacheInfo.Misses = missing
	return result, nil
}

// Export writes one matrix of comp as CSV. It reports whether the table came
// from the cache.
func (r *Runner) Export(ctx context.Context, comp *align.Computation, matrix int, codec align.Codec) ([]byte, bool, error) {
	if err := comp.Validate(); err != nil {
		return nil, false, err
	}
	hash, err := ComputationHash(comp)
	if err != nil {
		return nil, false, err
	}

	k := cacheKey{
		typ: keyTypeExport,
		key: r.Keyer.ExportKey(hash, cache.ExportKeyOpts{Matrix: matrix, SwapSigns: codec.SwapSigns}),
		ttl: cache.TTLExport,
	}
	if data, hit := r.get(ctx, k); hit {
		return data, true, nil
	}

	st := session.New()
	st.ShareComputation(comp)
	data, err := export.Exporter{Codec: codec}.Export(st, matrix)
	if err != nil {
		return nil, false, err
	}
	r.set(ctx, k, data)

	r.Logger.Debug("exported matrix", "matrix", matrix, "bytes", len(data))
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

type cacheKey struct {
	typ string
	key string
	ttl time.Duration
}

func (r *Runner) key(hash, format string, opts *Options) cacheKey {
	if IsGraphFormat(format) {
		return cacheKey{
			typ: keyTypeGraph,
			key: r.Keyer.GraphKey(hash, cache.GraphKeyOpts{Format: format}),
			ttl: cache.TTLGraph,
		}
	}
	return cacheKey{
		typ: keyTypeArtifact,
		key: r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)),
		ttl: cache.TTLArtifact,
	}
}

// get reads a cache entry. Cache failures are logged and count as misses.
func (r *Runner) get(ctx context.Context, k cacheKey) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, k.key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", k.typ, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, k.typ)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, k.typ)
	return data, true
}

func (r *Runner) set(ctx context.Context, k cacheKey, data []byte) {
	if err := r.Cache.Set(ctx, k.key, data, k.ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", k.typ, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, k.typ, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
