package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/plmgraph/pkg/cache"
	"github.com/matzehuels/plmgraph/pkg/observability"
)

// cacheKeyType labels render entries in cache hooks.
const cacheKeyType = "render"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached output. Zero means DefaultCacheTTL.
	TTL time.Duration
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
		TTL:    DefaultCacheTTL,
	}
}

// Execute parses input and renders it with opts, serving and storing the
// output through the cache. Cache failures are logged and never fail a run.
func (r *Runner) Execute(ctx context.Context, input []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])
	opts.Logger = logger

	key := r.Keyer.RenderKey(input, opts.RenderKeyOpts())
	if !opts.Refresh {
		if data, ok := r.lookup(ctx, key, logger); ok {
			result.Output = data
			result.CacheHit = true
			logger.Debug("served from cache", "source", opts.Source, "mode", opts.Mode)
			return result, nil
		}
	}

	doc, stats, err := Parse(ctx, input, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats = stats

	renderStart := time.Now()
	out, err := RenderWithOptions(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Output = out
	result.Stats.RenderTime = time.Since(renderStart)

	r.store(ctx, key, out, logger)

	logger.Info("rendered document",
		"source", opts.Source,
		"mode", opts.Mode,
		"records", stats.Records,
		"dropped", stats.Dropped,
		"duration", stats.ParseTime+result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) lookup(ctx context.Context, key string, logger *log.Logger) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, key string, data []byte, logger *log.Logger) {
	ttl := r.TTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "err", fmt.Errorf("set %s: %w", key, err))
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
