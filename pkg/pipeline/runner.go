package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/diagram"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/observability"
)

// DefaultArtifactTTL is how long rendered artifacts stay cached.
const DefaultArtifactTTL = 24 * time.Hour

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
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
		TTL:    DefaultArtifactTTL,
	}
}

// Build parses rows and builds the family graph.
func (r *Runner) Build(ctx context.Context, rows []family.Row) (*family.Family, error) {
	persons, err := Parse(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	f, err := Build(ctx, persons)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	return f, nil
}

// Execute runs the complete parse → build → assemble → render pipeline.
func (r *Runner) Execute(ctx context.Context, rows []family.Row, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}

	// Stage 1: Parse
	start := time.Now()
	persons, err := Parse(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Stats.ParseTime = time.Since(start)

	// Stage 2: Build
	start = time.Now()
	f, err := Build(ctx, persons)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Family = f
	result.Households = family.NewResolver(f).Partition()
	result.Stats.BuildTime = time.Since(start)
	result.Stats.Persons = f.Len()
	result.Stats.Households = len(result.Households)

	r.Logger.Info("built family",
		"persons", result.Stats.Persons,
		"households", result.Stats.Households,
		"duration", result.Stats.ParseTime+result.Stats.BuildTime)

	// Stage 3: Assemble
	start = time.Now()
	rec, src, err := Assemble(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	result.Diagram = rec
	result.DOT = src
	result.DOTHash = cache.Hash([]byte(src))
	result.Stats.AssembleTime = time.Since(start)
	result.Stats.Nodes = len(rec.Nodes)
	result.Stats.Edges = len(rec.Edges)

	r.Logger.Debug("assembled diagram",
		"nodes", result.Stats.Nodes,
		"edges", result.Stats.Edges,
		"hash", result.DOTHash[:12])

	// Stage 4: Render
	start = time.Now()
	artifacts, hit, err := r.renderWithCache(ctx, result, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Replay renders a diagram that was saved as JSON, skipping parse, build
// and assemble. Appearance is ignored because labels are already recorded.
func (r *Runner) Replay(ctx context.Context, rec *diagram.Recorder, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	w, err := writeDOT(rec, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Diagram: rec,
		DOT:     w.String(),
	}
	result.DOTHash = cache.Hash([]byte(result.DOT))
	result.Stats.AssembleTime = time.Since(start)
	result.Stats.Nodes = w.NodeCount()
	result.Stats.Edges = w.EdgeCount()

	start = time.Now()
	artifacts, hit, err := r.renderWithCache(ctx, result, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Info("replayed diagram",
		"nodes", result.Stats.Nodes,
		"edges", result.Stats.Edges,
		"cached", hit)
	return result, nil
}

// renderWithCache serves every format from cache when possible and
// renders the rest.
func (r *Runner) renderWithCache(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	hooks := observability.Cache()

	for _, format := range opts.Formats {
		if _, seen := artifacts[format]; seen {
			continue
		}
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(result.DOTHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "err", err)
			}
			if err == nil && hit {
				hooks.OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			hooks.OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, result.Diagram, result.DOT, missing)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(result.DOTHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
