package observability

import (
	"context"
	"time"
)

// ChainPipeline returns hooks that forward every event to each of hs in order.
// Nil entries are skipped.
func ChainPipeline(hs ...PipelineHooks) PipelineHooks {
	return pipelineChain(compact(hs))
}

// ChainCache returns hooks that forward every event to each of hs in order.
// Nil entries are skipped.
func ChainCache(hs ...CacheHooks) CacheHooks {
	return cacheChain(compact(hs))
}

func compact[T comparable](hs []T) []T {
	var zero T
	out := make([]T, 0, len(hs))
	for _, h := range hs {
		if h != zero {
			out = append(out, h)
		}
	}
	return out
}

type pipelineChain []PipelineHooks

func (c pipelineChain) OnParseStart(ctx context.Context, rows int) {
	for _, h := range c {
		h.OnParseStart(ctx, rows)
	}
}

func (c pipelineChain) OnParseComplete(ctx context.Context, persons int, d time.Duration, err error) {
	for _, h := range c {
		h.OnParseComplete(ctx, persons, d, err)
	}
}

func (c pipelineChain) OnBuildStart(ctx context.Context, persons int) {
	for _, h := range c {
		h.OnBuildStart(ctx, persons)
	}
}

func (c pipelineChain) OnBuildComplete(ctx context.Context, persons int, d time.Duration, err error) {
	for _, h := range c {
		h.OnBuildComplete(ctx, persons, d, err)
	}
}

func (c pipelineChain) OnAssembleStart(ctx context.Context, appearance string) {
	for _, h := range c {
		h.OnAssembleStart(ctx, appearance)
	}
}

func (c pipelineChain) OnAssembleComplete(ctx context.Context, nodes, edges int, d time.Duration, err error) {
	for _, h := range c {
		h.OnAssembleComplete(ctx, nodes, edges, d, err)
	}
}

func (c pipelineChain) OnRenderStart(ctx context.Context, format string) {
	for _, h := range c {
		h.OnRenderStart(ctx, format)
	}
}

func (c pipelineChain) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	for _, h := range c {
		h.OnRenderComplete(ctx, format, size, d, err)
	}
}

type cacheChain []CacheHooks

func (c cacheChain) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range c {
		h.OnCacheHit(ctx, keyType)
	}
}

func (c cacheChain) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range c {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (c cacheChain) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range c {
		h.OnCacheSet(ctx, keyType, size)
	}
}
