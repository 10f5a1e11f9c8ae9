// Package cli implements the familytree command-line interface.
//
// This package provides commands for rendering family trees from CSV files
// or MongoDB, checking a table for consistency, browsing a family
// interactively, serving the renderer over HTTP, and managing the artifact
// cache. The CLI is built using cobra and logs via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - render: Generate DOT, SVG, PNG, PDF or JSON diagrams
//   - check: Validate a table and print family statistics
//   - inspect: Browse persons and their relatives in a terminal UI
//   - serve: Run the HTTP rendering service
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. At debug
// level every pipeline stage and cache access is logged with its timing.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered 3 files (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks logs pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnParseStart(_ context.Context, rows int) {
	h.logger.Debug("parsing rows", "rows", rows)
}

func (h *logHooks) OnParseComplete(_ context.Context, persons int, d time.Duration, err error) {
	h.logger.Debug("parsed rows", "persons", persons, "duration", d, "err", err)
}

func (h *logHooks) OnBuildStart(_ context.Context, persons int) {
	h.logger.Debug("building family", "persons", persons)
}

func (h *logHooks) OnBuildComplete(_ context.Context, persons int, d time.Duration, err error) {
	h.logger.Debug("built family", "persons", persons, "duration", d, "err", err)
}

func (h *logHooks) OnAssembleStart(_ context.Context, appearance string) {
	h.logger.Debug("assembling diagram", "appearance", appearance)
}

func (h *logHooks) OnAssembleComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	h.logger.Debug("assembled diagram", "nodes", nodes, "edges", edges, "duration", d, "err", err)
}

func (h *logHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("rendering", "format", format)
}

func (h *logHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.logger.Debug("rendered", "format", format, "bytes", size, "duration", d, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
)
