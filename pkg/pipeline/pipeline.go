// Package pipeline provides the rows → family → diagram → artifacts pipeline.
//
// This package implements the complete parse → build → assemble → render
// pipeline shared by the CLI and the HTTP server, so both entry points
// produce identical diagrams for identical input.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: Decode raw rows into [family.Person] records
//  2. Build: Resolve references and validate the family graph
//  3. Assemble: Emit household nodes and parent edges as DOT source
//  4. Render: Generate output in various formats (DOT, SVG, PNG, PDF, JSON)
//
// Rendered artifacts are cached by the hash of the DOT source, so a table
// that produces the same diagram is only laid out once.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, rows, pipeline.Options{
//	    Appearance: "record",
//	    Formats:    []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Build only, for validation:
//
//	f, err := runner.Build(ctx, rows)
package pipeline

import (
	"time"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/diagram"
	ferrors "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultName is the Graphviz graph name and the base of output file names.
	DefaultName = "family_tree"

	// DefaultRankDir lays generations out top to bottom.
	DefaultRankDir = "TB"

	// DefaultAppearance is the default node label style.
	DefaultAppearance = diagram.AppearanceRecord
)

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// FormatExtensions maps formats to output file extensions.
var FormatExtensions = map[string]string{
	FormatDOT:  ".gv",
	FormatSVG:  ".svg",
	FormatPNG:  ".png",
	FormatPDF:  ".pdf",
	FormatJSON: ".json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the family-tree pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	Appearance string   `json:"appearance,omitempty"`
	Formats    []string `json:"formats,omitempty"`
	Name       string   `json:"name,omitempty"`
	RankDir    string   `json:"rankdir,omitempty"`

	// Refresh bypasses cached artifacts and re-renders.
	Refresh bool `json:"refresh,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Family is the built family graph.
	Family *family.Family

	// Households lists every household in roster order.
	Households []*family.Household

	// Diagram holds the emitted node and edge declarations.
	Diagram *diagram.Recorder

	// DOT is the Graphviz source and DOTHash its content hash.
	DOT     string
	DOTHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Persons      int
	Households   int
	Nodes        int
	Edges        int
	ParseTime    time.Duration
	BuildTime    time.Duration
	AssembleTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return ferrors.New(ferrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: dot, svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every option.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Appearance == "" {
		o.Appearance = DefaultAppearance
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.RankDir == "" {
		o.RankDir = DefaultRankDir
	}
	if _, err := diagram.AppearanceByName(o.Appearance); err != nil {
		return err
	}
	switch o.RankDir {
	case "TB", "BT", "LR", "RL":
	default:
		return ferrors.New(ferrors.ErrCodeInvalidInput, "invalid rankdir %q (want TB, BT, LR or RL)", o.RankDir)
	}
	return ValidateFormats(o.Formats)
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Appearance, name and rank direction are already part of the DOT source.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}
