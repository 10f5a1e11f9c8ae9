package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/familytree/pkg/diagram"
	ftio "github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/observability"
	"github.com/matzehuels/familytree/pkg/render"
	"github.com/matzehuels/familytree/pkg/render/dot"
)

// Render generates output artifacts in the requested formats.
// SVG is rendered once and reused when PDF is also requested.
func Render(ctx context.Context, rec *diagram.Recorder, src string, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	hooks := observability.Pipeline()

	for _, format := range formats {
		if _, done := artifacts[format]; done {
			continue
		}
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		data, err := renderFormat(ctx, rec, src, format, artifacts)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, rec *diagram.Recorder, src, format string, done map[string][]byte) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(src), nil
	case FormatSVG:
		return dot.Render(ctx, src, dot.FormatSVG)
	case FormatPNG:
		return dot.Render(ctx, src, dot.FormatPNG)
	case FormatPDF:
		svg, ok := done[FormatSVG]
		if !ok {
			var err error
			if svg, err = dot.Render(ctx, src, dot.FormatSVG); err != nil {
				return nil, err
			}
		}
		return render.ToPDF(svg)
	case FormatJSON:
		var buf bytes.Buffer
		if err := ftio.WriteJSON(rec, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, ValidateFormat(format)
	}
}
