package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/familytree/pkg/diagram"
	ferrors "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/observability"
	"github.com/matzehuels/familytree/pkg/render/dot"
)

// Assemble emits the diagram for f and returns the recorded declarations
// together with their DOT source.
func Assemble(ctx context.Context, f *family.Family, opts Options) (*diagram.Recorder, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	a, err := diagram.AppearanceByName(opts.Appearance)
	if err != nil {
		return nil, "", err
	}

	hooks := observability.Pipeline()
	hooks.OnAssembleStart(ctx, opts.Appearance)
	start := time.Now()

	rec := &diagram.Recorder{}
	stats, err := diagram.NewAssembler(a).Assemble(f, rec)
	hooks.OnAssembleComplete(ctx, stats.Nodes, stats.Edges, time.Since(start), err)
	if err != nil {
		return nil, "", err
	}

	w, err := writeDOT(rec, opts)
	if err != nil {
		return nil, "", err
	}
	return rec, w.String(), nil
}

// writeDOT replays recorded declarations into a DOT writer.
func writeDOT(rec *diagram.Recorder, opts Options) (*dot.Writer, error) {
	w := dot.NewWriter(dot.Options{Name: opts.Name, RankDir: opts.RankDir})
	if err := rec.Replay(w); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeAssembly, err, "replay diagram")
	}
	return w, nil
}
