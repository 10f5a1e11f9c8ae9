package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/config"
	"github.com/matzehuels/familytree/pkg/diagram"
	"github.com/matzehuels/familytree/pkg/family"
	ftio "github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // exact output path for a single format, "-" for stdout
	outputDir  string   // directory for versioned output files
	name       string   // base file name and graph name
	formats    []string // output formats: dot, svg, png, pdf, json
	appearance string   // node label style
	rankDir    string   // Graphviz rankdir
	noCache    bool
	refresh    bool
	input      inputFlags
}

// renderCommand creates the render command.
//
// Without -o, each format is written next to earlier runs as
// <output-dir>/<name>_N.<ext> with the first unused N, so nothing is
// overwritten.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file.csv | diagram.json]",
		Short: "Render a family tree diagram",
		Example: `  familytree render family.csv
  familytree render family.csv -f svg,dot --output-dir ./out
  familytree render family.csv -f dot -o -
  familytree render ~/family_tree_0.json -f png
  familytree render --mongo -f png
  familytree render --sqlite family.db --appearance detailed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, c.Config.Render.Formats)
			c.applyRenderDefaults(cmd, &opts)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.output != "" && len(opts.formats) != 1 {
				return fmt.Errorf("--output needs exactly one format, got %d", len(opts.formats))
			}
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file for a single format (\"-\" for stdout)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "directory for versioned output files (default from config, \"~\")")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "base name for output files (default \"family_tree\")")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.appearance, "appearance", "a", "", "node labels: record (default), detailed")
	cmd.Flags().StringVar(&opts.rankDir, "rankdir", "", "layout direction: TB (default), LR, BT, RL")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")
	addInputFlags(cmd, &opts.input)

	return cmd
}

// applyRenderDefaults fills flags the user left unset from the config file.
func (c *CLI) applyRenderDefaults(cmd *cobra.Command, opts *renderOpts) {
	rc := c.Config.Render
	if !cmd.Flags().Changed("output-dir") {
		opts.outputDir = rc.OutputDir
	}
	if !cmd.Flags().Changed("name") {
		opts.name = rc.Name
	}
	if opts.name == "" {
		opts.name = pipeline.DefaultName
	}
	if !cmd.Flags().Changed("appearance") {
		opts.appearance = rc.Appearance
	}
	if !cmd.Flags().Changed("rankdir") {
		opts.rankDir = rc.RankDir
	}
}

func (c *CLI) runRender(ctx context.Context, args []string, opts renderOpts) error {
	prog := newProgress(c.Logger)

	var (
		rows []family.Row
		rec  *diagram.Recorder
		err  error
	)
	if savedDiagram(args, opts.input) {
		rec, err = ftio.ImportJSON(args[0])
	} else {
		rows, err = c.loadRows(ctx, args, opts.input)
	}
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering family tree...")
	if opts.output != "-" {
		spinner.Start()
	}
	popts := pipeline.Options{
		Appearance: opts.appearance,
		Formats:    opts.formats,
		Name:       opts.name,
		RankDir:    strings.ToUpper(opts.rankDir),
		Refresh:    opts.refresh,
	}
	var res *pipeline.Result
	if rec != nil {
		res, err = runner.Replay(ctx, rec, popts)
	} else {
		res, err = runner.Execute(ctx, rows, popts)
	}
	spinner.Stop()
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := stdout.Write(res.Artifacts[opts.formats[0]])
		return err
	}

	paths, err := writeArtifacts(res.Artifacts, opts)
	if err != nil {
		return err
	}

	if rec != nil {
		printSuccess("Rendered saved diagram %s", args[0])
	} else {
		printSuccess("Rendered %d persons in %d households", res.Stats.Persons, res.Stats.Households)
	}
	printStats(res.Stats.Nodes, res.Stats.Edges, res.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	prog.done(fmt.Sprintf("Wrote %d files", len(paths)))
	return nil
}

// savedDiagram reports whether the positional argument is a diagram written
// by "-f json" rather than a person table.
func savedDiagram(args []string, in inputFlags) bool {
	if len(args) != 1 || in.mongo || in.sqlite != "" {
		return false
	}
	return strings.EqualFold(filepath.Ext(args[0]), ".json")
}

// writeArtifacts writes each rendered format and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, opts renderOpts) ([]string, error) {
	if opts.output != "" {
		format := opts.formats[0]
		if err := writeFile(opts.output, artifacts[format]); err != nil {
			return nil, err
		}
		return []string{opts.output}, nil
	}

	dir, err := config.ExpandHome(opts.outputDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var paths []string
	seen := make(map[string]bool, len(opts.formats))
	for _, format := range opts.formats {
		if seen[format] {
			continue
		}
		seen[format] = true

		base := filepath.Join(dir, opts.name+pipeline.FormatExtensions[format])
		path, err := ftio.NextVersionedPath(base)
		if err != nil {
			return nil, err
		}
		if err := writeFile(path, artifacts[format]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
