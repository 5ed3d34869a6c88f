package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// outputSuffix is appended to the input stem when no --output is given so
// a JSON export never overwrites a JSON dataset.
const outputSuffix = "_graph"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	scene     sceneFlags
	output    string // output file (single format) or base path (multiple)
	formats   string // comma separated output formats
	maxFrames int    // frame budget for the settle stage
	noCache   bool   // always settle, ignoring cached layouts
}

// renderCommand creates the render command, which settles the layout
// headlessly and writes the requested formats.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [dataset]",
		Short: "Settle the layout and export it",
		Long: `Render loads a dataset, applies the year filter, runs the force simulation
until it cools and writes the settled diagram.

Flags you do not pass fall back to the settings file (see "forcegraph config").`,
		Example: `  forcegraph render movies.json
  forcegraph render movies.yaml -f svg,json,dot -o out/movies
  forcegraph render movies.json --no-filter --node-size large --labels=false`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: datasetCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(opts.formats)
			if err != nil {
				return err
			}
			s, err := opts.scene.resolve(cmd, c.configPath)
			if err != nil {
				return err
			}
			p := opts.scene.options(s)
			p.Path = args[0]
			p.Formats = formats
			p.MaxFrames = opts.maxFrames
			return c.runRender(cmd.Context(), p, outputBase(opts.output, args[0]), opts.noCache)
		},
	}

	opts.scene.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, dot, png, jpg, pdf (comma-separated)")
	cmd.Flags().IntVar(&opts.maxFrames, "max-frames", pipeline.DefaultMaxFrames, "stop the simulation after this many frames")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(pipeline.FormatNames(render.Formats)...))

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, base string, noCache bool) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger
	prog := newProgress(logger)

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Settling %s", opts.Path))
	opts.Progress = spinner.SetProgress
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.Stop()
		return err
	}
	prog.mark("execute")

	spinner.SetMessage("Writing artifacts...")
	paths, err := pipeline.WriteArtifacts(res.Artifacts, opts.Formats, base)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.mark("write")

	prog.done("rendered", "path", opts.Path, "nodes", res.Stats.NodeCount, "cached", res.Stats.Cached)
	printStats(res.Stats.NodeCount, res.Stats.LinkCount, res.Stats.Dropped, res.Stats.Settled)
	if res.Stats.Cached {
		printDetail("Layout from cache (--no-cache to settle again)")
	} else {
		printKeyValue("Frames", fmt.Sprintf("%d (%d steps)", res.Stats.Frames, res.Stats.Steps))
		printKeyValue("Settle", res.Stats.SettleTime.Round(time.Millisecond).String())
	}
	for _, p := range paths {
		printFile(p)
	}
	if !res.Stats.Settled {
		printNextStep("Give it more time", fmt.Sprintf("forcegraph render %s --max-frames %d", opts.Path, 2*res.Stats.Frames))
	}
	return nil
}

// outputBase picks the base path artifacts are written to.
func outputBase(output, input string) string {
	if output != "" {
		return output
	}
	return basePath("", input) + outputSuffix
}
