package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plmgraph/pkg/pipeline"
)

// renderOpts holds the flags shared by the single-document commands.
type renderOpts struct {
	output   string  // output file; empty writes to stdout
	format   string  // graph output format: dot, svg, pdf or png
	detailed bool    // add record attributes to graph labels
	scale    float64 // PNG resolution factor
	refresh  bool    // bypass cached output
	watch    bool    // re-render when the input changes (brief)
}

// dumpCommand prints the structural YAML tree of a document.
func (c *CLI) dumpCommand() *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the structural tree of a document as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], pipeline.ModeStructural, &opts)
		},
	}
	addOutputFlags(cmd, &opts)
	return cmd
}

// briefCommand prints the indented instance-graph walk.
func (c *CLI) briefCommand() *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "brief FILE",
		Short: "Print an indented outline of the instance graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.watch {
				return c.runRender(cmd, args[0], pipeline.ModeBrief, &opts)
			}
			if args[0] == "-" {
				return fmt.Errorf("--watch needs a file, not stdin")
			}
			opts.refresh = true
			return watchFile(cmd.Context(), args[0], func() error {
				return c.runRender(cmd, args[0], pipeline.ModeBrief, &opts)
			})
		},
	}
	addOutputFlags(cmd, &opts)
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render whenever the file changes")
	return cmd
}

// graphCommand renders the reference graph.
func (c *CLI) graphCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.ModeDOT, scale: pipeline.DefaultPNGScale}
	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Render the reference graph as DOT, SVG, PDF or PNG",
		Long: `Render every record as a node, ownership as solid edges and resolved
references as dashed edges. DOT is written to stdout unless -o is given; the
image formats default to a file named after the input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateGraphFormat(opts.format); err != nil {
				return err
			}
			if opts.output == "" && opts.format != pipeline.ModeDOT {
				opts.output = outputPath(".", args[0], opts.format)
			}
			return c.runRender(cmd, args[0], opts.format, &opts)
		},
	}
	addOutputFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, pdf, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show record attributes in node labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution factor")
	return cmd
}

func addOutputFlags(cmd *cobra.Command, opts *renderOpts) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached output")
}

var graphFormats = map[string]bool{
	pipeline.ModeDOT: true,
	pipeline.ModeSVG: true,
	pipeline.ModePDF: true,
	pipeline.ModePNG: true,
}

func validateGraphFormat(f string) error {
	if !graphFormats[f] {
		return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', 'pdf', or 'png')", f)
	}
	return nil
}

// runRender reads one document, renders it in mode and writes the result.
func (c *CLI) runRender(cmd *cobra.Command, input, mode string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	data, err := readInput(cmd, input)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx)
	defer runner.Close()

	popts := c.pipelineOptions(mode, input)
	popts.Detailed = opts.detailed
	popts.Scale = opts.scale
	popts.Refresh = opts.refresh

	result, err := executeWithSpinner(ctx, runner, data, popts)
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", mode, len(result.Output))

	if err := writeOutput(cmd, opts.output, result.Output); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Rendered %s", input)
		printFile(opts.output)
		printStats(result.Stats, result.CacheHit)
	}
	return nil
}

// executeWithSpinner runs the pipeline, showing a spinner for the modes that
// shell out to a layout engine.
func executeWithSpinner(ctx context.Context, runner *pipeline.Runner, data []byte, opts pipeline.Options) (*pipeline.Result, error) {
	switch opts.Mode {
	case pipeline.ModeSVG, pipeline.ModePDF, pipeline.ModePNG:
	default:
		return runner.Execute(ctx, data, opts)
	}

	spinner := newRenderSpinner(opts.Mode, opts.Source)
	spinner.start(ctx)
	result, err := runner.Execute(ctx, data, opts)
	elapsed := spinner.stop()
	if err == nil {
		loggerFromContext(ctx).Debug("image render finished", "mode", opts.Mode, "elapsed", elapsed.Round(time.Millisecond))
	}
	return result, err
}
