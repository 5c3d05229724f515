package cli

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/plmgraph/pkg/pipeline"
)

// batchOpts holds the flags for the batch command.
type batchOpts struct {
	mode     string
	outDir   string
	jobs     int
	detailed bool
	refresh  bool
}

// batchResult is the outcome for one document.
type batchResult struct {
	input  string
	output string
	result *pipeline.Result
	err    error
}

// batchCommand renders every document matched by the given patterns.
func (c *CLI) batchCommand() *cobra.Command {
	opts := batchOpts{mode: pipeline.DefaultMode, outDir: ".", jobs: runtime.NumCPU()}
	cmd := &cobra.Command{
		Use:   "batch PATTERN...",
		Short: "Render many documents concurrently",
		Long: `Render every file matched by the glob patterns (** matches across
directories). Each document is parsed and rendered independently; a failing
document is reported and does not stop the others.`,
		Example: `  plmgraph batch 'exports/**/*.plmxml' -m svg -d out/`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("mode") && c.Config != nil {
				opts.mode = c.Config.Render.Mode
			}
			if err := pipeline.ValidateMode(opts.mode); err != nil {
				return err
			}
			if opts.jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1")
			}
			files, err := expandPatterns(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no files match %v", args)
			}
			return c.runBatch(cmd, files, &opts)
		},
	}
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "render mode: structural, brief, dot, svg, pdf, png (default from config)")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "d", opts.outDir, "directory for rendered files")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "documents rendered in parallel")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show record attributes in graph labels")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached output")
	return cmd
}

// expandPatterns resolves glob patterns to a sorted, de-duplicated file list.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func (c *CLI) runBatch(cmd *cobra.Command, files []string, opts *batchOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner := c.newRunner(ctx)
	defer runner.Close()

	outputs := make([]string, len(files))
	owner := make(map[string]string, len(files))
	for i, input := range files {
		outputs[i] = outputPath(opts.outDir, input, opts.mode)
		if prev, ok := owner[outputs[i]]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, input, outputs[i])
		}
		owner[outputs[i]] = input
	}

	results := make([]batchResult, len(files))
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for i, input := range files {
		g.Go(func() error {
			res := batchResult{input: input, output: outputs[i]}
			res.result, res.err = c.renderOne(cmd, runner, input, res.output, opts)
			results[i] = res

			mu.Lock()
			done++
			logger.Debugf("[%d/%d] %s", done, len(files), input)
			mu.Unlock()
			// Document failures are collected, only cancellation stops the batch.
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			printError("%s: %v", res.input, res.err)
			continue
		}
		printFile(res.output)
		printStats(res.result.Stats, res.result.CacheHit)
	}

	prog.done(fmt.Sprintf("Rendered %d of %d documents", len(files)-failed, len(files)))
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(files))
	}
	printSuccess("Rendered %d documents to %s", len(files), opts.outDir)
	return nil
}

func (c *CLI) renderOne(cmd *cobra.Command, runner *pipeline.Runner, input, output string, opts *batchOpts) (*pipeline.Result, error) {
	data, err := readInput(cmd, input)
	if err != nil {
		return nil, err
	}
	popts := c.pipelineOptions(opts.mode, input)
	popts.Detailed = opts.detailed
	popts.Refresh = opts.refresh

	result, err := runner.Execute(cmd.Context(), data, popts)
	if err != nil {
		return nil, err
	}
	if err := writeOutput(cmd, output, result.Output); err != nil {
		return nil, err
	}
	return result, nil
}
