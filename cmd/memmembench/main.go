// Package main provides the CLI entry point for memmembench, which lists,
// fingerprints and runs the substring search benchmark matrix outside of
// go test.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/perf/benchfmt"

	"github.com/mhr3/memmembench/harness"
	"github.com/mhr3/memmembench/inputs"
	"github.com/mhr3/memmembench/matrix"
	"github.com/mhr3/memmembench/report"
	"github.com/mhr3/memmembench/suite"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(logger, level)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("memmembench failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}

// selection holds the flags shared by every subcommand.
type selection struct {
	manifest      string
	filter        string
	impls         []string
	singleShotMax int
	noMisc        bool
}

func (s *selection) options() (suite.Options, error) {
	opts := suite.DefaultOptions()
	opts.Manifest = s.manifest
	opts.Impls = s.impls
	opts.Rules.SingleShotMax = s.singleShotMax
	opts.Misc = !s.noMisc
	if s.filter != "" {
		re, err := regexp.Compile(s.filter)
		if err != nil {
			return suite.Options{}, fmt.Errorf("filter: %w", err)
		}
		opts.Filter = re
	}
	return opts, nil
}

func (s *selection) collect() (*matrix.Collector, matrix.Stats, error) {
	opts, err := s.options()
	if err != nil {
		return nil, matrix.Stats{}, err
	}
	var c matrix.Collector
	stats, err := suite.Define(&c, opts)
	if err != nil {
		return nil, matrix.Stats{}, err
	}
	return &c, stats, nil
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var (
		sel     selection
		verbose bool
	)

	root := &cobra.Command{
		Use:   "memmembench",
		Short: "Substring search benchmark matrix",
		Long: `Memmembench expands a catalog of corpora and needles and a set of
substring search implementations into uniquely named benchmarks, each of
which checks its search result on every iteration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				level.Set(slog.LevelDebug)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&sel.manifest, "manifest", "",
		"YAML manifest of additional inputs")
	flags.StringVar(&sel.filter, "filter", "",
		"Only include benchmarks whose name matches this regexp")
	flags.StringSliceVar(&sel.impls, "impl", nil,
		"Implementations to include (default all)")
	flags.IntVar(&sel.singleShotMax, "single-shot-max", matrix.DefaultRules.SingleShotMax,
		"Largest expected count benchmarked with single-shot modes")
	flags.BoolVar(&sel.noMisc, "no-misc", false,
		"Skip finder construction and frequency table benchmarks")
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	root.AddCommand(
		newListCmd(&sel),
		newDigestCmd(&sel),
		newRunCmd(logger, &sel),
	)

	return root
}

func newListCmd(sel *selection) *cobra.Command {
	var showInputs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print benchmark names in generation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showInputs {
				return listInputs(cmd.OutOrStdout(), sel)
			}
			c, stats, err := sel.collect()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, name := range c.Names() {
				fmt.Fprintln(w, name)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s, %d total\n", stats, len(c.Benchmarks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showInputs, "inputs", false,
		"Describe the inputs instead of listing benchmarks")

	return cmd
}

func listInputs(w io.Writer, sel *selection) error {
	opts, err := sel.options()
	if err != nil {
		return err
	}
	ins, err := suite.Inputs(opts)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INPUT\tSIZE\tENCODING\tNEVER\tRARE\tCOMMON")
	for i := range ins {
		s := inputs.Describe(&ins[i])
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			s.Name,
			humanize.IBytes(uint64(s.Size)),
			s.Encoding,
			s.Queries[matrix.Never],
			s.Queries[matrix.Rare],
			s.Queries[matrix.Common],
		)
	}
	return tw.Flush()
}

func newDigestCmd(sel *selection) *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Print a fingerprint of the benchmark names",
		Long: `Print an xxh3 digest of the generated benchmark names. Two runs
with the same digest registered the same benchmarks in the same order.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := sel.collect()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%016x\n", matrix.Digest(c.Names()))
			return nil
		},
	}
}

func newRunCmd(logger *slog.Logger, sel *selection) *cobra.Command {
	var cfg runConfig

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmarks and report results",
		Long: `Run every selected benchmark through testing.Benchmark. Results are
written to stdout in the Go benchmark format (for benchstat), as a Markdown
table, or as JSON. The exit status is non-zero if any benchmark failed its
result check.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmarks(cmd.Context(), logger, sel, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.count, "count", 1,
		"Measurements per benchmark")
	flags.StringVar(&cfg.benchtime, "benchtime", "1s",
		"Run time per measurement, or Nx for a fixed iteration count")
	flags.StringVar(&cfg.format, "format", "bench",
		"Output format: bench, markdown, json")
	flags.BoolVarP(&cfg.quiet, "quiet", "q", false,
		"Hide the progress bar")

	return cmd
}

type runConfig struct {
	count     int
	benchtime string
	format    string
	quiet     bool
}

func runBenchmarks(
	ctx context.Context,
	logger *slog.Logger,
	sel *selection,
	cfg runConfig,
	stdout, stderr io.Writer,
) error {
	write, err := writer(cfg.format)
	if err != nil {
		return err
	}
	if err := harness.SetBenchtime(cfg.benchtime); err != nil {
		return err
	}

	c, stats, err := sel.collect()
	if err != nil {
		return err
	}
	digest := matrix.Digest(c.Names())

	logger.InfoContext(ctx, "starting benchmarks",
		slog.Int("benchmarks", len(c.Benchmarks)),
		slog.Int("skipped", stats.Skipped),
		slog.Int("count", cfg.count),
		slog.String("benchtime", cfg.benchtime),
		slog.String("digest", fmt.Sprintf("%016x", digest)),
	)

	runner := harness.NewRunner(cfg.count, logger)
	if !cfg.quiet {
		runner.Progress = stderr
	}
	results, runErr := runner.Run(ctx, c.Benchmarks)
	if runErr != nil && !errors.Is(runErr, harness.ErrFailed) {
		return fmt.Errorf("run: %w", runErr)
	}

	if err := write(stdout, results, digest); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.InfoContext(ctx, "benchmarks complete", slog.Int("results", len(results)))

	return runErr
}

type writeFunc func(w io.Writer, results []harness.Result, digest uint64) error

func writer(format string) (writeFunc, error) {
	switch strings.ToLower(format) {
	case "bench":
		return func(w io.Writer, results []harness.Result, digest uint64) error {
			cfg := report.Config(benchfmt.Config{
				Key:   "digest",
				Value: []byte(fmt.Sprintf("%016x", digest)),
				File:  true,
			})
			return report.WriteBenchfmt(w, results, cfg)
		}, nil
	case "markdown":
		return func(w io.Writer, results []harness.Result, _ uint64) error {
			return report.Generate(w, results)
		}, nil
	case "json":
		return func(w io.Writer, results []harness.Result, _ uint64) error {
			return report.GenerateJSON(w, results)
		}, nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}
