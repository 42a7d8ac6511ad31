package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gomonte/adapters/analyze"
	"gomonte/adapters/export"
	"gomonte/adapters/generate"
	"gomonte/adapters/plot"
	"gomonte/app"
	"gomonte/domain/dataset"
	"gomonte/domain/grid"
	"gomonte/experiments"
	"gomonte/internal"
	"gomonte/internal/config"
	"gomonte/internal/rng"
)

func main() {
	// Optional .env; running without one is the normal case.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "gomonte",
		Short: "Monte-Carlo simulation lab for statistical inference teaching",
	}

	rootCmd.AddCommand(
		newListCmd(),
		newRunCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in experiments, generators, and analyzers",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Experiments:")
			for _, name := range experiments.Names() {
				desc, err := experiments.Describe(name)
				if err != nil {
					return err
				}
				fmt.Printf("  %-24s %s\n", name, desc)
			}
			fmt.Println("\nGenerators:")
			for _, name := range generate.Names() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("\nAnalyzers:")
			for _, name := range analyze.Names() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var workers int
	var bestEffort bool
	var rowTimeout time.Duration
	var fromFile string
	var outputDir string
	var diagnostics bool

	cmd := &cobra.Command{
		Use:   "run [experiment]",
		Short: "Run an experiment and write its summary, figures, and workbook",
		Long: `Run a built-in experiment by name, or an ad-hoc one from a YAML file.

The summary table is printed to stdout as markdown; the HTML report,
Excel workbook, and any multiverse figure land in the output directory.

Examples:
  gomonte run power-curve --workers 4
  gomonte run --file experiments/custom.yaml --best-effort`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (fromFile == "") {
				return fmt.Errorf("name exactly one experiment, or pass --file")
			}

			var exp *experiments.Experiment
			var err error
			if fromFile != "" {
				exp, err = experiments.LoadFile(fromFile)
			} else {
				exp, err = experiments.Lookup(args[0])
			}
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Workers = workers
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			return runExperiment(cmd, exp, cfg, bestEffort, rowTimeout, diagnostics)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent row evaluations (default GOMONTE_WORKERS or 1)")
	cmd.Flags().BoolVar(&bestEffort, "best-effort", false, "Record row failures instead of aborting the run")
	cmd.Flags().DurationVar(&rowTimeout, "row-timeout", 0, "Abort any single row taking longer than this")
	cmd.Flags().StringVar(&fromFile, "file", "", "Load the experiment from a YAML file instead of the catalog")
	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory (default GOMONTE_OUTPUT or ./out)")
	cmd.Flags().BoolVar(&diagnostics, "diagnostics", false, "Also render histogram/scatter of one representative dataset")

	return cmd
}

func runExperiment(cmd *cobra.Command, exp *experiments.Experiment, cfg *config.Config, bestEffort bool, rowTimeout time.Duration, diagnostics bool) error {
	log := internal.DefaultLogger

	opts := []app.RunnerOption{
		app.WithWorkers(cfg.Workers),
		app.WithLogger(log),
	}
	if bestEffort {
		opts = append(opts, app.WithBestEffort())
	}
	if rowTimeout > 0 {
		opts = append(opts, app.WithRowTimeout(rowTimeout))
	}
	runner := app.NewRunner(opts...)

	run, table, err := exp.Run(cmd.Context(), runner)
	if err != nil {
		return err
	}

	fmt.Println(export.Report(table))
	if len(run.Failures) > 0 {
		fmt.Printf("%d rows failed; see log for details\n", len(run.Failures))
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	base := filepath.Join(cfg.OutputDir, exp.Config.Name)

	if err := export.WriteHTML(table, base+".html"); err != nil {
		return err
	}
	log.Info("wrote %s.html", base)
	if err := export.WriteExcel(table, base+".xlsx"); err != nil {
		return err
	}
	log.Info("wrote %s.xlsx", base)
	if exp.Multiverse != nil {
		if err := plot.RenderMultiverse(table, *exp.Multiverse, base+".png"); err != nil {
			return err
		}
		log.Info("wrote %s.png", base)
	}
	if diagnostics {
		if err := renderDiagnostics(cmd.Context(), exp, base); err != nil {
			return err
		}
	}

	log.Info("run %s complete in %s (%d result rows)", run.ID, run.Runtime, len(run.Results))
	return nil
}

// renderDiagnostics regenerates one representative dataset (the first
// condition, on its own named stream so the run's row streams stay
// untouched) and plots whatever measures it carries.
func renderDiagnostics(ctx context.Context, exp *experiments.Experiment, base string) error {
	log := internal.DefaultLogger

	rows, err := grid.Expand(exp.Config)
	if err != nil {
		return err
	}
	rnd := rng.NewFactory(exp.Config.Seed).Named("diagnostics")
	ds, err := exp.Generator.Generate(ctx, rows[0], rnd)
	if err != nil {
		return err
	}

	if len(ds.Column(dataset.FieldScore)) > 0 {
		path := base + "_hist.png"
		if err := plot.RenderHistogram(ds, dataset.FieldScore, exp.Config.Name, path); err != nil {
			return err
		}
		log.Info("wrote %s", path)
	}
	if len(ds.Column(dataset.FieldX)) > 0 && len(ds.Column(dataset.FieldY)) > 0 {
		path := base + "_scatter.png"
		if err := plot.RenderScatter(ds, dataset.FieldX, dataset.FieldY, exp.Config.Name, path); err != nil {
			return err
		}
		log.Info("wrote %s", path)
	}
	return nil
}
