package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/replacelib/internal/catalog"
	"github.com/roach88/replacelib/internal/dedup"
	"github.com/roach88/replacelib/internal/registry"
	"github.com/roach88/replacelib/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// CycleIDs allows overriding the cycle ID generator (for testing).
	// If nil, defaults to dedup.UUIDv7Generator.
	CycleIDs dedup.CycleIDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <catalog-dir>",
		Short: "Run the load cycle over a catalog",
		Long: `Load a catalog, run the dedup load cycle and print the cycle report.

The load cycle records every actionable replacer directive, folds spawnable
duplicates into their canonical definitions and removes duplicate recipes.
With --db the report is also appended to a SQLite diagnostics log.

Example:
  replacelib run ./catalog
  replacelib run ./catalog --db ./replacelib.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite diagnostics database (optional)")

	return cmd
}

func runLoad(opts *RunOptions, catalogDir string, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions, cmd.ErrOrStderr())

	formatter := newFormatter(opts.RootOptions, cmd)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	reg, err := buildRegistry(catalogDir)
	if err != nil {
		return err
	}

	ids := opts.CycleIDs
	if ids == nil {
		ids = dedup.UUIDv7Generator{}
	}
	eng := dedup.New(reg, reg, reg, dedup.WithCycleIDGenerator(ids))

	report, err := eng.Load(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "load cycle failed", err)
	}

	if opts.Database != "" {
		if err := persistReport(ctx, opts.Database, catalogDir, report); err != nil {
			return err
		}
		formatter.VerboseLog("Report %s written to %s", report.CycleID, opts.Database)
	}

	return formatter.EmitCycle(report.CycleID, report, func(w io.Writer) {
		writeReportText(w, report)
	})
}

// buildRegistry loads catalogDir and returns its linked registry. Load and
// link failures are command errors.
func buildRegistry(catalogDir string) (*registry.Registry, error) {
	slog.Info("loading catalog", "dir", catalogDir)
	result, errs := catalog.Load(catalogDir, catalog.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, WrapExitError(ExitCommandError, "failed to load catalog", errs[0])
	}

	reg, err := result.Build()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build registry", err)
	}
	slog.Info("catalog loaded",
		"things", len(result.Things),
		"terrains", len(result.Terrains),
		"recipes", len(result.Recipes),
		"replacer_defs", len(result.Replacers),
	)
	return reg, nil
}

func persistReport(ctx context.Context, dbPath, catalogDir string, report *dedup.Report) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	inserted, err := st.WriteReport(ctx, catalogDir, report)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to write report", err)
	}
	if !inserted {
		slog.Warn("cycle already recorded", "cycle", report.CycleID)
	}
	return nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM or when parent
// is done. Uses the command's context if available (for testing).
func signalContext(parent context.Context) (context.Context, func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, cancelling", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan) // Prevent signal handler leak
		cancel()
	}
}

func writeReportText(w io.Writer, report *dedup.Report) {
	fmt.Fprintf(w, "Cycle %s\n", report.CycleID)
	fmt.Fprintf(w, "  aliases:         %d\n", len(report.Aliases))
	fmt.Fprintf(w, "  resolved:        %d\n", len(report.Resolved))
	fmt.Fprintf(w, "  removed recipes: %d\n", len(report.RemovedRecipes))

	for _, rd := range report.Resolved {
		fmt.Fprintf(w, "  %s %s -> %s (hash %d)\n", rd.Kind, rd.Name, rd.Canonical, rd.ShortHash)
	}
	for _, rr := range report.RemovedRecipes {
		fmt.Fprintf(w, "  recipe %s -> %s\n", rr.Name, rr.Kept)
	}
}
