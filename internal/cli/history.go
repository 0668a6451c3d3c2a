package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/replacelib/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [cycle-id]",
		Short: "Show recorded load cycles",
		Long: `Show load cycles recorded by "replacelib run --db".

Without a cycle ID, lists every recorded cycle in the order it was written.
With a cycle ID, prints that cycle's full report.

Example:
  replacelib history --db ./replacelib.db
  replacelib history --db ./replacelib.db 019312ab-... --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cycleID := ""
			if len(args) == 1 {
				cycleID = args[0]
			}
			return runHistory(opts, cycleID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite diagnostics database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cycleID string, cmd *cobra.Command) error {
	// Opening would create an empty database; history only reads.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	if cycleID != "" {
		report, err := st.ReadReport(ctx, cycleID)
		if errors.Is(err, store.ErrCycleNotFound) {
			return NewExitError(ExitFailure, fmt.Sprintf("cycle not found: %s", cycleID))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read report", err)
		}
		return formatter.EmitCycle(report.CycleID, report, func(w io.Writer) {
			writeReportText(w, report)
		})
	}

	cycles, err := st.ListCycles(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list cycles", err)
	}
	return formatter.Emit(cycles, func(w io.Writer) {
		if len(cycles) == 0 {
			fmt.Fprintln(w, "No cycles recorded.")
			return
		}
		for _, c := range cycles {
			fmt.Fprintf(w, "%d  %s  %s  aliases=%d resolved=%d removed_recipes=%d\n",
				c.Seq, c.ID, c.Catalog, c.AliasCount, c.ResolvedCount, c.RemovedRecipeCount)
		}
	})
}
