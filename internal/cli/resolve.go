package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/replacelib/internal/compiler"
	"github.com/roach88/replacelib/internal/dedup"
	"github.com/roach88/replacelib/internal/def"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Kind string
	Lazy bool // skip the load cycle and resolve on demand
}

// ResolveResult describes how a name resolves after the load cycle.
type ResolveResult struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Canonical string `json:"canonical"`
	Slot      string `json:"slot,omitempty"`      // definition in the registry's name slot
	Spawnable *bool  `json:"spawnable,omitempty"` // nil when no definition has this name
	Folded    bool   `json:"folded"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <catalog-dir> <name>",
		Short: "Show the canonical definition for a name",
		Long: `Load a catalog, run the load cycle and report how a definition name
resolves: its canonical name, the definition now in its registry slot,
whether it is spawnable and whether it was folded.

Example:
  replacelib resolve ./catalog Wall_Wood
  replacelib resolve ./catalog WoodFloor --kind terrain
  replacelib resolve ./catalog Wall_Wood --lazy`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "thing", "definition kind (thing|terrain)")
	cmd.Flags().BoolVar(&opts.Lazy, "lazy", false, "resolve on demand without running the load cycle")

	return cmd
}

func runResolve(opts *ResolveOptions, catalogDir, name string, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions, cmd.ErrOrStderr())

	kind, ok := def.ParseKind(opts.Kind)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid kind %q: must be thing or terrain", opts.Kind))
	}

	reg, err := buildRegistry(catalogDir)
	if err != nil {
		return err
	}

	// Catalog names are NFC; a decomposed argument must hit the same slot.
	name = compiler.NormalizeName(name)

	// Look the definition up before the load cycle redirects its slot.
	d := reg.Lookup(kind, name)

	eng := dedup.New(reg, reg, reg)
	if !opts.Lazy {
		if _, err := eng.Load(cmd.Context()); err != nil {
			return WrapExitError(ExitFailure, "load cycle failed", err)
		}
	}

	result := ResolveResult{
		Kind:      kind.String(),
		Name:      name,
		Canonical: eng.MainNameOf(kind, name),
	}
	if slot := reg.Lookup(kind, name); slot != nil {
		result.Slot = slot.Name
	}
	if d != nil {
		spawnable := eng.IsSpawnable(d)
		result.Spawnable = &spawnable
		result.Canonical = eng.MainOf(d).Name
		result.Folded = !reg.Contains(kind, d)
	}

	formatter := newFormatter(opts.RootOptions, cmd)
	return formatter.Emit(result, func(w io.Writer) {
		fmt.Fprintf(w, "%s %s -> %s\n", result.Kind, result.Name, result.Canonical)
		if result.Slot != "" {
			fmt.Fprintf(w, "  slot:      %s\n", result.Slot)
		}
		if result.Spawnable != nil {
			fmt.Fprintf(w, "  spawnable: %t\n", *result.Spawnable)
		}
		fmt.Fprintf(w, "  folded:    %t\n", result.Folded)
	})
}
