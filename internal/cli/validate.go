package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/replacelib/internal/catalog"
	"github.com/roach88/replacelib/internal/def"
	"github.com/roach88/replacelib/internal/registry"
)

// ValidationIssue is one catalog problem found by validate.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Things    int               `json:"things"`
	Terrains  int               `json:"terrains"`
	Recipes   int               `json:"recipes"`
	Replacers int               `json:"replacers"`
	Errors    []ValidationIssue `json:"errors,omitempty"`
	Warnings  []ValidationIssue `json:"warnings,omitempty"`
}

// Warning codes for directives that can never take effect.
const (
	WarnUnresolvedDirective = "W001" // replace or with names no definition
	WarnSelfDirective       = "W002" // replace and with are the same name
	WarnKindMismatch        = "W003" // names resolve, but under different kinds
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog-dir>",
		Short: "Validate a catalog without running the load cycle",
		Long: `Load and link a catalog without running the load cycle.

Reports CUE and YAML errors, duplicate definition names and recipe
references to unknown things. Directives that can never take effect are
reported as warnings.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, catalogDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	result, loadErrors := catalog.Load(catalogDir, catalog.LoadModeCollectAll)

	// Handle load errors that leave nothing to validate (directory not found, no files, etc.)
	if result == nil && len(loadErrors) > 0 {
		var loadErr *catalog.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, catalog.ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) and %d directive file(s) in %s", result.CUEFiles, result.YAMLFiles, catalogDir)

	vr := ValidationResult{
		Things:    len(result.Things),
		Terrains:  len(result.Terrains),
		Recipes:   len(result.Recipes),
		Replacers: len(result.Replacers),
	}
	for _, err := range loadErrors {
		vr.Errors = append(vr.Errors, issueFromError(err))
	}

	reg, buildErr := result.Build()
	if buildErr != nil {
		vr.Errors = append(vr.Errors, ValidationIssue{Code: catalog.ErrCodeRegistry, Message: buildErr.Error()})
	}
	vr.Warnings = directiveWarnings(reg, formatter)
	vr.Valid = len(vr.Errors) == 0

	if !vr.Valid {
		return outputValidationErrors(formatter, vr)
	}
	return outputValidateSuccess(formatter, vr)
}

func issueFromError(err error) ValidationIssue {
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		issue := ValidationIssue{Code: loadErr.Code, Message: loadErr.Message}
		if loadErr.Pos.IsValid() {
			issue.Line = loadErr.Pos.Line()
		}
		return issue
	}
	return ValidationIssue{Code: catalog.ErrCodeGeneric, Message: err.Error()}
}

// directiveWarnings flags directives that no load cycle can act on.
func directiveWarnings(reg *registry.Registry, formatter *OutputFormatter) []ValidationIssue {
	var warnings []ValidationIssue
	for _, rd := range reg.ReplacerDefs() {
		formatter.VerboseLog("Checking replacer def: %s", rd.Name)
		for _, dir := range rd.Replacers {
			if dir.Replace == dir.With {
				warnings = append(warnings, ValidationIssue{
					Code:    WarnSelfDirective,
					Message: fmt.Sprintf("%s: %s replaces itself", rd.Name, dir.Replace),
				})
				continue
			}

			var dupKinds, mainKinds []def.Kind
			sameKind := false
			for _, kind := range def.Kinds {
				dup := reg.Lookup(kind, dir.Replace) != nil
				main := reg.Lookup(kind, dir.With) != nil
				if dup {
					dupKinds = append(dupKinds, kind)
				}
				if main {
					mainKinds = append(mainKinds, kind)
				}
				sameKind = sameKind || (dup && main)
			}

			switch {
			case sameKind:
			case len(dupKinds) == 0 || len(mainKinds) == 0:
				msg := fmt.Sprintf("%s: %s -> %s names an unknown definition", rd.Name, dir.Replace, dir.With)
				unknown := dir.With
				if len(dupKinds) == 0 {
					unknown = dir.Replace
				}
				if s := suggest(reg, unknown); s != "" {
					msg += fmt.Sprintf(" (did you mean %q?)", s)
				}
				warnings = append(warnings, ValidationIssue{
					Code:    WarnUnresolvedDirective,
					Message: msg,
				})
			default:
				warnings = append(warnings, ValidationIssue{
					Code:    WarnKindMismatch,
					Message: fmt.Sprintf("%s: %s (%s) and %s (%s) differ in kind", rd.Name, dir.Replace, dupKinds[0], dir.With, mainKinds[0]),
				})
			}
		}
	}
	return warnings
}

// suggest returns the closest registered name to name across all kinds.
func suggest(reg *registry.Registry, name string) string {
	for _, kind := range def.Kinds {
		if s := reg.Suggest(kind, name); s != "" {
			return s
		}
	}
	return ""
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, vr ValidationResult) error {
	return formatter.Emit(vr, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Catalog valid (%d things, %d terrains, %d recipes, %d replacer defs)\n",
			vr.Things, vr.Terrains, vr.Recipes, vr.Replacers)
		for _, warn := range vr.Warnings {
			fmt.Fprintf(w, "  warning %s: %s\n", warn.Code, warn.Message)
		}
	})
}

// outputValidateError reports a catalog that could not be read at all.
func outputValidateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors reports a catalog that loaded with errors.
func outputValidationErrors(formatter *OutputFormatter, vr ValidationResult) error {
	first := vr.Errors[0]
	err := formatter.Fail(first.Code, first.Message, vr, func(w io.Writer) {
		fmt.Fprintln(w, "✗ Validation failed")
		fmt.Fprintln(w)
		for _, issue := range vr.Errors {
			if issue.Line > 0 {
				fmt.Fprintf(w, "line %d\n", issue.Line)
			}
			fmt.Fprintf(w, "  %s: %s\n\n", issue.Code, issue.Message)
		}
	})
	if err != nil {
		return err
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(vr.Errors)))
}
