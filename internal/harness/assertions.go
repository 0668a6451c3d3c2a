package harness

import (
	"fmt"
	"strconv"

	"github.com/roach88/replacelib/internal/def"
)

// ExpectationError is returned when an expectation fails.
type ExpectationError struct {
	Type     string // Expectation type for categorization
	Name     string // Name under test
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	return fmt.Sprintf("%s %s: expected %s, got %s", e.Type, e.Name, e.Expected, e.Actual)
}

func (h *Harness) evaluate(e *Expectation) error {
	switch e.Type {
	case ExpectMainOf:
		return h.expectMainOf(e)
	case ExpectMainName:
		return check(e, e.Want, h.engine.MainNameOf(e.kind(), e.Name))
	case ExpectLookup:
		return check(e, e.Want, nameOf(h.reg.Lookup(e.kind(), e.Name)))
	case ExpectSpawnable:
		d, err := h.definition(e)
		if err != nil {
			return err
		}
		return check(e, e.Want, strconv.FormatBool(h.engine.IsSpawnable(d)))
	case ExpectRecipeKept:
		if h.reg.RecipeByName(e.Name) == nil {
			return &ExpectationError{Type: e.Type, Name: e.Name, Expected: "recipe registered", Actual: "removed"}
		}
		return nil
	case ExpectRecipeRemoved:
		return h.expectRecipeRemoved(e)
	case ExpectResolved:
		return h.expectResolved(e)
	default:
		return fmt.Errorf("unknown expectation type %q", e.Type)
	}
}

func (h *Harness) expectMainOf(e *Expectation) error {
	d, err := h.definition(e)
	if err != nil {
		return err
	}
	return check(e, e.Want, h.engine.MainOf(d).Name)
}

func (h *Harness) expectRecipeRemoved(e *Expectation) error {
	if h.reg.RecipeByName(e.Name) != nil {
		return &ExpectationError{Type: e.Type, Name: e.Name, Expected: "recipe removed", Actual: "still registered"}
	}
	if e.Want == "" || h.report == nil {
		return nil
	}
	for _, rr := range h.report.RemovedRecipes {
		if rr.Name == e.Name {
			return check(e, e.Want, rr.Kept)
		}
	}
	return &ExpectationError{Type: e.Type, Name: e.Name, Expected: "removal in report", Actual: "not reported"}
}

func (h *Harness) expectResolved(e *Expectation) error {
	kind := e.kind().String()
	for _, d := range h.engine.State().Resolved {
		if d.Kind.String() != kind || d.Name != e.Name {
			continue
		}
		if e.Want == "" {
			return nil
		}
		return check(e, e.Want, h.engine.MainOf(d).Name)
	}
	return &ExpectationError{Type: e.Type, Name: e.Name, Expected: "resolved duplicate", Actual: "not resolved"}
}

// definition finds the definition named by e. Folded duplicates are no longer
// in the registry's iteration list, so the resolved list is searched too.
func (h *Harness) definition(e *Expectation) (*def.Definition, error) {
	kind := e.kind()
	for _, d := range h.reg.All(kind) {
		if d.Name == e.Name {
			return d, nil
		}
	}
	for _, d := range h.engine.State().Resolved {
		if d.Kind == kind && d.Name == e.Name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%s %s: no %s definition named %q", e.Type, e.Name, kind, e.Name)
}

func check(e *Expectation, want, got string) error {
	if want == got {
		return nil
	}
	return &ExpectationError{Type: e.Type, Name: e.Name, Expected: strconv.Quote(want), Actual: strconv.Quote(got)}
}

func nameOf(d *def.Definition) string {
	if d == nil {
		return NilName
	}
	return d.Name
}
