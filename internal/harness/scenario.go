package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/replacelib/internal/def"
)

// Scenario defines a dedup conformance scenario.
// A scenario loads a catalog, optionally runs the load cycle, and checks
// expectations against the resulting engine and registry.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is the catalog directory to load.
	// Relative paths resolve against the scenario file location.
	Catalog string `yaml:"catalog"`

	// Mode selects how the engine is driven before expectations run:
	// - "load" (default): run the full load cycle first
	// - "lazy": skip the load cycle; expectations resolve on demand, in order
	Mode string `yaml:"mode,omitempty"`

	// Expect lists expectations evaluated in order.
	Expect []Expectation `yaml:"expect"`
}

// Expectation checks one observable outcome.
type Expectation struct {
	// Type specifies the expectation type:
	// - "main_of": canonical definition name for Name
	// - "main_name": canonical name for the raw string Name
	// - "lookup": name of the definition in the registry's name slot
	// - "spawnable": spawnability of Name ("true" or "false")
	// - "recipe_kept": recipe Name is still registered
	// - "recipe_removed": recipe Name was removed, optionally in favor of Want
	// - "resolved": Name was folded this cycle, optionally into Want
	Type string `yaml:"type"`

	// Kind is "thing" (default) or "terrain".
	Kind string `yaml:"kind,omitempty"`

	// Name is the definition, recipe or raw name under test.
	Name string `yaml:"name"`

	// Want is the expected value. Meaning depends on Type.
	Want string `yaml:"want,omitempty"`
}

// Expectation type constants.
const (
	ExpectMainOf        = "main_of"
	ExpectMainName      = "main_name"
	ExpectLookup        = "lookup"
	ExpectSpawnable     = "spawnable"
	ExpectRecipeKept    = "recipe_kept"
	ExpectRecipeRemoved = "recipe_removed"
	ExpectResolved      = "resolved"
)

// Mode constants.
const (
	ModeLoad = "load"
	ModeLazy = "lazy"
)

// NilName is the Want value for an empty name slot in lookup expectations.
const NilName = "<nil>"

// LoadScenario reads and parses a scenario YAML file.
// The catalog path is resolved relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "expects:" vs "expect:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve catalog path relative to the scenario BEFORE validation
	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) {
		scenario.Catalog = filepath.Join(filepath.Dir(path), scenario.Catalog)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}

	if info, err := os.Stat(s.Catalog); err != nil || !info.IsDir() {
		return fmt.Errorf("catalog directory not found: %s", s.Catalog)
	}

	switch s.Mode {
	case "", ModeLoad, ModeLazy:
	default:
		return fmt.Errorf("unknown mode %q", s.Mode)
	}

	if len(s.Expect) == 0 {
		return fmt.Errorf("expect list is required and must be non-empty")
	}

	for i := range s.Expect {
		if err := validateExpectation(i, &s.Expect[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateExpectation validates a single expectation based on its type.
func validateExpectation(index int, e *Expectation) error {
	if e.Type == "" {
		return fmt.Errorf("expect[%d]: type is required", index)
	}
	if e.Name == "" {
		return fmt.Errorf("expect[%d]: name is required", index)
	}
	if e.Kind != "" {
		if _, ok := def.ParseKind(e.Kind); !ok {
			return fmt.Errorf("expect[%d]: unknown kind %q", index, e.Kind)
		}
	}

	switch e.Type {
	case ExpectMainOf, ExpectMainName, ExpectLookup:
		if e.Want == "" {
			return fmt.Errorf("expect[%d]: want is required for %s", index, e.Type)
		}
	case ExpectSpawnable:
		if e.Want != "true" && e.Want != "false" {
			return fmt.Errorf("expect[%d]: want must be \"true\" or \"false\" for spawnable", index)
		}
	case ExpectRecipeKept, ExpectRecipeRemoved, ExpectResolved:
	default:
		return fmt.Errorf("expect[%d]: unknown expectation type %q", index, e.Type)
	}

	return nil
}

// kind returns the expectation's definition kind, defaulting to thing.
func (e *Expectation) kind() def.Kind {
	if k, ok := def.ParseKind(e.Kind); ok {
		return k
	}
	return def.KindThing
}
