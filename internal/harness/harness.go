package harness

import (
	"context"
	"fmt"

	"github.com/roach88/replacelib/internal/catalog"
	"github.com/roach88/replacelib/internal/dedup"
	"github.com/roach88/replacelib/internal/registry"
)

// Harness holds the engine and registry a scenario runs against.
type Harness struct {
	reg    *registry.Registry
	engine *dedup.Engine
	report *dedup.Report
}

// CycleID returns the deterministic cycle ID used for a scenario.
func CycleID(scenarioName string) string {
	return scenarioName + "-cycle-1"
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a freshly built registry for isolation.
//
// Execution flow:
// 1. Load the catalog and build a registry
// 2. Create an engine with a fixed cycle ID
// 3. Run the load cycle (unless mode is lazy)
// 4. Evaluate expectations in order
//
// Catalog and load failures are returned as errors; failed expectations are
// reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context for the load cycle.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	reg, err := catalog.LoadRegistry(scenario.Catalog)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	h := &Harness{
		reg: reg,
		engine: dedup.New(reg, reg, reg,
			dedup.WithCycleIDGenerator(dedup.NewFixedGenerator(CycleID(scenario.Name))),
		),
	}

	if scenario.Mode != ModeLazy {
		report, err := h.engine.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		h.report = report
	}

	result := NewResult()
	result.Report = h.report
	for i := range scenario.Expect {
		if err := h.evaluate(&scenario.Expect[i]); err != nil {
			result.AddFailure(fmt.Sprintf("expect[%d]: %v", i, err))
		}
	}

	return result, nil
}
