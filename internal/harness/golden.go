package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/replacelib/internal/dedup"
)

// ReportSnapshot is the golden-file form of a scenario's load cycle report.
type ReportSnapshot struct {
	ScenarioName string        `json:"scenario_name"`
	Report       *dedup.Report `json:"report"`
}

// MarshalSnapshot renders the snapshot as indented JSON with a trailing
// newline. The encoding is deterministic: report slices keep engine order.
func MarshalSnapshot(scenarioName string, report *dedup.Report) ([]byte, error) {
	data, err := json.MarshalIndent(ReportSnapshot{ScenarioName: scenarioName, Report: report}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot %s: %w", scenarioName, err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its report against a golden
// file. The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the report doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's report against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result.Report)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
