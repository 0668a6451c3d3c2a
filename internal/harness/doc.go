// Package harness provides conformance testing for dedup catalogs.
//
// The harness loads a catalog, drives a fresh engine over it, and checks
// expectations about canonical resolution, registry slots, spawnability and
// recipe deduplication.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	catalog: ../catalogs/basic
//	mode: load            # or lazy
//	expect:
//	  - type: main_of
//	    name: Wall_Wood
//	    want: Wall_WoodPlank
//	  - type: lookup
//	    kind: terrain
//	    name: WoodFloor
//	    want: WoodPlankFloor
//	  - type: recipe_removed
//	    name: CookMealSimpleAlt
//	    want: CookMealSimple
//
// # Expectation Types
//
//   - main_of: canonical definition for a registered definition
//   - main_name: canonical name for a raw name
//   - lookup: definition currently in the registry's name slot
//   - spawnable: classifier verdict
//   - recipe_kept / recipe_removed: recipe deduplication outcome
//   - resolved: definition folded out of the registry this cycle
//
// # Deterministic Testing
//
// Each scenario runs against a freshly built registry and engine. The cycle
// ID is fixed to "<name>-cycle-1" so report snapshots compare byte for byte
// against golden files.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/basic.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, msg := range result.Failures {
//	    log.Println(msg)
//	}
package harness
