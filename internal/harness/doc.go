// Package harness provides conformance testing for fsproj models.
//
// The harness loads a CUE model, runs it through the projection engine,
// saves the run to an in-memory store and reads it back, then checks the
// stored cells against the scenario's assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	models:
//	  - ../models/depreciation
//	years: 3
//	assertions:
//	  - type: cell
//	    account: ppe
//	    year: 2025
//	    value: 900
//	  - type: cash_flow
//	    year: 2025
//	    expect: { cfo: 100, total: 100 }
//	  - type: error
//	    code: CYCLIC_DEPENDENCY
//
// # Assertion Types
//
//   - cell: the saved value of (year, account) equals value within tolerance
//   - cash_flow: the saved cash-flow summary of a year matches expect
//     (keys cfo, cfi, cff, total; subset match)
//   - error: the projection failed with the given engine error code
//
// # Deterministic Testing
//
// Every scenario runs with a fixed run id, a deterministic clock and an
// isolated in-memory SQLite database, so golden table snapshots are
// byte-for-byte reproducible.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/capex.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
