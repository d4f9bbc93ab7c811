package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/fsproj/internal/compiler"
	"github.com/roach88/fsproj/internal/engine"
	"github.com/roach88/fsproj/internal/ir"
	"github.com/roach88/fsproj/internal/store"
	"github.com/roach88/fsproj/internal/testutil"
)

// Fixed inputs of every harness run.
const (
	// RunID is the id every scenario run is saved under.
	RunID = "test-run-default"

	// ClockStart is the CreatedAt of every scenario run.
	ClockStart int64 = 1700000000
)

// sections lists the statements snapshotted for every run.
var sections = []ir.Section{ir.SectionPL, ir.SectionBS, ir.SectionCF}

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and run id.
type Harness struct {
	store  *store.Store
	clock  *testutil.DeterministicClock
	runIDs *testutil.FixedRunIDGenerator
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Load and compile the CUE model from scenario.Models
// 2. Project the model (a projection failure is recorded, not returned)
// 3. Save the run and read it back from the store
// 4. Evaluate assertions against the stored run
//
// The returned error reports harness failures: unreadable models or store
// errors. Projection failures end up in Result.Err.
func Run(scenario *Scenario) (*Result, error) {
	m, err := compiler.LoadModel(scenario.Models...)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	if scenario.Years > 0 {
		m.Compute.Years = scenario.Years
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		clock:  testutil.NewDeterministicClock(ClockStart),
		runIDs: testutil.NewFixedRunIDGenerator(RunID),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	ctx := context.Background()
	result := NewResult()
	if err := h.execute(ctx, m, result); err != nil {
		return nil, err
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

// execute projects m, snapshots its tables and round-trips the run through
// the store.
func (h *Harness) execute(ctx context.Context, m *ir.Model, result *Result) error {
	p, projErr := engine.ProjectModel(m, engine.WithLogger(h.logger))
	result.Err = projErr
	if p.State() == engine.StateUninitialized {
		return nil
	}

	for _, section := range sections {
		table, err := p.Table(engine.TableOptions{Section: section})
		if err != nil {
			return fmt.Errorf("failed to build %s table: %w", section, err)
		}
		result.Tables[section] = table
	}

	hash, err := ir.ModelHash(m)
	if err != nil {
		return fmt.Errorf("failed to hash model: %w", err)
	}
	run := engine.NewRunRecord(p, m.Compute, h.runIDs, h.clock.Now(), hash)
	if _, err := h.store.WriteRun(ctx, run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	saved, err := h.store.ReadRun(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to read run back: %w", err)
	}
	result.Run = saved
	return nil
}
