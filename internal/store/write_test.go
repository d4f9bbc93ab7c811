package store

import (
	"testing"
)

func TestWriteRun_Basic(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	inserted, err := s.WriteRun(ctx, createTestRun("run-1", 1700000000))
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	if !inserted {
		t.Error("first write should insert")
	}

	var cells, flows int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM cells WHERE run_id = 'run-1'").Scan(&cells); err != nil {
		t.Fatal(err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM cash_flows WHERE run_id = 'run-1'").Scan(&flows); err != nil {
		t.Fatal(err)
	}
	if cells != 3 || flows != 1 {
		t.Errorf("cells=%d flows=%d, want 3 and 1", cells, flows)
	}
}

func TestWriteRun_CanonicalYears(t *testing.T) {
	s := createTestStore(t)

	if _, err := s.WriteRun(t.Context(), createTestRun("run-1", 1)); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	var years string
	if err := s.db.QueryRow("SELECT years FROM runs WHERE id = 'run-1'").Scan(&years); err != nil {
		t.Fatal(err)
	}
	want := `[{"actual":true,"year":2024},{"actual":false,"year":2025}]`
	if years != want {
		t.Errorf("years = %s, want %s", years, want)
	}
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	run := createTestRun("run-1", 1)
	if _, err := s.WriteRun(ctx, run); err != nil {
		t.Fatalf("first WriteRun() failed: %v", err)
	}

	run.ModelHash = "changed"
	inserted, err := s.WriteRun(ctx, run)
	if err != nil {
		t.Fatalf("second WriteRun() failed: %v", err)
	}
	if inserted {
		t.Error("duplicate run id should not insert")
	}

	var hash string
	if err := s.db.QueryRow("SELECT model_hash FROM runs WHERE id = 'run-1'").Scan(&hash); err != nil {
		t.Fatal(err)
	}
	if hash != "test-hash" {
		t.Errorf("model_hash = %q, the first write must win", hash)
	}
}

func TestWriteRun_DuplicateCellRollsBack(t *testing.T) {
	s := createTestStore(t)

	run := createTestRun("run-1", 1)
	run.Cells = append(run.Cells, run.Cells[0])

	if _, err := s.WriteRun(t.Context(), run); err == nil {
		t.Fatal("expected primary key violation for duplicate cell key")
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("runs = %d, failed write must leave no partial run", count)
	}
}
