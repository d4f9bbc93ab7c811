package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/fsproj/internal/ir"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// ReadRun returns a run with all of its cells and cash-flow summaries.
// Cells come back in export order; cash flows in year order.
func (s *Store) ReadRun(ctx context.Context, id string) (ir.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, model_hash, base_profit, cash_account, years, engine_version, created_at
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.RunRecord{}, fmt.Errorf("read run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return ir.RunRecord{}, fmt.Errorf("read run %q: %w", id, err)
	}

	if run.Cells, err = s.readCells(ctx, id); err != nil {
		return ir.RunRecord{}, err
	}
	if run.CashFlows, err = s.readCashFlows(ctx, id); err != nil {
		return ir.RunRecord{}, err
	}
	return run, nil
}

// LatestRun returns the most recently created run.
func (s *Store) LatestRun(ctx context.Context) (ir.RunRecord, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM runs
		ORDER BY created_at DESC, id COLLATE BINARY DESC
		LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.RunRecord{}, fmt.Errorf("latest run: %w", ErrRunNotFound)
	}
	if err != nil {
		return ir.RunRecord{}, fmt.Errorf("latest run: %w", err)
	}
	return s.ReadRun(ctx, id)
}

// ListRuns returns every run header (without cells or cash flows) in
// creation order.
//
// Returns an empty slice (not nil) if the store holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]ir.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model_hash, base_profit, cash_account, years, engine_version, created_at
		FROM runs
		ORDER BY created_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// CellHistory returns one account's cells of a run ordered by year.
func (s *Store) CellHistory(ctx context.Context, runID, accountID string) ([]ir.CellRecord, error) {
	return s.QueryCells(ctx, CellQuery{RunID: runID, AccountID: accountID})
}

func (s *Store) readCells(ctx context.Context, runID string) ([]ir.CellRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cell_key, section, year, account_id, value
		FROM cells
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query cells: %w", err)
	}
	defer rows.Close()
	return collectCells(rows)
}

func (s *Store) readCashFlows(ctx context.Context, runID string) ([]ir.CashFlowRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, cfo, cfi, cff, total
		FROM cash_flows
		WHERE run_id = ?
		ORDER BY year ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query cash flows: %w", err)
	}
	defer rows.Close()

	flows := []ir.CashFlowRecord{}
	for rows.Next() {
		var cf ir.CashFlowRecord
		if err := rows.Scan(&cf.Year, &cf.CFO, &cf.CFI, &cf.CFF, &cf.Total); err != nil {
			return nil, fmt.Errorf("scan cash flow: %w", err)
		}
		flows = append(flows, cf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cash flows: %w", err)
	}
	return flows, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (ir.RunRecord, error) {
	var (
		run       ir.RunRecord
		yearsJSON string
	)
	if err := row.Scan(
		&run.ID,
		&run.ModelHash,
		&run.BaseProfit,
		&run.CashAccount,
		&yearsJSON,
		&run.EngineVersion,
		&run.CreatedAt,
	); err != nil {
		return ir.RunRecord{}, err
	}
	years, err := unmarshalYears(yearsJSON)
	if err != nil {
		return ir.RunRecord{}, err
	}
	run.Years = years
	return run, nil
}

func collectCells(rows *sql.Rows) ([]ir.CellRecord, error) {
	cells := []ir.CellRecord{}
	for rows.Next() {
		var (
			c       ir.CellRecord
			section string
		)
		if err := rows.Scan(&c.Key, &section, &c.Year, &c.AccountID, &c.Value); err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		c.Section = ir.Section(section)
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cells: %w", err)
	}
	return cells, nil
}
