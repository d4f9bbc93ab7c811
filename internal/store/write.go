package store

import (
	"context"
	"fmt"

	"github.com/roach88/fsproj/internal/ir"
)

// WriteRun inserts a run with its cells and cash-flow summaries.
// Everything is written in one transaction; a failure leaves no partial run.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing a run id that
// already exists is a no-op and returns inserted=false.
func (s *Store) WriteRun(ctx context.Context, run ir.RunRecord) (inserted bool, err error) {
	yearsJSON, err := marshalYears(run.Years)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, model_hash, base_profit, cash_account, years, engine_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.ModelHash,
		run.BaseProfit,
		run.CashAccount,
		yearsJSON,
		run.EngineVersion,
		run.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	cellStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cells
		(run_id, cell_key, section, year, account_id, value, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return false, fmt.Errorf("write run: prepare cells: %w", err)
	}
	defer cellStmt.Close()

	for i, c := range run.Cells {
		if _, err := cellStmt.ExecContext(ctx, run.ID, c.Key, string(c.Section), c.Year, c.AccountID, c.Value, i); err != nil {
			return false, fmt.Errorf("write run: cell %s: %w", c.Key, err)
		}
	}

	for _, cf := range run.CashFlows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cash_flows (run_id, year, cfo, cfi, cff, total)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, cf.Year, cf.CFO, cf.CFI, cf.CFF, cf.Total)
		if err != nil {
			return false, fmt.Errorf("write run: cash flow %d: %w", cf.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write run: commit: %w", err)
	}
	return true, nil
}
