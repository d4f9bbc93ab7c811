package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/fsproj/internal/ir"
)

// CellQuery selects saved cells of one run. Zero-valued filters match
// everything.
type CellQuery struct {
	RunID     string
	Section   ir.Section
	Year      int
	AccountID string
}

// compile renders q as parameterized SQL. Values are never interpolated and
// every query carries a total ORDER BY, so results are deterministic.
func (q CellQuery) compile() (string, []any, error) {
	if q.RunID == "" {
		return "", nil, fmt.Errorf("cell query needs a run id")
	}

	where := []string{"run_id = ?"}
	params := []any{q.RunID}
	if q.Section != "" {
		if !q.Section.Valid() {
			return "", nil, fmt.Errorf("invalid section %q", q.Section)
		}
		where = append(where, "section = ?")
		params = append(params, string(q.Section))
	}
	if q.Year != 0 {
		where = append(where, "year = ?")
		params = append(params, q.Year)
	}
	if q.AccountID != "" {
		where = append(where, "account_id = ?")
		params = append(params, q.AccountID)
	}

	sql := "SELECT cell_key, section, year, account_id, value FROM cells" +
		" WHERE " + strings.Join(where, " AND ") +
		" ORDER BY year ASC, seq ASC"
	return sql, params, nil
}

// QueryCells returns the cells matching q ordered by year, then export order.
func (s *Store) QueryCells(ctx context.Context, q CellQuery) ([]ir.CellRecord, error) {
	sql, params, err := q.compile()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, sql, params...)
	if err != nil {
		return nil, fmt.Errorf("query cells: %w", err)
	}
	defer rows.Close()
	return collectCells(rows)
}
