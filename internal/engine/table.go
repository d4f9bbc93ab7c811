package engine

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/roach88/fsproj/internal/ir"
)

// TableOptions selects the statement and the year columns of a Table.
type TableOptions struct {
	Section ir.Section

	// Years restricts the columns; empty means every actual and computed year.
	Years []int
}

// AccountView is one table row header.
type AccountView struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Section  ir.Section `json:"section"`
	Category string     `json:"category,omitempty"`
	ParentID string     `json:"parent_id,omitempty"`
	IsCredit *bool      `json:"is_credit,omitempty"`
}

// Table is a row/column projection of one statement.
// Data[i][j] is Rows[i] in Columns[j], rounded to an integer.
type Table struct {
	Rows    []AccountView `json:"rows"`
	Columns []string      `json:"columns"`
	Data    [][]int64     `json:"data"`
}

// Table projects the value store into a matrix. A missing cell takes the
// value of the most recent earlier year that has one, else 0. Table never
// mutates the projection.
func (p *Projection) Table(opts TableOptions) (Table, error) {
	if p.state == StateUninitialized {
		return Table{}, errorf(ErrCodeInvalidState, "Table called before ImportActuals")
	}
	if !opts.Section.Valid() {
		return Table{}, errorf(ErrCodeInvalidOptions, "section must be PL, BS or CF, got %q", opts.Section)
	}

	cols, err := p.columnIndexes(opts.Years)
	if err != nil {
		return Table{}, err
	}

	t := Table{Rows: []AccountView{}, Columns: make([]string, len(cols)), Data: [][]int64{}}
	for j, idx := range cols {
		t.Columns[j] = p.years[idx].Label()
	}
	for _, id := range p.order {
		a := p.accounts[id]
		if a.Section != opts.Section {
			continue
		}
		t.Rows = append(t.Rows, AccountView{
			ID:       a.ID,
			Name:     a.Name,
			Section:  a.Section,
			Category: a.Category,
			ParentID: a.ParentID,
			IsCredit: a.IsCredit,
		})
		row := make([]int64, len(cols))
		for j, idx := range cols {
			row[j] = Round(p.forwardFill(opts.Section, idx, id))
		}
		t.Data = append(t.Data, row)
	}
	return t, nil
}

// columnIndexes maps requested years onto positions in p.years.
func (p *Projection) columnIndexes(years []int) ([]int, error) {
	if len(years) == 0 {
		idx := make([]int, len(p.years))
		for i := range idx {
			idx[i] = i
		}
		return idx, nil
	}
	idx := make([]int, 0, len(years))
	for _, y := range years {
		i := slices.IndexFunc(p.years, func(fy ir.FiscalYear) bool { return fy.Year == y })
		if i < 0 {
			return nil, &Error{Code: ErrCodeInvalidOptions, Message: "year is neither actual nor computed", Year: y}
		}
		idx = append(idx, i)
	}
	return idx, nil
}

func (p *Projection) forwardFill(section ir.Section, yearIdx int, accountID string) float64 {
	for i := yearIdx; i >= 0; i-- {
		if v, ok := p.grid[gridKey{Section: section, Year: p.years[i].Year, AccountID: accountID}]; ok {
			return v
		}
	}
	return 0
}

// Round rounds half away from zero to an integer.
func Round(v float64) int64 {
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

// SnapshotLatestActual returns the latest actual year and its imported
// values restricted to one statement section.
func (p *Projection) SnapshotLatestActual(section ir.Section) (ir.FiscalYear, map[string]float64, error) {
	if p.state == StateUninitialized {
		return ir.FiscalYear{}, nil, errorf(ErrCodeInvalidState, "SnapshotLatestActual called before ImportActuals")
	}
	year, ok := p.lastActualYear()
	if !ok {
		return ir.FiscalYear{}, nil, errorf(ErrCodeNoPriorActuals, "no actual years imported")
	}
	values := make(map[string]float64)
	for _, id := range p.order {
		if p.accounts[id].Section != section {
			continue
		}
		if v, ok := p.grid[gridKey{Section: section, Year: year, AccountID: id}]; ok {
			values[id] = v
		}
	}
	return ir.FiscalYear{Year: year, Actual: true}, values, nil
}
