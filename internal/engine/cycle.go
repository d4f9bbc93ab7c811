package engine

import "fmt"

// cellKey identifies one cell of the projection. It is the memo key for cell
// roots and the in-progress guard.
type cellKey struct {
	Year      int
	AccountID string
}

func (k cellKey) String() string {
	return fmt.Sprintf("%s@%d", k.AccountID, k.Year)
}

// cellGuard tracks cells whose build is in progress.
//
// A cycle occurs when building a cell recursively requests the same cell,
// e.g. a → REFERENCE(b) → REFERENCE(a) in one year. Enter fails for a key
// that is already in progress; the returned release func must run on every
// exit path, so callers defer it.
type cellGuard struct {
	active map[cellKey]bool
	stack  []cellKey
}

func newCellGuard() *cellGuard {
	return &cellGuard{active: make(map[cellKey]bool)}
}

// Enter marks key as in progress.
func (g *cellGuard) Enter(key cellKey) (release func(), err error) {
	if g.active[key] {
		return nil, NewCycleError(key.AccountID, key.Year, g.path(key))
	}
	g.active[key] = true
	g.stack = append(g.stack, key)
	return func() {
		delete(g.active, key)
		g.stack = g.stack[:len(g.stack)-1]
	}, nil
}

// path renders the build chain from the first visit of key back to key.
func (g *cellGuard) path(key cellKey) []string {
	start := 0
	for i, k := range g.stack {
		if k == key {
			start = i
			break
		}
	}
	path := make([]string, 0, len(g.stack)-start+1)
	for _, k := range g.stack[start:] {
		path = append(path, k.String())
	}
	return append(path, key.String())
}

// Size returns the number of cells in progress.
func (g *cellGuard) Size() int {
	return len(g.active)
}
