package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellGuardDetectsReentry(t *testing.T) {
	g := newCellGuard()
	a := cellKey{Year: 2025, AccountID: "a"}
	b := cellKey{Year: 2025, AccountID: "b"}

	releaseA, err := g.Enter(a)
	require.NoError(t, err)
	releaseB, err := g.Enter(b)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Size())

	_, err = g.Enter(a)
	require.Error(t, err)
	assert.True(t, IsCycleError(err))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "a", e.AccountID)
	assert.Equal(t, 2025, e.Year)
	assert.Equal(t, "[a@2025 b@2025 a@2025]", e.Details["path"])

	releaseB()
	releaseA()
	assert.Zero(t, g.Size())
}

func TestCellGuardSameAccountDifferentYears(t *testing.T) {
	g := newCellGuard()

	release1, err := g.Enter(cellKey{Year: 2025, AccountID: "a"})
	require.NoError(t, err)
	defer release1()

	release2, err := g.Enter(cellKey{Year: 2024, AccountID: "a"})
	require.NoError(t, err, "a PREV chain is not a cycle")
	release2()
}

func TestCellGuardReleaseAllowsReentry(t *testing.T) {
	g := newCellGuard()
	key := cellKey{Year: 2025, AccountID: "a"}

	release, err := g.Enter(key)
	require.NoError(t, err)
	release()

	release, err = g.Enter(key)
	require.NoError(t, err)
	release()
}

func TestCellKeyString(t *testing.T) {
	assert.Equal(t, "sales@2026", cellKey{Year: 2026, AccountID: "sales"}.String())
}
