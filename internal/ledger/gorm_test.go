package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restobook/recon/internal/models"
)

func openTestStore(t *testing.T) *GormStore {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	return s
}

func TestGormStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	txs, err := s.Find(Filter{})
	require.NoError(t, err)
	require.Len(t, txs, 4)
	assert.Equal(t, "a", txs[0].ID)

	sum, err := s.SumAmounts(Filter{Source: models.SourceBank})
	require.NoError(t, err)
	assert.True(t, sum.Equal(dec("57.5")), "got %s", sum)
}

func TestGormStoreFilters(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	t.Run("mis-signed cash OUT", func(t *testing.T) {
		zero := decimal.Zero
		txs, err := s.Find(Filter{Type: models.TypeOut, AmountAbove: &zero})
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "d", txs[0].ID)
	})

	t.Run("before cutoff excluding marker", func(t *testing.T) {
		cutoff := date("2025-02-01")
		txs, err := s.Find(Filter{Before: &cutoff, DescriptionNotContains: "SOLDE INITIAL"})
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "b", txs[0].ID)
	})

	t.Run("by reference", func(t *testing.T) {
		txs, err := s.Find(Filter{Reference: "INITIAL"})
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "a", txs[0].ID)
	})
}

func TestGormStoreUpdateAndDelete(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	amount := dec("-30")
	require.NoError(t, s.Update("d", Patch{Amount: &amount}))
	assert.ErrorIs(t, s.Update("missing", Patch{Amount: &amount}), ErrNotFound)

	txs, err := s.Find(Filter{Type: models.TypeOut})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Amount.Equal(dec("-30")))

	require.NoError(t, s.Delete([]string{"b", "c"}))
	remaining, err := s.Find(Filter{})
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestGormStoreEnsureCategory(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.EnsureCategory("Salaires & Rémunérations", models.CategorySalary)
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	id2, err := s.EnsureCategory("Salaires & Rémunérations", models.CategorySalary)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}
