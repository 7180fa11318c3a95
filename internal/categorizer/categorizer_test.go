package categorizer

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restobook/recon/internal/ledger"
	"restobook/recon/internal/logging"
	"restobook/recon/internal/models"
)

// fakeResolver hands out deterministic category ids keyed by name.
type fakeResolver struct {
	ids map[string]string
}

func (r *fakeResolver) EnsureCategory(name string, typ models.CategoryType) (string, error) {
	if r.ids == nil {
		r.ids = make(map[string]string)
	}
	if id, ok := r.ids[name]; ok {
		return id, nil
	}
	id := fmt.Sprintf("cat-%d", len(r.ids)+1)
	r.ids[name] = id
	return id, nil
}

func testRules() []models.Rule {
	return []models.Rule{
		{Name: "Salaires & Rémunérations", Type: models.CategorySalary, Keywords: []string{"BELAL", "SALAIRE"}},
		{Name: "Frais Bancaires", Type: models.CategoryFinancial, Keywords: []string{"COTISATION", "FRAIS"}},
		{Name: "Achats & Stocks", Type: models.CategoryVariableCost, Keywords: []string{"METRO"}},
	}
}

func newTestCategorizer(t *testing.T, rules []models.Rule) *Categorizer {
	t.Helper()
	c, err := New(&StaticRuleStore{Rules: rules}, &logging.MockLogger{})
	require.NoError(t, err)
	return c
}

func TestMatch(t *testing.T) {
	c := newTestCategorizer(t, testRules())

	testCases := []struct {
		description string
		wantRule    string
		wantMatch   bool
	}{
		{"VIR SEPA BELAL AHMED", "Salaires & Rémunérations", true},
		{"vir sepa belal ahmed", "Salaires & Rémunérations", true},
		{"FRAIS TENUE DE COMPTE", "Frais Bancaires", true},
		{"CB METRO 12/01", "Achats & Stocks", true},
		{"RECETTE ESPECES", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			rule, ok := c.Match(tc.description)
			assert.Equal(t, tc.wantMatch, ok)
			assert.Equal(t, tc.wantRule, rule.Name)
		})
	}
}

func TestMatchFirstRuleWins(t *testing.T) {
	// "SALAIRE FRAIS" matches both rules; priority order decides.
	c := newTestCategorizer(t, testRules())

	rule, ok := c.Match("SALAIRE ET FRAIS DIVERS")
	require.True(t, ok)
	assert.Equal(t, "Salaires & Rémunérations", rule.Name)
}

func TestCategorizeAll(t *testing.T) {
	store := ledger.NewMemoryStore()
	d, _ := time.Parse("2006-01-02", "2025-01-05")
	txs := []models.Transaction{
		{ID: "salary", Date: d, Amount: decimal.RequireFromString("-1500"), Description: "VIR SEPA BELAL", Source: models.SourceBank},
		{ID: "metro", Date: d, Amount: decimal.RequireFromString("-200"), Description: "CB METRO", Source: models.SourceBank},
		{ID: "metro2", Date: d, Amount: decimal.RequireFromString("-80"), Description: "CB METRO BIS", Source: models.SourceBank},
		{ID: "unknown", Date: d, Amount: decimal.RequireFromString("100"), Description: "RECETTE", Source: models.SourceCash},
	}
	for _, tx := range txs {
		require.NoError(t, store.Create(tx))
	}

	c := newTestCategorizer(t, testRules())
	result, err := c.CategorizeAll(store, &fakeResolver{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Assigned)
	assert.Equal(t, 1, result.Unmatched)
	assert.Equal(t, 1, result.ByRule["Salaires & Rémunérations"])
	assert.Equal(t, 2, result.ByRule["Achats & Stocks"])

	left, err := store.Find(ledger.Filter{Uncategorized: true})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "unknown", left[0].ID)
}

func TestCategorizeAllIsSticky(t *testing.T) {
	store := ledger.NewMemoryStore()
	d, _ := time.Parse("2006-01-02", "2025-01-05")
	manual := "manual-override"
	require.NoError(t, store.Create(models.Transaction{
		ID: "salary", Date: d, Amount: decimal.RequireFromString("-1500"),
		Description: "VIR SEPA BELAL", Source: models.SourceBank, CategoryID: &manual,
	}))

	c := newTestCategorizer(t, testRules())
	result, err := c.CategorizeAll(store, &fakeResolver{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Assigned)

	txs, err := store.Find(ledger.Filter{})
	require.NoError(t, err)
	require.NotNil(t, txs[0].CategoryID)
	assert.Equal(t, manual, *txs[0].CategoryID, "manual assignments are never overwritten")
}

func TestYAMLRuleStore(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		store := NewYAMLRuleStore(filepath.Join(t.TempDir(), "absent.yaml"))
		rules, err := store.LoadRules()
		require.NoError(t, err)
		assert.Equal(t, DefaultRules(), rules)
	})

	t.Run("reads rules in file order", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		content := `- name: "Énergie"
  type: FIXED_COST
  keywords: ["EDF", "ENGIE"]
- name: "Impôts & Taxes"
  type: TAX
  keywords: ["DGFIP"]
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		rules, err := NewYAMLRuleStore(path).LoadRules()
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, "Énergie", rules[0].Name)
		assert.Equal(t, models.CategoryFixedCost, rules[0].Type)
		assert.Equal(t, []string{"EDF", "ENGIE"}, rules[0].Keywords)
		assert.Equal(t, models.CategoryTax, rules[1].Type)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o600))

		_, err := NewYAMLRuleStore(path).LoadRules()
		assert.Error(t, err)
	})
}

func TestDefaultRulesPriority(t *testing.T) {
	c := newTestCategorizer(t, DefaultRules())

	// An employee salary line also contains words the generic rules would
	// claim; the salary rule is listed first and wins.
	rule, ok := c.Match("VIR SEPA BELAL FRAIS JANVIER")
	require.True(t, ok)
	assert.Equal(t, "Salaires & Rémunérations", rule.Name)
}
