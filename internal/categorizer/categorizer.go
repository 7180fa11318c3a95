package categorizer

import (
	"fmt"
	"strings"

	"restobook/recon/internal/ledger"
	"restobook/recon/internal/logging"
	"restobook/recon/internal/models"
)

// CategoryResolver maps a matched rule to a category id, creating the
// category when it does not exist yet.
type CategoryResolver interface {
	EnsureCategory(name string, typ models.CategoryType) (string, error)
}

// Categorizer classifies uncategorized transactions against keyword rules.
type Categorizer struct {
	rules []models.Rule
	log   logging.Logger
}

// New creates a Categorizer with the rules from the given store.
func New(store RuleStore, log logging.Logger) (*Categorizer, error) {
	rules, err := store.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("loading category rules: %w", err)
	}
	return &Categorizer{rules: rules, log: log}, nil
}

// Match returns the first rule whose keyword set contains a case-insensitive
// substring match against the description, or false if none match.
func (c *Categorizer) Match(description string) (models.Rule, bool) {
	upper := strings.ToUpper(description)
	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(upper, strings.ToUpper(keyword)) {
				return rule, true
			}
		}
	}
	return models.Rule{}, false
}

// BatchResult reports per-rule match counts for auditability.
type BatchResult struct {
	Assigned  int
	Unmatched int
	// ByRule maps category name to the number of transactions it claimed.
	ByRule map[string]int
}

// CategorizeAll assigns a category to every uncategorized transaction in the
// store. Already-categorized transactions are never reclassified; manual
// overrides are sticky.
func (c *Categorizer) CategorizeAll(store ledger.Store, resolver CategoryResolver) (BatchResult, error) {
	result := BatchResult{ByRule: make(map[string]int)}

	txs, err := store.Find(ledger.Filter{Uncategorized: true})
	if err != nil {
		return result, fmt.Errorf("loading uncategorized transactions: %w", err)
	}

	for _, tx := range txs {
		rule, ok := c.Match(tx.Description)
		if !ok {
			result.Unmatched++
			continue
		}

		catID, err := resolver.EnsureCategory(rule.Name, rule.Type)
		if err != nil {
			return result, fmt.Errorf("resolving category %q: %w", rule.Name, err)
		}

		if err := store.Update(tx.ID, ledger.Patch{CategoryID: &catID}); err != nil {
			c.log.WithError(err).WithField("id", tx.ID).Error("Failed to assign category, continuing")
			continue
		}

		c.log.WithFields(
			logging.F("description", tx.Description),
			logging.F("category", rule.Name),
		).Debug("Transaction categorized by keyword rule")

		result.Assigned++
		result.ByRule[rule.Name]++
	}

	return result, nil
}
