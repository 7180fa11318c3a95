// Package categorizer assigns categories to uncategorized transactions by
// matching their descriptions against an ordered list of keyword rules.
// Rule order is priority order: the first matching rule wins, so specific
// patterns are listed before general ones.
package categorizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"restobook/recon/internal/models"
)

// RuleStore loads the ordered rule list.
type RuleStore interface {
	LoadRules() ([]models.Rule, error)
}

// YAMLRuleStore reads rules from a YAML file.
type YAMLRuleStore struct {
	File string
}

// NewYAMLRuleStore creates a store over the given file.
func NewYAMLRuleStore(file string) *YAMLRuleStore {
	return &YAMLRuleStore{File: file}
}

// LoadRules parses the rule file. A missing file yields the default rule
// set rather than an error, so a fresh deployment categorizes sensibly.
func (s *YAMLRuleStore) LoadRules() ([]models.Rule, error) {
	data, err := os.ReadFile(s.File)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultRules(), nil
		}
		return nil, fmt.Errorf("reading rules file %s: %w", s.File, err)
	}

	var rules []models.Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", s.File, err)
	}
	return rules, nil
}

// StaticRuleStore serves a fixed rule list; used by tests.
type StaticRuleStore struct {
	Rules []models.Rule
	Err   error
}

// LoadRules returns the fixed rules.
func (s *StaticRuleStore) LoadRules() ([]models.Rule, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Rules, nil
}

// DefaultRules is the seeded rule set for a French restaurant back office.
// Employee and supplier names come before the generic patterns that would
// otherwise shadow them.
func DefaultRules() []models.Rule {
	return []models.Rule{
		{Name: "Loyer & Charges", Type: models.CategoryFixedCost, Keywords: []string{"SCI BAB", "LOYER"}},
		{Name: "Salaires & Rémunérations", Type: models.CategorySalary, Keywords: []string{"BELAL", "SALAIRE", "REMUNERATION", "ROSSE", "LEROY"}},
		{Name: "Expert Comptable", Type: models.CategoryFixedCost, Keywords: []string{"SC EXPERT", "COMPTABLE", "FIDUCIAIRE"}},
		{Name: "Frais Bancaires", Type: models.CategoryFinancial, Keywords: []string{"COTISATION", "COMMISSION", "FRAIS"}},
		{Name: "Assurances", Type: models.CategoryFixedCost, Keywords: []string{"GROUPAMA", "ASSURANCE", "AXA", "MAAF"}},
		{Name: "Télécom & Tech", Type: models.CategoryFixedCost, Keywords: []string{"ORANGE", "FREE", "SFR", "BOUYGUES", "OVH"}},
		{Name: "Leasing & Crédit", Type: models.CategoryFinancial, Keywords: []string{"CAPIT", "LEASE", "CREDIT", "LOCAM"}},
		{Name: "Achats & Stocks", Type: models.CategoryVariableCost, Keywords: []string{"METRO", "PROMUS", "CARREFOUR"}},
		{Name: "Impôts & Taxes", Type: models.CategoryTax, Keywords: []string{"DGFIP", "SIE", "CFE", "TVA"}},
		{Name: "Social", Type: models.CategorySalary, Keywords: []string{"URSSAF", "RETRAITE", "PREVOYANCE"}},
		{Name: "Énergie", Type: models.CategoryFixedCost, Keywords: []string{"EDF", "ENGIE", "TOTAL ENERGIES"}},
	}
}
