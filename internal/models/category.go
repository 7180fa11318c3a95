package models

// CategoryType classifies a category for reporting.
type CategoryType string

const (
	CategoryFixedCost    CategoryType = "FIXED_COST"
	CategoryVariableCost CategoryType = "VARIABLE_COST"
	CategoryRevenue      CategoryType = "REVENUE"
	CategoryTax          CategoryType = "TAX"
	CategoryFinancial    CategoryType = "FINANCIAL"
	CategorySalary       CategoryType = "SALARY"
)

// CategoryUncategorized is the name reported when no rule matches.
const CategoryUncategorized = "Uncategorized"

// Category is a seeded classification bucket referenced by transactions.
type Category struct {
	ID   string       `json:"id" gorm:"primaryKey"`
	Name string       `json:"name" gorm:"uniqueIndex"`
	Type CategoryType `json:"type"`
}

// Rule pairs a category with the ordered keywords that select it. Rule
// order is priority order: the first matching rule wins, so specific
// patterns must be listed before general ones.
type Rule struct {
	Name     string       `yaml:"name"`
	Type     CategoryType `yaml:"type"`
	Keywords []string     `yaml:"keywords"`
}
