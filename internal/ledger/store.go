// Package ledger defines the transaction store interface consumed by the
// import and reconciliation passes, with a sqlite-backed implementation for
// the CLI and an in-memory one for tests.
//
// Operations are individually atomic; no cross-operation transaction is
// assumed by callers.
package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"restobook/recon/internal/models"
)

// ErrNotFound is returned when an update targets a missing transaction.
var ErrNotFound = errors.New("transaction not found")

// Filter selects a subset of the ledger. Zero-valued fields are ignored.
type Filter struct {
	Source    models.Source
	Type      models.Type
	Reference string
	// Before selects transactions strictly older than the given date.
	Before *time.Time
	// AmountAbove selects transactions with amount strictly greater.
	AmountAbove *decimal.Decimal
	// Uncategorized selects transactions with no category assigned.
	Uncategorized bool
	// DescriptionNotContains excludes transactions whose description
	// contains the given substring.
	DescriptionNotContains string
}

// Patch updates a subset of a transaction's fields. Nil fields are left
// untouched.
type Patch struct {
	Amount      *decimal.Decimal
	CategoryID  *string
	Description *string
	Status      *string
}

// Store is the ledger persistence interface.
type Store interface {
	// Find returns the transactions matching the filter, ordered by date
	// ascending.
	Find(f Filter) ([]models.Transaction, error)

	// Create persists a new transaction.
	Create(t models.Transaction) error

	// Update applies a patch to the transaction with the given id.
	Update(id string, p Patch) error

	// Delete removes the transactions with the given ids.
	Delete(ids []string) error

	// SumAmounts returns the sum of amounts of all matching transactions.
	SumAmounts(f Filter) (decimal.Decimal, error)
}

func matches(t models.Transaction, f Filter) bool {
	if f.Source != "" && t.Source != f.Source {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Reference != "" && t.Reference != f.Reference {
		return false
	}
	if f.Before != nil && !t.Date.Before(*f.Before) {
		return false
	}
	if f.AmountAbove != nil && !t.Amount.GreaterThan(*f.AmountAbove) {
		return false
	}
	if f.Uncategorized && t.CategoryID != nil {
		return false
	}
	if f.DescriptionNotContains != "" && contains(t.Description, f.DescriptionNotContains) {
		return false
	}
	return true
}
