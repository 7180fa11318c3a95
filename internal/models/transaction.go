// Package models defines the canonical transaction shape shared by every
// import path and by the reconciliation passes.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source identifies which import path created a transaction.
type Source string

const (
	SourceBank Source = "BANK"
	SourceCash Source = "CASH"
)

// Type is the cash-register direction of a transaction. Bank transactions
// carry their natural sign and leave it empty.
type Type string

const (
	TypeIn  Type = "IN"
	TypeOut Type = "OUT"
)

// Transaction lifecycle statuses.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

// Reference tags assigned when a source provides no external identifier.
const (
	ReferenceManual = "MANUAL"
)

// Transaction is a single ledger entry, bank or cash.
type Transaction struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	Date        time.Time       `json:"date" gorm:"index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric"`
	Description string          `json:"description"`
	Reference   string          `json:"reference" gorm:"index"`
	Status      string          `json:"status"`
	Source      Source          `json:"source"`
	Type        Type            `json:"type"`
	CategoryID  *string         `json:"category_id" gorm:"index"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewID returns a fresh opaque transaction identifier.
func NewID() string {
	return uuid.NewString()
}

// Fingerprint is the dedup key used to detect the same transaction arriving
// twice across overlapping imports: calendar day, exact amount, trimmed
// case-sensitive description. Intentionally exact-match; near duplicates
// (off-by-one-cent, reworded descriptions) are treated as distinct.
type Fingerprint string

// Fingerprint derives the dedup key for the transaction. The amount is
// rendered at two decimals so "100" and "100.00" from different source
// files produce the same key.
func (t Transaction) Fingerprint() Fingerprint {
	return Fingerprint(fmt.Sprintf("%s_%s_%s",
		t.Date.UTC().Format("2006-01-02"),
		t.Amount.StringFixed(2),
		strings.TrimSpace(t.Description)))
}

// Validate enforces the polarity invariant at the point of entry: a cash
// OUT transaction must carry a negative amount, a cash IN a positive one.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("transaction has no date")
	}
	if t.Amount.IsZero() {
		return fmt.Errorf("transaction amount is zero")
	}
	switch t.Type {
	case TypeOut:
		if t.Amount.IsPositive() {
			return fmt.Errorf("OUT transaction %q has positive amount %s", t.Description, t.Amount)
		}
	case TypeIn:
		if t.Amount.IsNegative() {
			return fmt.Errorf("IN transaction %q has negative amount %s", t.Description, t.Amount)
		}
	}
	return nil
}

// Day returns the transaction date truncated to midnight UTC.
func (t Transaction) Day() time.Time {
	d := t.Date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
