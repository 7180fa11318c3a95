// Package normalize converts raw source records (bank feed entries,
// spreadsheet rows, manual form input) into canonical ledger transactions.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"restobook/recon/internal/currencyutils"
	"restobook/recon/internal/dateutils"
	"restobook/recon/internal/logging"
	"restobook/recon/internal/models"
)

// Skip reasons. Records failing with these errors are dropped from the
// batch and counted; the batch itself continues.
var (
	ErrMissingDate = errors.New("record has no parseable date")
	ErrZeroAmount  = errors.New("record amount is zero or unparseable")
)

// Raw is a source record before normalization. Exactly one of Date or
// SerialDate is set; Amount may instead be split into Debit/Credit columns.
type Raw struct {
	Date       string
	SerialDate *float64

	Amount string
	Debit  string
	Credit string

	Description string
	Reference   string
	Status      string
	Source      models.Source
	Type        models.Type
}

// Normalizer produces canonical transactions from raw records.
type Normalizer struct {
	log logging.Logger
}

// New creates a Normalizer.
func New(log logging.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Normalize converts a raw record into a transaction. A record without a
// date or with a zero amount is rejected with ErrMissingDate/ErrZeroAmount;
// callers skip it and continue with the rest of the batch.
func (n *Normalizer) Normalize(r Raw) (models.Transaction, error) {
	date, err := n.parseDate(r)
	if err != nil {
		n.log.WithError(err).WithField("description", r.Description).
			Warn("Skipping record without usable date")
		return models.Transaction{}, err
	}

	amount, err := n.parseAmount(r)
	if err != nil {
		return models.Transaction{}, err
	}
	if amount.IsZero() {
		// Zero-amount rows carry no information and must not be persisted.
		return models.Transaction{}, ErrZeroAmount
	}

	// Polarity is enforced at the point of entry: cash OUT rows are stored
	// negative regardless of how the source spelled them.
	switch r.Type {
	case models.TypeOut:
		amount = amount.Abs().Neg()
	case models.TypeIn:
		amount = amount.Abs()
	}

	reference := r.Reference
	if reference == "" {
		reference = models.ReferenceManual
	}
	status := r.Status
	if status == "" {
		status = models.StatusPending
	}
	source := r.Source
	if source == "" {
		source = models.SourceBank
	}

	return models.Transaction{
		ID:          models.NewID(),
		Date:        dateutils.Truncate(date),
		Amount:      amount,
		Description: strings.TrimSpace(r.Description),
		Reference:   reference,
		Status:      status,
		Source:      source,
		Type:        r.Type,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (n *Normalizer) parseDate(r Raw) (time.Time, error) {
	if r.SerialDate != nil {
		return dateutils.FromSerial(*r.SerialDate), nil
	}
	if strings.TrimSpace(r.Date) == "" {
		return time.Time{}, ErrMissingDate
	}
	date, err := dateutils.ParseDate(r.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMissingDate, err)
	}
	return date, nil
}

func (n *Normalizer) parseAmount(r Raw) (decimal.Decimal, error) {
	if r.Debit != "" || r.Credit != "" {
		debit, err := currencyutils.ParseAmount(r.Debit)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: debit %q", ErrZeroAmount, r.Debit)
		}
		credit, err := currencyutils.ParseAmount(r.Credit)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: credit %q", ErrZeroAmount, r.Credit)
		}
		return credit.Sub(debit.Abs()), nil
	}

	amount, err := currencyutils.ParseAmount(r.Amount)
	if err != nil {
		// Unparseable amounts default to zero and the record is skipped.
		return decimal.Zero, fmt.Errorf("%w: %v", ErrZeroAmount, err)
	}
	return amount, nil
}
