// Package importer performs idempotent batch imports into the ledger. Each
// candidate transaction is fingerprinted and skipped when an identical
// fingerprint already exists, so re-importing an overlapping source leaves
// the ledger unchanged.
package importer

import (
	"fmt"

	"restobook/recon/internal/ledger"
	"restobook/recon/internal/logging"
	"restobook/recon/internal/models"
	"restobook/recon/internal/normalize"
)

// RecordError records a per-record failure surfaced in the batch summary.
type RecordError struct {
	Description string
	Err         error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %q: %v", e.Description, e.Err)
}

// Summary classifies every record of a batch. A record is never silently
// dropped: it is imported, skipped as a duplicate, or counted as an error
// with its diagnostic kept for the caller.
type Summary struct {
	Imported int
	Skipped  int
	Errors   int
	Errs     []RecordError
}

// Add folds another summary into this one.
func (s *Summary) Add(other Summary) {
	s.Imported += other.Imported
	s.Skipped += other.Skipped
	s.Errors += other.Errors
	s.Errs = append(s.Errs, other.Errs...)
}

// Importer normalizes and deduplicates batches of raw records.
type Importer struct {
	store ledger.Store
	norm  *normalize.Normalizer
	log   logging.Logger
}

// New creates an Importer over the given store.
func New(store ledger.Store, log logging.Logger) *Importer {
	return &Importer{
		store: store,
		norm:  normalize.New(log),
		log:   log,
	}
}

// Import normalizes each raw record and inserts it unless a transaction with
// the same fingerprint already exists. The seen-set covers both the existing
// ledger and records imported earlier in the same batch, so a batch
// containing its own duplicates imports exactly one copy.
func (i *Importer) Import(batch []normalize.Raw) (Summary, error) {
	existing, err := i.store.Find(ledger.Filter{})
	if err != nil {
		// Total inability to reach the store is the one hard failure.
		return Summary{}, fmt.Errorf("loading ledger for dedup: %w", err)
	}

	seen := make(map[models.Fingerprint]struct{}, len(existing))
	for _, t := range existing {
		seen[t.Fingerprint()] = struct{}{}
	}

	var summary Summary
	for _, raw := range batch {
		tx, err := i.norm.Normalize(raw)
		if err != nil {
			// Parse failures are recovered locally: the record is dropped
			// with a diagnostic and the rest of the batch continues.
			summary.Errors++
			summary.Errs = append(summary.Errs, RecordError{Description: raw.Description, Err: err})
			continue
		}

		fp := tx.Fingerprint()
		if _, dup := seen[fp]; dup {
			i.log.WithFields(
				logging.F("description", tx.Description),
				logging.F("date", tx.Date.Format("2006-01-02")),
				logging.F("amount", tx.Amount.String()),
			).Debug("Skipping duplicate transaction")
			summary.Skipped++
			continue
		}

		if err := tx.Validate(); err != nil {
			summary.Errors++
			summary.Errs = append(summary.Errs, RecordError{Description: tx.Description, Err: err})
			continue
		}

		if err := i.store.Create(tx); err != nil {
			i.log.WithError(err).WithFields(
				logging.F("description", tx.Description),
				logging.F("operation", "create"),
			).Error("Store rejected transaction, continuing batch")
			summary.Errors++
			summary.Errs = append(summary.Errs, RecordError{Description: tx.Description, Err: err})
			continue
		}

		seen[fp] = struct{}{}
		summary.Imported++
	}

	i.log.WithFields(
		logging.F("imported", summary.Imported),
		logging.F("skipped", summary.Skipped),
		logging.F("errors", summary.Errors),
	).Info("Import batch finished")

	return summary, nil
}
