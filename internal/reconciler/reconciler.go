// Package reconciler implements the corrective passes run against the
// ledger: balance reconciliation against an externally reported balance,
// polarity repair of mis-signed cash transactions, cutoff cleanup of
// known-bad import batches and duplicate removal.
//
// Every pass operates on the current ledger snapshot and carries no state
// across calls. Historical transaction amounts are never rewritten by
// balance reconciliation; all drift is absorbed by a single sentinel
// adjustment entry.
package reconciler

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"restobook/recon/internal/ledger"
	"restobook/recon/internal/logging"
	"restobook/recon/internal/models"
)

// ErrNoDateRange is returned when a reconciliation needs to create the
// sentinel adjustment but the ledger is empty, leaving no date to anchor it.
// Fatal for that account's pass only.
var ErrNoDateRange = errors.New("ledger has no transactions to anchor the adjustment")

// DefaultEpsilon is the currency tolerance under which a balance difference
// counts as reconciled.
var DefaultEpsilon = decimal.RequireFromString("0.01")

// Options configures a Reconciler.
type Options struct {
	// Epsilon is the reconciliation tolerance. Zero means DefaultEpsilon.
	Epsilon decimal.Decimal
	// SentinelReference tags the synthetic adjustment transaction.
	SentinelReference string
	// OpeningBalanceMarker protects the opening-balance entry from
	// cutoff cleanup.
	OpeningBalanceMarker string
}

// Reconciler runs corrective passes over a ledger store.
type Reconciler struct {
	store ledger.Store
	opts  Options
	log   logging.Logger
}

// New creates a Reconciler.
func New(store ledger.Store, opts Options, log logging.Logger) *Reconciler {
	if opts.Epsilon.IsZero() {
		opts.Epsilon = DefaultEpsilon
	}
	if opts.SentinelReference == "" {
		opts.SentinelReference = "INITIAL_BALANCE_ADJUSTMENT"
	}
	if opts.OpeningBalanceMarker == "" {
		opts.OpeningBalanceMarker = "SOLDE INITIAL"
	}
	return &Reconciler{store: store, opts: opts, log: log}
}

// BalanceResult reports the outcome of a balance reconciliation.
type BalanceResult struct {
	Reported decimal.Decimal
	LocalSum decimal.Decimal
	Diff     decimal.Decimal
	// Applied is false when the difference was already within tolerance.
	Applied bool
	// Created is true when the sentinel adjustment was created rather
	// than updated.
	Created bool
}

// ReconcileBalance compares the reported balance against the local sum of
// all bank transactions and concentrates any difference into the sentinel
// adjustment entry. Re-running within tolerance is a no-op.
func (r *Reconciler) ReconcileBalance(reported decimal.Decimal) (BalanceResult, error) {
	localSum, err := r.store.SumAmounts(ledger.Filter{Source: models.SourceBank})
	if err != nil {
		return BalanceResult{}, fmt.Errorf("summing ledger: %w", err)
	}

	diff := reported.Sub(localSum)
	result := BalanceResult{Reported: reported, LocalSum: localSum, Diff: diff}

	if diff.Abs().LessThanOrEqual(r.opts.Epsilon) {
		r.log.WithField("diff", diff.String()).Debug("Balance already within tolerance")
		return result, nil
	}

	sentinels, err := r.store.Find(ledger.Filter{Reference: r.opts.SentinelReference})
	if err != nil {
		return result, fmt.Errorf("locating sentinel adjustment: %w", err)
	}

	if len(sentinels) > 0 {
		// The existing adjustment absorbs cumulative drift.
		sentinel := sentinels[0]
		newAmount := sentinel.Amount.Add(diff)
		if err := r.store.Update(sentinel.ID, ledger.Patch{Amount: &newAmount}); err != nil {
			return result, fmt.Errorf("updating sentinel adjustment: %w", err)
		}
		r.log.WithFields(
			logging.F("before", sentinel.Amount.String()),
			logging.F("after", newAmount.String()),
			logging.F("diff", diff.String()),
		).Info("Updated balance adjustment")
		result.Applied = true
		return result, nil
	}

	start, err := r.ledgerStart()
	if err != nil {
		return result, err
	}

	adjustment := models.Transaction{
		ID:          models.NewID(),
		Date:        start,
		Amount:      diff,
		Description: "Ajustement Initial (Solde de départ)",
		Reference:   r.opts.SentinelReference,
		Status:      models.StatusCompleted,
		Source:      models.SourceBank,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.store.Create(adjustment); err != nil {
		return result, fmt.Errorf("creating sentinel adjustment: %w", err)
	}

	r.log.WithFields(
		logging.F("amount", diff.String()),
		logging.F("date", adjustment.Date.Format("2006-01-02")),
	).Info("Created balance adjustment")
	result.Applied = true
	result.Created = true
	return result, nil
}

// ledgerStart returns the date of the oldest bank transaction. The sentinel
// is anchored there so it precedes the whole history it corrects.
func (r *Reconciler) ledgerStart() (time.Time, error) {
	txs, err := r.store.Find(ledger.Filter{Source: models.SourceBank})
	if err != nil {
		return time.Time{}, fmt.Errorf("loading ledger range: %w", err)
	}
	if len(txs) == 0 {
		return time.Time{}, ErrNoDateRange
	}
	return txs[0].Date, nil
}

// PolarityFix holds a single corrected transaction for audit logging.
type PolarityFix struct {
	ID     string
	Before decimal.Decimal
	After  decimal.Decimal
}

// FixPolarity negates every cash OUT transaction stored with a positive
// amount, a defect left behind by an early import path. Already-correct
// rows are untouched, so re-running is a no-op.
func (r *Reconciler) FixPolarity() ([]PolarityFix, error) {
	zero := decimal.Zero
	wrong, err := r.store.Find(ledger.Filter{
		Type:        models.TypeOut,
		AmountAbove: &zero,
	})
	if err != nil {
		return nil, fmt.Errorf("finding mis-signed transactions: %w", err)
	}

	var fixes []PolarityFix
	for _, tx := range wrong {
		after := tx.Amount.Neg()
		if err := r.store.Update(tx.ID, ledger.Patch{Amount: &after}); err != nil {
			r.log.WithError(err).WithField("id", tx.ID).Error("Failed to fix polarity, continuing")
			continue
		}
		r.log.WithFields(
			logging.F("id", tx.ID),
			logging.F("before", tx.Amount.String()),
			logging.F("after", after.String()),
		).Info("Fixed OUT transaction polarity")
		fixes = append(fixes, PolarityFix{ID: tx.ID, Before: tx.Amount, After: after})
	}

	return fixes, nil
}

// CleanBefore deletes transactions dated before the cutoff, preserving the
// opening-balance entry. Used to drop a known-bad import batch after a
// balance reprise.
func (r *Reconciler) CleanBefore(cutoff time.Time) (int, error) {
	old, err := r.store.Find(ledger.Filter{
		Before:                 &cutoff,
		DescriptionNotContains: r.opts.OpeningBalanceMarker,
	})
	if err != nil {
		return 0, fmt.Errorf("finding transactions before cutoff: %w", err)
	}

	ids := make([]string, 0, len(old))
	for _, tx := range old {
		// The sentinel adjustment is anchored before the history it
		// corrects and must survive cleanup too.
		if tx.Reference == r.opts.SentinelReference {
			continue
		}
		ids = append(ids, tx.ID)
	}

	if err := r.store.Delete(ids); err != nil {
		return 0, fmt.Errorf("deleting transactions before cutoff: %w", err)
	}

	r.log.WithFields(
		logging.F("cutoff", cutoff.Format("2006-01-02")),
		logging.F("deleted", len(ids)),
	).Info("Removed transactions before cutoff")
	return len(ids), nil
}

// RemoveDuplicates sweeps the ledger and deletes every transaction whose
// fingerprint was already seen on an earlier row, keeping the first
// occurrence in date order.
func (r *Reconciler) RemoveDuplicates() (int, error) {
	txs, err := r.store.Find(ledger.Filter{})
	if err != nil {
		return 0, fmt.Errorf("loading ledger: %w", err)
	}

	seen := make(map[models.Fingerprint]struct{}, len(txs))
	var ids []string
	for _, tx := range txs {
		fp := tx.Fingerprint()
		if _, dup := seen[fp]; dup {
			ids = append(ids, tx.ID)
			continue
		}
		seen[fp] = struct{}{}
	}

	if err := r.store.Delete(ids); err != nil {
		return 0, fmt.Errorf("deleting duplicates: %w", err)
	}

	r.log.WithField("deleted", len(ids)).Info("Removed duplicate transactions")
	return len(ids), nil
}
