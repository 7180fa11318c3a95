// Package recon wires the import, reconciliation and categorization
// components into a single service with an explicit store dependency, the
// entry point used by the administrative commands.
package recon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"restobook/recon/internal/bankfeed"
	"restobook/recon/internal/categorizer"
	"restobook/recon/internal/importer"
	"restobook/recon/internal/ledger"
	"restobook/recon/internal/logging"
	"restobook/recon/internal/normalize"
	"restobook/recon/internal/reconciler"
)

// Service exposes the reconciliation operations over one ledger store.
//
// Corrective actions are serialized behind a process-local mutex; running
// two service instances against the same database concurrently is not a
// supported scenario.
type Service struct {
	mu sync.Mutex

	store ledger.Store
	imp   *importer.Importer
	rec   *reconciler.Reconciler
	cat   *categorizer.Categorizer
	log   logging.Logger
}

// New creates a Service over the given store and rule store.
func New(store ledger.Store, rules categorizer.RuleStore, opts reconciler.Options, log logging.Logger) (*Service, error) {
	cat, err := categorizer.New(rules, log)
	if err != nil {
		return nil, err
	}
	return &Service{
		store: store,
		imp:   importer.New(store, log),
		rec:   reconciler.New(store, opts, log),
		cat:   cat,
		log:   log,
	}, nil
}

// Import runs an idempotent batch import.
func (s *Service) Import(batch []normalize.Raw) (importer.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.imp.Import(batch)
}

// ReconcileBalance reconciles the ledger against a reported balance.
func (s *Service) ReconcileBalance(reported decimal.Decimal) (reconciler.BalanceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.ReconcileBalance(reported)
}

// FixPolarity repairs mis-signed cash OUT transactions.
func (s *Service) FixPolarity() ([]reconciler.PolarityFix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.FixPolarity()
}

// CleanBefore removes transactions older than the cutoff, keeping the
// opening-balance entry and the sentinel adjustment.
func (s *Service) CleanBefore(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.CleanBefore(cutoff)
}

// RemoveDuplicates sweeps the ledger for fingerprint duplicates.
func (s *Service) RemoveDuplicates() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.RemoveDuplicates()
}

// Categorize assigns categories to uncategorized transactions.
func (s *Service) Categorize(resolver categorizer.CategoryResolver) (categorizer.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.CategorizeAll(s.store, resolver)
}

// SyncResult reports a full bank synchronization.
type SyncResult struct {
	Import  importer.Summary
	Balance reconciler.BalanceResult
}

// SyncBank fetches the bank feed for an account, imports its transactions
// and reconciles the ledger against the reported balance. A feed without a
// usable balance imports transactions but skips reconciliation.
func (s *Service) SyncBank(ctx context.Context, client *bankfeed.Client, accountUID string) (SyncResult, error) {
	txResp, err := client.FetchTransactions(ctx, accountUID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetching bank transactions: %w", err)
	}

	var result SyncResult
	result.Import, err = s.Import(txResp.ToRaws())
	if err != nil {
		return result, err
	}

	balResp, err := client.FetchBalances(ctx, accountUID)
	if err != nil {
		return result, fmt.Errorf("fetching bank balances: %w", err)
	}

	reported, ok := balResp.Reported()
	if !ok {
		s.log.Warn("Bank feed reported no usable balance, skipping reconciliation")
		return result, nil
	}

	result.Balance, err = s.ReconcileBalance(reported)
	if err != nil {
		return result, err
	}
	return result, nil
}
