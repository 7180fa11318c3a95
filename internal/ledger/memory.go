package ledger

import (
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"restobook/recon/internal/models"
)

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

// MemoryStore is an in-memory Store used by tests and dry runs.
type MemoryStore struct {
	mu  sync.Mutex
	txs map[string]models.Transaction
}

// NewMemoryStore returns an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{txs: make(map[string]models.Transaction)}
}

// Find returns matching transactions ordered by date ascending.
func (s *MemoryStore) Find(f Filter) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Transaction
	for _, t := range s.txs {
		if matches(t, f) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// Create persists a new transaction.
func (s *MemoryStore) Create(t models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = models.NewID()
	}
	s.txs[t.ID] = t
	return nil
}

// Update applies a patch to an existing transaction.
func (s *MemoryStore) Update(id string, p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.txs[id]
	if !ok {
		return ErrNotFound
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.CategoryID != nil {
		t.CategoryID = p.CategoryID
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	s.txs[id] = t
	return nil
}

// Delete removes transactions by id. Unknown ids are ignored.
func (s *MemoryStore) Delete(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.txs, id)
	}
	return nil
}

// SumAmounts sums the amounts of all matching transactions.
func (s *MemoryStore) SumAmounts(f Filter) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := decimal.Zero
	for _, t := range s.txs {
		if matches(t, f) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

// Len returns the number of stored transactions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}
