package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restobook/recon/internal/models"
)

// GormStore is a Store backed by a sqlite database through GORM.
type GormStore struct {
	db *gorm.DB
}

// Open opens (and migrates) the sqlite ledger at the given DSN.
func Open(dsn string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	if err := db.AutoMigrate(&models.Transaction{}, &models.Category{}); err != nil {
		return nil, fmt.Errorf("migrating ledger schema: %w", err)
	}

	return &GormStore{db: db}, nil
}

// NewGormStore wraps an already-opened gorm database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) query(f Filter) *gorm.DB {
	q := s.db.Model(&models.Transaction{})
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Reference != "" {
		q = q.Where("reference = ?", f.Reference)
	}
	if f.Before != nil {
		q = q.Where("date < ?", *f.Before)
	}
	if f.AmountAbove != nil {
		q = q.Where("CAST(amount AS REAL) > ?", f.AmountAbove.InexactFloat64())
	}
	if f.Uncategorized {
		q = q.Where("category_id IS NULL")
	}
	if f.DescriptionNotContains != "" {
		q = q.Where("description NOT LIKE ?", "%"+f.DescriptionNotContains+"%")
	}
	return q
}

// Find returns matching transactions ordered by date ascending.
func (s *GormStore) Find(f Filter) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.query(f).Order("date asc, created_at asc").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	return txs, nil
}

// Create persists a new transaction.
func (s *GormStore) Create(t models.Transaction) error {
	if t.ID == "" {
		t.ID = models.NewID()
	}
	if err := s.db.Create(&t).Error; err != nil {
		return fmt.Errorf("creating transaction %s: %w", t.ID, err)
	}
	return nil
}

// Update applies a patch to an existing transaction.
func (s *GormStore) Update(id string, p Patch) error {
	updates := map[string]interface{}{}
	if p.Amount != nil {
		updates["amount"] = *p.Amount
	}
	if p.CategoryID != nil {
		updates["category_id"] = *p.CategoryID
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if len(updates) == 0 {
		return nil
	}

	res := s.db.Model(&models.Transaction{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("updating transaction %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes transactions by id.
func (s *GormStore) Delete(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.Delete(&models.Transaction{}, "id IN ?", ids).Error; err != nil {
		return fmt.Errorf("deleting transactions: %w", err)
	}
	return nil
}

// SumAmounts sums matching amounts. The sum is computed in decimal space
// rather than delegated to sqlite so string-stored amounts do not pick up
// float drift.
func (s *GormStore) SumAmounts(f Filter) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := s.query(f).Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, fmt.Errorf("summing ledger amounts: %w", err)
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

// EnsureCategory creates the named category if it does not exist and returns
// its id.
func (s *GormStore) EnsureCategory(name string, typ models.CategoryType) (string, error) {
	var cat models.Category
	err := s.db.Where("name = ?", name).First(&cat).Error
	if err == nil {
		return cat.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("looking up category %q: %w", name, err)
	}

	cat = models.Category{ID: models.NewID(), Name: name, Type: typ}
	if err := s.db.Create(&cat).Error; err != nil {
		return "", fmt.Errorf("creating category %q: %w", name, err)
	}
	return cat.ID, nil
}
