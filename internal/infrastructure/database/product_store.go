package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/airecipes/backend/internal/domain"
)

// ProductStore implements domain.ProductCacheStore on the relational database.
type ProductStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewProductStore constructs a database-backed product cache.
func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db, now: time.Now}
}

// WithClock overrides the clock used to stamp cached_at.
func (s *ProductStore) WithClock(now func() time.Time) *ProductStore {
	if now != nil {
		s.now = now
	}
	return s
}

// Get returns the cached row for barcode, or domain.ErrCacheMiss.
func (s *ProductStore) Get(ctx context.Context, barcode string) (*domain.CachedProduct, error) {
	var row productRow
	err := s.db.WithContext(ctx).Take(&row, "barcode = ?", barcode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	return toCachedProduct(row), nil
}

// Upsert inserts the row or overwrites name, data and cached_at in a single
// INSERT ... ON CONFLICT statement.
func (s *ProductStore) Upsert(ctx context.Context, barcode, name string, payload []byte) (*domain.CachedProduct, error) {
	row := productRow{
		Barcode:  barcode,
		Name:     name,
		Data:     string(payload),
		CachedAt: s.now().UTC(),
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barcode"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "data", "cached_at"}),
		}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	return toCachedProduct(row), nil
}

func toCachedProduct(row productRow) *domain.CachedProduct {
	return &domain.CachedProduct{
		Barcode:  row.Barcode,
		Name:     row.Name,
		Payload:  []byte(row.Data),
		CachedAt: row.CachedAt,
	}
}
