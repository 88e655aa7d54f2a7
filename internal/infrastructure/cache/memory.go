package cache

import (
	"context"
	"sync"
	"time"

	"github.com/airecipes/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory ProductCacheStore.
// Rows are never expired or evicted; freshness is judged by the caller.
type MemoryStore struct {
	data  map[string]domain.CachedProduct
	mutex sync.RWMutex
	now   func() time.Time
}

// NewMemoryStore creates a new in-memory product cache
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock creates an in-memory product cache that stamps
// writes using the supplied clock
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		data: make(map[string]domain.CachedProduct),
		now:  now,
	}
}

// Get retrieves the cached row for a barcode
func (c *MemoryStore) Get(ctx context.Context, barcode string) (*domain.CachedProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[barcode]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	return copyRow(item), nil
}

// Upsert inserts or fully overwrites the row for a barcode
func (c *MemoryStore) Upsert(ctx context.Context, barcode, name string, payload []byte) (*domain.CachedProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	row := domain.CachedProduct{
		Barcode:  barcode,
		Name:     name,
		Payload:  append([]byte(nil), payload...),
		CachedAt: c.now(),
	}
	c.data[barcode] = row

	return copyRow(row), nil
}

// Size returns the current number of rows (for debugging/monitoring)
func (c *MemoryStore) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all rows
func (c *MemoryStore) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]domain.CachedProduct)
}

// copyRow detaches the returned row from the stored one so callers cannot
// mutate cached payload bytes
func copyRow(row domain.CachedProduct) *domain.CachedProduct {
	row.Payload = append([]byte(nil), row.Payload...)
	return &row
}
