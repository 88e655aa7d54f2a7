package domain

import "context"

// ProductCacheStore is durable keyed persistence of cached product snapshots.
// Get returns ErrCacheMiss when no row exists for the barcode; any other error
// means the store could not answer.
type ProductCacheStore interface {
	Get(ctx context.Context, barcode string) (*CachedProduct, error)
	Upsert(ctx context.Context, barcode, name string, payload []byte) (*CachedProduct, error)
}

// ProductOriginClient defines the interface for the authoritative product data provider
type ProductOriginClient interface {
	FetchByBarcode(ctx context.Context, barcode string) (*Product, error)
	SearchByText(ctx context.Context, query string, page int) (*SearchResult, error)
}

// ProfileRepository defines the interface for single-tenant profile persistence
type ProfileRepository interface {
	Find(ctx context.Context) (*Profile, error)
	Create(ctx context.Context, input ProfileInput) (*Profile, error)
	Update(ctx context.Context, id uint, input ProfileInput) (*Profile, error)
	Delete(ctx context.Context, id uint) error
}
