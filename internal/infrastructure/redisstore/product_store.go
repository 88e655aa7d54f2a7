package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/airecipes/backend/internal/domain"
)

// Commander is the subset of redis.Cmdable the product store needs.
type Commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// envelope is the JSON value stored per barcode. The product payload is kept
// as raw JSON so the store never interprets it.
type envelope struct {
	Name     string          `json:"name"`
	Payload  json.RawMessage `json:"payload"`
	CachedAt time.Time       `json:"cached_at"`
}

// ProductStore implements domain.ProductCacheStore on Redis. Keys never
// expire; a single SET per barcode keeps writes atomic per key.
type ProductStore struct {
	r      Commander
	prefix string
	now    func() time.Time
}

// NewProductStore creates a Redis-backed product cache.
func NewProductStore(r Commander, prefix string) *ProductStore {
	return &ProductStore{r: r, prefix: prefix, now: time.Now}
}

func (s *ProductStore) key(barcode string) string {
	if s.prefix == "" {
		return "product:" + barcode
	}
	return s.prefix + ":product:" + barcode
}

// Get implements domain.ProductCacheStore.
func (s *ProductStore) Get(ctx context.Context, barcode string) (*domain.CachedProduct, error) {
	raw, err := s.r.Get(ctx, s.key(barcode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	// An undecodable entry can never be served; report it as a miss so the
	// next successful fetch overwrites it.
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: corrupt entry for %s: %v", domain.ErrCacheMiss, barcode, err)
	}

	return &domain.CachedProduct{
		Barcode:  barcode,
		Name:     env.Name,
		Payload:  []byte(env.Payload),
		CachedAt: env.CachedAt,
	}, nil
}

// Upsert implements domain.ProductCacheStore.
func (s *ProductStore) Upsert(ctx context.Context, barcode, name string, payload []byte) (*domain.CachedProduct, error) {
	if !json.Valid(payload) {
		return nil, fmt.Errorf("product %s payload is not valid JSON", barcode)
	}

	env := envelope{
		Name:     name,
		Payload:  json.RawMessage(payload),
		CachedAt: s.now().UTC(),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}

	if err := s.r.Set(ctx, s.key(barcode), raw, 0).Err(); err != nil {
		return nil, err
	}

	return &domain.CachedProduct{
		Barcode:  barcode,
		Name:     name,
		Payload:  append([]byte(nil), payload...),
		CachedAt: env.CachedAt,
	}, nil
}
