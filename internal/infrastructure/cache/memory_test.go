package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/airecipes/backend/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestMemoryStore_UpsertAndGet(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	store := NewMemoryStoreWithClock(clock.Now)
	ctx := context.Background()

	row, err := store.Upsert(ctx, "737628064502", "Nutella", []byte(`{"name":"Nutella"}`))
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !row.CachedAt.Equal(clock.Now()) {
		t.Errorf("CachedAt = %v, want %v", row.CachedAt, clock.Now())
	}

	got, err := store.Get(ctx, "737628064502")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Nutella" {
		t.Errorf("Name = %q, want Nutella", got.Name)
	}
	if string(got.Payload) != `{"name":"Nutella"}` {
		t.Errorf("Payload = %s", got.Payload)
	}
}

func TestMemoryStore_Get_CacheMiss(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "non-existent")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryStore_UpsertOverwrites(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemoryStoreWithClock(clock.Now)
	ctx := context.Background()

	if _, err := store.Upsert(ctx, "123", "Old", []byte("old")); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}
	clock.Advance(8 * 24 * time.Hour)
	if _, err := store.Upsert(ctx, "123", "New", []byte("new")); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	if store.Size() != 1 {
		t.Errorf("Size() = %d, want 1", store.Size())
	}

	got, err := store.Get(ctx, "123")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "New" || string(got.Payload) != "new" {
		t.Errorf("row = %+v, want second write to win", got)
	}
	if !got.CachedAt.Equal(clock.Now()) {
		t.Errorf("CachedAt = %v, want %v", got.CachedAt, clock.Now())
	}
}

func TestMemoryStore_GetDoesNotMutate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemoryStoreWithClock(clock.Now)
	ctx := context.Background()

	written, _ := store.Upsert(ctx, "123", "Milk", []byte("payload"))
	clock.Advance(time.Hour)

	got, err := store.Get(ctx, "123")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got.Payload[0] = 'X'

	again, _ := store.Get(ctx, "123")
	if string(again.Payload) != "payload" {
		t.Errorf("Payload = %s, want stored bytes to be unaffected", again.Payload)
	}
	if !again.CachedAt.Equal(written.CachedAt) {
		t.Errorf("CachedAt changed on read: %v != %v", again.CachedAt, written.CachedAt)
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Get(ctx, "123"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
	if _, err := store.Upsert(ctx, "123", "x", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Upsert() error = %v, want context.Canceled", err)
	}
	if store.Size() != 0 {
		t.Errorf("Size() = %d, want 0", store.Size())
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		store.Upsert(ctx, fmt.Sprintf("%d", i), "p", nil)
	}
	if store.Size() != 5 {
		t.Errorf("Size() = %d, want 5", store.Size())
	}

	store.Clear()
	if store.Size() != 0 {
		t.Errorf("Size() after Clear() = %d, want 0", store.Size())
	}
}

func TestMemoryStore_ConcurrentUpserts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Upsert(ctx, "same", fmt.Sprintf("writer-%d", i), []byte("x"))
			store.Get(ctx, "same")
		}(i)
	}
	wg.Wait()

	if store.Size() != 1 {
		t.Errorf("Size() = %d, want 1", store.Size())
	}
}
