package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/airecipes/backend/internal/domain"
	"github.com/airecipes/backend/internal/logger"
	"github.com/airecipes/backend/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ProductFreshness is how long a cached product is served without asking the origin.
// A row exactly this old is still fresh.
const ProductFreshness = 7 * 24 * time.Hour

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	// Now is the clock used for freshness checks. Defaults to time.Now.
	Now func() time.Time
	// SingleFlight collapses concurrent misses for the same barcode into one origin fetch.
	SingleFlight bool
	Logger       *zap.Logger
}

// ProductService handles barcode lookups through the product cache
type ProductService struct {
	store  domain.ProductCacheStore
	origin domain.ProductOriginClient
	now    func() time.Time
	group  *singleflight.Group
	log    *zap.Logger
}

// NewProductService creates a new product service with dependencies
func NewProductService(
	store domain.ProductCacheStore,
	origin domain.ProductOriginClient,
	config ProductServiceConfig,
) *ProductService {
	svc := &ProductService{
		store:  store,
		origin: origin,
		now:    config.Now,
		log:    config.Logger,
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.log == nil {
		svc.log = logger.WithModule("products")
	}
	if config.SingleFlight {
		svc.group = &singleflight.Group{}
	}
	return svc
}

// ValidateBarcode trims the barcode and checks it is non-empty and alphanumeric
func ValidateBarcode(barcode string) (string, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return "", fmt.Errorf("%w: barcode is required", domain.ErrInvalidBarcode)
	}
	// alphanum is ASCII letters and digits only
	if err := getValidator().Var(barcode, "alphanum"); err != nil {
		return "", domain.ErrInvalidBarcode
	}
	return barcode, nil
}

// GetProduct returns a product by barcode.
// Flow: validate -> fresh cache row -> origin fetch -> upsert -> return
func (s *ProductService) GetProduct(ctx context.Context, barcode string) (*domain.ProductDetails, error) {
	barcode, err := ValidateBarcode(barcode)
	if err != nil {
		return nil, err
	}

	cached, err := s.store.Get(ctx, barcode)
	switch {
	case errors.Is(err, domain.ErrCacheMiss):
		metrics.ProductLookups.WithLabelValues(metrics.LookupMiss).Inc()
	case err != nil:
		metrics.ProductLookups.WithLabelValues(metrics.LookupCacheError).Inc()
		s.log.Error("cache read failed", zap.String("barcode", barcode), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	default:
		if details, ok := s.fromCache(barcode, cached); ok {
			metrics.ProductLookups.WithLabelValues(metrics.LookupFreshHit).Inc()
			return details, nil
		}
		metrics.ProductLookups.WithLabelValues(metrics.LookupStale).Inc()
	}

	if s.group == nil {
		return s.fetchAndStore(ctx, barcode)
	}

	return s.sharedFetch(ctx, barcode)
}

// sharedFetch joins the in-flight fetch for barcode. The fetch is detached from
// the caller that started it and is bounded by the origin client timeout, so a
// cancelled caller only abandons its own wait.
func (s *ProductService) sharedFetch(ctx context.Context, barcode string) (*domain.ProductDetails, error) {
	ch := s.group.DoChan(barcode, func() (interface{}, error) {
		return s.fetchAndStore(context.WithoutCancel(ctx), barcode)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", domain.ErrOriginUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Callers sharing a flight must not share the returned value.
		shared := *res.Val.(*domain.ProductDetails)
		return &shared, nil
	}
}

// fromCache returns the cached product when the row is fresh and decodable
func (s *ProductService) fromCache(barcode string, row *domain.CachedProduct) (*domain.ProductDetails, bool) {
	if s.now().Sub(row.CachedAt) > ProductFreshness {
		return nil, false
	}

	var product domain.Product
	if err := json.Unmarshal(row.Payload, &product); err != nil {
		s.log.Warn("undecodable cached product, refetching", zap.String("barcode", barcode), zap.Error(err))
		return nil, false
	}

	return &domain.ProductDetails{
		Product:  product,
		Cached:   true,
		CachedAt: row.CachedAt,
	}, true
}

// fetchAndStore fetches from the origin and upserts the result. Store failures
// are logged and never fail the lookup.
func (s *ProductService) fetchAndStore(ctx context.Context, barcode string) (*domain.ProductDetails, error) {
	product, err := s.origin.FetchByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			metrics.ProductLookups.WithLabelValues(metrics.LookupNotFound).Inc()
			return nil, domain.ErrProductNotFound
		}
		metrics.ProductLookups.WithLabelValues(metrics.LookupOriginError).Inc()
		if errors.Is(err, domain.ErrOriginUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrOriginUnavailable, err)
	}

	payload, err := json.Marshal(product)
	if err != nil {
		s.storeFailed(barcode, err)
	} else if _, err := s.store.Upsert(ctx, barcode, product.Name, payload); err != nil {
		s.storeFailed(barcode, err)
	}

	return &domain.ProductDetails{
		Product:  *product,
		Cached:   false,
		CachedAt: s.now(),
	}, nil
}

func (s *ProductService) storeFailed(barcode string, err error) {
	metrics.CacheWriteFailures.Inc()
	s.log.Warn("failed to cache product", zap.String("barcode", barcode), zap.Error(err))
}

// SearchProducts runs a free-text search against the origin. The trimmed query
// is passed through unchanged. Results are never cached.
func (s *ProductService) SearchProducts(ctx context.Context, query string, page int) (*domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if page < 1 {
		page = 1
	}

	result, err := s.origin.SearchByText(ctx, query, page)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return &domain.SearchResult{Products: []domain.ProductSummary{}, Page: page}, nil
		}
		s.log.Error("search failed", zap.String("query", query), zap.Error(err))
		if errors.Is(err, domain.ErrOriginUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrOriginUnavailable, err)
	}

	if result.Products == nil {
		result.Products = []domain.ProductSummary{}
	}
	return result, nil
}
