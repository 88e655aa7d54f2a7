package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/airecipes/backend/internal/domain"
	"github.com/airecipes/backend/internal/logger"
	"github.com/airecipes/backend/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// SearchPageSize is the number of hits requested per search page
	SearchPageSize = 20

	opProduct = "product"
	opSearch  = "search"

	maxBodyBytes  = 4 << 20
	maxErrorBytes = 512
)

// productFields limits the product document to what MapToProduct reads
var productFields = strings.Join([]string{
	"code", "product_name", "brands", "categories", "categories_tags",
	"image_url", "image_front_url", "ingredients_text", "ingredients",
	"allergens", "allergens_tags", "traces", "traces_tags",
	"nutriscore_grade", "nova_group", "ecoscore_grade", "nutrient_levels",
	"nutriments", "quantity", "serving_size",
}, ",")

// Config holds the settings for the Open Food Facts client
type Config struct {
	BaseURL          string
	SearchURL        string
	UserAgent        string
	Timeout          time.Duration
	MaxRetries       int
	ProductPerMinute int
	SearchPerMinute  int
}

// Client handles communication with the Open Food Facts product and search APIs
type Client struct {
	httpClient     *http.Client
	baseURL        string
	searchURL      string
	userAgent      string
	maxRetries     int
	productLimiter *rate.Limiter
	searchLimiter  *rate.Limiter
	backoff        func(attempt int) time.Duration
	debug          bool
	log            *zap.Logger
}

// NewClient creates a new Open Food Facts API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		searchURL:      strings.TrimRight(cfg.SearchURL, "/"),
		userAgent:      cfg.UserAgent,
		maxRetries:     cfg.MaxRetries,
		productLimiter: perMinute(cfg.ProductPerMinute),
		searchLimiter:  perMinute(cfg.SearchPerMinute),
		backoff:        exponentialBackoff,
		log:            logger.WithModule("openfoodfacts"),
	}
}

// perMinute builds a limiter allowing n requests per minute with a burst of n.
// Zero or negative n disables limiting.
func perMinute(n int) *rate.Limiter {
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
}

// SetDebug enables per-request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying after the given attempt: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return 500 * time.Millisecond * time.Duration(1<<(attempt-1))
}

// FetchByBarcode retrieves a single product by barcode
func (c *Client) FetchByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json?%s",
		c.baseURL, url.PathEscape(barcode), url.Values{"fields": {productFields}}.Encode())

	body, err := c.get(ctx, opProduct, c.productLimiter, reqURL)
	if err != nil {
		return nil, err
	}

	var resp productResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode product response: %v", domain.ErrOriginUnavailable, err)
	}

	if resp.Status != 1 || resp.Product == nil {
		c.debugf("product not found", zap.String("barcode", barcode), zap.String("status", resp.StatusVerbose))
		return nil, domain.ErrProductNotFound
	}

	return MapToProduct(resp.Product, barcode), nil
}

// SearchByText runs a free-text search and returns one page of summaries
func (c *Client) SearchByText(ctx context.Context, query string, page int) (*domain.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("langs", "en")
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(SearchPageSize))
	reqURL := fmt.Sprintf("%s/search?%s", c.searchURL, params.Encode())

	body, err := c.get(ctx, opSearch, c.searchLimiter, reqURL)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode search response: %v", domain.ErrOriginUnavailable, err)
	}

	result := &domain.SearchResult{
		Products: make([]domain.ProductSummary, 0, len(resp.Hits)),
		Count:    resp.Count,
		Page:     resp.Page,
	}
	for i := range resp.Hits {
		result.Products = append(result.Products, MapToSummary(&resp.Hits[i]))
	}
	if result.Count == 0 {
		result.Count = len(result.Products)
	}
	if result.Page == 0 {
		result.Page = page
	}

	c.debugf("search completed", zap.String("query", query), zap.Int("hits", len(result.Products)))
	return result, nil
}

// get performs a rate-limited GET with retries on network errors, 429 and 5xx
func (c *Client) get(ctx context.Context, op string, limiter *rate.Limiter, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			metrics.OriginRequests.WithLabelValues(op, "rate_limited").Inc()
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		c.debugf("request", zap.String("op", op), zap.String("url", reqURL), zap.Int("attempt", attempt))

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			metrics.OriginRequests.WithLabelValues(op, "error").Inc()
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrOriginUnavailable, ctx.Err())
			}
			c.log.Warn("request failed", zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			if !c.wait(ctx, attempt) {
				break
			}
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		metrics.OriginRequests.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrOriginUnavailable, readErr)
			}
			return body, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, domain.ErrProductNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			c.log.Warn("retryable status",
				zap.String("op", op), zap.Int("attempt", attempt), zap.Int("status", resp.StatusCode))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrOriginUnavailable, resp.StatusCode)
			if !c.wait(ctx, attempt) {
				break
			}
			continue
		default:
			return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrOriginUnavailable, resp.StatusCode, truncate(body))
		}
		break
	}

	c.log.Error("all retries failed", zap.String("op", op), zap.Error(lastErr))
	if lastErr == nil {
		lastErr = errors.New("no attempts made")
	}
	if !errors.Is(lastErr, domain.ErrOriginUnavailable) {
		lastErr = fmt.Errorf("%w: %v", domain.ErrOriginUnavailable, lastErr)
	}
	return nil, lastErr
}

// doRequest executes an HTTP GET request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return c.httpClient.Do(req)
}

// wait sleeps before the next attempt. It returns false when no attempt remains
// or the context is done.
func (c *Client) wait(ctx context.Context, attempt int) bool {
	if attempt >= c.maxRetries {
		return false
	}
	timer := time.NewTimer(c.backoff(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Client) debugf(msg string, fields ...zap.Field) {
	if c.debug {
		c.log.Info(msg, fields...)
	}
}

func truncate(body []byte) string {
	if len(body) > maxErrorBytes {
		return string(body[:maxErrorBytes]) + "..."
	}
	return string(body)
}
