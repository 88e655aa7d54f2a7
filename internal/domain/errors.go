package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidBarcode is returned when a barcode is empty or not alphanumeric
	ErrInvalidBarcode = errors.New("invalid barcode format")

	// ErrEmptyQuery is returned when a search query is empty after trimming
	ErrEmptyQuery = errors.New("search query cannot be empty")

	// ErrProductNotFound is returned when Open Food Facts has no product for a barcode
	ErrProductNotFound = errors.New("product not found")

	// ErrOriginUnavailable is returned when the Open Food Facts API cannot be reached
	ErrOriginUnavailable = errors.New("open food facts request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned by a ProductCacheStore when no row exists for a barcode
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the product cache cannot be read
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrProfileNotFound is returned when no user profile has been created yet
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileExists is returned when creating a profile while one already exists
	ErrProfileExists = errors.New("profile already exists")
)
