package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoValidSources is returned when a source filter names no configured source
	ErrNoValidSources = fmt.Errorf("%w: no valid sources requested", ErrInvalidRequest)

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUpstreamUnavailable is returned when a nutrition source cannot be reached
	// or answers with a non-2xx status
	ErrUpstreamUnavailable = errors.New("upstream source unavailable")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrInvalidImage is returned when an upload fails format or size validation
	ErrInvalidImage = errors.New("invalid image")

	// ErrVisionNotConfigured is returned when image analysis is requested without an API key
	ErrVisionNotConfigured = errors.New("vision analysis not configured")
)
