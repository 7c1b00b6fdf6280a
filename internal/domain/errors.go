package domain

import "errors"

var (
	// ErrCatalogUnavailable is returned when the catalog failed to load or is empty
	ErrCatalogUnavailable = errors.New("product catalog is unavailable")

	// ErrProductNotFound is returned when no catalog record matches a lookup
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrNothingToShow is returned when a carousel would be rendered from an empty result set
	ErrNothingToShow = errors.New("no items to show")

	// ErrBackendUnavailable is returned when the embedding or generation backend is unreachable
	ErrBackendUnavailable = errors.New("ollama backend unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
