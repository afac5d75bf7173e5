package data

import (
	"context"
	"errors"

	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

var (
	// ErrNoData is returned when a provider has no series for the symbol
	ErrNoData = errors.New("no data for symbol")
	// ErrInvalidSymbol is returned when an invalid symbol is provided
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// Provider supplies an ordered daily bar series for one symbol. The engine
// treats ingestion as a precondition; providers own all I/O and caching.
type Provider interface {
	// GetBars returns the full cached daily series for the symbol,
	// ascending by date.
	GetBars(ctx context.Context, symbol string) ([]models.Bar, error)

	// Name returns the provider name (e.g., "csv-cache", "mock")
	Name() string
}
