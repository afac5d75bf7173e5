package indicator

import (
	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

// Calculator is the interface for streaming technical indicators over daily bars.
type Calculator interface {
	// Name returns the unique name of this indicator (e.g., "atr_14")
	Name() string

	// Update processes a new bar and returns the new indicator value.
	// Returns 0 until enough data has been processed.
	Update(bar *models.Bar) (float64, error)

	// Value returns the current indicator value.
	// Returns 0 and an error if not enough data has been processed.
	Value() (float64, error)

	// Reset clears the indicator state
	Reset()

	// IsReady returns true if the indicator has enough data to produce a valid value
	IsReady() bool
}
