package data

import (
	"context"

	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

// MockProvider serves canned series from memory, for tests and dry runs.
type MockProvider struct {
	Series map[string][]models.Bar
}

// NewMockProvider creates an empty mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{Series: make(map[string][]models.Bar)}
}

// Name returns the provider name
func (p *MockProvider) Name() string { return "mock" }

// GetBars returns the canned series for the symbol
func (p *MockProvider) GetBars(ctx context.Context, symbol string) ([]models.Bar, error) {
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	bars, ok := p.Series[symbol]
	if !ok {
		return nil, ErrNoData
	}
	out := make([]models.Bar, len(bars))
	copy(out, bars)
	return out, nil
}
