package storage

import (
	"context"
	"time"

	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

// SignalStorage defines the interface for signal history persistence
type SignalStorage interface {
	// WriteSignals writes a batch of signals to storage, idempotently by ID
	WriteSignals(ctx context.Context, signals []models.SweepSignal) error

	// GetSignals retrieves signals with filtering options
	GetSignals(ctx context.Context, filter SignalFilter) ([]models.SweepSignal, error)

	// GetSignal retrieves a single signal by ID
	GetSignal(ctx context.Context, id string) (*models.SweepSignal, error)

	// Close closes the storage connection
	Close() error
}

// SignalFilter defines filtering options for signal queries
type SignalFilter struct {
	Symbol    string
	MinScore  float64
	Grade     models.Grade
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Offset    int
}

// KVStore is the slim key-value surface the deduplicator needs
type KVStore interface {
	// Set stores a value with a TTL
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Exists reports whether the key is present
	Exists(ctx context.Context, key string) (bool, error)

	// Close closes the connection
	Close() error
}
