package storage

import (
	"context"
	"sync"
	"time"

	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

// MemoryKVStore is an in-memory KVStore for tests
type MemoryKVStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKVStore creates an empty in-memory KV store
func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{data: make(map[string]string)}
}

// Set stores a value; the TTL is ignored in memory
func (s *MemoryKVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Exists reports whether the key is present
func (s *MemoryKVStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok, nil
}

// Close is a no-op
func (s *MemoryKVStore) Close() error { return nil }

// MemorySignalStorage is an in-memory SignalStorage for tests
type MemorySignalStorage struct {
	mu      sync.Mutex
	signals map[string]models.SweepSignal
}

// NewMemorySignalStorage creates an empty in-memory signal store
func NewMemorySignalStorage() *MemorySignalStorage {
	return &MemorySignalStorage{signals: make(map[string]models.SweepSignal)}
}

// WriteSignals stores signals, idempotently by ID
func (s *MemorySignalStorage) WriteSignals(ctx context.Context, signals []models.SweepSignal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sig := range signals {
		if _, ok := s.signals[sig.ID]; !ok {
			s.signals[sig.ID] = sig
		}
	}
	return nil
}

// GetSignals retrieves signals matching the filter
func (s *MemorySignalStorage) GetSignals(ctx context.Context, filter SignalFilter) ([]models.SweepSignal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SweepSignal
	for _, sig := range s.signals {
		if filter.Symbol != "" && sig.Symbol != filter.Symbol {
			continue
		}
		if filter.Grade != "" && sig.Grade != filter.Grade {
			continue
		}
		if filter.MinScore > 0 && sig.TotalScore < filter.MinScore {
			continue
		}
		if !filter.StartDate.IsZero() && sig.Date.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && sig.Date.After(filter.EndDate) {
			continue
		}
		out = append(out, sig)
	}
	return out, nil
}

// GetSignal retrieves a single signal by ID
func (s *MemorySignalStorage) GetSignal(ctx context.Context, id string) (*models.SweepSignal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sig, ok := s.signals[id]
	if !ok {
		return nil, nil
	}
	return &sig, nil
}

// Close is a no-op
func (s *MemorySignalStorage) Close() error { return nil }
