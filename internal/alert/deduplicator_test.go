package alert

import (
	"context"
	"testing"
	"time"

	"github.com/mohamedkhairy/sweep-scanner/internal/models"
	"github.com/mohamedkhairy/sweep-scanner/internal/storage"
)

func TestDeduplicator_IsDuplicate(t *testing.T) {
	kv := storage.NewMemoryKVStore()
	deduplicator := NewDeduplicator(kv, 1*time.Hour)

	sig := sampleSignal()
	ctx := context.Background()

	// First check should not be duplicate
	isDuplicate, err := deduplicator.IsDuplicate(ctx, &sig)
	if err != nil {
		t.Fatalf("Failed to check duplicate: %v", err)
	}
	if isDuplicate {
		t.Error("Expected signal not to be duplicate on first check")
	}

	// Second check should be duplicate
	isDuplicate, err = deduplicator.IsDuplicate(ctx, &sig)
	if err != nil {
		t.Fatalf("Failed to check duplicate: %v", err)
	}
	if !isDuplicate {
		t.Error("Expected signal to be duplicate on second check")
	}
}

func TestIdempotencyKey(t *testing.T) {
	a := sampleSignal()
	key := IdempotencyKey(&a)

	want := "sweep:dedupe:RELIANCE:2025-08-15:1210.0000"
	if key != want {
		t.Errorf("Expected key %q, got %q", want, key)
	}

	// A different swing level on the same day is a different signal.
	b := sampleSignal()
	b.SwingLevel = 1211.0
	if IdempotencyKey(&a) == IdempotencyKey(&b) {
		t.Error("Expected different keys for different swing levels")
	}

	// Total score does not affect identity.
	c := sampleSignal()
	c.TotalScore = 99
	if IdempotencyKey(&a) != IdempotencyKey(&c) {
		t.Error("Expected identical keys regardless of score")
	}
}

func TestDeduplicator_Filter(t *testing.T) {
	kv := storage.NewMemoryKVStore()
	deduplicator := NewDeduplicator(kv, 1*time.Hour)
	ctx := context.Background()

	first := sampleSignal()
	second := sampleSignal()
	second.Symbol = "TCS"

	fresh, err := deduplicator.Filter(ctx, []models.SweepSignal{first, second})
	if err != nil {
		t.Fatalf("Failed to filter: %v", err)
	}
	if len(fresh) != 2 {
		t.Fatalf("Expected 2 fresh signals, got %d", len(fresh))
	}

	// A rerun over the same signals yields nothing new.
	fresh, err = deduplicator.Filter(ctx, []models.SweepSignal{first, second})
	if err != nil {
		t.Fatalf("Failed to filter: %v", err)
	}
	if len(fresh) != 0 {
		t.Errorf("Expected 0 fresh signals on rerun, got %d", len(fresh))
	}
}
