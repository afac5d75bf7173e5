package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/mohamedkhairy/sweep-scanner/internal/models"
	"github.com/mohamedkhairy/sweep-scanner/internal/storage"
	"github.com/mohamedkhairy/sweep-scanner/pkg/logger"
)

// Deduplicator suppresses re-emission of signals already alerted by an
// earlier scan run. Daily scans over overlapping windows rediscover the same
// sweeps; the idempotency key marks them as seen for the TTL.
type Deduplicator struct {
	kv  storage.KVStore
	ttl time.Duration
}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator(kv storage.KVStore, ttl time.Duration) *Deduplicator {
	return &Deduplicator{kv: kv, ttl: ttl}
}

// IdempotencyKey identifies a signal across scan runs.
// Format: sweep:dedupe:{symbol}:{date}:{swing level}
func IdempotencyKey(sig *models.SweepSignal) string {
	return fmt.Sprintf("sweep:dedupe:%s:%s:%.4f",
		sig.Symbol, sig.Date.Format("2006-01-02"), sig.SwingLevel)
}

// IsDuplicate reports whether the signal was already emitted, and marks it
// as seen when it was not.
func (d *Deduplicator) IsDuplicate(ctx context.Context, sig *models.SweepSignal) (bool, error) {
	key := IdempotencyKey(sig)

	exists, err := d.kv.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}
	if exists {
		logger.Debug("duplicate signal suppressed",
			logger.String("signal_id", sig.ID),
			logger.String("symbol", sig.Symbol),
		)
		return true, nil
	}

	if err := d.kv.Set(ctx, key, sig.ID, d.ttl); err != nil {
		// A failed marker means a possible repeat alert next run, not a
		// dropped one; log and move on.
		logger.Warn("failed to set deduplication key",
			logger.ErrorField(err),
			logger.String("signal_id", sig.ID),
		)
	}
	return false, nil
}

// Filter drops the signals already emitted by earlier runs.
func (d *Deduplicator) Filter(ctx context.Context, signals []models.SweepSignal) ([]models.SweepSignal, error) {
	fresh := make([]models.SweepSignal, 0, len(signals))
	for i := range signals {
		dup, err := d.IsDuplicate(ctx, &signals[i])
		if err != nil {
			return nil, err
		}
		if !dup {
			fresh = append(fresh, signals[i])
		}
	}
	return fresh, nil
}
