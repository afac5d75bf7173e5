package scanner

import (
	"fmt"
	"time"

	"github.com/mohamedkhairy/sweep-scanner/internal/config"
	"github.com/mohamedkhairy/sweep-scanner/internal/metrics"
	"github.com/mohamedkhairy/sweep-scanner/internal/models"
	"github.com/mohamedkhairy/sweep-scanner/internal/swing"
	"github.com/mohamedkhairy/sweep-scanner/internal/sweep"
	"github.com/mohamedkhairy/sweep-scanner/pkg/indicator"
	"github.com/mohamedkhairy/sweep-scanner/pkg/logger"
)

// Engine runs the full detection pipeline over one already-materialized
// daily series: per-bar metrics, swing lows, sweep classification, scoring.
// It holds no state between invocations and is safe to use concurrently for
// different symbols.
type Engine struct {
	cfg config.EngineConfig
}

// NewEngine creates an engine. The configuration is validated eagerly so
// that no scan ever runs against invalid tunables.
func NewEngine(cfg config.EngineConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Scan detects sweep signals in the series. Bars must be ascending by date
// with no duplicates; series too short for the swing lookbacks return an
// empty signal set, not an error.
func (e *Engine) Scan(symbol string, bars []models.Bar) ([]models.SweepSignal, error) {
	start := time.Now()
	defer func() {
		logger.ScanDuration.Observe(time.Since(start).Seconds())
		logger.SymbolsScanned.Inc()
	}()

	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return nil, fmt.Errorf("%s: %w", symbol, models.ErrUnorderedBars)
		}
	}

	mx := metrics.Compute(bars, e.cfg)
	swings := swing.Detect(bars, e.cfg.SwingLookbackLeft, e.cfg.SwingLookbackRight, e.cfg.EqualLowTolerance)

	var atr []float64
	if e.cfg.MinBreakATR > 0 {
		var err error
		atr, err = indicator.ATRSeries(bars, e.cfg.ATRPeriod)
		if err != nil {
			return nil, fmt.Errorf("%s: ATR: %w", symbol, err)
		}
	}

	signals := sweep.NewClassifier(e.cfg).Classify(bars, mx, swings, atr)
	for i := range signals {
		logger.SignalsEmitted.WithLabelValues(string(signals[i].Grade)).Inc()
	}

	logger.Debug("scan complete",
		logger.String("symbol", symbol),
		logger.Int("bars", len(bars)),
		logger.Int("swings", len(swings)),
		logger.Int("signals", len(signals)),
	)
	return signals, nil
}
