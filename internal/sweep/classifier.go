package sweep

import (
	"github.com/mohamedkhairy/sweep-scanner/internal/config"
	"github.com/mohamedkhairy/sweep-scanner/internal/metrics"
	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

// Classifier scans forward from each swing low for the bar that sweeps the
// level: its low touches or breaches the swing price and its close reclaims
// it. The tie-break rule is "earliest qualifying bar within the horizon" —
// the first bar passing every gate is terminal for its swing, whether the
// resulting score is accepted or not. A later, higher-quality candidate in
// the same horizon never overrides it.
type Classifier struct {
	cfg config.EngineConfig
}

// NewClassifier creates a classifier for the given engine configuration.
// The configuration must already be validated.
func NewClassifier(cfg config.EngineConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify walks the swings oldest-first and emits at most one accepted
// signal per swing. A bar already carrying a signal is skipped as a candidate
// for later swings (first matching swing wins).
//
// atr carries the per-bar ATR values for the optional depth floor; pass nil
// when the floor is disabled.
func (c *Classifier) Classify(
	bars []models.Bar,
	mx []metrics.BarMetrics,
	swings []models.SwingLow,
	atr []float64,
) []models.SweepSignal {
	signals := make([]models.SweepSignal, 0)
	used := make(map[int]bool)

	for _, sw := range swings {
		sig, trigger, ok := c.classifySwing(bars, mx, sw, atr, used)
		if !ok {
			continue
		}
		used[trigger] = true
		signals = append(signals, sig)
	}
	return signals
}

// classifySwing runs the forward scan for a single swing. Returns the
// accepted signal and its trigger index, or ok=false when the swing produced
// nothing (horizon exhausted, gate rejection, or score below the floor).
func (c *Classifier) classifySwing(
	bars []models.Bar,
	mx []metrics.BarMetrics,
	sw models.SwingLow,
	atr []float64,
	used map[int]bool,
) (models.SweepSignal, int, bool) {
	level := sw.Price
	if level <= 0 {
		return models.SweepSignal{}, 0, false
	}

	end := sw.AnchorIndex + c.cfg.ScanHorizon
	if end > len(bars)-1 {
		end = len(bars) - 1
	}

	for j := sw.AnchorIndex + 1; j <= end; j++ {
		if !mx[j].CanTrigger || used[j] {
			continue
		}
		bar := &bars[j]

		touch := bar.Low <= level*(1+c.cfg.TouchTolerance)
		reclaim := bar.Close > level*(1+c.cfg.ReclaimMargin)
		if !touch || !reclaim {
			continue
		}

		depthPct := (level - bar.Low) / level * 100
		if depthPct < c.cfg.MinDepthPct || depthPct > c.cfg.MaxDepthPct {
			continue
		}
		if c.cfg.MinBreakATR > 0 && atr != nil && atr[j] > 0 {
			if level-bar.Low < c.cfg.MinBreakATR*atr[j] {
				continue
			}
		}

		verdict := c.candleGate(bars, mx, j, level)
		if !verdict.pass && c.cfg.RequireBullish {
			// Require-bullish drops the swing outright: no weaker bar later
			// in the horizon may stand in for the rejected trigger.
			return models.SweepSignal{}, 0, false
		}

		sig := c.score(bar, &mx[j], sw, depthPct, j, verdict)
		if sig.TotalScore < c.cfg.MinScore {
			// Scored but below the acceptance floor: rejected, and the swing
			// is consumed — first qualifying bar is terminal either way.
			return models.SweepSignal{}, 0, false
		}
		return sig, j, true
	}

	return models.SweepSignal{}, 0, false
}

// candleVerdict is the outcome of the candle-quality gate for a trigger bar.
type candleVerdict struct {
	pass      bool    // at least one acceptance path held
	credit    float64 // fraction of the candle weight earned
	twoCandle bool
}

// candleGate decides whether the trigger bar's shape supports a sweep:
// bullish body (full credit), a bearish bar rescued by the following bullish
// bar closing back above the level (partial credit), or a bearish bar whose
// wick alone is strong enough to stand (no body credit).
func (c *Classifier) candleGate(bars []models.Bar, mx []metrics.BarMetrics, j int, level float64) candleVerdict {
	if mx[j].IsBullish {
		return candleVerdict{pass: true, credit: 1}
	}

	if c.cfg.TwoCandleConfirm && j+1 < len(bars) {
		next := &bars[j+1]
		if next.Close > next.Open && next.Close > level*(1+c.cfg.ReclaimMargin) {
			return candleVerdict{pass: true, credit: c.cfg.TwoCandleCredit, twoCandle: true}
		}
	}

	if mx[j].WickScore >= c.cfg.StrongWickScore {
		return candleVerdict{pass: true, credit: 0}
	}

	return candleVerdict{pass: false, credit: 0}
}
