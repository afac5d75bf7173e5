package metrics

import (
	"math"

	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

// computeCandleShape fills the shape fields of m from a single bar.
// Ratios are 0 when the candle range is 0; CanTrigger is cleared so the
// classifier skips the bar entirely.
func computeCandleShape(bar *models.Bar, m *BarMetrics) {
	m.CandleRange = bar.High - bar.Low
	m.BodySize = math.Abs(bar.Close - bar.Open)
	m.IsBullish = bar.Close > bar.Open
	m.UpperWick = bar.High - math.Max(bar.Open, bar.Close)
	m.LowerWick = math.Min(bar.Open, bar.Close) - bar.Low

	if m.CandleRange > 0 {
		m.CanTrigger = true
		m.LowerWickRatio = m.LowerWick / m.CandleRange
		m.UpperWickRatio = m.UpperWick / m.CandleRange
		m.BodyRatio = m.BodySize / m.CandleRange
	}
	if m.BodySize > 0 {
		m.WickBodyRatio = m.LowerWick / m.BodySize
	}
}

// wickScore grades the rejection strength below price on a 0-100 scale.
// Step function of the lower wick ratio with bonuses for a bullish body,
// a clean top, and a wick dwarfing the body.
func wickScore(m *BarMetrics) float64 {
	if !m.CanTrigger {
		return 0
	}

	var score float64
	switch lw := m.LowerWickRatio; {
	case lw >= 0.75: // hammer / dragonfly territory
		score = 100
	case lw >= 0.60:
		score = 85
	case lw >= 0.50:
		score = 70
	case lw >= 0.40:
		score = 55
	case lw >= 0.30:
		score = 35
	case lw >= 0.20:
		score = 20
	default:
		score = 5
	}

	if m.IsBullish {
		score += 10
	}
	if m.UpperWickRatio < 0.10 {
		score += 5
	}
	if m.WickBodyRatio > 2 {
		score += 10
	}
	return math.Min(100, score)
}

func isHammer(m *BarMetrics) bool {
	return m.CanTrigger &&
		m.LowerWickRatio >= 0.6 &&
		m.UpperWickRatio < 0.1 &&
		m.BodyRatio < 0.3
}

func isDragonfly(m *BarMetrics) bool {
	return m.CanTrigger &&
		m.LowerWickRatio >= 0.8 &&
		m.BodyRatio < 0.05
}
