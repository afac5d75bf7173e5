package sweep

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/mohamedkhairy/sweep-scanner/internal/metrics"
	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

// score combines the five weighted sub-scores for a qualifying (swing, bar)
// pair into a total and a grade. Total = volume + wick + candle + depth +
// context, clipped to [0,100].
func (c *Classifier) score(
	bar *models.Bar,
	m *metrics.BarMetrics,
	sw models.SwingLow,
	depthPct float64,
	triggerIndex int,
	verdict candleVerdict,
) models.SweepSignal {
	volume := m.VolumeScore / 100 * c.cfg.VolumeWeight
	wick := m.WickScore / 100 * c.cfg.WickWeight
	candle := verdict.credit * c.cfg.CandleWeight
	depth := c.depthScore(depthPct)
	context := c.contextScore(sw)

	total := math.Min(100, volume+wick+candle+depth+context)
	total = math.Max(0, total)

	return models.SweepSignal{
		ID:           signalID(bar, sw),
		Symbol:       bar.Symbol,
		Date:         bar.Date,
		TriggerIndex: triggerIndex,
		SwingIndex:   sw.AnchorIndex,
		SwingLevel:   sw.Price,
		Close:        bar.Close,
		DepthPct:     depthPct,
		WickPct:      m.LowerWickRatio * 100,

		VolumeScore:  volume,
		WickScore:    wick,
		CandleScore:  candle,
		DepthScore:   depth,
		ContextScore: context,
		TotalScore:   total,
		Grade:        c.gradeFor(total),

		RawVolumeScore: m.VolumeScore,
		RawWickScore:   m.WickScore,

		TwoCandleConfirm: verdict.twoCandle,
		EqualLow:         sw.IsEqualLow,
		Hammer:           m.IsHammer,
		Dragonfly:        m.IsDragonfly,
		Bullish:          m.IsBullish,
	}
}

// depthScore grants the full depth weight inside the optimal sub-band and a
// reduced share on either side of it. Depth outside the valid band never
// reaches here; the classifier gates it out.
func (c *Classifier) depthScore(depthPct float64) float64 {
	switch {
	case depthPct >= c.cfg.OptimalDepthMin && depthPct <= c.cfg.OptimalDepthMax:
		return c.cfg.DepthWeight
	case depthPct < c.cfg.OptimalDepthMin:
		return c.cfg.DepthWeight * c.cfg.ShallowDepthRatio
	default:
		return c.cfg.DepthWeight * c.cfg.DeepDepthRatio
	}
}

// contextScore rewards stronger liquidity around the swing: an equal-low
// partner and a deep swing relative to its neighbors, capped at the weight.
func (c *Classifier) contextScore(sw models.SwingLow) float64 {
	var score float64
	if sw.IsEqualLow {
		score += c.cfg.EqualLowBonus
	}
	if sw.Strength > c.cfg.SwingStrengthMin {
		score += c.cfg.StrengthBonus
	}
	return math.Min(c.cfg.ContextWeight, score)
}

// gradeFor maps a total score onto its grade bucket. Thresholds are
// validated to be strictly decreasing, so the buckets are exhaustive and
// non-overlapping.
func (c *Classifier) gradeFor(total float64) models.Grade {
	switch {
	case total >= c.cfg.GradeAMin:
		return models.GradeAPlus
	case total >= c.cfg.GradeBMin:
		return models.GradeB
	case total >= c.cfg.GradeCMin:
		return models.GradeC
	default:
		return models.GradeD
	}
}

// signalID derives a stable ID from the signal's identity so that repeated
// scans over the same series produce identical output.
func signalID(bar *models.Bar, sw models.SwingLow) string {
	key := fmt.Sprintf("%s:%s:%.6f", bar.Symbol, bar.Date.Format("2006-01-02"), sw.Price)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}
