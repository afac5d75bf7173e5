package metrics

import (
	"github.com/mohamedkhairy/sweep-scanner/internal/config"
	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

// BarMetrics holds the per-bar derived values the sweep classifier and scorer
// consume. It is computed once per scan and never written back to the input
// bars; the raw series stays read-only.
type BarMetrics struct {
	// Candle shape
	CandleRange    float64
	BodySize       float64
	IsBullish      bool
	UpperWick      float64
	LowerWick      float64
	LowerWickRatio float64
	UpperWickRatio float64
	BodyRatio      float64
	WickBodyRatio  float64

	// CanTrigger is false for degenerate bars (high == low); such a bar can
	// never act as a sweep trigger.
	CanTrigger bool

	// Volume
	HasVolume        bool
	VolumeSMA        float64
	RelativeVolume   float64
	VolumeSpike      bool
	VolumeTrendUp    bool
	VolumePercentile float64

	// Bounded 0-100 component scores
	WickScore   float64
	VolumeScore float64

	// Candle patterns
	IsHammer    bool
	IsDragonfly bool
}

// percentileWindow is the lookback for the rolling volume percentile rank.
const (
	percentileWindow = 50
	percentileMinObs = 10
)

// Compute derives BarMetrics for every bar in the series. Pure function of
// the input series and the engine configuration; the bars are not mutated.
func Compute(bars []models.Bar, cfg config.EngineConfig) []BarMetrics {
	out := make([]BarMetrics, len(bars))

	for i := range bars {
		computeCandleShape(&bars[i], &out[i])
	}
	computeVolumeMetrics(bars, out, cfg)

	for i := range out {
		out[i].WickScore = wickScore(&out[i])
		out[i].VolumeScore = volumeScore(&out[i], cfg)
		out[i].IsHammer = isHammer(&out[i])
		out[i].IsDragonfly = isDragonfly(&out[i])
	}
	return out
}
