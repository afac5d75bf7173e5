package metrics

import (
	"math"

	"github.com/mohamedkhairy/sweep-scanner/internal/config"
	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

// computeVolumeMetrics fills the volume fields for every bar: trailing SMA,
// relative volume, spike/trend flags and a rolling percentile rank.
// Relative volume defaults to 1.0 whenever the trailing average is
// unavailable or the bar carries no volume.
func computeVolumeMetrics(bars []models.Bar, out []BarMetrics, cfg config.EngineConfig) {
	var sum int64
	for i := range bars {
		m := &out[i]
		m.HasVolume = bars[i].Volume > 0
		m.RelativeVolume = 1.0

		// Trailing SMA over the last cfg.VolumeWindow bars including i,
		// valid once cfg.VolumeMinObs observations have accumulated.
		sum += bars[i].Volume
		if i >= cfg.VolumeWindow {
			sum -= bars[i-cfg.VolumeWindow].Volume
		}
		n := i + 1
		if n > cfg.VolumeWindow {
			n = cfg.VolumeWindow
		}
		if n >= cfg.VolumeMinObs {
			m.VolumeSMA = float64(sum) / float64(n)
		}

		if m.HasVolume && m.VolumeSMA > 0 {
			m.RelativeVolume = float64(bars[i].Volume) / m.VolumeSMA
		}
		m.VolumeSpike = m.RelativeVolume >= cfg.VolumeSpike

		// Last three volumes strictly increasing.
		if i >= 2 {
			m.VolumeTrendUp = bars[i].Volume > bars[i-1].Volume &&
				bars[i-1].Volume > bars[i-2].Volume
		}

		m.VolumePercentile = volumePercentile(bars, i)
	}
}

// volumePercentile ranks bar i's volume within the trailing percentile
// window, ties averaged. Returns 0 until the window has enough observations.
func volumePercentile(bars []models.Bar, i int) float64 {
	start := i - percentileWindow + 1
	if start < 0 {
		start = 0
	}
	n := i - start + 1
	if n < percentileMinObs {
		return 0
	}

	cur := bars[i].Volume
	var less, equal int
	for j := start; j <= i; j++ {
		switch {
		case bars[j].Volume < cur:
			less++
		case bars[j].Volume == cur:
			equal++
		}
	}
	rank := float64(less) + (float64(equal)+1)/2
	return rank / float64(n) * 100
}

// volumeScore grades relative volume on a 0-100 scale. Bars without volume
// data keep relative volume 1.0 and land on the flat neutral step; the trend
// bonus only applies when real volume is present.
func volumeScore(m *BarMetrics, cfg config.EngineConfig) float64 {
	var score float64
	switch rel := m.RelativeVolume; {
	case rel >= cfg.ExtremeVolume:
		score = 100
	case rel >= 1.8:
		score = 90
	case rel >= 1.5:
		score = 75
	case rel >= cfg.VolumeSpike:
		score = 60
	case rel >= 1.1:
		score = 40
	case rel >= 1.0:
		score = 25
	default:
		score = 10
	}

	if m.HasVolume && m.VolumeTrendUp {
		score += 10
	}
	return math.Min(100, score)
}
