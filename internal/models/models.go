package models

import (
	"time"
)

// Bar represents a single daily OHLCV bar.
// A Volume of 0 means volume data is unavailable for this bar; detection
// still runs, the volume sub-score just degrades to a neutral value.
type Bar struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume,omitempty"`
}

// Validate validates a Bar
func (b *Bar) Validate() error {
	if b.Symbol == "" {
		return ErrInvalidSymbol
	}
	if b.Date.IsZero() {
		return ErrInvalidDate
	}
	if b.High < b.Low {
		return ErrInvalidBar
	}
	if b.Volume < 0 {
		return ErrInvalidVolume
	}
	return nil
}

// IsBullish reports whether the bar closed above its open.
func (b *Bar) IsBullish() bool {
	return b.Close > b.Open
}

// Range returns the full high-low extent of the bar.
func (b *Bar) Range() float64 {
	return b.High - b.Low
}

// SwingLow is a local minimum in the low price: strictly lower than a fixed
// number of bars on both sides. Derived per scan, never persisted.
type SwingLow struct {
	AnchorIndex int     `json:"anchor_index"`
	Price       float64 `json:"price"`
	Strength    float64 `json:"strength"` // depth vs neighboring lows, percent
	IsEqualLow  bool    `json:"is_equal_low"`
}

// Grade buckets the continuous quality score for human triage.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
)

// SweepSignal is one detected liquidity sweep: a bar whose low revisited a
// swing-low level and whose close reclaimed it. At most one signal per swing
// and at most one signal per trigger bar.
type SweepSignal struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol"`
	Date         time.Time `json:"date"`
	TriggerIndex int       `json:"trigger_index"`
	SwingIndex   int       `json:"swing_index"`
	SwingLevel   float64   `json:"swing_level"`
	Close        float64   `json:"close"`
	DepthPct     float64   `json:"depth_pct"`
	WickPct      float64   `json:"wick_pct"`

	VolumeScore  float64 `json:"volume_score"`
	WickScore    float64 `json:"wick_score"`
	CandleScore  float64 `json:"candle_score"`
	DepthScore   float64 `json:"depth_score"`
	ContextScore float64 `json:"context_score"`
	TotalScore   float64 `json:"total_score"`
	Grade        Grade   `json:"grade"`

	RawVolumeScore float64 `json:"raw_volume_score"` // 0-100 before weighting
	RawWickScore   float64 `json:"raw_wick_score"`   // 0-100 before weighting

	TwoCandleConfirm bool `json:"two_candle_confirm"`
	EqualLow         bool `json:"equal_low"`
	Hammer           bool `json:"hammer"`
	Dragonfly        bool `json:"dragonfly"`
	Bullish          bool `json:"bullish"`
}

// Validate validates a SweepSignal
func (s *SweepSignal) Validate() error {
	if s.ID == "" {
		return ErrInvalidSignalID
	}
	if s.Symbol == "" {
		return ErrInvalidSymbol
	}
	if s.Date.IsZero() {
		return ErrInvalidDate
	}
	if s.TotalScore < 0 || s.TotalScore > 100 {
		return ErrScoreOutOfRange
	}
	return nil
}
