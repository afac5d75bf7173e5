package sweep

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/mohamedkhairy/sweep-scanner/internal/config"
	"github.com/mohamedkhairy/sweep-scanner/internal/metrics"
	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

// filler builds an uninteresting bar around the given low: small body well
// above the level, nothing that touches or reclaims anything.
func filler(low float64) models.Bar {
	return models.Bar{
		Symbol: "TEST",
		Open:   low + 0.5,
		High:   low + 1.5,
		Low:    low,
		Close:  low + 1.0,
		Volume: 1000,
	}
}

func datestamp(bars []models.Bar) []models.Bar {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i].Date = base.AddDate(0, 0, i)
	}
	return bars
}

// baseSeries is six filler bars forming a swing low at index 3, price 100,
// strength 1.375%. Tests append their trigger bars after it.
func baseSeries() []models.Bar {
	return []models.Bar{
		filler(102), filler(101.5), filler(101),
		filler(100),
		filler(101), filler(101.5),
	}
}

func baseSwing() models.SwingLow {
	return models.SwingLow{AnchorIndex: 3, Price: 100, Strength: 1.375}
}

func classify(t *testing.T, cfg config.EngineConfig, bars []models.Bar, swings []models.SwingLow) []models.SweepSignal {
	t.Helper()
	bars = datestamp(bars)
	mx := metrics.Compute(bars, cfg)
	return NewClassifier(cfg).Classify(bars, mx, swings, nil)
}

func TestClassify_BullishSweep(t *testing.T) {
	cfg := config.DefaultEngineConfig()

	// Trigger: breaches 100 by 1%, closes back above with a bullish body.
	trigger := models.Bar{
		Symbol: "TEST",
		Open:   99.5, High: 101.5, Low: 99.0, Close: 101.0,
		Volume: 1000,
	}
	bars := append(baseSeries(), trigger)

	signals := classify(t, cfg, bars, []models.SwingLow{baseSwing()})
	if len(signals) != 1 {
		t.Fatalf("Expected 1 signal, got %d", len(signals))
	}

	sig := signals[0]
	if sig.TriggerIndex != 6 {
		t.Errorf("Expected trigger index 6, got %d", sig.TriggerIndex)
	}
	if sig.SwingIndex != 3 || sig.SwingLevel != 100 {
		t.Errorf("Expected swing index 3 at level 100, got %d at %f", sig.SwingIndex, sig.SwingLevel)
	}
	if math.Abs(sig.DepthPct-1.0) > 1e-9 {
		t.Errorf("Expected depth 1.0%%, got %f", sig.DepthPct)
	}
	if !sig.Bullish || sig.TwoCandleConfirm {
		t.Errorf("Expected a plain bullish sweep, got bullish=%v twoCandle=%v", sig.Bullish, sig.TwoCandleConfirm)
	}

	// Flat volume (6.25) + wick 30/100*30 (9) + full candle (15) +
	// optimal depth (15) + strength bonus (7).
	if math.Abs(sig.TotalScore-52.25) > 1e-9 {
		t.Errorf("Expected total score 52.25, got %f", sig.TotalScore)
	}
	if sig.Grade != models.GradeB {
		t.Errorf("Expected grade B, got %s", sig.Grade)
	}
	if err := sig.Validate(); err != nil {
		t.Errorf("Expected valid signal, got %v", err)
	}
}

func TestClassify_CanonicalWeakWickSweep(t *testing.T) {
	// A clean touch and reclaim with almost no lower wick: the signal stands
	// on depth and candle body, landing in the C bucket.
	cfg := config.DefaultEngineConfig()
	cfg.SwingLookbackLeft = 2
	cfg.SwingLookbackRight = 2

	trigger := models.Bar{
		Symbol: "TEST",
		Open: 99.60, High: 101.30, Low: 99.50, Close: 101.20,
		Volume: 1000,
	}
	bars := []models.Bar{
		filler(105), filler(103),
		filler(100), // swing at index 2
		filler(104), filler(106),
		trigger,
	}
	swings := []models.SwingLow{{AnchorIndex: 2, Price: 100, Strength: 4.5}}

	signals := classify(t, cfg, bars, swings)
	if len(signals) != 1 {
		t.Fatalf("Expected 1 signal, got %d", len(signals))
	}

	sig := signals[0]
	if math.Abs(sig.DepthPct-0.5) > 1e-9 {
		t.Errorf("Expected depth 0.50%%, got %f", sig.DepthPct)
	}
	if sig.RawWickScore != 20 {
		t.Errorf("Expected weak raw wick score 20, got %f", sig.RawWickScore)
	}
	if sig.Grade != models.GradeC {
		t.Errorf("Expected grade C, got %s with score %f", sig.Grade, sig.TotalScore)
	}
}

func TestClassify_NoTouchNoSignal(t *testing.T) {
	cfg := config.DefaultEngineConfig()

	// The bar never comes near the level.
	trigger := models.Bar{
		Symbol: "TEST",
		Open: 102, High: 103, Low: 101.5, Close: 102.5,
		Volume: 1000,
	}
	bars := append(baseSeries(), trigger)

	signals := classify(t, cfg, bars, []models.SwingLow{baseSwing()})
	if len(signals) != 0 {
		t.Errorf("Expected no signal without a touch, got %d", len(signals))
	}
}

func TestClassify_NoReclaimNoSignal(t *testing.T) {
	cfg := config.DefaultEngineConfig()

	// Breaches the level but closes below the reclaim margin.
	trigger := models.Bar{
		Symbol: "TEST",
		Open: 100.0, High: 100.8, Low: 99.0, Close: 100.1,
		Volume: 1000,
	}
	bars := append(baseSeries(), trigger)

	signals := classify(t, cfg, bars, []models.SwingLow{baseSwing()})
	if len(signals) != 0 {
		t.Errorf("Expected no signal without a reclaim, got %d", len(signals))
	}
}

func TestClassify_DepthBand(t *testing.T) {
	cfg := config.DefaultEngineConfig()

	tests := []struct {
		name string
		low  float64
		want int
	}{
		{"breakdown too deep", 90.0, 0},   // 10% is a breakdown, not a sweep
		{"noise too shallow", 99.95, 0},   // 0.05% is noise
		{"optimal depth", 99.0, 1},        // 1.0%
		{"deep but valid", 97.5, 1},       // 2.5%
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trigger := models.Bar{
				Symbol: "TEST",
				Open: 100.3, High: 101.5, Low: tt.low, Close: 101.0,
				Volume: 1000,
			}
			bars := append(baseSeries(), trigger)

			signals := classify(t, cfg, bars, []models.SwingLow{baseSwing()})
			if len(signals) != tt.want {
				t.Errorf("Expected %d signals at depth low %f, got %d", tt.want, tt.low, len(signals))
			}
		})
	}
}

func TestClassify_TwoCandleConfirm(t *testing.T) {
	cfg := config.DefaultEngineConfig()

	// Bearish trigger rescued by the next bullish bar closing back above.
	trigger := models.Bar{
		Symbol: "TEST",
		Open: 101, High: 101.2, Low: 99.0, Close: 100.5,
		Volume: 1000,
	}
	confirm := models.Bar{
		Symbol: "TEST",
		Open: 100.6, High: 101.8, Low: 100.4, Close: 101.5,
		Volume: 1000,
	}
	bars := append(baseSeries(), trigger, confirm)

	signals := classify(t, cfg, bars, []models.SwingLow{baseSwing()})
	if len(signals) != 1 {
		t.Fatalf("Expected 1 signal, got %d", len(signals))
	}

	sig := signals[0]
	if !sig.TwoCandleConfirm {
		t.Error("Expected two-candle confirmation")
	}
	if sig.Bullish {
		t.Error("Expected bearish trigger bar")
	}
	want := cfg.TwoCandleCredit * cfg.CandleWeight
	if math.Abs(sig.CandleScore-want) > 1e-9 {
		t.Errorf("Expected candle score %f, got %f", want, sig.CandleScore)
	}
}

func TestClassify_StrongWickStandsAlone(t *testing.T) {
	cfg := config.DefaultEngineConfig()

	// Bearish trigger with a dominant lower wick; the next bar offers no
	// confirmation. The wick path passes the gate but earns no candle credit.
	trigger := models.Bar{
		Symbol: "TEST",
		Open: 101, High: 101.2, Low: 99.0, Close: 100.5,
		Volume: 1000,
	}
	next := models.Bar{
		Symbol: "TEST",
		Open: 101, High: 101.3, Low: 100.2, Close: 100.5,
		Volume: 1000,
	}
	bars := append(baseSeries(), trigger, next)

	signals := classify(t, cfg, bars, []models.SwingLow{baseSwing()})
	if len(signals) != 1 {
		t.Fatalf("Expected 1 signal, got %d", len(signals))
	}

	sig := signals[0]
	if sig.TwoCandleConfirm {
		t.Error("Expected no two-candle confirmation")
	}
	if sig.CandleScore != 0 {
		t.Errorf("Expected candle score 0 on the wick-only path, got %f", sig.CandleScore)
	}
}

func TestClassify_RequireBullishDropsSwing(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.TwoCandleConfirm = false
	cfg.RequireBullish = true

	// Weak bearish bar passes touch/reclaim/depth first; a textbook bullish
	// sweep follows, but the swing is already gone.
	weak := models.Bar{
		Symbol: "TEST",
		Open: 105, High: 106, Low: 99.5, Close: 100.3,
		Volume: 2500,
	}
	good := models.Bar{
		Symbol: "TEST",
		Open: 99.5, High: 101.5, Low: 99.0, Close: 101.0,
		Volume: 1000,
	}
	bars := []models.Bar{
		filler(102), filler(101.5), filler(101),
		filler(100),
		filler(101),
		weak, good,
	}

	signals := classify(t, cfg, bars, []models.SwingLow{baseSwing()})
	if len(signals) != 0 {
		t.Fatalf("Expected the swing to be dropped, got %d signals", len(signals))
	}

	// Without the requirement the same weak bar is scored on its own merits.
	cfg.RequireBullish = false
	signals = classify(t, cfg, bars, []models.SwingLow{baseSwing()})
	if len(signals) != 1 {
		t.Fatalf("Expected 1 signal without the bullish requirement, got %d", len(signals))
	}
	if signals[0].TriggerIndex != 5 {
		t.Errorf("Expected trigger index 5, got %d", signals[0].TriggerIndex)
	}
	if signals[0].CandleScore != 0 {
		t.Errorf("Expected candle score 0 on a failed gate, got %f", signals[0].CandleScore)
	}
}

func TestClassify_FirstQualifyingBarIsTerminal(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.TwoCandleConfirm = false

	// The weak bar qualifies first and scores below the floor; its rejection
	// consumes the swing, and the better bar behind it never gets a chance.
	weak := models.Bar{
		Symbol: "TEST",
		Open: 105, High: 106, Low: 99.5, Close: 100.3,
		Volume: 1000,
	}
	good := models.Bar{
		Symbol: "TEST",
		Open: 99.5, High: 101.5, Low: 99.0, Close: 101.0,
		Volume: 1000,
	}
	bars := []models.Bar{
		filler(102), filler(101.5), filler(101),
		filler(100),
		filler(101),
		weak, good,
	}

	signals := classify(t, cfg, bars, []models.SwingLow{baseSwing()})
	if len(signals) != 0 {
		t.Errorf("Expected the rejected first bar to consume the swing, got %d signals", len(signals))
	}
}

func TestClassify_EarlierBarBeatsBetterLaterBar(t *testing.T) {
	cfg := config.DefaultEngineConfig()

	decent := models.Bar{
		Symbol: "TEST",
		Open: 99.5, High: 101.5, Low: 99.0, Close: 101.0,
		Volume: 1000,
	}
	better := models.Bar{
		Symbol: "TEST",
		Open: 99.2, High: 102, Low: 98.9, Close: 101.8,
		Volume: 5000,
	}
	bars := append(baseSeries(), decent, better)

	signals := classify(t, cfg, bars, []models.SwingLow{baseSwing()})
	if len(signals) != 1 {
		t.Fatalf("Expected 1 signal, got %d", len(signals))
	}
	if signals[0].TriggerIndex != 6 {
		t.Errorf("Expected the earlier qualifying bar to win, got trigger index %d", signals[0].TriggerIndex)
	}
}

func TestClassify_TriggerBarUsedOnce(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.ScanHorizon = 7 // wide enough for both swings to reach the trigger

	trigger := models.Bar{
		Symbol: "TEST",
		Open: 99.4, High: 100.8, Low: 99.0, Close: 100.5,
		Volume: 1000,
	}
	// Swing B's anchor bar breaches A's level but closes under the reclaim
	// margin, so it is not a trigger candidate for A.
	anchorB := models.Bar{
		Symbol: "TEST",
		Open: 100.1, High: 100.6, Low: 99.5, Close: 100.0,
		Volume: 1000,
	}
	bars := []models.Bar{
		filler(103), filler(102.5), filler(102),
		filler(100), // swing A
		filler(101), filler(100.5),
		anchorB, // swing B
		filler(100.2), filler(100.4),
		trigger, // breaches both levels
	}
	swings := []models.SwingLow{
		{AnchorIndex: 3, Price: 100, Strength: 1.625},
		{AnchorIndex: 6, Price: 99.5, Strength: 1.2},
	}

	signals := classify(t, cfg, bars, swings)
	if len(signals) != 1 {
		t.Fatalf("Expected 1 signal, got %d", len(signals))
	}
	if signals[0].SwingIndex != 3 {
		t.Errorf("Expected the earlier swing to claim the trigger bar, got swing index %d", signals[0].SwingIndex)
	}
	if signals[0].TriggerIndex != 9 {
		t.Errorf("Expected trigger index 9, got %d", signals[0].TriggerIndex)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	cfg := config.DefaultEngineConfig()

	trigger := models.Bar{
		Symbol: "TEST",
		Open: 99.5, High: 101.5, Low: 99.0, Close: 101.0,
		Volume: 1000,
	}
	bars := datestamp(append(baseSeries(), trigger))
	mx := metrics.Compute(bars, cfg)
	swings := []models.SwingLow{baseSwing()}

	first := NewClassifier(cfg).Classify(bars, mx, swings, nil)
	second := NewClassifier(cfg).Classify(bars, mx, swings, nil)

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical output across repeated runs")
	}
	if len(first) == 1 && first[0].ID == "" {
		t.Error("Expected a stable non-empty signal ID")
	}
}

func TestClassify_ScoreWithinBounds(t *testing.T) {
	cfg := config.DefaultEngineConfig()

	// An everything-aligned sweep: hammer shape, extreme volume, optimal
	// depth, equal-low context. The total must still be clipped to 100.
	trigger := models.Bar{
		Symbol: "TEST",
		Open: 100.8, High: 101.2, Low: 99.0, Close: 101.1,
		Volume: 10000,
	}
	bars := append(baseSeries(), trigger)
	swings := []models.SwingLow{
		{AnchorIndex: 3, Price: 100, Strength: 2.5, IsEqualLow: true},
	}

	signals := classify(t, cfg, bars, swings)
	if len(signals) != 1 {
		t.Fatalf("Expected 1 signal, got %d", len(signals))
	}
	sig := signals[0]
	if sig.TotalScore < 0 || sig.TotalScore > 100 {
		t.Errorf("Expected total score in [0,100], got %f", sig.TotalScore)
	}
	if sig.Grade != models.GradeAPlus {
		t.Errorf("Expected grade A+, got %s", sig.Grade)
	}
	if !sig.EqualLow {
		t.Error("Expected equal-low flag to carry into the signal")
	}
}
