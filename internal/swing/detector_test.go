package swing

import (
	"testing"
	"time"

	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

func barsFromLows(lows []float64) []models.Bar {
	bars := make([]models.Bar, len(lows))
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i, low := range lows {
		bars[i] = models.Bar{
			Symbol: "TEST",
			Date:   base.AddDate(0, 0, i),
			Open:   low + 0.5,
			High:   low + 1.5,
			Low:    low,
			Close:  low + 1.0,
			Volume: 1000,
		}
	}
	return bars
}

func TestDetect_FindsSwingLow(t *testing.T) {
	bars := barsFromLows([]float64{102, 101.5, 101, 100, 101, 101.5, 102})

	swings := Detect(bars, 3, 2, 0.005)
	if len(swings) != 1 {
		t.Fatalf("Expected 1 swing, got %d", len(swings))
	}
	if swings[0].AnchorIndex != 3 {
		t.Errorf("Expected anchor index 3, got %d", swings[0].AnchorIndex)
	}
	if swings[0].Price != 100 {
		t.Errorf("Expected swing price 100, got %f", swings[0].Price)
	}
}

func TestDetect_TiesDisqualify(t *testing.T) {
	// A plateau: the middle bar is not strictly below its left neighbor.
	bars := barsFromLows([]float64{102, 101.5, 100, 100, 101, 101.5, 102})

	swings := Detect(bars, 3, 2, 0.005)
	if len(swings) != 0 {
		t.Errorf("Expected no swings on a tied low, got %d", len(swings))
	}
}

func TestDetect_ShortSeries(t *testing.T) {
	bars := barsFromLows([]float64{101, 100, 101})

	swings := Detect(bars, 3, 2, 0.005)
	if len(swings) != 0 {
		t.Errorf("Expected no swings on a series shorter than the lookbacks, got %d", len(swings))
	}
	if swings := Detect(nil, 3, 2, 0.005); len(swings) != 0 {
		t.Errorf("Expected no swings on an empty series, got %d", len(swings))
	}
}

func TestDetect_Strength(t *testing.T) {
	bars := barsFromLows([]float64{102, 101.5, 101, 100, 101, 101.5, 102})

	swings := Detect(bars, 3, 2, 0.005)
	if len(swings) != 1 {
		t.Fatalf("Expected 1 swing, got %d", len(swings))
	}

	// Left average (102+101.5+101)/3 = 101.5, right average (101+101.5)/2
	// = 101.25, mean 101.375 -> strength 1.375%.
	want := 1.375
	if diff := swings[0].Strength - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected strength %f, got %f", want, swings[0].Strength)
	}
}

func TestDetect_EqualLowsFlagged(t *testing.T) {
	// Two swing lows within 0.5% of each other.
	lows := []float64{
		103, 102.5, 102, 100, 101, 101.5, // swing at 3, price 100
		102, 102.5, 102, 100.3, 101, 101.5, 102, // swing at 9, price 100.3
	}
	bars := barsFromLows(lows)

	swings := Detect(bars, 3, 2, 0.005)
	if len(swings) != 2 {
		t.Fatalf("Expected 2 swings, got %d", len(swings))
	}
	for _, sw := range swings {
		if !sw.IsEqualLow {
			t.Errorf("Expected swing at index %d to be flagged as equal low", sw.AnchorIndex)
		}
	}
}

func TestDetect_DistantLowsNotEqual(t *testing.T) {
	lows := []float64{
		103, 102.5, 102, 100, 101, 101.5,
		102, 102.5, 102, 95, 101, 101.5, 102, // 5% apart from the first swing
	}
	bars := barsFromLows(lows)

	swings := Detect(bars, 3, 2, 0.005)
	if len(swings) != 2 {
		t.Fatalf("Expected 2 swings, got %d", len(swings))
	}
	for _, sw := range swings {
		if sw.IsEqualLow {
			t.Errorf("Expected swing at index %d not to be flagged as equal low", sw.AnchorIndex)
		}
	}
}
