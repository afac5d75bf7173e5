package swing

import (
	"math"

	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

// Detect finds swing lows in the series: bars whose low is strictly below the
// low of every one of the left bars before it and every one of the right bars
// after it. Ties never qualify. Series shorter than left+right+1 yield an
// empty result, not an error.
//
// Strength is how far the swing sits below its neighborhood: the mean of the
// left-side and right-side average lows, relative to the swing low, percent.
func Detect(bars []models.Bar, left, right int, equalLowTolerance float64) []models.SwingLow {
	var swings []models.SwingLow

	for i := left; i < len(bars)-right; i++ {
		low := bars[i].Low

		isSwing := true
		for j := 1; j <= left; j++ {
			if bars[i-j].Low <= low {
				isSwing = false
				break
			}
		}
		if isSwing {
			for j := 1; j <= right; j++ {
				if bars[i+j].Low <= low {
					isSwing = false
					break
				}
			}
		}
		if !isSwing {
			continue
		}

		swings = append(swings, models.SwingLow{
			AnchorIndex: i,
			Price:       low,
			Strength:    strength(bars, i, left, right),
		})
	}

	flagEqualLows(swings, equalLowTolerance)
	return swings
}

func strength(bars []models.Bar, i, left, right int) float64 {
	if bars[i].Low <= 0 {
		return 0
	}

	var leftSum float64
	for j := 1; j <= left; j++ {
		leftSum += bars[i-j].Low
	}
	var rightSum float64
	for j := 1; j <= right; j++ {
		rightSum += bars[i+j].Low
	}

	avgNeighbor := (leftSum/float64(left) + rightSum/float64(right)) / 2
	return (avgNeighbor - bars[i].Low) / bars[i].Low * 100
}

// flagEqualLows marks every pair of swings whose prices sit within the
// tolerance of each other. Both partners are flagged: a revisited level is
// stronger liquidity than a lone one.
func flagEqualLows(swings []models.SwingLow, tolerance float64) {
	for i := range swings {
		for j := i + 1; j < len(swings); j++ {
			if math.Abs(swings[i].Price-swings[j].Price) <= swings[i].Price*tolerance {
				swings[i].IsEqualLow = true
				swings[j].IsEqualLow = true
			}
		}
	}
}
