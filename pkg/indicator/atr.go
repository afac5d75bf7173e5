package indicator

import (
	"fmt"
	"time"

	"github.com/mohamedkhairy/sweep-scanner/internal/models"
	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
)

// ATR computes the Average True Range over daily bars, backed by techan.
type ATR struct {
	name      string
	period    int
	series    *techan.TimeSeries
	indicator techan.Indicator
	ready     bool
}

// NewATR creates a new ATR calculator with the specified period
func NewATR(period int) (*ATR, error) {
	if period < 1 {
		return nil, fmt.Errorf("ATR period must be at least 1, got %d", period)
	}

	series := techan.NewTimeSeries()
	return &ATR{
		name:      fmt.Sprintf("atr_%d", period),
		period:    period,
		series:    series,
		indicator: techan.NewAverageTrueRangeIndicator(series, period),
	}, nil
}

// Name returns the indicator name
func (a *ATR) Name() string {
	return a.name
}

// Update processes a new bar and updates the ATR calculation
func (a *ATR) Update(bar *models.Bar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}

	candle := techan.NewCandle(techan.NewTimePeriod(bar.Date, 24*time.Hour))
	candle.OpenPrice = big.NewDecimal(bar.Open)
	candle.MaxPrice = big.NewDecimal(bar.High)
	candle.MinPrice = big.NewDecimal(bar.Low)
	candle.ClosePrice = big.NewDecimal(bar.Close)
	candle.Volume = big.NewDecimal(float64(bar.Volume))
	a.series.AddCandle(candle)

	lastIndex := a.series.LastIndex()
	if lastIndex+1 < a.period {
		return 0, nil
	}

	a.ready = true
	return a.indicator.Calculate(lastIndex).Float(), nil
}

// Value returns the current ATR value
func (a *ATR) Value() (float64, error) {
	if !a.ready {
		return 0, fmt.Errorf("ATR not ready: need at least %d bars", a.period)
	}
	return a.indicator.Calculate(a.series.LastIndex()).Float(), nil
}

// Reset clears the ATR state
func (a *ATR) Reset() {
	a.series = techan.NewTimeSeries()
	a.indicator = techan.NewAverageTrueRangeIndicator(a.series, a.period)
	a.ready = false
}

// IsReady returns true if the ATR has enough data
func (a *ATR) IsReady() bool {
	return a.ready
}

// ATRSeries computes the ATR value at every bar position.
// Positions before the period has filled hold 0.
func ATRSeries(bars []models.Bar, period int) ([]float64, error) {
	atr, err := NewATR(period)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(bars))
	for i := range bars {
		v, err := atr.Update(&bars[i])
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
