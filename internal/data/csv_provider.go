package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mohamedkhairy/sweep-scanner/internal/models"
	"github.com/mohamedkhairy/sweep-scanner/pkg/logger"
)

// CSVProvider reads daily OHLCV series from an on-disk CSV cache, one file
// per symbol named <SYMBOL>_<period>_1d.csv. The Volume column is optional;
// bars without it carry volume 0 and the engine degrades the volume score.
type CSVProvider struct {
	dir    string
	period string
}

// NewCSVProvider creates a provider over the given cache directory
func NewCSVProvider(dir, period string) *CSVProvider {
	return &CSVProvider{dir: dir, period: period}
}

// Name returns the provider name
func (p *CSVProvider) Name() string { return "csv-cache" }

// Path returns the cache file path for a symbol
func (p *CSVProvider) Path(symbol string) string {
	return filepath.Join(p.dir, fmt.Sprintf("%s_%s_1d.csv", symbol, p.period))
}

// GetBars loads and parses the cached series for the symbol
func (p *CSVProvider) GetBars(ctx context.Context, symbol string) ([]models.Bar, error) {
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := p.Path(symbol)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
		}
		return nil, fmt.Errorf("failed to open cache file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	cols, err := headerIndex(records[0])
	if err != nil {
		return nil, fmt.Errorf("cache file %s: %w", path, err)
	}

	bars := make([]models.Bar, 0, len(records)-1)
	for _, rec := range records[1:] {
		bar, err := parseRow(symbol, rec, cols)
		if err != nil {
			// Partial rows happen in hand-edited caches; skip, don't abort.
			logger.Warn("skipping malformed cache row",
				logger.String("symbol", symbol),
				logger.ErrorField(err),
			)
			continue
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}
	return bars, nil
}

// columnIndex maps the OHLCV fields onto CSV column positions.
// Volume is -1 when the cache was built without it.
type columnIndex struct {
	date, open, high, low, close, volume int
}

func headerIndex(header []string) (columnIndex, error) {
	cols := columnIndex{date: -1, open: -1, high: -1, low: -1, close: -1, volume: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "":
			// yfinance caches write the index column with an empty header
			if cols.date == -1 {
				cols.date = i
			}
		case "open":
			cols.open = i
		case "high":
			cols.high = i
		case "low":
			cols.low = i
		case "close":
			cols.close = i
		case "volume":
			cols.volume = i
		}
	}
	if cols.date == -1 || cols.open == -1 || cols.high == -1 || cols.low == -1 || cols.close == -1 {
		return cols, fmt.Errorf("missing OHLC columns in header %v", header)
	}
	return cols, nil
}

func parseRow(symbol string, rec []string, cols columnIndex) (models.Bar, error) {
	var bar models.Bar
	bar.Symbol = symbol

	// Truncated rows must land on the skip path, not out-of-range.
	for _, idx := range []int{cols.date, cols.open, cols.high, cols.low, cols.close} {
		if idx >= len(rec) {
			return bar, fmt.Errorf("short row: %d fields", len(rec))
		}
	}

	date, err := parseDate(rec[cols.date])
	if err != nil {
		return bar, err
	}
	bar.Date = date

	if bar.Open, err = strconv.ParseFloat(strings.TrimSpace(rec[cols.open]), 64); err != nil {
		return bar, fmt.Errorf("bad open %q: %w", rec[cols.open], err)
	}
	if bar.High, err = strconv.ParseFloat(strings.TrimSpace(rec[cols.high]), 64); err != nil {
		return bar, fmt.Errorf("bad high %q: %w", rec[cols.high], err)
	}
	if bar.Low, err = strconv.ParseFloat(strings.TrimSpace(rec[cols.low]), 64); err != nil {
		return bar, fmt.Errorf("bad low %q: %w", rec[cols.low], err)
	}
	if bar.Close, err = strconv.ParseFloat(strings.TrimSpace(rec[cols.close]), 64); err != nil {
		return bar, fmt.Errorf("bad close %q: %w", rec[cols.close], err)
	}

	if cols.volume >= 0 && cols.volume < len(rec) {
		raw := strings.TrimSpace(rec[cols.volume])
		if raw != "" {
			// Some caches store volume as a float
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return bar, fmt.Errorf("bad volume %q: %w", raw, err)
			}
			bar.Volume = int64(v)
		}
	}

	if err := bar.Validate(); err != nil {
		return bar, err
	}
	return bar, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339,
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			// Normalize to the calendar day; intraday time is meaningless
			// on a daily series.
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}
