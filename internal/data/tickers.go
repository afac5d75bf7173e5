package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// LoadTickers reads a headerless one-column ticker CSV. Quotes and stray
// commas are stripped, blanks dropped. An empty file is an error; a missing
// ticker's data is a per-symbol problem handled later.
func LoadTickers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ticker file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read ticker file %s: %w", path, err)
	}

	tickers := make([]string, 0, len(records))
	seen := make(map[string]bool)
	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		t := strings.TrimSpace(strings.Trim(rec[0], `"`))
		t = strings.ReplaceAll(t, ",", "")
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tickers = append(tickers, t)
	}

	if len(tickers) == 0 {
		return nil, fmt.Errorf("ticker file %s is empty", path)
	}
	return tickers, nil
}
