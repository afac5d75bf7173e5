package alert

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mohamedkhairy/sweep-scanner/internal/models"
)

// Formatter renders sweep signals into the one-line alert format and the
// date-grouped scan report. Daily bars carry no intraday time; alerts are
// stamped with the NSE session open.
type Formatter struct {
	sessionOpen string
}

// NewFormatter creates a formatter
func NewFormatter() *Formatter {
	return &Formatter{sessionOpen: "09:15 IST"}
}

// Line renders the single-line alert for a signal:
//
//	TICKER @ 15-Aug-2025 09:15 IST | 123.45 (Depth: 0.50%) | Score: 62/100 | Grade: B
func (f *Formatter) Line(sig *models.SweepSignal) string {
	return fmt.Sprintf("%-12s @ %s %s | %.2f (Depth: %.2f%%) | Score: %.0f/100 | Grade: %s",
		sig.Symbol,
		sig.Date.Format("02-Jan-2006"),
		f.sessionOpen,
		sig.Close,
		sig.DepthPct,
		sig.TotalScore,
		sig.Grade,
	)
}

// Details renders the sub-score breakdown and pattern tags for a signal.
func (f *Formatter) Details(sig *models.SweepSignal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vol:%.0f%s Wick:%.0f%s Candle:%s Depth:%.2f%%",
		sig.RawVolumeScore, qualityTag(sig.RawVolumeScore),
		sig.RawWickScore, qualityTag(sig.RawWickScore),
		candleTag(sig),
		sig.DepthPct,
	)
	if sig.EqualLow {
		b.WriteString(" [EQL]")
	}
	if sig.Hammer {
		b.WriteString(" [HAMMER]")
	}
	if sig.Dragonfly {
		b.WriteString(" [DRAGONFLY]")
	}
	if sig.TwoCandleConfirm {
		b.WriteString(" [2-CANDLE]")
	}
	return b.String()
}

func qualityTag(raw float64) string {
	switch {
	case raw >= 75:
		return "[HIGH]"
	case raw >= 50:
		return "[OK]"
	default:
		return "[LOW]"
	}
}

func candleTag(sig *models.SweepSignal) string {
	switch {
	case sig.Bullish:
		return "[BULL]"
	case sig.TwoCandleConfirm:
		return "[BEAR->BULL]"
	default:
		return "[BEAR]"
	}
}

// FilterRecent keeps only signals dated within the last `days` calendar days
// up to and including today. days <= 0 disables the filter.
func FilterRecent(signals []models.SweepSignal, now time.Time, days int) []models.SweepSignal {
	if days <= 0 {
		return signals
	}
	today := now.Truncate(24 * time.Hour)
	cutoff := today.AddDate(0, 0, -days)

	out := make([]models.SweepSignal, 0, len(signals))
	for _, sig := range signals {
		d := sig.Date.Truncate(24 * time.Hour)
		if d.Before(cutoff) || d.After(today) {
			continue
		}
		out = append(out, sig)
	}
	return out
}

// Report renders the full date-grouped scan report, newest day first,
// signals within a day ordered by score descending, followed by per-grade
// totals.
func (f *Formatter) Report(signals []models.SweepSignal, now time.Time, days int) string {
	byDate := make(map[string][]models.SweepSignal)
	for _, sig := range signals {
		key := sig.Date.Format("02-Jan-2006")
		byDate[key] = append(byDate[key], sig)
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("=", 80) + "\n")
	fmt.Fprintf(&b, "LIQUIDITY SWEEP SIGNALS (Last %d Days)\n", days)
	b.WriteString(strings.Repeat("=", 80) + "\n\n")

	today := now.Truncate(24 * time.Hour)
	counts := make(map[models.Grade]int)

	for i := 0; i <= days; i++ {
		day := today.AddDate(0, 0, -i)
		key := day.Format("02-Jan-2006")

		marker := ""
		if i == 0 {
			marker = " [TODAY]"
		}
		fmt.Fprintf(&b, "  %s%s\n", key, marker)
		b.WriteString("  " + strings.Repeat("-", 76) + "\n")

		daySignals := byDate[key]
		if len(daySignals) == 0 {
			b.WriteString("  (No signals)\n\n")
			continue
		}
		sort.SliceStable(daySignals, func(a, z int) bool {
			return daySignals[a].TotalScore > daySignals[z].TotalScore
		})
		for j := range daySignals {
			sig := &daySignals[j]
			fmt.Fprintf(&b, "  [%s] %s\n", sig.Grade, f.Line(sig))
			fmt.Fprintf(&b, "        -> %s\n", f.Details(sig))
			counts[sig.Grade]++
		}
		b.WriteString("\n")
	}

	total := counts[models.GradeAPlus] + counts[models.GradeB] + counts[models.GradeC] + counts[models.GradeD]
	b.WriteString(strings.Repeat("=", 80) + "\n")
	fmt.Fprintf(&b, "SUMMARY: %d signals | A+: %d | B: %d | C: %d | D: %d\n",
		total, counts[models.GradeAPlus], counts[models.GradeB], counts[models.GradeC], counts[models.GradeD])
	b.WriteString(strings.Repeat("=", 80) + "\n")
	return b.String()
}
