package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics shared across the scanner binaries.

var (
	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sweep_scan_duration_seconds",
			Help:    "Duration of a single-symbol sweep scan in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)

	SymbolsScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sweep_symbols_scanned_total",
			Help: "Total number of symbol series scanned",
		},
	)

	SignalsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_signals_emitted_total",
			Help: "Total number of accepted sweep signals, by grade",
		},
		[]string{"grade"},
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors",
		},
		[]string{"service", "error_type"},
	)
)
