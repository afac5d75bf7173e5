package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mohamedkhairy/sweep-scanner/internal/alert"
	"github.com/mohamedkhairy/sweep-scanner/internal/config"
	"github.com/mohamedkhairy/sweep-scanner/internal/data"
	"github.com/mohamedkhairy/sweep-scanner/internal/models"
	"github.com/mohamedkhairy/sweep-scanner/internal/scanner"
	"github.com/mohamedkhairy/sweep-scanner/internal/storage"
	"github.com/mohamedkhairy/sweep-scanner/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting sweep scan",
		logger.String("ticker_file", cfg.Scanner.TickerFile),
		logger.String("cache_dir", cfg.Scanner.CacheDir),
		logger.Int("report_days", cfg.Scanner.ReportDays),
	)

	symbols, err := data.LoadTickers(cfg.Scanner.TickerFile)
	if err != nil {
		logger.Fatal("Failed to load ticker list",
			logger.ErrorField(err),
			logger.String("path", cfg.Scanner.TickerFile),
		)
	}

	engine, err := scanner.NewEngine(cfg.Engine)
	if err != nil {
		logger.Fatal("Failed to build engine",
			logger.ErrorField(err),
		)
	}

	provider := data.NewCSVProvider(cfg.Scanner.CacheDir, cfg.Scanner.CachePeriod)
	ctx := context.Background()

	var signals []models.SweepSignal
	scanned := 0
	for _, symbol := range symbols {
		bars, err := provider.GetBars(ctx, symbol)
		if err != nil {
			if errors.Is(err, data.ErrNoData) {
				logger.Warn("No cached data for symbol",
					logger.String("symbol", symbol),
				)
			} else {
				logger.Error("Failed to load bars",
					logger.ErrorField(err),
					logger.String("symbol", symbol),
				)
				logger.ErrorsTotal.WithLabelValues("scanner", "data").Inc()
			}
			continue
		}

		found, err := engine.Scan(symbol, bars)
		if err != nil {
			logger.Error("Scan failed",
				logger.ErrorField(err),
				logger.String("symbol", symbol),
			)
			logger.ErrorsTotal.WithLabelValues("scanner", "scan").Inc()
			continue
		}
		signals = append(signals, found...)
		scanned++
	}

	now := time.Now()
	recent := alert.FilterRecent(signals, now, cfg.Scanner.ReportDays)

	logger.Info("Scan finished",
		logger.Int("symbols", scanned),
		logger.Int("signals_total", len(signals)),
		logger.Int("signals_recent", len(recent)),
	)

	// Redis-backed dedup keeps repeated daily runs from re-alerting
	if cfg.Redis.Enabled {
		kv, err := storage.NewRedisKVStore(cfg.Redis)
		if err != nil {
			logger.Error("Failed to connect to Redis, skipping deduplication",
				logger.ErrorField(err),
			)
		} else {
			defer kv.Close()
			dedup := alert.NewDeduplicator(kv, cfg.Redis.DedupTTL)
			recent, err = dedup.Filter(ctx, recent)
			if err != nil {
				logger.Error("Deduplication failed",
					logger.ErrorField(err),
				)
				logger.ErrorsTotal.WithLabelValues("scanner", "dedup").Inc()
			}
		}
	}

	fmt.Println(alert.NewFormatter().Report(recent, now, cfg.Scanner.ReportDays))

	if cfg.Database.Enabled {
		store, err := storage.NewPostgresSignalStorage(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to initialize signal storage",
				logger.ErrorField(err),
			)
		}
		defer store.Close()

		if err := store.WriteSignals(ctx, signals); err != nil {
			logger.Error("Failed to persist signals",
				logger.ErrorField(err),
			)
			logger.ErrorsTotal.WithLabelValues("scanner", "storage").Inc()
			os.Exit(1)
		}
		logger.Info("Signals persisted",
			logger.Int("count", len(signals)),
		)
	}
}
