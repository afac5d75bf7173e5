package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	Engine   EngineConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Scanner  ScannerConfig
	API      APIConfig
}

// EngineConfig holds every tunable of the detection/scoring engine.
// It is immutable once loaded; the engine never reads package-level state.
// Defaults follow the daily-timeframe deployment this scanner was tuned on.
type EngineConfig struct {
	// Swing detection
	SwingLookbackLeft  int
	SwingLookbackRight int
	EqualLowTolerance  float64 // fraction, 0.005 = 0.5%

	// Sweep classification
	ScanHorizon     int     // forward bars scanned after a swing anchor
	TouchTolerance  float64 // fraction above the swing level still counted as a touch
	ReclaimMargin   float64 // fraction the close must exceed the swing level by
	MinDepthPct     float64 // percent
	MaxDepthPct     float64 // percent
	OptimalDepthMin float64 // percent, full depth credit inside [min,max]
	OptimalDepthMax float64

	// Candle gating
	RequireBullish    bool
	TwoCandleConfirm  bool
	TwoCandleCredit   float64 // fraction of the candle weight granted on confirmation
	StrongWickScore   float64 // raw wick score (0-100) that lets a bearish bar stand alone
	ShallowDepthRatio float64 // depth credit below the optimal band
	DeepDepthRatio    float64 // depth credit above the optimal band

	// Volume metrics
	VolumeWindow  int // rolling average window, bars
	VolumeMinObs  int // observations before the rolling average is considered valid
	VolumeSpike   float64
	ExtremeVolume float64

	// ATR depth floor (0 disables). Depth must be at least MinBreakATR x ATR
	// of the swing level for a breach to count.
	ATRPeriod   int
	MinBreakATR float64

	// Score weights, must sum to 100
	VolumeWeight  float64
	WickWeight    float64
	CandleWeight  float64
	DepthWeight   float64
	ContextWeight float64

	// Context bonuses
	EqualLowBonus    float64
	SwingStrengthMin float64 // percent strength that earns the strength bonus
	StrengthBonus    float64

	// Grade thresholds, monotonically decreasing A+ > B > C
	GradeAMin float64
	GradeBMin float64
	GradeCMin float64
	// Signals scoring below MinScore are discarded
	MinScore float64
}

// DatabaseConfig holds Postgres configuration for signal history
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration for signal deduplication
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
	DedupTTL time.Duration
}

// ScannerConfig holds scan-run configuration
type ScannerConfig struct {
	TickerFile  string
	CacheDir    string
	CachePeriod string // period tag in cache file names, e.g. "6mo"
	ReportDays  int    // recency window for the report, days
}

// APIConfig holds REST API configuration
type APIConfig struct {
	Port            int
	HealthCheckPort int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

// DefaultEngineConfig returns the documented engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SwingLookbackLeft:  3,
		SwingLookbackRight: 2,
		EqualLowTolerance:  0.005,

		ScanHorizon:    5,
		TouchTolerance: 0.01,
		ReclaimMargin:  0.002,
		MinDepthPct:    0.1,
		MaxDepthPct:    3.0,

		OptimalDepthMin: 0.5,
		OptimalDepthMax: 1.5,

		RequireBullish:    false,
		TwoCandleConfirm:  true,
		TwoCandleCredit:   0.7,
		StrongWickScore:   65,
		ShallowDepthRatio: 0.7,
		DeepDepthRatio:    0.5,

		VolumeWindow:  20,
		VolumeMinObs:  5,
		VolumeSpike:   1.3,
		ExtremeVolume: 2.0,

		ATRPeriod:   14,
		MinBreakATR: 0,

		VolumeWeight:  25,
		WickWeight:    30,
		CandleWeight:  15,
		DepthWeight:   15,
		ContextWeight: 15,

		EqualLowBonus:    8,
		SwingStrengthMin: 1.0,
		StrengthBonus:    7,

		GradeAMin: 65,
		GradeBMin: 50,
		GradeCMin: 35,
		MinScore:  35,
	}
}

// Load loads configuration from environment variables.
// It automatically loads a .env file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Engine:      loadEngineConfig(),
		Database: DatabaseConfig{
			Enabled:         getEnvAsBool("DB_ENABLED", false),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "sweep_scanner"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			PoolSize: getEnvAsInt("REDIS_POOL_SIZE", 10),
			DedupTTL: getEnvAsDuration("REDIS_DEDUP_TTL", 14*24*time.Hour),
		},
		Scanner: ScannerConfig{
			TickerFile:  getEnv("SCANNER_TICKER_FILE", "tickers.csv"),
			CacheDir:    getEnv("SCANNER_CACHE_DIR", "data_cache"),
			CachePeriod: getEnv("SCANNER_CACHE_PERIOD", "6mo"),
			ReportDays:  getEnvAsInt("SCANNER_REPORT_DAYS", 7),
		},
		API: APIConfig{
			Port:            getEnvAsInt("API_PORT", 8090),
			HealthCheckPort: getEnvAsInt("API_HEALTH_PORT", 8091),
			ReadTimeout:     getEnvAsDuration("API_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("API_WRITE_TIMEOUT", 10*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func loadEngineConfig() EngineConfig {
	def := DefaultEngineConfig()
	return EngineConfig{
		SwingLookbackLeft:  getEnvAsInt("ENGINE_SWING_LEFT", def.SwingLookbackLeft),
		SwingLookbackRight: getEnvAsInt("ENGINE_SWING_RIGHT", def.SwingLookbackRight),
		EqualLowTolerance:  getEnvAsFloat("ENGINE_EQUAL_LOW_TOLERANCE", def.EqualLowTolerance),

		ScanHorizon:    getEnvAsInt("ENGINE_SCAN_HORIZON", def.ScanHorizon),
		TouchTolerance: getEnvAsFloat("ENGINE_TOUCH_TOLERANCE", def.TouchTolerance),
		ReclaimMargin:  getEnvAsFloat("ENGINE_RECLAIM_MARGIN", def.ReclaimMargin),
		MinDepthPct:    getEnvAsFloat("ENGINE_MIN_DEPTH_PCT", def.MinDepthPct),
		MaxDepthPct:    getEnvAsFloat("ENGINE_MAX_DEPTH_PCT", def.MaxDepthPct),

		OptimalDepthMin: getEnvAsFloat("ENGINE_OPTIMAL_DEPTH_MIN", def.OptimalDepthMin),
		OptimalDepthMax: getEnvAsFloat("ENGINE_OPTIMAL_DEPTH_MAX", def.OptimalDepthMax),

		RequireBullish:    getEnvAsBool("ENGINE_REQUIRE_BULLISH", def.RequireBullish),
		TwoCandleConfirm:  getEnvAsBool("ENGINE_TWO_CANDLE_CONFIRM", def.TwoCandleConfirm),
		TwoCandleCredit:   getEnvAsFloat("ENGINE_TWO_CANDLE_CREDIT", def.TwoCandleCredit),
		StrongWickScore:   getEnvAsFloat("ENGINE_STRONG_WICK_SCORE", def.StrongWickScore),
		ShallowDepthRatio: getEnvAsFloat("ENGINE_SHALLOW_DEPTH_RATIO", def.ShallowDepthRatio),
		DeepDepthRatio:    getEnvAsFloat("ENGINE_DEEP_DEPTH_RATIO", def.DeepDepthRatio),

		VolumeWindow:  getEnvAsInt("ENGINE_VOLUME_WINDOW", def.VolumeWindow),
		VolumeMinObs:  getEnvAsInt("ENGINE_VOLUME_MIN_OBS", def.VolumeMinObs),
		VolumeSpike:   getEnvAsFloat("ENGINE_VOLUME_SPIKE", def.VolumeSpike),
		ExtremeVolume: getEnvAsFloat("ENGINE_EXTREME_VOLUME", def.ExtremeVolume),

		ATRPeriod:   getEnvAsInt("ENGINE_ATR_PERIOD", def.ATRPeriod),
		MinBreakATR: getEnvAsFloat("ENGINE_MIN_BREAK_ATR", def.MinBreakATR),

		VolumeWeight:  getEnvAsFloat("ENGINE_VOLUME_WEIGHT", def.VolumeWeight),
		WickWeight:    getEnvAsFloat("ENGINE_WICK_WEIGHT", def.WickWeight),
		CandleWeight:  getEnvAsFloat("ENGINE_CANDLE_WEIGHT", def.CandleWeight),
		DepthWeight:   getEnvAsFloat("ENGINE_DEPTH_WEIGHT", def.DepthWeight),
		ContextWeight: getEnvAsFloat("ENGINE_CONTEXT_WEIGHT", def.ContextWeight),

		EqualLowBonus:    getEnvAsFloat("ENGINE_EQUAL_LOW_BONUS", def.EqualLowBonus),
		SwingStrengthMin: getEnvAsFloat("ENGINE_SWING_STRENGTH_MIN", def.SwingStrengthMin),
		StrengthBonus:    getEnvAsFloat("ENGINE_STRENGTH_BONUS", def.StrengthBonus),

		GradeAMin: getEnvAsFloat("ENGINE_GRADE_A_MIN", def.GradeAMin),
		GradeBMin: getEnvAsFloat("ENGINE_GRADE_B_MIN", def.GradeBMin),
		GradeCMin: getEnvAsFloat("ENGINE_GRADE_C_MIN", def.GradeCMin),
		MinScore:  getEnvAsFloat("ENGINE_MIN_SCORE", def.MinScore),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if c.Database.Enabled && c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required when DB_ENABLED is set")
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required when REDIS_ENABLED is set")
	}
	if c.Scanner.ReportDays < 0 {
		return fmt.Errorf("SCANNER_REPORT_DAYS must be non-negative, got %d", c.Scanner.ReportDays)
	}
	return nil
}

// Validate checks every engine tunable before any scan runs.
func (e *EngineConfig) Validate() error {
	if e.SwingLookbackLeft < 1 || e.SwingLookbackRight < 1 {
		return fmt.Errorf("swing lookbacks must be at least 1, got left=%d right=%d",
			e.SwingLookbackLeft, e.SwingLookbackRight)
	}
	if e.ScanHorizon < 1 {
		return fmt.Errorf("scan horizon must be at least 1, got %d", e.ScanHorizon)
	}
	if e.TouchTolerance < 0 || e.ReclaimMargin < 0 {
		return fmt.Errorf("touch tolerance and reclaim margin must be non-negative")
	}
	if e.EqualLowTolerance < 0 {
		return fmt.Errorf("equal-low tolerance must be non-negative, got %f", e.EqualLowTolerance)
	}
	if e.MinDepthPct < 0 || e.MinDepthPct > e.MaxDepthPct {
		return fmt.Errorf("invalid depth band [%f, %f]", e.MinDepthPct, e.MaxDepthPct)
	}
	if e.OptimalDepthMin > e.OptimalDepthMax {
		return fmt.Errorf("invalid optimal depth band [%f, %f]", e.OptimalDepthMin, e.OptimalDepthMax)
	}
	if e.VolumeWindow < 1 || e.VolumeMinObs < 1 || e.VolumeMinObs > e.VolumeWindow {
		return fmt.Errorf("invalid volume window %d (min observations %d)", e.VolumeWindow, e.VolumeMinObs)
	}
	if e.ATRPeriod < 1 {
		return fmt.Errorf("ATR period must be at least 1, got %d", e.ATRPeriod)
	}
	if e.MinBreakATR < 0 {
		return fmt.Errorf("min break ATR must be non-negative, got %f", e.MinBreakATR)
	}
	for name, w := range map[string]float64{
		"volume":  e.VolumeWeight,
		"wick":    e.WickWeight,
		"candle":  e.CandleWeight,
		"depth":   e.DepthWeight,
		"context": e.ContextWeight,
	} {
		if w < 0 {
			return fmt.Errorf("%s weight must be non-negative, got %f", name, w)
		}
	}
	total := e.VolumeWeight + e.WickWeight + e.CandleWeight + e.DepthWeight + e.ContextWeight
	if total != 100 {
		return fmt.Errorf("score weights must sum to 100, got %f", total)
	}
	if e.TwoCandleCredit < 0 || e.TwoCandleCredit > 1 {
		return fmt.Errorf("two-candle credit must be in [0,1], got %f", e.TwoCandleCredit)
	}
	if e.ShallowDepthRatio < 0 || e.ShallowDepthRatio > 1 || e.DeepDepthRatio < 0 || e.DeepDepthRatio > 1 {
		return fmt.Errorf("depth credit ratios must be in [0,1]")
	}
	if !(e.GradeAMin > e.GradeBMin && e.GradeBMin > e.GradeCMin) {
		return fmt.Errorf("grade thresholds must be strictly decreasing A+ > B > C, got %f/%f/%f",
			e.GradeAMin, e.GradeBMin, e.GradeCMin)
	}
	if e.GradeCMin < 0 || e.GradeAMin > 100 {
		return fmt.Errorf("grade thresholds must lie in [0,100]")
	}
	if e.MinScore < 0 || e.MinScore > 100 {
		return fmt.Errorf("min score must lie in [0,100], got %f", e.MinScore)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
