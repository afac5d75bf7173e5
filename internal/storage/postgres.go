package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/mohamedkhairy/sweep-scanner/internal/config"
	"github.com/mohamedkhairy/sweep-scanner/internal/models"
	"github.com/mohamedkhairy/sweep-scanner/pkg/logger"
)

// PostgresSignalStorage implements SignalStorage on Postgres
type PostgresSignalStorage struct {
	db *sql.DB
}

const signalSchema = `
CREATE TABLE IF NOT EXISTS sweep_signals (
	id              TEXT PRIMARY KEY,
	symbol          TEXT NOT NULL,
	date            DATE NOT NULL,
	trigger_index   INT NOT NULL,
	swing_index     INT NOT NULL,
	swing_level     DOUBLE PRECISION NOT NULL,
	close           DOUBLE PRECISION NOT NULL,
	depth_pct       DOUBLE PRECISION NOT NULL,
	wick_pct        DOUBLE PRECISION NOT NULL,
	volume_score    DOUBLE PRECISION NOT NULL,
	wick_score      DOUBLE PRECISION NOT NULL,
	candle_score    DOUBLE PRECISION NOT NULL,
	depth_score     DOUBLE PRECISION NOT NULL,
	context_score   DOUBLE PRECISION NOT NULL,
	total_score     DOUBLE PRECISION NOT NULL,
	grade           TEXT NOT NULL,
	two_candle      BOOLEAN NOT NULL DEFAULT FALSE,
	equal_low       BOOLEAN NOT NULL DEFAULT FALSE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_sweep_signals_symbol_date ON sweep_signals (symbol, date DESC);
`

// NewPostgresSignalStorage opens the connection pool, verifies it and
// ensures the schema exists.
func NewPostgresSignalStorage(cfg config.DatabaseConfig) (*PostgresSignalStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, signalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure signal schema: %w", err)
	}

	logger.Info("Postgres signal storage initialized",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.Database),
	)
	return &PostgresSignalStorage{db: db}, nil
}

// WriteSignals writes signals in one transaction, skipping already-stored IDs
func (s *PostgresSignalStorage) WriteSignals(ctx context.Context, signals []models.SweepSignal) error {
	if len(signals) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sweep_signals (
			id, symbol, date, trigger_index, swing_index, swing_level, close,
			depth_pct, wick_pct, volume_score, wick_score, candle_score,
			depth_score, context_score, total_score, grade, two_candle, equal_low
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range signals {
		sig := &signals[i]
		if _, err := stmt.ExecContext(ctx,
			sig.ID, sig.Symbol, sig.Date, sig.TriggerIndex, sig.SwingIndex,
			sig.SwingLevel, sig.Close, sig.DepthPct, sig.WickPct,
			sig.VolumeScore, sig.WickScore, sig.CandleScore, sig.DepthScore,
			sig.ContextScore, sig.TotalScore, string(sig.Grade),
			sig.TwoCandleConfirm, sig.EqualLow,
		); err != nil {
			return fmt.Errorf("failed to insert signal %s: %w", sig.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit signals: %w", err)
	}
	return nil
}

// GetSignals retrieves signals with filtering options
func (s *PostgresSignalStorage) GetSignals(ctx context.Context, filter SignalFilter) ([]models.SweepSignal, error) {
	query := `
		SELECT id, symbol, date, trigger_index, swing_index, swing_level, close,
		       depth_pct, wick_pct, volume_score, wick_score, candle_score,
		       depth_score, context_score, total_score, grade, two_candle, equal_low
		FROM sweep_signals
		WHERE 1=1
	`
	args := []interface{}{}
	argIndex := 1

	if filter.Symbol != "" {
		query += fmt.Sprintf(" AND symbol = $%d", argIndex)
		args = append(args, filter.Symbol)
		argIndex++
	}
	if filter.Grade != "" {
		query += fmt.Sprintf(" AND grade = $%d", argIndex)
		args = append(args, string(filter.Grade))
		argIndex++
	}
	if filter.MinScore > 0 {
		query += fmt.Sprintf(" AND total_score >= $%d", argIndex)
		args = append(args, filter.MinScore)
		argIndex++
	}
	if !filter.StartDate.IsZero() {
		query += fmt.Sprintf(" AND date >= $%d", argIndex)
		args = append(args, filter.StartDate)
		argIndex++
	}
	if !filter.EndDate.IsZero() {
		query += fmt.Sprintf(" AND date <= $%d", argIndex)
		args = append(args, filter.EndDate)
		argIndex++
	}

	query += " ORDER BY date DESC, total_score DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
		argIndex++
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var signals []models.SweepSignal
	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, err
		}
		signals = append(signals, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return signals, nil
}

// GetSignal retrieves a single signal by ID
func (s *PostgresSignalStorage) GetSignal(ctx context.Context, id string) (*models.SweepSignal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, date, trigger_index, swing_index, swing_level, close,
		       depth_pct, wick_pct, volume_score, wick_score, candle_score,
		       depth_score, context_score, total_score, grade, two_candle, equal_low
		FROM sweep_signals
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query signal: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to query signal: %w", err)
		}
		return nil, nil
	}
	sig, err := scanSignal(rows)
	if err != nil {
		return nil, err
	}
	return &sig, nil
}

func scanSignal(rows *sql.Rows) (models.SweepSignal, error) {
	var sig models.SweepSignal
	var grade string
	if err := rows.Scan(
		&sig.ID, &sig.Symbol, &sig.Date, &sig.TriggerIndex, &sig.SwingIndex,
		&sig.SwingLevel, &sig.Close, &sig.DepthPct, &sig.WickPct,
		&sig.VolumeScore, &sig.WickScore, &sig.CandleScore, &sig.DepthScore,
		&sig.ContextScore, &sig.TotalScore, &grade,
		&sig.TwoCandleConfirm, &sig.EqualLow,
	); err != nil {
		return sig, fmt.Errorf("failed to scan signal: %w", err)
	}
	sig.Grade = models.Grade(grade)
	return sig, nil
}

// Close closes the database connection
func (s *PostgresSignalStorage) Close() error {
	return s.db.Close()
}
