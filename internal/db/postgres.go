package db

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ringlens/muling-engine/pkg/models"
)

// schemaSQL is compiled into the binary at build time so schema init works
// inside the Docker runtime image, which does not ship the .sql file.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the optional audit log for analysis runs. The engine
// never reads it back during detection; it exists so investigators can
// revisit past batches.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect initializes the pgx connection pool.
func Connect(connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL for run history")
	return &PostgresStore{pool: pool}, nil
}

// Close gracefully closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema executes the embedded schema DDL.
func (s *PostgresStore) InitSchema() error {
	if _, err := s.pool.Exec(context.Background(), schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema migrations: %v", err)
	}
	log.Println("Run history schema initialized")
	return nil
}

// SaveRun persists one analysis run: the summary row plus every scored
// account and ring, in a single transaction.
func (s *PostgresStore) SaveRun(ctx context.Context, result models.AnalysisResult) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insertRunSQL := `
		INSERT INTO analysis_runs (run_id, total_accounts, suspicious_accounts, fraud_rings, processing_seconds)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err = tx.Exec(ctx, insertRunSQL,
		result.RunID,
		result.Summary.TotalAccountsAnalyzed,
		result.Summary.SuspiciousAccountsFlagged,
		result.Summary.FraudRingsDetected,
		result.Summary.ProcessingTimeSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis run: %v", err)
	}

	insertAccountSQL := `
		INSERT INTO run_suspicious_accounts (run_id, account_id, suspicion_score, detected_patterns, ring_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''));
	`
	for _, a := range result.SuspiciousAccounts {
		_, err = tx.Exec(ctx, insertAccountSQL, result.RunID, a.AccountID, a.SuspicionScore, a.DetectedPatterns, a.RingID)
		if err != nil {
			return fmt.Errorf("failed to insert suspicious account: %v", err)
		}
	}

	insertRingSQL := `
		INSERT INTO run_fraud_rings (run_id, ring_id, pattern_type, risk_score, member_accounts)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, r := range result.FraudRings {
		_, err = tx.Exec(ctx, insertRingSQL, result.RunID, r.RingID, r.PatternType, r.RiskScore, r.MemberAccounts)
		if err != nil {
			return fmt.Errorf("failed to insert fraud ring: %v", err)
		}
	}

	return tx.Commit(ctx)
}

// RunInfo is one row of the run history listing.
type RunInfo struct {
	RunID                     string    `json:"runId"`
	TotalAccountsAnalyzed     int       `json:"totalAccountsAnalyzed"`
	SuspiciousAccountsFlagged int       `json:"suspiciousAccountsFlagged"`
	FraudRingsDetected        int       `json:"fraudRingsDetected"`
	ProcessingTimeSeconds     float64   `json:"processingTimeSeconds"`
	CreatedAt                 time.Time `json:"createdAt"`
}

// ListRuns returns the run history newest-first with pagination.
func (s *PostgresStore) ListRuns(ctx context.Context, page, limit int) ([]RunInfo, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var totalCount int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM analysis_runs`).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	dataSQL := `
		SELECT run_id, total_accounts, suspicious_accounts, fraud_rings, processing_seconds, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.pool.Query(ctx, dataSQL, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	runs := make([]RunInfo, 0)
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.RunID, &r.TotalAccountsAnalyzed, &r.SuspiciousAccountsFlagged,
			&r.FraudRingsDetected, &r.ProcessingTimeSeconds, &r.CreatedAt); err != nil {
			return nil, 0, err
		}
		runs = append(runs, r)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	return runs, totalCount, nil
}
