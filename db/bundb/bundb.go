package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	submissiondb "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/repositories"
	"github.com/Black-And-White-Club/strategy-ledger/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DBService owns the connection pool and the repositories built on it.
type DBService struct {
	SubmissionDB submissiondb.Repository
	db           *bun.DB
}

// GetDB returns the underlying database connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Close closes the connection pool.
func (s *DBService) Close() error {
	return s.db.Close()
}

// NewBunDBService connects to Postgres and builds the repositories.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := BunDB(sqldb)
	db.RegisterModel(
		(*submissiondb.GameSession)(nil),
		(*submissiondb.VerificationHash)(nil),
		(*submissiondb.HashDuplicate)(nil),
		(*submissiondb.LeaderboardEntry)(nil),
	)

	logger.InfoContext(ctx, "Database connection established")

	return &DBService{
		SubmissionDB: submissiondb.NewRepository(db),
		db:           db,
	}, nil
}

// BunDB wraps an sql.DB connection pool in a bun.DB with the Postgres dialect.
func BunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
