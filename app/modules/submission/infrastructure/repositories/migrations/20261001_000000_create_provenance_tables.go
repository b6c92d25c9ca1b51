package submissionmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating game_sessions, verification_hashes, hash_duplicates and leaderboard_entries...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS game_sessions (
					session_id UUID PRIMARY KEY,
					user_id TEXT NOT NULL,
					seed TEXT NOT NULL,
					config_hash TEXT NOT NULL DEFAULT 'default',
					game_version TEXT NOT NULL DEFAULT 'unknown',
					formula_version TEXT NOT NULL,
					completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					final_score BIGINT NOT NULL,
					final_turn INTEGER NOT NULL,
					game_metadata JSONB NOT NULL,
					checksum CHAR(64) NOT NULL,
					duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0
				);
				CREATE INDEX IF NOT EXISTS idx_game_sessions_user_id ON game_sessions(user_id);
				CREATE INDEX IF NOT EXISTS idx_game_sessions_checksum ON game_sessions(checksum);
			`); err != nil {
				return fmt.Errorf("failed to create game_sessions table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS verification_hashes (
					hash_id UUID PRIMARY KEY,
					verification_hash CHAR(64) NOT NULL,
					first_submission_id UUID NOT NULL REFERENCES game_sessions(session_id),
					first_submitted_by TEXT NOT NULL,
					first_submitted_at TIMESTAMPTZ NOT NULL,
					duplicate_count INTEGER NOT NULL DEFAULT 0 CHECK (duplicate_count >= 0),
					seed TEXT NOT NULL
				);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_verification_hashes_hash ON verification_hashes(verification_hash);
			`); err != nil {
				return fmt.Errorf("failed to create verification_hashes table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS hash_duplicates (
					duplicate_id UUID PRIMARY KEY,
					hash_id UUID NOT NULL REFERENCES verification_hashes(hash_id),
					session_id UUID NOT NULL REFERENCES game_sessions(session_id),
					user_id TEXT NOT NULL,
					submitted_at TIMESTAMPTZ NOT NULL,
					time_delta_seconds BIGINT NOT NULL,
					is_self_duplicate BOOLEAN NOT NULL DEFAULT FALSE
				);
				CREATE INDEX IF NOT EXISTS idx_hash_duplicates_hash_id ON hash_duplicates(hash_id);
			`); err != nil {
				return fmt.Errorf("failed to create hash_duplicates table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS leaderboard_entries (
					entry_id UUID PRIMARY KEY,
					session_id UUID NOT NULL REFERENCES game_sessions(session_id),
					user_id TEXT NOT NULL,
					seed TEXT NOT NULL,
					config_hash TEXT NOT NULL,
					score BIGINT NOT NULL,
					verified BOOLEAN NOT NULL DEFAULT FALSE,
					is_original_hash BOOLEAN NOT NULL,
					is_duplicate_hash BOOLEAN NOT NULL,
					submitted_at TIMESTAMPTZ NOT NULL,
					CONSTRAINT chk_leaderboard_entries_hash_flag CHECK (is_original_hash <> is_duplicate_hash)
				);
				CREATE INDEX IF NOT EXISTS idx_leaderboard_entries_seed_score ON leaderboard_entries(seed, score DESC);
			`); err != nil {
				return fmt.Errorf("failed to create leaderboard_entries table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping provenance tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, table := range []string{"leaderboard_entries", "hash_duplicates", "verification_hashes", "game_sessions"} {
				if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
					return fmt.Errorf("failed to drop %s: %w", table, err)
				}
			}
			return nil
		})
	})
}
