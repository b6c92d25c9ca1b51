package submissiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const hashLockPrefix = "verification_hash:"

// Impl implements Repository on Postgres through bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new provenance repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// AcquireHashLock takes a transaction-scoped advisory lock keyed on the hash.
func (r *Impl) AcquireHashLock(ctx context.Context, db bun.IDB, hash string) error {
	db = r.resolveDB(db)
	if _, err := db.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", hashLockPrefix+hash).Exec(ctx); err != nil {
		return fmt.Errorf("failed to acquire hash lock: %w", err)
	}
	return nil
}

func (r *Impl) InsertGameSession(ctx context.Context, db bun.IDB, session *GameSession) error {
	db = r.resolveDB(db)
	if session.SessionID == uuid.Nil {
		session.SessionID = uuid.New()
	}
	if _, err := db.NewInsert().Model(session).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert game session: %w", err)
	}
	return nil
}

func (r *Impl) GetVerificationHash(ctx context.Context, db bun.IDB, hash string) (*VerificationHash, error) {
	db = r.resolveDB(db)
	record := new(VerificationHash)
	err := db.NewSelect().
		Model(record).
		Where("verification_hash = ?", hash).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get verification hash: %w", err)
	}
	return record, nil
}

// InsertVerificationHash inserts the first-discovery record. A concurrent winner is
// reported as ErrHashConflict; ON CONFLICT DO NOTHING keeps the transaction usable.
func (r *Impl) InsertVerificationHash(ctx context.Context, db bun.IDB, record *VerificationHash) error {
	db = r.resolveDB(db)
	if record.HashID == uuid.Nil {
		record.HashID = uuid.New()
	}
	result, err := db.NewInsert().
		Model(record).
		On("CONFLICT (verification_hash) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || IsUniqueViolation(err) {
			return ErrHashConflict
		}
		return fmt.Errorf("failed to insert verification hash: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrHashConflict
	}
	return nil
}

func (r *Impl) InsertHashDuplicate(ctx context.Context, db bun.IDB, dup *HashDuplicate) error {
	db = r.resolveDB(db)
	if dup.DuplicateID == uuid.Nil {
		dup.DuplicateID = uuid.New()
	}
	if _, err := db.NewInsert().Model(dup).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert hash duplicate: %w", err)
	}
	return nil
}

// IncrementDuplicateCount never reads and writes back the counter; the increment
// happens in the UPDATE itself.
func (r *Impl) IncrementDuplicateCount(ctx context.Context, db bun.IDB, hashID uuid.UUID) (int, error) {
	db = r.resolveDB(db)
	var count int
	err := db.NewUpdate().
		Model((*VerificationHash)(nil)).
		Set("duplicate_count = duplicate_count + 1").
		Where("hash_id = ?", hashID).
		Returning("duplicate_count").
		Scan(ctx, &count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment duplicate count: %w", err)
	}
	return count, nil
}

func (r *Impl) InsertLeaderboardEntry(ctx context.Context, db bun.IDB, entry *LeaderboardEntry) error {
	db = r.resolveDB(db)
	if entry.EntryID == uuid.Nil {
		entry.EntryID = uuid.New()
	}
	if _, err := db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert leaderboard entry: %w", err)
	}
	return nil
}

func (r *Impl) CountScoresAbove(ctx context.Context, db bun.IDB, seed string, score int64) (int, error) {
	db = r.resolveDB(db)
	count, err := db.NewSelect().
		Model((*LeaderboardEntry)(nil)).
		Where("seed = ?", seed).
		Where("score > ?", score).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count scores above %d: %w", score, err)
	}
	return count, nil
}

func (r *Impl) Ping(ctx context.Context) error {
	if _, err := r.db.NewRaw("SELECT 1").Exec(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
