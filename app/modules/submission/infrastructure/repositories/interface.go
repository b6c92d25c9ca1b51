package submissiondb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the provenance store. Every method takes the transaction to run in;
// a nil db falls back to the repository's own connection.
type Repository interface {
	// AcquireHashLock serialises transactions working on the same verification hash.
	// The lock is released when the transaction ends.
	AcquireHashLock(ctx context.Context, db bun.IDB, hash string) error

	InsertGameSession(ctx context.Context, db bun.IDB, session *GameSession) error

	// GetVerificationHash returns ErrNotFound when the hash has never been recorded.
	GetVerificationHash(ctx context.Context, db bun.IDB, hash string) (*VerificationHash, error)

	// InsertVerificationHash returns ErrHashConflict when the hash is already recorded.
	InsertVerificationHash(ctx context.Context, db bun.IDB, record *VerificationHash) error

	InsertHashDuplicate(ctx context.Context, db bun.IDB, dup *HashDuplicate) error

	// IncrementDuplicateCount bumps duplicate_count in SQL and returns the new value.
	IncrementDuplicateCount(ctx context.Context, db bun.IDB, hashID uuid.UUID) (int, error)

	InsertLeaderboardEntry(ctx context.Context, db bun.IDB, entry *LeaderboardEntry) error

	// CountScoresAbove counts leaderboard entries for seed with a strictly higher score.
	CountScoresAbove(ctx context.Context, db bun.IDB, seed string, score int64) (int, error)

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
