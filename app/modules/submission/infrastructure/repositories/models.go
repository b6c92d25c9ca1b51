package submissiondb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GameSession is one accepted playthrough. Rows are never updated.
type GameSession struct {
	bun.BaseModel   `bun:"table:game_sessions,alias:gs"`
	SessionID       uuid.UUID      `bun:"session_id,pk,type:uuid" json:"session_id"`
	UserID          string         `bun:"user_id,notnull" json:"user_id"`
	Seed            string         `bun:"seed,notnull" json:"seed"`
	ConfigHash      string         `bun:"config_hash,notnull" json:"config_hash"`
	GameVersion     string         `bun:"game_version,notnull" json:"game_version"`
	FormulaVersion  string         `bun:"formula_version,notnull" json:"formula_version"`
	CompletedAt     time.Time      `bun:"completed_at,notnull" json:"completed_at"`
	FinalScore      int64          `bun:"final_score,notnull" json:"final_score"`
	FinalTurn       int            `bun:"final_turn,notnull" json:"final_turn"`
	GameMetadata    map[string]any `bun:"game_metadata,type:jsonb,notnull" json:"game_metadata"`
	Checksum        string         `bun:"checksum,notnull" json:"checksum"`
	DurationSeconds float64        `bun:"duration_seconds,notnull" json:"duration_seconds"`
}

// VerificationHash records who first reached a final state. Only DuplicateCount changes
// after insert.
type VerificationHash struct {
	bun.BaseModel     `bun:"table:verification_hashes,alias:vh"`
	HashID            uuid.UUID `bun:"hash_id,pk,type:uuid" json:"hash_id"`
	VerificationHash  string    `bun:"verification_hash,unique,notnull" json:"verification_hash"`
	FirstSubmissionID uuid.UUID `bun:"first_submission_id,type:uuid,notnull" json:"first_submission_id"`
	FirstSubmittedBy  string    `bun:"first_submitted_by,notnull" json:"first_submitted_by"`
	FirstSubmittedAt  time.Time `bun:"first_submitted_at,notnull" json:"first_submitted_at"`
	DuplicateCount    int       `bun:"duplicate_count,notnull,default:0" json:"duplicate_count"`
	Seed              string    `bun:"seed,notnull" json:"seed"`
}

// HashDuplicate logs one cross-player rediscovery of a known hash.
type HashDuplicate struct {
	bun.BaseModel    `bun:"table:hash_duplicates,alias:hd"`
	DuplicateID      uuid.UUID `bun:"duplicate_id,pk,type:uuid" json:"duplicate_id"`
	HashID           uuid.UUID `bun:"hash_id,type:uuid,notnull" json:"hash_id"`
	SessionID        uuid.UUID `bun:"session_id,type:uuid,notnull" json:"session_id"`
	UserID           string    `bun:"user_id,notnull" json:"user_id"`
	SubmittedAt      time.Time `bun:"submitted_at,notnull" json:"submitted_at"`
	TimeDeltaSeconds int64     `bun:"time_delta_seconds,notnull" json:"time_delta_seconds"`
	IsSelfDuplicate  bool      `bun:"is_self_duplicate,notnull" json:"is_self_duplicate"`
}

// LeaderboardEntry is a ranked score. Exactly one of IsOriginalHash and IsDuplicateHash is set.
type LeaderboardEntry struct {
	bun.BaseModel   `bun:"table:leaderboard_entries,alias:le"`
	EntryID         uuid.UUID `bun:"entry_id,pk,type:uuid" json:"entry_id"`
	SessionID       uuid.UUID `bun:"session_id,type:uuid,notnull" json:"session_id"`
	UserID          string    `bun:"user_id,notnull" json:"user_id"`
	Seed            string    `bun:"seed,notnull" json:"seed"`
	ConfigHash      string    `bun:"config_hash,notnull" json:"config_hash"`
	Score           int64     `bun:"score,notnull" json:"score"`
	Verified        bool      `bun:"verified,notnull" json:"verified"`
	IsOriginalHash  bool      `bun:"is_original_hash,notnull" json:"is_original_hash"`
	IsDuplicateHash bool      `bun:"is_duplicate_hash,notnull" json:"is_duplicate_hash"`
	SubmittedAt     time.Time `bun:"submitted_at,notnull" json:"submitted_at"`
}
