package submissionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	submissiondomain "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/domain"
	submissionevents "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/events"
	submissiondb "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/repositories"
	"github.com/Black-And-White-Club/strategy-ledger/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type submissionOutcome = results.OperationResult[*SubmissionResult, *submissiondomain.VerificationError]

// ProcessSubmission validates sub and records it.
//
// Validation runs before any write. The session insert, hash classification and
// leaderboard insert then share one transaction. Rank is computed after commit.
func (s *SubmissionService) ProcessSubmission(ctx context.Context, userID string, sub Submission) (*SubmissionResult, error) {
	result, err := withTelemetry(s, ctx, "ProcessSubmission", sub.Seed, func(ctx context.Context) (submissionOutcome, error) {
		validated, verr := s.validate(userID, sub)
		if verr != nil {
			s.metrics.RecordRejection(ctx, string(verr.Kind))
			return results.FailureResult[*SubmissionResult](verr), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (submissionOutcome, error) {
			return s.processSubmissionLogic(ctx, db, userID, validated)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	res := *result.Success
	if res.Data.EntryID != nil {
		s.attachRank(ctx, sub.Seed, res)
	}
	s.metrics.RecordSubmissionOutcome(ctx, string(res.Data.HashStatus))
	s.publishVerified(ctx, userID, sub.Seed, res)

	return res, nil
}

// validate is side-effect free. It returns the submission with defaults applied and
// the verification hash normalized.
func (s *SubmissionService) validate(userID string, sub Submission) (Submission, *submissiondomain.VerificationError) {
	if userID == "" {
		return sub, submissiondomain.MalformedInput("Missing user identity")
	}

	hash, err := submissiondomain.NormalizeVerificationHash(sub.VerificationHash)
	if err != nil {
		var verr *submissiondomain.VerificationError
		if errors.As(err, &verr) {
			return sub, verr
		}
		return sub, submissiondomain.MalformedInput("%s", err.Error())
	}
	if sub.Seed == "" {
		return sub, submissiondomain.MalformedInput("Missing seed")
	}

	sub = sub.withDefaults()
	sub.VerificationHash = hash

	if err := submissiondomain.VerifyFinalState(sub.Score, sub.FinalState, s.cfg.ScoreTolerance); err != nil {
		var verr *submissiondomain.VerificationError
		if errors.As(err, &verr) {
			return sub, verr
		}
		return sub, submissiondomain.MalformedInput("%s", err.Error())
	}
	return sub, nil
}

func (s *SubmissionService) processSubmissionLogic(ctx context.Context, db bun.IDB, userID string, sub Submission) (submissionOutcome, error) {
	now := s.now().UTC()

	if err := s.repo.AcquireHashLock(ctx, db, sub.VerificationHash); err != nil {
		return submissionOutcome{}, err
	}

	session := &submissiondb.GameSession{
		SessionID:       uuid.New(),
		UserID:          userID,
		Seed:            sub.Seed,
		ConfigHash:      sub.ConfigHash,
		GameVersion:     sub.GameVersion,
		FormulaVersion:  submissiondomain.ScoreFormulaVersion,
		CompletedAt:     now,
		FinalScore:      sub.Score,
		FinalTurn:       sub.FinalState.Turn(),
		GameMetadata:    map[string]any(sub.FinalState),
		Checksum:        sub.VerificationHash,
		DurationSeconds: sub.DurationSeconds,
	}
	if err := s.repo.InsertGameSession(ctx, db, session); err != nil {
		return submissionOutcome{}, err
	}

	existing, err := s.repo.GetVerificationHash(ctx, db, sub.VerificationHash)
	switch {
	case errors.Is(err, submissiondb.ErrNotFound):
		record := &submissiondb.VerificationHash{
			HashID:            uuid.New(),
			VerificationHash:  sub.VerificationHash,
			FirstSubmissionID: session.SessionID,
			FirstSubmittedBy:  userID,
			FirstSubmittedAt:  now,
			DuplicateCount:    0,
			Seed:              sub.Seed,
		}
		insertErr := s.repo.InsertVerificationHash(ctx, db, record)
		if insertErr == nil {
			return s.recordOriginal(ctx, db, session, sub)
		}
		if !errors.Is(insertErr, submissiondb.ErrHashConflict) {
			return submissionOutcome{}, insertErr
		}

		s.metrics.RecordHashRaceFallback(ctx)
		s.logger.WarnContext(ctx, "Verification hash claimed concurrently, treating submission as duplicate",
			slog.String("session_id", session.SessionID.String()),
		)
		existing, err = s.repo.GetVerificationHash(ctx, db, sub.VerificationHash)
		if err != nil {
			return submissionOutcome{}, fmt.Errorf("failed to re-read verification hash after conflict: %w", err)
		}
	case err != nil:
		return submissionOutcome{}, err
	}

	if existing.FirstSubmittedBy == userID {
		return s.recordSelfDuplicate(session, sub, existing), nil
	}
	return s.recordCrossDuplicate(ctx, db, session, sub, existing, now)
}

func (s *SubmissionService) recordOriginal(ctx context.Context, db bun.IDB, session *submissiondb.GameSession, sub Submission) (submissionOutcome, error) {
	entry := s.newLeaderboardEntry(session, sub, true)
	if err := s.repo.InsertLeaderboardEntry(ctx, db, entry); err != nil {
		return submissionOutcome{}, err
	}

	entryID := entry.EntryID.String()
	return results.SuccessResult[*SubmissionResult, *submissiondomain.VerificationError](&SubmissionResult{
		Status: submissiondomain.StatusSuccess,
		Data: SubmissionData{
			SessionID:  session.SessionID.String(),
			EntryID:    &entryID,
			Score:      sub.Score,
			HashStatus: submissiondomain.HashStatusOriginal,
			Message:    submissiondomain.MessageOriginal,
		},
	}), nil
}

// recordSelfDuplicate leaves the hash and the leaderboard untouched; only the session
// written earlier in the transaction persists.
func (s *SubmissionService) recordSelfDuplicate(session *submissiondb.GameSession, sub Submission, existing *submissiondb.VerificationHash) submissionOutcome {
	firstAt := existing.FirstSubmittedAt
	return results.SuccessResult[*SubmissionResult, *submissiondomain.VerificationError](&SubmissionResult{
		Status: submissiondomain.StatusAccepted,
		Data: SubmissionData{
			SessionID:         session.SessionID.String(),
			Score:             sub.Score,
			HashStatus:        submissiondomain.HashStatusSelfDuplicate,
			Message:           submissiondomain.MessageSelfDuplicate,
			FirstDiscoveredAt: &firstAt,
		},
	})
}

func (s *SubmissionService) recordCrossDuplicate(
	ctx context.Context,
	db bun.IDB,
	session *submissiondb.GameSession,
	sub Submission,
	existing *submissiondb.VerificationHash,
	now time.Time,
) (submissionOutcome, error) {
	delta := int64(now.Sub(existing.FirstSubmittedAt) / time.Second)
	if delta < 0 {
		delta = 0
	}

	dup := &submissiondb.HashDuplicate{
		DuplicateID:      uuid.New(),
		HashID:           existing.HashID,
		SessionID:        session.SessionID,
		UserID:           session.UserID,
		SubmittedAt:      now,
		TimeDeltaSeconds: delta,
		IsSelfDuplicate:  false,
	}
	if err := s.repo.InsertHashDuplicate(ctx, db, dup); err != nil {
		return submissionOutcome{}, err
	}

	count, err := s.repo.IncrementDuplicateCount(ctx, db, existing.HashID)
	if err != nil {
		return submissionOutcome{}, err
	}

	entry := s.newLeaderboardEntry(session, sub, false)
	if err := s.repo.InsertLeaderboardEntry(ctx, db, entry); err != nil {
		return submissionOutcome{}, err
	}

	entryID := entry.EntryID.String()
	firstAt := existing.FirstSubmittedAt
	firstBy := submissiondomain.AnonymousDiscoverer
	return results.SuccessResult[*SubmissionResult, *submissiondomain.VerificationError](&SubmissionResult{
		Status: submissiondomain.StatusSuccess,
		Data: SubmissionData{
			SessionID:         session.SessionID.String(),
			EntryID:           &entryID,
			Score:             sub.Score,
			HashStatus:        submissiondomain.HashStatusDuplicate,
			Message:           submissiondomain.DuplicateMessage(delta),
			DuplicateCount:    &count,
			FirstDiscoveredAt: &firstAt,
			FirstDiscoveredBy: &firstBy,
		},
	}), nil
}

func (s *SubmissionService) newLeaderboardEntry(session *submissiondb.GameSession, sub Submission, original bool) *submissiondb.LeaderboardEntry {
	return &submissiondb.LeaderboardEntry{
		EntryID:         uuid.New(),
		SessionID:       session.SessionID,
		UserID:          session.UserID,
		Seed:            sub.Seed,
		ConfigHash:      sub.ConfigHash,
		Score:           sub.Score,
		Verified:        true,
		IsOriginalHash:  original,
		IsDuplicateHash: !original,
		SubmittedAt:     session.CompletedAt,
	}
}

// attachRank sets the post-commit rank. The submission is already stored, so a
// failure here only drops the rank from the response.
func (s *SubmissionService) attachRank(ctx context.Context, seed string, res *SubmissionResult) {
	rank, err := s.GetRank(ctx, seed, res.Data.Score)
	if err != nil {
		s.logger.WarnContext(ctx, "Rank lookup failed after commit",
			slog.String("session_id", res.Data.SessionID),
			slog.Any("error", err),
		)
		return
	}
	res.Data.Rank = &rank
}

func (s *SubmissionService) publishVerified(ctx context.Context, userID, seed string, res *SubmissionResult) {
	if s.publisher == nil || s.cfg.EventTopic == "" {
		return
	}

	msg, err := submissionevents.NewMessage(ctx, submissionevents.SubmissionVerifiedV1, submissionevents.SubmissionVerifiedPayloadV1{
		SessionID:  res.Data.SessionID,
		UserID:     userID,
		Seed:       seed,
		Score:      res.Data.Score,
		HashStatus: string(res.Data.HashStatus),
		EntryID:    res.Data.EntryID,
		Rank:       res.Data.Rank,
		VerifiedAt: s.now().UTC(),
	})
	if err == nil {
		err = s.publisher.Publish(s.cfg.EventTopic, msg)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish submission event",
			slog.String("session_id", res.Data.SessionID),
			slog.String("topic", s.cfg.EventTopic),
			slog.Any("error", err),
		)
	}
}
