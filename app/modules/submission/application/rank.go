package submissionservice

import (
	"context"
	"fmt"

	"github.com/Black-And-White-Club/strategy-ledger/app/shared/results"
	"github.com/uptrace/bun"
)

// GetRank is 1 plus the number of entries on seed that strictly beat score, so equal
// scores share a rank. It reads outside any submission transaction.
func (s *SubmissionService) GetRank(ctx context.Context, seed string, score int64) (int, error) {
	result, err := withTelemetry(s, ctx, "GetRank", seed, func(ctx context.Context) (results.OperationResult[int, error], error) {
		return s.getRankLogic(ctx, nil, seed, score)
	})
	if err != nil {
		return 0, err
	}
	return *result.Success, nil
}

func (s *SubmissionService) getRankLogic(ctx context.Context, db bun.IDB, seed string, score int64) (results.OperationResult[int, error], error) {
	above, err := s.repo.CountScoresAbove(ctx, db, seed, score)
	if err != nil {
		return results.OperationResult[int, error]{}, fmt.Errorf("failed to compute rank: %w", err)
	}
	return results.SuccessResult[int, error](above + 1), nil
}
