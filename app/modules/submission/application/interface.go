package submissionservice

import "context"

// Service verifies game submissions and maintains hash provenance.
type Service interface {
	// ProcessSubmission validates a submission, classifies its verification hash and
	// stores it atomically. Validation rejections come back as *submissiondomain.VerificationError;
	// store failures wrap ErrPersistenceFailure.
	ProcessSubmission(ctx context.Context, userID string, sub Submission) (*SubmissionResult, error)

	// GetRank returns 1 plus the number of leaderboard entries on seed with a higher score.
	GetRank(ctx context.Context, seed string, score int64) (int, error)

	// Ping reports whether the provenance store is reachable.
	Ping(ctx context.Context) error
}
