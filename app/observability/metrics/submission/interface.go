package submissionmetrics

import (
	"context"
	"time"
)

// SubmissionMetrics records submission pipeline measurements.
type SubmissionMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)

	// RecordSubmissionOutcome counts admitted submissions by hash status.
	RecordSubmissionOutcome(ctx context.Context, hashStatus string)
	// RecordRejection counts validation-stage rejections by error kind.
	RecordRejection(ctx context.Context, kind string)
	// RecordHashRaceFallback counts original inserts that lost a race and became duplicates.
	RecordHashRaceFallback(ctx context.Context)
}
