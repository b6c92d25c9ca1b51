package submissionmetrics

import (
	"context"
	"time"
)

type noop struct{}

// NewNoop returns metrics that record nothing.
func NewNoop() SubmissionMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (noop) RecordOperationFailure(context.Context, string, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (noop) RecordSubmissionOutcome(context.Context, string)                        {}
func (noop) RecordRejection(context.Context, string)                                {}
func (noop) RecordHashRaceFallback(context.Context)                                 {}
