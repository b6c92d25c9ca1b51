package submissionhandlers

import (
	"context"

	submissionservice "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/application"
)

type FakeService struct {
	ProcessSubmissionFunc func(ctx context.Context, userID string, sub submissionservice.Submission) (*submissionservice.SubmissionResult, error)
	GetRankFunc           func(ctx context.Context, seed string, score int64) (int, error)
	PingFunc              func(ctx context.Context) error

	LastUserID     string
	LastSubmission *submissionservice.Submission
}

func (f *FakeService) ProcessSubmission(ctx context.Context, userID string, sub submissionservice.Submission) (*submissionservice.SubmissionResult, error) {
	f.LastUserID = userID
	f.LastSubmission = &sub
	if f.ProcessSubmissionFunc != nil {
		return f.ProcessSubmissionFunc(ctx, userID, sub)
	}
	return &submissionservice.SubmissionResult{}, nil
}

func (f *FakeService) GetRank(ctx context.Context, seed string, score int64) (int, error) {
	if f.GetRankFunc != nil {
		return f.GetRankFunc(ctx, seed, score)
	}
	return 1, nil
}

func (f *FakeService) Ping(ctx context.Context) error {
	if f.PingFunc != nil {
		return f.PingFunc(ctx)
	}
	return nil
}

var _ submissionservice.Service = (*FakeService)(nil)
