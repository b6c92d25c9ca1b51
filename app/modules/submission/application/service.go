package submissionservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	submissiondomain "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/domain"
	submissiondb "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/repositories"
	submissionmetrics "github.com/Black-And-White-Club/strategy-ledger/app/observability/metrics/submission"
	"github.com/Black-And-White-Club/strategy-ledger/app/shared/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "SubmissionService"

// SubmissionService implements the Service interface.
type SubmissionService struct {
	repo      submissiondb.Repository
	logger    *slog.Logger
	metrics   submissionmetrics.SubmissionMetrics
	tracer    trace.Tracer
	db        *bun.DB
	publisher message.Publisher
	cfg       Config
	now       func() time.Time
}

// NewSubmissionService creates a new SubmissionService. publisher may be nil.
func NewSubmissionService(
	repo submissiondb.Repository,
	logger *slog.Logger,
	metrics submissionmetrics.SubmissionMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	publisher message.Publisher,
	cfg Config,
) *SubmissionService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = submissionmetrics.NewNoop()
	}
	if cfg.ScoreTolerance < 0 {
		cfg.ScoreTolerance = submissiondomain.DefaultScoreTolerance
	}
	return &SubmissionService{
		repo:      repo,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *SubmissionService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, "Operation triggered", slog.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("error", wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		span.SetStatus(codes.Error, wrappedErr.Error())
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)

	return result, nil
}

// runInTx runs fn inside a transaction. Any error rolls the whole transaction back.
func runInTx[S any, F any](
	s *SubmissionService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// Ping checks the provenance store.
func (s *SubmissionService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
