package submission

import (
	"context"
	"fmt"
	"log/slog"

	submissionservice "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/application"
	submissionhandlers "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/handlers"
	submissionjwt "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/jwt"
	submissiondb "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/repositories"
	"github.com/Black-And-White-Club/strategy-ledger/app/observability"
	submissionmetrics "github.com/Black-And-White-Club/strategy-ledger/app/observability/metrics/submission"
	"github.com/Black-And-White-Club/strategy-ledger/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

// Module represents the submission module.
type Module struct {
	SubmissionService submissionservice.Service
	Handlers          submissionhandlers.Handlers
	Tokens            submissionjwt.Provider
	logger            *slog.Logger
}

// NewSubmissionModule creates the submission module and mounts its HTTP routes.
// publisher may be nil, in which case no events are emitted.
func NewSubmissionModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	httpRouter chi.Router,
	publisher message.Publisher,
) (*Module, error) {
	if httpRouter == nil {
		return nil, fmt.Errorf("submission module requires an HTTP router")
	}
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "submission.NewSubmissionModule initializing")

	// 1. Initialize Repository
	repo := submissiondb.NewRepository(db)

	// 2. Initialize Metrics
	metrics, err := submissionmetrics.NewPrometheus(obs.Registry)
	if err != nil {
		logger.WarnContext(ctx, "Falling back to noop submission metrics", slog.Any("error", err))
		metrics = submissionmetrics.NewNoop()
	}

	// 3. Initialize Service
	service := submissionservice.NewSubmissionService(repo, logger, metrics, tracer, db, publisher, submissionservice.Config{
		ScoreTolerance: cfg.Tolerance(),
		EventTopic:     cfg.NATS.Subject,
	})

	// 4. Initialize Handlers
	handlers := submissionhandlers.NewSubmissionHandlers(service, logger, tracer)

	// 5. Mount routes
	tokens := submissionjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)
	var limiter *submissionhandlers.IPRateLimiter
	if cfg.HTTP.RateLimitRPS > 0 {
		limiter = submissionhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimitRPS), cfg.HTTP.RateLimitBurst)
	}
	submissionhandlers.RegisterRoutes(httpRouter, handlers, tokens, limiter)

	return &Module{
		SubmissionService: service,
		Handlers:          handlers,
		Tokens:            tokens,
		logger:            logger,
	}, nil
}

// Close shuts down the submission module.
func (m *Module) Close() error {
	m.logger.Info("Submission module stopped")
	return nil
}
