package submissionintegrationtests

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	submissionservice "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/application"
	submissiondb "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/repositories"
	submissionmetrics "github.com/Black-And-White-Club/strategy-ledger/app/observability/metrics/submission"
	"github.com/Black-And-White-Club/strategy-ledger/integration_tests/testutils"
)

type TestDeps struct {
	Ctx     context.Context
	Env     *testutils.TestEnvironment
	Repo    submissiondb.Repository
	BunDB   *bun.DB
	Service submissionservice.Service
}

type serviceOptions struct {
	repo      submissiondb.Repository
	publisher message.Publisher
}

type serviceOption func(*serviceOptions)

func withRepo(repo submissiondb.Repository) serviceOption {
	return func(o *serviceOptions) { o.repo = repo }
}

func withPublisher(p message.Publisher) serviceOption {
	return func(o *serviceOptions) { o.publisher = p }
}

func SetupTestSubmissionService(t *testing.T, opts ...serviceOption) TestDeps {
	t.Helper()

	env := testutils.GetOrCreateTestEnv(t)
	if err := testutils.CleanSubmissionTables(env.Ctx, env.DB); err != nil {
		t.Fatalf("Failed to truncate submission tables: %v", err)
	}

	realRepo := submissiondb.NewRepository(env.DB)
	o := serviceOptions{repo: realRepo}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := submissionservice.Config{ScoreTolerance: env.Config.Tolerance()}
	if o.publisher != nil {
		cfg.EventTopic = env.Config.NATS.Subject
	}

	service := submissionservice.NewSubmissionService(
		o.repo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		submissionmetrics.NewNoop(),
		noop.NewTracerProvider().Tracer("test_submission_service"),
		env.DB,
		o.publisher,
		cfg,
	)

	return TestDeps{
		Ctx:     env.Ctx,
		Env:     env,
		Repo:    realRepo,
		BunDB:   env.DB,
		Service: service,
	}
}

func countRows(t *testing.T, deps TestDeps, table string) int {
	t.Helper()
	n, err := testutils.CountRows(deps.Ctx, deps.BunDB, table)
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
