package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Black-And-White-Club/strategy-ledger/config"
	"github.com/Black-And-White-Club/strategy-ledger/db/bundb"
	"github.com/Black-And-White-Club/strategy-ledger/integration_tests/containers"
)

// TestEnvironment holds all resources needed for integration testing
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DB            *bun.DB
	NatsURL       string
	Config        *config.Config
}

var (
	sharedEnv     *TestEnvironment
	sharedEnvErr  error
	sharedEnvOnce sync.Once
)

// GetOrCreateTestEnv returns the environment shared by every test in the process,
// starting containers on first use. Tests are skipped under -short.
func GetOrCreateTestEnv(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	sharedEnvOnce.Do(func() {
		sharedEnv, sharedEnvErr = NewTestEnvironment()
	})
	if sharedEnvErr != nil {
		t.Fatalf("Failed to set up test environment: %v", sharedEnvErr)
	}
	return sharedEnv
}

// ShutdownSharedEnv tears down the shared environment if one was created. Call it from TestMain.
func ShutdownSharedEnv() {
	if sharedEnv != nil {
		sharedEnv.Cleanup()
	}
}

// NewTestEnvironment creates a new test environment with Postgres and NATS containers
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())
	env := &TestEnvironment{Ctx: ctx, CancelContext: cancel}

	if err := env.setupContainers(ctx); err != nil {
		cancel()
		return nil, err
	}
	return env, nil
}

// setupContainers initializes all containers and connections
func (env *TestEnvironment) setupContainers(ctx context.Context) error {
	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		env.terminateContainers()
		return fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer = natsContainer
	env.NatsURL = natsURL

	sqlDB, err := sql.Open("pgx", pgConnStr)
	if err != nil {
		env.terminateContainers()
		return fmt.Errorf("failed to open sql DB connection: %w", err)
	}

	db := bundb.BunDB(sqlDB)
	env.DB = db

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		env.terminateContainers()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	tolerance := int64(100)
	env.Config = &config.Config{
		Postgres:     config.PostgresConfig{DSN: pgConnStr},
		NATS:         config.NATSConfig{URL: natsURL, Subject: "strategy_ledger.submission.verified"},
		JWT:          config.JWTConfig{Secret: "integration-secret", Issuer: "strategy-ledger"},
		Verification: config.VerificationConfig{ScoreTolerance: &tolerance},
		Observability: config.ObservabilityConfig{
			ServiceName: "strategy-ledger-test",
			Environment: "test",
			LogLevel:    "error",
		},
	}

	return nil
}

// CheckContainerHealth verifies that containers are running and responsive
func (env *TestEnvironment) CheckContainerHealth() error {
	ctx, cancel := context.WithTimeout(env.Ctx, 10*time.Second)
	defer cancel()

	if env.PgContainer != nil {
		state, err := env.PgContainer.State(ctx)
		if err != nil || !state.Running {
			return fmt.Errorf("PostgreSQL container not healthy: err=%v", err)
		}
	}
	if env.DB != nil {
		var result int
		if err := env.DB.NewSelect().ColumnExpr("1").Scan(ctx, &result); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
	}
	return nil
}

// Cleanup tears down all resources created for testing
func (env *TestEnvironment) Cleanup() {
	log.Println("Cleaning up test environment...")
	if env.CancelContext != nil {
		env.CancelContext()
	}
	if env.DB != nil {
		env.DB.Close()
	}
	env.terminateContainers()
	log.Println("Cleanup complete.")
}

func (env *TestEnvironment) terminateContainers() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating NATS container: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating Postgres container: %v", err)
		}
	}
}
