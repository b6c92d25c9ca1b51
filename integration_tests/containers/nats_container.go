package containers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupNatsContainer starts a NATS testcontainer and returns the container and its client URL.
// The caller is responsible for terminating the container.
func SetupNatsContainer(ctx context.Context) (*nats.NATSContainer, string, error) {
	natsContainer, err := nats.Run(ctx,
		"nats:2.9.22-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForLog("Server is ready"),
				wait.ForListeningPort("4222/tcp"),
			).WithDeadline(45*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start NATS container: %w", err)
	}

	natsURL, err := natsContainer.ConnectionString(ctx)
	if err != nil {
		if terminateErr := natsContainer.Terminate(ctx); terminateErr != nil {
			log.Printf("Failed to terminate NATS container: %v", terminateErr)
		}
		return nil, "", fmt.Errorf("failed to get NATS connection string: %w", err)
	}

	log.Printf("NATS container started and ready. URL: %s", natsURL)
	return natsContainer, natsURL, nil
}
