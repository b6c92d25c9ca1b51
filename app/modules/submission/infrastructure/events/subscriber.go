package submissionevents

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// NewNATSSubscriber creates a core NATS subscriber that understands messages written by
// NewNATSPublisher. Downstream consumers of submission events use it.
func NewNATSSubscriber(natsURL string, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(10 * time.Second),
		nc.ReconnectWait(1 * time.Second),
	}

	subscriber, err := wmnats.NewSubscriber(
		wmnats.SubscriberConfig{
			URL:               natsURL,
			CloseTimeout:      10 * time.Second,
			AckWaitTimeout:    10 * time.Second,
			NatsOptions:       options,
			Unmarshaler:       &wmnats.NATSMarshaler{},
			JetStream:         wmnats.JetStreamConfig{Disabled: true},
			SubjectCalculator: wmnats.DefaultSubjectCalculator,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}
	return subscriber, nil
}
