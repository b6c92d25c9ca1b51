package submissionevents

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// NewNATSPublisher creates a core NATS publisher. Topics map one to one onto subjects and
// payloads go out unchanged, with watermill metadata carried in NATS headers.
func NewNATSPublisher(natsURL string, logger watermill.LoggerAdapter) (message.Publisher, error) {
	options := []nc.Option{
		nc.Name("strategy-ledger"),
		nc.RetryOnFailedConnect(true),
		nc.Timeout(10 * time.Second),
		nc.ReconnectWait(1 * time.Second),
	}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:               natsURL,
			NatsOptions:       options,
			Marshaler:         &wmnats.NATSMarshaler{},
			JetStream:         wmnats.JetStreamConfig{Disabled: true},
			SubjectCalculator: wmnats.DefaultSubjectCalculator,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}
	return publisher, nil
}
