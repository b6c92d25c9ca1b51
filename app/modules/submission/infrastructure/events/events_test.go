package submissionevents

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageRoundTripsThroughPubSub(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	messages, err := pubsub.Subscribe(ctx, DefaultSubject)
	require.NoError(t, err)

	rank := 3
	entryID := "5b8f2a86-3f4e-4b2c-9a6f-0f1d2e3c4b5a"
	payload := SubmissionVerifiedPayloadV1{
		SessionID:  "0d7e2d0e-6b8c-4a53-8b8e-22f0d6d3c111",
		UserID:     "player-1",
		Seed:       "weekly-42",
		Score:      115000,
		HashStatus: "original",
		EntryID:    &entryID,
		Rank:       &rank,
		VerifiedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}

	msg, err := NewMessage(ctx, SubmissionVerifiedV1, payload)
	require.NoError(t, err)
	require.NoError(t, pubsub.Publish(DefaultSubject, msg))

	select {
	case got := <-messages:
		got.Ack()
		decoded, err := DecodeSubmissionVerified(got)
		require.NoError(t, err)
		assert.Equal(t, payload, *decoded)
		assert.Equal(t, msg.UUID, got.UUID)
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestDecodeSubmissionVerifiedRejectsOtherEventTypes(t *testing.T) {
	msg, err := NewMessage(context.Background(), "something.else.v1", map[string]string{"a": "b"})
	require.NoError(t, err)

	_, err = DecodeSubmissionVerified(msg)
	assert.Error(t, err)
}
