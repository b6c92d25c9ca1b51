package submissionevents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	// SubmissionVerifiedV1 is emitted after a submission commits.
	SubmissionVerifiedV1 = "submission.verified.v1"

	// DefaultSubject is the NATS subject used when none is configured.
	DefaultSubject = "strategy_ledger.submission.verified"

	MetadataEventType = "event_type"
)

// SubmissionVerifiedPayloadV1 describes an admitted submission.
type SubmissionVerifiedPayloadV1 struct {
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	Seed       string    `json:"seed"`
	Score      int64     `json:"score"`
	HashStatus string    `json:"hash_status"`
	EntryID    *string   `json:"entry_id,omitempty"`
	Rank       *int      `json:"rank,omitempty"`
	VerifiedAt time.Time `json:"verified_at"`
}

// NewMessage builds a watermill message carrying payload as JSON.
func NewMessage(ctx context.Context, eventType string, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(MetadataEventType, eventType)
	msg.SetContext(ctx)
	return msg, nil
}

// DecodeSubmissionVerified reads a SubmissionVerifiedPayloadV1 back out of msg.
func DecodeSubmissionVerified(msg *message.Message) (*SubmissionVerifiedPayloadV1, error) {
	if got := msg.Metadata.Get(MetadataEventType); got != SubmissionVerifiedV1 {
		return nil, fmt.Errorf("unexpected event type %q", got)
	}
	var payload SubmissionVerifiedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission payload: %w", err)
	}
	return &payload, nil
}
