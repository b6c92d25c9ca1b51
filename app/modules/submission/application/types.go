package submissionservice

import (
	"time"

	submissiondomain "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/domain"
)

const (
	DefaultConfigHash  = "default"
	DefaultGameVersion = "unknown"
)

// Submission is a completed run as reported by the client.
type Submission struct {
	Seed             string
	Score            int64
	VerificationHash string
	FinalState       submissiondomain.FinalState
	ConfigHash       string
	GameVersion      string
	DurationSeconds  float64
}

// SubmissionResult is returned for every admitted submission.
type SubmissionResult struct {
	Status submissiondomain.ResultStatus `json:"status"`
	Data   SubmissionData                `json:"data"`
}

type SubmissionData struct {
	SessionID         string                      `json:"session_id"`
	EntryID           *string                     `json:"entry_id,omitempty"`
	Rank              *int                        `json:"rank,omitempty"`
	Score             int64                       `json:"score"`
	HashStatus        submissiondomain.HashStatus `json:"hash_status"`
	Message           string                      `json:"message"`
	DuplicateCount    *int                        `json:"duplicate_count,omitempty"`
	FirstDiscoveredAt *time.Time                  `json:"first_discovered_at,omitempty"`
	FirstDiscoveredBy *string                     `json:"first_discovered_by,omitempty"`
}

// Config tunes the service.
type Config struct {
	// ScoreTolerance is the largest accepted gap between submitted and recomputed score.
	ScoreTolerance int64
	// EventTopic is where submission.verified events go. Empty disables publishing.
	EventTopic string
}

// withDefaults fills the optional submission fields.
func (s Submission) withDefaults() Submission {
	if s.ConfigHash == "" {
		s.ConfigHash = DefaultConfigHash
	}
	if s.GameVersion == "" {
		s.GameVersion = DefaultGameVersion
	}
	if s.FinalState == nil {
		s.FinalState = submissiondomain.FinalState{}
	}
	if s.DurationSeconds < 0 {
		s.DurationSeconds = 0
	}
	return s
}
