package submissiondomain

import "fmt"

// ErrorKind classifies why a submission was rejected before anything was stored.
type ErrorKind string

const (
	KindMalformedInput   ErrorKind = "malformed_input"
	KindImplausibleState ErrorKind = "implausible_state"
	KindScoreMismatch    ErrorKind = "score_mismatch"
)

// VerificationError is returned for every validation-stage rejection.
// Reason is safe to show to the client.
type VerificationError struct {
	Kind   ErrorKind
	Reason string
}

func (e *VerificationError) Error() string {
	return e.Reason
}

func newVerificationError(kind ErrorKind, format string, args ...any) *VerificationError {
	return &VerificationError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// MalformedInput builds a malformed-input rejection.
func MalformedInput(format string, args ...any) *VerificationError {
	return newVerificationError(KindMalformedInput, format, args...)
}
