package submissiondomain

import (
	"fmt"
	"strings"
)

// VerificationHashLength is the length of a hex-encoded SHA-256 digest.
const VerificationHashLength = 64

// NormalizeVerificationHash checks that hash is exactly 64 hex characters and returns
// it lower-cased, so that the same digest always maps to the same provenance row.
func NormalizeVerificationHash(hash string) (string, error) {
	if hash == "" {
		return "", MalformedInput("Missing verification_hash")
	}
	if len(hash) != VerificationHashLength {
		return "", MalformedInput("Invalid verification_hash length (expected %d characters, got %d)",
			VerificationHashLength, len(hash))
	}
	for i := 0; i < len(hash); i++ {
		if !isHexDigit(hash[i]) {
			return "", MalformedInput("Invalid verification_hash: non-hex character at position %d", i)
		}
	}
	return strings.ToLower(hash), nil
}

// VerifyFinalState runs the plausibility and score checks in order and returns the
// first rejection as a typed error.
func VerifyFinalState(submittedScore int64, state FinalState, tolerance int64) error {
	if ok, reason := CheckPlausibility(state); !ok {
		return newVerificationError(KindImplausibleState, "Implausible game state: %s", reason)
	}
	if ok, reason := ValidateScore(submittedScore, state, tolerance); !ok {
		return newVerificationError(KindScoreMismatch, "Invalid score: %s", reason)
	}
	return nil
}

func scoreMismatchReason(submitted, calculated int64, diff uint64) string {
	return fmt.Sprintf("Score mismatch: submitted %d, calculated %d (diff: %d)", submitted, calculated, diff)
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
