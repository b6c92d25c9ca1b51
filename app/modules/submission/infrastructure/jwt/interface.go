package submissionjwt

import "time"

// Provider issues and validates player bearer tokens.
type Provider interface {
	// GenerateToken signs a token whose subject is userID.
	GenerateToken(userID string, ttl time.Duration) (string, error)

	// ValidateToken returns the player identity carried by tokenString.
	ValidateToken(tokenString string) (string, error)
}
