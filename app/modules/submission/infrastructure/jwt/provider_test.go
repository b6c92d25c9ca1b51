package submissionjwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderRoundTrip(t *testing.T) {
	p := NewProvider("test-secret", "strategy-ledger", "game-client")

	token, err := p.GenerateToken("player-42", time.Hour)
	require.NoError(t, err)

	userID, err := p.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "player-42", userID)
}

func TestProviderRejections(t *testing.T) {
	p := NewProvider("test-secret", "strategy-ledger", "game-client")

	expired, err := p.GenerateToken("player-42", -time.Minute)
	require.NoError(t, err)

	otherSecret, err := NewProvider("other-secret", "strategy-ledger", "game-client").GenerateToken("player-42", time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := NewProvider("test-secret", "someone-else", "game-client").GenerateToken("player-42", time.Hour)
	require.NoError(t, err)

	wrongAudience, err := NewProvider("test-secret", "strategy-ledger", "admin").GenerateToken("player-42", time.Hour)
	require.NoError(t, err)

	noSubject, err := p.GenerateToken("", time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "player-42"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage", token: "not-a-jwt", wantErr: ErrInvalidToken},
		{name: "expired", token: expired, wantErr: ErrExpiredToken},
		{name: "wrong secret", token: otherSecret, wantErr: ErrInvalidSignature},
		{name: "wrong issuer", token: wrongIssuer, wantErr: ErrInvalidToken},
		{name: "wrong audience", token: wrongAudience, wantErr: ErrInvalidToken},
		{name: "no subject", token: noSubject, wantErr: ErrMissingSubject},
		{name: "alg none", token: none, wantErr: ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
