package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateTokenPair(t *testing.T) {
	tokens, err := GenerateTokenPair(42, "shopper@example.com", "CUSTOMER", testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

	access, err := ValidateToken(tokens.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), access.UserID)
	assert.Equal(t, "shopper@example.com", access.Email)
	assert.Equal(t, "CUSTOMER", access.Role)
	assert.Equal(t, "42", access.Subject)
	assert.Equal(t, TokenTypeAccess, access.TokenType)
	assert.InDelta(t, (15 * time.Minute).Seconds(), access.RemainingTTL().Seconds(), 5)

	refresh, err := ValidateToken(tokens.RefreshToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestTokenIDsAreUnique(t *testing.T) {
	a, err := GenerateTokenPair(1, "a@example.com", "CUSTOMER", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	b, err := GenerateTokenPair(1, "a@example.com", "CUSTOMER", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)

	ca, err := ValidateToken(a.RefreshToken, testSecret)
	require.NoError(t, err)
	cb, err := ValidateToken(b.RefreshToken, testSecret)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestValidateToken_Rejects(t *testing.T) {
	tokens, err := GenerateTokenPair(1, "a@example.com", "CUSTOMER", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateTokenPair(1, "a@example.com", "CUSTOMER", testSecret, -time.Minute, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "Wrong secret", token: tokens.AccessToken, secret: "other-secret", wantErr: ErrInvalidToken},
		{name: "Garbage", token: "invalid.token.format", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Empty", token: "", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Expired", token: expired.AccessToken, secret: testSecret, wantErr: ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestTokenTypesAndMFAFlag(t *testing.T) {
	tokens, err := GenerateTokenPair(7, "ops@example.com", "ADMIN", testSecret, time.Minute, time.Hour, WithMFAVerified())
	require.NoError(t, err)

	access, err := ValidateToken(tokens.AccessToken, testSecret)
	require.NoError(t, err)
	assert.True(t, access.MFAVerified)

	refresh, err := ValidateToken(tokens.RefreshToken, testSecret)
	require.NoError(t, err)
	assert.True(t, refresh.MFAVerified)

	plain, err := GenerateTokenPair(7, "ops@example.com", "ADMIN", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	plainClaims, err := ValidateToken(plain.AccessToken, testSecret)
	require.NoError(t, err)
	assert.False(t, plainClaims.MFAVerified)
}

func TestGenerateMFAChallenge(t *testing.T) {
	challenge, err := GenerateMFAChallenge(9, "ops@example.com", "ADMIN", testSecret, time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(challenge, testSecret)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeMFAChallenge, claims.TokenType)
	assert.Equal(t, uint(9), claims.UserID)
	assert.False(t, claims.MFAVerified)
}

func TestRemainingTTL_NoExpiry(t *testing.T) {
	var c Claims
	assert.Equal(t, time.Duration(0), c.RemainingTTL())
}
