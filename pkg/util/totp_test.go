package util

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOTPRoundTrip(t *testing.T) {
	enrollment, err := GenerateTOTP("Valuva", "admin@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.Secret)
	assert.True(t, strings.HasPrefix(enrollment.OTPAuthURL, "otpauth://totp/"))

	now := time.Now()
	code, err := TOTPCode(enrollment.Secret, now)
	require.NoError(t, err)

	assert.True(t, ValidateTOTP(enrollment.Secret, code, now))
	assert.True(t, ValidateTOTP(enrollment.Secret, code, now.Add(30*time.Second)))
	assert.False(t, ValidateTOTP(enrollment.Secret, code, now.Add(5*time.Minute)))
	assert.False(t, ValidateTOTP(enrollment.Secret, "000000x", now))
}

func TestGenerateBackupCodes(t *testing.T) {
	codes, err := GenerateBackupCodes(10)
	require.NoError(t, err)
	require.Len(t, codes, 10)

	seen := map[string]bool{}
	for _, c := range codes {
		assert.Len(t, c, 9)
		assert.Equal(t, byte('-'), c[4])
		assert.NotContains(t, c, "0")
		assert.NotContains(t, c, "O")
		seen[c] = true
	}
	assert.Len(t, seen, 10)
}

func TestNormalizeBackupCode(t *testing.T) {
	assert.Equal(t, "ABCD-EFGH", NormalizeBackupCode("abcdefgh"))
	assert.Equal(t, "ABCD-EFGH", NormalizeBackupCode(" abcd-efgh "))
	assert.Equal(t, "ABCD-EFGH", NormalizeBackupCode("ABCD EFGH"))
}

func TestGenerateOrderNumber(t *testing.T) {
	at := time.Date(2025, 3, 9, 22, 0, 0, 0, time.UTC)
	a := GenerateOrderNumber(at)
	b := GenerateOrderNumber(at)

	assert.True(t, strings.HasPrefix(a, "ORD-20250309-"))
	assert.Len(t, a, len("ORD-20250309-")+8)
	assert.NotEqual(t, a, b)
}
