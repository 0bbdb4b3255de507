package service

import (
	"strings"
	"testing"
	"time"

	"github.com/mithunreddyy/valuva-sub002/config"
	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	apperrors "github.com/mithunreddyy/valuva-sub002/internal/errors"
	"github.com/mithunreddyy/valuva-sub002/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var mfaNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func setupMFAServiceTest(t *testing.T) (MFAService, *gorm.DB) {
	testDB := setupTestDB(t)
	svc := NewMFAService(repository.NewUserRepository(testDB), config.MFAConfig{Issuer: "Valuva", BackupCodeCount: 4})
	svc.(*mfaService).now = func() time.Time { return mfaNow }
	return svc, testDB
}

func totpAt(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	code, err := util.TOTPCode(secret, at)
	require.NoError(t, err)
	return code
}

// enableMFA runs setup and enable and returns the secret and backup codes
func enableMFA(t *testing.T, svc MFAService, userID uint) (string, []string) {
	t.Helper()
	enrollment, err := svc.Setup(userID)
	require.NoError(t, err)
	codes, err := svc.Enable(userID, totpAt(t, enrollment.Secret, mfaNow))
	require.NoError(t, err)
	return enrollment.Secret, codes
}

func TestMFAService_SetupAndEnable(t *testing.T) {
	svc, testDB := setupMFAServiceTest(t)
	user := createTestUser(t, testDB, "admin@example.com")

	_, err := svc.Enable(user.ID, "123456")
	assert.ErrorIs(t, err, ErrMFANotSetUp)

	enrollment, err := svc.Setup(user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.Secret)
	assert.True(t, strings.HasPrefix(enrollment.OTPAuthURL, "otpauth://totp/"))
	assert.Contains(t, enrollment.OTPAuthURL, "issuer=Valuva")

	var pending model.User
	require.NoError(t, testDB.First(&pending, user.ID).Error)
	assert.Equal(t, enrollment.Secret, pending.MFAPending)
	assert.False(t, pending.MFAEnabled)

	t.Run("wrong code keeps mfa off", func(t *testing.T) {
		_, err := svc.Enable(user.ID, totpAt(t, enrollment.Secret, mfaNow.Add(-time.Hour)))
		assert.ErrorIs(t, err, ErrInvalidMFACode)
		assert.Equal(t, apperrors.KindUnauthorized, err.(*apperrors.DomainError).Kind)
	})

	codes, err := svc.Enable(user.ID, totpAt(t, enrollment.Secret, mfaNow))
	require.NoError(t, err)
	assert.Len(t, codes, 4)

	var stored model.User
	require.NoError(t, testDB.First(&stored, user.ID).Error)
	assert.True(t, stored.MFAEnabled)
	assert.Equal(t, enrollment.Secret, stored.MFASecret)
	assert.Empty(t, stored.MFAPending)
	require.Len(t, stored.BackupCodes, 4)
	for i, hash := range stored.BackupCodes {
		assert.NotEqual(t, codes[i], hash)
		assert.True(t, util.VerifyPassword(hash, codes[i]))
	}

	_, err = svc.Setup(user.ID)
	assert.ErrorIs(t, err, ErrMFAAlreadyEnabled)
	_, err = svc.Enable(user.ID, totpAt(t, enrollment.Secret, mfaNow))
	assert.ErrorIs(t, err, ErrMFAAlreadyEnabled)
}

func TestMFAService_Verify(t *testing.T) {
	svc, testDB := setupMFAServiceTest(t)
	user := createTestUser(t, testDB, "admin@example.com")

	assert.ErrorIs(t, svc.Verify(user.ID, "123456"), ErrMFANotEnabled)
	assert.ErrorIs(t, svc.Verify(9999, "123456"), ErrUserNotFound)

	secret, codes := enableMFA(t, svc, user.ID)

	t.Run("totp within skew", func(t *testing.T) {
		assert.NoError(t, svc.Verify(user.ID, totpAt(t, secret, mfaNow)))
		assert.NoError(t, svc.Verify(user.ID, totpAt(t, secret, mfaNow.Add(-30*time.Second))))
	})

	t.Run("stale totp", func(t *testing.T) {
		assert.ErrorIs(t, svc.Verify(user.ID, totpAt(t, secret, mfaNow.Add(-10*time.Minute))), ErrInvalidMFACode)
	})

	t.Run("backup code is single use", func(t *testing.T) {
		require.NoError(t, svc.Verify(user.ID, codes[0]))
		assert.ErrorIs(t, svc.Verify(user.ID, codes[0]), ErrInvalidMFACode)

		var stored model.User
		require.NoError(t, testDB.First(&stored, user.ID).Error)
		assert.Len(t, stored.BackupCodes, 3)
	})

	t.Run("backup code typed loosely", func(t *testing.T) {
		loose := strings.ToLower(strings.ReplaceAll(codes[1], "-", ""))
		require.NoError(t, svc.Verify(user.ID, " "+loose+" "))
	})

	t.Run("unknown backup code", func(t *testing.T) {
		assert.ErrorIs(t, svc.Verify(user.ID, "ZZZZ-ZZZZ"), ErrInvalidMFACode)
	})
}

func TestMFAService_BackupCodeRaceAcceptsOnce(t *testing.T) {
	svc, testDB := setupMFAServiceTest(t)
	user := createTestUser(t, testDB, "admin@example.com")
	_, codes := enableMFA(t, svc, user.ID)

	repo := repository.NewUserRepository(testDB)
	first, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(user.ID)
	require.NoError(t, err)

	impl := svc.(*mfaService)
	require.NoError(t, impl.verify(first, codes[0]))
	assert.ErrorIs(t, impl.verify(second, codes[0]), ErrInvalidMFACode)

	t.Run("stale snapshot still redeems a different code", func(t *testing.T) {
		stale, err := repo.FindByID(user.ID)
		require.NoError(t, err)
		require.NoError(t, impl.verify(first, codes[1]))
		require.NoError(t, impl.verify(stale, codes[2]))

		var stored model.User
		require.NoError(t, testDB.First(&stored, user.ID).Error)
		assert.Len(t, stored.BackupCodes, 1)
	})
}

func TestMFAService_RegenerateAndDisable(t *testing.T) {
	svc, testDB := setupMFAServiceTest(t)
	user := createTestUser(t, testDB, "admin@example.com")
	secret, oldCodes := enableMFA(t, svc, user.ID)

	_, err := svc.RegenerateBackupCodes(user.ID, "000000-bad")
	assert.ErrorIs(t, err, ErrInvalidMFACode)

	newCodes, err := svc.RegenerateBackupCodes(user.ID, totpAt(t, secret, mfaNow))
	require.NoError(t, err)
	assert.Len(t, newCodes, 4)

	// old codes no longer work
	assert.ErrorIs(t, svc.Verify(user.ID, oldCodes[0]), ErrInvalidMFACode)

	assert.ErrorIs(t, svc.Disable(user.ID, "ZZZZ-ZZZZ"), ErrInvalidMFACode)
	require.NoError(t, svc.Disable(user.ID, newCodes[0]))

	var stored model.User
	require.NoError(t, testDB.First(&stored, user.ID).Error)
	assert.False(t, stored.MFAEnabled)
	assert.Empty(t, stored.MFASecret)
	assert.Empty(t, stored.BackupCodes)

	assert.ErrorIs(t, svc.Disable(user.ID, totpAt(t, secret, mfaNow)), ErrMFANotEnabled)

	// a fresh enrollment is possible after disabling
	_, err = svc.Setup(user.ID)
	assert.NoError(t, err)
}
