package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mithunreddyy/valuva-sub002/config"
	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	appredis "github.com/mithunreddyy/valuva-sub002/pkg/redis"
	"github.com/mithunreddyy/valuva-sub002/pkg/util"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret"

var testJWTConfig = config.JWTConfig{
	Secret:             testJWTSecret,
	AccessTokenExpiry:  15 * time.Minute,
	RefreshTokenExpiry: 7 * 24 * time.Hour,
	MFAChallengeExpiry: 5 * time.Minute,
}

type authFixture struct {
	auth      AuthService
	mfa       MFAService
	blacklist *appredis.TokenBlacklist
	db        *gorm.DB
}

func setupAuthServiceTest(t *testing.T) authFixture {
	testDB := setupTestDB(t)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	userRepo := repository.NewUserRepository(testDB)
	mfa := NewMFAService(userRepo, config.MFAConfig{Issuer: "Valuva", BackupCodeCount: 4})
	blacklist := appredis.NewTokenBlacklist(client)
	return authFixture{
		auth:      NewAuthService(userRepo, mfa, blacklist, testJWTConfig),
		mfa:       mfa,
		blacklist: blacklist,
		db:        testDB,
	}
}

func registerInput(email string) RegisterInput {
	return RegisterInput{Email: email, Password: "password123", Name: "Test User", Phone: "555-0100"}
}

func TestAuthService_Register(t *testing.T) {
	f := setupAuthServiceTest(t)

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{"valid registration", registerInput("test@example.com"), nil},
		{"duplicate email", registerInput("test@example.com"), ErrEmailAlreadyExists},
		{"duplicate email in other case", registerInput(" Test@Example.COM "), ErrEmailAlreadyExists},
		{"short password", RegisterInput{Email: "a@example.com", Password: "ab1", Name: "A"}, ErrWeakPassword},
		{"password without digit", RegisterInput{Email: "b@example.com", Password: "password", Name: "B"}, ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := f.auth.Register(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "test@example.com", user.Email)
			assert.Equal(t, model.RoleCustomer, user.Role)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)

			claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, util.TokenTypeAccess, claims.TokenType)
			assert.False(t, claims.MFAVerified)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	f := setupAuthServiceTest(t)
	registered, _, err := f.auth.Register(registerInput("test@example.com"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", "test@example.com", "password123", nil},
		{"email is case insensitive", "TEST@example.com", "password123", nil},
		{"wrong password", "test@example.com", "wrongpass1", ErrInvalidCredentials},
		{"unknown user", "nobody@example.com", "password123", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.auth.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.False(t, result.MFARequired)
			require.NotNil(t, result.Tokens)
			assert.Equal(t, registered.ID, result.User.ID)
			assert.NotNil(t, result.User.LastLoginAt)
		})
	}
}

func TestAuthService_LoginWithMFA(t *testing.T) {
	f := setupAuthServiceTest(t)
	user, _, err := f.auth.Register(registerInput("admin@example.com"))
	require.NoError(t, err)

	enrollment, err := f.mfa.Setup(user.ID)
	require.NoError(t, err)
	code, err := util.TOTPCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	backupCodes, err := f.mfa.Enable(user.ID, code)
	require.NoError(t, err)

	result, err := f.auth.Login("admin@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, result.MFARequired)
	assert.Nil(t, result.Tokens)
	require.NotEmpty(t, result.MFAChallenge)

	t.Run("challenge is not an access token", func(t *testing.T) {
		claims, err := util.ValidateToken(result.MFAChallenge, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, util.TokenTypeMFAChallenge, claims.TokenType)
	})

	t.Run("wrong code", func(t *testing.T) {
		_, err := f.auth.CompleteMFALogin(result.MFAChallenge, "ZZZZ-ZZZZ")
		assert.ErrorIs(t, err, ErrInvalidMFACode)
	})

	t.Run("access token cannot complete login", func(t *testing.T) {
		_, tokens, err := f.auth.Register(registerInput("other@example.com"))
		require.NoError(t, err)
		_, err = f.auth.CompleteMFALogin(tokens.AccessToken, code)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("backup code completes login", func(t *testing.T) {
		completed, err := f.auth.CompleteMFALogin(result.MFAChallenge, backupCodes[0])
		require.NoError(t, err)
		require.NotNil(t, completed.Tokens)

		claims, err := util.ValidateToken(completed.Tokens.AccessToken, testJWTSecret)
		require.NoError(t, err)
		assert.True(t, claims.MFAVerified)

		refreshed, err := f.auth.RefreshTokens(context.Background(), completed.Tokens.RefreshToken)
		require.NoError(t, err)
		claims, err = util.ValidateToken(refreshed.AccessToken, testJWTSecret)
		require.NoError(t, err)
		assert.True(t, claims.MFAVerified)
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	f := setupAuthServiceTest(t)
	ctx := context.Background()
	_, tokens, err := f.auth.Register(registerInput("test@example.com"))
	require.NoError(t, err)

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := f.auth.RefreshTokens(ctx, tokens.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	rotated, err := f.auth.RefreshTokens(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	t.Run("refresh token is single use", func(t *testing.T) {
		_, err := f.auth.RefreshTokens(ctx, tokens.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	require.NoError(t, f.auth.Logout(ctx, rotated.AccessToken, rotated.RefreshToken))

	revoked, err := f.blacklist.IsRevoked(ctx, rotated.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = f.auth.RefreshTokens(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// garbage tokens are ignored rather than failing logout
	assert.NoError(t, f.auth.Logout(ctx, "not-a-token", ""))
}

func TestAuthService_LogoutWithoutBlacklist(t *testing.T) {
	testDB := setupTestDB(t)
	userRepo := repository.NewUserRepository(testDB)
	auth := NewAuthService(userRepo, NewMFAService(userRepo, config.MFAConfig{}), nil, testJWTConfig)

	_, tokens, err := auth.Register(registerInput("test@example.com"))
	require.NoError(t, err)
	assert.NoError(t, auth.Logout(context.Background(), tokens.AccessToken, tokens.RefreshToken))

	_, err = auth.RefreshTokens(context.Background(), tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_Profile(t *testing.T) {
	f := setupAuthServiceTest(t)
	user, _, err := f.auth.Register(registerInput("test@example.com"))
	require.NoError(t, err)

	found, err := f.auth.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = f.auth.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	updated, err := f.auth.UpdateProfile(user.ID, ProfileInput{Name: " New Name ", Phone: "555-0199"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "555-0199", updated.Phone)

	_, err = f.auth.UpdateProfile(9999, ProfileInput{Name: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
