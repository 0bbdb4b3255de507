package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mithunreddyy/valuva-sub002/config"
	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	apperrors "github.com/mithunreddyy/valuva-sub002/internal/errors"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"github.com/mithunreddyy/valuva-sub002/pkg/util"
	"gorm.io/gorm"
)

// TokenRevoker is implemented by redis.TokenBlacklist
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type ProfileInput struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// LoginResult carries either a token pair or, for MFA users, a challenge
// token to be completed with CompleteMFALogin.
type LoginResult struct {
	User         *model.User     `json:"user"`
	Tokens       *util.TokenPair `json:"tokens,omitempty"`
	MFARequired  bool            `json:"mfa_required"`
	MFAChallenge string          `json:"mfa_challenge,omitempty"`
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*LoginResult, error)
	CompleteMFALogin(challenge, code string) (*LoginResult, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, input ProfileInput) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	mfaService MFAService
	revoker    TokenRevoker
	jwt        config.JWTConfig
}

// NewAuthService builds the auth service. revoker may be nil when Redis is
// disabled, in which case logout only succeeds client side.
func NewAuthService(
	userRepo repository.UserRepository,
	mfaService MFAService,
	revoker TokenRevoker,
	jwtCfg config.JWTConfig,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		mfaService: mfaService,
		revoker:    revoker,
		jwt:        jwtCfg,
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, *util.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
	})

	if err := util.ValidatePasswordStrength(input.Password); err != nil {
		return nil, nil, ErrWeakPassword
	}

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         strings.TrimSpace(input.Name),
		Phone:        strings.TrimSpace(input.Phone),
		Role:         model.RoleCustomer,
	}
	if err := s.userRepo.Create(user); err != nil {
		if apperrors.ParseError(err, "register").Code == apperrors.AuthEmailAlreadyExists {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user, false)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, tokens, nil
}

func (s *authService) issueTokens(user *model.User, mfaVerified bool) (*util.TokenPair, error) {
	var opts []util.TokenOption
	if mfaVerified {
		opts = append(opts, util.WithMFAVerified())
	}
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwt.Secret,
		s.jwt.AccessTokenExpiry,
		s.jwt.RefreshTokenExpiry,
		opts...,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}

func (s *authService) Login(email, password string) (*LoginResult, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrInvalidCredentials
	}

	if user.MFAEnabled {
		challenge, err := util.GenerateMFAChallenge(user.ID, user.Email, string(user.Role), s.jwt.Secret, s.jwt.MFAChallengeExpiry)
		if err != nil {
			logger.Error("Failed to generate MFA challenge", err, map[string]interface{}{
				"user_id": user.ID,
			})
			return nil, err
		}
		logger.Info("Login requires second factor", map[string]interface{}{
			"user_id": user.ID,
		})
		return &LoginResult{User: user, MFARequired: true, MFAChallenge: challenge}, nil
	}

	return s.completeLogin(user, false)
}

func (s *authService) completeLogin(user *model.User, mfaVerified bool) (*LoginResult, error) {
	tokens, err := s.issueTokens(user, mfaVerified)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		logger.Warn("Failed to record last login", map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	} else {
		user.LastLoginAt = &now
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id":      user.ID,
		"mfa_verified": mfaVerified,
	})
	return &LoginResult{User: user, Tokens: tokens}, nil
}

// CompleteMFALogin trades a challenge token and a TOTP or backup code for a
// token pair marked mfa_verified.
func (s *authService) CompleteMFALogin(challenge, code string) (*LoginResult, error) {
	claims, err := util.ValidateToken(challenge, s.jwt.Secret)
	if err != nil || claims.TokenType != util.TokenTypeMFAChallenge {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if err := s.mfaService.Verify(user.ID, code); err != nil {
		return nil, err
	}

	// Verify may have consumed a backup code
	user, err = s.userRepo.FindByID(user.ID)
	if err != nil {
		return nil, err
	}
	return s.completeLogin(user, true)
}

// RefreshTokens rotates a refresh token. The presented token is revoked so it
// cannot be used twice.
func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwt.Secret)
	if err != nil || claims.TokenType != util.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		if revoked {
			logger.Warn("Refresh with revoked token", map[string]interface{}{
				"user_id": claims.UserID,
			})
			return nil, ErrInvalidToken
		}
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	tokens, err := s.issueTokens(user, claims.MFAVerified && user.MFAEnabled)
	if err != nil {
		return nil, err
	}

	if s.revoker != nil {
		if err := s.revoker.Revoke(ctx, refreshToken, claims.RemainingTTL()); err != nil {
			return nil, err
		}
	}
	return tokens, nil
}

// Logout revokes the access token and, when given, the refresh token.
func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if s.revoker == nil {
		logger.Warn("Logout without token blacklist, tokens stay valid until expiry")
		return nil
	}

	for _, token := range []string{accessToken, refreshToken} {
		if token == "" {
			continue
		}
		claims, err := util.ValidateToken(token, s.jwt.Secret)
		if err != nil {
			// expired or foreign tokens need no revocation
			continue
		}
		if err := s.revoker.Revoke(ctx, token, claims.RemainingTTL()); err != nil {
			return err
		}
		logger.Info("Token revoked", map[string]interface{}{
			"user_id": claims.UserID,
			"type":    claims.TokenType,
		})
	}
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, input ProfileInput) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	user.Phone = strings.TrimSpace(input.Phone)

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
