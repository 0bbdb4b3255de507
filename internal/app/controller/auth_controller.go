package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mithunreddyy/valuva-sub002/internal/app/service"
	"github.com/mithunreddyy/valuva-sub002/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
	mfaService  service.MFAService
}

func NewAuthController(authService service.AuthService, mfaService service.MFAService) *AuthController {
	return &AuthController{
		authService: authService,
		mfaService:  mfaService,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type MFALoginRequest struct {
	Challenge string `json:"challenge" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type MFACodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// Register handles customer registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	var req service.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	user, tokens, err := ctrl.authService.Register(req)
	if err != nil {
		respondError(c, err, "register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login returns tokens, or an MFA challenge for users with MFA enabled
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err, "log in")
		return
	}
	c.JSON(http.StatusOK, result)
}

// CompleteMFALogin trades a challenge and a code for tokens
// POST /api/v1/auth/mfa/login
func (ctrl *AuthController) CompleteMFALogin(c *gin.Context) {
	var req MFALoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctrl.authService.CompleteMFALogin(req.Challenge, req.Code)
	if err != nil {
		respondError(c, err, "complete two-factor login")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Refresh rotates a refresh token
// POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := ctrl.authService.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "refresh token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout revokes the presented access token and an optional refresh token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	var req LogoutRequest
	// the body is optional
	_ = c.ShouldBindJSON(&req)

	if err := ctrl.authService.Logout(c.Request.Context(), middleware.GetAccessToken(c), req.RefreshToken); err != nil {
		respondError(c, err, "log out")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMe returns the current user
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		respondError(c, err, "fetch profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateMe updates the current user's profile
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req service.ProfileInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req)
	if err != nil {
		respondError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SetupMFA starts TOTP enrollment
// POST /api/v1/auth/mfa/setup
func (ctrl *AuthController) SetupMFA(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	enrollment, err := ctrl.mfaService.Setup(userID)
	if err != nil {
		respondError(c, err, "set up two-factor authentication")
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// EnableMFA confirms enrollment and returns the backup codes once
// POST /api/v1/auth/mfa/enable
func (ctrl *AuthController) EnableMFA(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req MFACodeRequest
	if !bindJSON(c, &req) {
		return
	}

	codes, err := ctrl.mfaService.Enable(userID, req.Code)
	if err != nil {
		respondError(c, err, "enable two-factor authentication")
		return
	}
	c.JSON(http.StatusOK, gin.H{"backup_codes": codes})
}

// DisableMFA turns MFA off after a final verification
// POST /api/v1/auth/mfa/disable
func (ctrl *AuthController) DisableMFA(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req MFACodeRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.mfaService.Disable(userID, req.Code); err != nil {
		respondError(c, err, "disable two-factor authentication")
		return
	}
	c.Status(http.StatusNoContent)
}

// RegenerateBackupCodes replaces the remaining backup codes
// POST /api/v1/auth/mfa/backup-codes
func (ctrl *AuthController) RegenerateBackupCodes(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req MFACodeRequest
	if !bindJSON(c, &req) {
		return
	}

	codes, err := ctrl.mfaService.RegenerateBackupCodes(userID, req.Code)
	if err != nil {
		respondError(c, err, "regenerate backup codes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"backup_codes": codes})
}
