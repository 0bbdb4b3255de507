package service

import (
	"errors"
	"strings"
	"time"

	"github.com/mithunreddyy/valuva-sub002/config"
	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"github.com/mithunreddyy/valuva-sub002/pkg/util"
	"gorm.io/gorm"
)

const defaultBackupCodeCount = 10

type MFAService interface {
	Setup(userID uint) (*util.TOTPEnrollment, error)
	Enable(userID uint, code string) ([]string, error)
	Verify(userID uint, code string) error
	Disable(userID uint, code string) error
	RegenerateBackupCodes(userID uint, code string) ([]string, error)
}

type mfaService struct {
	userRepo        repository.UserRepository
	issuer          string
	backupCodeCount int
	now             func() time.Time
}

func NewMFAService(userRepo repository.UserRepository, cfg config.MFAConfig) MFAService {
	count := cfg.BackupCodeCount
	if count <= 0 {
		count = defaultBackupCodeCount
	}
	return &mfaService{
		userRepo:        userRepo,
		issuer:          cfg.Issuer,
		backupCodeCount: count,
		now:             time.Now,
	}
}

const maxBackupCodeSwaps = 3

func (s *mfaService) loadUser(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Setup stores a fresh pending secret. Calling it again replaces the pending
// secret, so an abandoned enrollment can be restarted.
func (s *mfaService) Setup(userID uint) (*util.TOTPEnrollment, error) {
	logger.Info("Starting MFA setup", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}
	if user.MFAEnabled {
		return nil, ErrMFAAlreadyEnabled
	}

	enrollment, err := util.GenerateTOTP(s.issuer, user.Email)
	if err != nil {
		logger.Error("Failed to generate TOTP secret", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{
		"mfa_pending": enrollment.Secret,
	}); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Enable promotes the pending secret once the user proves they can generate
// codes for it. The plain backup codes are returned exactly once.
func (s *mfaService) Enable(userID uint, code string) ([]string, error) {
	logger.Info("Enabling MFA", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}
	if user.MFAEnabled {
		return nil, ErrMFAAlreadyEnabled
	}
	if user.MFAPending == "" {
		return nil, ErrMFANotSetUp
	}
	if !util.ValidateTOTP(user.MFAPending, strings.TrimSpace(code), s.now()) {
		logger.Warn("MFA enable rejected: invalid code", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrInvalidMFACode
	}

	codes, hashes, err := s.newBackupCodes()
	if err != nil {
		logger.Error("Failed to generate backup codes", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{
		"mfa_enabled":  true,
		"mfa_secret":   user.MFAPending,
		"mfa_pending":  "",
		"backup_codes": hashes,
	}); err != nil {
		return nil, err
	}

	logger.Info("MFA enabled", map[string]interface{}{
		"user_id":      userID,
		"backup_codes": len(codes),
	})
	return codes, nil
}

func (s *mfaService) newBackupCodes() ([]string, model.BackupCodes, error) {
	codes, err := util.GenerateBackupCodes(s.backupCodeCount)
	if err != nil {
		return nil, nil, err
	}
	hashes := make(model.BackupCodes, 0, len(codes))
	for _, c := range codes {
		h, err := util.HashSecret(c)
		if err != nil {
			return nil, nil, err
		}
		hashes = append(hashes, h)
	}
	return codes, hashes, nil
}

// Verify accepts a current TOTP code or an unused backup code. A matching
// backup code is removed so it cannot be replayed.
func (s *mfaService) Verify(userID uint, code string) error {
	user, err := s.loadUser(userID)
	if err != nil {
		return err
	}
	return s.verify(user, code)
}

func (s *mfaService) verify(user *model.User, code string) error {
	if !user.MFAEnabled {
		return ErrMFANotEnabled
	}

	code = strings.TrimSpace(code)
	if isTOTPCode(code) {
		if util.ValidateTOTP(user.MFASecret, code, s.now()) {
			return nil
		}
		logger.Warn("MFA verification failed", map[string]interface{}{
			"user_id": user.ID,
		})
		return ErrInvalidMFACode
	}

	normalized := util.NormalizeBackupCode(code)
	for attempt := 0; attempt < maxBackupCodeSwaps; attempt++ {
		i := matchBackupCode(user.BackupCodes, normalized)
		if i < 0 {
			break
		}
		remaining := make(model.BackupCodes, 0, len(user.BackupCodes)-1)
		remaining = append(remaining, user.BackupCodes[:i]...)
		remaining = append(remaining, user.BackupCodes[i+1:]...)

		swapped, err := s.userRepo.SwapBackupCodes(user.ID, user.BackupCodes, remaining)
		if err != nil {
			return err
		}
		if !swapped {
			// codes changed underneath us; re-read and check the code is still unused
			fresh, err := s.loadUser(user.ID)
			if err != nil {
				return err
			}
			user.BackupCodes = fresh.BackupCodes
			continue
		}
		user.BackupCodes = remaining

		logger.Info("Backup code consumed", map[string]interface{}{
			"user_id":   user.ID,
			"remaining": len(remaining),
		})
		return nil
	}

	logger.Warn("MFA verification failed", map[string]interface{}{
		"user_id": user.ID,
	})
	return ErrInvalidMFACode
}

func matchBackupCode(hashes model.BackupCodes, code string) int {
	for i, hash := range hashes {
		if util.VerifyPassword(hash, code) {
			return i
		}
	}
	return -1
}

func isTOTPCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (s *mfaService) Disable(userID uint, code string) error {
	logger.Info("Disabling MFA", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.loadUser(userID)
	if err != nil {
		return err
	}
	if err := s.verify(user, code); err != nil {
		return err
	}

	return s.userRepo.UpdateFields(userID, map[string]interface{}{
		"mfa_enabled":  false,
		"mfa_secret":   "",
		"mfa_pending":  "",
		"backup_codes": model.BackupCodes{},
	})
}

// RegenerateBackupCodes replaces every remaining backup code
func (s *mfaService) RegenerateBackupCodes(userID uint, code string) ([]string, error) {
	logger.Info("Regenerating backup codes", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}
	if err := s.verify(user, code); err != nil {
		return nil, err
	}

	codes, hashes, err := s.newBackupCodes()
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{
		"backup_codes": hashes,
	}); err != nil {
		return nil, err
	}
	return codes, nil
}
