package model

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleAdmin    UserRole = "ADMIN"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Phone        string         `json:"phone"`
	Role         UserRole       `gorm:"type:varchar(20);not null;index" json:"role"`
	MFAEnabled   bool           `gorm:"column:mfa_enabled;not null" json:"mfa_enabled"`
	MFASecret    string         `gorm:"column:mfa_secret" json:"-"`  // active TOTP secret
	MFAPending   string         `gorm:"column:mfa_pending" json:"-"` // secret awaiting first valid code
	BackupCodes  BackupCodes    `json:"-"`                           // bcrypt hashes, consumed on use
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// BackupCodes is stored as text[] on postgres and as the array literal in a
// text column elsewhere.
type BackupCodes pq.StringArray

// GormDataType keeps the schema parser from treating the slice as a relation
func (BackupCodes) GormDataType() string {
	return "text"
}

func (BackupCodes) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func (b BackupCodes) Value() (driver.Value, error) {
	return pq.StringArray(b).Value()
}

func (b *BackupCodes) Scan(src interface{}) error {
	return (*pq.StringArray)(b).Scan(src)
}
