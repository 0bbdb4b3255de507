package model

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	FullName     string         `gorm:"size:100;not null" json:"full_name"`
	Phone        string         `gorm:"size:30;not null" json:"phone"`
	AddressLine1 string         `gorm:"type:text;not null" json:"address_line1"`
	AddressLine2 string         `gorm:"type:text" json:"address_line2"`
	City         string         `gorm:"size:100;not null" json:"city"`
	State        string         `gorm:"size:100;not null" json:"state"`
	PostalCode   string         `gorm:"size:20;not null" json:"postal_code"`
	Country      string         `gorm:"size:60;not null" json:"country"`
	IsDefault    bool           `gorm:"not null" json:"is_default"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"` // orders keep pointing at deleted addresses
}

func (Address) TableName() string {
	return "addresses"
}

// Label is a one-line rendering used for order snapshots
func (a *Address) Label() string {
	line := a.FullName + ", " + a.AddressLine1
	if a.AddressLine2 != "" {
		line += " " + a.AddressLine2
	}
	return line + ", " + a.City + ", " + a.State + " " + a.PostalCode + ", " + a.Country
}
