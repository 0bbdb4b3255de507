package model

import "time"

type Review struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_review_product_user;index" json:"product_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_review_product_user;index" json:"user_id"`
	Rating     int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Title      string    `json:"title,omitempty"`
	Comment    string    `gorm:"type:text" json:"comment"`
	IsVerified bool      `gorm:"not null" json:"is_verified"` // author received a delivered order with this product
	IsApproved bool      `gorm:"not null;index" json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
