package models

import "gorm.io/gorm"

// User represents a registered account. Email is the business key; the
// Password field always holds a bcrypt hash and is surfaced as-is on
// profile reads.
type User struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name         string `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Email        string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password     string `json:"password" gorm:"type:varchar(255)"`
	ProfileImage string `json:"profile_image" gorm:"type:varchar(512)" validate:"omitempty,url"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
