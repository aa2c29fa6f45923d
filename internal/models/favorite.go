package models

import "time"

// FavoriteRecipe is a recipe a user saved for themselves. Ownership is
// by email back-reference; (email, name) is unique per user. Rows are
// hard-deleted so a removed favorite can be saved again under the same
// name.
type FavoriteRecipe struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string    `json:"email" gorm:"uniqueIndex:idx_favorites_owner_name;type:varchar(255)"`
	Image        string    `json:"image" gorm:"type:varchar(512)" validate:"required,url"`
	Name         string    `json:"name" gorm:"uniqueIndex:idx_favorites_owner_name;type:varchar(255)" validate:"required,min=1,max=255"`
	Ingredients  []string  `json:"ingredients" gorm:"serializer:json;type:text" validate:"required,min=1,dive,required"`
	Instructions string    `json:"instructions" gorm:"type:text" validate:"required"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
