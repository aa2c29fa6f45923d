package repositories

import "supercook/internal/models"

// FavoriteRepository defines the interface for favorite-recipe data
// access. Every operation is scoped to an owner email.
type FavoriteRepository interface {
	Create(favorite *models.FavoriteRecipe) error
	GetByOwnerAndName(email, name string) (*models.FavoriteRecipe, error)
	// GetByOwner lists an owner's favorites; a non-empty name narrows
	// the result to an exact name match.
	GetByOwner(email, name string) ([]models.FavoriteRecipe, error)
	// Delete removes the (email, name) favorite and reports how many
	// rows were deleted.
	Delete(email, name string) (int64, error)
	// DeleteByOwner removes every favorite owned by email.
	DeleteByOwner(email string) (int64, error)
}
