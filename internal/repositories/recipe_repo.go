package repositories

import (
	"errors"

	"supercook/internal/models"
)

// ErrDatasetMissing is returned when the catalog dataset file does not
// exist at the configured path.
var ErrDatasetMissing = errors.New("recipe dataset file not found")

// RecipeRepository defines read-only access to the recipe catalog.
type RecipeRepository interface {
	GetAll() ([]models.Recipe, error)
}
