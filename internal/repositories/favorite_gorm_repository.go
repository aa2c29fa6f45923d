package repositories

import (
	"errors"
	"fmt"

	"supercook/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFavoriteRepository is a GORM implementation of FavoriteRepository.
type GORMFavoriteRepository struct {
	db *gorm.DB
}

// NewGORMFavoriteRepository creates a new instance of GORMFavoriteRepository.
func NewGORMFavoriteRepository(db *gorm.DB) *GORMFavoriteRepository {
	return &GORMFavoriteRepository{
		db: db,
	}
}

// Create inserts a new favorite recipe.
func (r *GORMFavoriteRepository) Create(favorite *models.FavoriteRecipe) error {
	if favorite.ID == "" {
		favorite.ID = uuid.New().String()
	}
	if err := r.db.Create(favorite).Error; err != nil {
		return fmt.Errorf("failed to create favorite: %w", err)
	}
	return nil
}

// GetByOwnerAndName retrieves a single favorite by its (email, name) key.
func (r *GORMFavoriteRepository) GetByOwnerAndName(email, name string) (*models.FavoriteRecipe, error) {
	var favorite models.FavoriteRecipe
	if err := r.db.First(&favorite, "email = ? AND name = ?", email, name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("favorite %q for %s: %w", name, email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get favorite %q for %s: %w", name, email, err)
	}
	return &favorite, nil
}

// GetByOwner lists all favorites owned by email, optionally narrowed to
// an exact name match.
func (r *GORMFavoriteRepository) GetByOwner(email, name string) ([]models.FavoriteRecipe, error) {
	query := r.db.Where("email = ?", email)
	if name != "" {
		query = query.Where("name = ?", name)
	}

	var favorites []models.FavoriteRecipe
	if err := query.Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites for %s: %w", email, err)
	}
	return favorites, nil
}

// Delete removes the (email, name) favorite.
func (r *GORMFavoriteRepository) Delete(email, name string) (int64, error) {
	res := r.db.Delete(&models.FavoriteRecipe{}, "email = ? AND name = ?", email, name)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete favorite %q for %s: %w", name, email, res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteByOwner removes every favorite owned by email.
func (r *GORMFavoriteRepository) DeleteByOwner(email string) (int64, error) {
	res := r.db.Delete(&models.FavoriteRecipe{}, "email = ?", email)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete favorites for %s: %w", email, res.Error)
	}
	return res.RowsAffected, nil
}
