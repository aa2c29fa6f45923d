package repositories

import (
	"errors"
	"fmt"

	"supercook/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// UpdateFields applies a partial update to the user row matching email.
// Only the columns present in fields are touched.
func (r *GORMUserRepository) UpdateFields(email string, fields map[string]interface{}) (int64, error) {
	res := r.db.Model(&models.User{}).Where("email = ?", email).Updates(fields)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update user %s: %w", email, res.Error)
	}
	return res.RowsAffected, nil
}

// Delete removes the user row matching email.
func (r *GORMUserRepository) Delete(email string) (int64, error) {
	res := r.db.Delete(&models.User{}, "email = ?", email)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete user %s: %w", email, res.Error)
	}
	return res.RowsAffected, nil
}
