package repositories

import "supercook/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	// UpdateFields applies only the supplied column/value pairs to the
	// user identified by email and reports how many rows changed.
	UpdateFields(email string, fields map[string]interface{}) (int64, error)
	// Delete removes the user identified by email and reports how many
	// rows were deleted.
	Delete(email string) (int64, error)
}
