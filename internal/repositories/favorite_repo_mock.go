package repositories

import (
	"fmt"
	"sync"
	"time"

	"supercook/internal/models"

	"github.com/google/uuid"
)

// MockFavoriteRepository is an in-memory implementation of FavoriteRepository.
type MockFavoriteRepository struct {
	favorites map[string]models.FavoriteRecipe // keyed by owner email + "\x00" + name
	mu        sync.RWMutex
}

// NewMockFavoriteRepository creates a new instance of MockFavoriteRepository.
func NewMockFavoriteRepository() *MockFavoriteRepository {
	return &MockFavoriteRepository{
		favorites: make(map[string]models.FavoriteRecipe),
	}
}

func favoriteKey(email, name string) string {
	return email + "\x00" + name
}

// Create adds a new favorite.
func (r *MockFavoriteRepository) Create(favorite *models.FavoriteRecipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := favoriteKey(favorite.Email, favorite.Name)
	if _, ok := r.favorites[key]; ok {
		return fmt.Errorf("favorite %q for %s already exists", favorite.Name, favorite.Email)
	}
	if favorite.ID == "" {
		favorite.ID = uuid.New().String()
	}
	favorite.CreatedAt = time.Now()
	favorite.UpdatedAt = time.Now()
	r.favorites[key] = *favorite
	return nil
}

// GetByOwnerAndName returns a favorite by its (email, name) key.
func (r *MockFavoriteRepository) GetByOwnerAndName(email, name string) (*models.FavoriteRecipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	favorite, ok := r.favorites[favoriteKey(email, name)]
	if !ok {
		return nil, fmt.Errorf("favorite %q for %s: %w", name, email, ErrNotFound)
	}
	return &favorite, nil
}

// GetByOwner lists an owner's favorites, optionally narrowed to an
// exact name match.
func (r *MockFavoriteRepository) GetByOwner(email, name string) ([]models.FavoriteRecipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	favorites := make([]models.FavoriteRecipe, 0)
	for _, favorite := range r.favorites {
		if favorite.Email != email {
			continue
		}
		if name != "" && favorite.Name != name {
			continue
		}
		favorites = append(favorites, favorite)
	}
	return favorites, nil
}

// Delete removes the (email, name) favorite.
func (r *MockFavoriteRepository) Delete(email, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := favoriteKey(email, name)
	if _, ok := r.favorites[key]; !ok {
		return 0, nil
	}
	delete(r.favorites, key)
	return 1, nil
}

// DeleteByOwner removes every favorite owned by email.
func (r *MockFavoriteRepository) DeleteByOwner(email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for key, favorite := range r.favorites {
		if favorite.Email == email {
			delete(r.favorites, key)
			deleted++
		}
	}
	return deleted, nil
}
