package repositories

import (
	"sync"

	"supercook/internal/models"
)

// MockRecipeRepository is an in-memory implementation of RecipeRepository.
type MockRecipeRepository struct {
	recipes []models.Recipe
	err     error
	mu      sync.RWMutex
}

// NewMockRecipeRepository creates a new instance of MockRecipeRepository.
func NewMockRecipeRepository() *MockRecipeRepository {
	return &MockRecipeRepository{}
}

// Seed replaces the catalog contents.
func (r *MockRecipeRepository) Seed(recipes []models.Recipe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes = recipes
	r.err = nil
}

// Fail makes every subsequent GetAll return err.
func (r *MockRecipeRepository) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// GetAll returns the seeded catalog.
func (r *MockRecipeRepository) GetAll() ([]models.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.err != nil {
		return nil, r.err
	}
	recipes := make([]models.Recipe, len(r.recipes))
	copy(recipes, r.recipes)
	return recipes, nil
}
