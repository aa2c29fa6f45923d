package services

import (
	"errors"
	"fmt"
	"log"

	"supercook/internal/models"
	"supercook/internal/repositories"
	"supercook/pkg/rabbitmq"
)

// FavoriteService handles business logic for a user's saved recipes.
// Every operation is scoped to the owner's email; no cross-user access
// path exists.
type FavoriteService struct {
	repo   repositories.FavoriteRepository
	events *rabbitmq.Client
}

// NewFavoriteService creates a new FavoriteService. The events client
// may be nil, in which case lifecycle events are skipped.
func NewFavoriteService(repo repositories.FavoriteRepository, events *rabbitmq.Client) *FavoriteService {
	return &FavoriteService{
		repo:   repo,
		events: events,
	}
}

// Add saves a favorite for the owner. A favorite with the same name
// already saved by this owner is rejected.
func (s *FavoriteService) Add(email string, favorite *models.FavoriteRecipe) error {
	existing, err := s.repo.GetByOwnerAndName(email, favorite.Name)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check existing favorite: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("favorite %q: %w", favorite.Name, ErrDuplicateFavorite)
	}

	favorite.Email = email
	if err := s.repo.Create(favorite); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	s.publishEvent("favorite.added", email, favorite.Name)
	return nil
}

// List returns the owner's favorites, optionally narrowed to an exact
// name match.
func (s *FavoriteService) List(email, name string) ([]models.FavoriteRecipe, error) {
	favorites, err := s.repo.GetByOwner(email, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

// Delete removes the owner's favorite by name.
func (s *FavoriteService) Delete(email, name string) error {
	rows, err := s.repo.Delete(email, name)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("favorite %q: %w", name, ErrFavoriteNotFound)
	}

	s.publishEvent("favorite.removed", email, name)
	return nil
}

func (s *FavoriteService) publishEvent(event, email, name string) {
	if s.events == nil {
		return
	}
	payload := map[string]interface{}{"email": email, "name": name}
	if err := s.events.PublishAccountEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
