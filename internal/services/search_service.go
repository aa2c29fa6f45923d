package services

import (
	"strings"

	"supercook/internal/models"
	"supercook/internal/repositories"
)

// SearchService answers read-only queries over the recipe catalog.
// Every search reloads and re-scans the full dataset; there is no
// cache or index to keep consistent.
type SearchService struct {
	repo repositories.RecipeRepository
}

// NewSearchService creates a new SearchService.
func NewSearchService(repo repositories.RecipeRepository) *SearchService {
	return &SearchService{
		repo: repo,
	}
}

// ListAll returns every catalog row.
func (s *SearchService) ListAll() ([]models.Recipe, error) {
	recipes, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// SearchByName matches recipes whose name contains every
// whitespace-delimited token of query as a case-insensitive substring.
func (s *SearchService) SearchByName(query string) ([]models.Recipe, error) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil, ErrEmptyQuery
	}

	recipes, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	matches := make([]models.Recipe, 0)
	for _, recipe := range recipes {
		name := strings.ToLower(recipe.Name)
		if containsAllTokens(name, tokens) {
			matches = append(matches, recipe)
		}
	}
	return matches, nil
}

// SearchByIngredients matches recipes that, for every requested
// ingredient, have at least one ingredient entry containing it as a
// case-insensitive substring. AND across requested ingredients, OR
// across the recipe's own entries.
func (s *SearchService) SearchByIngredients(ingredients []string) ([]models.Recipe, error) {
	wanted := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		if trimmed := strings.TrimSpace(ingredient); trimmed != "" {
			wanted = append(wanted, strings.ToLower(trimmed))
		}
	}
	if len(wanted) == 0 {
		return nil, ErrNoIngredients
	}

	recipes, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	matches := make([]models.Recipe, 0)
	for _, recipe := range recipes {
		if hasAllIngredients(recipe.Ingredients, wanted) {
			matches = append(matches, recipe)
		}
	}
	return matches, nil
}

func containsAllTokens(name string, tokens []string) bool {
	for _, token := range tokens {
		if !strings.Contains(name, token) {
			return false
		}
	}
	return true
}

func hasAllIngredients(entries, wanted []string) bool {
	for _, want := range wanted {
		found := false
		for _, entry := range entries {
			if strings.Contains(strings.ToLower(entry), want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
