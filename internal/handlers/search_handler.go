package handlers

import (
	"errors"
	"log"

	"supercook/internal/repositories"
	"supercook/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SearchHandler handles HTTP requests for the read-only recipe catalog.
type SearchHandler struct {
	service *services.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog search routes with the Fiber app.
func (h *SearchHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/search", h.HandleSearch)
	router.Post("/search_by_ingredients", h.HandleSearchByIngredients)
	router.Get("/all_recipes", h.HandleAllRecipes)
}

// HandleSearch matches catalog recipes by name against the query
// parameter.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	recipes, err := h.service.SearchByName(c.Query("query"))
	if err != nil {
		if errors.Is(err, services.ErrEmptyQuery) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Query parameter is required.",
			})
		}
		return h.catalogError(c, err)
	}

	return c.JSON(fiber.Map{
		"results": recipes,
	})
}

// IngredientsRequest represents the body for an ingredient search.
type IngredientsRequest struct {
	Ingredients []string `json:"ingredients"`
}

// HandleSearchByIngredients matches catalog recipes holding every
// requested ingredient.
func (h *SearchHandler) HandleSearchByIngredients(c *fiber.Ctx) error {
	var req IngredientsRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing ingredient search body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	recipes, err := h.service.SearchByIngredients(req.Ingredients)
	if err != nil {
		if errors.Is(err, services.ErrNoIngredients) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Ingredients list is required.",
			})
		}
		return h.catalogError(c, err)
	}

	return c.JSON(fiber.Map{
		"results": recipes,
	})
}

// HandleAllRecipes returns every catalog row.
func (h *SearchHandler) HandleAllRecipes(c *fiber.Ctx) error {
	recipes, err := h.service.ListAll()
	if err != nil {
		return h.catalogError(c, err)
	}

	return c.JSON(fiber.Map{
		"results": recipes,
	})
}

// catalogError maps a missing dataset to a 404 payload and anything
// else to a 500.
func (h *SearchHandler) catalogError(c *fiber.Ctx, err error) error {
	log.Printf("Catalog query failed: %v", err)
	if errors.Is(err, repositories.ErrDatasetMissing) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Database file not found.",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Database error",
		"error":   err.Error(),
	})
}
