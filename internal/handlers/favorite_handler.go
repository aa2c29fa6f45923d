package handlers

import (
	"errors"
	"log"

	"supercook/internal/models"
	"supercook/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FavoriteHandler handles HTTP requests for a user's saved recipes.
type FavoriteHandler struct {
	service  *services.FavoriteService
	validate *validator.Validate
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(service *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the favorites routes with the Fiber app. All
// of them require authentication.
func (h *FavoriteHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/recipes/", auth, h.HandleAddFavorite)
	router.Get("/get_recipes/", auth, h.HandleListFavorites)
	router.Delete("/delete_recipes/", auth, h.HandleDeleteFavorite)
}

// AddFavoriteRequest represents the request body for saving a favorite.
type AddFavoriteRequest struct {
	Image        string   `json:"image" validate:"required,url"`
	Name         string   `json:"name" validate:"required,min=1,max=255"`
	Ingredients  []string `json:"ingredients" validate:"required,min=1,dive,required"`
	Instructions string   `json:"instructions" validate:"required"`
}

// HandleAddFavorite saves a recipe for the caller.
func (h *FavoriteHandler) HandleAddFavorite(c *fiber.Ctx) error {
	current := currentUser(c)

	var req AddFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing favorite request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	favorite := models.FavoriteRecipe{
		Image:        req.Image,
		Name:         req.Name,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
	}
	if err := h.service.Add(current.Email, &favorite); err != nil {
		log.Printf("Error adding favorite for %s: %v", current.Email, err)
		if errors.Is(err, services.ErrDuplicateFavorite) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Recipe with this title already exists for the user",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not add recipe",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Recipe added successfully",
	})
}

// HandleListFavorites returns the caller's favorites, optionally
// narrowed by the title query parameter to an exact name match.
func (h *FavoriteHandler) HandleListFavorites(c *fiber.Ctx) error {
	current := currentUser(c)

	favorites, err := h.service.List(current.Email, c.Query("title"))
	if err != nil {
		log.Printf("Error listing favorites for %s: %v", current.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve recipes",
			"error":   err.Error(),
		})
	}

	return c.JSON(favorites)
}

// HandleDeleteFavorite removes the caller's favorite named by the title
// query parameter.
func (h *FavoriteHandler) HandleDeleteFavorite(c *fiber.Ctx) error {
	current := currentUser(c)

	title := c.Query("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "title query parameter is required",
		})
	}

	if err := h.service.Delete(current.Email, title); err != nil {
		log.Printf("Error deleting favorite %q for %s: %v", title, current.Email, err)
		if errors.Is(err, services.ErrFavoriteNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Recipe not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete recipe",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Recipe deleted successfully",
	})
}
