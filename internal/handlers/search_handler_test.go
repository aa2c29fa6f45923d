package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"supercook/internal/handlers"
	"supercook/internal/models"
	"supercook/internal/repositories"
	"supercook/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// writeCatalogFixture builds a dataset file the way the pre-built
// catalog ships: a recipes table whose ingredients column holds
// serialized JSON arrays, plus one deliberately corrupt row.
func writeCatalogFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "recipes.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create catalog fixture: %v", err)
	}
	if err := db.AutoMigrate(&models.Recipe{}); err != nil {
		t.Fatalf("failed to migrate catalog fixture: %v", err)
	}

	rows := []models.Recipe{
		{Name: "Creamy Chicken Soup", RawIngredients: `["Chicken breast","Salt","Heavy cream"]`, Instructions: "Simmer."},
		{Name: "Chicken Curry", RawIngredients: `["Chicken thigh","Curry paste","Coconut milk"]`, Instructions: "Fry then simmer."},
		{Name: "Egg Fried Rice", RawIngredients: `["Cooked rice","Eggs","Salted butter"]`, Instructions: "Stir fry."},
		{Name: "Broken Row", RawIngredients: `('not', 'json')`, Instructions: "Should be skipped."},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("failed to seed catalog fixture: %v", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access fixture connection: %v", err)
	}
	sqlDB.Close()
	return path
}

func setupCatalogApp(t *testing.T, path string) *fiber.App {
	t.Helper()

	repo := repositories.NewSQLiteRecipeRepository(path)
	t.Cleanup(func() { repo.Close() })

	handler := handlers.NewSearchHandler(services.NewSearchService(repo))
	app := fiber.New()
	handler.RegisterRoutes(app)
	return app
}

type resultsResponse struct {
	Results []models.Recipe `json:"results"`
}

func decodeResults(t *testing.T, resp *http.Response) []models.Recipe {
	t.Helper()
	var body resultsResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	return body.Results
}

func TestAllRecipes(t *testing.T) {
	app := setupCatalogApp(t, writeCatalogFixture(t))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/all_recipes", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The corrupt row is dropped, the rest come back decoded
	results := decodeResults(t, resp)
	assert.Len(t, results, 3)
	for _, recipe := range results {
		assert.NotEmpty(t, recipe.Ingredients)
		assert.NotEqual(t, "Broken Row", recipe.Name)
	}
}

func TestAllRecipesMissingDataset(t *testing.T) {
	app := setupCatalogApp(t, filepath.Join(t.TempDir(), "missing.db"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/all_recipes", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["message"], "not found")
	resp.Body.Close()
}

func TestSearchByName(t *testing.T) {
	app := setupCatalogApp(t, writeCatalogFixture(t))

	// Both tokens must match, case-insensitively, in any order
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/search?query=chicken%20soup", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	results := decodeResults(t, resp)
	assert.Len(t, results, 1)
	assert.Equal(t, "Creamy Chicken Soup", results[0].Name)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/search?query=CHICKEN", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	results = decodeResults(t, resp)
	assert.Len(t, results, 2)

	// An empty query is a bad request
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/search", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSearchByIngredients(t *testing.T) {
	app := setupCatalogApp(t, writeCatalogFixture(t))

	search := func(ingredients []string) *http.Response {
		req := jsonRequest(http.MethodPost, "/search_by_ingredients", map[string]interface{}{
			"ingredients": ingredients,
		})
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		return resp
	}

	// Needs at least one entry containing "salt" AND one containing "egg"
	resp := search([]string{"salt", "egg"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	results := decodeResults(t, resp)
	assert.Len(t, results, 1)
	assert.Equal(t, "Egg Fried Rice", results[0].Name)

	resp = search([]string{"chicken"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	results = decodeResults(t, resp)
	assert.Len(t, results, 2)

	// An empty ingredient list is a bad request
	resp = search([]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
