package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"supercook/internal/handlers"
	"supercook/internal/middleware"
	"supercook/internal/models"
	"supercook/internal/repositories"
	"supercook/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupAccountsApp sets up the accounts Fiber app over in-memory SQLite
// with all handlers, services and the auth middleware wired as in
// cmd/accounts.
func setupAccountsApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.FavoriteRecipe{}); err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	favoriteRepo := repositories.NewGORMFavoriteRepository(db)

	authService := services.NewAuthService(userRepo, favoriteRepo, jwtSecret, 2*time.Second, nil) // nil for RabbitMQ client
	favoriteService := services.NewFavoriteService(favoriteRepo, nil)

	userHandler := handlers.NewUserHandler(authService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)

	app := fiber.New()
	authRequired := middleware.AuthRequired(authService)
	userHandler.RegisterRoutes(app, authRequired)
	favoriteHandler.RegisterRoutes(app, authRequired)

	return app, db
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func registerUser(t *testing.T, app *fiber.App, name, email, password string) *http.Response {
	t.Helper()
	req := jsonRequest(http.MethodPost, "/users/", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func loginUser(t *testing.T, app *fiber.App, email, password string) (*http.Response, string) {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	if resp.StatusCode != http.StatusOK {
		return resp, ""
	}

	var tokenResp map[string]string
	err = json.NewDecoder(resp.Body).Decode(&tokenResp)
	assert.NoError(t, err)
	assert.Equal(t, "bearer", tokenResp["token_type"])
	assert.NotEmpty(t, tokenResp["access_token"])
	resp.Body.Close()
	return resp, tokenResp["access_token"]
}

func authedRequest(method, target, token string, body interface{}) *http.Request {
	var req *http.Request
	if body != nil {
		req = jsonRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := setupAccountsApp(t)

	resp := registerUser(t, app, "Flow User", "flow@example.com", "password123")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Registering the same email twice fails on the second attempt
	resp = registerUser(t, app, "Flow Clone", "flow@example.com", "password456")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Wrong password and unknown email both fail the same way
	resp, _ = loginUser(t, app, "flow@example.com", "wrongpassword")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp, _ = loginUser(t, app, "missing@example.com", "password123")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Correct credentials yield a usable token
	resp, token := loginUser(t, app, "flow@example.com", "password123")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, token)
}

func TestProfileEndpoints(t *testing.T) {
	app, _ := setupAccountsApp(t)

	resp := registerUser(t, app, "Profile User", "profile@example.com", "password123")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	_, token := loginUser(t, app, "profile@example.com", "password123")

	// The profile carries the hash, never the plaintext password
	resp, err := app.Test(authedRequest(http.MethodGet, "/users/profile", token, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var profile models.User
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "profile@example.com", profile.Email)
	assert.NotEmpty(t, profile.Password)
	assert.NotEqual(t, "password123", profile.Password)
	resp.Body.Close()

	// Partial update: only the supplied field changes
	resp, err = app.Test(authedRequest(http.MethodPut, "/users/", token, map[string]string{
		"email": "profile@example.com",
		"name":  "Renamed User",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(authedRequest(http.MethodGet, "/users/profile", token, nil), -1)
	assert.NoError(t, err)
	var updated models.User
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, "Renamed User", updated.Name)
	assert.Equal(t, profile.Password, updated.Password)
	resp.Body.Close()

	// A token for user A cannot update user B
	resp, err = app.Test(authedRequest(http.MethodPut, "/users/", token, map[string]string{
		"email": "someoneelse@example.com",
		"name":  "Hijacked",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// A URL that does not serve an image is rejected
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
	}))
	defer srv.Close()
	resp, err = app.Test(authedRequest(http.MethodPut, "/users/", token, map[string]string{
		"email":         "profile@example.com",
		"profile_image": srv.URL + "/page.html",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// A real image URL is accepted and stored
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
	}))
	defer imgSrv.Close()
	resp, err = app.Test(authedRequest(http.MethodPut, "/users/", token, map[string]string{
		"email":         "profile@example.com",
		"profile_image": imgSrv.URL + "/avatar.png",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(authedRequest(http.MethodGet, "/users/profile", token, nil), -1)
	assert.NoError(t, err)
	var withImage models.User
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&withImage))
	assert.Equal(t, imgSrv.URL+"/avatar.png", withImage.ProfileImage)
	resp.Body.Close()
}

func TestFavoritesFlow(t *testing.T) {
	app, _ := setupAccountsApp(t)

	resp := registerUser(t, app, "Fav User", "fav@example.com", "password123")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	_, token := loginUser(t, app, "fav@example.com", "password123")

	pancakes := map[string]interface{}{
		"image":        "https://example.com/pancakes.png",
		"name":         "Pancakes",
		"ingredients":  []string{"flour", "eggs", "milk"},
		"instructions": "Mix and fry.",
	}

	// Add, then duplicate
	resp, err := app.Test(authedRequest(http.MethodPost, "/recipes/", token, pancakes), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(authedRequest(http.MethodPost, "/recipes/", token, pancakes), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// List, filtered and unfiltered
	resp, err = app.Test(authedRequest(http.MethodGet, "/get_recipes/", token, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var favorites []models.FavoriteRecipe
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&favorites))
	assert.Len(t, favorites, 1)
	assert.Equal(t, "Pancakes", favorites[0].Name)
	assert.Equal(t, "fav@example.com", favorites[0].Email)
	assert.Equal(t, []string{"flour", "eggs", "milk"}, favorites[0].Ingredients)
	resp.Body.Close()

	resp, err = app.Test(authedRequest(http.MethodGet, "/get_recipes/?title=Waffles", token, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	favorites = nil
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&favorites))
	assert.Empty(t, favorites)
	resp.Body.Close()

	// Another user sees nothing
	resp = registerUser(t, app, "Other User", "otherfav@example.com", "password123")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	_, otherToken := loginUser(t, app, "otherfav@example.com", "password123")

	resp, err = app.Test(authedRequest(http.MethodGet, "/get_recipes/", otherToken, nil), -1)
	assert.NoError(t, err)
	favorites = nil
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&favorites))
	assert.Empty(t, favorites)
	resp.Body.Close()

	// Delete a favorite that does not exist
	resp, err = app.Test(authedRequest(http.MethodDelete, "/delete_recipes/?title=Waffles", token, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Delete the real one; it no longer lists
	resp, err = app.Test(authedRequest(http.MethodDelete, "/delete_recipes/?title=Pancakes", token, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(authedRequest(http.MethodGet, "/get_recipes/", token, nil), -1)
	assert.NoError(t, err)
	favorites = nil
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&favorites))
	assert.Empty(t, favorites)
	resp.Body.Close()
}

func TestDeleteAccount(t *testing.T) {
	app, db := setupAccountsApp(t)

	resp := registerUser(t, app, "Doomed User", "doomed@example.com", "password123")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	_, token := loginUser(t, app, "doomed@example.com", "password123")

	resp, err := app.Test(authedRequest(http.MethodPost, "/recipes/", token, map[string]interface{}{
		"image":        "https://example.com/toast.png",
		"name":         "Toast",
		"ingredients":  []string{"bread"},
		"instructions": "Toast it.",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(authedRequest(http.MethodDelete, "/users/delete_account/", token, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The user's favorites went with the account
	var count int64
	assert.NoError(t, db.Model(&models.FavoriteRecipe{}).Where("email = ?", "doomed@example.com").Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// A subsequent login fails
	resp, _ = loginUser(t, app, "doomed@example.com", "password123")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// The old token no longer authenticates either
	resp, err = app.Test(authedRequest(http.MethodGet, "/users/profile", token, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	app, _ := setupAccountsApp(t)

	for _, target := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users/profile"},
		{http.MethodPut, "/users/"},
		{http.MethodDelete, "/users/delete_account/"},
		{http.MethodPost, "/recipes/"},
		{http.MethodGet, "/get_recipes/"},
		{http.MethodDelete, "/delete_recipes/?title=x"},
	} {
		req := httptest.NewRequest(target.method, target.path, nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
			fmt.Sprintf("expected 401 for %s %s without token", target.method, target.path))
		resp.Body.Close()
	}

	// A garbage token is also rejected
	resp, err := app.Test(authedRequest(http.MethodGet, "/users/profile", "not.a.token", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
