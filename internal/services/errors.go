package services

import "errors"

// Sentinel errors surfaced by the services. Handlers map these to HTTP
// statuses with errors.Is; anything else is treated as a backend
// failure.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("you can only update your own profile")
	ErrUserNotFound       = errors.New("user not found or no changes made")
	ErrBadImageURL        = errors.New("provided image URL is not accessible")
	ErrDuplicateFavorite  = errors.New("recipe with this title already exists for the user")
	ErrFavoriteNotFound   = errors.New("recipe not found")
	ErrEmptyQuery         = errors.New("query parameter is required")
	ErrNoIngredients      = errors.New("ingredients list is required")
)
