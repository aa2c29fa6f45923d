package services

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"supercook/internal/models"
	"supercook/internal/repositories"
	"supercook/pkg/rabbitmq"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login, token verification and the
// user-scoped profile operations.
type AuthService struct {
	userRepo     repositories.UserRepository
	favoriteRepo repositories.FavoriteRepository
	jwtSecret    []byte
	tokenDurat   time.Duration // Duration for which the access token is valid
	httpClient   *http.Client  // Bounded client for the profile-image probe
	events       *rabbitmq.Client
}

// ProfileUpdate is a partial profile update. Nil pointers mean the
// field was not supplied and must be preserved; Email identifies the
// target account and must match the caller.
type ProfileUpdate struct {
	Email        string
	Name         *string
	Password     *string
	ProfileImage *string
}

// NewAuthService creates a new AuthService. The events client may be
// nil, in which case lifecycle events are skipped. imageTimeout bounds
// the outbound profile-image probe so an unresponsive host cannot hang
// a request.
func NewAuthService(userRepo repositories.UserRepository, favoriteRepo repositories.FavoriteRepository, jwtSecret string, imageTimeout time.Duration, events *rabbitmq.Client) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		favoriteRepo: favoriteRepo,
		jwtSecret:    []byte(jwtSecret),
		tokenDurat:   30 * time.Minute,
		httpClient:   &http.Client{Timeout: imageTimeout},
		events:       events,
	}
}

// Register stores a new user with a hashed password. The email is the
// business key; a second registration for the same email fails.
func (s *AuthService) Register(user *models.User) error {
	existing, err := s.userRepo.GetByEmail(user.Email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("email %q: %w", user.Email, ErrEmailTaken)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	s.publishEvent("user.registered", map[string]interface{}{"email": user.Email})
	return nil
}

// Login authenticates by email and password and returns a signed access
// token whose subject is the email.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.Email,
		"exp": time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat": time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// Authenticate verifies a bearer token and resolves its subject to the
// stored user. A token whose subject no longer maps to an account is
// rejected the same way as a malformed one.
func (s *AuthService) Authenticate(tokenString string) (*models.User, error) {
	claims, err := s.validateToken(tokenString)
	if err != nil {
		return nil, err
	}

	email, _ := claims["sub"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", ErrInvalidToken)
		}
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a partial update to the caller's own record.
// Only supplied fields are touched; a supplied password is rehashed and
// a supplied image URL must be reachable and serve an image.
func (s *AuthService) UpdateProfile(current *models.User, update ProfileUpdate) error {
	if update.Email != current.Email {
		return ErrForbidden
	}

	if update.ProfileImage != nil && *update.ProfileImage != "" {
		if err := s.checkImageURL(*update.ProfileImage); err != nil {
			return err
		}
	}

	fields := make(map[string]interface{})
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.ProfileImage != nil {
		fields["profile_image"] = *update.ProfileImage
	}
	if update.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		fields["password"] = string(hashedPassword)
	}

	if len(fields) == 0 {
		return ErrUserNotFound
	}

	rows, err := s.userRepo.UpdateFields(current.Email, fields)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteAccount removes the caller's favorites and then the user record
// itself. The two deletes are independent operations; favorites only
// reference the user by email, so no referential cleanup is needed if
// the second step never runs.
func (s *AuthService) DeleteAccount(current *models.User) error {
	if _, err := s.favoriteRepo.DeleteByOwner(current.Email); err != nil {
		return fmt.Errorf("failed to delete favorites: %w", err)
	}

	rows, err := s.userRepo.Delete(current.Email)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	s.publishEvent("user.deleted", map[string]interface{}{"email": current.Email})
	return nil
}

// validateToken parses and validates an access token, returning the
// claims if the signature, algorithm and expiry check out.
func (s *AuthService) validateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// checkImageURL probes an image URL with a bounded GET. Failure, a
// non-2xx response or a non-image content type all map to ErrBadImageURL.
func (s *AuthService) checkImageURL(imageURL string) error {
	resp, err := s.httpClient.Get(imageURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadImageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrBadImageURL, resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "image") {
		return fmt.Errorf("%w: content type %q", ErrBadImageURL, resp.Header.Get("Content-Type"))
	}
	return nil
}

func (s *AuthService) publishEvent(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishAccountEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
