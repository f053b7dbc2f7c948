package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"blog/internal/apperr"
	"blog/internal/auth"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and login.
type AuthService struct {
	store      repositories.Store
	verifier   *auth.Verifier
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(store repositories.Store, verifier *auth.Verifier, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		store:      store,
		verifier:   verifier,
		bcryptCost: bcryptCost,
	}
}

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// AuthData is returned by a successful login.
type AuthData struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the input, rejects an email that is already taken in
// any casing, and stores the user with a hashed password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.Failed("Invalid input", validation.Registration(in.Email, in.Password)); err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	existing, err := s.store.Users().GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, apperr.Conflict("User with this email already exists")
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, apperr.Internal("Could not register user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal("Could not register user", fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		Name:     in.Name,
		Email:    email,
		Password: string(hashedPassword),
		Status:   models.DefaultStatus,
		PostIDs:  []string{},
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, apperr.Internal("Could not register user", err)
	}

	user.Password = ""
	return user, nil
}

// Login checks the credentials and issues a token. An unknown email and a
// wrong password both fail with 401 but carry different messages.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthData, error) {
	user, err := s.store.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("User not found.", http.StatusUnauthorized, err)
		}
		return nil, apperr.Internal("Could not log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperr.Unauthorized("Wrong password", nil)
		}
		log.Printf("Stored password hash for user %s is unusable: %v", user.ID, err)
		return nil, apperr.Internal("Could not log in", err)
	}

	token, err := s.verifier.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Internal("Could not log in", err)
	}

	return &AuthData{Token: token, UserID: user.ID}, nil
}
