package services_test

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"blog/internal/auth"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/services"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// TestMain silences service logging.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// MockFileDeleter is a mock implementation of services.FileDeleter.
type MockFileDeleter struct {
	mock.Mock
}

func (m *MockFileDeleter) DeleteFile(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// stubStore lets a test swap in a single mocked repository.
type stubStore struct {
	users repositories.UserRepository
	posts repositories.PostRepository
}

func (s stubStore) Users() repositories.UserRepository { return s.users }
func (s stubStore) Posts() repositories.PostRepository { return s.posts }
func (s stubStore) WithTx(_ context.Context, fn func(tx repositories.Store) error) error {
	return fn(s)
}

type fixture struct {
	store    *repositories.MockStore
	verifier *auth.Verifier
	files    *MockFileDeleter
	auth     *services.AuthService
	posts    *services.PostService
	users    *services.UserService
}

func newFixture(t *testing.T, opts ...auth.Option) *fixture {
	t.Helper()
	store := repositories.NewMockStore()
	verifier := auth.NewVerifier(testJWTSecret, time.Hour, opts...)
	policy := auth.NewPolicy(verifier)
	files := new(MockFileDeleter)
	return &fixture{
		store:    store,
		verifier: verifier,
		files:    files,
		auth:     services.NewAuthService(store, verifier, bcrypt.MinCost),
		posts:    services.NewPostService(store, policy, files),
		users:    services.NewUserService(store, policy),
	}
}

// signUp registers and logs in a user, returning the user and a bearer token.
func (f *fixture) signUp(t *testing.T, email string) (*models.User, string) {
	t.Helper()
	ctx := context.Background()
	user, err := f.auth.Register(ctx, services.RegisterInput{Email: email, Name: "Test User", Password: "password123"})
	require.NoError(t, err)
	data, err := f.auth.Login(ctx, email, "password123")
	require.NoError(t, err)
	return user, data.Token
}

func tokenRC(token string) auth.RequestContext {
	return auth.RequestContext{Authorization: "Bearer " + token}
}

func sessionRC(userID string) auth.RequestContext {
	return auth.RequestContext{IsAuthenticated: true, User: &auth.Claims{UserID: userID}}
}

var validPost = services.PostInput{
	Title:    "Hello world",
	Content:  "My very first post",
	ImageURL: "http://localhost:8080/images/a.png",
}
