package repositories

import "context"

// MockStore is an in-memory Store.
type MockStore struct {
	users *MockUserRepository
	posts *MockPostRepository
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	users := NewMockUserRepository()
	return &MockStore{
		users: users,
		posts: NewMockPostRepository(users),
	}
}

func (s *MockStore) Users() UserRepository { return s.users }
func (s *MockStore) Posts() PostRepository { return s.posts }

// WithTx runs fn directly against the store. Nothing is rolled back if fn
// fails halfway, so a crash between two writes can leave a dangling post id.
func (s *MockStore) WithTx(_ context.Context, fn func(tx Store) error) error {
	return fn(s)
}
