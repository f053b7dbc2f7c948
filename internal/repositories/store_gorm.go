package repositories

import (
	"context"

	"gorm.io/gorm"
)

// GORMStore is the Store backed by a GORM connection.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a Store on top of db.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Users() UserRepository { return NewGORMUserRepository(s.db) }
func (s *GORMStore) Posts() PostRepository { return NewGORMPostRepository(s.db) }

// WithTx runs fn inside a database transaction.
func (s *GORMStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx))
	})
}
