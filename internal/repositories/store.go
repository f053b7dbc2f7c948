package repositories

import (
	"context"
	"errors"
)

// ErrNotFound is wrapped by every repository lookup that matches no row.
var ErrNotFound = errors.New("record not found")

// Store groups the repositories and the transaction boundary used when a
// post and its creator's post list change together.
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	// WithTx runs fn against a Store bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
