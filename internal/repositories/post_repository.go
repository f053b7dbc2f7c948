package repositories

import (
	"context"

	"blog/internal/models"
)

// PostRepository defines the interface for post data access.
// Reads return posts with Creator resolved.
type PostRepository interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	// List returns posts newest first.
	List(ctx context.Context, skip, limit int) ([]models.Post, error)
	Count(ctx context.Context) (int64, error)
}
