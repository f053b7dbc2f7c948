package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"blog/internal/models"

	"github.com/google/uuid"
)

// MockPostRepository is an in-memory implementation of PostRepository.
// Creators are resolved from the user repository it was built with.
type MockPostRepository struct {
	posts map[string]models.Post
	order []string // insertion order, keeps listing stable on equal timestamps
	users *MockUserRepository
	mu    sync.RWMutex
}

// NewMockPostRepository creates a new instance of MockPostRepository.
func NewMockPostRepository(users *MockUserRepository) *MockPostRepository {
	return &MockPostRepository{
		posts: make(map[string]models.Post),
		users: users,
	}
}

func (r *MockPostRepository) withCreator(ctx context.Context, p models.Post) models.Post {
	p.Creator = nil
	if r.users != nil {
		if u, err := r.users.GetByID(ctx, p.CreatorID); err == nil {
			p.Creator = u
		}
	}
	return p
}

// GetByID returns a post by its ID.
func (r *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	p, ok := r.posts[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("post with ID %s not found: %w", id, ErrNotFound)
	}
	found := r.withCreator(ctx, p)
	return &found, nil
}

// Create adds a new post. CreatedAt is kept when already set.
func (r *MockPostRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if _, exists := r.posts[post.ID]; exists {
		return fmt.Errorf("failed to create post: ID %s already exists", post.ID)
	}
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = now
	}
	stored := *post
	stored.Creator = nil
	r.posts[post.ID] = stored
	r.order = append(r.order, post.ID)
	return nil
}

// Update overwrites the editable fields of an existing post.
func (r *MockPostRepository) Update(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.posts[post.ID]
	if !ok {
		return fmt.Errorf("post with ID %s not found for update: %w", post.ID, ErrNotFound)
	}
	existing.Title = post.Title
	existing.Content = post.Content
	existing.ImageURL = post.ImageURL
	existing.UpdatedAt = time.Now()
	r.posts[post.ID] = existing
	post.UpdatedAt = existing.UpdatedAt
	return nil
}

// Delete removes a post by its ID.
func (r *MockPostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return fmt.Errorf("post with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.posts, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns posts newest first; equal timestamps keep insertion order.
func (r *MockPostRepository) List(ctx context.Context, skip, limit int) ([]models.Post, error) {
	r.mu.RLock()
	all := make([]models.Post, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.posts[id])
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if skip < 0 {
		skip = 0
	}
	if skip >= len(all) {
		return []models.Post{}, nil
	}
	end := len(all)
	if limit >= 0 && skip+limit < end {
		end = skip + limit
	}

	page := make([]models.Post, 0, end-skip)
	for _, p := range all[skip:end] {
		page = append(page, r.withCreator(ctx, p))
	}
	return page, nil
}

// Count returns the number of posts.
func (r *MockPostRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.posts)), nil
}
