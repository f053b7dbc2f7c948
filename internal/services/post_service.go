package services

import (
	"context"
	"log"

	"blog/internal/apperr"
	"blog/internal/auth"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/validation"
)

// PostsPerPage is the fixed page size of the post listing.
const PostsPerPage = 2

// PostService handles business logic related to posts.
type PostService struct {
	store  repositories.Store
	policy *auth.Policy
	files  FileDeleter
}

// NewPostService creates a new PostService. files may be nil, in which case
// images are left on disk.
func NewPostService(store repositories.Store, policy *auth.Policy, files FileDeleter) *PostService {
	return &PostService{
		store:  store,
		policy: policy,
		files:  files,
	}
}

// PostInput is the payload of createPost and updatePost.
type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

func (in PostInput) validate() error {
	return validation.Failed("Validation failed", validation.Post(in.Title, in.Content, in.ImageURL))
}

// Create stores a post for the token holder and appends it to their post
// list in the same transaction.
func (s *PostService) Create(ctx context.Context, rc auth.RequestContext, in PostInput) (*models.Post, error) {
	claims, err := s.policy.Authorize(auth.OpCreatePost, rc)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var post *models.Post
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, claims.UserID)
		if err != nil {
			return lookupError(err, "User not found", "Could not create post")
		}

		post = &models.Post{
			Title:     in.Title,
			Content:   in.Content,
			ImageURL:  in.ImageURL,
			CreatorID: user.ID,
		}
		if err := tx.Posts().Create(ctx, post); err != nil {
			return apperr.Internal("Could not create post", err)
		}

		user.AddPost(post.ID)
		if err := tx.Users().Update(ctx, user); err != nil {
			return apperr.Internal("Could not create post", err)
		}

		user.Password = ""
		post.Creator = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Update overwrites title, content and image of a post.
//
// Any authenticated caller may edit any post: there is no ownership check.
func (s *PostService) Update(ctx context.Context, rc auth.RequestContext, id string, in PostInput) (*models.Post, error) {
	if _, err := s.policy.Authorize(auth.OpUpdatePost, rc); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	post, err := s.store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Post not found", "Could not update post")
	}

	post.Title = in.Title
	post.Content = in.Content
	post.ImageURL = in.ImageURL
	if err := s.store.Posts().Update(ctx, post); err != nil {
		return nil, lookupError(err, "Post not found", "Could not update post")
	}

	updated, err := s.store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Post not found", "Could not update post")
	}
	return updated, nil
}

// Delete removes a post, its image and its id from the acting user's list.
// The image is removed first and a failure there is only logged.
func (s *PostService) Delete(ctx context.Context, rc auth.RequestContext, id string) (*Ack, error) {
	if _, err := s.policy.Authorize(auth.OpDeletePost, rc); err != nil {
		return nil, err
	}
	actor, err := rc.Identity()
	if err != nil {
		return nil, err
	}

	post, err := s.store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Post not found", "Could not delete post")
	}

	s.deleteImage(ctx, post.ImageURL)

	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, actor.UserID)
		if err != nil {
			return lookupError(err, "User not found", "Could not delete post")
		}
		user.RemovePost(post.ID)
		if err := tx.Users().Update(ctx, user); err != nil {
			return apperr.Internal("Could not delete post", err)
		}
		if err := tx.Posts().Delete(ctx, post.ID); err != nil {
			return lookupError(err, "Post not found", "Could not delete post")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return success("Post deleted successfully"), nil
}

// ReplaceImage deletes the image a new upload supersedes.
func (s *PostService) ReplaceImage(ctx context.Context, rc auth.RequestContext, oldPath string) error {
	if _, err := s.policy.Authorize(auth.OpUploadImage, rc); err != nil {
		return err
	}
	if oldPath != "" {
		s.deleteImage(ctx, oldPath)
	}
	return nil
}

func (s *PostService) deleteImage(ctx context.Context, path string) {
	if s.files == nil || path == "" {
		return
	}
	if err := s.files.DeleteFile(ctx, path); err != nil {
		log.Printf("Warning: failed to delete image %s: %v", path, err)
	}
}

// List returns one page of posts, newest first, plus the total count.
// A page below 1 is treated as the first page.
func (s *PostService) List(ctx context.Context, page int) (*models.PostPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.store.Posts().Count(ctx)
	if err != nil {
		return nil, apperr.Internal("Could not list posts", err)
	}

	posts, err := s.store.Posts().List(ctx, (page-1)*PostsPerPage, PostsPerPage)
	if err != nil {
		return nil, apperr.Internal("Could not list posts", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}

	return &models.PostPage{Posts: posts, TotalPost: total}, nil
}

// Get returns a single post with its creator.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Post not found", "Could not load post")
	}
	return post, nil
}
