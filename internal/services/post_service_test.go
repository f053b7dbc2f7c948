package services_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"blog/internal/apperr"
	"blog/internal/auth"
	"blog/internal/models"
	"blog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPostService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, token := f.signUp(t, "jane@example.com")

	post, err := f.posts.Create(ctx, tokenRC(token), validPost)
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, validPost.Title, post.Title)
	assert.Equal(t, user.ID, post.CreatorID)
	require.NotNil(t, post.Creator)
	assert.Equal(t, user.ID, post.Creator.ID)
	assert.Empty(t, post.Creator.Password)

	stored, err := f.store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{post.ID}, stored.PostIDs)
}

func TestPostService_Create_GateRunsBeforeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, token := f.signUp(t, "jane@example.com")

	invalid := services.PostInput{}

	// No token at all.
	_, err := f.posts.Create(ctx, tokenRC(""), invalid)
	assert.Equal(t, apperr.KindNotAuthenticated, apperr.KindOf(err))
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))

	// The session flag does not count for the token gate.
	_, err = f.posts.Create(ctx, sessionRC(user.ID), invalid)
	assert.Equal(t, apperr.KindNotAuthenticated, apperr.KindOf(err))

	// A tampered token.
	_, err = f.posts.Create(ctx, tokenRC(token+"x"), invalid)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// With a valid token, validation runs.
	_, err = f.posts.Create(ctx, tokenRC(token), invalid)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidationFailed, appErr.Kind)
	assert.Equal(t, "Validation failed", appErr.Message)
	assert.Len(t, appErr.Data, 5)

	n, err := f.store.Posts().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostService_Create_UnknownCreator(t *testing.T) {
	f := newFixture(t)
	token, err := f.verifier.Issue("ghost", "ghost@example.com")
	require.NoError(t, err)

	_, err = f.posts.Create(context.Background(), tokenRC(token), validPost)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestPostService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author, token := f.signUp(t, "jane@example.com")
	other, _ := f.signUp(t, "john@example.com")

	post, err := f.posts.Create(ctx, tokenRC(token), validPost)
	require.NoError(t, err)

	edit := services.PostInput{Title: "Edited title", Content: "Edited content", ImageURL: "images/b.png"}

	// Not the creator, and still allowed.
	updated, err := f.posts.Update(ctx, sessionRC(other.ID), post.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Edited title", updated.Title)
	assert.Equal(t, "Edited content", updated.Content)
	assert.Equal(t, "images/b.png", updated.ImageURL)
	assert.Equal(t, author.ID, updated.CreatorID)
	require.NotNil(t, updated.Creator)
	assert.Equal(t, author.ID, updated.Creator.ID)
}

func TestPostService_Update_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, token := f.signUp(t, "jane@example.com")
	post, err := f.posts.Create(ctx, tokenRC(token), validPost)
	require.NoError(t, err)

	// A valid token without the session flag is not enough.
	_, err = f.posts.Update(ctx, tokenRC(token), post.ID, validPost)
	assert.Equal(t, apperr.KindNotAuthenticated, apperr.KindOf(err))

	_, err = f.posts.Update(ctx, sessionRC(user.ID), post.ID, services.PostInput{Title: "Hi", Content: "Valid content", ImageURL: "a.png"})
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))

	_, err = f.posts.Update(ctx, sessionRC(user.ID), "missing", validPost)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestPostService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, token := f.signUp(t, "jane@example.com")

	post, err := f.posts.Create(ctx, tokenRC(token), validPost)
	require.NoError(t, err)
	keep, err := f.posts.Create(ctx, tokenRC(token), validPost)
	require.NoError(t, err)

	f.files.On("DeleteFile", mock.Anything, validPost.ImageURL).Return(nil).Once()

	ack, err := f.posts.Delete(ctx, sessionRC(user.ID), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "success", ack.Status)
	assert.Equal(t, "Post deleted successfully", ack.Message)

	_, err = f.store.Posts().GetByID(ctx, post.ID)
	assert.Error(t, err)

	stored, err := f.store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, stored.PostIDs)
	f.files.AssertExpectations(t)
}

func TestPostService_Delete_ImageFailureDoesNotAbort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, token := f.signUp(t, "jane@example.com")
	post, err := f.posts.Create(ctx, tokenRC(token), validPost)
	require.NoError(t, err)

	f.files.On("DeleteFile", mock.Anything, validPost.ImageURL).Return(errors.New("permission denied")).Once()

	_, err = f.posts.Delete(ctx, sessionRC(user.ID), post.ID)
	require.NoError(t, err)

	n, err := f.store.Posts().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	stored, err := f.store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.PostIDs, post.ID)
	f.files.AssertExpectations(t)
}

func TestPostService_Delete_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, token := f.signUp(t, "jane@example.com")
	post, err := f.posts.Create(ctx, tokenRC(token), validPost)
	require.NoError(t, err)

	// Valid token, no session flag.
	_, err = f.posts.Delete(ctx, tokenRC(token), post.ID)
	assert.Equal(t, apperr.KindNotAuthenticated, apperr.KindOf(err))

	// Flag set but no identity attached.
	_, err = f.posts.Delete(ctx, sessionRC(""), post.ID)
	assert.Equal(t, apperr.KindNotAuthenticated, apperr.KindOf(err))

	_, err = f.posts.Delete(ctx, sessionRC(user.ID), "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	f.files.AssertNotCalled(t, "DeleteFile", mock.Anything, mock.Anything)

	n, err := f.store.Posts().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPostService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, _ := f.signUp(t, "jane@example.com")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		require.NoError(t, f.store.Posts().Create(ctx, &models.Post{
			Title:     fmt.Sprintf("Post number %d", i),
			Content:   "Some content",
			ImageURL:  "a.png",
			CreatorID: user.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	titles := func(page *models.PostPage) []string {
		var out []string
		for _, p := range page.Posts {
			out = append(out, p.Title)
		}
		return out
	}

	first, err := f.posts.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Post number 5", "Post number 4"}, titles(first))
	assert.Equal(t, int64(5), first.TotalPost)

	second, err := f.posts.List(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Post number 3", "Post number 2"}, titles(second))
	assert.Equal(t, int64(5), second.TotalPost)
	require.NotNil(t, second.Posts[0].Creator)
	assert.Equal(t, user.ID, second.Posts[0].Creator.ID)

	third, err := f.posts.List(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Post number 1"}, titles(third))

	beyond, err := f.posts.List(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, beyond.Posts)
	assert.NotNil(t, beyond.Posts)
	assert.Equal(t, int64(5), beyond.TotalPost)

	for _, page := range []int{0, -3} {
		fallback, err := f.posts.List(ctx, page)
		require.NoError(t, err)
		assert.Equal(t, titles(first), titles(fallback))
	}
}

func TestPostService_Get(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, token := f.signUp(t, "jane@example.com")
	post, err := f.posts.Create(ctx, tokenRC(token), validPost)
	require.NoError(t, err)

	got, err := f.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	require.NotNil(t, got.Creator)
	assert.Equal(t, user.ID, got.Creator.ID)

	_, err = f.posts.Get(ctx, "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestPostService_ReplaceImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.posts.ReplaceImage(ctx, auth.RequestContext{}, "images/old.png")
	assert.Equal(t, apperr.KindNotAuthenticated, apperr.KindOf(err))

	f.files.On("DeleteFile", mock.Anything, "images/old.png").Return(nil).Once()
	require.NoError(t, f.posts.ReplaceImage(ctx, sessionRC("user-1"), "images/old.png"))
	require.NoError(t, f.posts.ReplaceImage(ctx, sessionRC("user-1"), ""))
	f.files.AssertExpectations(t)
}
