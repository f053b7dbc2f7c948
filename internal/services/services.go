package services

import (
	"context"
	"errors"
	"net/http"

	"blog/internal/apperr"
	"blog/internal/repositories"
)

// FileDeleter removes stored media. Failures are logged by callers and never
// abort the operation that asked for the deletion.
type FileDeleter interface {
	DeleteFile(ctx context.Context, path string) error
}

// Ack is the acknowledgement returned by mutations that have no entity to return.
type Ack struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func success(message string) *Ack {
	return &Ack{Status: "success", Message: message}
}

// lookupError turns a repository lookup failure into a 404 or a 500.
func lookupError(err error, notFound, internal string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound(notFound, http.StatusNotFound, err)
	}
	return apperr.Internal(internal, err)
}
