package services

import (
	"context"

	"blog/internal/apperr"
	"blog/internal/auth"
	"blog/internal/repositories"
)

// UserService reads and changes the caller's status line.
type UserService struct {
	store  repositories.Store
	policy *auth.Policy
}

func NewUserService(store repositories.Store, policy *auth.Policy) *UserService {
	return &UserService{store: store, policy: policy}
}

// Status returns the token holder's status.
func (s *UserService) Status(ctx context.Context, rc auth.RequestContext) (string, error) {
	claims, err := s.policy.Authorize(auth.OpStatus, rc)
	if err != nil {
		return "", err
	}

	user, err := s.store.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		return "", lookupError(err, "User not found", "Could not load status")
	}
	return user.Status, nil
}

// UpdateStatus overwrites the acting user's status.
func (s *UserService) UpdateStatus(ctx context.Context, rc auth.RequestContext, status string) (*Ack, error) {
	if _, err := s.policy.Authorize(auth.OpUpdateStatus, rc); err != nil {
		return nil, err
	}
	actor, err := rc.Identity()
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, lookupError(err, "User not found", "Could not update status")
	}

	user.Status = status
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, apperr.Internal("Could not update status", err)
	}
	return success("Status updated"), nil
}
