package auth

import (
	"errors"

	"blog/internal/apperr"
)

// RequestContext is what the transport layer knows about the caller.
// IsAuthenticated and User are filled by the upstream authentication
// middleware; Authorization is the raw header.
type RequestContext struct {
	Authorization   string
	IsAuthenticated bool
	User            *Claims
}

// Identity returns the user attached by the upstream middleware, or a
// NotAuthenticated error when there is none.
func (rc RequestContext) Identity() (*Claims, error) {
	if rc.User == nil || rc.User.UserID == "" {
		return nil, apperr.NotAuthenticated("Not authenticated", nil)
	}
	return rc.User, nil
}

// Gate decides whether an operation may run. Gates that establish identity
// return the caller's claims; the others return nil claims on success.
type Gate interface {
	Authorize(rc RequestContext) (*Claims, error)
}

// TokenGate verifies the bearer token on every call.
type TokenGate struct {
	verifier *Verifier
}

func NewTokenGate(v *Verifier) *TokenGate {
	return &TokenGate{verifier: v}
}

func (g *TokenGate) Authorize(rc RequestContext) (*Claims, error) {
	claims, err := g.verifier.Verify(BearerToken(rc.Authorization))
	if err != nil {
		return nil, FailureError(err)
	}
	return claims, nil
}

// SessionGate trusts the IsAuthenticated flag computed upstream and ignores
// the token itself.
type SessionGate struct{}

func (SessionGate) Authorize(rc RequestContext) (*Claims, error) {
	if !rc.IsAuthenticated {
		return nil, apperr.NotAuthenticated("Not authenticated", nil)
	}
	return nil, nil
}

// FailureError converts a verifier failure into a 401 application error.
func FailureError(err error) error {
	var f *Failure
	if !errors.As(err, &f) {
		return apperr.Unauthorized("Invalid token", err)
	}
	switch {
	case f.Reason == ReasonMissing:
		return apperr.NotAuthenticated("Not authenticated", f)
	case errors.Is(f.Err, ErrTokenExpired):
		return apperr.Unauthorized("Token expired", f)
	default:
		return apperr.Unauthorized("Invalid token", f)
	}
}

// Operation names an entry point of the service layer.
type Operation string

const (
	OpRegister     Operation = "register"
	OpLogin        Operation = "login"
	OpCreatePost   Operation = "createPost"
	OpUpdatePost   Operation = "updatePost"
	OpDeletePost   Operation = "deletePost"
	OpUpdateStatus Operation = "updateStatus"
	OpListPosts    Operation = "posts"
	OpGetPost      Operation = "post"
	OpStatus       Operation = "status"
	OpUploadImage  Operation = "uploadImage"
)

// Policy maps operations to gates.
type Policy struct {
	gates map[Operation]Gate
}

// NewPolicy returns the default mapping: the token gate for createPost and
// status, the session gate for the remaining mutations on existing data.
func NewPolicy(v *Verifier) *Policy {
	token := NewTokenGate(v)
	session := SessionGate{}
	return &Policy{gates: map[Operation]Gate{
		OpCreatePost:   token,
		OpStatus:       token,
		OpUpdatePost:   session,
		OpDeletePost:   session,
		OpUpdateStatus: session,
		OpUploadImage:  session,
	}}
}

// Gate returns the gate for op, or nil if the operation is public.
func (p *Policy) Gate(op Operation) Gate {
	return p.gates[op]
}

// Authorize runs the gate registered for op. Public operations pass with nil claims.
func (p *Policy) Authorize(op Operation, rc RequestContext) (*Claims, error) {
	gate := p.gates[op]
	if gate == nil {
		return nil, nil
	}
	return gate.Authorize(rc)
}
