package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = time.Hour

var ErrTokenExpired = errors.New("token expired")

// Reason tells why a token was rejected.
type Reason int

const (
	// ReasonMissing means no token, or something that is not a JWT at all.
	ReasonMissing Reason = iota + 1
	// ReasonInvalid means a well-formed token that failed signature or expiry checks.
	ReasonInvalid
)

func (r Reason) String() string {
	switch r {
	case ReasonMissing:
		return "missing"
	case ReasonInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Failure is the error value returned by Verify.
type Failure struct {
	Reason Reason
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s token: %v", f.Reason, f.Err)
	}
	return f.Reason.String() + " token"
}

func (f *Failure) Unwrap() error { return f.Err }

// Claims is the identity carried by a verified token. It lives for one request.
type Claims struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type tokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

// Verifier issues and verifies HS256 bearer tokens.
type Verifier struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithClock replaces time.Now, mostly for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier creates a Verifier. A non-positive ttl falls back to DefaultTokenTTL.
func NewVerifier(secret string, ttl time.Duration, opts ...Option) *Verifier {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	v := &Verifier{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// TTL returns the validity window of issued tokens.
func (v *Verifier) TTL() time.Duration { return v.ttl }

// Issue signs a token bound to the user id and email.
func (v *Verifier) Issue(userID, email string) (string, error) {
	now := v.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		UserID: userID,
		Email:  email,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(v.ttl).Unix(),
		},
	})

	tokenString, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks a raw token. It never panics; every rejection is a *Failure.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, &Failure{Reason: ReasonMissing}
	}

	var claims tokenClaims
	// Expiry is checked below against v.now so the clock stays injectable.
	parser := &jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return nil, &Failure{Reason: ReasonMissing, Err: err}
		}
		return nil, &Failure{Reason: ReasonInvalid, Err: err}
	}

	if !claims.VerifyExpiresAt(v.now().Unix(), true) {
		return nil, &Failure{Reason: ReasonInvalid, Err: ErrTokenExpired}
	}
	if claims.UserID == "" {
		return nil, &Failure{Reason: ReasonInvalid, Err: errors.New("token has no user id")}
	}

	return &Claims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		IssuedAt:  time.Unix(claims.IssuedAt, 0),
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. Any other shape yields "".
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
