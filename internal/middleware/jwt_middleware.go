package middleware

import (
	"log"

	"blog/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// Keys under which Authenticate stores its result in the Fiber context.
const (
	LocalIsAuthenticated = "is_authenticated"
	LocalUser            = "user"
)

// Authenticate checks the bearer token and records the outcome in the
// request locals. It never rejects a request: each operation decides for
// itself whether it needs an authenticated caller.
func Authenticate(verifier *auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalIsAuthenticated, false)

		token := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return c.Next()
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Next()
		}

		c.Locals(LocalIsAuthenticated, true)
		c.Locals(LocalUser, claims)
		return c.Next()
	}
}

// RequestContext collects what Authenticate stored along with the raw
// Authorization header.
func RequestContext(c *fiber.Ctx) auth.RequestContext {
	rc := auth.RequestContext{Authorization: c.Get(fiber.HeaderAuthorization)}
	if ok, _ := c.Locals(LocalIsAuthenticated).(bool); ok {
		rc.IsAuthenticated = true
	}
	if claims, ok := c.Locals(LocalUser).(*auth.Claims); ok {
		rc.User = claims
	}
	return rc
}
