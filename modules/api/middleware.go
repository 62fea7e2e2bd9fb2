package api

import (
	"strings"

	"github.com/example/task-tracker/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store caller claims in the Fiber
	// context.
	UserContextKey = "user"
	// AuthCookieName is the cookie carrying the session token.
	AuthCookieName = "auth-token"
)

// extractToken locates a bearer token: the Authorization header is checked
// first, then the auth cookie. First match wins; absence of both returns "".
func extractToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimPrefix(header, "Bearer "); token != "" {
			return token
		}
	}
	return c.Cookies(AuthCookieName)
}

// AuthMiddleware resolves the caller identity from the request's bearer
// token. Missing, malformed, badly signed and expired tokens all produce the
// same 401 envelope.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
		}

		claims, err := authPort.ValidateToken(c.UserContext(), token)
		if err != nil {
			return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}
