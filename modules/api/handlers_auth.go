package api

import (
	"time"

	domain "github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// Register handles user registration. The password confirmation is a
// boundary-only concern: it is checked here and never reaches the auth
// service.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var body RegisterBody
	if err := c.BodyParser(&body); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if body.ConfirmPassword != body.Password {
		return respondFieldErrors(c, map[string]string{
			"confirmPassword": "Passwords do not match",
		})
	}

	user, err := h.authPort.Register(c.UserContext(), auth.RegisterRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, fiber.Map{"user": user})
}

// Login handles user login. On success the token is returned both in the
// payload and as an http-only cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body LoginBody
	if err := c.BodyParser(&body); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if body.Email == "" || body.Password == "" {
		return respondFail(c, fiber.StatusBadRequest, "Email and password are required")
	}

	user, token, err := h.authPort.Login(c.UserContext(), auth.LoginRequest{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	h.setAuthCookie(c, token)

	return respondOK(c, fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Logout clears the auth cookie. The token itself stays valid until expiry;
// there is no server-side revocation.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	h.clearAuthCookie(c)
	return respondMessage(c, "Logged out")
}

// Me returns the authenticated caller's profile. A valid token whose user no
// longer exists in the store yields 404.
func (h *Handlers) Me(c *fiber.Ctx) error {
	claims := h.callerClaims(c)
	if claims == nil {
		return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	user, err := h.authPort.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, fiber.Map{"user": user})
}

// UpdateProfile applies a partial update to the caller's profile.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	claims := h.callerClaims(c)
	if claims == nil {
		return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	var body ProfileBody
	if err := c.BodyParser(&body); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.authPort.UpdateProfile(c.UserContext(), auth.UpdateProfileRequest{
		UserID:    claims.UserID,
		Name:      body.Name,
		AvatarURL: body.AvatarURL,
		Password:  body.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, fiber.Map{"user": user})
}

func (h *Handlers) callerClaims(c *fiber.Ctx) *domain.Claims {
	claims, _ := c.Locals(UserContextKey).(*domain.Claims)
	return claims
}

func (h *Handlers) setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.cookieMaxAge,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *Handlers) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
