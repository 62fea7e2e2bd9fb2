package api

import (
	"log"

	"github.com/example/task-tracker/domain/apperr"
	"github.com/gofiber/fiber/v2"
)

// Envelope is the shared shape of every API response.
type Envelope struct {
	Success     bool              `json:"success"`
	Data        any               `json:"data,omitempty"`
	Message     string            `json:"message,omitempty"`
	Error       string            `json:"error,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// RegisterBody is the register endpoint request body.
type RegisterBody struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginBody is the login endpoint request body.
type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileBody is the profile update request body. Nil fields are untouched.
type ProfileBody struct {
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Password  *string `json:"password,omitempty"`
}

func respondOK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success: true,
		Data:    data,
	})
}

func respondMessage(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success: true,
		Message: message,
	})
}

func respondFail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Error:   message,
	})
}

func respondFieldErrors(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(Envelope{
		Success:     false,
		Error:       "Validation failed",
		FieldErrors: fields,
	})
}

// respondError maps a tagged error to its HTTP response. The variant set is
// closed; anything untagged is an adapter or transport failure and maps to a
// generic 500.
func respondError(c *fiber.Ctx, err error) error {
	if ae, ok := err.(*apperr.Error); ok {
		switch ae.Code {
		case apperr.CodeValidation:
			return respondFieldErrors(c, ae.Fields)
		case apperr.CodeUnauthenticated:
			return respondFail(c, fiber.StatusUnauthorized, ae.Message)
		case apperr.CodeNotFound:
			return respondFail(c, fiber.StatusNotFound, ae.Message)
		case apperr.CodeConflict:
			return respondFail(c, fiber.StatusBadRequest, ae.Message)
		case apperr.CodeInternal:
			return respondFail(c, fiber.StatusInternalServerError, ae.Message)
		}
	}

	log.Printf("[api] unexpected error: %v", err)
	return respondFail(c, fiber.StatusInternalServerError, "An internal error occurred")
}
