package api

import (
	domaintask "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/task"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains the HTTP handlers for the API. It depends only on the
// module ports, which keeps it testable against mocks.
type Handlers struct {
	authPort     auth.AuthPort
	taskPort     task.TaskPort
	cookieMaxAge int
}

// NewHandlers creates a Handlers instance. cookieMaxAge is the auth cookie
// lifetime in seconds, matching the token TTL.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort, cookieMaxAge int) *Handlers {
	return &Handlers{
		authPort:     authPort,
		taskPort:     taskPort,
		cookieMaxAge: cookieMaxAge,
	}
}

// ListTasks returns the caller's tasks, optionally filtered by status,
// priority and category query parameters.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims := h.callerClaims(c)
	if claims == nil {
		return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	tasks, err := h.taskPort.List(c.UserContext(), task.ListTasksRequest{
		UserID:   claims.UserID,
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, fiber.Map{"tasks": tasks})
}

// CreateTask creates a task owned by the caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims := h.callerClaims(c)
	if claims == nil {
		return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	var draft domaintask.Draft
	if err := c.BodyParser(&draft); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	created, err := h.taskPort.Create(c.UserContext(), claims.UserID, draft)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, fiber.Map{"task": created})
}

// GetTask returns a single task. A task owned by another user and a task
// that does not exist produce the same 404.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims := h.callerClaims(c)
	if claims == nil {
		return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	found, err := h.taskPort.Get(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, fiber.Map{"task": found})
}

// UpdateTask applies a partial update to a task.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims := h.callerClaims(c)
	if claims == nil {
		return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	var draft domaintask.Draft
	if err := c.BodyParser(&draft); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	updated, err := h.taskPort.Update(c.UserContext(), claims.UserID, c.Params("id"), draft)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, fiber.Map{"task": updated})
}

// DeleteTask deletes a task.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims := h.callerClaims(c)
	if claims == nil {
		return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	if err := h.taskPort.Delete(c.UserContext(), claims.UserID, c.Params("id")); err != nil {
		return respondError(c, err)
	}

	return respondMessage(c, "Task deleted")
}

// TaskSummary returns the caller's dashboard aggregates.
func (h *Handlers) TaskSummary(c *fiber.Ctx) error {
	claims := h.callerClaims(c)
	if claims == nil {
		return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	summary, err := h.taskPort.Summary(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, fiber.Map{"summary": summary})
}
