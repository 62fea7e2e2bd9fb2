package task

import (
	"github.com/example/task-tracker/domain/apperr"
	domain "github.com/example/task-tracker/domain/task"
)

// SummaryPayload aggregates a user's tasks for the dashboard.
type SummaryPayload struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"byStatus"`
	ByPriority map[string]int64 `json:"byPriority"`
	Overdue    int64            `json:"overdue"`
}

// CreateTaskRequest is the create-task service request. UserID is the
// caller identity resolved by the API, never client input.
type CreateTaskRequest struct {
	UserID string       `json:"user_id"`
	Draft  domain.Draft `json:"draft"`
}

// TaskResponse carries a single task or a tagged error.
type TaskResponse struct {
	Task *domain.Task  `json:"task,omitempty"`
	Err  *apperr.Error `json:"err,omitempty"`
}

// GetTaskRequest is the get-task service request.
type GetTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// UpdateTaskRequest is the update-task service request. Nil draft fields are
// left untouched.
type UpdateTaskRequest struct {
	UserID string       `json:"user_id"`
	TaskID string       `json:"task_id"`
	Draft  domain.Draft `json:"draft"`
}

// DeleteTaskRequest is the delete-task service request.
type DeleteTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse is the delete-task service response.
type DeleteTaskResponse struct {
	Err *apperr.Error `json:"err,omitempty"`
}

// ListTasksRequest is the list-tasks service request. Filter values are raw
// query strings, enum-validated by the service.
type ListTasksRequest struct {
	UserID   string `json:"user_id"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Category string `json:"category,omitempty"`
}

// ListTasksResponse is the list-tasks service response.
type ListTasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
	Err   *apperr.Error `json:"err,omitempty"`
}

// SummaryRequest is the task-summary service request.
type SummaryRequest struct {
	UserID string `json:"user_id"`
}

// SummaryResponse is the task-summary service response.
type SummaryResponse struct {
	Summary *SummaryPayload `json:"summary,omitempty"`
	Err     *apperr.Error   `json:"err,omitempty"`
}
