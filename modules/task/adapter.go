package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort is the interface the API module uses for task operations. Every
// method returns either a result or a tagged *apperr.Error.
type TaskPort interface {
	Create(ctx context.Context, userID string, draft domain.Draft) (*domain.Task, error)
	Get(ctx context.Context, userID, taskID string) (*domain.Task, error)
	Update(ctx context.Context, userID, taskID string, draft domain.Draft) (*domain.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
	List(ctx context.Context, req ListTasksRequest) ([]domain.Task, error)
	Summary(ctx context.Context, userID string) (*SummaryPayload, error)
}

// taskAdapter implements TaskPort over the service container.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a TaskPort backed by the task module's services.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

func (a *taskAdapter) call(ctx context.Context, service string, req, resp any) error {
	if err := helper.CallRequestReplyService[any, any](
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

func (a *taskAdapter) Create(ctx context.Context, userID string, draft domain.Draft) (*domain.Task, error) {
	req := CreateTaskRequest{UserID: userID, Draft: draft}
	var resp TaskResponse
	if err := a.call(ctx, "create-task", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Task, nil
}

func (a *taskAdapter) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	req := GetTaskRequest{UserID: userID, TaskID: taskID}
	var resp TaskResponse
	if err := a.call(ctx, "get-task", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Task, nil
}

func (a *taskAdapter) Update(ctx context.Context, userID, taskID string, draft domain.Draft) (*domain.Task, error) {
	req := UpdateTaskRequest{UserID: userID, TaskID: taskID, Draft: draft}
	var resp TaskResponse
	if err := a.call(ctx, "update-task", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Task, nil
}

func (a *taskAdapter) Delete(ctx context.Context, userID, taskID string) error {
	req := DeleteTaskRequest{UserID: userID, TaskID: taskID}
	var resp DeleteTaskResponse
	if err := a.call(ctx, "delete-task", &req, &resp); err != nil {
		return err
	}
	if resp.Err != nil {
		return resp.Err
	}
	return nil
}

func (a *taskAdapter) List(ctx context.Context, req ListTasksRequest) ([]domain.Task, error) {
	var resp ListTasksResponse
	if err := a.call(ctx, "list-tasks", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Tasks, nil
}

func (a *taskAdapter) Summary(ctx context.Context, userID string) (*SummaryPayload, error) {
	req := SummaryRequest{UserID: userID}
	var resp SummaryResponse
	if err := a.call(ctx, "task-summary", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Summary, nil
}
