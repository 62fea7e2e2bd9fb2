package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/task-tracker/domain/apperr"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// TaskModule provides owner-scoped task services.
type TaskModule struct {
	db      *gorm.DB
	service *TaskService
	bus     mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule over the shared store handle.
func NewModule(db *gorm.DB) *TaskModule {
	return &TaskModule{
		db: db,
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// SetEventBus receives the application event bus.
func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.bus = bus
}

// EmitEvents declares the task lifecycle events this module publishes.
func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// Start migrates the task schema and wires the service.
func (m *TaskModule) Start(_ context.Context) error {
	if err := m.db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("migrate tasks: %w", err)
	}

	repo := NewTaskRepository(m.db)
	m.service = NewTaskService(repo, m.bus)

	log.Println("[task] Module started")
	return nil
}

// Stop shuts down the module.
func (m *TaskModule) Stop(_ context.Context) error {
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(_ context.Context) mono.HealthStatus {
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"create-task": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "create-task", json.Unmarshal, json.Marshal, m.handleCreate)
		},
		"get-task": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "get-task", json.Unmarshal, json.Marshal, m.handleGet)
		},
		"update-task": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "update-task", json.Unmarshal, json.Marshal, m.handleUpdate)
		},
		"delete-task": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "delete-task", json.Unmarshal, json.Marshal, m.handleDelete)
		},
		"list-tasks": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "list-tasks", json.Unmarshal, json.Marshal, m.handleList)
		},
		"task-summary": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "task-summary", json.Unmarshal, json.Marshal, m.handleSummary)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("register %s service: %w", name, err)
		}
	}

	log.Printf("[task] Registered services: create-task, get-task, update-task, delete-task, list-tasks, task-summary")
	return nil
}

func (m *TaskModule) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Create(ctx, req.UserID, req.Draft)
	if err != nil {
		return TaskResponse{Err: asAppError("create-task", err)}, nil
	}
	return TaskResponse{Task: task}, nil
}

func (m *TaskModule) handleGet(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Get(ctx, req.UserID, req.TaskID)
	if err != nil {
		return TaskResponse{Err: asAppError("get-task", err)}, nil
	}
	return TaskResponse{Task: task}, nil
}

func (m *TaskModule) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Update(ctx, req.UserID, req.TaskID, req.Draft)
	if err != nil {
		return TaskResponse{Err: asAppError("update-task", err)}, nil
	}
	return TaskResponse{Task: task}, nil
}

func (m *TaskModule) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.UserID, req.TaskID); err != nil {
		return DeleteTaskResponse{Err: asAppError("delete-task", err)}, nil
	}
	return DeleteTaskResponse{}, nil
}

func (m *TaskModule) handleList(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.List(ctx, req.UserID, req.Status, req.Priority, req.Category)
	if err != nil {
		return ListTasksResponse{Err: asAppError("list-tasks", err)}, nil
	}
	return ListTasksResponse{Tasks: tasks}, nil
}

func (m *TaskModule) handleSummary(ctx context.Context, req SummaryRequest, _ *mono.Msg) (SummaryResponse, error) {
	summary, err := m.service.Summary(ctx, req.UserID)
	if err != nil {
		return SummaryResponse{Err: asAppError("task-summary", err)}, nil
	}
	return SummaryResponse{Summary: summary}, nil
}

// asAppError converts a service error into its tagged form for transport.
// Untagged errors are store failures: logged here, surfaced as internal.
func asAppError(op string, err error) *apperr.Error {
	if ae, ok := err.(*apperr.Error); ok {
		return ae
	}
	log.Printf("[task] %s failed: %v", op, err)
	return apperr.Internal()
}
