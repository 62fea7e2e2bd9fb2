package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/task-tracker/domain/apperr"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// TaskService implements task operations. Every operation is scoped to the
// calling user; there is no path that touches a task row without the owner
// predicate.
type TaskService struct {
	repo *TaskRepository
	bus  mono.EventBus
}

// NewTaskService creates a new TaskService. The event bus may be nil, in
// which case lifecycle events are skipped.
func NewTaskService(repo *TaskRepository, bus mono.EventBus) *TaskService {
	return &TaskService{
		repo: repo,
		bus:  bus,
	}
}

// Create validates and inserts a new task for the given owner. Status
// defaults to pending when not provided.
func (s *TaskService) Create(_ context.Context, userID string, draft domain.Draft) (*domain.Task, error) {
	now := time.Now()
	if fields := draft.ValidateCreate(now); len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	task := &domain.Task{
		ID:        uuid.New().String(),
		Title:     *draft.Title,
		Status:    domain.StatusPending,
		Priority:  *draft.Priority,
		Category:  *draft.Category,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if draft.Description != nil {
		task.Description = *draft.Description
	}
	if draft.Status != nil {
		task.Status = *draft.Status
	}
	if draft.DueDate != nil {
		task.DueDate = draft.DueDate
	}
	task.DeriveCompletion(now)

	if err := s.repo.Create(task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.publishCreated(task)
	if task.Status == domain.StatusCompleted {
		s.publishCompleted(task)
	}

	return task, nil
}

// Get returns a task by id, owner-scoped.
func (s *TaskService) Get(_ context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := s.repo.FindByOwner(taskID, userID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return task, nil
}

// Update applies a partial update to a task, owner-scoped. CompletedAt is
// re-derived whenever status is among the changed fields.
func (s *TaskService) Update(_ context.Context, userID, taskID string, draft domain.Draft) (*domain.Task, error) {
	if draft.Empty() {
		return nil, apperr.Validation(map[string]string{
			"body": "At least one field must be provided",
		})
	}
	if fields := draft.ValidateUpdate(); len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	task, err := s.repo.FindByOwner(taskID, userID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	prevStatus := task.Status

	if draft.Title != nil {
		task.Title = *draft.Title
	}
	if draft.Description != nil {
		task.Description = *draft.Description
	}
	if draft.Priority != nil {
		task.Priority = *draft.Priority
	}
	if draft.Category != nil {
		task.Category = *draft.Category
	}
	if draft.DueDate != nil {
		task.DueDate = draft.DueDate
	}

	now := time.Now()
	if draft.Status != nil {
		task.Status = *draft.Status
		task.DeriveCompletion(now)
	}
	task.UpdatedAt = now

	if err := s.repo.Update(task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if prevStatus != domain.StatusCompleted && task.Status == domain.StatusCompleted {
		s.publishCompleted(task)
	}

	return task, nil
}

// Delete removes a task, owner-scoped.
func (s *TaskService) Delete(_ context.Context, userID, taskID string) error {
	if err := s.repo.DeleteByOwner(taskID, userID); err != nil {
		return notFoundOr(err)
	}

	s.publishDeleted(taskID, userID)
	return nil
}

// List returns the owner's tasks, newest first, with optional equality
// filters. Filter values are strings straight from the query and are
// enum-checked here.
func (s *TaskService) List(_ context.Context, userID string, status, priority, category string) ([]domain.Task, error) {
	filter, fields := parseFilter(status, priority, category)
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	tasks, err := s.repo.ListByOwner(userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Summary aggregates the owner's tasks for the dashboard.
func (s *TaskService) Summary(_ context.Context, userID string) (*SummaryPayload, error) {
	byStatus, err := s.repo.CountByStatus(userID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	byPriority, err := s.repo.CountByPriority(userID)
	if err != nil {
		return nil, fmt.Errorf("count by priority: %w", err)
	}
	overdue, err := s.repo.CountOverdue(userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("count overdue: %w", err)
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}

	return &SummaryPayload{
		Total:      total,
		ByStatus:   byStatus,
		ByPriority: byPriority,
		Overdue:    overdue,
	}, nil
}

func parseFilter(status, priority, category string) (ListFilter, map[string]string) {
	var filter ListFilter
	fields := map[string]string{}

	if status != "" {
		if s := domain.Status(status); s.Valid() {
			filter.Status = s
		} else {
			fields["status"] = "Status must be one of: pending, in_progress, completed"
		}
	}
	if priority != "" {
		if p := domain.Priority(priority); p.Valid() {
			filter.Priority = p
		} else {
			fields["priority"] = "Priority must be one of: low, medium, high, urgent"
		}
	}
	if category != "" {
		if c := domain.Category(category); c.Valid() {
			filter.Category = c
		} else {
			fields["category"] = "Category must be one of: work, personal, health, finance, learning, other"
		}
	}

	return filter, fields
}

func notFoundOr(err error) error {
	if errors.Is(err, ErrTaskNotFound) {
		return apperr.NotFound("Task not found")
	}
	return fmt.Errorf("task lookup: %w", err)
}

// Event publishing is best-effort: a bus failure is logged and never fails
// the operation that triggered it.

func (s *TaskService) publishCreated(task *domain.Task) {
	if s.bus == nil {
		return
	}
	event := events.TaskCreatedEvent{
		TaskID:    task.ID,
		Title:     task.Title,
		UserID:    task.UserID,
		CreatedAt: task.CreatedAt,
	}
	if err := events.TaskCreatedV1.Publish(s.bus, event, nil); err != nil {
		log.Printf("[task] failed to publish TaskCreated for %s: %v", task.ID, err)
	}
}

func (s *TaskService) publishCompleted(task *domain.Task) {
	if s.bus == nil || task.CompletedAt == nil {
		return
	}
	event := events.TaskCompletedEvent{
		TaskID:      task.ID,
		UserID:      task.UserID,
		CompletedAt: *task.CompletedAt,
	}
	if err := events.TaskCompletedV1.Publish(s.bus, event, nil); err != nil {
		log.Printf("[task] failed to publish TaskCompleted for %s: %v", task.ID, err)
	}
}

func (s *TaskService) publishDeleted(taskID, userID string) {
	if s.bus == nil {
		return
	}
	event := events.TaskDeletedEvent{
		TaskID:    taskID,
		UserID:    userID,
		DeletedAt: time.Now(),
	}
	if err := events.TaskDeletedV1.Publish(s.bus, event, nil); err != nil {
		log.Printf("[task] failed to publish TaskDeleted for %s: %v", taskID, err)
	}
}
