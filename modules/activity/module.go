package activity

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// maxEntries bounds the in-memory log; older entries are dropped.
const maxEntries = 256

// Entry is one recorded task lifecycle event.
type Entry struct {
	TaskID    string    `json:"taskId"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityModule subscribes to task lifecycle events and keeps a bounded
// in-memory activity log. This is internal observability, not a persisted
// audit trail.
type ActivityModule struct {
	entries []Entry
	mu      sync.RWMutex
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)

// NewModule creates a new ActivityModule.
func NewModule() *ActivityModule {
	return &ActivityModule{
		entries: make([]Entry, 0),
	}
}

// Name returns the module name.
func (m *ActivityModule) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to the task lifecycle events.
func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleCreated, m); err != nil {
		return fmt.Errorf("register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.handleCompleted, m); err != nil {
		return fmt.Errorf("register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleDeleted, m); err != nil {
		return fmt.Errorf("register TaskDeleted consumer: %w", err)
	}

	log.Printf("[activity] Registered event consumers: TaskCreated, TaskCompleted, TaskDeleted")
	return nil
}

func (m *ActivityModule) handleCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.record(Entry{
		TaskID:    event.TaskID,
		UserID:    event.UserID,
		Kind:      "task_created",
		Detail:    fmt.Sprintf("Task %q created", event.Title),
		Timestamp: event.CreatedAt,
	})
	return nil
}

func (m *ActivityModule) handleCompleted(_ context.Context, event events.TaskCompletedEvent, _ *mono.Msg) error {
	m.record(Entry{
		TaskID:    event.TaskID,
		UserID:    event.UserID,
		Kind:      "task_completed",
		Detail:    "Task completed",
		Timestamp: event.CompletedAt,
	})
	return nil
}

func (m *ActivityModule) handleDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.record(Entry{
		TaskID:    event.TaskID,
		UserID:    event.UserID,
		Kind:      "task_deleted",
		Detail:    "Task deleted",
		Timestamp: event.DeletedAt,
	})
	return nil
}

func (m *ActivityModule) record(entry Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, entry)
	if len(m.entries) > maxEntries {
		m.entries = m.entries[len(m.entries)-maxEntries:]
	}
}

// Recent returns a copy of the recorded entries, oldest first.
func (m *ActivityModule) Recent() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

// Start begins listening for task events.
func (m *ActivityModule) Start(_ context.Context) error {
	log.Println("[activity] Module started - listening for task events")
	return nil
}

// Stop shuts down the module.
func (m *ActivityModule) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}
