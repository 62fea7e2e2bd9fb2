package task

import (
	"errors"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"gorm.io/gorm"
)

// ErrTaskNotFound is returned when a task does not exist or belongs to
// another user. The two cases are deliberately indistinguishable: every
// query below predicates on both id and user_id, so a foreign row is never
// observed at all.
var ErrTaskNotFound = errors.New("task not found")

// ListFilter narrows a list query. Empty fields are omitted from the
// predicate, not wildcarded.
type ListFilter struct {
	Status   domain.Status
	Priority domain.Priority
	Category domain.Category
}

// TaskRepository handles task persistence using GORM. All lookups are
// owner-scoped.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

// Create inserts a new task.
func (r *TaskRepository) Create(task *domain.Task) error {
	return r.db.Create(task).Error
}

// FindByOwner finds a task by id scoped to its owner.
func (r *TaskRepository) FindByOwner(id, userID string) (*domain.Task, error) {
	var task domain.Task
	result := r.db.First(&task, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// Update persists changes to an existing task.
func (r *TaskRepository) Update(task *domain.Task) error {
	return r.db.Save(task).Error
}

// DeleteByOwner deletes a task by id scoped to its owner.
func (r *TaskRepository) DeleteByOwner(id, userID string) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ListByOwner returns the owner's tasks, optionally filtered, newest first.
func (r *TaskRepository) ListByOwner(userID string, filter ListFilter) ([]domain.Task, error) {
	query := r.db.Where("user_id = ?", userID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var tasks []domain.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

type groupCount struct {
	Key string `gorm:"column:key"`
	N   int64  `gorm:"column:n"`
}

// CountByStatus returns the owner's task counts grouped by status.
func (r *TaskRepository) CountByStatus(userID string) (map[string]int64, error) {
	return r.countBy(userID, "status")
}

// CountByPriority returns the owner's task counts grouped by priority.
func (r *TaskRepository) CountByPriority(userID string) (map[string]int64, error) {
	return r.countBy(userID, "priority")
}

func (r *TaskRepository) countBy(userID, column string) (map[string]int64, error) {
	var rows []groupCount
	err := r.db.Model(&domain.Task{}).
		Select(column+" AS key, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.N
	}
	return counts, nil
}

// CountOverdue returns how many of the owner's open tasks are past due.
func (r *TaskRepository) CountOverdue(userID string, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Task{}).
		Where("user_id = ? AND due_date IS NOT NULL AND due_date < ? AND status <> ?",
			userID, now, domain.StatusCompleted).
		Count(&count).Error
	return count, err
}
