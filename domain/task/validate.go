package task

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// Draft carries the writable fields of a task. Nil pointers mean "not
// provided": on create they fall back to defaults, on update they leave the
// stored value untouched.
type Draft struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// ValidateCreate checks a draft for task creation. Title, priority and
// category are required; status defaults to pending when absent; a due date
// must not be in the past. Returns a field error map, empty when valid.
func (d *Draft) ValidateCreate(now time.Time) map[string]string {
	errs := map[string]string{}

	if d.Title == nil || strings.TrimSpace(*d.Title) == "" {
		errs["title"] = "Title is required"
	} else {
		checkTitle(*d.Title, errs)
	}

	if d.Description != nil {
		checkDescription(*d.Description, errs)
	}

	if d.Status != nil && !d.Status.Valid() {
		errs["status"] = "Status must be one of: pending, in_progress, completed"
	}

	if d.Priority == nil {
		errs["priority"] = "Priority is required"
	} else if !d.Priority.Valid() {
		errs["priority"] = "Priority must be one of: low, medium, high, urgent"
	}

	if d.Category == nil {
		errs["category"] = "Category is required"
	} else if !d.Category.Valid() {
		errs["category"] = "Category must be one of: work, personal, health, finance, learning, other"
	}

	if d.DueDate != nil && d.DueDate.Before(startOfDay(now)) {
		errs["dueDate"] = "Due date cannot be in the past"
	}

	return errs
}

// ValidateUpdate checks a draft for a partial update. Provided fields are
// held to the same constraints as on create; absent fields are skipped. The
// due-date-not-in-past rule applies only on creation.
func (d *Draft) ValidateUpdate() map[string]string {
	errs := map[string]string{}

	if d.Title != nil {
		if strings.TrimSpace(*d.Title) == "" {
			errs["title"] = "Title is required"
		} else {
			checkTitle(*d.Title, errs)
		}
	}

	if d.Description != nil {
		checkDescription(*d.Description, errs)
	}

	if d.Status != nil && !d.Status.Valid() {
		errs["status"] = "Status must be one of: pending, in_progress, completed"
	}

	if d.Priority != nil && !d.Priority.Valid() {
		errs["priority"] = "Priority must be one of: low, medium, high, urgent"
	}

	if d.Category != nil && !d.Category.Valid() {
		errs["category"] = "Category must be one of: work, personal, health, finance, learning, other"
	}

	return errs
}

// Empty reports whether the draft provides no fields at all.
func (d *Draft) Empty() bool {
	return d.Title == nil && d.Description == nil && d.Status == nil &&
		d.Priority == nil && d.Category == nil && d.DueDate == nil
}

func checkTitle(title string, errs map[string]string) {
	if utf8.RuneCountInString(title) > MaxTitleLen {
		errs["title"] = "Title must be at most 200 characters"
	}
}

func checkDescription(desc string, errs map[string]string) {
	if utf8.RuneCountInString(desc) > MaxDescriptionLen {
		errs["description"] = "Description must be at most 1000 characters"
	}
}

// startOfDay truncates t to midnight in its location, so a due date later
// today still counts as valid.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
