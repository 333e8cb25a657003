package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
)

// Priority of a task: 1 low, 2 medium, 3 high.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// Task is a discrete to-do item owned by exactly one user. IsLocked is
// optional in storage and nil reads as unlocked.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"-"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	IsLocked    *bool      `json:"is_locked"`
	IsDeleted   bool       `json:"-"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) RecordID() string   { return t.ID }
func (t *Task) OwnerID() string    { return t.UserID }
func (t *Task) Locked() bool       { return t.IsLocked != nil && *t.IsLocked }
func (t *Task) Deleted() bool      { return t.IsDeleted }
func (t *Task) Archived() bool     { return false }
func (t *Task) Favorite() bool     { return false }
func (t *Task) SortTitle() string  { return t.Title }
func (t *Task) Created() time.Time { return t.CreatedAt }
func (t *Task) TagList() []string  { return nil }
func (t *Task) IsCompleted() bool  { return t.Completed }
func (t *Task) PriorityRank() int  { return int(t.Priority) }
func (t *Task) DueAt() *time.Time  { return t.DueDate }

func (t *Task) SearchText() []string {
	if t.Description == nil {
		return []string{t.Title}
	}
	return []string{t.Title, *t.Description}
}

// TaskCreate is the payload of a task creation.
type TaskCreate struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	IsLocked    *bool      `json:"is_locked,omitempty"`
}

// Validate checks the payload and converts the due date to UTC.
func (c *TaskCreate) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if c.Priority != nil && !c.Priority.Valid() {
		return fmt.Errorf("%w: priority must be 1, 2 or 3", common.ErrorValidation)
	}
	if c.DueDate != nil {
		utc := c.DueDate.UTC()
		c.DueDate = &utc
	}
	return nil
}

// TaskPatch is a partial update of a task. Description and DueDate can be
// cleared with an explicit null.
type TaskPatch struct {
	Title       *string             `json:"title,omitempty"`
	Description Nullable[string]    `json:"description,omitzero"`
	DueDate     Nullable[time.Time] `json:"due_date,omitzero"`
	Priority    *Priority           `json:"priority,omitempty"`
	Completed   *bool               `json:"completed,omitempty"`
	IsLocked    *bool               `json:"is_locked,omitempty"`
	Version     *int64              `json:"version,omitempty"`
}

func (p *TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title must not be blank", common.ErrorValidation)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: priority must be 1, 2 or 3", common.ErrorValidation)
	}
	if p.DueDate.Valid {
		p.DueDate.Value = p.DueDate.Value.UTC()
	}
	return nil
}

// Apply writes the supplied fields onto t and reports whether anything
// changed.
func (p *TaskPatch) Apply(t *Task) bool {
	changed := false
	if p.Title != nil && *p.Title != t.Title {
		t.Title, changed = *p.Title, true
	}
	if p.Description.Set && !equalPtr(p.Description.Ptr(), t.Description) {
		t.Description, changed = p.Description.Ptr(), true
	}
	if p.DueDate.Set && !equalTimePtr(p.DueDate.Ptr(), t.DueDate) {
		t.DueDate, changed = p.DueDate.Ptr(), true
	}
	if p.Priority != nil && *p.Priority != t.Priority {
		t.Priority, changed = *p.Priority, true
	}
	if p.Completed != nil && *p.Completed != t.Completed {
		t.Completed, changed = *p.Completed, true
	}
	if p.IsLocked != nil && (t.IsLocked == nil || *t.IsLocked != *p.IsLocked) {
		v := *p.IsLocked
		t.IsLocked, changed = &v, true
	}
	return changed
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
