package models

import "time"

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    int        `json:"priority"`
	Completed   bool       `json:"completed"`
	IsLocked    *bool      `json:"is_locked"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Locked treats a missing flag as unlocked.
func (t *Task) Locked() bool {
	return t.IsLocked != nil && *t.IsLocked
}

// NewTask is the body of a task creation.
type NewTask struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    int        `json:"priority,omitempty"`
	IsLocked    *bool      `json:"is_locked,omitempty"`
}

// ExportResult locates a finished export.
type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
