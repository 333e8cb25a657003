// Package models defines the records the CLI exchanges with the SmartNotes
// API and keeps in its local session store.
package models

import "time"

type Note struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	Color      string    `json:"color"`
	IsFavorite bool      `json:"is_favorite"`
	IsLocked   bool      `json:"is_locked"`
	IsArchived bool      `json:"is_archived"`
	IsDeleted  bool      `json:"is_deleted"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewNote is the body of a note creation.
type NewNote struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Color   string   `json:"color,omitempty"`
}

type NoteVersion struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"note_id"`
	Version   int64     `json:"version"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Patch is a partial update body. Only the keys present are sent, and a nil
// value clears a nullable field.
type Patch map[string]any
