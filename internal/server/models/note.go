package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
)

// Color is the card color of a note.
type Color string

const (
	ColorDefault Color = "default"
	ColorRed     Color = "red"
	ColorOrange  Color = "orange"
	ColorYellow  Color = "yellow"
	ColorGreen   Color = "green"
	ColorBlue    Color = "blue"
	ColorPurple  Color = "purple"
	ColorGray    Color = "gray"
)

// Valid reports whether c is one of the known colors.
func (c Color) Valid() bool {
	switch c {
	case ColorDefault, ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple, ColorGray:
		return true
	}
	return false
}

// Note is a short text note owned by exactly one user.
type Note struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	Color      Color     `json:"color"`
	IsFavorite bool      `json:"is_favorite"`
	IsLocked   bool      `json:"is_locked"`
	IsArchived bool      `json:"is_archived"`
	IsDeleted  bool      `json:"is_deleted"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Accessors used by the query engine.

func (n *Note) RecordID() string     { return n.ID }
func (n *Note) OwnerID() string      { return n.UserID }
func (n *Note) Locked() bool         { return n.IsLocked }
func (n *Note) Deleted() bool        { return n.IsDeleted }
func (n *Note) Archived() bool       { return n.IsArchived }
func (n *Note) Favorite() bool       { return n.IsFavorite }
func (n *Note) SortTitle() string    { return n.Title }
func (n *Note) Created() time.Time   { return n.CreatedAt }
func (n *Note) TagList() []string    { return n.Tags }
func (n *Note) SearchText() []string { return []string{n.Title, n.Content} }

// NoteCreate is the payload of a note creation. Title and Content are
// pointers because they may be empty but must be present.
type NoteCreate struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
	Color   Color    `json:"color,omitempty"`
}

// Validate checks required fields and normalizes tags and color in place.
func (c *NoteCreate) Validate() error {
	if c.Title == nil {
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if c.Content == nil {
		return fmt.Errorf("%w: content is required", common.ErrorValidation)
	}
	if c.Color == "" {
		c.Color = ColorDefault
	}
	if !c.Color.Valid() {
		return fmt.Errorf("%w: unknown color %q", common.ErrorValidation, c.Color)
	}
	c.Tags = NormalizeTags(c.Tags)
	return nil
}

// NotePatch is a partial update of a note: nil fields are left unchanged.
// Version, when set, must match the stored version.
type NotePatch struct {
	Title      *string   `json:"title,omitempty"`
	Content    *string   `json:"content,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Color      *Color    `json:"color,omitempty"`
	IsFavorite *bool     `json:"is_favorite,omitempty"`
	IsLocked   *bool     `json:"is_locked,omitempty"`
	IsArchived *bool     `json:"is_archived,omitempty"`
	IsDeleted  *bool     `json:"is_deleted,omitempty"`
	Version    *int64    `json:"version,omitempty"`
}

// Validate rejects values that can never be stored.
func (p *NotePatch) Validate() error {
	if p.Color != nil && !p.Color.Valid() {
		return fmt.Errorf("%w: unknown color %q", common.ErrorValidation, *p.Color)
	}
	if p.Tags != nil {
		tags := NormalizeTags(*p.Tags)
		p.Tags = &tags
	}
	return nil
}

// Apply writes the supplied fields onto n and reports whether anything
// changed. Timestamps and version are the caller's responsibility.
func (p *NotePatch) Apply(n *Note) bool {
	changed := false
	if p.Title != nil && *p.Title != n.Title {
		n.Title, changed = *p.Title, true
	}
	if p.Content != nil && *p.Content != n.Content {
		n.Content, changed = *p.Content, true
	}
	if p.Tags != nil && !equalStrings(*p.Tags, n.Tags) {
		n.Tags, changed = append([]string{}, *p.Tags...), true
	}
	if p.Color != nil && *p.Color != n.Color {
		n.Color, changed = *p.Color, true
	}
	if p.IsFavorite != nil && *p.IsFavorite != n.IsFavorite {
		n.IsFavorite, changed = *p.IsFavorite, true
	}
	if p.IsLocked != nil && *p.IsLocked != n.IsLocked {
		n.IsLocked, changed = *p.IsLocked, true
	}
	if p.IsArchived != nil && *p.IsArchived != n.IsArchived {
		n.IsArchived, changed = *p.IsArchived, true
	}
	if p.IsDeleted != nil && *p.IsDeleted != n.IsDeleted {
		n.IsDeleted, changed = *p.IsDeleted, true
	}
	return changed
}

// TouchesText reports whether the patch changes title or content of n,
// which is when a version snapshot is kept.
func (p *NotePatch) TouchesText(n *Note) bool {
	return (p.Title != nil && *p.Title != n.Title) || (p.Content != nil && *p.Content != n.Content)
}

// NoteVersion is a snapshot of a note's text taken before an update.
type NoteVersion struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"note_id"`
	Version   int64     `json:"version"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeTags trims tags, drops empty ones and removes case-insensitive
// duplicates, keeping the first spelling. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
