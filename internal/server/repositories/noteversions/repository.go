package noteversions

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

// Repository persists note history snapshots.
type Repository interface {
	Create(ctx context.Context, v *models.NoteVersion) error
	// ListByNote returns the snapshots of a note, newest first.
	ListByNote(ctx context.Context, noteID string) ([]*models.NoteVersion, error)
}
