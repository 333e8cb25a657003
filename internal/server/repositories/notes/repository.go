package notes

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

// Repository persists notes. Every lookup is scoped by owner; a note owned by
// someone else is reported as common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, note *models.Note) error
	ListByUser(ctx context.Context, userID string) ([]*models.Note, error)
	Get(ctx context.Context, userID, id string) (*models.Note, error)
	// GetForUpdate is Get with a row lock; call it inside a transaction.
	GetForUpdate(ctx context.Context, userID, id string) (*models.Note, error)
	Update(ctx context.Context, note *models.Note) error
}
