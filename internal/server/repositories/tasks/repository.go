package tasks

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

// Repository persists tasks. Soft-deleted tasks are invisible to every read.
type Repository interface {
	Create(ctx context.Context, task *models.Task) error
	ListByUser(ctx context.Context, userID string) ([]*models.Task, error)
	Get(ctx context.Context, userID, id string) (*models.Task, error)
	GetForUpdate(ctx context.Context, userID, id string) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
}
