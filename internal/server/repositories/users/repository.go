package users

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

// Repository persists user accounts.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// SetPinHash stores hash, or clears the PIN when hash is empty.
	SetPinHash(ctx context.Context, id, hash string) error
}
