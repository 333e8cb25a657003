// Package tasks implements the tasks store on top of the repositories and
// the shared query engine.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/auth"
	"github.com/dmitrijs2005/smartnotes/internal/server/config"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/query"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/repomanager"
)

type Service struct {
	repomanager  repomanager.RepositoryManager
	requireGrant bool
	now          func() time.Time
	newID        func() string
}

func NewService(m repomanager.RepositoryManager, cfg *config.Config) *Service {
	return &Service{
		repomanager:  m,
		requireGrant: cfg.RequireUnlockGrant,
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:        uuid.NewString,
	}
}

// List returns the user's live tasks filtered, sorted and paginated by opts.
func (s *Service) List(ctx context.Context, userID string, opts query.Options) ([]*models.Task, error) {
	if err := query.Validate[*models.Task](opts); err != nil {
		return nil, err
	}
	if opts.Locked != nil && *opts.Locked {
		if err := s.gate(ctx); err != nil {
			return nil, err
		}
	}
	// Soft-deleted tasks are never listed.
	opts.IncludeDeleted = false

	all, err := s.repomanager.Tasks(s.repomanager.Conn()).ListByUser(ctx, userID)
	if err != nil {
		return nil, internal("listing tasks", err)
	}
	return query.Apply(userID, all, opts)
}

func (s *Service) Create(ctx context.Context, userID string, in models.TaskCreate) (*models.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	t := &models.Task{
		ID:          s.newID(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    models.PriorityMedium,
		IsLocked:    in.IsLocked,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if err := s.repomanager.Tasks(s.repomanager.Conn()).Create(ctx, t); err != nil {
		return nil, internal("creating task", err)
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	t, err := s.repomanager.Tasks(s.repomanager.Conn()).Get(ctx, userID, id)
	if err != nil {
		return nil, lookup(err)
	}
	if t.Locked() {
		if err := s.gate(ctx); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Update applies a partial update. Description and due date are cleared by
// an explicit null in the patch.
func (s *Service) Update(ctx context.Context, userID, id string, patch models.TaskPatch) (*models.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, id, patch.Version, func(t *models.Task) bool {
		return patch.Apply(t)
	})
}

// ToggleComplete sets the completion state explicitly.
func (s *Service) ToggleComplete(ctx context.Context, userID, id string, completed bool) (*models.Task, error) {
	return s.Update(ctx, userID, id, models.TaskPatch{Completed: &completed})
}

// Delete soft-deletes a task. It is invisible to every read afterwards.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	_, err := s.mutate(ctx, userID, id, nil, func(t *models.Task) bool {
		t.IsDeleted = true
		return true
	})
	return err
}

func (s *Service) mutate(ctx context.Context, userID, id string, version *int64, apply func(*models.Task) bool) (*models.Task, error) {
	var result *models.Task
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		t, err := repo.GetForUpdate(ctx, userID, id)
		if err != nil {
			return lookup(err)
		}
		if t.Locked() {
			if err := s.gate(ctx); err != nil {
				return err
			}
		}
		if version != nil && *version != t.Version {
			return fmt.Errorf("%w: task is at version %d", common.ErrVersionConflict, t.Version)
		}

		if !apply(t) {
			result = t
			return nil
		}

		t.Version++
		t.UpdatedAt = s.now()
		if err := repo.Update(ctx, t); err != nil {
			return lookup(err)
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) gate(ctx context.Context) error {
	if s.requireGrant && !auth.IsUnlocked(ctx) {
		return common.ErrPinRequired
	}
	return nil
}

func lookup(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return internal("loading task", err)
}

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrorInternal, op, err)
}
