// Package notes implements the notes store on top of the repositories and
// the shared query engine.
package notes

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

// List returns the user's notes filtered, sorted and paginated by opts.
func (s *Service) List(ctx context.Context, userID string, opts query.Options) ([]*models.Note, error) {
	if err := query.Validate[*models.Note](opts); err != nil {
		return nil, err
	}
	if opts.Locked != nil && *opts.Locked {
		if err := s.gate(ctx); err != nil {
			return nil, err
		}
	}

	all, err := s.repomanager.Notes(s.repomanager.Conn()).ListByUser(ctx, userID)
	if err != nil {
		return nil, internal("listing notes", err)
	}
	return query.Apply(userID, all, opts)
}

// Create stores a new note. Title and content must be present but may be
// empty.
func (s *Service) Create(ctx context.Context, userID string, in models.NoteCreate) (*models.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	n := &models.Note{
		ID:        s.newID(),
		UserID:    userID,
		Title:     *in.Title,
		Content:   *in.Content,
		Tags:      in.Tags,
		Color:     in.Color,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repomanager.Notes(s.repomanager.Conn()).Create(ctx, n); err != nil {
		return nil, internal("creating note", err)
	}
	return n, nil
}

// Get returns a single note, including archived and deleted ones.
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Note, error) {
	n, err := s.repomanager.Notes(s.repomanager.Conn()).Get(ctx, userID, id)
	if err != nil {
		return nil, lookup(err)
	}
	if n.IsLocked {
		if err := s.gate(ctx); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Update applies a partial update. A patch that changes nothing returns the
// stored note untouched. When the title or content changes the previous text
// is kept as a version snapshot.
func (s *Service) Update(ctx context.Context, userID, id string, patch models.NotePatch) (*models.Note, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var result *models.Note
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Notes(tx)

		n, err := repo.GetForUpdate(ctx, userID, id)
		if err != nil {
			return lookup(err)
		}
		if n.IsLocked {
			if err := s.gate(ctx); err != nil {
				return err
			}
		}
		if patch.Version != nil && *patch.Version != n.Version {
			return fmt.Errorf("%w: note is at version %d", common.ErrVersionConflict, n.Version)
		}

		prev := *n
		snapshot := patch.TouchesText(n)
		if !patch.Apply(n) {
			result = n
			return nil
		}

		now := s.now()
		if snapshot {
			v := &models.NoteVersion{
				ID:        s.newID(),
				NoteID:    n.ID,
				Version:   prev.Version,
				Title:     prev.Title,
				Content:   prev.Content,
				CreatedAt: now,
			}
			if err := s.repomanager.NoteVersions(tx).Create(ctx, v); err != nil {
				return internal("saving note version", err)
			}
		}

		n.Version++
		n.UpdatedAt = now
		if err := repo.Update(ctx, n); err != nil {
			return lookup(err)
		}
		result = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Versions returns the text history of a note, newest first.
func (s *Service) Versions(ctx context.Context, userID, id string) ([]*models.NoteVersion, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	versions, err := s.repomanager.NoteVersions(s.repomanager.Conn()).ListByNote(ctx, id)
	if err != nil {
		return nil, internal("listing note versions", err)
	}
	return versions, nil
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
	return internal("loading note", err)
}

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrorInternal, op, err)
}
