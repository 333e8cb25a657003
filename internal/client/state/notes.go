package state

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/client/models"
	"github.com/dmitrijs2005/smartnotes/internal/common"
)

// RefreshNotes re-fetches the unlocked listing with the current filters,
// and the locked one when the session is unlocked.
func (s *Session) RefreshNotes(ctx context.Context) error {
	notes, err := s.api.ListNotes(ctx, s.NoteFilters.Query(false))
	if err != nil {
		return s.handle(ctx, err)
	}
	s.Notes = notes

	if !s.unlocked {
		s.LockedNotes = nil
		return nil
	}
	locked, err := s.api.ListNotes(ctx, s.NoteFilters.Query(true))
	if err != nil {
		return s.handle(ctx, err)
	}
	s.LockedNotes = locked
	return nil
}

// ShowNote fetches a note and makes it the open item. Locked notes need an
// unlocked session.
func (s *Session) ShowNote(ctx context.Context, id string) (*models.Note, error) {
	n, err := s.api.GetNote(ctx, id)
	if err != nil {
		return nil, s.handle(ctx, err)
	}
	if n.IsLocked && !s.unlocked {
		return nil, common.ErrPinRequired
	}
	s.OpenNote = n
	return n, nil
}

func (s *Session) CreateNote(ctx context.Context, in models.NewNote) (*models.Note, error) {
	n, err := s.api.CreateNote(ctx, in)
	if err != nil {
		return nil, s.handle(ctx, err)
	}
	return n, s.RefreshNotes(ctx)
}

// UpdateNote sends a partial update, merges the confirmed row into the
// open note and re-fetches the listing.
func (s *Session) UpdateNote(ctx context.Context, id string, p models.Patch) (*models.Note, error) {
	n, err := s.api.UpdateNote(ctx, id, p)
	if err != nil {
		return nil, s.handle(ctx, err)
	}
	s.mergeNote(n)
	return n, s.RefreshNotes(ctx)
}

func (s *Session) mergeNote(n *models.Note) {
	if s.OpenNote == nil || s.OpenNote.ID != n.ID {
		return
	}
	if n.IsDeleted || (n.IsLocked && !s.unlocked) {
		s.OpenNote = nil
		return
	}
	confirmed := *n
	s.OpenNote = &confirmed
}
