package state

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/client/models"
	"github.com/dmitrijs2005/smartnotes/internal/common"
)

// RefreshTasks re-fetches the task listings, see RefreshNotes.
func (s *Session) RefreshTasks(ctx context.Context) error {
	tasks, err := s.api.ListTasks(ctx, s.TaskFilters.Query(false))
	if err != nil {
		return s.handle(ctx, err)
	}
	s.Tasks = tasks

	if !s.unlocked {
		s.LockedTasks = nil
		return nil
	}
	locked, err := s.api.ListTasks(ctx, s.TaskFilters.Query(true))
	if err != nil {
		return s.handle(ctx, err)
	}
	s.LockedTasks = locked
	return nil
}

func (s *Session) ShowTask(ctx context.Context, id string) (*models.Task, error) {
	t, err := s.api.GetTask(ctx, id)
	if err != nil {
		return nil, s.handle(ctx, err)
	}
	if t.Locked() && !s.unlocked {
		return nil, common.ErrPinRequired
	}
	s.OpenTask = t
	return t, nil
}

func (s *Session) CreateTask(ctx context.Context, in models.NewTask) (*models.Task, error) {
	t, err := s.api.CreateTask(ctx, in)
	if err != nil {
		return nil, s.handle(ctx, err)
	}
	return t, s.RefreshTasks(ctx)
}

func (s *Session) UpdateTask(ctx context.Context, id string, p models.Patch) (*models.Task, error) {
	t, err := s.api.UpdateTask(ctx, id, p)
	if err != nil {
		return nil, s.handle(ctx, err)
	}
	s.mergeTask(t)
	return t, s.RefreshTasks(ctx)
}

func (s *Session) CompleteTask(ctx context.Context, id string, completed bool) (*models.Task, error) {
	t, err := s.api.CompleteTask(ctx, id, completed)
	if err != nil {
		return nil, s.handle(ctx, err)
	}
	s.mergeTask(t)
	return t, s.RefreshTasks(ctx)
}

func (s *Session) DeleteTask(ctx context.Context, id string) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return s.handle(ctx, err)
	}
	if s.OpenTask != nil && s.OpenTask.ID == id {
		s.OpenTask = nil
	}
	return s.RefreshTasks(ctx)
}

func (s *Session) mergeTask(t *models.Task) {
	if s.OpenTask == nil || s.OpenTask.ID != t.ID {
		return
	}
	if t.Locked() && !s.unlocked {
		s.OpenTask = nil
		return
	}
	confirmed := *t
	s.OpenTask = &confirmed
}
