// Package state keeps the CLI's view of the user's notes and tasks
// consistent with the server.
//
// Every mutation is followed by a re-fetch of the current listing, and the
// confirmed row returned by the server replaces the open item. The locked
// partition is only reachable after a successful PIN verification in the
// current session; logging out drops that.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/smartnotes/internal/client/api"
	"github.com/dmitrijs2005/smartnotes/internal/client/models"
	"github.com/dmitrijs2005/smartnotes/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/smartnotes/internal/common"
)

// Keys in the local session store.
const (
	keyToken       = "token"
	keyEmail       = "email"
	keyNoteFilters = "note_filters"
	keyTaskFilters = "task_filters"
)

// API is the part of the HTTP client the session drives.
type API interface {
	SetToken(token string)
	SetUnlockToken(token string)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyPin(ctx context.Context, pin string) (*api.UnlockGrant, error)

	ListNotes(ctx context.Context, q url.Values) ([]models.Note, error)
	CreateNote(ctx context.Context, n models.NewNote) (*models.Note, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)
	UpdateNote(ctx context.Context, id string, p models.Patch) (*models.Note, error)

	ListTasks(ctx context.Context, q url.Values) ([]models.Task, error)
	CreateTask(ctx context.Context, t models.NewTask) (*models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, p models.Patch) (*models.Task, error)
	CompleteTask(ctx context.Context, id string, completed bool) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type Session struct {
	api   API
	store metadata.Repository

	email    string
	loggedIn bool
	unlocked bool

	NoteFilters models.Filters
	TaskFilters models.Filters

	Notes       []models.Note
	Tasks       []models.Task
	LockedNotes []models.Note
	LockedTasks []models.Task

	OpenNote *models.Note
	OpenTask *models.Task
}

func NewSession(a API, store metadata.Repository) *Session {
	return &Session{api: a, store: store}
}

func (s *Session) Email() string { return s.email }
func (s *Session) LoggedIn() bool { return s.loggedIn }
func (s *Session) Unlocked() bool { return s.unlocked }

// Restore loads a saved token, email and filters. It reports whether a
// session was found.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	token, err := s.store.Get(ctx, keyToken)
	if err != nil {
		return false, err
	}
	email, err := s.store.Get(ctx, keyEmail)
	if err != nil {
		return false, err
	}
	if err := s.loadFilters(ctx, keyNoteFilters, &s.NoteFilters); err != nil {
		return false, err
	}
	if err := s.loadFilters(ctx, keyTaskFilters, &s.TaskFilters); err != nil {
		return false, err
	}
	if len(token) == 0 {
		return false, nil
	}

	s.api.SetToken(string(token))
	s.email = string(email)
	s.loggedIn = true
	return true, nil
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, keyToken, []byte(token)); err != nil {
		return err
	}
	if err := s.store.Set(ctx, keyEmail, []byte(email)); err != nil {
		return err
	}
	s.email = email
	s.loggedIn = true
	s.lock()
	return nil
}

// Logout forgets the token and everything fetched with it. Saved filters
// are kept.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, keyToken); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, keyEmail); err != nil {
		return err
	}
	s.api.SetToken("")
	s.lock()
	s.email = ""
	s.loggedIn = false
	s.Notes, s.Tasks = nil, nil
	s.OpenNote, s.OpenTask = nil, nil
	return nil
}

// Unlock verifies the PIN and opens the locked partition for this session.
func (s *Session) Unlock(ctx context.Context, pin string) error {
	if _, err := s.api.VerifyPin(ctx, pin); err != nil {
		return err
	}
	s.unlocked = true
	return nil
}

// Lock closes the locked partition again.
func (s *Session) Lock() {
	s.lock()
}

func (s *Session) lock() {
	s.unlocked = false
	s.api.SetUnlockToken("")
	s.LockedNotes, s.LockedTasks = nil, nil
	if s.OpenNote != nil && s.OpenNote.IsLocked {
		s.OpenNote = nil
	}
	if s.OpenTask != nil && s.OpenTask.Locked() {
		s.OpenTask = nil
	}
}

// handle drops a session the server no longer accepts, and the unlocked
// state once the grant is refused.
func (s *Session) handle(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrPinRequired) {
		s.lock()
	}
	if errors.Is(err, common.ErrorUnauthorized) && s.loggedIn {
		if lerr := s.Logout(ctx); lerr != nil {
			return errors.Join(err, lerr)
		}
	}
	return err
}

func (s *Session) SetNoteFilters(ctx context.Context, f models.Filters) error {
	s.NoteFilters = f
	return s.saveFilters(ctx, keyNoteFilters, f)
}

func (s *Session) SetTaskFilters(ctx context.Context, f models.Filters) error {
	s.TaskFilters = f
	return s.saveFilters(ctx, keyTaskFilters, f)
}

func (s *Session) saveFilters(ctx context.Context, key string, f models.Filters) error {
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding filters: %w", err)
	}
	return s.store.Set(ctx, key, b)
}

func (s *Session) loadFilters(ctx context.Context, key string, f *models.Filters) error {
	b, err := s.store.Get(ctx, key)
	if err != nil || len(b) == 0 {
		return err
	}
	if err := json.Unmarshal(b, f); err != nil {
		*f = models.Filters{}
	}
	return nil
}
