package state

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/smartnotes/internal/client/api"
	"github.com/dmitrijs2005/smartnotes/internal/client/models"
	"github.com/dmitrijs2005/smartnotes/internal/common"
)

type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(_ context.Context, k string) ([]byte, error) { return m.data[k], nil }
func (m *memStore) Set(_ context.Context, k string, v []byte) error {
	m.data[k] = append([]byte(nil), v...)
	return nil
}
func (m *memStore) Delete(_ context.Context, k string) error { delete(m.data, k); return nil }
func (m *memStore) Clear(context.Context) error { m.data = map[string][]byte{}; return nil }
func (m *memStore) List(context.Context) (map[string][]byte, error) {
	return m.data, nil
}

// fakeAPI keeps rows in memory and records calls.
type fakeAPI struct {
	token       string
	unlockToken string
	pin         string
	rejectToken bool

	notes map[string]*models.Note
	tasks map[string]*models.Task
	seq   int

	listNoteCalls []url.Values
	listTaskCalls int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{pin: "1234", notes: map[string]*models.Note{}, tasks: map[string]*models.Task{}}
}

func (f *fakeAPI) nextID(prefix string) string {
	f.seq++
	return prefix + strconv.Itoa(f.seq)
}

func (f *fakeAPI) SetToken(t string)       { f.token = t }
func (f *fakeAPI) SetUnlockToken(t string) { f.unlockToken = t }

func (f *fakeAPI) Login(_ context.Context, email, password string) (string, error) {
	if password != "pw123456" {
		return "", common.ErrInvalidCredentials
	}
	f.token = "tok-" + email
	return f.token, nil
}

func (f *fakeAPI) VerifyPin(_ context.Context, pin string) (*api.UnlockGrant, error) {
	if pin != f.pin {
		return nil, common.ErrInvalidPin
	}
	f.unlockToken = "grant"
	return &api.UnlockGrant{OK: true, UnlockToken: "grant"}, nil
}

func (f *fakeAPI) auth() error {
	if f.rejectToken || f.token == "" {
		return common.ErrorUnauthorized
	}
	return nil
}

func (f *fakeAPI) ListNotes(_ context.Context, q url.Values) ([]models.Note, error) {
	if err := f.auth(); err != nil {
		return nil, err
	}
	f.listNoteCalls = append(f.listNoteCalls, q)
	locked := q.Get("locked") == "true"
	if locked && f.unlockToken == "" {
		return nil, common.ErrPinRequired
	}
	var out []models.Note
	for _, n := range f.notes {
		if n.IsDeleted || n.IsLocked != locked {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (f *fakeAPI) CreateNote(_ context.Context, in models.NewNote) (*models.Note, error) {
	if err := f.auth(); err != nil {
		return nil, err
	}
	n := &models.Note{ID: f.nextID("n"), Title: in.Title, Content: in.Content, Color: "default", Version: 1}
	f.notes[n.ID] = n
	c := *n
	return &c, nil
}

func (f *fakeAPI) GetNote(_ context.Context, id string) (*models.Note, error) {
	n, ok := f.notes[id]
	if !ok || n.IsDeleted {
		return nil, common.ErrorNotFound
	}
	c := *n
	return &c, nil
}

func (f *fakeAPI) UpdateNote(_ context.Context, id string, p models.Patch) (*models.Note, error) {
	n, ok := f.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	for k, v := range p {
		switch k {
		case "title":
			n.Title = v.(string)
		case "content":
			n.Content = v.(string)
		case "is_favorite":
			n.IsFavorite = v.(bool)
		case "is_locked":
			n.IsLocked = v.(bool)
		case "is_deleted":
			n.IsDeleted = v.(bool)
		}
	}
	n.Version++
	c := *n
	return &c, nil
}

func (f *fakeAPI) ListTasks(_ context.Context, q url.Values) ([]models.Task, error) {
	if err := f.auth(); err != nil {
		return nil, err
	}
	f.listTaskCalls++
	locked := q.Get("locked") == "true"
	var out []models.Task
	for _, t := range f.tasks {
		if t.Locked() == locked {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateTask(_ context.Context, in models.NewTask) (*models.Task, error) {
	t := &models.Task{ID: f.nextID("t"), Title: in.Title, Priority: 2, IsLocked: in.IsLocked, Version: 1}
	f.tasks[t.ID] = t
	c := *t
	return &c, nil
}

func (f *fakeAPI) GetTask(_ context.Context, id string) (*models.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (f *fakeAPI) UpdateTask(_ context.Context, id string, p models.Patch) (*models.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if v, ok := p["title"]; ok {
		t.Title = v.(string)
	}
	if _, ok := p["description"]; ok {
		t.Description = nil
	}
	t.Version++
	c := *t
	return &c, nil
}

func (f *fakeAPI) CompleteTask(_ context.Context, id string, completed bool) (*models.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	t.Completed = completed
	t.Version++
	c := *t
	return &c, nil
}

func (f *fakeAPI) DeleteTask(_ context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.tasks, id)
	return nil
}
