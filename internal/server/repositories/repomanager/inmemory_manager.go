package repomanager

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"slices"
	"sync"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/noteversions"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps everything in process memory. Data is lost
// on restart. Transactions are serialized; each one journals the rows it
// writes and a failed transaction restores only those rows, so writes made
// outside it survive.
type InMemoryRepositoryManager struct {
	txMu  sync.Mutex
	store *memStore
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{store: newMemStore()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *InMemoryRepositoryManager) Ping(context.Context) error          { return nil }
func (m *InMemoryRepositoryManager) Close() error                        { return nil }
func (m *InMemoryRepositoryManager) Conn() dbx.DBTX                      { return nil }

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn TxFunc) (err error) {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	tx := &memTx{}
	defer func() {
		if p := recover(); p != nil {
			tx.rollback(m.store)
			panic(p)
		}
		if err != nil {
			tx.rollback(m.store)
		}
	}()

	return fn(ctx, tx)
}

func (m *InMemoryRepositoryManager) Users(h dbx.DBTX) users.Repository {
	return memUsers{m.store, journalOf(h)}
}

func (m *InMemoryRepositoryManager) Notes(h dbx.DBTX) notes.Repository {
	return memNotes{m.store, journalOf(h)}
}

func (m *InMemoryRepositoryManager) Tasks(h dbx.DBTX) tasks.Repository {
	return memTasks{m.store, journalOf(h)}
}

func (m *InMemoryRepositoryManager) NoteVersions(h dbx.DBTX) noteversions.Repository {
	return memVersions{m.store, journalOf(h)}
}

var errNoSQL = errors.New("in-memory transaction has no SQL connection")

// memTx is the handle WithTx passes to its callback. It carries the undo
// journal; the SQL methods exist only to satisfy dbx.DBTX.
type memTx struct {
	undo []func(*memData)
}

func (*memTx) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errNoSQL
}

func (*memTx) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errNoSQL
}

func (*memTx) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

func journalOf(h dbx.DBTX) *memTx {
	tx, _ := h.(*memTx)
	return tx
}

// The record helpers run under memStore.mu, before the write they undo.

func (tx *memTx) recordUser(d *memData, id string) {
	if tx == nil {
		return
	}
	prev, existed := d.users[id]
	tx.undo = append(tx.undo, func(d *memData) {
		if existed {
			d.users[id] = prev
		} else {
			delete(d.users, id)
		}
	})
}

func (tx *memTx) recordNote(d *memData, id string) {
	if tx == nil {
		return
	}
	prev, existed := d.notes[id]
	tx.undo = append(tx.undo, func(d *memData) {
		if existed {
			d.notes[id] = prev
		} else {
			delete(d.notes, id)
		}
	})
}

func (tx *memTx) recordTask(d *memData, id string) {
	if tx == nil {
		return
	}
	prev, existed := d.tasks[id]
	tx.undo = append(tx.undo, func(d *memData) {
		if existed {
			d.tasks[id] = prev
		} else {
			delete(d.tasks, id)
		}
	})
}

// recordVersion undoes one appended version. History rows are only ever
// appended, so removing the matching entry leaves concurrent appends alone.
func (tx *memTx) recordVersion(noteID string, version int64) {
	if tx == nil {
		return
	}
	tx.undo = append(tx.undo, func(d *memData) {
		d.versions[noteID] = slices.DeleteFunc(d.versions[noteID], func(v models.NoteVersion) bool {
			return v.Version == version
		})
		if len(d.versions[noteID]) == 0 {
			delete(d.versions, noteID)
		}
	})
}

func (tx *memTx) rollback(s *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i](&s.memData)
	}
	tx.undo = nil
}

type memData struct {
	users    map[string]models.User
	notes    map[string]models.Note
	versions map[string][]models.NoteVersion
	tasks    map[string]models.Task
}

type memStore struct {
	mu sync.RWMutex
	memData
}

func newMemStore() *memStore {
	return &memStore{memData: memData{
		users:    map[string]models.User{},
		notes:    map[string]models.Note{},
		versions: map[string][]models.NoteVersion{},
		tasks:    map[string]models.Task{},
	}}
}

type memUsers struct {
	s  *memStore
	tx *memTx
}

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrConflict
		}
	}
	r.tx.recordUser(&r.s.memData, u.ID)
	r.s.users[u.ID] = *u
	return u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r memUsers) SetPinHash(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PinHash = hash
	r.tx.recordUser(&r.s.memData, id)
	r.s.users[id] = u
	return nil
}

type memNotes struct {
	s  *memStore
	tx *memTx
}

func copyNote(n models.Note) *models.Note {
	n.Tags = slices.Clone(n.Tags)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return &n
}

func (r memNotes) Create(_ context.Context, n *models.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.notes[n.ID]; ok {
		return common.ErrConflict
	}
	r.tx.recordNote(&r.s.memData, n.ID)
	r.s.notes[n.ID] = *copyNote(*n)
	return nil
}

func (r memNotes) ListByUser(_ context.Context, userID string) ([]*models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Note, 0)
	for _, n := range r.s.notes {
		if n.UserID == userID {
			out = append(out, copyNote(n))
		}
	}
	return out, nil
}

func (r memNotes) Get(_ context.Context, userID, id string) (*models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n, ok := r.s.notes[id]
	if !ok || n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return copyNote(n), nil
}

func (r memNotes) GetForUpdate(ctx context.Context, userID, id string) (*models.Note, error) {
	return r.Get(ctx, userID, id)
}

func (r memNotes) Update(_ context.Context, n *models.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.notes[n.ID]
	if !ok || old.UserID != n.UserID {
		return common.ErrorNotFound
	}
	cp := copyNote(*n)
	cp.CreatedAt = old.CreatedAt
	r.tx.recordNote(&r.s.memData, n.ID)
	r.s.notes[n.ID] = *cp
	return nil
}

type memVersions struct {
	s  *memStore
	tx *memTx
}

func (r memVersions) Create(_ context.Context, v *models.NoteVersion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.versions[v.NoteID] {
		if existing.Version == v.Version {
			return common.ErrConflict
		}
	}
	r.tx.recordVersion(v.NoteID, v.Version)
	r.s.versions[v.NoteID] = append(r.s.versions[v.NoteID], *v)
	return nil
}

func (r memVersions) ListByNote(_ context.Context, noteID string) ([]*models.NoteVersion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.NoteVersion, 0, len(r.s.versions[noteID]))
	for _, v := range r.s.versions[noteID] {
		out = append(out, &v)
	}
	slices.SortFunc(out, func(a, b *models.NoteVersion) int {
		return cmp.Compare(b.Version, a.Version)
	})
	return out, nil
}

type memTasks struct {
	s  *memStore
	tx *memTx
}

func copyTask(t models.Task) *models.Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	if t.IsLocked != nil {
		l := *t.IsLocked
		t.IsLocked = &l
	}
	return &t
}

func (r memTasks) Create(_ context.Context, t *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[t.ID]; ok {
		return common.ErrConflict
	}
	r.tx.recordTask(&r.s.memData, t.ID)
	r.s.tasks[t.ID] = *copyTask(*t)
	return nil
}

func (r memTasks) ListByUser(_ context.Context, userID string) ([]*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Task, 0)
	for _, t := range r.s.tasks {
		if t.UserID == userID && !t.IsDeleted {
			out = append(out, copyTask(t))
		}
	}
	return out, nil
}

func (r memTasks) Get(_ context.Context, userID, id string) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok || t.UserID != userID || t.IsDeleted {
		return nil, common.ErrorNotFound
	}
	return copyTask(t), nil
}

func (r memTasks) GetForUpdate(ctx context.Context, userID, id string) (*models.Task, error) {
	return r.Get(ctx, userID, id)
}

func (r memTasks) Update(_ context.Context, t *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.tasks[t.ID]
	if !ok || old.UserID != t.UserID {
		return common.ErrorNotFound
	}
	cp := copyTask(*t)
	cp.CreatedAt = old.CreatedAt
	r.tx.recordTask(&r.s.memData, t.ID)
	r.s.tasks[t.ID] = *cp
	return nil
}
