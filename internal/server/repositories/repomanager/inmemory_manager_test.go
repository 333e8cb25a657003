package repomanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

func TestInMemory_Users(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryRepositoryManager()
	repo := m.Users(m.Conn())

	_, err := repo.Create(ctx, &models.User{ID: "u1", Email: "a@x.io", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{ID: "u2", Email: "a@x.io", PasswordHash: "h"})
	assert.ErrorIs(t, err, common.ErrConflict)

	u, err := repo.GetByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	require.NoError(t, repo.SetPinHash(ctx, "u1", "pin"))
	u, err = repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, u.HasPin())

	assert.ErrorIs(t, repo.SetPinHash(ctx, "nobody", "pin"), common.ErrorNotFound)
	_, err = repo.GetByID(ctx, "nobody")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemory_NotesAreIsolatedCopies(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryRepositoryManager()
	repo := m.Notes(m.Conn())

	n := &models.Note{ID: "n1", UserID: "u1", Title: "t", Tags: []string{"a"}, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, n))
	n.Tags[0] = "mutated"

	got, err := repo.Get(ctx, "u1", "n1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Tags)

	_, err = repo.Get(ctx, "u2", "n1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	got.Title = "changed"
	got.UserID = "u2"
	assert.ErrorIs(t, repo.Update(ctx, got), common.ErrorNotFound, "owner mismatch")

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t", list[0].Title)
}

func TestInMemory_TaskDeletedIsInvisible(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryRepositoryManager()
	repo := m.Tasks(m.Conn())

	require.NoError(t, repo.Create(ctx, &models.Task{ID: "t1", UserID: "u1", Title: "x", Priority: 2}))
	task, err := repo.GetForUpdate(ctx, "u1", "t1")
	require.NoError(t, err)
	task.IsDeleted = true
	require.NoError(t, repo.Update(ctx, task))

	_, err = repo.Get(ctx, "u1", "t1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInMemory_VersionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryRepositoryManager()
	repo := m.NoteVersions(m.Conn())

	for _, v := range []int64{1, 3, 2} {
		require.NoError(t, repo.Create(ctx, &models.NoteVersion{ID: "v", NoteID: "n1", Version: v}))
	}
	assert.ErrorIs(t, repo.Create(ctx, &models.NoteVersion{NoteID: "n1", Version: 2}), common.ErrConflict)

	list, err := repo.ListByNote(ctx, "n1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{list[0].Version, list[1].Version, list[2].Version})
}

func TestInMemory_WithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryRepositoryManager()

	boom := errors.New("boom")
	err := m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := m.Notes(tx).Create(ctx, &models.Note{ID: "n1", UserID: "u1"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = m.Notes(m.Conn()).Get(ctx, "u1", "n1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return m.Notes(tx).Create(ctx, &models.Note{ID: "n2", UserID: "u1"})
	})
	require.NoError(t, err)
	_, err = m.Notes(m.Conn()).Get(ctx, "u1", "n2")
	assert.NoError(t, err)
}

func TestInMemory_FailedTxKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryRepositoryManager()

	_, err := m.Users(m.Conn()).Create(ctx, &models.User{ID: "u1", Email: "a@x.io"})
	require.NoError(t, err)

	inTx := make(chan struct{})
	proceed := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
			_, err := m.Notes(tx).GetForUpdate(ctx, "u1", "missing")
			close(inTx)
			<-proceed
			return err
		})
	}()

	<-inTx
	require.NoError(t, m.Notes(m.Conn()).Create(ctx, &models.Note{ID: "n1", UserID: "u1"}))
	require.NoError(t, m.Tasks(m.Conn()).Create(ctx, &models.Task{ID: "t1", UserID: "u1"}))
	_, err = m.Users(m.Conn()).Create(ctx, &models.User{ID: "u2", Email: "b@x.io"})
	require.NoError(t, err)
	require.NoError(t, m.Users(m.Conn()).SetPinHash(ctx, "u1", "pin-hash"))
	close(proceed)

	require.ErrorIs(t, <-done, common.ErrorNotFound)

	notes, err := m.Notes(m.Conn()).ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	tasks, err := m.Tasks(m.Conn()).ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	_, err = m.Users(m.Conn()).GetByID(ctx, "u2")
	assert.NoError(t, err)

	u, err := m.Users(m.Conn()).GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "pin-hash", u.PinHash)
}

func TestInMemory_FailedTxUndoesOnlyItsOwnWrites(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryRepositoryManager()

	_, err := m.Users(m.Conn()).Create(ctx, &models.User{ID: "u1", Email: "a@x.io", PinHash: "old"})
	require.NoError(t, err)
	require.NoError(t, m.Notes(m.Conn()).Create(ctx, &models.Note{ID: "n1", UserID: "u1", Title: "before", Version: 1}))
	require.NoError(t, m.Tasks(m.Conn()).Create(ctx, &models.Task{ID: "t1", UserID: "u1", Title: "before"}))

	boom := errors.New("boom")
	err = m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := m.Notes(tx).GetForUpdate(ctx, "u1", "n1")
		require.NoError(t, err)
		require.NoError(t, m.NoteVersions(tx).Create(ctx, &models.NoteVersion{ID: "v1", NoteID: "n1", Version: n.Version, Title: n.Title}))
		n.Title, n.Version = "after", 2
		require.NoError(t, m.Notes(tx).Update(ctx, n))
		require.NoError(t, m.Notes(tx).Create(ctx, &models.Note{ID: "n2", UserID: "u1"}))

		task, err := m.Tasks(tx).GetForUpdate(ctx, "u1", "t1")
		require.NoError(t, err)
		task.Title = "after"
		require.NoError(t, m.Tasks(tx).Update(ctx, task))

		require.NoError(t, m.Users(tx).SetPinHash(ctx, "u1", "new"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := m.Notes(m.Conn()).Get(ctx, "u1", "n1")
	require.NoError(t, err)
	assert.Equal(t, "before", n.Title)
	assert.Equal(t, int64(1), n.Version)

	_, err = m.Notes(m.Conn()).Get(ctx, "u1", "n2")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	versions, err := m.NoteVersions(m.Conn()).ListByNote(ctx, "n1")
	require.NoError(t, err)
	assert.Empty(t, versions)

	task, err := m.Tasks(m.Conn()).Get(ctx, "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "before", task.Title)

	u, err := m.Users(m.Conn()).GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "old", u.PinHash)
}

func TestInMemory_PanicInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryRepositoryManager()

	assert.Panics(t, func() {
		_ = m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
			_ = m.Notes(tx).Create(ctx, &models.Note{ID: "n1", UserID: "u1"})
			panic("boom")
		})
	})

	_, err := m.Notes(m.Conn()).Get(ctx, "u1", "n1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
