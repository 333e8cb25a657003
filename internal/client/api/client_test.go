package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/smartnotes/internal/client/models"
	"github.com/dmitrijs2005/smartnotes/internal/common"
)

func TestDo_SendsCredentialsAndDecodes(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]models.Note{{ID: "n1", Title: "T"}})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/", srv.Client())
	c.SetToken("tok")
	c.SetUnlockToken("grant")

	notes, err := c.ListNotes(context.Background(), url.Values{"search": {"milk"}})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n1", notes[0].ID)

	require.NotNil(t, got)
	assert.Equal(t, "/notes", got.URL.Path)
	assert.Equal(t, "milk", got.URL.Query().Get("search"))
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, "grant", got.Header.Get(common.UnlockTokenHeaderName))
}

func TestDo_MapsProblemToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"version_conflict","message":"version conflict"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, srv.Client()).UpdateNote(context.Background(), "n1", models.Patch{"title": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrVersionConflict)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestDo_PlainTextErrorFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, srv.Client()).GetTask(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDo_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	err := NewClient(addr, nil).Health(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCompleteTask_SendsFlag(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_ = json.NewEncoder(w).Encode(models.Task{ID: "t1", Completed: false})
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, srv.Client()).CompleteTask(context.Background(), "t1", false)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, got.Method)
	assert.Equal(t, "/tasks/t1/complete", got.URL.Path)
	assert.Equal(t, "false", got.URL.Query().Get("completed"))
}
