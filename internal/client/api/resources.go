package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/smartnotes/internal/client/models"
)

func (c *Client) ListNotes(ctx context.Context, q url.Values) ([]models.Note, error) {
	var out []models.Note
	err := c.do(ctx, http.MethodGet, "/notes", q, nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) CreateNote(ctx context.Context, n models.NewNote) (*models.Note, error) {
	var out models.Note
	if err := c.do(ctx, http.MethodPost, "/notes", nil, n, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetNote(ctx context.Context, id string) (*models.Note, error) {
	var out models.Note
	if err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateNote(ctx context.Context, id string, p models.Patch) (*models.Note, error) {
	var out models.Note
	if err := c.do(ctx, http.MethodPatch, "/notes/"+url.PathEscape(id), nil, p, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) NoteVersions(ctx context.Context, id string) ([]models.NoteVersion, error) {
	var out []models.NoteVersion
	err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id)+"/versions", nil, nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) ListTasks(ctx context.Context, q url.Values) ([]models.Task, error) {
	var out []models.Task
	err := c.do(ctx, http.MethodGet, "/tasks", q, nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) CreateTask(ctx context.Context, t models.NewTask) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, t, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, p models.Patch) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), nil, p, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteTask(ctx context.Context, id string, completed bool) (*models.Task, error) {
	q := url.Values{"completed": {strconv.FormatBool(completed)}}
	var out models.Task
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id)+"/complete", q, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, nil, http.StatusNoContent)
}

func (c *Client) Export(ctx context.Context) (*models.ExportResult, error) {
	var out models.ExportResult
	if err := c.do(ctx, http.MethodPost, "/export", nil, nil, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
