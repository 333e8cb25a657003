package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

func (h *handler) listTasks(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	tasks, err := h.Tasks.List(r.Context(), userIDFromContext(r.Context()), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *handler) createTask(w http.ResponseWriter, r *http.Request) {
	var in models.TaskCreate
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	t, err := h.Tasks.Create(r.Context(), userIDFromContext(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *handler) getTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.Get(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) updateTask(w http.ResponseWriter, r *http.Request) {
	var patch models.TaskPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}

	t, err := h.Tasks.Update(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) completeTask(w http.ResponseWriter, r *http.Request) {
	completed, err := optionalBool(r.URL.Query(), "completed")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if completed == nil {
		h.fail(w, r, fmt.Errorf("%w: completed is required", common.ErrorValidation))
		return
	}

	t, err := h.Tasks.ToggleComplete(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"), *completed)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Tasks.Delete(r.Context(), userIDFromContext(r.Context()), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
