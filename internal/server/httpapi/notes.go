package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

func (h *handler) listNotes(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	notes, err := h.Notes.List(r.Context(), userIDFromContext(r.Context()), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *handler) createNote(w http.ResponseWriter, r *http.Request) {
	var in models.NoteCreate
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	n, err := h.Notes.Create(r.Context(), userIDFromContext(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *handler) getNote(w http.ResponseWriter, r *http.Request) {
	n, err := h.Notes.Get(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *handler) updateNote(w http.ResponseWriter, r *http.Request) {
	var patch models.NotePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}

	n, err := h.Notes.Update(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *handler) noteVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.Notes.Versions(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if versions == nil {
		versions = []*models.NoteVersion{}
	}
	writeJSON(w, http.StatusOK, versions)
}
