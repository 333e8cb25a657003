package httpapi

import "net/http"

func (h *handler) export(w http.ResponseWriter, r *http.Request) {
	res, err := h.Export.Export(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
