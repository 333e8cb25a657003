package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/server/auth"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type pinRequest struct {
	Pin string `json:"pin"`
}

type pinStatusResponse struct {
	HasPin bool `json:"has_pin"`
}

type verifyPinResponse struct {
	OK          bool      `json:"ok"`
	UnlockToken string    `json:"unlock_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.Users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "Registered", "user_id", u.ID)
	writeJSON(w, http.StatusCreated, registerResponse{ID: u.ID, Email: u.Email})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx := auth.WithClientAddr(r.Context(), clientAddr(r))
	token, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *handler) pinStatus(w http.ResponseWriter, r *http.Request) {
	has, err := h.Pin.Status(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pinStatusResponse{HasPin: has})
}

func (h *handler) setPin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.Pin.SetPin(r.Context(), userIDFromContext(r.Context()), req.Pin); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pinStatusResponse{HasPin: true})
}

func (h *handler) clearPin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.Pin.ClearPin(r.Context(), userIDFromContext(r.Context()), req.Pin); err != nil {
		h.failPin(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pinStatusResponse{HasPin: false})
}

func (h *handler) verifyPin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	grant, err := h.Pin.VerifyPin(r.Context(), userIDFromContext(r.Context()), req.Pin)
	if err != nil {
		h.failPin(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyPinResponse{OK: true, UnlockToken: grant.Token, ExpiresAt: grant.ExpiresAt})
}
