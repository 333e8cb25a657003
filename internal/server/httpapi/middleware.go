package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/auth"
)

type ctxKey string

const (
	userIDKey ctxKey = "userID"
	infoKey   ctxKey = "requestInfo"
)

// requestInfo is filled in by inner middleware so the access log can report
// who made the request.
type requestInfo struct {
	userID string
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests writes one line per request. Query strings are left out since
// they may carry tokens.
func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		info := &requestInfo{}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), infoKey, info)))

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		}
		if info.userID != "" {
			args = append(args, "user_id", info.userID)
		}
		h.logger.Info(r.Context(), "request served", args...)
	})
}

// requireUser resolves the session token and stores the user id in the
// request context. A valid unlock grant additionally marks the context as
// unlocked; an invalid one is ignored and the services decide.
func (h *handler) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.Users.Resolve(r.Context(), accessToken(r))
		if err != nil {
			h.fail(w, r, err)
			return
		}

		if info, ok := r.Context().Value(infoKey).(*requestInfo); ok {
			info.userID = userID
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		if grant := unlockToken(r); grant != "" {
			if err := h.Pin.CheckGrant(r.Context(), userID, grant); err == nil {
				ctx = auth.WithUnlocked(ctx)
			}
		}

		next(w, r.WithContext(ctx))
	}
}

// clientAddr is the host part of the peer address. Forwarding headers are
// not trusted.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func userIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

func accessToken(r *http.Request) string {
	if t := r.URL.Query().Get(common.AccessTokenQueryName); t != "" {
		return t
	}
	return extractBearerToken(r.Header.Get("Authorization"))
}

func unlockToken(r *http.Request) string {
	if t := r.URL.Query().Get(common.UnlockTokenQueryName); t != "" {
		return t
	}
	return strings.TrimSpace(r.Header.Get(common.UnlockTokenHeaderName))
}

func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
