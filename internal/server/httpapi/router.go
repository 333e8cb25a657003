package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/export"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/pin"
	"github.com/dmitrijs2005/smartnotes/internal/server/query"
)

type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
}

type PinService interface {
	Status(ctx context.Context, userID string) (bool, error)
	SetPin(ctx context.Context, userID, pin string) error
	VerifyPin(ctx context.Context, userID, pin string) (*pin.Grant, error)
	ClearPin(ctx context.Context, userID, pin string) error
	CheckGrant(ctx context.Context, userID, token string) error
}

type NoteService interface {
	List(ctx context.Context, userID string, opts query.Options) ([]*models.Note, error)
	Create(ctx context.Context, userID string, in models.NoteCreate) (*models.Note, error)
	Get(ctx context.Context, userID, id string) (*models.Note, error)
	Update(ctx context.Context, userID, id string, patch models.NotePatch) (*models.Note, error)
	Versions(ctx context.Context, userID, id string) ([]*models.NoteVersion, error)
}

type TaskService interface {
	List(ctx context.Context, userID string, opts query.Options) ([]*models.Task, error)
	Create(ctx context.Context, userID string, in models.TaskCreate) (*models.Task, error)
	Get(ctx context.Context, userID, id string) (*models.Task, error)
	Update(ctx context.Context, userID, id string, patch models.TaskPatch) (*models.Task, error)
	ToggleComplete(ctx context.Context, userID, id string, completed bool) (*models.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

type Exporter interface {
	Export(ctx context.Context, userID string) (*export.Result, error)
}

// Services bundles what the router dispatches to.
type Services struct {
	Users  UserService
	Pin    PinService
	Notes  NoteService
	Tasks  TaskService
	Export Exporter
}

type handler struct {
	Services
	logger logging.Logger
}

// NewRouter builds the API handler.
func NewRouter(s Services, l logging.Logger) http.Handler {
	h := &handler{Services: s, logger: l.With("module", "http_api")}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.healthz)

	mux.HandleFunc("POST /auth/register", h.register)
	mux.HandleFunc("POST /auth/login", h.login)
	mux.HandleFunc("GET /auth/status", h.requireUser(h.pinStatus))
	mux.HandleFunc("POST /auth/pin", h.requireUser(h.setPin))
	mux.HandleFunc("DELETE /auth/pin", h.requireUser(h.clearPin))
	mux.HandleFunc("POST /auth/verify-pin", h.requireUser(h.verifyPin))

	mux.HandleFunc("GET /notes", h.requireUser(h.listNotes))
	mux.HandleFunc("POST /notes", h.requireUser(h.createNote))
	mux.HandleFunc("GET /notes/{id}", h.requireUser(h.getNote))
	mux.HandleFunc("PUT /notes/{id}", h.requireUser(h.updateNote))
	mux.HandleFunc("PATCH /notes/{id}", h.requireUser(h.updateNote))
	mux.HandleFunc("GET /notes/{id}/versions", h.requireUser(h.noteVersions))

	mux.HandleFunc("GET /tasks", h.requireUser(h.listTasks))
	mux.HandleFunc("POST /tasks", h.requireUser(h.createTask))
	mux.HandleFunc("GET /tasks/{id}", h.requireUser(h.getTask))
	mux.HandleFunc("PUT /tasks/{id}", h.requireUser(h.updateTask))
	mux.HandleFunc("PATCH /tasks/{id}", h.requireUser(h.updateTask))
	mux.HandleFunc("PATCH /tasks/{id}/complete", h.requireUser(h.completeTask))
	mux.HandleFunc("DELETE /tasks/{id}", h.requireUser(h.deleteTask))

	mux.HandleFunc("POST /export", h.requireUser(h.export))

	return h.logRequests(mux)
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
