package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/client/api"
	"github.com/dmitrijs2005/smartnotes/internal/client/config"
	"github.com/dmitrijs2005/smartnotes/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/smartnotes/internal/client/state"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	db      *sql.DB
	api     *api.Client
	session *state.Session
	reader  *bufio.Reader
	out     io.Writer
	Mode    Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	db, err := metadata.Open(ctx, c.StatePath)
	if err != nil {
		log.Printf("error initializing session store: %s", err.Error())
		return nil, err
	}

	client := api.NewClient(c.ServerURL, nil)
	session := state.NewSession(client, metadata.NewSQLiteRepository(db))

	return &App{
		config:  c,
		db:      db,
		api:     client,
		session: session,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

// Run restores a saved session, then reads commands until exit.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	if ok, err := a.session.Restore(ctx); err != nil {
		log.Printf("could not restore session: %s", err.Error())
	} else if ok {
		log.Printf("Signed in as %s", a.session.Email())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	log.Println("Welcome to SmartNotes CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Health(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
