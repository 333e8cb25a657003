// Package server wires the SmartNotes services together and runs the HTTP
// API and the gRPC health endpoint until the process is signalled.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/auth"
	"github.com/dmitrijs2005/smartnotes/internal/server/config"
	"github.com/dmitrijs2005/smartnotes/internal/server/export"
	"github.com/dmitrijs2005/smartnotes/internal/server/httpapi"
	"github.com/dmitrijs2005/smartnotes/internal/server/notes"
	"github.com/dmitrijs2005/smartnotes/internal/server/pin"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/smartnotes/internal/server/tasks"
	"github.com/dmitrijs2005/smartnotes/internal/server/users"

	gs "github.com/dmitrijs2005/smartnotes/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	services    httpapi.Services
}

// openRepositoryManager picks PostgreSQL when a DSN is configured and the
// in-memory store otherwise.
var openRepositoryManager = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	if dsn == "" {
		return repomanager.NewInMemoryRepositoryManager(), nil
	}
	return repomanager.OpenPostgres(ctx, dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, false)

	m, err := openRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "No database configured, data is kept in memory")
	}

	limiter := auth.NewLimiter()
	ns := notes.NewService(m, c)
	ts := tasks.NewService(m, c)

	services := httpapi.Services{
		Users:  users.NewService(m, limiter, c),
		Pin:    pin.NewService(m, limiter, c),
		Notes:  ns,
		Tasks:  ts,
		Export: export.NewService(ns, ts, c),
	}

	return &App{config: c, logger: logger, repomanager: m, services: services}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, httpapi.NewRouter(app.services, app.logger))

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.repomanager)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives or a server fails, then waits for both
// servers to stop and closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
