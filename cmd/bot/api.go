package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/farxc/consulta-energia/internal/bot"
	"github.com/farxc/consulta-energia/internal/logger"
	"github.com/farxc/consulta-energia/internal/records"
	"github.com/farxc/consulta-energia/internal/session"
)

const version = "0.1.0"

type application struct {
	config    config
	store     *records.Store
	sessions  *session.Store
	handler   *bot.Handler
	reloader  *records.Reloader
	appLogger *logger.Logger
}

type config struct {
	addr           string
	botToken       string
	botDisabled    bool
	botDebug       bool
	workers        int
	reloadInterval time.Duration
	logLevel       string
	logFile        string
	source         sourceConfig
	db             dbConfig
}

type sourceConfig struct {
	kind      string
	csvFile   string
	delimiter string
	encoding  string
}

type dbConfig struct {
	addr         string
	table        string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Post("/reload", app.handleReload)
		r.Get("/installations", app.handleGetInstallation)
	})

	return r
}

// run serves the admin API until ctx is cancelled.
func (app *application) run(ctx context.Context, mux http.Handler) error {
	const component = "AdminAPI"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.appLogger.Warn(component, "Shutdown failed: error=%v", err)
		}
	}()

	app.appLogger.Info(component, "Server started on %s", app.config.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
