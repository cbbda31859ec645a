package main

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/mairateam/calculators/internal/config"
	"github.com/mairateam/calculators/internal/db"
	"github.com/mairateam/calculators/internal/format"
	"github.com/mairateam/calculators/internal/log"
	"github.com/mairateam/calculators/internal/migrations"
	"github.com/mairateam/calculators/internal/scenario"
	"github.com/mairateam/calculators/internal/seed"
	"github.com/mairateam/calculators/web"
)

const shutdownTimeout = 15 * time.Second

type server struct {
	store           *scenario.Store
	defaultCurrency string
	upgrader        websocket.Upgrader
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

type homeViewData struct {
	baseViewData
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.L.Fatalf("failed to load config: %v", err)
	}
	log.Configure(cfg.LogLevel, cfg.IsDev())

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.L.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		log.L.Fatalf("failed to run database migrations: %v", err)
	}

	if cfg.SeedOnStart {
		stats, err := seed.Run(database, seed.Config{Currency: cfg.DefaultCurrency})
		if err != nil {
			log.L.Fatalf("failed to seed preset scenarios: %v", err)
		}
		log.L.WithField("inserts", stats.Inserts).Info("seed: preset scenarios ensured")
	}

	srv := newServer(scenario.NewStore(database), cfg.DefaultCurrency)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 2 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.L.WithField("address", httpServer.Addr).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.L.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.L.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.L.WithError(err).Error("graceful shutdown failed")
	}
}

func newServer(store *scenario.Store, defaultCurrency string) *server {
	return &server{
		store:           store,
		defaultCurrency: format.Normalize(defaultCurrency),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleHome)
	r.Get("/healthz", s.handleHealthz)

	r.Get("/ppc", s.handlePPC)
	r.Post("/ppc", s.handlePPC)
	r.Get("/unit-economics", s.handleUnitEconomics)
	r.Post("/unit-economics", s.handleUnitEconomics)

	r.Post("/api/{calculator}", s.handleAPICalculate)
	r.Get("/ws/{calculator}", s.handleLive)

	r.Post("/scenarios", s.handleScenarioCreate)
	r.Get("/scenarios", s.handleScenariosList)
	r.Get("/scenarios/{id}", s.handleScenarioDetail)
	r.Get("/scenarios/{id}/text", s.handleScenarioText)
	r.Get("/scenarios/{id}/xlsx", s.handleScenarioXLSX)
	r.Post("/scenarios/{id}/delete", s.handleScenarioDelete)

	return middleware().Then(r)
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, r, http.StatusOK, "home.html", homeViewData{})
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("ok")); err != nil {
		log.ForContext(r.Context()).WithError(err).Warn("healthz: write failed")
	}
}

func (s *server) renderTemplate(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	templates, err := template.ParseFS(web.Templates,
		"templates/layout.html",
		"templates/"+page,
	)
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Errorf("parse template %s", page)
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.ForContext(r.Context()).WithError(err).Errorf("render template %s", page)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// currency picks the request's currency, falling back to the configured default.
func (s *server) currency(r *http.Request) string {
	if code := r.FormValue("currency"); format.IsSupported(code) {
		return format.Normalize(code)
	}
	return s.defaultCurrency
}
