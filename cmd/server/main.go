package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Simplici0/estatecalc/internal/analyzer"
	"github.com/Simplici0/estatecalc/internal/config"
	"github.com/Simplici0/estatecalc/internal/db"
	"github.com/Simplici0/estatecalc/internal/migrations"
	"github.com/Simplici0/estatecalc/internal/seed"
	"github.com/Simplici0/estatecalc/internal/store"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	store    *store.Store
	analyzer *analyzer.Analyzer
	token    string
	logger   zerolog.Logger
}

func main() {
	configFile := flag.String("config", "", "optional config file (yaml, json or toml)")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger = logger.Level(cfg.Level())
	for _, w := range cfg.Warnings {
		logger.Warn().Msg(w)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close()

	if err := migrations.Up(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("failed to run database migrations")
	}

	st := store.New(database)
	if cfg.IsDev() {
		stats, err := seed.Run(context.Background(), st)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to seed sample scenarios")
		}
		logger.Info().Int("inserts", stats.Inserts).Int("updates", stats.Updates).Msg("seeded sample scenarios")
	}

	srv := &server{
		store:    st,
		analyzer: analyzer.New(logger, cfg.SolverMaxPasses),
		token:    cfg.APIToken,
		logger:   logger,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := serve(httpServer, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.tokenMiddleware)

		r.Post("/analyses", s.handleAnalysesCreate)
		r.Get("/analyses", s.handleAnalysesList)
		r.Get("/analyses/{id}", s.handleAnalysisGet)
		r.Get("/analyses/{id}/report", s.handleAnalysisReport)

		r.Get("/scenarios", s.handleScenariosList)
		r.Post("/scenarios", s.handleScenarioSave)
		r.Get("/scenarios/{name}", s.handleScenarioGet)
		r.Post("/scenarios/{name}/analyze", s.handleScenarioAnalyze)

		r.Post("/cells/update", s.handleCellsUpdate)
	})

	return r
}

// serve runs httpServer until it fails or the process is interrupted.
func serve(httpServer *http.Server, logger zerolog.Logger) error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("listening")
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-shutdown:
		logger.Info().Msg("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
			return httpServer.Close()
		}
	}
	return nil
}
