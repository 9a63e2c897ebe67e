package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/Harshitk-cp/peckorder/internal/api/handlers"
	mw "github.com/Harshitk-cp/peckorder/internal/api/middleware"
	"github.com/Harshitk-cp/peckorder/internal/buildconfig"
	"github.com/Harshitk-cp/peckorder/internal/config"
	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/Harshitk-cp/peckorder/internal/outcome"
	"github.com/Harshitk-cp/peckorder/internal/service"
	"github.com/Harshitk-cp/peckorder/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router    *chi.Mux
	Trainer   *service.TrainerService
	startTime time.Time
	counters  mw.Counters
	table     *outcome.Table
}

// Stores groups the persistence the HTTP layer needs.
type Stores struct {
	Agents  domain.AgentStore
	Beliefs domain.BeliefStore
	Matches domain.MatchStore
}

// Options carries the settings NewApp would otherwise read from config.
type Options struct {
	APIKey         string
	RateLimitRPS   float64
	RateLimitBurst int
	Defaults       service.AgentDefaults
	Simulation     service.SimulationConfig
	TrainerEvery   time.Duration
	TrainerGames   int
}

func OptionsFromConfig() Options {
	return Options{
		APIKey:         config.APIKey(),
		RateLimitRPS:   config.RateLimitRPS(),
		RateLimitBurst: config.RateLimitBurst(),
		Defaults: service.AgentDefaults{
			LearningRate: config.DefaultLearningRate(),
			Confidence:   config.DefaultConfidence(),
		},
		Simulation: service.SimulationConfig{
			MaxGamesPerMatch: config.MaxGamesPerMatch(),
			Concurrency:      config.TournamentConcurrency(),
		},
		TrainerEvery: config.TrainerInterval(),
		TrainerGames: config.TrainerGames(),
	}
}

func NewApp(db *pgxpool.Pool, table *outcome.Table, logger *zap.Logger) *App {
	stores := Stores{
		Agents:  store.NewAgentStore(db),
		Beliefs: store.NewBeliefStore(db),
		Matches: store.NewMatchStore(db),
	}
	return newApp(stores, db.Ping, table, OptionsFromConfig(), logger)
}

func newApp(stores Stores, ping func(context.Context) error, table *outcome.Table, opts Options, logger *zap.Logger) *App {
	// Services
	agentSvc := service.NewAgentService(stores.Agents, opts.Defaults, logger)
	simSvc := service.NewSimulationService(stores.Agents, stores.Beliefs, stores.Matches, table, opts.Simulation, logger)
	trainerSvc := service.NewTrainerService(stores.Agents, simSvc, logger)
	if opts.TrainerEvery > 0 {
		trainerSvc.SetInterval(opts.TrainerEvery)
	}
	if opts.TrainerGames > 0 {
		trainerSvc.SetGames(opts.TrainerGames)
	}

	// Handlers
	agentHandler := handlers.NewAgentHandler(agentSvc, simSvc)
	matchHandler := handlers.NewMatchHandler(simSvc)
	decisionHandler := handlers.NewDecisionHandler(simSvc)

	r := chi.NewRouter()
	app := &App{
		Router:    r,
		Trainer:   trainerSvc,
		startTime: time.Now(),
		table:     table,
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Metrics(&app.counters))
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))

	// Unauthenticated probes
	r.Get("/health", healthHandler(ping))
	r.Get("/metrics", app.metricsHandler())
	r.Get("/version", versionHandler)

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(opts.APIKey))

		r.Route("/agents", func(r chi.Router) {
			r.Post("/", agentHandler.Create)
			r.Get("/", agentHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", agentHandler.GetByID)
				r.Get("/beliefs", agentHandler.Beliefs)
				r.Get("/similar", agentHandler.Similar)
				r.Get("/matches", agentHandler.Matches)
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/", matchHandler.Create)
			r.Get("/{id}", matchHandler.GetByID)
		})
		r.Post("/tournaments", matchHandler.Tournament)

		r.Post("/decisions", decisionHandler.Decide)
	})

	return app
}

func healthHandler(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(buildconfig.VersionInfo())
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.counters.Requests.Load(),
			"error_count":    app.counters.Errors.Load(),
			"rate_limited":   app.counters.RateLimited.Load(),
			"in_flight":      app.counters.InFlight.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"outcome_table": map[string]any{
				"entries": app.table.Len(),
				"loaded":  app.table.Loaded(),
			},
			"memory": map[string]any{
				"alloc_mb": float64(memStats.Alloc) / 1024 / 1024,
				"sys_mb":   float64(memStats.Sys) / 1024 / 1024,
				"num_gc":   memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy interfaces at compile time.
var (
	_ domain.AgentStore  = (*store.AgentStore)(nil)
	_ domain.BeliefStore = (*store.BeliefStore)(nil)
	_ domain.MatchStore  = (*store.MatchStore)(nil)
)
