package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/api/handlers"
	mw "github.com/culturiqai/nalanda/internal/api/middleware"
	"github.com/culturiqai/nalanda/internal/buildconfig"
	"github.com/culturiqai/nalanda/internal/config"
	"github.com/culturiqai/nalanda/internal/domain"
	"github.com/culturiqai/nalanda/internal/physics"
	"github.com/culturiqai/nalanda/internal/service"
	"github.com/culturiqai/nalanda/internal/store"
)

// Deps are the externally constructed collaborators the app wires
// together. Snapshots, Embedder, and Corpus may be nil when no
// database is configured.
type Deps struct {
	Graph     *store.BeliefGraph
	Snapshots domain.SnapshotStore
	LLM       domain.LLMClient
	Embedder  domain.EmbeddingClient
	Corpus    domain.CorpusSearcher
}

// App holds the router and the engine for lifecycle management.
type App struct {
	Router *chi.Mux
	Engine *service.ValidatingEngine

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp wires the belief-revision engine and its HTTP surface.
// Genesis validation runs synchronously inside this call.
func NewApp(ctx context.Context, deps Deps, logger *zap.Logger) *App {
	sandbox := physics.NewSandbox(logger)
	validator := service.NewValidator(sandbox, logger)
	proposer := service.NewProposerService(deps.LLM, deps.Embedder, deps.Corpus, logger)
	perception := service.NewPerception(deps.LLM, logger)

	engine := service.NewEngine(deps.Graph, sandbox, proposer, logger)
	validating := service.NewValidatingEngine(ctx, engine, validator, logger)

	schemaHandler := handlers.NewSchemaHandler(validating)
	reasonHandler := handlers.NewReasonHandler(validating, perception, deps.LLM, logger)
	assimilateHandler := handlers.NewAssimilateHandler(validating)
	validateHandler := handlers.NewValidateHandler(validating)
	snapshotHandler := handlers.NewSnapshotHandler(deps.Graph, deps.Snapshots, logger)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Engine:    validating,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health and metrics (no auth)
	r.Get("/health", app.healthHandler())
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		r.Route("/schemas", func(r chi.Router) {
			r.Get("/", schemaHandler.List)
			r.Post("/", schemaHandler.Create)
			r.Get("/{name}", schemaHandler.GetByName)
		})

		r.Route("/reason", func(r chi.Router) {
			r.Post("/drop", reasonHandler.Drop)
			r.Post("/tool-use", reasonHandler.ToolUse)
		})

		r.Post("/assimilate", assimilateHandler.Text)
		r.Post("/assimilate/topic", assimilateHandler.Topic)
		r.Post("/validate", validateHandler.Run)
		r.Post("/snapshot", snapshotHandler.Save)
	})

	return app
}

func (app *App) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"version": buildconfig.Version(),
			"schemas": app.Engine.Graph().Len(),
		})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"schemas":        app.Engine.Graph().Len(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
