package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/api"
	"github.com/culturiqai/nalanda/internal/config"
	"github.com/culturiqai/nalanda/internal/domain"
	"github.com/culturiqai/nalanda/internal/embedding"
	"github.com/culturiqai/nalanda/internal/llm"
	"github.com/culturiqai/nalanda/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	llmClient, err := llm.NewClient(config.LLMProvider(), config.LLMAPIKey())
	if err != nil {
		logger.Fatal("LLM client initialization failed",
			zap.String("provider", config.LLMProvider()), zap.Error(err))
	}
	logger.Info("LLM client initialized", zap.String("provider", config.LLMProvider()))

	embeddingClient, err := embedding.NewClient(config.EmbeddingProvider(), config.EmbeddingAPIKey())
	if err != nil {
		logger.Fatal("embedding client initialization failed",
			zap.String("provider", config.EmbeddingProvider()), zap.Error(err))
	}

	graph := store.NewBeliefGraph(store.NewLogSink(logger))

	deps := api.Deps{
		Graph:    graph,
		LLM:      llmClient,
		Embedder: embeddingClient,
	}

	var pool *pgxpool.Pool
	if dbURL := config.DatabaseURL(); dbURL != "" {
		pool, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		logger.Info("connected to database")

		snapshots, err := store.NewSnapshotStore(ctx, pool)
		if err != nil {
			logger.Fatal("failed to initialize snapshot store", zap.Error(err))
		}
		corpus, err := store.NewCorpusStore(ctx, pool, embeddingClient)
		if err != nil {
			logger.Fatal("failed to initialize corpus store", zap.Error(err))
		}
		deps.Snapshots = snapshots
		deps.Corpus = corpus
	}

	seedGraph(ctx, graph, deps.Snapshots, logger)

	// NewApp runs genesis validation before returning.
	app := api.NewApp(ctx, deps, logger)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if deps.Snapshots != nil {
		if err := deps.Snapshots.Save(shutdownCtx, graph.Records()); err != nil {
			logger.Error("final snapshot save failed", zap.Error(err))
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// seedGraph restores the persisted worldview when one exists,
// otherwise loads the built-in seed beliefs.
func seedGraph(ctx context.Context, graph *store.BeliefGraph, snapshots domain.SnapshotStore, logger *zap.Logger) {
	if snapshots != nil {
		records, err := snapshots.Load(ctx)
		if err != nil {
			logger.Fatal("failed to load snapshot", zap.Error(err))
		}
		if len(records) > 0 {
			graph.Load(records)
			logger.Info("worldview restored from snapshot", zap.Int("schemas", len(records)))
			return
		}
	}

	for name, data := range store.DefaultWorldview() {
		graph.Add(name, data, true)
	}
	logger.Info("worldview seeded", zap.Int("schemas", graph.Len()))
}
