package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/netlatency/backend/internal/config"
	"github.com/vanshika/netlatency/backend/internal/graph"
	"github.com/vanshika/netlatency/backend/internal/logging"
	"github.com/vanshika/netlatency/backend/internal/repository"
	"github.com/vanshika/netlatency/backend/internal/server"
	"github.com/vanshika/netlatency/backend/internal/service"
	"github.com/vanshika/netlatency/backend/internal/store"
	"github.com/vanshika/netlatency/backend/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := buildBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to open dataset store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}

	holder := store.NewHolder(backend, logger)
	defer func() {
		if err := holder.Close(); err != nil {
			logger.Warn("closing dataset store failed", "error", err)
		}
	}()

	if ok, err := holder.Load(ctx); err != nil {
		logger.Warn("could not restore dataset, starting without data", "error", err)
	} else if !ok {
		logger.Info("no stored dataset, starting without data")
	}

	latencyService := service.NewLatencyService(holder, logger)
	apiHandlers := server.NewAPIHandlers(logger, latencyService, cfg.HTTP.MaxUploadBytes)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.StoreHealthService{Store: holder},
		API:              apiHandlers,
		MetricsEnabled:   cfg.HTTP.MetricsEnabled,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if fb, ok := backend.(*store.FileBackend); ok && cfg.Store.Watch {
		watcher, err := watch.New(fb.Path(), holder, logger, watch.DefaultDebounce)
		if err != nil {
			logger.Error("failed to start dataset watcher", "error", err)
			os.Exit(1)
		}
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func buildBackend(ctx context.Context, logger *slog.Logger, cfg config.Config) (store.Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendBadger:
		return store.OpenBadger(store.BadgerConfig{
			Path:       cfg.Store.BadgerDir,
			SyncWrites: true,
			Logger:     logger,
		})
	case config.BackendNeo4j:
		client, err := graph.NewNeo4jClient(ctx, graph.OptionsFromConfig(cfg.Graph))
		if err != nil {
			return nil, err
		}
		return store.NewNeo4jBackend(client, repository.Options{
			BatchSize: cfg.Graph.WriteBatchSize,
			Workers:   cfg.Graph.WriteWorkers,
		}), nil
	default:
		return store.NewFileBackend(cfg.Store.DataDir)
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
