package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vanshika/netlatency/backend/internal/config"
	"github.com/vanshika/netlatency/backend/internal/domain"
	"github.com/vanshika/netlatency/backend/internal/graph"
	"github.com/vanshika/netlatency/backend/internal/ingest"
	"github.com/vanshika/netlatency/backend/internal/logging"
	"github.com/vanshika/netlatency/backend/internal/repository"
	"github.com/vanshika/netlatency/backend/internal/store"
)

var errEmptyDataset = errors.New("dataset has no valid rows")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		file      = flag.String("file", "", "latency CSV to load into the graph database")
		batchSize = flag.Int("batch-size", cfg.Graph.WriteBatchSize, "links written per statement")
		workers   = flag.Int("workers", cfg.Graph.WriteWorkers, "number of concurrent write workers")
	)
	flag.Parse()

	logger := logging.New(cfg.Logging).With("component", "ingest")

	if *file == "" {
		logger.Error("missing -file flag")
		os.Exit(2)
	}

	records, report, err := readDataset(*file)
	if err != nil {
		logger.Error("failed to read dataset", "error", err, "path", *file)
		os.Exit(1)
	}
	logger.Info("dataset parsed", "rows", report.TotalRows, "accepted", report.AcceptedRows, "dropped", report.Dropped())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := buildGraphClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}

	holder := store.NewHolder(store.NewNeo4jBackend(client, repository.Options{
		BatchSize: *batchSize,
		Workers:   *workers,
	}), logger)
	defer func() {
		if err := holder.Close(); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	start := time.Now()
	ds, err := holder.Replace(ctx, filepath.Base(*file), records)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion complete", "duration", time.Since(start).String(), "version", ds.Version, "links", ds.Len())
}

func readDataset(path string) ([]domain.EdgeRecord, ingest.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ingest.Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, report, err := ingest.Decode(f)
	if err != nil {
		return nil, report, err
	}
	if len(records) == 0 {
		return nil, report, errEmptyDataset
	}
	return records, report, nil
}

func buildGraphClient(ctx context.Context, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}
	return graph.NewNeo4jClient(ctx, graph.OptionsFromConfig(cfg.Graph))
}
