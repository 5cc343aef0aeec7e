package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vanshika/netlatency/backend/internal/domain"
	"github.com/vanshika/netlatency/backend/internal/graph"
)

// Options tunes how datasets are written to the graph.
type Options struct {
	BatchSize int
	Workers   int
}

const (
	defaultBatchSize = 500
	defaultWorkers   = 4
)

// Repository encapsulates graph persistence of latency datasets. Every record
// is stored as a :Link node tagged with the dataset version; a single
// :Dataset node points readers at the current version.
type Repository struct {
	client    graph.Client
	batchSize int
	workers   int
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client, opts Options) *Repository {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	return &Repository{
		client:    client,
		batchSize: opts.BatchSize,
		workers:   opts.Workers,
	}
}

// ReplaceEdges stores ds as the current dataset. Links are written in
// concurrent batches under the new version; the dataset pointer is swapped
// and older links removed in one final transaction, so readers never see a
// half-written dataset.
func (r *Repository) ReplaceEdges(ctx context.Context, ds domain.Dataset) error {
	if ds.Version == "" {
		return errors.New("dataset version is required")
	}

	batches := chunk(ds.Records, r.batchSize)
	err := runPool(ctx, r.workers, len(batches), func(idx int) error {
		params := map[string]any{
			"version": ds.Version,
			"rows":    linkParams(batches[idx]),
		}
		if _, err := r.client.ExecuteWrite(ctx, createLinksCypher, params); err != nil {
			return fmt.Errorf("write batch %d: %w", idx, err)
		}
		return nil
	})
	if err != nil {
		r.discardVersion(ctx, ds.Version)
		return fmt.Errorf("replace edges: %w", err)
	}

	commit := []graph.Statement{
		{
			Query: upsertDatasetCypher,
			Params: map[string]any{
				"version":  ds.Version,
				"filename": ds.Filename,
				"loadedAt": formatTime(ds.LoadedAt),
				"rows":     len(ds.Records),
			},
		},
		{
			Query:  deleteStaleLinksCypher,
			Params: map[string]any{"version": ds.Version},
		},
	}
	if err := r.client.ExecuteWriteTx(ctx, commit); err != nil {
		r.discardVersion(ctx, ds.Version)
		return fmt.Errorf("commit dataset %s: %w", ds.Version, err)
	}
	return nil
}

// LoadEdges returns the current dataset with records ordered by id. The
// boolean is false when no dataset has been stored yet.
func (r *Repository) LoadEdges(ctx context.Context) (domain.Dataset, bool, error) {
	meta, err := r.client.ExecuteRead(ctx, currentDatasetCypher, nil)
	if err != nil {
		return domain.Dataset{}, false, fmt.Errorf("read dataset meta: %w", err)
	}
	if len(meta.Records) == 0 {
		return domain.Dataset{}, false, nil
	}

	rec := meta.Records[0]
	ds := domain.Dataset{
		Version:  toString(rec["version"]),
		Filename: toString(rec["filename"]),
		LoadedAt: toTime(rec["loadedAt"]),
	}

	res, err := r.client.ExecuteRead(ctx, listLinksCypher, map[string]any{"version": ds.Version})
	if err != nil {
		return domain.Dataset{}, false, fmt.Errorf("read links: %w", err)
	}

	ds.Records = make([]domain.EdgeRecord, 0, len(res.Records))
	for _, row := range res.Records {
		ds.Records = append(ds.Records, domain.EdgeRecord{
			ID:          int(toInt64(row["id"])),
			Origin:      toString(row["origin"]),
			Destination: toString(row["destination"]),
			Weight:      toFloat64(row["weight"]),
		})
	}
	return ds, true, nil
}

// Probe verifies the graph database is reachable.
func (r *Repository) Probe(ctx context.Context) error {
	return r.client.VerifyConnectivity(ctx)
}

// discardVersion removes links written for a version that never became
// current. Failures are ignored; the next successful replace sweeps them.
func (r *Repository) discardVersion(ctx context.Context, version string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	_, _ = r.client.ExecuteWrite(cleanupCtx, discardVersionCypher, map[string]any{"version": version})
}

func chunk(records []domain.EdgeRecord, size int) [][]domain.EdgeRecord {
	var out [][]domain.EdgeRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		out = append(out, records[start:end])
	}
	return out
}

func linkParams(records []domain.EdgeRecord) []map[string]any {
	rows := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]any{
			"id":          int64(rec.ID),
			"origin":      rec.Origin,
			"destination": rec.Destination,
			"weight":      rec.Weight,
		})
	}
	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func toTime(val any) time.Time {
	switch v := val.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

const createLinksCypher = `
UNWIND $rows AS row
CREATE (l:Link {
	version: $version,
	id: row.id,
	origin: row.origin,
	destination: row.destination,
	weight: row.weight
})
`

const upsertDatasetCypher = `
MERGE (d:Dataset {key: "current"})
SET d.version = $version,
	d.filename = $filename,
	d.loadedAt = $loadedAt,
	d.rows = $rows
`

const deleteStaleLinksCypher = `
MATCH (l:Link)
WHERE l.version <> $version
DELETE l
`

const discardVersionCypher = `
MATCH (l:Link {version: $version})
DELETE l
`

const currentDatasetCypher = `
MATCH (d:Dataset {key: "current"})
RETURN d.version AS version, d.filename AS filename, d.loadedAt AS loadedAt
`

const listLinksCypher = `
MATCH (l:Link {version: $version})
RETURN l.id AS id, l.origin AS origin, l.destination AS destination, l.weight AS weight
ORDER BY l.id
`
