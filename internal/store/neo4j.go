package store

import (
	"context"
	"time"

	"github.com/vanshika/netlatency/backend/internal/domain"
	"github.com/vanshika/netlatency/backend/internal/graph"
	"github.com/vanshika/netlatency/backend/internal/repository"
)

// Neo4jBackend persists datasets in a graph database through the repository.
type Neo4jBackend struct {
	client graph.Client
	repo   *repository.Repository
}

// NewNeo4jBackend takes ownership of client; Close closes it.
func NewNeo4jBackend(client graph.Client, opts repository.Options) *Neo4jBackend {
	return &Neo4jBackend{
		client: client,
		repo:   repository.New(client, opts),
	}
}

func (b *Neo4jBackend) Save(ctx context.Context, ds domain.Dataset) error {
	return b.repo.ReplaceEdges(ctx, ds)
}

func (b *Neo4jBackend) Load(ctx context.Context) (domain.Dataset, bool, error) {
	return b.repo.LoadEdges(ctx)
}

func (b *Neo4jBackend) Probe(ctx context.Context) error {
	return b.repo.Probe(ctx)
}

func (b *Neo4jBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.client.Close(ctx)
}
