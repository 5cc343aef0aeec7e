package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netlatency/backend/internal/domain"
	"github.com/vanshika/netlatency/backend/internal/graph"
)

func sampleDataset(n int) domain.Dataset {
	records := make([]domain.EdgeRecord, n)
	for i := range records {
		records[i] = domain.EdgeRecord{ID: i + 1, Origin: "A", Destination: "B", Weight: float64(i)}
	}
	return domain.Dataset{
		Version:  "v-1",
		Filename: "links.csv",
		LoadedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Records:  records,
	}
}

func TestRepository_ReplaceEdges_Batches(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem, Options{BatchSize: 2, Workers: 3})

	require.NoError(t, repo.ReplaceEdges(context.Background(), sampleDataset(5)))

	writes := mem.WriteCalls()
	require.Len(t, writes, 3)
	total := 0
	for _, call := range writes {
		assert.Equal(t, createLinksCypher, call.Query)
		assert.Equal(t, "v-1", call.Params["version"])
		total += len(call.Params["rows"].([]map[string]any))
	}
	assert.Equal(t, 5, total)

	tx := mem.TxCalls()
	require.Len(t, tx, 1)
	require.Len(t, tx[0], 2)
	assert.Equal(t, upsertDatasetCypher, tx[0][0].Query)
	assert.Equal(t, 5, tx[0][0].Params["rows"])
	assert.Equal(t, "2024-05-01T12:00:00Z", tx[0][0].Params["loadedAt"])
	assert.Equal(t, deleteStaleLinksCypher, tx[0][1].Query)
}

func TestRepository_ReplaceEdges_EmptyDataset(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem, Options{})

	require.NoError(t, repo.ReplaceEdges(context.Background(), sampleDataset(0)))
	assert.Empty(t, mem.WriteCalls())
	assert.Len(t, mem.TxCalls(), 1)
}

func TestRepository_ReplaceEdges_BatchFailure(t *testing.T) {
	boom := errors.New("write refused")
	mem := graph.NewMemoryClient().WithWriteError(func(st graph.Statement) error {
		if st.Query == createLinksCypher {
			if rows := st.Params["rows"].([]map[string]any); rows[0]["id"] == int64(3) {
				return boom
			}
		}
		return nil
	})
	repo := New(mem, Options{BatchSize: 2, Workers: 2})

	err := repo.ReplaceEdges(context.Background(), sampleDataset(4))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Len(t, taskErr.Errors, 1)

	assert.Empty(t, mem.TxCalls(), "failed write must not commit")
	writes := mem.WriteCalls()
	assert.Equal(t, discardVersionCypher, writes[len(writes)-1].Query)
}

func TestRepository_ReplaceEdges_RequiresVersion(t *testing.T) {
	repo := New(graph.NewMemoryClient(), Options{})
	ds := sampleDataset(1)
	ds.Version = ""
	assert.Error(t, repo.ReplaceEdges(context.Background(), ds))
}

func TestRepository_LoadEdges(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{{
		"version":  "v-9",
		"filename": "net.csv",
		"loadedAt": "2024-05-01T12:00:00Z",
	}}})
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"id": int64(1), "origin": "R1", "destination": "R2", "weight": 5.0},
		{"id": int64(2), "origin": "R2", "destination": "R3", "weight": int64(10)},
	}})
	repo := New(mem, Options{})

	ds, ok, err := repo.LoadEdges(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v-9", ds.Version)
	assert.Equal(t, "net.csv", ds.Filename)
	assert.Equal(t, 2024, ds.LoadedAt.Year())
	assert.Equal(t, []domain.EdgeRecord{
		{ID: 1, Origin: "R1", Destination: "R2", Weight: 5},
		{ID: 2, Origin: "R2", Destination: "R3", Weight: 10},
	}, ds.Records)

	reads := mem.ReadCalls()
	require.Len(t, reads, 2)
	assert.True(t, strings.Contains(reads[1].Query, "ORDER BY l.id"))
	assert.Equal(t, "v-9", reads[1].Params["version"])
}

func TestRepository_LoadEdges_NothingStored(t *testing.T) {
	repo := New(graph.NewMemoryClient(), Options{})

	_, ok, err := repo.LoadEdges(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunPool_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runPool(ctx, 2, 10, func(int) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunPool_CollectsErrors(t *testing.T) {
	err := runPool(context.Background(), 3, 6, func(idx int) error {
		if idx%2 == 0 {
			return errors.New("bad")
		}
		return nil
	})
	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Len(t, taskErr.Errors, 3)
	assert.Contains(t, err.Error(), "multiple errors")
}
