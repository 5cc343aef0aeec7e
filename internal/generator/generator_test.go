package generator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netlatency/backend/internal/ingest"
	"github.com/vanshika/netlatency/backend/internal/network"
)

func TestGenerate_ConnectedAndDeterministic(t *testing.T) {
	cfg := Config{NumNodes: 12, NumLinks: 30, MinLatency: 1, MaxLatency: 10, BidirectionalChance: 0.5, Seed: 7}

	first, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)
	second, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.Len(t, first.Records, 30)
	pairs := make(map[[2]string]bool)
	for i, rec := range first.Records {
		assert.Equal(t, i+1, rec.ID)
		assert.NotEqual(t, rec.Origin, rec.Destination)
		assert.GreaterOrEqual(t, rec.Weight, 1.0)
		assert.LessOrEqual(t, rec.Weight, 10.0)
		key := [2]string{rec.Origin, rec.Destination}
		assert.False(t, pairs[key], "duplicate link %v", key)
		pairs[key] = true
	}

	g := network.Build(first.Records)
	assert.Equal(t, 12, g.NodeCount())
	res, err := network.ComputePath(first.Records, "R5", "R4", "")
	require.NoError(t, err)
	assert.Equal(t, "R5", res.Nodes[0])
	assert.Equal(t, "R4", res.Nodes[len(res.Nodes)-1])
}

func TestGenerate_CapsLinksAtCompleteGraph(t *testing.T) {
	ds, err := New(Config{NumNodes: 3, NumLinks: 100, Seed: 1}).Generate(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Records, 6)
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{NumNodes: 10, NumLinks: 50, Seed: 1}).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteCSV_DirtyRowsAreDroppedOnIngest(t *testing.T) {
	ds, err := New(Config{NumNodes: 8, NumLinks: 20, DirtyRowChance: 1, Seed: 3}).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.DirtyRows, 20)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds))

	records, report, err := ingest.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, ds.Records, records)
	assert.Equal(t, 20, report.Dropped())
}

func TestWriteDataset(t *testing.T) {
	ds, err := New(Config{NumNodes: 4, NumLinks: 4, Seed: 9}).Generate(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "links.csv")
	require.NoError(t, WriteDataset(ds, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, _, err := ingest.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, ds.Records, records)
}
