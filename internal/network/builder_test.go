package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netlatency/backend/internal/domain"
)

func rec(id int, from, to string, w float64) domain.EdgeRecord {
	return domain.EdgeRecord{ID: id, Origin: from, Destination: to, Weight: w}
}

func TestBuild_Empty(t *testing.T) {
	g := Build(nil)

	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
	assert.Empty(t, g.Edges())
}

func TestBuild_NodesInFirstAppearanceOrder(t *testing.T) {
	g := Build([]domain.EdgeRecord{
		rec(1, "R2", "R1", 1),
		rec(2, "R3", "R2", 1),
		rec(3, "R1", "R4", 1),
	})

	assert.Equal(t, []string{"R2", "R1", "R3", "R4"}, g.Nodes())
	assert.Equal(t, 3, g.EdgeCount())
}

func TestBuild_LastWriteWins(t *testing.T) {
	g := Build([]domain.EdgeRecord{
		rec(1, "A", "B", 5),
		rec(2, "A", "C", 1),
		rec(3, "A", "B", 3),
	})

	require.Equal(t, 2, g.EdgeCount())
	e, ok := g.Edge("A", "B")
	require.True(t, ok)
	assert.Equal(t, 3.0, e.Weight)
	assert.Equal(t, "3.0 ms", e.Label)

	// The overwritten edge keeps its original position.
	edges := g.Edges()
	assert.Equal(t, "B", edges[0].To)
	assert.Equal(t, "C", edges[1].To)
}

func TestBuild_DirectedEdgesAreDistinct(t *testing.T) {
	g := Build([]domain.EdgeRecord{
		rec(1, "A", "B", 5),
		rec(2, "B", "A", 7),
	})

	assert.Equal(t, 2, g.EdgeCount())
	ab, _ := g.Edge("A", "B")
	ba, _ := g.Edge("B", "A")
	assert.Equal(t, 5.0, ab.Weight)
	assert.Equal(t, 7.0, ba.Weight)
}

func TestBuild_LabelsAreOpaque(t *testing.T) {
	g := Build([]domain.EdgeRecord{rec(1, "r1", "R1 ", 2)})

	assert.True(t, g.HasNode("r1"))
	assert.True(t, g.HasNode("R1 "))
	assert.False(t, g.HasNode("R1"))
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	records := []domain.EdgeRecord{rec(1, "A", "B", 5), rec(2, "A", "B", 3)}
	snapshot := append([]domain.EdgeRecord(nil), records...)

	Build(records)

	assert.Equal(t, snapshot, records)
}

func TestEdgeLabel(t *testing.T) {
	assert.Equal(t, "12.3 ms", EdgeLabel(12.34))
	assert.Equal(t, "0.0 ms", EdgeLabel(0))
}
