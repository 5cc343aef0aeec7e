package network

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netlatency/backend/internal/domain"
)

func triangle() *Graph {
	return Build([]domain.EdgeRecord{
		rec(1, "R1", "R2", 10),
		rec(2, "R2", "R3", 5),
		rec(3, "R1", "R3", 20),
	})
}

func TestFindPath_BeatsDirectEdge(t *testing.T) {
	res, err := FindPath(triangle(), domain.PathQuery{Source: "R1", Target: "R3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"R1", "R2", "R3"}, res.Nodes)
	assert.Equal(t, 15.0, res.TotalWeight)
	assert.Equal(t, []domain.PathEdge{
		{From: "R1", To: "R2", Weight: 10},
		{From: "R2", To: "R3", Weight: 5},
	}, res.Edges)
}

func TestFindPath_WaypointOnOptimalPath(t *testing.T) {
	g := triangle()
	plain, err := FindPath(g, domain.PathQuery{Source: "R1", Target: "R3"})
	require.NoError(t, err)

	forced, err := FindPath(g, domain.PathQuery{Source: "R1", Target: "R3", Waypoints: []string{"R2"}})
	require.NoError(t, err)

	assert.Equal(t, plain, forced)
}

func TestFindPath_WaypointForcesDetour(t *testing.T) {
	g := Build([]domain.EdgeRecord{
		rec(1, "A", "B", 1),
		rec(2, "A", "C", 4),
		rec(3, "C", "B", 4),
		rec(4, "B", "D", 1),
	})

	res, err := FindPath(g, domain.PathQuery{Source: "A", Target: "D", Waypoints: []string{"C"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C", "B", "D"}, res.Nodes)
	assert.Equal(t, 9.0, res.TotalWeight)
	assert.Len(t, res.Edges, 3)
}

func TestFindPath_SelfPath(t *testing.T) {
	res, err := FindPath(triangle(), domain.PathQuery{Source: "R2", Target: "R2"})
	require.NoError(t, err)

	assert.Equal(t, []string{"R2"}, res.Nodes)
	assert.Equal(t, 0.0, res.TotalWeight)
	assert.Empty(t, res.Edges)
}

func TestFindPath_DegenerateWaypoints(t *testing.T) {
	g := triangle()

	res, err := FindPath(g, domain.PathQuery{
		Source:    "R1",
		Target:    "R3",
		Waypoints: []string{"R1", "R2", "R2", "R3"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"R1", "R2", "R3"}, res.Nodes)
	assert.Equal(t, 15.0, res.TotalWeight)
}

func TestFindPath_NoAdjacentDuplicatesAtStitchPoints(t *testing.T) {
	g := Build([]domain.EdgeRecord{
		rec(1, "A", "B", 1),
		rec(2, "B", "C", 1),
		rec(3, "C", "D", 1),
		rec(4, "D", "A", 1),
	})

	res, err := FindPath(g, domain.PathQuery{Source: "A", Target: "A", Waypoints: []string{"C", "D"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D", "A"}, res.Nodes)
	for i := 1; i < len(res.Nodes); i++ {
		assert.NotEqual(t, res.Nodes[i-1], res.Nodes[i])
	}
	// Sum of segment lengths (3 + 2 + 2) minus one junction per later segment.
	assert.Len(t, res.Nodes, 3+2+2-2)
}

func TestFindPath_SegmentAdditivity(t *testing.T) {
	g := Build([]domain.EdgeRecord{
		rec(1, "A", "B", 1.25),
		rec(2, "B", "C", 2.5),
		rec(3, "A", "C", 3),
		rec(4, "C", "D", 0.333),
		rec(5, "B", "D", 9),
		rec(6, "D", "B", 0.5),
	})

	var sum float64
	for _, seg := range [][2]string{{"A", "D"}, {"D", "C"}} {
		r, err := FindPath(g, domain.PathQuery{Source: seg[0], Target: seg[1]})
		require.NoError(t, err)
		sum += r.TotalWeight
	}

	res, err := FindPath(g, domain.PathQuery{Source: "A", Target: "C", Waypoints: []string{"D"}})
	require.NoError(t, err)
	assert.InDelta(t, sum, res.TotalWeight, 0.01)
}

func TestFindPath_CostIsDeterministicAcrossTies(t *testing.T) {
	g := Build([]domain.EdgeRecord{
		rec(1, "S", "A", 1),
		rec(2, "S", "B", 1),
		rec(3, "A", "T", 1),
		rec(4, "B", "T", 1),
	})

	for i := 0; i < 20; i++ {
		res, err := FindPath(g, domain.PathQuery{Source: "S", Target: "T"})
		require.NoError(t, err)
		assert.Equal(t, 2.0, res.TotalWeight)
		require.Len(t, res.Nodes, 3)
		assert.Contains(t, []string{"A", "B"}, res.Nodes[1])
	}
}

func TestFindPath_RoundsTotal(t *testing.T) {
	g := Build([]domain.EdgeRecord{
		rec(1, "A", "B", 0.111),
		rec(2, "B", "C", 0.222),
	})

	res, err := FindPath(g, domain.PathQuery{Source: "A", Target: "C"})
	require.NoError(t, err)
	assert.Equal(t, 0.33, res.TotalWeight)
	// Edge weights are reported unrounded.
	assert.Equal(t, 0.111, res.Edges[0].Weight)

	// Exact halves round away from zero.
	res, err = FindPath(Build([]domain.EdgeRecord{rec(1, "A", "B", 0.125)}), domain.PathQuery{Source: "A", Target: "B"})
	require.NoError(t, err)
	assert.Equal(t, 0.13, res.TotalWeight)
}

func TestFindPath_ZeroWeightEdges(t *testing.T) {
	g := Build([]domain.EdgeRecord{
		rec(1, "A", "B", 0),
		rec(2, "B", "C", 0),
	})

	res, err := FindPath(g, domain.PathQuery{Source: "A", Target: "C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, res.Nodes)
	assert.Equal(t, 0.0, res.TotalWeight)
}

func TestFindPath_MissingNode(t *testing.T) {
	_, err := FindPath(triangle(), domain.PathQuery{Source: "R1", Target: "R9"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNodeNotFound))
	var nf *NodeNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"R9"}, nf.Nodes)
}

func TestFindPath_MissingWaypointStopsBeforeLaterSegments(t *testing.T) {
	// R3 -> R1 has no route; a missing first waypoint must be reported before
	// the unreachable later segment is attempted.
	_, err := FindPath(triangle(), domain.PathQuery{Source: "R1", Target: "R1", Waypoints: []string{"X", "R3"}})

	var nf *NodeNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"X"}, nf.Nodes)
}

func TestFindPath_BothEndpointsMissing(t *testing.T) {
	_, err := FindPath(triangle(), domain.PathQuery{Source: "X", Target: "Y"})

	var nf *NodeNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"X", "Y"}, nf.Nodes)
	assert.Contains(t, err.Error(), `"X"`)
}

func TestFindPath_EmptyGraph(t *testing.T) {
	_, err := FindPath(Build(nil), domain.PathQuery{Source: "A", Target: "A"})

	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestFindPath_NoPath(t *testing.T) {
	_, err := FindPath(triangle(), domain.PathQuery{Source: "R3", Target: "R1"})

	require.ErrorIs(t, err, ErrNoPath)
	var np *NoPathError
	require.True(t, errors.As(err, &np))
	assert.Equal(t, "R3", np.From)
	assert.Equal(t, "R1", np.To)
}

func TestFindPath_NoPathInLaterSegment(t *testing.T) {
	_, err := FindPath(triangle(), domain.PathQuery{Source: "R1", Target: "R1", Waypoints: []string{"R3"}})

	var np *NoPathError
	require.True(t, errors.As(err, &np))
	assert.Equal(t, "R3", np.From)
}

func TestFindPath_EmptyEndpoint(t *testing.T) {
	_, err := FindPath(triangle(), domain.PathQuery{Source: "", Target: "R1"})

	assert.ErrorIs(t, err, ErrEmptyEndpoint)
}

func TestFindPath_NegativeWeightPanics(t *testing.T) {
	g := Build([]domain.EdgeRecord{rec(1, "A", "B", -1)})

	assert.Panics(t, func() {
		_, _ = FindPath(g, domain.PathQuery{Source: "A", Target: "B"})
	})
}

func TestPlanSegments(t *testing.T) {
	got := planSegments(domain.PathQuery{Source: "S", Target: "T", Waypoints: []string{"A", "B"}})

	assert.Equal(t, []segment{{"S", "A"}, {"A", "B"}, {"B", "T"}}, got)
	assert.Equal(t, []segment{{"S", "T"}}, planSegments(domain.PathQuery{Source: "S", Target: "T"}))
}

func TestParseWaypoints(t *testing.T) {
	assert.Equal(t, []string{"R2", "R5"}, ParseWaypoints(" R2 , ,R5,"))
	assert.Nil(t, ParseWaypoints(""))
	assert.Nil(t, ParseWaypoints(" , "))
}
