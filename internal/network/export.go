package network

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/vanshika/netlatency/backend/internal/domain"
)

// ExportGraph flattens g into its transport shape. Nodes and edges keep graph
// order; SortedNodeLabels is sorted lexicographically.
func ExportGraph(g *Graph) domain.GraphView {
	view := domain.GraphView{
		Nodes:     make([]domain.GraphNode, 0, g.NodeCount()),
		Edges:     make([]domain.GraphEdge, 0, g.EdgeCount()),
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
	}

	for _, n := range g.nodes {
		view.Nodes = append(view.Nodes, domain.GraphNode{ID: n, Label: n, Title: n})
	}
	for _, e := range g.Edges() {
		view.Edges = append(view.Edges, domain.GraphEdge{
			ID:     edgeID(e),
			From:   e.From,
			To:     e.To,
			Weight: e.Weight,
			Label:  e.Label,
			Title:  fmt.Sprintf("Latency: %.1f ms", e.Weight),
		})
	}

	view.SortedNodeLabels = g.Nodes()
	sort.Strings(view.SortedNodeLabels)
	return view
}

// ExportPath converts a path result into its transport shape.
func ExportPath(r domain.PathResult) domain.PathView {
	edges := r.Edges
	if edges == nil {
		edges = []domain.PathEdge{}
	}
	return domain.PathView{
		Path:    r.Nodes,
		Latency: r.TotalWeight,
		Edges:   edges,
	}
}

// BuildAndExport builds a graph from records and exports it.
func BuildAndExport(records []domain.EdgeRecord) domain.GraphView {
	return ExportGraph(Build(records))
}

// ComputePath builds a graph from records and routes from source to target
// through the comma separated waypoints.
func ComputePath(records []domain.EdgeRecord, source, target, waypoints string) (domain.PathResult, error) {
	return FindPath(Build(records), domain.PathQuery{
		Source:    source,
		Target:    target,
		Waypoints: ParseWaypoints(waypoints),
	})
}

func edgeID(e Edge) string {
	return e.From + "-" + e.To + "-" + strconv.FormatFloat(e.Weight, 'f', -1, 64)
}
