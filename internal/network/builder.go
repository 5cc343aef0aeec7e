package network

import (
	"fmt"

	"github.com/vanshika/netlatency/backend/internal/domain"
)

// Build converts records into a directed graph, adding one edge per record in
// store order. A later record for an already seen (origin, destination) pair
// overwrites the earlier weight and label. An empty input yields an empty
// graph. records is not modified.
func Build(records []domain.EdgeRecord) *Graph {
	g := newGraph(len(records))
	for _, rec := range records {
		g.setEdge(rec.Origin, rec.Destination, rec.Weight, EdgeLabel(rec.Weight))
	}
	return g
}

// EdgeLabel formats a weight the way edges are labelled, e.g. "12.5 ms".
func EdgeLabel(weight float64) string {
	return fmt.Sprintf("%.1f ms", weight)
}
