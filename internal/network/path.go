package network

import (
	"math"
	"strings"

	"github.com/vanshika/netlatency/backend/internal/domain"
)

// segment is one source/destination pair solved independently.
type segment struct {
	from string
	to   string
}

// planSegments chains source, each waypoint in order, and target.
func planSegments(q domain.PathQuery) []segment {
	if len(q.Waypoints) == 0 {
		return []segment{{from: q.Source, to: q.Target}}
	}
	segments := make([]segment, 0, len(q.Waypoints)+1)
	segments = append(segments, segment{from: q.Source, to: q.Waypoints[0]})
	for i := 0; i+1 < len(q.Waypoints); i++ {
		segments = append(segments, segment{from: q.Waypoints[i], to: q.Waypoints[i+1]})
	}
	segments = append(segments, segment{from: q.Waypoints[len(q.Waypoints)-1], to: q.Target})
	return segments
}

// FindPath computes a minimum-weight route from q.Source to q.Target that
// visits q.Waypoints in order. Each segment is solved with Dijkstra and the
// segment paths are stitched so junction nodes appear once.
//
// It fails fast: the first segment with a missing endpoint returns a
// *NodeNotFoundError, the first unreachable segment a *NoPathError, and no
// partial route is returned in either case.
func FindPath(g *Graph, q domain.PathQuery) (domain.PathResult, error) {
	if q.Source == "" || q.Target == "" {
		return domain.PathResult{}, ErrEmptyEndpoint
	}

	var (
		nodes []string
		total float64
	)
	for i, seg := range planSegments(q) {
		if missing := g.missing(seg.from, seg.to); len(missing) > 0 {
			return domain.PathResult{}, &NodeNotFoundError{Nodes: missing}
		}

		path, cost, ok := g.shortestPath(seg.from, seg.to)
		if !ok {
			return domain.PathResult{}, &NoPathError{From: seg.from, To: seg.to}
		}
		total += cost

		if i == 0 {
			nodes = append(nodes, path...)
		} else {
			nodes = append(nodes, path[1:]...)
		}
	}

	edges := make([]domain.PathEdge, 0, len(nodes)-1)
	for i := 0; i+1 < len(nodes); i++ {
		e, _ := g.Edge(nodes[i], nodes[i+1])
		edges = append(edges, domain.PathEdge{From: e.From, To: e.To, Weight: e.Weight})
	}

	return domain.PathResult{
		Nodes:       nodes,
		TotalWeight: round2(total),
		Edges:       edges,
	}, nil
}

func (g *Graph) missing(ids ...string) []string {
	var missing []string
	for _, id := range ids {
		if g.HasNode(id) {
			continue
		}
		dup := false
		for _, m := range missing {
			if m == id {
				dup = true
				break
			}
		}
		if !dup {
			missing = append(missing, id)
		}
	}
	return missing
}

// ParseWaypoints splits a comma separated waypoint list, trimming entries and
// dropping empty ones.
func ParseWaypoints(csv string) []string {
	var waypoints []string
	for _, part := range strings.Split(csv, ",") {
		if wp := strings.TrimSpace(part); wp != "" {
			waypoints = append(waypoints, wp)
		}
	}
	return waypoints
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
