// Package network builds directed latency graphs from edge records and
// computes shortest routes through ordered waypoints.
//
// A Graph is built fresh for every query from an immutable dataset snapshot.
// It is never mutated after Build returns and is never shared between
// queries, so it needs no locking.
package network

// Edge is a directed, weighted link between two nodes.
type Edge struct {
	From   string
	To     string
	Weight float64
	Label  string
}

// arc is an outgoing edge stored by target index.
type arc struct {
	to     int
	weight float64
	label  string
}

// Graph is a directed weighted graph keyed by node label. It holds at most
// one edge per ordered node pair. Nodes, and the neighbors of each node, keep
// first-insertion order.
type Graph struct {
	nodes []string
	index map[string]int
	out   [][]arc
	pos   []map[int]int // pos[u][v] is the position of arc u->v in out[u]
	edges int
}

func newGraph(sizeHint int) *Graph {
	return &Graph{
		nodes: make([]string, 0, sizeHint),
		index: make(map[string]int, sizeHint),
		out:   make([][]arc, 0, sizeHint),
		pos:   make([]map[int]int, 0, sizeHint),
	}
}

func (g *Graph) addNode(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, id)
	g.index[id] = i
	g.out = append(g.out, nil)
	g.pos = append(g.pos, make(map[int]int))
	return i
}

// setEdge adds from->to, or replaces the weight and label of an existing
// edge in place.
func (g *Graph) setEdge(from, to string, weight float64, label string) {
	u := g.addNode(from)
	v := g.addNode(to)
	if p, ok := g.pos[u][v]; ok {
		g.out[u][p].weight = weight
		g.out[u][p].label = label
		return
	}
	g.pos[u][v] = len(g.out[u])
	g.out[u] = append(g.out[u], arc{to: v, weight: weight, label: label})
	g.edges++
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct directed edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Nodes returns the node labels in first-appearance order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// Edges returns every edge grouped by source node, in node order and then
// neighbor insertion order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for u, arcs := range g.out {
		for _, a := range arcs {
			edges = append(edges, Edge{
				From:   g.nodes[u],
				To:     g.nodes[a.to],
				Weight: a.weight,
				Label:  a.label,
			})
		}
	}
	return edges
}

// Edge looks up the directed edge from->to.
func (g *Graph) Edge(from, to string) (Edge, bool) {
	u, ok := g.index[from]
	if !ok {
		return Edge{}, false
	}
	v, ok := g.index[to]
	if !ok {
		return Edge{}, false
	}
	p, ok := g.pos[u][v]
	if !ok {
		return Edge{}, false
	}
	a := g.out[u][p]
	return Edge{From: from, To: to, Weight: a.weight, Label: a.label}, true
}
