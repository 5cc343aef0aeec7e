package domain

// GraphNode is a node as exposed to API consumers.
type GraphNode struct {
	ID    string
	Label string
	Title string
}

// GraphEdge is a directed edge as exposed to API consumers.
type GraphEdge struct {
	ID     string
	From   string
	To     string
	Weight float64
	Label  string
	Title  string
}

// GraphView is the exported form of a built graph.
type GraphView struct {
	Nodes            []GraphNode
	Edges            []GraphEdge
	NodeCount        int
	EdgeCount        int
	SortedNodeLabels []string
}

// PathQuery asks for a route from Source to Target that visits Waypoints in
// the given order.
type PathQuery struct {
	Source    string
	Target    string
	Waypoints []string
}

// PathEdge is one hop of a computed route.
type PathEdge struct {
	From   string
	To     string
	Weight float64
}

// PathResult is a stitched route. Nodes lists every node in travel order,
// Edges covers every consecutive pair of Nodes and TotalWeight is rounded to
// two decimals.
type PathResult struct {
	Nodes       []string
	TotalWeight float64
	Edges       []PathEdge
}

// PathView is the transport shape of a PathResult.
type PathView struct {
	Path    []string
	Latency float64
	Edges   []PathEdge
}
