package network

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for path queries. The typed errors below match them through
// errors.Is.
var (
	// ErrNodeNotFound reports that a segment endpoint is absent from the graph.
	ErrNodeNotFound = errors.New("node not found in graph")

	// ErrNoPath reports that no directed route joins a segment's endpoints.
	ErrNoPath = errors.New("no path between nodes")

	// ErrEmptyEndpoint reports a query without a source or target.
	ErrEmptyEndpoint = errors.New("source and target are required")
)

// NodeNotFoundError names the segment endpoints missing from the graph.
type NodeNotFoundError struct {
	Nodes []string
}

func (e *NodeNotFoundError) Error() string {
	quoted := make([]string, len(e.Nodes))
	for i, n := range e.Nodes {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	if len(quoted) == 1 {
		return fmt.Sprintf("node %s does not exist in the graph", quoted[0])
	}
	return fmt.Sprintf("nodes %s do not exist in the graph", strings.Join(quoted, ", "))
}

// Is makes errors.Is(err, ErrNodeNotFound) hold.
func (e *NodeNotFoundError) Is(target error) bool {
	return target == ErrNodeNotFound
}

// NoPathError identifies the segment that has no route.
type NoPathError struct {
	From string
	To   string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path from %q to %q", e.From, e.To)
}

// Is makes errors.Is(err, ErrNoPath) hold.
func (e *NoPathError) Is(target error) bool {
	return target == ErrNoPath
}
