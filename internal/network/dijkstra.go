package network

import (
	"container/heap"
	"fmt"
	"math"
)

// shortestPath runs Dijkstra's algorithm from src and stops as soon as dst is
// settled. It returns the node labels of one minimum-cost path, its cost, and
// false when dst is unreachable. Both nodes must exist.
//
// Among equal-cost paths the one returned depends on heap order and is not
// part of the contract; the cost is.
func (g *Graph) shortestPath(src, dst string) ([]string, float64, bool) {
	s, d := g.index[src], g.index[dst]
	n := len(g.nodes)

	dist := make([]float64, n)
	prev := make([]int, n)
	settled := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[s] = 0

	pq := make(nodeQueue, 0, n)
	heap.Push(&pq, queueItem{node: s, dist: 0})

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(queueItem)
		u := item.node
		if settled[u] {
			continue // stale entry
		}
		settled[u] = true
		if u == d {
			break
		}

		for _, a := range g.out[u] {
			if a.weight < 0 {
				panic(fmt.Sprintf("network: negative weight %v on edge %q -> %q", a.weight, g.nodes[u], g.nodes[a.to]))
			}
			if settled[a.to] {
				continue
			}
			alt := dist[u] + a.weight
			if alt < dist[a.to] {
				dist[a.to] = alt
				prev[a.to] = u
				heap.Push(&pq, queueItem{node: a.to, dist: alt})
			}
		}
	}

	if !settled[d] {
		return nil, 0, false
	}

	var rev []int
	for v := d; v != -1; v = prev[v] {
		rev = append(rev, v)
		if v == s {
			break
		}
	}
	path := make([]string, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = g.nodes[v]
	}
	return path, dist[d], true
}

type queueItem struct {
	node int
	dist float64
}

// nodeQueue is a min-heap of queueItem ordered by dist. Shorter distances to
// an already queued node are pushed as new entries; stale ones are skipped
// when popped.
type nodeQueue []queueItem

func (q nodeQueue) Len() int           { return len(q) }
func (q nodeQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q nodeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
