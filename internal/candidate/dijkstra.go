package candidate

import (
	"container/heap"

	"corridor/internal/network"
)

// dijkstraNode represents a node in the priority queue
type dijkstraNode struct {
	id   int64
	dist float64
}

type priorityQueue []dijkstraNode

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(dijkstraNode)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}

// shortestPath runs Dijkstra by total segment length between two nodes and
// reconstructs the path as a sequence of dense edge indexes. Returns false
// when the destination is unreachable; a graph restricted to one connected
// component should never produce that case.
func shortestPath(g *network.Graph, origin, dest int64) ([]int, bool) {
	if origin == dest {
		return nil, false
	}

	dist := map[int64]float64{origin: 0}
	prevEdge := make(map[int64]int)
	prevNode := make(map[int64]int64)

	pq := &priorityQueue{{id: origin, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		current := heap.Pop(pq).(dijkstraNode)

		if current.id == dest {
			break
		}

		if best, ok := dist[current.id]; ok && current.dist > best {
			continue // stale queue entry
		}

		g.Neighbors(current.id, func(edge int, to int64, length float64) {
			next := current.dist + length
			if best, ok := dist[to]; !ok || next < best {
				dist[to] = next
				prevEdge[to] = edge
				prevNode[to] = current.id
				heap.Push(pq, dijkstraNode{id: to, dist: next})
			}
		})
	}

	if _, ok := dist[dest]; !ok {
		return nil, false
	}

	// Walk predecessors back to the origin.
	var edges []int
	for node := dest; node != origin; node = prevNode[node] {
		edges = append(edges, prevEdge[node])
	}

	// Reverse into origin→dest order.
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	return edges, true
}
