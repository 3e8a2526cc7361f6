package Graph

import (
	"container/heap"
	"fmt"
	"math"
)

// ShortestPath 计算两节点间的最短路径，返回路径边序列与总代价
func (g *Digraph) ShortestPath(start, end int) ([]*Edge, float64, error) {
	startNode, ok := g.Nodes[start]
	if !ok {
		return nil, 0, fmt.Errorf("节点%d不存在", start)
	}
	endNode, ok := g.Nodes[end]
	if !ok {
		return nil, 0, fmt.Errorf("节点%d不存在", end)
	}

	dist := make(map[int]float64)
	prev := make(map[int]*Edge)
	visited := make(map[int]bool)

	for id := range g.Nodes {
		dist[id] = math.MaxFloat64
	}
	dist[startNode.ID] = 0

	pq := &PriorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &Item{node: startNode, priority: 0})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*Item)
		current := item.node

		if visited[current.ID] {
			continue
		}
		visited[current.ID] = true

		if current.ID == endNode.ID {
			break
		}

		for _, edge := range current.Edges {
			neighbor := edge.To
			if visited[neighbor.ID] {
				continue
			}

			newDist := dist[current.ID] + edge.Cost
			if newDist < dist[neighbor.ID] {
				dist[neighbor.ID] = newDist
				prev[neighbor.ID] = edge
				heap.Push(pq, &Item{node: neighbor, priority: newDist})
			}
		}
	}

	if dist[endNode.ID] == math.MaxFloat64 {
		return nil, 0, fmt.Errorf("节点%d与%d之间不连通", start, end)
	}

	path := make([]*Edge, 0)
	for nodeID := endNode.ID; nodeID != startNode.ID; {
		edge := prev[nodeID]
		if edge == nil {
			break
		}
		path = append([]*Edge{edge}, path...)
		nodeID = edge.From.ID
	}

	return path, dist[endNode.ID], nil
}

// 优先队列实现
type Item struct {
	node     *Node
	priority float64
	index    int
}

type PriorityQueue []*Item

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	return pq[i].priority < pq[j].priority
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*Item)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}
