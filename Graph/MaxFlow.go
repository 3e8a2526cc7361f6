package Graph

import (
	"fmt"
	"math"
)

// MaxFlow Edmonds-Karp算法求源汇间最大流，边的Cost作为容量
func (g *Digraph) MaxFlow(source, sink int) (float64, error) {
	if _, ok := g.Nodes[source]; !ok {
		return 0, fmt.Errorf("节点%d不存在", source)
	}
	if _, ok := g.Nodes[sink]; !ok {
		return 0, fmt.Errorf("节点%d不存在", sink)
	}
	if source == sink {
		return 0, fmt.Errorf("源点与汇点相同")
	}

	// 残量网络，平行边容量累加
	residual := make(map[int]map[int]float64)
	ensure := func(id int) map[int]float64 {
		if residual[id] == nil {
			residual[id] = make(map[int]float64)
		}
		return residual[id]
	}
	for _, e := range g.Edges {
		ensure(e.From.ID)[e.To.ID] += e.Cost
	}

	total := 0.0
	for {
		// BFS找最短增广路径
		parent := make(map[int]int)
		visited := make(map[int]bool)
		visited[source] = true
		queue := []int{source}
		found := false
		for len(queue) > 0 && !found {
			u := queue[0]
			queue = queue[1:]
			for v, c := range residual[u] {
				if c <= 0 || visited[v] {
					continue
				}
				visited[v] = true
				parent[v] = u
				if v == sink {
					found = true
					break
				}
				queue = append(queue, v)
			}
		}
		if !found {
			break
		}

		// 回溯求瓶颈容量
		bottleneck := math.MaxFloat64
		for v := sink; v != source; {
			u := parent[v]
			if residual[u][v] < bottleneck {
				bottleneck = residual[u][v]
			}
			v = u
		}

		// 沿路径更新正反残量
		for v := sink; v != source; {
			u := parent[v]
			residual[u][v] -= bottleneck
			ensure(v)[u] += bottleneck
			v = u
		}
		total += bottleneck
	}

	return total, nil
}
