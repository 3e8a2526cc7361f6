package Graph

import "sort"

// 并查集
type unionFind struct {
	parent map[int]int
	rank   map[int]int
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[int]int),
		rank:   make(map[int]int),
	}
}

func (uf *unionFind) add(x int) {
	if _, ok := uf.parent[x]; !ok {
		uf.parent[x] = x
	}
}

// find 查根，带路径压缩
func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// ConnectedComponents 按无向连通性划分节点，组内与组间均按编号升序
func (g *Digraph) ConnectedComponents() [][]int {
	uf := newUnionFind()
	for id := range g.Nodes {
		uf.add(id)
	}
	for _, e := range g.Edges {
		uf.union(e.From.ID, e.To.ID)
	}

	groups := make(map[int][]int)
	for id := range g.Nodes {
		root := uf.find(id)
		groups[root] = append(groups[root], id)
	}

	result := make([][]int, 0, len(groups))
	for _, members := range groups {
		sort.Ints(members)
		result = append(result, members)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i][0] < result[j][0]
	})
	return result
}
