package Graph

import (
	"testing"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLineGraph(t *testing.T) *Digraph {
	t.Helper()
	g := NewDigraph()
	for i := 1; i <= 4; i++ {
		g.AddNode(i, orb.Point{float64(i), 0})
	}
	require.NoError(t, g.AddEdge(1, 2, 1))
	require.NoError(t, g.AddEdge(2, 3, 1))
	require.NoError(t, g.AddEdge(3, 4, 1))
	require.NoError(t, g.AddEdge(1, 3, 4))
	require.NoError(t, g.AddEdge(2, 4, 5))
	return g
}

func TestShortestPath(t *testing.T) {
	g := buildLineGraph(t)

	path, cost, err := g.ShortestPath(1, 4)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cost)
	require.Len(t, path, 3)
	assert.Equal(t, 1, path[0].From.ID)
	assert.Equal(t, 2, path[0].To.ID)
	assert.Equal(t, 2, path[1].From.ID)
	assert.Equal(t, 3, path[1].To.ID)
	assert.Equal(t, 3, path[2].From.ID)
	assert.Equal(t, 4, path[2].To.ID)

	// 起终点相同时路径为空
	path, cost, err = g.ShortestPath(2, 2)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, 0.0, cost)
}

func TestShortestPathUnreachable(t *testing.T) {
	g := buildLineGraph(t)
	g.AddNode(9, orb.Point{9, 9})

	_, _, err := g.ShortestPath(1, 9)
	assert.Error(t, err)

	// 有向图里逆行不可达
	_, _, err = g.ShortestPath(4, 1)
	assert.Error(t, err)

	_, _, err = g.ShortestPath(1, 42)
	assert.Error(t, err)
}

func TestMaxFlow(t *testing.T) {
	g := NewDigraph()
	for i := 0; i <= 5; i++ {
		g.AddNode(i, orb.Point{float64(i), 0})
	}
	require.NoError(t, g.AddEdge(0, 1, 16))
	require.NoError(t, g.AddEdge(0, 2, 13))
	require.NoError(t, g.AddEdge(1, 2, 10))
	require.NoError(t, g.AddEdge(2, 1, 4))
	require.NoError(t, g.AddEdge(1, 3, 12))
	require.NoError(t, g.AddEdge(3, 2, 9))
	require.NoError(t, g.AddEdge(2, 4, 14))
	require.NoError(t, g.AddEdge(4, 3, 7))
	require.NoError(t, g.AddEdge(3, 5, 20))
	require.NoError(t, g.AddEdge(4, 5, 4))

	flow, err := g.MaxFlow(0, 5)
	require.NoError(t, err)
	assert.Equal(t, 23.0, flow)

	_, err = g.MaxFlow(0, 0)
	assert.Error(t, err)
	_, err = g.MaxFlow(0, 42)
	assert.Error(t, err)
}

func TestMaxFlowDisconnected(t *testing.T) {
	g := NewDigraph()
	g.AddNode(1, orb.Point{0, 0})
	g.AddNode(2, orb.Point{1, 0})

	flow, err := g.MaxFlow(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, flow)
}

func TestConnectedComponents(t *testing.T) {
	g := NewDigraph()
	for i := 1; i <= 6; i++ {
		g.AddNode(i, orb.Point{float64(i), 0})
	}
	require.NoError(t, g.AddBiEdge(1, 2, 1))
	require.NoError(t, g.AddEdge(3, 4, 1)) // 单向边也算连通

	comps := g.ConnectedComponents()
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}, {6}}, comps)
}

func TestFromTopology(t *testing.T) {
	tg := Topology.NewHalfedgeGraph()
	_, err := tg.AddPolygon(Topology.Polygon{Shell: []Topology.Coordinate{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}})
	require.NoError(t, err)
	_, err = tg.MergePolygon(Topology.Polygon{Shell: []Topology.Coordinate{
		{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1},
	}})
	require.NoError(t, err)
	require.Equal(t, 2, tg.FaceCount())

	g := FromTopology(tg)
	require.Len(t, g.Nodes, 2)
	assert.Len(t, g.Edges, 2) // 相邻面之间的一对双向边

	var ids []int
	var points []orb.Point
	for id, node := range g.Nodes {
		ids = append(ids, id)
		points = append(points, node.Point)
	}
	assert.ElementsMatch(t, []orb.Point{{0.5, 0.5}, {1.5, 0.5}}, points)

	path, cost, err := g.ShortestPath(ids[0], ids[1])
	require.NoError(t, err)
	assert.Len(t, path, 1)
	assert.InDelta(t, 1.0, cost, 1e-12)

	comps := g.ConnectedComponents()
	assert.Len(t, comps, 1)
	assert.Len(t, comps[0], 2)
}
