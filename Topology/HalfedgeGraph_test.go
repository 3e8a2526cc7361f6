package Topology

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVertexAt(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.AddPolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)

	v, ok := g.VertexAt(xy(1, 1))
	require.True(t, ok)
	require.Equal(t, xy(1, 1), v.Position())

	_, ok = g.VertexAt(xy(5, 5))
	require.False(t, ok)
}

func TestNearestEdge(t *testing.T) {
	g := NewHalfedgeGraph()
	require.True(t, g.NearestEdge(xy(0, 0)).IsNil())

	_, err := g.AddPolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)
	_, err = g.AddPolygon(squarePoly(10, 0, 1))
	require.NoError(t, err)

	edgeEnds := func(e Edge) []Coordinate {
		a, b := e.Vertices()
		return []Coordinate{a.Position(), b.Position()}
	}

	// 左侧正方形下边界
	e := g.NearestEdge(xy(0.5, -0.3))
	require.ElementsMatch(t, []Coordinate{xy(0, 0), xy(1, 0)}, edgeEnds(e))

	// 两正方形之间，靠左侧的右边界更近
	e = g.NearestEdge(xy(5, 0.5))
	require.ElementsMatch(t, []Coordinate{xy(1, 0), xy(1, 1)}, edgeEnds(e))

	// 查询点落在顶点上时返回某条关联边
	e = g.NearestEdge(xy(10, 1))
	require.Contains(t, edgeEnds(e), xy(10, 1))
}

// 顶点出边扇按顺时针排列
func TestVertexFanClockwise(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.AddPolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)
	_, err = g.AddPolygon(squarePoly(1, 1, 1))
	require.NoError(t, err)

	v, ok := g.VertexAt(xy(1, 1))
	require.True(t, ok)
	require.Equal(t, 4, v.Degree())

	var dests []Coordinate
	for _, h := range v.Halfedges() {
		dests = append(dests, h.Destination().Position())
	}

	// 扇的起始半边取决于构建过程，按环序对齐后比较
	start := -1
	for i, d := range dests {
		if sameXY(d, xy(1, 2)) {
			start = i
		}
	}
	require.GreaterOrEqual(t, start, 0)

	want := []Coordinate{xy(1, 2), xy(2, 1), xy(1, 0), xy(0, 1)}
	for i := range want {
		require.Equal(t, want[i], dests[(start+i)%4])
	}
}
