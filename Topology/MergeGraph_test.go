package Topology

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

// buildRow 一行四个单位正方形，首环底边带一个中点顶点
func buildRow(t *testing.T) *HalfedgeGraph {
	t.Helper()
	g := NewHalfedgeGraph()
	first := Polygon{Shell: []Coordinate{xy(0, 0), xy(0.5, 0), xy(1, 0), xy(1, 1), xy(0, 1)}}
	_, err := g.AddPolygon(first)
	require.NoError(t, err)
	for i := 1; i < 4; i++ {
		_, err := g.AddPolygon(squarePoly(float64(i), 0, 1))
		require.NoError(t, err)
	}
	require.Equal(t, counts{V: 11, E: 14, H: 28, F: 4}, snapshot(g))
	return g
}

// buildGrid 3×2网格，一格被对角线拆成两个三角形，一格顶边带中点顶点
func buildGrid(t *testing.T) *HalfedgeGraph {
	t.Helper()
	g := NewHalfedgeGraph()
	for _, x0 := range []float64{0.5, 1.5, 2.5} {
		for _, y0 := range []float64{0.5, 1.5} {
			var err error
			switch {
			case x0 == 0.5 && y0 == 1.5:
				_, err = g.AddPolygon(Polygon{Shell: []Coordinate{xy(0.5, 1.5), xy(1.5, 1.5), xy(1.5, 2.5)}})
				require.NoError(t, err)
				_, err = g.AddPolygon(Polygon{Shell: []Coordinate{xy(0.5, 1.5), xy(1.5, 2.5), xy(0.5, 2.5)}})
			case x0 == 1.5 && y0 == 1.5:
				ring := []Coordinate{xy(1.5, 1.5), xy(2.5, 1.5), xy(2.5, 2.5), xy(2, 2.5), xy(1.5, 2.5)}
				_, err = g.AddPolygon(Polygon{Shell: ring})
			default:
				_, err = g.AddPolygon(squarePoly(x0, y0, 1))
			}
			require.NoError(t, err)
		}
	}
	require.Equal(t, counts{V: 13, E: 19, H: 38, F: 7}, snapshot(g))
	return g
}

// 两张独立构建的图合并，边界多处交叉
func TestMergeGraphCrossingGrids(t *testing.T) {
	ga := buildRow(t)
	gb := buildGrid(t)

	require.NoError(t, ga.MergeGraph(gb))
	require.Equal(t, counts{V: 31, E: 47, H: 94, F: 17}, snapshot(ga))

	// 网格竖边与行顶边的交点
	for _, c := range []Coordinate{xy(0.5, 1), xy(1.5, 1), xy(2.5, 1), xy(3.5, 1), xy(1, 0.5), xy(2, 0.5), xy(3, 0.5)} {
		_, ok := ga.VertexAt(c)
		require.True(t, ok, "缺少交点(%v,%v)", c.X, c.Y)
	}
	mustVerify(t, ga)

	// 被合并的图保持原样
	require.Equal(t, counts{V: 13, E: 19, H: 38, F: 7}, snapshot(gb))
	mustVerify(t, gb)
}

func TestMergeGraphCommutative(t *testing.T) {
	ga := buildRow(t)
	gb := buildGrid(t)
	require.NoError(t, ga.MergeGraph(gb))

	ga2 := buildRow(t)
	gb2 := buildGrid(t)
	require.NoError(t, gb2.MergeGraph(ga2))

	require.Equal(t, snapshot(ga), snapshot(gb2), "合并方向不应影响剖分计数")
	mustVerify(t, gb2)
}

func TestMergeGraphIntoEmpty(t *testing.T) {
	ga := buildRow(t)
	g := NewHalfedgeGraph()
	require.NoError(t, g.MergeGraph(ga))
	require.Equal(t, counts{V: 11, E: 14, H: 28, F: 4}, snapshot(g))
	mustVerify(t, g)
}

// 孤立点与不属于任何面的裸边一并带入
func TestMergeGraphCarriesPointsAndChains(t *testing.T) {
	other := NewHalfedgeGraph()
	other.AddPoint(xy(5, 5))
	require.NoError(t, other.MergeOrb(orb.LineString{{8, 0}, {9, 1}}))

	g := NewHalfedgeGraph()
	_, err := g.AddPolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)

	require.NoError(t, g.MergeGraph(other))
	require.Equal(t, counts{V: 7, E: 5, H: 10, F: 1}, snapshot(g))

	v, ok := g.VertexAt(xy(5, 5))
	require.True(t, ok)
	require.True(t, v.IsIsolated())
	_, ok = g.VertexAt(xy(8, 0))
	require.True(t, ok)
	mustVerify(t, g)
}

// 图与自身合并等价于不变
func TestMergeGraphSelf(t *testing.T) {
	g := buildRow(t)
	before := snapshot(g)
	require.NoError(t, g.MergeGraph(g))
	require.Equal(t, before, snapshot(g))
	mustVerify(t, g)
}

func TestMergeGraphNil(t *testing.T) {
	g := buildRow(t)
	before := snapshot(g)
	require.NoError(t, g.MergeGraph(nil))
	require.Equal(t, before, snapshot(g))
}
