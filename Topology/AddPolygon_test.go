package Topology

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddPolygonSingleSquare(t *testing.T) {
	g := NewHalfedgeGraph()
	f, err := g.AddPolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)
	require.False(t, f.IsNil())

	require.Equal(t, counts{V: 4, E: 4, H: 8, F: 1}, snapshot(g))
	require.Positive(t, signedAreaOf(f.OuterRing()), "外环应为逆时针")
	require.Empty(t, f.Holes())
	mustVerify(t, g)
}

// 输入环的方向不影响结果，顺时针外环会被纠正
func TestAddPolygonOrientationNormalized(t *testing.T) {
	g := NewHalfedgeGraph()
	cw := []Coordinate{xy(0, 0), xy(0, 1), xy(1, 1), xy(1, 0)}
	f, err := g.AddPolygon(Polygon{Shell: cw})
	require.NoError(t, err)
	require.Positive(t, signedAreaOf(f.OuterRing()))
	mustVerify(t, g)
}

// 两个正方形共享一条完整边
func TestAddPolygonSharedEdge(t *testing.T) {
	g := NewHalfedgeGraph()
	fa, err := g.AddPolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)
	fb, err := g.AddPolygon(squarePoly(1, 0, 1))
	require.NoError(t, err)

	require.Equal(t, counts{V: 6, E: 7, H: 14, F: 2}, snapshot(g))
	require.True(t, fa.IsAdjacent(fb))
	require.True(t, fb.IsAdjacent(fa))

	// 共享边在两个面的边集中是同一实例
	shared := func(f Face) (Edge, bool) {
		for _, e := range f.Edges() {
			u, v := e.Vertices()
			if u.Position().X == 1 && v.Position().X == 1 {
				return e, true
			}
		}
		return Edge{}, false
	}
	ea, oka := shared(fa)
	eb, okb := shared(fb)
	require.True(t, oka)
	require.True(t, okb)
	require.Equal(t, ea, eb)
	require.False(t, ea.FaceA().IsNil())
	require.False(t, ea.FaceB().IsNil())
	mustVerify(t, g)
}

// 两个正方形只在一个角点相接
func TestAddPolygonCornerTouch(t *testing.T) {
	g := NewHalfedgeGraph()
	fa, err := g.AddPolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)
	fb, err := g.AddPolygon(squarePoly(1, 1, 1))
	require.NoError(t, err)

	require.Equal(t, counts{V: 7, E: 8, H: 16, F: 2}, snapshot(g))
	require.False(t, fa.IsAdjacent(fb), "角点相接不算共边")

	v, ok := g.VertexAt(xy(1, 1))
	require.True(t, ok)
	require.Equal(t, 4, v.Degree())
	mustVerify(t, g)
}

func TestAddPolygonWithHole(t *testing.T) {
	g := NewHalfedgeGraph()
	poly := Polygon{
		Shell: squareRing(0, 0, 4),
		Holes: [][]Coordinate{squareRing(1, 1, 2)},
	}
	f, err := g.AddPolygon(poly)
	require.NoError(t, err)

	require.Equal(t, counts{V: 8, E: 8, H: 16, F: 1}, snapshot(g))
	holes := f.HoleRings()
	require.Len(t, holes, 1)
	require.Negative(t, signedAreaOf(holes[0]), "洞环应为顺时针")
	require.Len(t, f.Vertices(), 8, "面的顶点含洞边界")
	mustVerify(t, g)
}

func TestAddPolygonRejectsDegenerate(t *testing.T) {
	g := NewHalfedgeGraph()

	cases := []struct {
		name  string
		shell []Coordinate
	}{
		{"顶点不足", []Coordinate{xy(0, 0), xy(1, 0)}},
		{"重复顶点折叠后不足", []Coordinate{xy(0, 0), xy(0, 0), xy(1, 0), xy(1, 0)}},
		{"共线零面积", []Coordinate{xy(0, 0), xy(1, 0), xy(2, 0)}},
		{"蝴蝶结自相交", []Coordinate{xy(0, 0), xy(2, 2), xy(2, 0), xy(0, 3)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.AddPolygon(Polygon{Shell: tc.shell})
			var ge *GeometryError
			require.ErrorAs(t, err, &ge)
			require.Equal(t, counts{}, snapshot(g), "失败的操作不能留下局部修改")
		})
	}
}

// 同一正方形加两次，第二次两侧都已有归属
func TestAddPolygonConflict(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.AddPolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)
	before := snapshot(g)

	_, err = g.AddPolygon(squarePoly(0, 0, 1))
	var te *TopologyError
	require.ErrorAs(t, err, &te)
	require.Equal(t, before, snapshot(g), "冲突检测在改动之前完成")
	mustVerify(t, g)
}

func TestAddPoint(t *testing.T) {
	g := NewHalfedgeGraph()
	v := g.AddPoint(xy(2.5, 3.5))
	require.False(t, v.IsNil())
	require.True(t, v.IsIsolated())
	require.Equal(t, counts{V: 1}, snapshot(g))

	// 同坐标重复插入复用既有顶点
	v2 := g.AddPoint(xy(2.5, 3.5))
	require.Equal(t, v, v2)
	require.Equal(t, 1, g.VertexCount())

	// 点顶点可以成为后续多边形的角点
	_, err := g.AddPolygon(Polygon{Shell: []Coordinate{xy(2.5, 3.5), xy(4, 3), xy(4, 5)}})
	require.NoError(t, err)
	require.False(t, v.IsIsolated())
	mustVerify(t, g)
}

func TestClear(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.AddPolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)
	g.AddPoint(xy(9, 9))

	g.Clear()
	require.Equal(t, counts{}, snapshot(g))
	require.Empty(t, g.Faces())
	require.Empty(t, g.Vertices())
	mustVerify(t, g)

	// 清空后可以继续使用
	_, err = g.AddPolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)
	require.Equal(t, counts{V: 4, E: 4, H: 8, F: 1}, snapshot(g))
}
