package Topology

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergePolygonIntoEmpty(t *testing.T) {
	g := NewHalfedgeGraph()
	faces, err := g.MergePolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, faces, 1)
	require.Equal(t, counts{V: 4, E: 4, H: 8, F: 1}, snapshot(g))
	mustVerify(t, g)
}

// 两个正方形交叠，边界在交点处互相拆分
func TestMergePolygonOverlap(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.MergePolygon(squarePoly(0, 0, 2))
	require.NoError(t, err)
	faces, err := g.MergePolygon(squarePoly(1, 1, 2))
	require.NoError(t, err)

	// 交集与差集各成一面
	require.Len(t, faces, 2)
	require.Equal(t, counts{V: 10, E: 12, H: 24, F: 3}, snapshot(g))

	for _, c := range []Coordinate{xy(2, 1), xy(1, 2)} {
		_, ok := g.VertexAt(c)
		require.True(t, ok, "交点(%v,%v)处应有新顶点", c.X, c.Y)
	}
	mustVerify(t, g)
}

// 完整共边经叠置合并焊接成单条边
func TestMergePolygonSharedEdgeWeld(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.MergePolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)
	faces, err := g.MergePolygon(squarePoly(1, 0, 1))
	require.NoError(t, err)

	require.Len(t, faces, 1)
	require.Equal(t, counts{V: 6, E: 7, H: 14, F: 2}, snapshot(g))
	mustVerify(t, g)
}

// 部分共线边：第二个矩形与既有矩形在一段区间上重叠
func TestMergePolygonPartialOverlapWeld(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.MergePolygon(Polygon{Shell: []Coordinate{xy(0, 0), xy(2, 0), xy(2, 1), xy(0, 1)}})
	require.NoError(t, err)
	faces, err := g.MergePolygon(Polygon{Shell: []Coordinate{xy(1, 0), xy(4, 0), xy(4, 1), xy(1, 1)}})
	require.NoError(t, err)

	require.Len(t, faces, 2)
	require.Equal(t, counts{V: 8, E: 10, H: 20, F: 3}, snapshot(g))
	mustVerify(t, g)
}

func scenarioPolygons() []Polygon {
	square := Polygon{Shell: []Coordinate{xy(0, 0), xy(9, 0), xy(9, 9), xy(0, 9)}}
	pentagon := Polygon{Shell: []Coordinate{xy(0, 0), xy(0, 9), xy(-9, 9), xy(-12, 4.5), xy(-9, 0)}}
	rect := Polygon{Shell: []Coordinate{xy(-3, 3), xy(3, 3), xy(3, 6), xy(-3, 6)}}
	return []Polygon{square, pentagon, rect}
}

// 正方形、邻接五边形加一个横跨两者边界的矩形
func TestMergePolygonThreeWay(t *testing.T) {
	g := NewHalfedgeGraph()
	polys := scenarioPolygons()

	faces, err := g.MergePolygon(polys[0])
	require.NoError(t, err)
	require.Len(t, faces, 1)

	faces, err = g.MergePolygon(polys[1])
	require.NoError(t, err)
	require.Len(t, faces, 1)

	faces, err = g.MergePolygon(polys[2])
	require.NoError(t, err)
	require.Len(t, faces, 2, "矩形被共享边界切成两个子面")

	require.Equal(t, counts{V: 13, E: 16, H: 32, F: 4}, snapshot(g))
	for _, c := range []Coordinate{xy(0, 3), xy(0, 6)} {
		_, ok := g.VertexAt(c)
		require.True(t, ok, "共享边界上的交点(%v,%v)", c.X, c.Y)
	}
	mustVerify(t, g)
}

// 合并顺序不影响最终剖分
func TestMergePolygonCommutative(t *testing.T) {
	polys := scenarioPolygons()
	orders := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	var want counts
	for i, order := range orders {
		g := NewHalfedgeGraph()
		for _, idx := range order {
			_, err := g.MergePolygon(polys[idx])
			require.NoError(t, err)
		}
		got := snapshot(g)
		if i == 0 {
			want = got
		} else {
			require.Equal(t, want, got, "顺序%v得到不同的剖分", order)
		}
		mustVerify(t, g)
	}
}

// 岛屿插入：新面完全落在既有面内部
func TestMergePolygonIsland(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.MergePolygon(squarePoly(0, 0, 10))
	require.NoError(t, err)
	faces, err := g.MergePolygon(squarePoly(4, 4, 2))
	require.NoError(t, err)

	require.Len(t, faces, 1)
	require.Equal(t, counts{V: 8, E: 8, H: 16, F: 2}, snapshot(g))

	outer := facesByArea(g)[1]
	island := facesByArea(g)[0]
	require.Len(t, outer.Holes(), 1, "外面应记录岛屿边界为洞")
	require.Empty(t, island.Holes())
	require.True(t, outer.IsAdjacent(island))
	mustVerify(t, g)
}

// 大面覆盖既有小面，小面成为岛屿
func TestMergePolygonContainsExisting(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.AddPolygon(squarePoly(4, 4, 2))
	require.NoError(t, err)
	faces, err := g.MergePolygon(squarePoly(0, 0, 10))
	require.NoError(t, err)

	require.Len(t, faces, 2, "覆盖范围含既有小面与环绕区域")
	require.Equal(t, counts{V: 8, E: 8, H: 16, F: 2}, snapshot(g))
	require.Len(t, facesByArea(g)[1].Holes(), 1)
	mustVerify(t, g)
}

// 洞被两个三角形精确填满，外面不再直接围住空洞
func TestMergePolygonHoleFill(t *testing.T) {
	g := NewHalfedgeGraph()
	donut := Polygon{
		Shell: squareRing(0, 0, 4),
		Holes: [][]Coordinate{squareRing(1, 1, 2)},
	}
	_, err := g.AddPolygon(donut)
	require.NoError(t, err)

	t1 := Polygon{Shell: []Coordinate{xy(1, 1), xy(3, 1), xy(3, 3)}}
	t2 := Polygon{Shell: []Coordinate{xy(1, 1), xy(3, 3), xy(1, 3)}}
	_, err = g.MergePolygon(t1)
	require.NoError(t, err)
	_, err = g.MergePolygon(t2)
	require.NoError(t, err)

	require.Equal(t, 3, g.FaceCount())
	// 9条边：外正方形4 + 洞正方形4 + 对角线1
	require.Equal(t, counts{V: 8, E: 9, H: 18, F: 3}, snapshot(g))

	ordered := facesByArea(g)
	ring, triA, triB := ordered[2], ordered[1], ordered[0]
	require.Len(t, ring.Holes(), 1, "环形面保留内边界环")
	require.Empty(t, triA.Holes())
	require.Empty(t, triB.Holes())
	require.True(t, triA.IsAdjacent(triB))
	require.True(t, ring.IsAdjacent(triA))
	require.True(t, ring.IsAdjacent(triB))

	// 两个三角形共享同一条对角线边实例
	diag := func(f Face) (Edge, bool) {
		for _, e := range f.Edges() {
			u, v := e.Vertices()
			if u.Position().X == u.Position().Y && v.Position().X == v.Position().Y {
				return e, true
			}
		}
		return Edge{}, false
	}
	da, oka := diag(triA)
	db, okb := diag(triB)
	require.True(t, oka)
	require.True(t, okb)
	require.Equal(t, da, db)
	mustVerify(t, g)
}

// 自相交环被拒绝且不留局部修改
func TestMergePolygonRejectsSelfIntersection(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.MergePolygon(squarePoly(0, 0, 2))
	require.NoError(t, err)
	before := snapshot(g)

	_, err = g.MergePolygon(Polygon{Shell: []Coordinate{xy(0, 0), xy(2, 2), xy(2, 0), xy(0, 3)}})
	var ge *GeometryError
	require.ErrorAs(t, err, &ge)
	require.Equal(t, before, snapshot(g))
	mustVerify(t, g)
}

// facesByArea 按外环面积从小到大返回全部面
func facesByArea(g *HalfedgeGraph) []Face {
	faces := g.Faces()
	for i := 0; i < len(faces); i++ {
		for j := i + 1; j < len(faces); j++ {
			if signedAreaOf(faces[j].OuterRing()) < signedAreaOf(faces[i].OuterRing()) {
				faces[i], faces[j] = faces[j], faces[i]
			}
		}
	}
	return faces
}
