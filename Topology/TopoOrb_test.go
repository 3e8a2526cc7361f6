package Topology

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/require"
)

func TestFaceToOrbRoundTrip(t *testing.T) {
	g := NewHalfedgeGraph()
	f, err := g.AddPolygon(Polygon{
		Shell: squareRing(0, 0, 4),
		Holes: [][]Coordinate{squareRing(1, 1, 2)},
	})
	require.NoError(t, err)

	poly := f.ToOrb()
	require.Len(t, poly, 2)
	// 导出环首尾闭合
	require.Len(t, poly[0], 5)
	require.Equal(t, poly[0][0], poly[0][4])
	require.Equal(t, 12.0, planar.Area(poly))

	back := PolygonFromOrb(poly)
	require.ElementsMatch(t, squareRing(0, 0, 4), back.Shell)
	require.Len(t, back.Holes, 1)
	require.ElementsMatch(t, squareRing(1, 1, 2), back.Holes[0])
}

func TestMergeOrbMultiPolygon(t *testing.T) {
	g := NewHalfedgeGraph()
	mp := orb.MultiPolygon{
		{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}},
		{orb.Ring{{3, 0}, {4, 0}, {4, 1}, {3, 1}, {3, 0}}},
	}
	require.NoError(t, g.MergeOrb(mp))
	require.Equal(t, 2, g.FaceCount())

	out := g.ToOrb()
	require.Len(t, out, 2)
	require.Equal(t, 2.0, planar.Area(out))
	mustVerify(t, g)
}

func TestMergeOrbPointsAndBound(t *testing.T) {
	g := NewHalfedgeGraph()
	require.NoError(t, g.MergeOrb(orb.Point{5, 5}))
	require.NoError(t, g.MergeOrb(orb.MultiPoint{{6, 6}, {7, 7}}))
	require.Equal(t, counts{V: 3}, snapshot(g))

	require.NoError(t, g.MergeOrb(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 1}}))
	require.Equal(t, counts{V: 7, E: 4, H: 8, F: 1}, snapshot(g))
	require.Equal(t, 2.0, planar.Area(g.ToOrb()))
	mustVerify(t, g)
}

// 对角线把面一分为二
func TestMergeOrbLineSplitsFace(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.AddPolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)

	require.NoError(t, g.MergeOrb(orb.LineString{{0, 0}, {1, 1}}))
	require.Equal(t, counts{V: 4, E: 5, H: 10, F: 2}, snapshot(g))
	for _, f := range g.Faces() {
		require.InDelta(t, 0.5, signedAreaOf(f.OuterRing()), 1e-12)
	}
	mustVerify(t, g)
}

// 横穿面的线在边界交点处拆边，面外残段保留为悬空链
func TestMergeOrbLineCrossing(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.AddPolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)

	require.NoError(t, g.MergeOrb(orb.LineString{{-0.5, 0.5}, {1.5, 0.5}}))
	require.Equal(t, counts{V: 8, E: 9, H: 18, F: 2}, snapshot(g))
	vMid, ok := g.VertexAt(xy(0, 0.5))
	require.True(t, ok)
	require.Equal(t, 4, vMid.Degree())
	vEnd, ok := g.VertexAt(xy(-0.5, 0.5))
	require.True(t, ok)
	require.Equal(t, 1, vEnd.Degree())
	for _, f := range g.Faces() {
		require.InDelta(t, 0.5, signedAreaOf(f.OuterRing()), 1e-12)
	}
	mustVerify(t, g)
}

func TestMergeOrbCollection(t *testing.T) {
	g := NewHalfedgeGraph()
	coll := orb.Collection{
		orb.Point{5, 5},
		orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}},
	}
	require.NoError(t, g.MergeOrb(coll))
	require.Equal(t, counts{V: 5, E: 4, H: 8, F: 1}, snapshot(g))
	v, ok := g.VertexAt(xy(5, 5))
	require.True(t, ok)
	require.True(t, v.IsIsolated())
	mustVerify(t, g)
}

func TestGraphBound(t *testing.T) {
	g := NewHalfedgeGraph()
	require.True(t, g.Bound().IsEmpty())

	_, err := g.AddPolygon(squarePoly(2, 3, 2))
	require.NoError(t, err)
	g.AddPoint(xy(-1, 7))

	b := g.Bound()
	require.Equal(t, orb.Point{-1, 3}, b.Min)
	require.Equal(t, orb.Point{4, 7}, b.Max)
}

func TestToFeatureCollection(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.AddPolygon(Polygon{
		Shell: squareRing(0, 0, 4),
		Holes: [][]Coordinate{squareRing(1, 1, 2)},
	})
	require.NoError(t, err)
	g.AddPoint(xy(9, 9))

	fc := g.ToFeatureCollection()
	require.Len(t, fc.Features, 2)

	f0 := fc.Features[0]
	require.Equal(t, "Polygon", f0.Geometry.GeoJSONType())
	require.Equal(t, 0, f0.Properties["fid"])
	require.Equal(t, 12.0, f0.Properties["area"])
	require.Equal(t, 1, f0.Properties["holes"])

	f1 := fc.Features[1]
	require.Equal(t, orb.Point{9, 9}, f1.Geometry)
	require.Equal(t, "point", f1.Properties["kind"])
}

func TestEdgesToFeatureCollection(t *testing.T) {
	g := NewHalfedgeGraph()
	_, err := g.AddPolygon(squarePoly(0, 0, 1))
	require.NoError(t, err)

	fc := g.EdgesToFeatureCollection()
	require.Len(t, fc.Features, 4)
	for _, ft := range fc.Features {
		require.Equal(t, "LineString", ft.Geometry.GeoJSONType())
		pair := []int{ft.Properties["left"].(int), ft.Properties["right"].(int)}
		// 每条边一侧是内部面，另一侧是无界面
		require.ElementsMatch(t, []int{0, -1}, pair)
	}
}
