package Topology

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedPrecisionRounding(t *testing.T) {
	p := FixedPrecision{Scale: 1000}
	c := p.MakePrecise(Coordinate{X: 1.23456, Y: -0.00049, Z: 7.6543})
	require.Equal(t, Coordinate{X: 1.235, Y: 0, Z: 7.654}, c)

	// Scale非法时退化为原样返回
	raw := Coordinate{X: 1.23456}
	require.Equal(t, raw, FixedPrecision{}.MakePrecise(raw))
}

func TestFloatingPrecisionIdentity(t *testing.T) {
	c := Coordinate{X: 0.1 + 0.2, Y: 3}
	require.Equal(t, c, FloatingPrecision{}.MakePrecise(c))
}

// 精度模型决定近邻点是否合并成同一顶点
func TestPrecisionControlsVertexIdentity(t *testing.T) {
	near := []Coordinate{{X: 1, Y: 1}, {X: 1.0000004, Y: 0.9999996}}

	// 浮点精度下是两个不同顶点
	g := NewHalfedgeGraph()
	g.AddPoint(near[0])
	g.AddPoint(near[1])
	require.Equal(t, 2, g.VertexCount())

	// 固定精度下折叠为同一顶点
	g2 := NewHalfedgeGraphWithPrecision(FixedPrecision{Scale: 1000})
	g2.AddPoint(near[0])
	g2.AddPoint(near[1])
	require.Equal(t, 1, g2.VertexCount())
}

// 固定精度下多边形顶点按格网对齐后参与拓扑
func TestPrecisionAppliedToPolygon(t *testing.T) {
	g := NewHalfedgeGraphWithPrecision(FixedPrecision{Scale: 10})
	shell := []Coordinate{
		{X: 0.01, Y: -0.02},
		{X: 1.04, Y: 0.03},
		{X: 0.98, Y: 1.02},
		{X: -0.04, Y: 0.97},
	}
	f, err := g.AddPolygon(Polygon{Shell: shell})
	require.NoError(t, err)

	want := []Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	require.ElementsMatch(t, want, f.OuterRing())
	mustVerify(t, g)
}

func TestNilPrecisionFallsBack(t *testing.T) {
	g := NewHalfedgeGraphWithPrecision(nil)
	g.AddPoint(Coordinate{X: 0.123456789, Y: 1})
	_, ok := g.VertexAt(Coordinate{X: 0.123456789, Y: 1})
	require.True(t, ok)
}
