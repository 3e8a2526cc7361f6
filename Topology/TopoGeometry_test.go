package Topology

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignedAreaAndOrientation(t *testing.T) {
	sq := squareRing(0, 0, 1)
	require.Equal(t, 1.0, signedAreaOf(sq))
	require.False(t, isClockwiseRing(sq))

	reverseRing(sq)
	require.Equal(t, -1.0, signedAreaOf(sq))
	require.True(t, isClockwiseRing(sq))

	tri := []Coordinate{xy(0, 0), xy(4, 0), xy(0, 3)}
	require.Equal(t, 6.0, signedAreaOf(tri))

	require.Equal(t, 0.0, signedAreaOf([]Coordinate{xy(0, 0), xy(1, 1)}))
}

func TestParamAlong(t *testing.T) {
	// 横向为主轴
	require.Equal(t, 0.25, paramAlong(xy(0, 0), xy(10, 0), xy(2.5, 0)))
	// 纵向为主轴
	require.Equal(t, 0.75, paramAlong(xy(0, 0), xy(0, 4), xy(0, 3)))
	// 对角线
	require.Equal(t, 0.25, paramAlong(xy(0, 0), xy(2, 2), xy(0.5, 0.5)))
	// 退化线段
	require.Equal(t, 0.0, paramAlong(xy(1, 1), xy(1, 1), xy(5, 5)))
}

func TestSegmentIntersectionsProper(t *testing.T) {
	// 一般相交，Z沿第一条线段插值
	a0 := Coordinate{X: 0, Y: 0, Z: 0}
	a1 := Coordinate{X: 2, Y: 2, Z: 2}
	pts := segmentIntersections(a0, a1, Coordinate{X: 0, Y: 2, Z: 5}, Coordinate{X: 2, Y: 0, Z: 5})
	require.Equal(t, []Coordinate{{X: 1, Y: 1, Z: 1}}, pts)

	// T形接触算作相交
	pts = segmentIntersections(xy(0, 0), xy(2, 0), xy(1, 0), xy(1, 1))
	require.Equal(t, []Coordinate{xy(1, 0)}, pts)

	// 端点相接
	pts = segmentIntersections(xy(0, 0), xy(1, 0), xy(1, 0), xy(1, 1))
	require.Equal(t, []Coordinate{xy(1, 0)}, pts)

	// 延长线上相交不算
	require.Empty(t, segmentIntersections(xy(0, 0), xy(1, 1), xy(3, 0), xy(0, 3)))
}

func TestSegmentIntersectionsCollinear(t *testing.T) {
	// 平行不共线
	require.Empty(t, segmentIntersections(xy(0, 0), xy(1, 0), xy(0, 1), xy(1, 1)))

	// 共线但分离
	require.Empty(t, segmentIntersections(xy(0, 0), xy(1, 0), xy(2, 0), xy(3, 0)))

	// 共线端点相接，退化为单点
	pts := segmentIntersections(xy(0, 0), xy(1, 0), xy(1, 0), xy(2, 0))
	require.Equal(t, []Coordinate{xy(1, 0)}, pts)

	// 共线重叠，返回重叠区间两端
	pts = segmentIntersections(xy(0, 0), xy(2, 0), xy(1, 0), xy(3, 0))
	require.Equal(t, []Coordinate{xy(1, 0), xy(2, 0)}, pts)

	// 方向相反不影响结果
	pts = segmentIntersections(xy(0, 0), xy(2, 0), xy(3, 0), xy(1, 0))
	require.Equal(t, []Coordinate{xy(1, 0), xy(2, 0)}, pts)

	// 完全包含
	pts = segmentIntersections(xy(0, 0), xy(3, 0), xy(1, 0), xy(2, 0))
	require.Equal(t, []Coordinate{xy(1, 0), xy(2, 0)}, pts)

	// 双方都退化为点
	require.Empty(t, segmentIntersections(xy(1, 1), xy(1, 1), xy(1, 1), xy(1, 1)))
}

func TestPointInRing(t *testing.T) {
	sq := squareRing(0, 0, 2)
	require.True(t, pointInRing(xy(1, 1), sq))
	require.False(t, pointInRing(xy(3, 1), sq))
	require.False(t, pointInRing(xy(-0.5, 1), sq))

	// 凹形环，凹口处在外部
	l := []Coordinate{xy(0, 0), xy(2, 0), xy(2, 1), xy(1, 1), xy(1, 2), xy(0, 2)}
	require.True(t, pointInRing(xy(0.5, 0.5), l))
	require.True(t, pointInRing(xy(1.5, 0.5), l))
	require.False(t, pointInRing(xy(1.5, 1.5), l))

	require.False(t, pointInRing(xy(0, 0), []Coordinate{xy(0, 0), xy(1, 1)}))
}

func TestPointInPolygonRings(t *testing.T) {
	shell := squareRing(0, 0, 4)
	hole := squareRing(1, 1, 2)

	require.True(t, pointInPolygonRings(xy(0.5, 0.5), shell, [][]Coordinate{hole}))
	// 洞内视为不在多边形内
	require.False(t, pointInPolygonRings(xy(2, 2), shell, [][]Coordinate{hole}))
	require.False(t, pointInPolygonRings(xy(5, 5), shell, [][]Coordinate{hole}))
}

func TestRingSelfIntersects(t *testing.T) {
	require.False(t, ringSelfIntersects(squareRing(0, 0, 1)))

	// 边上带共线中间点的环是合法的
	row := []Coordinate{xy(0, 0), xy(0.5, 0), xy(1, 0), xy(1, 1), xy(0, 1)}
	require.False(t, ringSelfIntersects(row))

	// 蝴蝶结
	bowtie := []Coordinate{xy(0, 0), xy(2, 2), xy(2, 0), xy(0, 3)}
	require.True(t, ringSelfIntersects(bowtie))

	// 相邻边折返重叠
	spike := []Coordinate{xy(0, 0), xy(2, 0), xy(1, 0), xy(1, 1)}
	require.True(t, ringSelfIntersects(spike))

	// 顶点落在不相邻边的内部
	pinch := []Coordinate{xy(0, 0), xy(4, 0), xy(4, 4), xy(2, 0), xy(0, 4)}
	require.True(t, ringSelfIntersects(pinch))
}

func TestPointOnRing(t *testing.T) {
	sq := squareRing(0, 0, 1)
	require.True(t, pointOnRing(xy(0.5, 0), sq))
	require.True(t, pointOnRing(xy(1, 1), sq))
	require.False(t, pointOnRing(xy(0.5, 0.5), sq))
	require.False(t, pointOnRing(xy(0.5, 1e-6), sq))
}

func TestDistToSegment(t *testing.T) {
	// 垂足在线段内
	require.Equal(t, 1.0, distToSegment(xy(1, 1), xy(0, 0), xy(2, 0)))
	// 垂足在线段外，取端点距离
	require.InDelta(t, math.Sqrt2, distToSegment(xy(3, 1), xy(0, 0), xy(2, 0)), 1e-12)
	// 线段退化为点
	require.Equal(t, 5.0, distToSegment(xy(4, 5), xy(1, 1), xy(1, 1)))
}

func TestRingContainsCycle(t *testing.T) {
	outer := squareRing(0, 0, 2)

	require.True(t, ringContainsCycle(outer, squareRing(0.5, 0.5, 1)))
	require.False(t, ringContainsCycle(outer, squareRing(5, 5, 1)))
	// 外环反而更小时不包含
	require.False(t, ringContainsCycle(squareRing(0.5, 0.5, 1), outer))

	// 内环与外环共边，靠边中点探测仍判定包含
	require.True(t, ringContainsCycle(outer, squareRing(0, 0, 1)))

	// 完全重合的环不构成包含
	require.False(t, ringContainsCycle(outer, squareRing(0, 0, 2)))
}

func TestCwAngleDistance(t *testing.T) {
	require.InDelta(t, math.Pi/4, angleOf(xy(0, 0), xy(1, 1)), 1e-12)

	// 北到东是四分之一圈
	require.InDelta(t, math.Pi/2, cwAngleDistance(math.Pi/2, 0), 1e-12)
	// 东到北要走四分之三圈
	require.InDelta(t, 3*math.Pi/2, cwAngleDistance(0, math.Pi/2), 1e-12)
	// 同角视为整圈，保证结果落在(0, 2π]
	require.InDelta(t, 2*math.Pi, cwAngleDistance(1.0, 1.0), 1e-12)
	// 跨越±π
	require.InDelta(t, math.Pi/2, cwAngleDistance(-3*math.Pi/4, 3*math.Pi/4), 1e-12)
}
