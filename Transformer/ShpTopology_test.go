package Transformer

import (
	"testing"

	"gitee.com/LJ_COOL/go-shp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func shpPt(x, y float64) shp.Point {
	return shp.Point{X: x, Y: y}
}

func TestIsClockwise(t *testing.T) {
	cw := []orb.Point{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
	ccw := []orb.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	require.True(t, IsClockwise(cw))
	require.False(t, IsClockwise(ccw))
}

func TestSplitPoints(t *testing.T) {
	points := []shp.Point{shpPt(0, 0), shpPt(1, 0), shpPt(2, 0), shpPt(3, 0), shpPt(4, 0), shpPt(5, 0)}
	rings := SplitPoints(points, []int32{0, 4})
	require.Len(t, rings, 2)
	require.Len(t, rings[0], 4)
	require.Len(t, rings[1], 2)
}

// shp约定外环顺时针、洞环逆时针，洞要归到前面最近的外环
func TestPolygonFromPartsWithHole(t *testing.T) {
	outer := []shp.Point{shpPt(0, 0), shpPt(0, 10), shpPt(10, 10), shpPt(10, 0), shpPt(0, 0)}
	hole := []shp.Point{shpPt(2, 2), shpPt(4, 2), shpPt(4, 4), shpPt(2, 4), shpPt(2, 2)}
	points := append(append([]shp.Point{}, outer...), hole...)

	mp := polygonFromParts(points, []int32{0, 5})
	require.Len(t, mp, 1)
	require.Len(t, mp[0], 2)
}

func TestDbfFieldName(t *testing.T) {
	require.Equal(t, "dkbh", dbfFieldName("地块编号"))
	require.Equal(t, "mj", dbfFieldName("面积"))
	require.Equal(t, "abcdefghij", dbfFieldName("abcdefghijkl"))
}
