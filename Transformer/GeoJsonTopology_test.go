package Transformer

import (
	"testing"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"
)

func closedSquare(x0, y0, s float64) orb.Ring {
	return orb.Ring{{x0, y0}, {x0 + s, y0}, {x0 + s, y0 + s}, {x0, y0 + s}, {x0, y0}}
}

func TestGeoJsonToTopologyAdjacentSquares(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Polygon{closedSquare(0, 0, 1)}))
	fc.Append(geojson.NewFeature(orb.Polygon{closedSquare(1, 0, 1)}))

	g, err := GeoJsonToTopology(fc, nil)
	require.NoError(t, err)
	require.Equal(t, 2, g.FaceCount())
	require.Equal(t, 6, g.VertexCount())
	require.Equal(t, 7, g.EdgeCount())
	require.NoError(t, g.VerifyTopology())
}

func TestGeoJsonToTopologySkipsEmptyGeometry(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(&geojson.Feature{Type: "Feature"})

	g, err := GeoJsonToTopology(fc, nil)
	require.NoError(t, err)
	require.Equal(t, 0, g.FaceCount())
	require.Equal(t, 0, g.VertexCount())
}

// 导出面要素带量算属性，孤立点单独成点要素，base键并入每个要素
func TestTopologyToGeoJsonProperties(t *testing.T) {
	g := Topology.NewHalfedgeGraph()
	shell := []Topology.Coordinate{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	_, err := g.MergePolygon(Topology.Polygon{Shell: shell})
	require.NoError(t, err)
	g.AddPoint(Topology.Coordinate{X: 9, Y: 9})

	fc := TopologyToGeoJson(g, map[string]interface{}{"layername": "测试图层"})
	require.Len(t, fc.Features, 2)

	var face, point *geojson.Feature
	for _, f := range fc.Features {
		if _, ok := f.Geometry.(orb.Polygon); ok {
			face = f
		} else {
			point = f
		}
	}
	require.NotNil(t, face)
	require.NotNil(t, point)

	require.Equal(t, "测试图层", face.Properties["layername"])
	require.InDelta(t, 4.0, face.Properties["面积"].(float64), 1e-9)
	require.InDelta(t, 8.0, face.Properties["周长"].(float64), 1e-9)
	require.Equal(t, 0, face.Properties["洞数"])

	require.Equal(t, "测试图层", point.Properties["layername"])
	require.Equal(t, "point", point.Properties["kind"])
}
