package Transformer

import (
	"fmt"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/GrainArc/GeoTopo/methods"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// GeoJsonToTopology 把要素集逐个叠置合并进新图
func GeoJsonToTopology(fc *geojson.FeatureCollection, pm Topology.Precision) (*Topology.HalfedgeGraph, error) {
	g := Topology.NewHalfedgeGraphWithPrecision(pm)
	for i, feature := range fc.Features {
		if feature.Geometry == nil {
			continue
		}
		if err := g.MergeOrb(feature.Geometry); err != nil {
			return nil, fmt.Errorf("第%d个要素合并失败: %w", i, err)
		}
	}
	return g, nil
}

// TopologyToGeoJson 导出带量算属性的面要素集
// 每个面附带fid、面积、周长、质心与洞数，base中的键合并进每个要素
func TopologyToGeoJson(g *Topology.HalfedgeGraph, base map[string]interface{}) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range g.Faces() {
		poly := f.ToOrb()
		centroid, area := planar.CentroidArea(poly)

		feature := geojson.NewFeature(poly)
		props := make(map[string]interface{})
		props["fid"] = int(f.ID())
		props["面积"] = area
		props["周长"] = planar.Length(poly)
		props["质心x"] = centroid[0]
		props["质心y"] = centroid[1]
		props["洞数"] = len(poly) - 1
		feature.Properties = methods.MergeMaps(base, props)
		fc.Append(feature)
	}

	for _, v := range g.Vertices() {
		if !v.IsIsolated() {
			continue
		}
		pos := v.Position()
		feature := geojson.NewFeature(orb.Point{pos.X, pos.Y})
		feature.Properties = methods.MergeMaps(base, map[string]interface{}{"kind": "point"})
		fc.Append(feature)
	}
	return fc
}
