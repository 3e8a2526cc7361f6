package Topology

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ringToOrb 把坐标环转成首尾闭合的orb.Ring，Z分量丢弃
func ringToOrb(coords []Coordinate) orb.Ring {
	r := make(orb.Ring, 0, len(coords)+1)
	for _, c := range coords {
		r = append(r, orb.Point{c.X, c.Y})
	}
	if len(r) > 0 {
		r = append(r, r[0])
	}
	return r
}

// orbRingToCoords 把orb.Ring转成坐标环，去掉闭合重复点
func orbRingToCoords(r orb.Ring) []Coordinate {
	n := len(r)
	if n > 1 && r[0] == r[n-1] {
		n--
	}
	out := make([]Coordinate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Coordinate{X: r[i].X(), Y: r[i].Y()})
	}
	return out
}

// ToOrb 导出面的外环与洞环
func (f Face) ToOrb() orb.Polygon {
	poly := orb.Polygon{ringToOrb(f.OuterRing())}
	for _, h := range f.HoleRings() {
		poly = append(poly, ringToOrb(h))
	}
	return poly
}

// ToOrb 导出全图的面集合
func (g *HalfedgeGraph) ToOrb() orb.MultiPolygon {
	var mp orb.MultiPolygon
	for _, f := range g.Faces() {
		mp = append(mp, f.ToOrb())
	}
	return mp
}

// PolygonFromOrb 把orb多边形转成拓扑输入多边形
func PolygonFromOrb(p orb.Polygon) Polygon {
	var poly Polygon
	if len(p) > 0 {
		poly.Shell = orbRingToCoords(p[0])
	}
	for _, r := range p[1:] {
		poly.Holes = append(poly.Holes, orbRingToCoords(r))
	}
	return poly
}

// MergeOrb 按几何类型把orb几何叠置合并进图
// 面要素走MergePolygon，线要素按裸边链插入后重推面归属，点要素作孤立点
func (g *HalfedgeGraph) MergeOrb(geom orb.Geometry) error {
	switch gm := geom.(type) {
	case orb.Point:
		g.AddPoint(Coordinate{X: gm.X(), Y: gm.Y()})
	case orb.MultiPoint:
		for _, p := range gm {
			g.AddPoint(Coordinate{X: p.X(), Y: p.Y()})
		}
	case orb.LineString:
		if err := g.mergeLine(gm); err != nil {
			return err
		}
		g.rederiveFaces(nil, nil, nil)
	case orb.MultiLineString:
		for _, ls := range gm {
			if err := g.mergeLine(ls); err != nil {
				return err
			}
		}
		g.rederiveFaces(nil, nil, nil)
	case orb.Ring:
		_, err := g.MergePolygon(Polygon{Shell: orbRingToCoords(gm)})
		return err
	case orb.Polygon:
		_, err := g.MergePolygon(PolygonFromOrb(gm))
		return err
	case orb.MultiPolygon:
		for _, p := range gm {
			if _, err := g.MergePolygon(PolygonFromOrb(p)); err != nil {
				return err
			}
		}
	case orb.Collection:
		for _, sub := range gm {
			if err := g.MergeOrb(sub); err != nil {
				return err
			}
		}
	case orb.Bound:
		return g.MergeOrb(gm.ToPolygon())
	default:
		return newGeometryError("不支持的几何类型%s", geom.GeoJSONType())
	}
	return nil
}

func (g *HalfedgeGraph) mergeLine(ls orb.LineString) error {
	for i := 0; i+1 < len(ls); i++ {
		a := Coordinate{X: ls[i].X(), Y: ls[i].Y()}
		b := Coordinate{X: ls[i+1].X(), Y: ls[i+1].Y()}
		if err := g.insertSegmentWithOverlay(a, b, nil); err != nil {
			return err
		}
	}
	return nil
}

// Bound 计算全图顶点范围
func (g *HalfedgeGraph) Bound() orb.Bound {
	b := orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{-1, -1}}
	first := true
	for i := range g.vertices {
		if !g.vertices[i].alive {
			continue
		}
		p := orb.Point{g.vertices[i].position.X, g.vertices[i].position.Y}
		if first {
			b = orb.Bound{Min: p, Max: p}
			first = false
		} else {
			b = b.Extend(p)
		}
	}
	return b
}

// ToFeatureCollection 把图导出为GeoJSON要素集
// 每个面一个要素，带面积与洞数属性；孤立点顶点各出一个点要素
func (g *HalfedgeGraph) ToFeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range g.Faces() {
		poly := f.ToOrb()
		feat := geojson.NewFeature(poly)
		feat.Properties = geojson.Properties{
			"fid":   int(f.id),
			"area":  planar.Area(poly),
			"holes": len(f.HoleRings()),
		}
		fc.Append(feat)
	}
	for _, v := range g.Vertices() {
		if !g.vertices[v.id].isPoint || !v.IsIsolated() {
			continue
		}
		feat := geojson.NewFeature(orb.Point{v.Position().X, v.Position().Y})
		feat.Properties = geojson.Properties{"kind": "point"}
		fc.Append(feat)
	}
	return fc
}

// EdgesToFeatureCollection 把图的边导出为GeoJSON线要素集，附带两侧面归属
func (g *HalfedgeGraph) EdgesToFeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, e := range g.Edges() {
		u, v := e.Vertices()
		ls := orb.LineString{
			{u.Position().X, u.Position().Y},
			{v.Position().X, v.Position().Y},
		}
		fa, fb := e.FaceA(), e.FaceB()
		feat := geojson.NewFeature(ls)
		feat.Properties = geojson.Properties{
			"left":  int(fa.id),
			"right": int(fb.id),
		}
		fc.Append(feat)
	}
	return fc
}
