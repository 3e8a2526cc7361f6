package tiles

import (
	"fmt"
	"time"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/GrainArc/GeoTopo/config"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/project"
	"github.com/paulmach/orb/simplify"
)

// 瓦片图层名
const (
	FaceLayer  = "face"
	EdgeLayer  = "edge"
	PointLayer = "point"
)

// 瓦片外扩比例，避免裁切把边界要素切丢
const tileBuffer = 0.1

// filterByBound 先按范围粗筛，范围外的要素不进瓦片
func filterByBound(fc *geojson.FeatureCollection, bound orb.Bound) *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	for _, feat := range fc.Features {
		if feat.Geometry == nil {
			continue
		}
		if bound.Intersects(feat.Geometry.Bound()) {
			out.Append(feat)
		}
	}
	return out
}

// layerCollections 面、边、孤立点拆成三个要素集
func layerCollections(g *Topology.HalfedgeGraph, bound orb.Bound) map[string]*geojson.FeatureCollection {
	faces := geojson.NewFeatureCollection()
	points := geojson.NewFeatureCollection()
	for _, feat := range g.ToFeatureCollection().Features {
		if _, ok := feat.Geometry.(orb.Point); ok {
			points.Append(feat)
		} else {
			faces.Append(feat)
		}
	}
	return map[string]*geojson.FeatureCollection{
		FaceLayer:  filterByBound(faces, bound),
		EdgeLayer:  filterByBound(g.EdgesToFeatureCollection(), bound),
		PointLayer: filterByBound(points, bound),
	}
}

// GraphTile 把拓扑图切成一张MVT瓦片
func GraphTile(g *Topology.HalfedgeGraph, z, x, y uint32) ([]byte, error) {
	t := maptile.New(x, y, maptile.Zoom(z))
	layers := mvt.NewLayers(layerCollections(g, t.Bound(tileBuffer)))
	layers.ProjectToTile(t)
	layers.Clip(mvt.MapboxGLDefaultExtentBound)
	layers.Simplify(simplify.DouglasPeucker(1.0))
	layers.RemoveEmpty(1.0, 1.0)
	return mvt.Marshal(layers)
}

// TileEnvelope 瓦片在EPSG:3857下的包络范围
func TileEnvelope(z, x, y uint32) orb.Bound {
	t := maptile.New(x, y, maptile.Zoom(z))
	return project.Bound(t.Bound(), project.WGS84.ToMercator)
}

// TileServer 带内存缓存的矢量瓦片服务
type TileServer struct {
	cache *TileCache
}

// NewTileServer 创建瓦片服务，容量取配置项
func NewTileServer() *TileServer {
	return &TileServer{cache: NewTileCache(config.TileCacheSize, 10*time.Minute)}
}

// Tile 取某会话图形的一张瓦片，命中缓存直接返回
func (s *TileServer) Tile(name string, g *Topology.HalfedgeGraph, z, x, y uint32) ([]byte, error) {
	key := fmt.Sprintf("%s_%d_%d_%d", name, z, x, y)
	if data, ok := s.cache.Get(key); ok {
		return data, nil
	}
	data, err := GraphTile(g, z, x, y)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, data)
	return data, nil
}

// Invalidate 图形编辑后丢弃该会话的全部瓦片
func (s *TileServer) Invalidate(name string) {
	s.cache.InvalidatePrefix(name + "_")
}

// CacheSize 当前缓存瓦片数
func (s *TileServer) CacheSize() int {
	return s.cache.Size()
}

// Clear 清空全部缓存瓦片
func (s *TileServer) Clear() {
	s.cache.Clear()
}
