package Transformer

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rpaloschi/dxf-go/document"
	"github.com/rpaloschi/dxf-go/entities"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/entity"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

const (
	tolerance = 1e-6 // 浮点数比较容差
)

func GbkToUtf8(s string) string {
	gbkDecoder := simplifiedchinese.GBK.NewDecoder()
	utf8String, _, err := transform.String(gbkDecoder, s)
	if err != nil {
		return s
	}
	return utf8String
}

func Utf8ToGbk(input string) []byte {
	gbkEncoder := simplifiedchinese.GBK.NewEncoder()
	var output bytes.Buffer
	writer := transform.NewWriter(&output, gbkEncoder)

	if _, err := writer.Write([]byte(input)); err != nil {
		return nil
	}
	if err := writer.Close(); err != nil {
		return nil
	}

	return output.Bytes()
}

func pointsEqual(p1, p2 orb.Point) bool {
	return math.Abs(p1[0]-p2[0]) < tolerance && math.Abs(p1[1]-p2[1]) < tolerance
}

func isClosedLine(coords []orb.Point) bool {
	if len(coords) < 2 {
		return false
	}
	return pointsEqual(coords[0], coords[len(coords)-1])
}

// createFeature 按闭合与否构造面或线要素
func createFeature(coords []orb.Point, layerName string, forceClosed bool) *geojson.Feature {
	if len(coords) < 2 {
		return nil
	}

	shouldBePolygon := forceClosed || isClosedLine(coords)

	if shouldBePolygon {
		closedCoords := coords
		if !pointsEqual(coords[0], coords[len(coords)-1]) {
			closedCoords = append([]orb.Point{}, coords...)
			closedCoords = append(closedCoords, coords[0])
		}

		if len(closedCoords) >= 4 {
			polygon := orb.Polygon{closedCoords}
			feature := geojson.NewFeature(polygon)
			feature.Properties["layername"] = GbkToUtf8(layerName)
			return feature
		}
	}

	line := orb.LineString(coords)
	feature := geojson.NewFeature(line)
	feature.Properties["layername"] = GbkToUtf8(layerName)
	return feature
}

func polylineCoords(polyline *entities.Polyline) []orb.Point {
	var coords []orb.Point
	for _, vertex := range polyline.Vertices {
		coords = append(coords, orb.Point{vertex.Location.X, vertex.Location.Y})
	}
	return coords
}

func lwPolylineCoords(lwpolyline *entities.LWPolyline) []orb.Point {
	var coords []orb.Point
	for _, vertex := range lwpolyline.Points {
		coords = append(coords, orb.Point{vertex.Point.X, vertex.Point.Y})
	}
	return coords
}

// ConvertDXFToGeoJSON 读取DXF中的多段线实体为GeoJSON要素集
// 闭合多段线转面，未闭合转线，块内实体一并处理
func ConvertDXFToGeoJSON(dxfFilePath string) (*geojson.FeatureCollection, error) {
	file, err := os.Open(dxfFilePath)
	if err != nil {
		return nil, fmt.Errorf("打开DXF失败: %w", err)
	}
	defer file.Close()

	doc, err := document.DxfDocumentFromStream(file)
	if err != nil {
		return nil, fmt.Errorf("解析DXF失败: %w", err)
	}
	featureCollection := geojson.NewFeatureCollection()

	appendEntity := func(e entities.Entity) {
		if polyline, ok := e.(*entities.Polyline); ok {
			if feature := createFeature(polylineCoords(polyline), polyline.LayerName, false); feature != nil {
				featureCollection.Append(feature)
			}
		} else if lwpolyline, ok := e.(*entities.LWPolyline); ok {
			if feature := createFeature(lwPolylineCoords(lwpolyline), lwpolyline.LayerName, lwpolyline.Closed); feature != nil {
				featureCollection.Append(feature)
			}
		}
	}

	for _, e := range doc.Entities.Entities {
		appendEntity(e)
	}

	// 块内实体
	for _, block := range doc.Blocks {
		for _, e := range block.Entities {
			appendEntity(e)
		}
	}

	return featureCollection, nil
}

// CADToTopology 读取DXF并叠置合并进新图
func CADToTopology(dxfFilePath string, pm Topology.Precision) (*Topology.HalfedgeGraph, error) {
	fc, err := ConvertDXFToGeoJSON(dxfFilePath)
	if err != nil {
		return nil, err
	}
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

func addRingToDrawing(d *drawing.Drawing, ring []Topology.Coordinate) {
	lwp := entity.NewLwPolyline(len(ring) + 1)
	for j, pt := range ring {
		lwp.Vertices[j] = []float64{pt.X, pt.Y}
	}
	if len(ring) > 0 {
		lwp.Vertices[len(ring)] = []float64{ring[0].X, ring[0].Y}
	}
	d.AddEntity(lwp)
}

// TopologyToCAD 把图导出为DXF
// 面外环写入Face层，洞环写入Hole层，裸边写入Edge层
func TopologyToCAD(g *Topology.HalfedgeGraph, outputFilename string) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0

	d.AddLayer("Face", color.Red, dxf.DefaultLineType, true)
	d.ChangeLayer("Face")
	for _, f := range g.Faces() {
		addRingToDrawing(d, f.OuterRing())
	}

	d.AddLayer("Hole", color.Yellow, dxf.DefaultLineType, true)
	d.ChangeLayer("Hole")
	for _, f := range g.Faces() {
		for _, hole := range f.HoleRings() {
			addRingToDrawing(d, hole)
		}
	}

	d.AddLayer("Edge", color.Cyan, dxf.DefaultLineType, true)
	d.ChangeLayer("Edge")
	for _, e := range g.Edges() {
		if !e.FaceA().IsNil() || !e.FaceB().IsNil() {
			continue
		}
		u, v := e.Vertices()
		lwp := entity.NewLwPolyline(2)
		lwp.Vertices[0] = []float64{u.Position().X, u.Position().Y}
		lwp.Vertices[1] = []float64{v.Position().X, v.Position().Y}
		d.AddEntity(lwp)
	}

	return d.SaveAs(outputFilename)
}
