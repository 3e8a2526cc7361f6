package Transformer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitee.com/LJ_COOL/go-shp"
	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/GrainArc/GeoTopo/methods"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// SplitPoints 按Parts索引把点序列拆成各环
func SplitPoints(points []shp.Point, parts []int32) [][]shp.Point {
	var rings [][]shp.Point
	for i, partIndex := range parts {
		start := partIndex
		var end int32
		if i < len(parts)-1 {
			end = parts[i+1]
		} else {
			end = int32(len(points))
		}
		rings = append(rings, points[start:end])
	}
	return rings
}

func IsClockwise(points []orb.Point) bool {
	sum := 0.0
	for i := 0; i < len(points)-1; i++ {
		p1 := points[i]
		p2 := points[i+1]
		sum += (p2[0] - p1[0]) * (p2[1] + p1[1])
	}
	return sum > 0
}

// splitParts 按外环位置分组，shp约定外环顺时针、洞环逆时针
func splitParts(parts []int32, outers []bool) [][]int32 {
	var result [][]int32
	var currentGroup []int32
	groupStarted := false
	for i, part := range parts {
		if outers[i] {
			if groupStarted {
				result = append(result, currentGroup)
			}
			currentGroup = []int32{part}
			groupStarted = true
		} else if groupStarted {
			currentGroup = append(currentGroup, part)
		}
	}
	if len(currentGroup) > 0 {
		result = append(result, currentGroup)
	}
	return result
}

// readCPGEncoding 读取cpg文件获取属性编码，缺省GBK
func readCPGEncoding(shpfilePath string) string {
	dir := filepath.Dir(shpfilePath)
	base := filepath.Base(shpfilePath)
	newBase := strings.TrimSuffix(base, filepath.Ext(base)) + ".cpg"
	cpgPath := filepath.Join(dir, newBase)

	cpgContent, err := os.ReadFile(cpgPath)
	if err != nil {
		// 无cpg时嗅探dbf内容
		return sniffDbfEncoding(shpfilePath)
	}
	return strings.TrimSpace(string(cpgContent))
}

func sniffDbfEncoding(shpfilePath string) string {
	dbfPath := strings.TrimSuffix(shpfilePath, filepath.Ext(shpfilePath)) + ".dbf"
	data, err := os.ReadFile(dbfPath)
	if err != nil {
		return "GBK"
	}
	enc := DetectEncoding(data)
	if strings.Contains(enc, "GB") || enc == "" {
		return "GBK"
	}
	return enc
}

// buildAttributes 读取一行dbf属性，按编码转换为UTF-8
func buildAttributes(n int, shape *shp.Reader, fields []shp.Field, encoding string) map[string]interface{} {
	attrs := make(map[string]interface{})
	for k, f := range fields {
		attrValue := shape.ReadAttribute(n, k)
		if encoding == "GBK" {
			attrs[GbkToUtf8(f.String())] = GbkToUtf8(attrValue)
		} else {
			attrs[f.String()] = attrValue
		}
	}
	if len(fields) == 0 {
		attrs["attribute"] = "null"
	}
	return attrs
}

func shpPointsToOrb(points []shp.Point) []orb.Point {
	coords := make([]orb.Point, len(points))
	for i, p := range points {
		coords[i] = orb.Point{p.X, p.Y}
	}
	return coords
}

// polygonFromParts 把多部件点集按环分组重建带洞多边形集合
func polygonFromParts(points []shp.Point, parts []int32) orb.MultiPolygon {
	rings := SplitPoints(points, parts)
	outers := make([]bool, len(rings))
	for i, ring := range rings {
		outers[i] = IsClockwise(shpPointsToOrb(ring))
	}
	groups := splitParts(createIndexSlice(int32(len(rings))), outers)

	var mp orb.MultiPolygon
	for _, group := range groups {
		var poly orb.Polygon
		for _, ri := range group {
			poly = append(poly, orb.Ring(shpPointsToOrb(rings[ri])))
		}
		mp = append(mp, poly)
	}
	return mp
}

func createIndexSlice(n int32) []int32 {
	indexSlice := make([]int32, 0, n)
	for i := int32(0); i < n; i++ {
		indexSlice = append(indexSlice, i)
	}
	return indexSlice
}

// ConvertSHPToGeoJSON 读取shapefile为GeoJSON要素集
func ConvertSHPToGeoJSON(shpfileFilePath string) (*geojson.FeatureCollection, error) {
	shape, err := shp.Open(shpfileFilePath)
	if err != nil {
		return nil, fmt.Errorf("打开shapefile失败: %w", err)
	}
	defer shape.Close()

	featureCollection := geojson.NewFeatureCollection()
	fields := shape.Fields()
	encoding := readCPGEncoding(shpfileFilePath)

	for shape.Next() {
		n, p := shape.Shape()

		var geom orb.Geometry
		switch s := p.(type) {
		case *shp.Point:
			geom = orb.Point{s.X, s.Y}
		case *shp.PointZ:
			geom = orb.Point{s.X, s.Y}
		case *shp.PointM:
			geom = orb.Point{s.X, s.Y}
		case *shp.PolyLine:
			geom = orb.LineString(shpPointsToOrb(s.Points))
		case *shp.PolyLineZ:
			geom = orb.LineString(shpPointsToOrb(s.Points))
		case *shp.PolyLineM:
			geom = orb.LineString(shpPointsToOrb(s.Points))
		case *shp.Polygon:
			geom = polygonFromParts(s.Points, s.Parts)
		case *shp.PolygonZ:
			geom = polygonFromParts(s.Points, s.Parts)
		case *shp.PolygonM:
			geom = polygonFromParts(s.Points, s.Parts)
		default:
			continue
		}

		feature := geojson.NewFeature(geom)
		feature.Properties = buildAttributes(n, shape, fields, encoding)
		featureCollection.Append(feature)
	}

	return featureCollection, nil
}

// ShpToTopology 读取shapefile并叠置合并进新图
// 面要素逐个MergePolygon，线要素作为边链，点要素作为孤立点
func ShpToTopology(shpfileFilePath string, pm Topology.Precision) (*Topology.HalfedgeGraph, error) {
	fc, err := ConvertSHPToGeoJSON(shpfileFilePath)
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

// dbfFieldName 生成dbf字段名，中文转拼音首字母并截断到10字节
func dbfFieldName(name string) string {
	en := methods.ConvertToInitials(name)
	if len(en) > 10 {
		en = en[:10]
	}
	return en
}

// TopologyToShp 把图导出为shapefile，面、线、点分文件
// 面文件写结果面及其洞，线文件写两侧均无面的裸边，点文件写孤立点
func TopologyToShp(g *Topology.HalfedgeGraph, shpfileFilePath string) error {
	fileName := filepath.Base(shpfileFilePath)
	rootName := fileName[0 : len(fileName)-len(filepath.Ext(fileName))]
	dirPath := filepath.Dir(shpfileFilePath)

	pathPolygon := filepath.Join(dirPath, rootName) + "_面.shp"
	pathLine := filepath.Join(dirPath, rootName) + "_线.shp"
	pathPoint := filepath.Join(dirPath, rootName) + "_点.shp"

	shpPolygon, err := shp.Create(pathPolygon, shp.POLYGON)
	if err != nil {
		return err
	}
	shpLine, err := shp.Create(pathLine, shp.POLYLINE)
	if err != nil {
		shpPolygon.Close()
		return err
	}
	shpPoint, err := shp.Create(pathPoint, shp.POINT)
	if err != nil {
		shpPolygon.Close()
		shpLine.Close()
		return err
	}
	defer shpPolygon.Close()
	defer shpLine.Close()
	defer shpPoint.Close()

	for _, suffix := range []string{"_面", "_线", "_点"} {
		createCpgFile(filepath.Join(dirPath, rootName) + suffix + ".cpg")
		createPrjFile(filepath.Join(dirPath, rootName) + suffix + ".prj")
	}

	fields := []shp.Field{
		shp.StringField(Utf8ToGbk(dbfFieldName("fid")), 55),
		shp.StringField(Utf8ToGbk(dbfFieldName("面积")), 55),
		shp.StringField(Utf8ToGbk(dbfFieldName("洞数")), 55),
	}
	shpPolygon.SetFields(fields)
	shpLine.SetFields(fields)
	shpPoint.SetFields(fields)

	writeAttrs := func(w *shp.Writer, row int, fid int, area float64, holes int) {
		w.WriteAttribute(row, 0, Utf8ToGbk(fmt.Sprintf("%d", fid)))
		w.WriteAttribute(row, 1, Utf8ToGbk(fmt.Sprintf("%.5f", area)))
		w.WriteAttribute(row, 2, Utf8ToGbk(fmt.Sprintf("%d", holes)))
	}

	pn := 0
	for i, f := range g.Faces() {
		poly := f.ToOrb()
		var PL [][]shp.Point
		for _, ring := range poly {
			var points []shp.Point
			for _, pt := range ring {
				points = append(points, shp.Point{X: pt[0], Y: pt[1]})
			}
			PL = append(PL, points)
		}
		shpPolygon.Write(shp.NewPolyLine(PL))
		writeAttrs(shpPolygon, pn, i, planar.Area(poly), len(poly)-1)
		pn++
	}

	ln := 0
	for _, e := range g.Edges() {
		if !e.FaceA().IsNil() || !e.FaceB().IsNil() {
			continue
		}
		u, v := e.Vertices()
		a, b := u.Position(), v.Position()
		PL := [][]shp.Point{{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}}}
		shpLine.Write(shp.NewPolyLine(PL))
		writeAttrs(shpLine, ln, ln, 0, 0)
		ln++
	}

	pon := 0
	for _, v := range g.Vertices() {
		if !v.IsIsolated() {
			continue
		}
		var NewPT shp.Point
		NewPT.X = v.Position().X
		NewPT.Y = v.Position().Y
		shpPoint.Write(&NewPT)
		writeAttrs(shpPoint, pon, pon, 0, 0)
		pon++
	}

	return nil
}

func createCpgFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("无法创建文件: %v", err)
	}
	defer file.Close()

	_, err = file.WriteString("GBK")
	if err != nil {
		return fmt.Errorf("写入文件失败: %v", err)
	}
	return nil
}

func createPrjFile(prjFilePath string) error {
	prjContent := `GEOGCS["GCS_China_Geodetic_Coordinate_System_2000",DATUM["D_China_2000",SPHEROID["CGCS2000",6378137.0,298.257222101]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

	file, err := os.Create(prjFilePath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(prjContent)
	return err
}
