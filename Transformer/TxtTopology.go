package Transformer

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/saintfish/chardet"
)

// DetectEncoding 探测字节流的字符编码，失败返回空串
func DetectEncoding(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil {
		return ""
	}
	return result.Charset
}

// ConvertTxtToGeoJSON 读取界址点坐标文件为GeoJSON要素集
// 以@结尾的行是地块属性记录，其余行按第二列分组为界址环
func ConvertTxtToGeoJSON(filePath string) (*geojson.FeatureCollection, error) {
	featureCollection := geojson.NewFeatureCollection()
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("打开坐标文件失败: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取坐标文件失败: %w", err)
	}

	var properties []string
	var currentPlot []string
	var geoText [][]string
	for _, line := range lines {
		if strings.HasSuffix(line, "@") {
			line = strings.TrimSuffix(line, "@")
			properties = append(properties, line)
			geoText = append(geoText, currentPlot)
			currentPlot = []string{}
		} else {
			currentPlot = append(currentPlot, line)
		}
	}
	if len(currentPlot) > 0 {
		geoText = append(geoText, currentPlot)
	}
	if len(geoText) < 2 {
		return nil, fmt.Errorf("坐标文件无地块记录")
	}
	geoText = geoText[1:] //去掉头文件

	encoding := ""
	if data, err := os.ReadFile(filePath); err == nil {
		encoding = DetectEncoding(data)
	}

	for index, item := range geoText {
		var rings []orb.Ring
		boundaries := groupBySecondItem(item)
		for _, geos := range boundaries {
			ring := stringToCoords(geos)
			if len(ring) >= 3 {
				rings = append(rings, ring)
			}
		}
		if len(rings) == 0 {
			continue
		}

		feature := geojson.NewFeature(orb.Polygon(rings))
		if index < len(properties) {
			feature.Properties = makeProperties(properties[index], encoding)
		}
		featureCollection.Append(feature)
	}

	return featureCollection, nil
}

// TxtToTopology 读取界址点坐标文件并叠置合并进新图
func TxtToTopology(filePath string, pm Topology.Precision) (*Topology.HalfedgeGraph, error) {
	fc, err := ConvertTxtToGeoJSON(filePath)
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

// groupBySecondItem 按第二列的环编号把界址点行分组
func groupBySecondItem(data []string) [][]string {
	groups := make(map[string][]string)
	var order []string
	for _, line := range data {
		parts := strings.Split(line, ",")
		if len(parts) > 1 {
			key := parts[1]
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], line)
		}
	}

	var result [][]string
	for _, key := range order {
		result = append(result, groups[key])
	}
	return result
}

// stringToCoords 解析界址点行，第四列为x、第三列为y
func stringToCoords(coordinates []string) orb.Ring {
	var coords orb.Ring
	for _, coord := range coordinates {
		mycoord := strings.Split(coord, ",")
		if len(mycoord) < 4 {
			continue
		}
		x, errX := strconv.ParseFloat(mycoord[3], 64)
		y, errY := strconv.ParseFloat(mycoord[2], 64)
		if errX == nil && errY == nil {
			coords = append(coords, orb.Point{x, y})
		}
	}
	return coords
}

func makeProperties(propertie string, encoding string) map[string]interface{} {
	if strings.Contains(encoding, "GB") {
		propertie = GbkToUtf8(propertie)
	}
	mycoord := strings.Split(propertie, ",")

	data := make(map[string]interface{})
	if len(mycoord) < 8 {
		return data
	}
	data["地块编号"] = mycoord[0]
	data["地块面积"] = mycoord[1]
	data["地块用途"] = mycoord[2]
	data["地类编码"] = mycoord[3]
	data["界址点数"] = mycoord[4]
	data["图幅号"] = mycoord[5]
	data["图形属性"] = mycoord[6]
	data["生产时间"] = mycoord[7]

	return data
}
