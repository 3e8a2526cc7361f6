package ImgHandler

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/GrainArc/GeoTopo/config"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

type LegendItem struct {
	Property string `json:"Property"`
	Color    string `json:"Color"`
	GeoType  string `json:"GeoType"`
}

func parseRGB(colorStr string) (color.RGBA, error) {
	colorStr = strings.TrimPrefix(colorStr, "RGB(")
	colorStr = strings.TrimSuffix(colorStr, ")")

	parts := strings.Split(colorStr, ",")
	if len(parts) != 3 {
		return color.RGBA{}, nil
	}

	r, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	g, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
	b, _ := strconv.Atoi(strings.TrimSpace(parts[2]))

	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}, nil
}

// loadFont 从配置的字体路径加载TTF
func loadFont() (*truetype.Font, error) {
	if config.FontPath == "" {
		return nil, fmt.Errorf("未配置字体路径")
	}
	fontBytes, err := os.ReadFile(config.FontPath)
	if err != nil {
		return nil, fmt.Errorf("读取字体失败: %w", err)
	}
	return truetype.Parse(fontBytes)
}

func drawChineseText(img *image.RGBA, x, y int, text string, fontSize float64, fontColor color.Color, ttfFont *truetype.Font) error {
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(ttfFont)
	c.SetFontSize(fontSize)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.NewUniform(fontColor))
	c.SetHinting(font.HintingFull)

	pt := freetype.Pt(x, y)
	_, err := c.DrawString(text, pt)
	return err
}

// drawCircle 绘制圆形（用于点符号）
func drawCircle(img *image.RGBA, centerX, centerY, radius int, fillColor color.Color, borderColor color.Color) {
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= radius*radius {
				img.Set(centerX+x, centerY+y, fillColor)
			}
		}
	}

	for angle := 0.0; angle < 360; angle += 0.5 {
		rad := angle * math.Pi / 180
		x := centerX + int(float64(radius)*math.Cos(rad))
		y := centerY + int(float64(radius)*math.Sin(rad))
		img.Set(x, y, borderColor)
	}
}

// drawPolygonSymbol 绘制面符号（填充矩形）
func drawPolygonSymbol(img *image.RGBA, xPos, yPos, width, height int, fillColor color.Color, borderColor color.Color) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			img.Set(xPos+dx, yPos+dy, fillColor)
		}
	}

	for dx := 0; dx < width; dx++ {
		img.Set(xPos+dx, yPos, borderColor)
		img.Set(xPos+dx, yPos+height-1, borderColor)
	}
	for dy := 0; dy < height; dy++ {
		img.Set(xPos, yPos+dy, borderColor)
		img.Set(xPos+width-1, yPos+dy, borderColor)
	}
}

// drawLineSymbol 绘制线符号（加粗线条）
func drawLineSymbol(img *image.RGBA, xPos, yPos, width, height int, lineColor color.Color, borderColor color.Color) {
	lineThickness := 3

	bgColor := color.RGBA{240, 240, 240, 255}
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			img.Set(xPos+dx, yPos+dy, bgColor)
		}
	}

	centerY := yPos + height/2
	for dy := -lineThickness / 2; dy <= lineThickness/2; dy++ {
		for dx := 0; dx < width; dx++ {
			img.Set(xPos+dx, centerY+dy, lineColor)
		}
	}

	for dx := 0; dx < width; dx++ {
		img.Set(xPos+dx, yPos, borderColor)
		img.Set(xPos+dx, yPos+height-1, borderColor)
	}
	for dy := 0; dy < height; dy++ {
		img.Set(xPos, yPos+dy, borderColor)
		img.Set(xPos+width-1, yPos+dy, borderColor)
	}
}

// drawSymbol 根据几何类型绘制对应符号
func drawSymbol(img *image.RGBA, xPos, yPos int, symbolWidth, symbolHeight int, geoType string, symbolColor color.Color) {
	borderColor := color.RGBA{80, 80, 80, 255}

	switch strings.ToLower(geoType) {
	case "point":
		radius := symbolHeight / 2
		centerX := xPos + symbolWidth/2
		centerY := yPos + symbolHeight/2
		drawCircle(img, centerX, centerY, radius-2, symbolColor, borderColor)

	case "linestring", "line":
		drawLineSymbol(img, xPos, yPos, symbolWidth, symbolHeight, symbolColor, borderColor)

	default:
		drawPolygonSymbol(img, xPos, yPos, symbolWidth, symbolHeight, symbolColor, borderColor)
	}
}

func CreateLegend(items []LegendItem) ([]byte, error) {
	ttfFont, err := loadFont()
	if err != nil {
		return nil, err
	}

	itemHeight := 40
	symbolWidth := 50
	symbolHeight := 25
	textOffsetX := 65
	padding := 15
	minItemWidth := 150

	maxItemWidth := minItemWidth

	for _, item := range items {
		textWidth := calculateTextWidth(item.Property, 14, ttfFont)
		itemWidth := textOffsetX + textWidth + 20

		if itemWidth < minItemWidth {
			itemWidth = minItemWidth
		}

		if itemWidth > maxItemWidth {
			maxItemWidth = itemWidth
		}
	}

	itemWidth := maxItemWidth
	numItems := len(items)
	numCols := calculateOptimalColumns(numItems, itemWidth, itemHeight)
	numRows := (numItems + numCols - 1) / numCols

	width := numCols*itemWidth + padding*2
	height := numRows*itemHeight + padding*2

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	for i, item := range items {
		row := i / numCols
		col := i % numCols

		xPos := padding + col*itemWidth
		yPos := padding + row*itemHeight

		symbolColor, err := parseRGB(item.Color)
		if err != nil {
			log.Printf("解析颜色失败: %v", err)
			continue
		}

		symbolYOffset := (itemHeight - symbolHeight) / 2
		drawSymbol(img, xPos, yPos+symbolYOffset, symbolWidth, symbolHeight, item.GeoType, symbolColor)

		textYOffset := itemHeight/2 + 5
		err = drawChineseText(img, xPos+textOffsetX, yPos+textYOffset, item.Property, 14, color.Black, ttfFont)
		if err != nil {
			log.Printf("绘制文字失败: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// TopoLegend 按拓扑图内容生成图例
func TopoLegend(g *Topology.HalfedgeGraph) ([]byte, error) {
	items := make([]LegendItem, 0, g.FaceCount()+2)
	for _, f := range g.Faces() {
		c := paletteColor(int(f.ID()))
		items = append(items, LegendItem{
			Property: fmt.Sprintf("面%d", int(f.ID())),
			Color:    fmt.Sprintf("RGB(%d,%d,%d)", c.R, c.G, c.B),
			GeoType:  "Polygon",
		})
	}
	items = append(items, LegendItem{
		Property: "边界",
		Color:    "RGB(60,60,60)",
		GeoType:  "LineString",
	})
	items = append(items, LegendItem{
		Property: "孤立点",
		Color:    "RGB(204,51,51)",
		GeoType:  "Point",
	})
	return CreateLegend(items)
}

func calculateTextWidth(text string, fontSize float64, ttfFont *truetype.Font) int {
	opts := truetype.Options{
		Size: fontSize,
		DPI:  72,
	}
	face := truetype.NewFace(ttfFont, &opts)
	defer face.Close()

	width := 0
	for _, r := range text {
		advance, ok := face.GlyphAdvance(r)
		if !ok {
			width += int(fontSize)
			continue
		}
		width += advance.Round()
	}

	return width
}

func calculateOptimalColumns(numItems, itemWidth, itemHeight int) int {
	if numItems == 0 {
		return 1
	}

	optimalCols := int(math.Sqrt(float64(numItems) * float64(itemHeight) / float64(itemWidth)))

	if optimalCols < 1 {
		optimalCols = 1
	}

	maxCols := 6
	if optimalCols > maxCols {
		optimalCols = maxCols
	}

	if optimalCols > numItems {
		optimalCols = numItems
	}

	return optimalCols
}
