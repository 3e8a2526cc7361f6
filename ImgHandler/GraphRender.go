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
	"sort"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/chai2010/webp"
	"github.com/paulmach/orb/planar"
)

// RenderOptions 渲染参数
type RenderOptions struct {
	Width        int
	Height       int
	ShowVertices bool
	ShowLabels   bool
	Format       string // png或webp
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Width:        800,
		Height:       600,
		ShowVertices: true,
		ShowLabels:   true,
		Format:       "png",
	}
}

// 面填充色板，按面句柄取模循环使用
var palette = []color.RGBA{
	{166, 206, 227, 255},
	{178, 223, 138, 255},
	{251, 154, 153, 255},
	{253, 191, 111, 255},
	{202, 178, 214, 255},
	{255, 255, 153, 255},
	{141, 211, 199, 255},
	{251, 128, 114, 255},
	{128, 177, 211, 255},
	{179, 222, 105, 255},
}

func paletteColor(i int) color.RGBA {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// 世界坐标到像素坐标的映射
type viewport struct {
	minX, minY float64
	scale      float64
	height     int
	margin     float64
}

func (vp viewport) toPixel(c Topology.Coordinate) (float64, float64) {
	px := vp.margin + (c.X-vp.minX)*vp.scale
	py := float64(vp.height) - vp.margin - (c.Y-vp.minY)*vp.scale
	return px, py
}

func makeViewport(g *Topology.HalfedgeGraph, width, height int) (viewport, error) {
	bound := g.Bound()
	if bound.IsEmpty() {
		return viewport{}, fmt.Errorf("图为空，无法渲染")
	}

	margin := 20.0
	dx := bound.Max[0] - bound.Min[0]
	dy := bound.Max[1] - bound.Min[1]

	scale := 1.0
	availW := float64(width) - 2*margin
	availH := float64(height) - 2*margin
	switch {
	case dx > 0 && dy > 0:
		scale = math.Min(availW/dx, availH/dy)
	case dx > 0:
		scale = availW / dx
	case dy > 0:
		scale = availH / dy
	}

	// 居中对齐
	offX := (availW - dx*scale) / 2
	offY := (availH - dy*scale) / 2
	return viewport{
		minX:   bound.Min[0] - offX/scale,
		minY:   bound.Min[1] - offY/scale,
		scale:  scale,
		height: height,
		margin: margin,
	}, nil
}

// fillRings 扫描线填充，洞环与外环一并参与奇偶规则
func fillRings(img *image.RGBA, rings [][]Topology.Coordinate, vp viewport, fill color.Color) {
	type pixelRing [][2]float64
	pixelRings := make([]pixelRing, 0, len(rings))
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for _, ring := range rings {
		pr := make(pixelRing, 0, len(ring))
		for _, c := range ring {
			px, py := vp.toPixel(c)
			pr = append(pr, [2]float64{px, py})
			if py < minY {
				minY = py
			}
			if py > maxY {
				maxY = py
			}
		}
		pixelRings = append(pixelRings, pr)
	}

	bounds := img.Bounds()
	yStart := int(math.Max(minY, float64(bounds.Min.Y)))
	yEnd := int(math.Min(maxY, float64(bounds.Max.Y-1)))

	for y := yStart; y <= yEnd; y++ {
		yc := float64(y) + 0.5
		var xs []float64
		for _, pr := range pixelRings {
			n := len(pr)
			for i := 0; i < n; i++ {
				p1 := pr[i]
				p2 := pr[(i+1)%n]
				if (p1[1] <= yc && p2[1] > yc) || (p2[1] <= yc && p1[1] > yc) {
					x := p1[0] + (yc-p1[1])*(p2[0]-p1[0])/(p2[1]-p1[1])
					xs = append(xs, x)
				}
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x1 := int(math.Ceil(xs[i] - 0.5))
			x2 := int(math.Floor(xs[i+1] - 0.5))
			for x := x1; x <= x2; x++ {
				img.Set(x, y, fill)
			}
		}
	}
}

// drawSegment 逐点画线
func drawSegment(img *image.RGBA, x1, y1, x2, y2 float64, col color.Color) {
	steps := int(math.Max(math.Abs(x2-x1), math.Abs(y2-y1))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(x1 + t*(x2-x1) + 0.5)
		y := int(y1 + t*(y2-y1) + 0.5)
		img.Set(x, y, col)
	}
}

// GraphRender 把拓扑图渲染为图片字节
// 面按色板填充，边画描边，孤立点与顶点画圆点，面句柄可选作标注
func GraphRender(g *Topology.HalfedgeGraph, opts RenderOptions) ([]byte, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultRenderOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}

	vp, err := makeViewport(g, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	// 面填充
	for _, f := range g.Faces() {
		rings := [][]Topology.Coordinate{f.OuterRing()}
		rings = append(rings, f.HoleRings()...)
		fillRings(img, rings, vp, paletteColor(int(f.ID())))
	}

	// 边描边
	edgeColor := color.RGBA{60, 60, 60, 255}
	for _, e := range g.Edges() {
		u, v := e.Vertices()
		x1, y1 := vp.toPixel(u.Position())
		x2, y2 := vp.toPixel(v.Position())
		drawSegment(img, x1, y1, x2, y2, edgeColor)
	}

	// 顶点与孤立点
	if opts.ShowVertices {
		vertexColor := color.RGBA{40, 40, 40, 255}
		pointColor := color.RGBA{204, 51, 51, 255}
		for _, v := range g.Vertices() {
			px, py := vp.toPixel(v.Position())
			if v.IsIsolated() {
				drawCircle(img, int(px+0.5), int(py+0.5), 4, pointColor, vertexColor)
			} else {
				drawCircle(img, int(px+0.5), int(py+0.5), 2, vertexColor, vertexColor)
			}
		}
	}

	// 面句柄标注
	if opts.ShowLabels && g.FaceCount() > 0 {
		ttfFont, err := loadFont()
		if err != nil {
			log.Printf("字体不可用，跳过标注: %v", err)
		} else {
			for _, f := range g.Faces() {
				centroid, _ := planar.CentroidArea(f.ToOrb())
				px, py := vp.toPixel(Topology.Coordinate{X: centroid[0], Y: centroid[1]})
				label := fmt.Sprintf("%d", int(f.ID()))
				if err := drawChineseText(img, int(px), int(py), label, 14, color.Black, ttfFont); err != nil {
					log.Printf("绘制标注失败: %v", err)
				}
			}
		}
	}

	var buf bytes.Buffer
	switch opts.Format {
	case "webp":
		err = webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: 90})
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("编码图片失败: %v", err)
	}
	return buf.Bytes(), nil
}
