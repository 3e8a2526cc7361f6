package ImgHandler

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderTestGraph(t *testing.T) *Topology.HalfedgeGraph {
	t.Helper()
	g := Topology.NewHalfedgeGraph()
	_, err := g.AddPolygon(Topology.Polygon{Shell: []Topology.Coordinate{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	}})
	require.NoError(t, err)
	return g
}

func TestGraphRenderPNG(t *testing.T) {
	g := renderTestGraph(t)

	data, err := GraphRender(g, RenderOptions{Width: 200, Height: 200, ShowVertices: true, Format: "png"})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	// 图像中心落在面内部，应为面0的填充色
	center := color.RGBAModel.Convert(img.At(100, 100)).(color.RGBA)
	assert.Equal(t, paletteColor(0), center)

	// 视口边距之外仍是白底
	corner := color.RGBAModel.Convert(img.At(2, 2)).(color.RGBA)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, corner)
}

func TestGraphRenderWebp(t *testing.T) {
	g := renderTestGraph(t)

	data, err := GraphRender(g, RenderOptions{Width: 160, Height: 120, Format: "webp"})
	require.NoError(t, err)

	img, err := webp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
}

func TestGraphRenderEmpty(t *testing.T) {
	g := Topology.NewHalfedgeGraph()
	_, err := GraphRender(g, DefaultRenderOptions())
	assert.Error(t, err)
}
