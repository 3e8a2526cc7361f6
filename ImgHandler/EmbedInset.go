package ImgHandler

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

// InsetPosition 小图在主图上的贴放位置
type InsetPosition int

const (
	InsetTopLeft InsetPosition = iota
	InsetTopRight
	InsetBottomLeft
	InsetBottomRight
)

// EmbedInset 把小图缩放后贴进主图的指定角落，用于在预览图上叠加图例
// format是主图的编码格式(png或webp)，scale是小图宽度占主图宽度的比例
func EmbedInset(inset, base []byte, format string, scale float64, padding int, pos InsetPosition) ([]byte, error) {
	small, _, err := image.Decode(bytes.NewReader(inset))
	if err != nil {
		return nil, fmt.Errorf("小图解码失败: %v", err)
	}

	var big image.Image
	switch format {
	case "webp":
		big, err = webp.Decode(bytes.NewReader(base))
	default:
		big, err = png.Decode(bytes.NewReader(base))
	}
	if err != nil {
		return nil, fmt.Errorf("主图解码失败: %v", err)
	}

	bb := big.Bounds()
	w := int(float64(bb.Dx()) * scale)
	if w < 1 {
		w = 1
	}
	sb := small.Bounds()
	h := sb.Dy() * w / sb.Dx()
	if h < 1 {
		h = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), small, sb, xdraw.Src, nil)

	canvas := image.NewRGBA(bb)
	draw.Draw(canvas, bb, big, bb.Min, draw.Src)

	var x, y int
	switch pos {
	case InsetTopLeft:
		x, y = padding, padding
	case InsetTopRight:
		x, y = bb.Dx()-w-padding, padding
	case InsetBottomLeft:
		x, y = padding, bb.Dy()-h-padding
	default:
		x, y = bb.Dx()-w-padding, bb.Dy()-h-padding
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	draw.Draw(canvas, image.Rect(x, y, x+w, y+h), scaled, image.Point{}, draw.Over)

	var buf bytes.Buffer
	switch format {
	case "webp":
		err = webp.Encode(&buf, canvas, &webp.Options{Lossless: false, Quality: 90})
	default:
		err = png.Encode(&buf, canvas)
	}
	if err != nil {
		return nil, fmt.Errorf("合成图编码失败: %v", err)
	}
	return buf.Bytes(), nil
}
