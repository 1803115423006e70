// Package surface provides drawing surfaces for the composition pipeline: a
// pixel raster backed by golang.org/x/image and a character-cell grid for
// terminal hosts.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strings"

	"termcanvas/internal/layout"
	"termcanvas/internal/logger"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var log = logger.Named("surface")

// Font families understood by LoadFace.
const (
	FamilyBasic     = "basic"
	FamilyGoRegular = "goregular"
	FamilyGoMono    = "gomono"
)

// LoadFace 按字体族与像素字号创建字体。basic 为固定 7x13 点阵字体，忽略字号。
func LoadFace(family string, sizePx float64) (font.Face, error) {
	var ttf []byte
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "", FamilyBasic:
		return basicfont.Face7x13, nil
	case FamilyGoRegular:
		ttf = goregular.TTF
	case FamilyGoMono, "monospace":
		ttf = gomono.TTF
	default:
		return nil, fmt.Errorf("unknown font family %q", family)
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", family, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %s: %w", family, err)
	}
	return face, nil
}

// Raster 是基于 *image.RGBA 的像素表面。
type Raster struct {
	img    *image.RGBA
	face   font.Face
	ascent float64
}

// NewRaster 创建 width x height 像素的表面。
func NewRaster(width, height int, face font.Face) *Raster {
	if face == nil {
		face = basicfont.Face7x13
	}
	img := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	return &Raster{
		img:    img,
		face:   face,
		ascent: fixedToFloat(face.Metrics().Ascent),
	}
}

// Image 返回底层图像。
func (r *Raster) Image() *image.RGBA {
	return r.img
}

func (r *Raster) FillRect(rect layout.Rect, c color.Color) {
	if c == nil {
		return
	}
	bounds := image.Rect(
		int(math.Floor(rect.X)), int(math.Floor(rect.Y)),
		int(math.Ceil(rect.Right())), int(math.Ceil(rect.Bottom())),
	).Intersect(r.img.Bounds())
	if bounds.Empty() {
		return
	}
	draw.Draw(r.img, bounds, image.NewUniform(c), image.Point{}, draw.Over)
}

// FillText 以 y 为行顶部绘制文本，基线位于 y + ascent。
func (r *Raster) FillText(text string, x, y float64, c color.Color) {
	if text == "" || c == nil {
		return
	}
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y + r.ascent)},
	}
	d.DrawString(text)
}

// FillCircle 用四段三次贝塞尔曲线近似圆并填充。
func (r *Raster) FillCircle(cx, cy, radius float64, c color.Color) {
	if radius <= 0 || c == nil {
		return
	}
	b := r.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	const k = 0.5522847498
	cxf, cyf := float32(cx), float32(cy)
	rf, kr := float32(radius), float32(radius*k)
	z.MoveTo(cxf+rf, cyf)
	z.CubeTo(cxf+rf, cyf+kr, cxf+kr, cyf+rf, cxf, cyf+rf)
	z.CubeTo(cxf-kr, cyf+rf, cxf-rf, cyf+kr, cxf-rf, cyf)
	z.CubeTo(cxf-rf, cyf-kr, cxf-kr, cyf-rf, cxf, cyf-rf)
	z.CubeTo(cxf+kr, cyf-rf, cxf+rf, cyf-kr, cxf+rf, cyf)
	z.ClosePath()
	z.Draw(r.img, b, image.NewUniform(c), image.Point{})
}

func (r *Raster) MeasureText(text string) float64 {
	return fixedToFloat(font.MeasureString(r.face, text))
}

// WritePNG 将当前图像编码为 PNG。
func (r *Raster) WritePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	log.WithField("bounds", r.img.Bounds().String()).Debug("wrote png")
	return nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
