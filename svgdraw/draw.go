// Given a decoded vector image, implements how to paint it on the
// raster surface that gets exported: the surface sizing rule, the
// opaque backdrop and the scaled draw.
package svgdraw

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Sizing rule of the exported surface.
const (
	MinWidth  = 500
	MinHeight = 120
	Scale     = 2
)

// Largest surface that can be allocated, the canvas limits of current
// browsers.
const (
	MaxSide = 32767
	MaxArea = 268435456 // 16384 × 16384
)

// ErrTooLarge is returned by NewSurface past MaxSide or MaxArea.
var ErrTooLarge = errors.New("svgdraw: surface too large")

// Drawable is a decoded image with an intrinsic size, able to paint
// itself stretched over a whole RGBA image.
type Drawable interface {
	Size() (w, h float64)
	Draw(dst *image.RGBA)
}

// SurfaceSize returns Scale × max(decoded, source, floor) for each axis,
// truncated to whole pixels. NaN sizes are ignored; sizes past the int32
// range are clamped to it, so NewSurface refuses them.
func SurfaceSize(decodedW, decodedH, sourceW, sourceH float64) (width, height int) {
	return side(MinWidth, decodedW, sourceW), side(MinHeight, decodedH, sourceH)
}

func side(floor float64, sizes ...float64) int {
	v := floor
	for _, s := range sizes {
		if s > v { // false for NaN
			v = s
		}
	}
	v *= Scale
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// Surface is the in-memory pixel buffer of one export.
type Surface struct {
	*image.RGBA
}

// NewSurface allocates a transparent width × height surface.
func NewSurface(width, height int) (*Surface, error) {
	if width < 0 || height < 0 || width > MaxSide || height > MaxSide || width*height > MaxArea {
		return nil, errors.Wrapf(ErrTooLarge, "%dx%d", width, height)
	}
	return &Surface{RGBA: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

// Fill paints the whole surface with c, replacing its content.
func (s *Surface) Fill(c color.Color) {
	draw.Draw(s.RGBA, s.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawImage paints d over the whole surface.
func (s *Surface) DrawImage(d Drawable) {
	d.Draw(s.RGBA)
}
