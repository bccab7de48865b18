// Implements the raster backend of the conversion: decoding SVG markup
// into a drawable image, by wrapping oksvg and rasterx, and encoding the
// painted surface back to PNG.
package svgraster

import (
	"bytes"
	"context"
	"encoding/xml"
	"image"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/net/html/charset"

	"github.com/koachconsulting/logopng/blob"
	"github.com/koachconsulting/logopng/svgdoc"
)

var (
	// ErrNotSVG is returned for markup whose root is not an <svg> element
	// in the SVG namespace. Such markup is not an image.
	ErrNotSVG = errors.New("svgraster: root element is not a namespaced <svg>")
	// ErrEmptyImage is returned when there is nothing to decode or encode.
	ErrEmptyImage = errors.New("svgraster: empty image")
)

// Image is a decoded SVG document, ready to be drawn at any size.
type Image struct {
	icon *oksvg.SvgIcon

	// intrinsic size, in CSS pixels
	width, height float64
	viewBox       svgdoc.ViewBox
}

// Size returns the intrinsic size: the root width and height when given,
// otherwise derived from the viewBox.
func (im *Image) Size() (w, h float64) { return im.width, im.height }

// ViewBox returns the user coordinate system of the image.
func (im *Image) ViewBox() svgdoc.ViewBox { return im.viewBox }

// Decoder turns SVG blobs into Images.
type Decoder struct{}

// Decode parses b, which must hold standalone SVG markup declaring the SVG namespace.
func (Decoder) Decode(ctx context.Context, b blob.Blob) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(b.Data) == 0 {
		return nil, ErrEmptyImage
	}
	if b.Type != "" && !strings.HasPrefix(b.Type, "image/svg+xml") {
		return nil, errors.Errorf("svgraster: unsupported media type %q", b.Type)
	}

	root, err := readRoot(bytes.NewReader(b.Data))
	if err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(b.Data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(err, "svgraster: parsing svg")
	}

	im := &Image{icon: icon}
	im.width, im.height, im.viewBox = intrinsicSize(root)
	icon.ViewBox.X, icon.ViewBox.Y = im.viewBox.X, im.viewBox.Y
	icon.ViewBox.W, icon.ViewBox.H = im.viewBox.W, im.viewBox.H
	return im, nil
}

// readRoot returns the first start element, checking it is an SVG root.
func readRoot(r io.Reader) (xml.StartElement, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				return xml.StartElement{}, ErrNotSVG
			}
			return xml.StartElement{}, errors.Wrap(err, "svgraster: reading root element")
		}
		se, ok := t.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "svg" || se.Name.Space != svgdoc.Namespace {
			return se, errors.Wrapf(ErrNotSVG, "found <%s> in namespace %q", se.Name.Local, se.Name.Space)
		}
		return se, nil
	}
}

func intrinsicSize(root xml.StartElement) (w, h float64, vb svgdoc.ViewBox) {
	var wok, hok, vbok bool
	for _, a := range root.Attr {
		if a.Name.Space != "" {
			continue
		}
		switch a.Name.Local {
		case "width":
			w, wok = svgdoc.ParseLength(a.Value)
		case "height":
			h, hok = svgdoc.ParseLength(a.Value)
		case "viewBox":
			vb, vbok = svgdoc.ParseViewBox(a.Value)
		}
	}

	switch {
	case wok && hok:
	case wok && vbok && vb.W > 0:
		h = w * vb.H / vb.W
	case hok && vbok && vb.H > 0:
		w = h * vb.W / vb.H
	case vbok:
		w, h = vb.W, vb.H
	}
	if !vbok {
		vb = svgdoc.ViewBox{W: w, H: h}
	}
	return w, h, vb
}

// placement returns where the viewBox lands on a canvas of size cw x ch,
// when the image is first fitted in its intrinsic box (xMidYMid meet) and
// that box is then stretched over the canvas.
func (im *Image) placement(cw, ch float64) (x, y, w, h float64) {
	vb := im.viewBox
	if vb.W <= 0 || vb.H <= 0 || im.width <= 0 || im.height <= 0 {
		return 0, 0, cw, ch
	}
	s := im.width / vb.W
	if sy := im.height / vb.H; sy < s {
		s = sy
	}
	ox, oy := (im.width-vb.W*s)/2, (im.height-vb.H*s)/2
	sx, sy := cw/im.width, ch/im.height
	return ox * sx, oy * sy, vb.W * s * sx, vb.H * s * sy
}

// Draw paints the image stretched over the whole of dst, on top of its
// current content.
func (im *Image) Draw(dst *image.RGBA) {
	bounds := dst.Bounds()
	cw, ch := bounds.Dx(), bounds.Dy()
	if cw == 0 || ch == 0 || im.viewBox.W <= 0 || im.viewBox.H <= 0 {
		return
	}
	x, y, w, h := im.placement(float64(cw), float64(ch))
	im.icon.SetTarget(float64(bounds.Min.X)+x, float64(bounds.Min.Y)+y, w, h)

	scanner := rasterx.NewScannerGV(cw, ch, dst, bounds)
	dasher := rasterx.NewDasher(cw, ch, scanner)
	im.icon.Draw(dasher, 1.0)
}
