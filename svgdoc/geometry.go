package svgdoc

import (
	"math"
	"strconv"
	"strings"
)

// ViewBox is the user coordinate system of an SVG element.
type ViewBox struct{ X, Y, W, H float64 }

// absolute CSS units, in pixels
var unitToPx = map[string]float64{
	"":   1,
	"px": 1,
	"pt": 96.0 / 72,
	"pc": 16,
	"in": 96,
	"cm": 96 / 2.54,
	"mm": 96 / 25.4,
	"q":  96 / 101.6,
}

// ParseLength parses an absolute CSS length and returns it in pixels.
// Relative units (%, em, vw...) and non finite values are reported as not ok.
func ParseLength(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	i := len(s)
	for i > 0 && s[i-1] >= 'a' && s[i-1] <= 'z' {
		i--
	}
	factor, ok := unitToPx[s[i:]]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
	if err != nil || !finite(v) || v < 0 {
		return 0, false
	}
	return v * factor, true
}

// ParseViewBox parses "minx miny width height", separated by spaces and/or
// commas. Like a browser, it rejects NaN, infinities and negative sizes.
func ParseViewBox(s string) (ViewBox, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return ViewBox{}, false
	}
	var v [4]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil || !finite(x) {
			return ViewBox{}, false
		}
		v[i] = x
	}
	if v[2] < 0 || v[3] < 0 {
		return ViewBox{}, false
	}
	return ViewBox{X: v[0], Y: v[1], W: v[2], H: v[3]}, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// styleProperty extracts one declaration from an inline style attribute.
func styleProperty(style, name string) (string, bool) {
	for _, decl := range strings.Split(style, ";") {
		k, v, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(k), name) {
			v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "!important"))
			return v, true
		}
	}
	return "", false
}

// length resolves a dimension from the inline style first, then from the attribute.
func (e *Element) length(name string) (float64, bool) {
	if style, ok := e.Attribute("style"); ok {
		if v, ok := styleProperty(style, name); ok {
			if px, ok := ParseLength(v); ok {
				return px, true
			}
		}
	}
	if v, ok := e.Attribute(name); ok {
		return ParseLength(v)
	}
	return 0, false
}

// BoundingBox returns the element size in CSS pixels, as it would be laid
// out without constraints from the surrounding page: explicit width and
// height win, a missing one is derived from the viewBox aspect ratio, and
// the viewBox size is used when neither is given. Unknown dimensions are 0.
func (e *Element) BoundingBox() (width, height float64) {
	if e == nil || e.node == nil {
		return 0, 0
	}
	w, wok := e.length("width")
	h, hok := e.length("height")
	var (
		vb   ViewBox
		vbok bool
	)
	if v, ok := e.Attribute("viewBox"); ok {
		vb, vbok = ParseViewBox(v)
	}

	switch {
	case wok && hok:
	case wok && vbok && vb.W > 0:
		h = w * vb.H / vb.W
	case hok && vbok && vb.H > 0:
		w = h * vb.W / vb.H
	case !wok && !hok && vbok:
		w, h = vb.W, vb.H
	}
	return w, h
}
