package svgdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"240", 240, true},
		{" 62.5px ", 62.5, true},
		{"1in", 96, true},
		{"72pt", 96, true},
		{"2.54cm", 96, true},
		{"50%", 0, false},
		{"3em", 0, false},
		{"", 0, false},
		{"px", 0, false},
		{"-4", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"1e999", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseLength(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, tc.in)
	}
}

func TestParseViewBox(t *testing.T) {
	vb, ok := ParseViewBox("0, 0 480,120")
	require.True(t, ok)
	assert.Equal(t, ViewBox{0, 0, 480, 120}, vb)

	_, ok = ParseViewBox("0 0 480")
	assert.False(t, ok)
	_, ok = ParseViewBox("0 0 -1 5")
	assert.False(t, ok)

	for _, in := range []string{"0 0 NaN 10", "0 0 Inf 10", "0 0 10 -Infinity", "NaN 0 10 10", "0 0 1e999 10"} {
		_, ok = ParseViewBox(in)
		assert.False(t, ok, in)
	}
}

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		w, h float64
	}{
		{"explicit", `<svg class="logo-svg" width="240" height="60"></svg>`, 240, 60},
		{"style wins", `<svg class="logo-svg" width="240" height="60" style="width: 300px; height:75px"></svg>`, 300, 75},
		{"width and viewBox", `<svg class="logo-svg" width="240" viewBox="0 0 480 120"></svg>`, 240, 60},
		{"height and viewBox", `<svg class="logo-svg" height="30" viewBox="0 0 480 120"></svg>`, 120, 30},
		{"viewBox only", `<svg class="logo-svg" viewBox="0 0 480 120"></svg>`, 480, 120},
		{"relative units", `<svg class="logo-svg" width="100%" height="2em"></svg>`, 0, 0},
		{"nothing", `<svg class="logo-svg"></svg>`, 0, 0},
		{"invalid viewBox", `<svg class="logo-svg" viewBox="0 0 NaN 10"></svg>`, 0, 0},
		{"width and infinite viewBox", `<svg class="logo-svg" width="240" viewBox="0 0 Inf 10"></svg>`, 240, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := mustParse(t, "<body>"+tc.svg+"</body>")
			w, h := doc.FirstByClass("logo-svg").BoundingBox()
			assert.InDelta(t, tc.w, w, 1e-9)
			assert.InDelta(t, tc.h, h, 1e-9)
		})
	}
}

func TestEnsureNamespace(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"missing", `<svg width="1"></svg>`, `<svg xmlns="http://www.w3.org/2000/svg" width="1"></svg>`},
		{"bare tag", `<svg></svg>`, `<svg xmlns="http://www.w3.org/2000/svg"></svg>`},
		{"present", `<svg xmlns="http://www.w3.org/2000/svg"></svg>`, `<svg xmlns="http://www.w3.org/2000/svg"></svg>`},
		{"only xlink declared", `<svg xmlns:xlink="http://www.w3.org/1999/xlink"></svg>`,
			`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"></svg>`},
		{"nested declaration only", `<svg><g xmlns="x"></g></svg>`, `<svg xmlns="http://www.w3.org/2000/svg"><g xmlns="x"></g></svg>`},
		{"not svg", `<div></div>`, `<div></div>`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EnsureNamespace(tc.in)
			assert.Equal(t, tc.want, got)
			if tc.name != "not svg" {
				assert.True(t, HasNamespace(got))
			}
		})
	}
}
