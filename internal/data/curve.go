package data

import (
	"image/color"
	"sort"
)

// Keyframe is one sample of a scalar curve at normalized time T in [0,1].
type Keyframe struct {
	T float64 `yaml:"t"`
	V float64 `yaml:"v"`
}

// Curve is a piecewise-linear scalar curve. Keyframes must be sorted by T.
type Curve []Keyframe

// Eval samples the curve. An empty curve evaluates to def; times outside
// the keyframe range clamp to the end values.
func (c Curve) Eval(t, def float64) float64 {
	if len(c) == 0 {
		return def
	}
	if t <= c[0].T {
		return c[0].V
	}
	last := c[len(c)-1]
	if t >= last.T {
		return last.V
	}
	i := sort.Search(len(c), func(i int) bool { return c[i].T > t })
	a, b := c[i-1], c[i]
	span := b.T - a.T
	if span <= 0 {
		return b.V
	}
	return a.V + (b.V-a.V)*(t-a.T)/span
}

// ColorKey is one sample of a color curve.
type ColorKey struct {
	T    float64  `yaml:"t"`
	RGBA [4]uint8 `yaml:"rgba"`
}

// ColorCurve interpolates RGBA channels linearly.
type ColorCurve []ColorKey

func toRGBA(c [4]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

func (c ColorCurve) Eval(t float64) color.RGBA {
	if len(c) == 0 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if t <= c[0].T {
		return toRGBA(c[0].RGBA)
	}
	last := c[len(c)-1]
	if t >= last.T {
		return toRGBA(last.RGBA)
	}
	i := sort.Search(len(c), func(i int) bool { return c[i].T > t })
	a, b := c[i-1], c[i]
	f := 0.0
	if span := b.T - a.T; span > 0 {
		f = (t - a.T) / span
	}
	var out [4]uint8
	for ch := 0; ch < 4; ch++ {
		av, bv := float64(a.RGBA[ch]), float64(b.RGBA[ch])
		out[ch] = uint8(av + (bv-av)*f + 0.5)
	}
	return toRGBA(out)
}
