// Package plot draws scatter charts as SVG and rasterizes them to PNG.
package plot

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

// Point is one scatter mark.
type Point struct {
	X, Y float64
}

// Options configures a chart.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  int // default 800
	Height int // default 600
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 600
	}
	return w, h
}

const (
	marginLeft   = 70
	marginRight  = 30
	marginTop    = 50
	marginBottom = 60
	ticks        = 5
)

type axis struct {
	min, max float64
}

func newAxis(values []float64) axis {
	if len(values) == 0 {
		return axis{0, 1}
	}
	a := axis{math.Inf(1), math.Inf(-1)}
	for _, v := range values {
		a.min = math.Min(a.min, v)
		a.max = math.Max(a.max, v)
	}
	if a.min == a.max {
		a.min--
		a.max++
	}
	return a
}

// scale maps v into [lo, hi] pixels.
func (a axis) scale(v, lo, hi float64) float64 {
	return lo + (v-a.min)/(a.max-a.min)*(hi-lo)
}

// ScatterSVG renders points as a standalone SVG document.
func ScatterSVG(points []Point, opts Options) []byte {
	w, h := opts.size()
	left, right := float64(marginLeft), float64(w-marginRight)
	top, bottom := float64(marginTop), float64(h-marginBottom)

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	xa, ya := newAxis(xs), newAxis(ys)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif" font-size="12">`+"\n", w, h, w, h)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="white"/>`+"\n", w, h)
	fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-size="16">%s</text>`+"\n", w/2, marginTop/2, html.EscapeString(opts.Title))

	// Axes.
	fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="black"/>`+"\n", num(left), num(bottom), num(right), num(bottom))
	fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="black"/>`+"\n", num(left), num(top), num(left), num(bottom))

	for i := 0; i <= ticks; i++ {
		xv := xa.min + (xa.max-xa.min)*float64(i)/ticks
		px := xa.scale(xv, left, right)
		fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="black"/>`, num(px), num(bottom), num(px), num(bottom+5))
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle">%s</text>`+"\n", num(px), num(bottom+20), label(xv))

		yv := ya.min + (ya.max-ya.min)*float64(i)/ticks
		py := ya.scale(yv, bottom, top)
		fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="black"/>`, num(left-5), num(py), num(left), num(py))
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n", num(left-8), num(py), label(yv))
	}

	fmt.Fprintf(&b, `<text x="%s" y="%d" text-anchor="middle">%s</text>`+"\n", num((left+right)/2), h-15, html.EscapeString(opts.XLabel))
	fmt.Fprintf(&b, `<text x="20" y="%s" text-anchor="middle" transform="rotate(-90 20 %s)">%s</text>`+"\n", num((top+bottom)/2), num((top+bottom)/2), html.EscapeString(opts.YLabel))

	for _, p := range points {
		fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="3" fill="steelblue" fill-opacity="0.6"/>`+"\n",
			num(xa.scale(p.X, left, right)), num(ya.scale(p.Y, bottom, top)))
	}

	b.WriteString("</svg>\n")
	return []byte(b.String())
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func label(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
