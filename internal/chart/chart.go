// Package chart draws received-power line charts as raster images.
package chart

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	// ErrClosed is returned when a chart is used after Close.
	ErrClosed = errors.New("chart: closed")
	// ErrNoChart is returned by Handle when nothing has been rendered yet.
	ErrNoChart = errors.New("chart: nothing rendered")
	// ErrEmptySeries is returned when a series has no points.
	ErrEmptySeries = errors.New("chart: empty series")
)

var (
	backgroundColor = color.RGBA{11, 16, 32, 255}
	axisColor       = color.RGBA{233, 238, 252, 204}
	gridColor       = color.RGBA{255, 255, 255, 15}
	lineColor       = color.RGBA{34, 197, 94, 230}
	fillColor       = color.RGBA{34, 197, 94, 38}
	textColor       = color.RGBA{233, 238, 252, 255}
)

const (
	marginLeft   = 70 // pixels
	marginRight  = 20 // pixels
	marginTop    = 30 // pixels
	marginBottom = 46 // pixels
	tickLen      = 5  // pixels
	xTicks       = 6
	yTicks       = 5
	// Above this many points no markers are drawn.
	markerLimit  = 80
	markerRadius = 2

	DefaultWidth  = 800
	DefaultHeight = 360
	minWidth      = marginLeft + marginRight + 40
	minHeight     = marginTop + marginBottom + 40
)

// Series is one line of data. When Labels is set the x axis is
// categorical and X is ignored.
type Series struct {
	Title  string
	XLabel string
	YLabel string
	X      []float64
	Y      []float64
	Labels []string
}

// Options controls the image size.
type Options struct {
	Width  int
	Height int
}

// Chart is a rendered image. It owns its pixel buffer until Close.
type Chart struct {
	mu     sync.RWMutex
	img    *image.RGBA
	points int
}

// Render draws s into a new chart.
func Render(s Series, opts Options) (*Chart, error) {
	n := len(s.Y)
	if n == 0 {
		return nil, ErrEmptySeries
	}
	if s.Labels == nil && len(s.X) != n {
		return nil, fmt.Errorf("chart: %d x values for %d y values", len(s.X), n)
	}
	if s.Labels != nil && len(s.Labels) != n {
		return nil, fmt.Errorf("chart: %d labels for %d y values", len(s.Labels), n)
	}
	if opts.Width < minWidth {
		opts.Width = DefaultWidth
	}
	if opts.Height < minHeight {
		opts.Height = DefaultHeight
	}

	canvas := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)

	plot := image.Rect(marginLeft, marginTop, opts.Width-marginRight, opts.Height-marginBottom)

	xs := s.X
	if s.Labels != nil {
		xs = make([]float64, n)
		for i := range xs {
			xs[i] = float64(i)
		}
	}
	xMin, xMax := bounds(xs)
	yMin, yMax := bounds(s.Y)
	if xMin == xMax {
		xMin, xMax = xMin-1, xMax+1
	}
	if yMin == yMax {
		yMin, yMax = yMin-1, yMax+1
	}
	pad := (yMax - yMin) * 0.05
	yMin, yMax = yMin-pad, yMax+pad

	px := func(x float64) int {
		return plot.Min.X + int(math.Round((x-xMin)/(xMax-xMin)*float64(plot.Dx()-1)))
	}
	py := func(y float64) int {
		return plot.Max.Y - 1 - int(math.Round((y-yMin)/(yMax-yMin)*float64(plot.Dy()-1)))
	}

	drawGrid(canvas, plot, xMin, xMax, yMin, yMax, s.Labels)

	pts := make([]image.Point, n)
	for i := range s.Y {
		pts[i] = image.Point{px(xs[i]), py(s.Y[i])}
	}
	if n > 1 {
		fillUnder(canvas, plot, pts)
		for i := 1; i < n; i++ {
			drawLine(canvas, pts[i-1], pts[i], lineColor)
			drawLine(canvas, pts[i-1].Add(image.Point{0, 1}), pts[i].Add(image.Point{0, 1}), lineColor)
		}
	}
	if n <= markerLimit {
		for _, p := range pts {
			drawMarker(canvas, p, lineColor)
		}
	}

	drawString(canvas, marginLeft, marginTop-10, legend(s))
	if s.XLabel != "" {
		w := font.MeasureString(basicfont.Face7x13, s.XLabel).Ceil()
		drawString(canvas, plot.Min.X+(plot.Dx()-w)/2, opts.Height-6, s.XLabel)
	}

	return &Chart{img: canvas, points: n}, nil
}

// Points returns the number of plotted samples.
func (c *Chart) Points() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.points
}

// Image returns the rendered image, or nil after Close.
func (c *Chart) Image() image.Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.img == nil {
		return nil
	}
	return c.img
}

// EncodePNG writes the chart as PNG.
func (c *Chart) EncodePNG(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.img == nil {
		return ErrClosed
	}
	return png.Encode(w, c.img)
}

// Close releases the pixel buffer. It is safe to call more than once.
func (c *Chart) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.img = nil
}

func legend(s Series) string {
	if s.YLabel == "" {
		return s.Title
	}
	if s.Title == "" {
		return s.YLabel
	}
	return s.Title + " - " + s.YLabel
}

func bounds(v []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

func drawGrid(canvas *image.RGBA, plot image.Rectangle, xMin, xMax, yMin, yMax float64, labels []string) {
	// Horizontal grid lines with y tick labels.
	for i := 0; i <= yTicks; i++ {
		y := plot.Max.Y - 1 - i*(plot.Dy()-1)/yTicks
		blendRect(canvas, image.Rect(plot.Min.X, y, plot.Max.X, y+1), gridColor)
		blendRect(canvas, image.Rect(plot.Min.X-tickLen, y, plot.Min.X, y+1), axisColor)
		v := yMin + float64(i)*(yMax-yMin)/yTicks
		label := formatTick(v)
		w := font.MeasureString(basicfont.Face7x13, label).Ceil()
		drawString(canvas, plot.Min.X-tickLen-3-w, y+4, label)
	}

	// Vertical grid lines with x tick labels.
	if labels != nil {
		for i, l := range labels {
			x := plot.Min.X
			if xMax > xMin {
				x += int(math.Round((float64(i) - xMin) / (xMax - xMin) * float64(plot.Dx()-1)))
			}
			blendRect(canvas, image.Rect(x, plot.Min.Y, x+1, plot.Max.Y), gridColor)
			w := font.MeasureString(basicfont.Face7x13, l).Ceil()
			drawString(canvas, x-w/2, plot.Max.Y+tickLen+13, l)
		}
	} else {
		for i := 0; i <= xTicks; i++ {
			x := plot.Min.X + i*(plot.Dx()-1)/xTicks
			blendRect(canvas, image.Rect(x, plot.Min.Y, x+1, plot.Max.Y), gridColor)
			blendRect(canvas, image.Rect(x, plot.Max.Y, x+1, plot.Max.Y+tickLen), axisColor)
			label := formatTick(xMin + float64(i)*(xMax-xMin)/xTicks)
			w := font.MeasureString(basicfont.Face7x13, label).Ceil()
			drawString(canvas, x-w/2, plot.Max.Y+tickLen+13, label)
		}
	}

	// Axes.
	blendRect(canvas, image.Rect(plot.Min.X, plot.Min.Y, plot.Min.X+1, plot.Max.Y), axisColor)
	blendRect(canvas, image.Rect(plot.Min.X, plot.Max.Y-1, plot.Max.X, plot.Max.Y), axisColor)
}

// formatTick keeps tick labels short: at most 6 significant digits.
func formatTick(v float64) string {
	if math.Abs(v) < 1e-9 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func fillUnder(canvas *image.RGBA, plot image.Rectangle, pts []image.Point) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		for x := a.X; x < b.X || (x == b.X && i == len(pts)-1); x++ {
			y := a.Y
			if b.X != a.X {
				y = a.Y + (b.Y-a.Y)*(x-a.X)/(b.X-a.X)
			}
			blendRect(canvas, image.Rect(x, y, x+1, plot.Max.Y-1), fillColor)
		}
	}
}

// drawLine is Bresenham's line algorithm.
func drawLine(canvas *image.RGBA, a, b image.Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		canvas.SetRGBA(x, y, c)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func drawMarker(canvas *image.RGBA, p image.Point, c color.RGBA) {
	for dy := -markerRadius; dy <= markerRadius; dy++ {
		for dx := -markerRadius; dx <= markerRadius; dx++ {
			if dx*dx+dy*dy <= markerRadius*markerRadius {
				canvas.SetRGBA(p.X+dx, p.Y+dy, c)
			}
		}
	}
}

func blendRect(canvas *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(canvas, r, &image.Uniform{premultiply(c)}, image.Point{}, draw.Over)
}

// premultiply converts a straight-alpha color into the premultiplied form
// image/draw expects.
func premultiply(c color.RGBA) color.RGBA {
	a := uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: c.A,
	}
}

func drawString(canvas *image.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
