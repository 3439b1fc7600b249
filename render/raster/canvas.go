// Package raster is an in-memory RGBA renderer. It is the drawing surface of
// the window renderer and the source of PNG exports.
package raster

import (
	"image"
	"image/color"
	"sync"

	"github.com/comalice/bifurcx"
)

var (
	DefaultForeground = color.RGBA{R: 0x1f, G: 0x4e, B: 0x9c, A: 0xff}
	DefaultBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Canvas maps (µ, x) coordinates onto a fixed-size pixel buffer. µ grows to
// the right and x grows upward. It is safe for concurrent use.
type Canvas struct {
	mu      sync.Mutex
	img     *image.RGBA
	param   bifurcx.Range
	value   bifurcx.Range
	fg, bg  color.RGBA
	version uint64
	plotted int
}

// New creates a width x height canvas framing the given ranges.
func New(width, height int, param, value bifurcx.Range) *Canvas {
	c := &Canvas{
		img:   image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1))),
		param: param,
		value: value,
		fg:    DefaultForeground,
		bg:    DefaultBackground,
	}
	c.fill()
	return c
}

// ForSettings frames a canvas on the ranges of s.
func ForSettings(width, height int, s bifurcx.Settings) *Canvas {
	return New(width, height, s.ParamRange, s.SampleRange)
}

// SetColors changes the point and background colors; it clears the canvas.
func (c *Canvas) SetColors(fg, bg color.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fg, c.bg = fg, bg
	c.fill()
}

// Pixel converts p to pixel coordinates. ok is false outside the frame.
func (c *Canvas) Pixel(p bifurcx.Coordinate) (x, y int, ok bool) {
	if !c.param.Contains(p.Param) || !c.value.Contains(p.Value) {
		return 0, 0, false
	}
	b := c.img.Bounds()
	x = int((p.Param - c.param.Low) / c.param.Span() * float64(b.Dx()-1))
	y = b.Dy() - 1 - int((p.Value-c.value.Low)/c.value.Span()*float64(b.Dy()-1))
	return x, y, true
}

// Plot paints one point.
func (c *Canvas) Plot(p bifurcx.Coordinate) {
	x, y, ok := c.Pixel(p)
	if !ok {
		return
	}
	c.mu.Lock()
	c.img.SetRGBA(x, y, c.fg)
	c.plotted++
	c.mu.Unlock()
}

// Redraw publishes the current buffer as a new frame.
func (c *Canvas) Redraw() {
	c.mu.Lock()
	c.version++
	c.mu.Unlock()
}

// Clear paints the background over everything.
func (c *Canvas) Clear() {
	c.mu.Lock()
	c.fill()
	c.plotted = 0
	c.mu.Unlock()
}

// Version increases with every Redraw.
func (c *Canvas) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Plotted is the number of points painted since the last Clear.
func (c *Canvas) Plotted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plotted
}

// Size returns the canvas dimensions in pixels.
func (c *Canvas) Size() (width, height int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns a copy of the current buffer.
func (c *Canvas) Image() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

// CopyPixels copies the RGBA bytes into dst, growing it if needed.
func (c *Canvas) CopyPixels(dst []byte) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cap(dst) < len(c.img.Pix) {
		dst = make([]byte, len(c.img.Pix))
	}
	dst = dst[:len(c.img.Pix)]
	copy(dst, c.img.Pix)
	return dst
}

func (c *Canvas) fill() {
	for i := 0; i < len(c.img.Pix); i += 4 {
		c.img.Pix[i+0] = c.bg.R
		c.img.Pix[i+1] = c.bg.G
		c.img.Pix[i+2] = c.bg.B
		c.img.Pix[i+3] = c.bg.A
	}
}
