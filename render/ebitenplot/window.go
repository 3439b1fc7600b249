// Package ebitenplot shows a bifurcation diagram in an ebiten window.
package ebitenplot

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/comalice/bifurcx"
	"github.com/comalice/bifurcx/render/raster"
)

// Window is an ebiten.Game whose frame is a raster canvas. Plot, Redraw and
// Clear go to the canvas from any goroutine; Draw uploads the canvas on the
// game loop only when a newer frame was published.
type Window struct {
	*raster.Canvas

	title  string
	width  int
	height int
	frame  *ebiten.Image
	pixels []byte
	shown  uint64
}

var _ ebiten.Game = (*Window)(nil)

// New creates a width x height window framing s.
func New(title string, width, height int, s bifurcx.Settings) *Window {
	c := raster.ForSettings(width, height, s)
	cw, ch := c.Size()
	return &Window{Canvas: c, title: title, width: cw, height: ch}
}

// Update ends the game when Escape or Q is pressed.
func (w *Window) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

// Draw copies the latest published canvas frame onto the screen.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.frame == nil {
		w.frame = ebiten.NewImage(w.width, w.height)
		w.shown = ^uint64(0)
	}
	if v := w.Version(); v != w.shown {
		w.pixels = w.CopyPixels(w.pixels)
		w.frame.WritePixels(w.pixels)
		w.shown = v
	}
	screen.DrawImage(w.frame, nil)
}

// Layout keeps the logical screen at the canvas size.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}

// Run opens the window and blocks until it is closed.
func (w *Window) Run() error {
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(w)
}
