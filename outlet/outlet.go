package outlet

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/comalice/bifurcx"
	"github.com/comalice/bifurcx/internal/schedule"
)

// Renderer is everything the engine needs from a drawing surface. Plot may be
// called from a different goroutine than Redraw and Clear.
type Renderer interface {
	// Plot hands over one point; the renderer may buffer it.
	Plot(p bifurcx.Coordinate)
	// Redraw repaints the full frame.
	Redraw()
	// Clear blanks the display.
	Clear()
}

// State is the outlet lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	}
	return "unknown"
}

// Config configures the frame loop.
type Config struct {
	FrameRate time.Duration // Frame interval (default 16.67ms, 60 FPS)
	Logger    *log.Logger
}

// Outlet is the render bridge. It implements bifurcx.Observer.
type Outlet struct {
	renderer Renderer
	frame    time.Duration
	logger   *log.Logger

	mu    sync.Mutex
	src   bifurcx.Source
	loop  *schedule.Loop
	state atomic.Int32

	dirty  atomic.Bool
	stale  atomic.Bool
	frames atomic.Uint64
}

var _ bifurcx.Observer = (*Outlet)(nil)

// New creates an idle outlet drawing on r.
func New(r Renderer, cfg Config) *Outlet {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 16667 * time.Microsecond
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Outlet{renderer: r, frame: cfg.FrameRate, logger: cfg.Logger}
}

// Started blanks the display and starts the frame loop for src.
func (o *Outlet) Started(src bifurcx.Source) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if State(o.state.Load()) == StateRunning {
		o.haltLocked()
	}

	o.src = src
	o.dirty.Store(false)
	o.stale.Store(false)
	o.renderer.Clear()
	o.renderer.Redraw()
	o.frames.Add(1)

	o.loop = schedule.New(o.frame, func() bool {
		o.step()
		return true
	}, o.logger)
	o.state.Store(int32(StateRunning))
	o.loop.Start(context.Background())
}

// Plotted marks the frame dirty and forwards p to the renderer.
func (o *Outlet) Plotted(p bifurcx.Coordinate) {
	o.dirty.Store(true)
	o.renderer.Plot(p)
}

// Patched marks the frame dirty and stale: the renderer's buffered points no
// longer match the collection and must be replayed from the source.
func (o *Outlet) Patched() {
	o.stale.Store(true)
	o.dirty.Store(true)
}

// Cleared blanks the display.
func (o *Outlet) Cleared() {
	o.dirty.Store(false)
	o.stale.Store(false)
	o.renderer.Clear()
	o.renderer.Redraw()
	o.frames.Add(1)
}

// Stopped halts the frame loop after one final conditional frame.
func (o *Outlet) Stopped() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if State(o.state.Load()) != StateRunning {
		return
	}
	o.haltLocked()
}

func (o *Outlet) haltLocked() {
	o.state.Store(int32(StateStopping))
	if o.loop != nil {
		o.loop.Stop()
		o.loop = nil
	}
	o.step()
	o.state.Store(int32(StateIdle))
	o.logger.Printf("outlet: halted after %d frames", o.frames.Load())
}

// step draws one frame if anything changed or the source is still active.
func (o *Outlet) step() {
	active := o.src != nil && o.src.Active()
	if !o.dirty.Swap(false) && !active {
		return
	}
	if o.stale.Swap(false) && o.src != nil {
		o.renderer.Clear()
		for _, p := range o.src.Points() {
			o.renderer.Plot(p)
		}
	}
	o.renderer.Redraw()
	o.frames.Add(1)
}

// State reports the lifecycle state.
func (o *Outlet) State() State { return State(o.state.Load()) }

// Dirty reports whether unrendered changes are pending.
func (o *Outlet) Dirty() bool { return o.dirty.Load() }

// Frames is the number of full redraws issued so far.
func (o *Outlet) Frames() uint64 { return o.frames.Load() }
