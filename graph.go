// Package bifurcx computes bifurcation diagrams of the logistic map and
// streams the surviving points to a render bridge while the computation runs.
//
// A Graph owns the point collection. Start partitions the sample domain
// across worker units (or runs the same kernels on a cooperative timer when
// parallel execution is unavailable), aggregates their messages and notifies
// an Observer of every accepted point.
package bifurcx

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// ErrRunning is returned by operations that need an idle Graph.
var ErrRunning = errors.New("graph is running")

// State is the lifecycle state of a Graph.
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

// Graph is the coordinator: it owns the point collection and the active run.
// Thread-safe for concurrent Start/Stop/Clear from multiple goroutines.
type Graph struct {
	mode      Mode
	lanes     int
	execution Execution
	interval  time.Duration
	buffer    int
	observer  Observer
	logger    *log.Logger

	mu    sync.Mutex
	grid  *Grid
	merge *merger
	run   *Run
	seq   uint64

	state  atomic.Int32
	active atomic.Bool
	units  atomic.Int32
}

// NewGraph creates an idle Graph.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		mode:     ModeSweep,
		lanes:    DefaultLanes(),
		interval: 10 * time.Millisecond,
		buffer:   1024,
		observer: NopObserver{},
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.grid = NewGrid(g.observer)
	return g
}

// Start validates s, stops any previous run, resets the point collection and
// dispatches the computation. It never waits for the computation to finish.
func (g *Graph) Start(ctx context.Context, s Settings) (*Run, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	g.Stop()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.run != nil && !g.run.finished {
		g.finishLocked(g.run, true)
	}

	g.seq++
	r := newRun(ctx, g.seq, g.mode, s)
	r.Parallel = g.parallel()
	g.run = r
	g.grid.Reset()

	spans := []Span{{Low: 1, High: int(s.SampleRes)}}
	if r.Parallel {
		spans = Partition(int(s.SampleRes), g.lanes)
	}
	g.merge = newMerger(r.Mode, s, spans)

	g.state.Store(int32(StateRunning))
	g.active.Store(true)
	g.observer.Started(g)

	if r.Mode == ModeIterate {
		g.grid.Materialize(s)
	}
	if r.Parallel {
		g.launchUnits(r, spans)
	} else {
		g.launchCooperative(r, spans[0])
	}
	return r, nil
}

// Stop ends the active run. Points already aggregated are kept. Calling Stop
// on an idle Graph is a no-op.
func (g *Graph) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r := g.run; r != nil && !r.finished {
		g.finishLocked(r, true)
	}
}

// Clear stops the active run, discards every point and blanks the display.
func (g *Graph) Clear() {
	g.Stop()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.grid.Reset()
	g.merge = nil
	g.observer.Cleared()
}

// SetMode selects the iteration mode of the next run.
func (g *Graph) SetMode(m Mode) error {
	if m != ModeSweep && m != ModeIterate {
		return ErrUnknownMode
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.run != nil && !g.run.finished {
		return ErrRunning
	}
	g.mode = m
	return nil
}

// Mode is the mode of the next run.
func (g *Graph) Mode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// Current returns the most recent run, or nil before the first Start.
func (g *Graph) Current() *Run {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.run
}

// State reports the lifecycle state.
func (g *Graph) State() State { return State(g.state.Load()) }

// Running reports whether a run is in progress.
func (g *Graph) Running() bool { return g.active.Load() }

// Active implements Source.
func (g *Graph) Active() bool { return g.active.Load() }

// ActiveUnits is the number of units that have not yet reported completion.
func (g *Graph) ActiveUnits() int { return int(g.units.Load()) }

// Points implements Source.
func (g *Graph) Points() []Coordinate { return g.grid.Points() }

// Len is the number of live points.
func (g *Graph) Len() int { return g.grid.Len() }

// Lanes is the number of units dispatched per parallel run.
func (g *Graph) Lanes() int { return g.lanes }

// accept merges a sweep-mode point into the collection unless another unit
// already produced a coalescing point for the same parameter step.
func (g *Graph) accept(r *Run, step int, p Coordinate) bool {
	if !g.merge.point(step, p) {
		return false
	}
	g.grid.Append(p)
	r.accepted.Add(1)
	return true
}

// patch hands one iterate-mode round of a unit to the merger and writes every
// round the merger completed into the collection.
func (g *Graph) patch(unit, round, offset int, cells []Cell) {
	g.write(g.merge.round(unit, round, offset, cells))
}

func (g *Graph) write(parts []part) {
	for _, p := range parts {
		g.grid.Patch(p.offset, p.cells)
	}
}

// apply folds one kernel batch into the collection.
func (g *Graph) apply(r *Run, b batch) {
	if r.Mode == ModeIterate {
		if b.cells != nil {
			g.patch(0, b.step, b.offset, b.cells)
		}
		return
	}
	for _, p := range b.points {
		g.accept(r, b.step, p)
	}
}

// finishLocked ends r. The observer sees Stopped while the run still reports
// active, so it can flush a final frame.
func (g *Graph) finishLocked(r *Run, cancelled bool) {
	r.finished = true
	r.cancelled.Store(cancelled)
	g.state.Store(int32(StateStopping))
	r.cancel()

	g.observer.Stopped()

	r.retireAll()
	g.units.Store(0)
	g.active.Store(false)
	g.state.Store(int32(StateIdle))
	close(r.done)

	verb := "finished"
	if cancelled {
		verb = "halted"
	}
	g.logger.Printf("bifurcx: run %d %s with %d points", r.ID, verb, g.grid.Len())
}
