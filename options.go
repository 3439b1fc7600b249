package bifurcx

import (
	"log"
	"time"
)

// Option applies configuration to a Graph via the functional options pattern.
type Option func(*Graph)

// Execution selects how a Graph runs its kernels.
type Execution int

const (
	// ExecAuto uses worker units when more than one OS thread may execute Go
	// code, and the cooperative loop otherwise.
	ExecAuto Execution = iota
	// ExecParallel always dispatches worker units.
	ExecParallel
	// ExecCooperative always runs the single-threaded timer loop.
	ExecCooperative
)

func (e Execution) String() string {
	switch e {
	case ExecParallel:
		return "parallel"
	case ExecCooperative:
		return "cooperative"
	default:
		return "auto"
	}
}

// WithMode sets the iteration mode used by the next runs.
func WithMode(m Mode) Option {
	return func(g *Graph) {
		g.mode = m
	}
}

// WithLanes overrides the number of worker units per run.
func WithLanes(n int) Option {
	return func(g *Graph) {
		if n > 0 {
			g.lanes = n
		}
	}
}

// WithExecution forces the parallel or cooperative path.
func WithExecution(e Execution) Option {
	return func(g *Graph) {
		g.execution = e
	}
}

// WithInterval sets the tick of the cooperative loop (default 10ms).
func WithInterval(d time.Duration) Option {
	return func(g *Graph) {
		if d > 0 {
			g.interval = d
		}
	}
}

// WithObserver attaches the render bridge, or any other Observer.
func WithObserver(o Observer) Option {
	return func(g *Graph) {
		if o != nil {
			g.observer = o
		}
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithBuffer sizes the fan-in channel shared by worker units.
func WithBuffer(n int) Option {
	return func(g *Graph) {
		if n >= 0 {
			g.buffer = n
		}
	}
}
