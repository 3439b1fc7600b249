package bifurcx

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
)

// Run is the handle of one computation started by Graph.Start.
type Run struct {
	ID       uint64
	Mode     Mode
	Settings Settings
	Parallel bool

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	units []UnitHandle
	err   error

	accepted  atomic.Int64
	cancelled atomic.Bool
	finished  bool // guarded by Graph.mu
	done      chan struct{}
	exited    chan struct{}
}

func newRun(ctx context.Context, id uint64, mode Mode, s Settings) *Run {
	runCtx, cancel := context.WithCancel(ctx)
	return &Run{
		ID:       id,
		Mode:     mode,
		Settings: s,
		ctx:      runCtx,
		cancel:   cancel,
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

// Done is closed when the run completes or is stopped.
func (r *Run) Done() <-chan struct{} { return r.done }

// Exited is closed once every goroutine of the run has returned. It may lag
// Done after a Stop.
func (r *Run) Exited() <-chan struct{} { return r.exited }

// Wait blocks until the run is done or ctx expires.
func (r *Run) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancelled reports whether the run ended through Stop, Clear, a new Start
// or its parent context rather than by completing.
func (r *Run) Cancelled() bool { return r.cancelled.Load() }

// Accepted is the number of points appended to the grid by this run.
func (r *Run) Accepted() int { return int(r.accepted.Load()) }

// Units returns a snapshot of the unit handles.
func (r *Run) Units() []UnitHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.units)
}

// Err returns the first unit failure, if any. Failures never abort a run.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Run) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
	}
}

// retire marks unit id dead and returns how many remain alive.
func (r *Run) retire(id int) (alive int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.units {
		if r.units[i].ID == id && r.units[i].Alive {
			r.units[i].Alive = false
			ok = true
		}
		if r.units[i].Alive {
			alive++
		}
	}
	return alive, ok
}

func (r *Run) retireAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.units {
		r.units[i].Alive = false
	}
}
