package bifurcx

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/comalice/bifurcx/internal/schedule"
)

// parallel decides the execution path of the next run.
func (g *Graph) parallel() bool {
	switch g.execution {
	case ExecParallel:
		return true
	case ExecCooperative:
		return false
	}
	return runtime.GOMAXPROCS(0) > 1
}

// launchUnits dispatches one unit per span and a single consumer that
// multiplexes their messages. Called with g.mu held.
func (g *Graph) launchUnits(r *Run, spans []Span) {
	msgs := make(chan Message, g.buffer)

	r.units = make([]UnitHandle, len(spans))
	for i, sp := range spans {
		r.units[i] = UnitHandle{ID: i, Low: sp.Low, High: sp.High, Alive: true}
	}
	g.units.Store(int32(len(spans)))
	g.logger.Printf("bifurcx: run %d: spawning %d units (%s)", r.ID, len(spans), r.Mode)

	var eg errgroup.Group
	for i, sp := range spans {
		req := Request{Unit: i, Mode: r.Mode, Span: sp, Settings: r.Settings}
		eg.Go(func() error {
			return RunUnit(r.ctx, req, msgs)
		})
	}
	go func() {
		if err := eg.Wait(); err != nil {
			r.setErr(err)
		}
		close(r.exited)
	}()
	go g.consume(r, msgs)
}

// consume is the single reader of the fan-in channel for r.
func (g *Graph) consume(r *Run, msgs <-chan Message) {
	for {
		select {
		case m := <-msgs:
			g.handle(r, m)
		case <-r.ctx.Done():
			g.mu.Lock()
			if !r.finished {
				g.finishLocked(r, true)
			}
			g.mu.Unlock()
			return
		}
	}
}

// handle applies one unit message. Messages of a finished or superseded run
// are dropped.
func (g *Graph) handle(r *Run, m Message) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r.finished || g.run != r {
		return
	}

	switch m.Kind {
	case KindPoint:
		g.accept(r, m.Step, m.Point)
	case KindRound:
		g.patch(m.Unit, m.Step, m.Offset, m.Cells)
	case KindDone:
		alive, ok := r.retire(m.Unit)
		if !ok {
			return
		}
		g.units.Store(int32(alive))
		g.write(g.merge.retire(m.Unit))
		if m.Err != nil {
			r.setErr(m.Err)
			g.logger.Printf("bifurcx: run %d: unit %d failed: %v", r.ID, m.Unit, m.Err)
		} else {
			g.logger.Printf("bifurcx: run %d: unit %d retired", r.ID, m.Unit)
		}
		if alive == 0 {
			g.finishLocked(r, false)
		}
	}
}

// launchCooperative runs the full-range kernel one step per tick on a single
// goroutine. Called with g.mu held.
func (g *Graph) launchCooperative(r *Run, span Span) {
	r.units = []UnitHandle{{ID: 0, Low: span.Low, High: span.High, Alive: true}}
	g.units.Store(1)
	g.logger.Printf("bifurcx: run %d: cooperative loop every %v (%s)", r.ID, g.interval, r.Mode)

	k := newKernel(r.Mode, r.Settings, span)
	loop := schedule.New(g.interval, func() bool {
		return g.cooperativeStep(r, k)
	}, g.logger)
	loop.Start(r.ctx)
	go func() {
		<-loop.Done()
		// The loop may exit on cancellation before any step noticed it.
		g.mu.Lock()
		if !r.finished {
			g.finishLocked(r, true)
		}
		g.mu.Unlock()
		close(r.exited)
	}()
}

// cooperativeStep computes outside the lock and applies under it, so Stop
// never waits for a step and a cancelled step never lands.
func (g *Graph) cooperativeStep(r *Run, k kernel) bool {
	b, more, err := safeStep(r, k)

	g.mu.Lock()
	defer g.mu.Unlock()
	if r.finished || g.run != r {
		return false
	}
	if err != nil {
		if r.ctx.Err() != nil {
			g.finishLocked(r, true)
			return false
		}
		r.setErr(err)
		g.logger.Printf("bifurcx: run %d: cooperative step failed: %v", r.ID, err)
		g.finishLocked(r, false)
		return false
	}
	g.apply(r, b)
	if !more {
		g.finishLocked(r, false)
		return false
	}
	return true
}

func safeStep(r *Run, k kernel) (b batch, more bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("cooperative step: panic: %v", p)
		}
	}()
	return k.step(r.ctx)
}
