// Package schedule runs a function on a fixed interval from a single
// goroutine. It backs the cooperative single-threaded execution path and the
// render frame loop.
package schedule

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Loop calls fn once per tick until fn returns false, the context is
// cancelled or Stop is called.
type Loop struct {
	interval time.Duration
	fn       func() bool
	logger   *log.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
	ticks   atomic.Uint64
}

// New creates a loop; it does nothing until Start.
func New(interval time.Duration, fn func() bool, logger *log.Logger) *Loop {
	if interval <= 0 {
		interval = 16667 * time.Microsecond
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loop{interval: interval, fn: fn, logger: logger}
}

// Start launches the loop goroutine. Starting a running loop is a no-op.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped != nil {
		select {
		case <-l.stopped:
		default:
			return
		}
	}
	loopCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.stopped = make(chan struct{})
	go l.run(loopCtx, l.stopped)
}

// Stop halts the loop and waits for it to exit. It is idempotent. Never call
// it from inside fn; use Cancel there.
func (l *Loop) Stop() {
	if stopped := l.Cancel(); stopped != nil {
		<-stopped
	}
}

// Cancel asks the loop to exit without waiting and returns the channel closed
// on exit, or nil if the loop was never started.
func (l *Loop) Cancel() <-chan struct{} {
	l.mu.Lock()
	cancel, stopped := l.cancel, l.stopped
	l.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	return stopped
}

// Done is closed once the current loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return l.stopped
}

// Ticks is the number of completed calls to fn.
func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}

func (l *Loop) run(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !l.tick(ctx) {
				return
			}
		}
	}
}

// tick runs fn once, converting a panic into the end of the loop.
func (l *Loop) tick(ctx context.Context) (more bool) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Printf("schedule: tick panicked: %v", r)
			more = false
		}
	}()
	if ctx.Err() != nil {
		return false
	}
	more = l.fn()
	l.ticks.Add(1)
	return more
}
