package production

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/comalice/bifurcx"
)

// EventKind names a Graph notification.
type EventKind int

const (
	EventStarted EventKind = iota
	EventPlotted
	EventPatched
	EventCleared
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventPlotted:
		return "plotted"
	case EventPatched:
		return "patched"
	case EventCleared:
		return "cleared"
	case EventStopped:
		return "stopped"
	}
	return "unknown"
}

// PublishedEvent is one notification together with its metadata.
type PublishedEvent struct {
	Kind EventKind
	// Point is set for EventPlotted.
	Point bifurcx.Coordinate
	// Live is the number of live points, set for EventStopped.
	Live      int
	Timestamp time.Time
}

// ChannelPublisher forwards Graph notifications to a Go channel. It
// implements bifurcx.Observer. Publishing never blocks the Graph: events are
// dropped when the channel is full.
type ChannelPublisher struct {
	ch      chan<- PublishedEvent
	mu      sync.Mutex
	src     bifurcx.Source
	dropped atomic.Uint64
}

var _ bifurcx.Observer = (*ChannelPublisher)(nil)

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- PublishedEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// Publish sends e unless the channel is full or ctx is done.
func (p *ChannelPublisher) Publish(ctx context.Context, e PublishedEvent) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	select {
	case p.ch <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.dropped.Add(1)
		return nil // Non-blocking drop
	}
}

// Dropped is the number of events lost to backpressure.
func (p *ChannelPublisher) Dropped() uint64 { return p.dropped.Load() }

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}

func (p *ChannelPublisher) Started(src bifurcx.Source) {
	p.mu.Lock()
	p.src = src
	p.mu.Unlock()
	p.Publish(context.Background(), PublishedEvent{Kind: EventStarted})
}

func (p *ChannelPublisher) Plotted(c bifurcx.Coordinate) {
	p.Publish(context.Background(), PublishedEvent{Kind: EventPlotted, Point: c})
}

func (p *ChannelPublisher) Patched() {
	p.Publish(context.Background(), PublishedEvent{Kind: EventPatched})
}

func (p *ChannelPublisher) Cleared() {
	p.Publish(context.Background(), PublishedEvent{Kind: EventCleared})
}

func (p *ChannelPublisher) Stopped() {
	p.mu.Lock()
	src := p.src
	p.mu.Unlock()
	e := PublishedEvent{Kind: EventStopped}
	if src != nil {
		e.Live = len(src.Points())
	}
	p.Publish(context.Background(), e)
}
