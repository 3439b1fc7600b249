package bifurcx

import (
	"context"
	"fmt"
)

// Request is the payload handed to a worker unit. It is copied in full; the
// unit never sees the Graph.
type Request struct {
	Unit     int
	Mode     Mode
	Span     Span
	Settings Settings
}

// Kind tags a unit message.
type Kind int

const (
	// KindPoint carries one surviving sweep-mode point.
	KindPoint Kind = iota
	// KindRound carries the dense cells of one iterate-mode round.
	KindRound
	// KindDone is the terminal "no more data" message.
	KindDone
)

// Message is one item of a unit's output stream.
type Message struct {
	Unit  int
	Kind  Kind
	Step  int // parameter index (sweep) or round number (iterate)
	Point Coordinate
	// Offset is the grid slot of Cells[0].
	Offset int
	Cells  []Cell
	// Err is set on KindDone when the unit failed.
	Err error
}

// UnitHandle describes a dispatched unit as seen by the Graph.
type UnitHandle struct {
	ID    int
	Low   int
	High  int
	Alive bool
}

// RunUnit computes req and streams its messages to out, always ending with a
// single KindDone unless ctx is cancelled first. A panic inside the kernel is
// turned into an error on the Done message.
func RunUnit(ctx context.Context, req Request, out chan<- Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unit %d: panic: %v", req.Unit, r)
		}
		send(ctx, out, Message{Unit: req.Unit, Kind: KindDone, Err: err})
	}()

	if req.Span.Empty() {
		return nil
	}
	k := newKernel(req.Mode, req.Settings, req.Span)
	for {
		b, more, err := k.step(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("unit %d: %w", req.Unit, err)
		}
		switch req.Mode {
		case ModeIterate:
			if b.cells != nil && !send(ctx, out, Message{Unit: req.Unit, Kind: KindRound, Step: b.step, Offset: b.offset, Cells: b.cells}) {
				return nil
			}
		default:
			for _, p := range b.points {
				if !send(ctx, out, Message{Unit: req.Unit, Kind: KindPoint, Step: b.step, Point: p}) {
					return nil
				}
			}
		}
		if !more {
			return nil
		}
	}
}

// send delivers m unless ctx is cancelled first.
func send(ctx context.Context, out chan<- Message, m Message) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case out <- m:
		return true
	case <-ctx.Done():
		return false
	}
}
