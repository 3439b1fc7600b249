package bifurcx

import "sync"

// Cell is one slot of the point collection. A dead cell holds no point; in
// iterate mode it marks a point that coalesced away.
type Cell struct {
	Point Coordinate
	Live  bool
}

// Grid is the authoritative point collection of a Graph. Sweep mode appends
// to it; iterate mode materializes it up front and patches disjoint regions
// in place. Every mutation happens under the grid lock, and observers are
// notified after the lock is released.
type Grid struct {
	mu       sync.RWMutex
	cells    []Cell
	live     int
	observer Observer
}

// NewGrid creates an empty grid reporting to observer (nil means none).
func NewGrid(observer Observer) *Grid {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Grid{observer: observer}
}

// Append stores c and notifies Plotted exactly once.
func (g *Grid) Append(c Coordinate) {
	g.mu.Lock()
	g.cells = append(g.cells, Cell{Point: c, Live: true})
	g.live++
	g.mu.Unlock()

	g.observer.Plotted(c)
}

// Materialize replaces the contents with every iterate-mode cell, sample
// major: slot (x-1)*ParamRes + µ for x in [1, SampleRes) and µ in [0, ParamRes).
func (g *Grid) Materialize(s Settings) {
	cells := materialize(s, 1, int(s.SampleRes))

	g.mu.Lock()
	g.cells = cells
	g.live = len(cells)
	g.mu.Unlock()

	g.observer.Patched()
}

// Patch overwrites the slots starting at offset with cells. Dead cells clear
// their slot; cells that fall past the end are skipped. It returns the number
// of slots written.
func (g *Grid) Patch(offset int, cells []Cell) int {
	if offset < 0 {
		return 0
	}
	g.mu.Lock()
	written := 0
	for i, c := range cells {
		idx := offset + i
		if idx >= len(g.cells) {
			break
		}
		was := g.cells[idx].Live
		switch {
		case c.Live:
			g.cells[idx] = c
			if !was {
				g.live++
			}
		case was:
			g.cells[idx] = Cell{}
			g.live--
		}
		written++
	}
	g.mu.Unlock()

	if written > 0 {
		g.observer.Patched()
	}
	return written
}

// Reset discards every slot.
func (g *Grid) Reset() {
	g.mu.Lock()
	g.cells = nil
	g.live = 0
	g.mu.Unlock()
}

// Len is the number of live points.
func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.live
}

// Slots is the number of slots, live or dead.
func (g *Grid) Slots() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cells)
}

// Points returns a copy of the live points in slot order.
func (g *Grid) Points() []Coordinate {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Coordinate, 0, g.live)
	for _, c := range g.cells {
		if c.Live {
			out = append(out, c.Point)
		}
	}
	return out
}

// materialize lays out the dense cells of sample indexes [low, high).
func materialize(s Settings, low, high int) []Cell {
	if high <= low {
		return nil
	}
	res := int(s.ParamRes)
	cells := make([]Cell, 0, (high-low)*res)
	for x := low; x < high; x++ {
		value := s.SampleAt(x)
		for mu := 0; mu < res; mu++ {
			cells = append(cells, Cell{Point: Coordinate{Param: s.ParamAt(mu), Value: value}, Live: true})
		}
	}
	return cells
}

// offsetOf is the grid slot of the first cell of sample index low.
func offsetOf(s Settings, low int) int {
	return (low - 1) * int(s.ParamRes)
}
