package bifurcx

import (
	"slices"
	"sort"
)

// merger coalesces output across units, so a parallel run keeps the same set
// as a single kernel over the whole range. Sweep points are merged per
// parameter step. Iterate rounds are held until every feeding unit reported
// them and are then coalesced in slot order, which is the order the single
// kernel walks the grid in. Guarded by Graph.mu.
type merger struct {
	hint  int
	steps map[int]*DedupSet

	feeding map[int]bool
	rounds  map[int]map[int]part
	set     *DedupSet
	// killed marks grid slots that coalesced away in some round. A unit keeps
	// advancing its own copy, but the slot never comes back.
	killed []bool
}

// part is one unit's share of an iterate round.
type part struct {
	offset int
	cells  []Cell
}

// newMerger prepares a merger for a run dispatched over spans. Unit i owns
// spans[i]; units with an empty span never feed rounds.
func newMerger(mode Mode, s Settings, spans []Span) *merger {
	m := &merger{hint: int(s.SampleRes)}
	if mode != ModeIterate {
		m.steps = make(map[int]*DedupSet)
		return m
	}
	m.feeding = make(map[int]bool, len(spans))
	for i, sp := range spans {
		if !sp.Empty() {
			m.feeding[i] = true
		}
	}
	m.rounds = make(map[int]map[int]part)
	m.killed = make([]bool, s.Cells())
	m.set = NewDedupSet(s.Cells())
	return m
}

// point reports whether a sweep point of the given parameter step survives.
func (m *merger) point(step int, c Coordinate) bool {
	set, ok := m.steps[step]
	if !ok {
		set = NewDedupSet(m.hint)
		m.steps[step] = set
	}
	return set.Add(c)
}

// round records unit's cells for one iterate round and returns the merged
// parts of every round that became complete, oldest round first and each
// round in slot order.
func (m *merger) round(unit, round, offset int, cells []Cell) []part {
	parts, ok := m.rounds[round]
	if !ok {
		parts = make(map[int]part, len(m.feeding))
		m.rounds[round] = parts
	}
	parts[unit] = part{offset: offset, cells: cells}
	return m.drain()
}

// retire stops waiting for unit. Rounds it never reported are merged without
// it.
func (m *merger) retire(unit int) []part {
	if m.feeding == nil {
		return nil
	}
	delete(m.feeding, unit)
	return m.drain()
}

// pending is the number of rounds still waiting for some unit.
func (m *merger) pending() int { return len(m.rounds) }

func (m *merger) drain() []part {
	var ready []int
	for r, parts := range m.rounds {
		if m.complete(parts) {
			ready = append(ready, r)
		}
	}
	sort.Ints(ready)

	var out []part
	for _, r := range ready {
		parts := m.rounds[r]
		delete(m.rounds, r)
		ordered := make([]part, 0, len(parts))
		for _, p := range parts {
			ordered = append(ordered, p)
		}
		slices.SortFunc(ordered, func(a, b part) int { return a.offset - b.offset })
		m.coalesce(ordered)
		out = append(out, ordered...)
	}
	return out
}

func (m *merger) complete(parts map[int]part) bool {
	for unit := range m.feeding {
		if _, ok := parts[unit]; !ok {
			return false
		}
	}
	return true
}

// coalesce runs one round's dedup over parts, clearing losers in place.
func (m *merger) coalesce(parts []part) {
	m.set.Reset()
	for _, p := range parts {
		for i := range p.cells {
			slot := p.offset + i
			if slot < 0 || slot >= len(m.killed) {
				continue
			}
			c := &p.cells[i]
			switch {
			case m.killed[slot]:
				*c = Cell{}
			case !c.Live:
				m.killed[slot] = true
			case !m.set.Add(c.Point):
				m.killed[slot] = true
				*c = Cell{}
			}
		}
	}
}
