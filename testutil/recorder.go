// Package testutil provides a recording renderer and helpers that run the
// same scenario on both execution paths of a Graph.
package testutil

import (
	"slices"
	"sync"

	"github.com/comalice/bifurcx"
)

// Recorder is an outlet.Renderer that remembers every call.
type Recorder struct {
	mu      sync.Mutex
	plotted []bifurcx.Coordinate
	redraws int
	clears  int
	// log holds the call sequence: "plot", "redraw" or "clear".
	log []string
}

// Plot records p.
func (r *Recorder) Plot(p bifurcx.Coordinate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plotted = append(r.plotted, p)
	r.log = appendCall(r.log, "plot")
}

// Redraw counts a full repaint.
func (r *Recorder) Redraw() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redraws++
	r.log = appendCall(r.log, "redraw")
}

// Clear forgets plotted points and counts the call.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plotted = r.plotted[:0]
	r.clears++
	r.log = appendCall(r.log, "clear")
}

// Plotted returns the points plotted since the last Clear.
func (r *Recorder) Plotted() []bifurcx.Coordinate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.plotted)
}

// Redraws is the number of Redraw calls.
func (r *Recorder) Redraws() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.redraws
}

// Clears is the number of Clear calls.
func (r *Recorder) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}

// Calls returns the call sequence with consecutive plots collapsed.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.log)
}

func appendCall(log []string, call string) []string {
	if call == "plot" && len(log) > 0 && log[len(log)-1] == "plot" {
		return log
	}
	return append(log, call)
}
