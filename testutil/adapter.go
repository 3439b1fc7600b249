package testutil

import (
	"context"
	"fmt"
	"io"
	"log"
	"slices"
	"sort"
	"time"

	"github.com/comalice/bifurcx"
)

// ExecutionAdapter builds graphs bound to one execution path, so a test
// suite can run unchanged against both.
type ExecutionAdapter interface {
	Name() string
	NewGraph(opts ...bifurcx.Option) *bifurcx.Graph
}

// ParallelAdapter dispatches worker units.
type ParallelAdapter struct {
	Lanes int
}

func (a ParallelAdapter) Name() string { return fmt.Sprintf("parallel/%d", a.Lanes) }

func (a ParallelAdapter) NewGraph(opts ...bifurcx.Option) *bifurcx.Graph {
	base := []bifurcx.Option{
		bifurcx.WithExecution(bifurcx.ExecParallel),
		bifurcx.WithLogger(QuietLogger()),
	}
	if a.Lanes > 0 {
		base = append(base, bifurcx.WithLanes(a.Lanes))
	}
	return bifurcx.NewGraph(append(base, opts...)...)
}

// CooperativeAdapter runs the single-threaded timer loop.
type CooperativeAdapter struct {
	Interval time.Duration
}

func (a CooperativeAdapter) Name() string { return "cooperative" }

func (a CooperativeAdapter) NewGraph(opts ...bifurcx.Option) *bifurcx.Graph {
	interval := a.Interval
	if interval <= 0 {
		interval = time.Millisecond
	}
	base := []bifurcx.Option{
		bifurcx.WithExecution(bifurcx.ExecCooperative),
		bifurcx.WithInterval(interval),
		bifurcx.WithLogger(QuietLogger()),
	}
	return bifurcx.NewGraph(append(base, opts...)...)
}

// Adapters lists the execution paths every equivalence test should cover.
func Adapters() []ExecutionAdapter {
	return []ExecutionAdapter{
		CooperativeAdapter{},
		ParallelAdapter{Lanes: 2},
		ParallelAdapter{Lanes: 3},
		ParallelAdapter{Lanes: 8},
	}
}

// QuietLogger discards output.
func QuietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// RunToCompletion starts g and waits up to timeout for the run to end.
func RunToCompletion(g *bifurcx.Graph, s bifurcx.Settings, timeout time.Duration) (*bifurcx.Run, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	r, err := g.Start(context.Background(), s)
	if err != nil {
		return nil, err
	}
	if err := r.Wait(ctx); err != nil {
		g.Stop()
		return r, fmt.Errorf("run %d did not finish: %w", r.ID, err)
	}
	return r, nil
}

// Canonical sorts points by hash and drops every point that coalesces with
// its predecessor.
func Canonical(points []bifurcx.Coordinate) []bifurcx.Coordinate {
	sorted := slices.Clone(points)
	slices.SortFunc(sorted, bifurcx.Coordinate.Compare)
	out := sorted[:0]
	for _, p := range sorted {
		if len(out) > 0 && out[len(out)-1].Eq(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Missing returns the points of a that have no partner in b whose hash lies
// within tol.
func Missing(a, b []bifurcx.Coordinate, tol float64) []bifurcx.Coordinate {
	hashes := make([]float64, len(b))
	for i, p := range b {
		hashes[i] = p.Hash()
	}
	sort.Float64s(hashes)

	var out []bifurcx.Coordinate
	for _, p := range a {
		h := p.Hash()
		i := sort.SearchFloat64s(hashes, h-tol)
		if i == len(hashes) || hashes[i] > h+tol {
			out = append(out, p)
		}
	}
	return out
}

// SameSet reports whether every point of a has a partner within tol in b and
// vice versa.
func SameSet(a, b []bifurcx.Coordinate, tol float64) bool {
	return len(Missing(a, b, tol)) == 0 && len(Missing(b, a, tol)) == 0
}

// Coalesced returns the first pair of points in pts that coalesce with each
// other, if any.
func Coalesced(pts []bifurcx.Coordinate) (a, b bifurcx.Coordinate, found bool) {
	sorted := slices.Clone(pts)
	slices.SortFunc(sorted, bifurcx.Coordinate.Compare)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Eq(sorted[i]) {
			return sorted[i-1], sorted[i], true
		}
	}
	return a, b, false
}
