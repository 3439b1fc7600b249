package testutil

import (
	"testing"
	"time"

	"github.com/comalice/bifurcx"
)

// TestAdapterInterface verifies that every adapter builds a graph bound to
// its execution path.
func TestAdapterInterface(t *testing.T) {
	tests := []struct {
		name     string
		adapter  ExecutionAdapter
		parallel bool
	}{
		{name: "Cooperative", adapter: CooperativeAdapter{Interval: time.Millisecond}},
		{name: "Parallel", adapter: ParallelAdapter{Lanes: 2}, parallel: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.adapter.NewGraph()
			r, err := RunToCompletion(g, bifurcx.NewSettings(20, 10, 20), 10*time.Second)
			if err != nil {
				t.Fatalf("RunToCompletion failed: %v", err)
			}
			if r.Parallel != tt.parallel {
				t.Errorf("Parallel = %v, want %v", r.Parallel, tt.parallel)
			}
			if g.Len() == 0 {
				t.Error("no points produced")
			}
		})
	}
}

func TestAdaptersNames(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Adapters() {
		if seen[a.Name()] {
			t.Errorf("duplicate adapter %q", a.Name())
		}
		seen[a.Name()] = true
	}
	if !seen["cooperative"] || !seen["parallel/2"] {
		t.Errorf("adapters = %v", seen)
	}
}

func TestSetHelpers(t *testing.T) {
	a := []bifurcx.Coordinate{{Param: 3, Value: 0.1}, {Param: 3, Value: 0.5}}
	b := []bifurcx.Coordinate{{Param: 3, Value: 0.5 + bifurcx.Epsilon/2}, {Param: 3, Value: 0.1}}

	if !SameSet(a, b, bifurcx.Epsilon) {
		t.Error("SameSet rejected sets equal within epsilon")
	}
	if SameSet(a, b, 0) {
		t.Error("SameSet with zero tolerance accepted drifted points")
	}
	if got := Missing(a, b[:1], bifurcx.Epsilon); len(got) != 1 || got[0] != a[0] {
		t.Errorf("Missing = %v", got)
	}

	if _, _, found := Coalesced(a); found {
		t.Error("Coalesced found a pair in a separated set")
	}
	if _, _, found := Coalesced(append(a, b[0])); !found {
		t.Error("Coalesced missed a pair")
	}
	if got := Canonical(append(a, b...)); len(got) != 2 {
		t.Errorf("Canonical kept %d points, want 2", len(got))
	}
}

func TestRecorderCollapsesPlots(t *testing.T) {
	r := &Recorder{}
	r.Clear()
	r.Plot(bifurcx.Coordinate{Param: 3, Value: 0.1})
	r.Plot(bifurcx.Coordinate{Param: 3, Value: 0.2})
	r.Redraw()
	want := []string{"clear", "plot", "redraw"}
	got := r.Calls()
	if len(got) != len(want) {
		t.Fatalf("Calls() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Calls()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(r.Plotted()) != 2 || r.Redraws() != 1 || r.Clears() != 1 {
		t.Errorf("plotted=%d redraws=%d clears=%d", len(r.Plotted()), r.Redraws(), r.Clears())
	}
}
