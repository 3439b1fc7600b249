package bifurcx

import "testing"

func TestTeeFansOut(t *testing.T) {
	a, b := &countingObserver{}, &countingObserver{}
	o := Tee(a, b)
	o.Started(NewGraph())
	o.Plotted(Coordinate{Param: 3, Value: 0.5})
	o.Patched()
	o.Cleared()
	o.Stopped()
	for i, obs := range []*countingObserver{a, b} {
		started, plotted, patched, cleared, stopped := obs.counts()
		if started != 1 || plotted != 1 || patched != 1 || cleared != 1 || stopped != 1 {
			t.Errorf("observer %d saw %d/%d/%d/%d/%d", i, started, plotted, patched, cleared, stopped)
		}
	}
}
