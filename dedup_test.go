package bifurcx

import (
	"math"
	"testing"
)

func TestCoordinateEq(t *testing.T) {
	base := Coordinate{Param: 3.2, Value: 0.5}

	tests := []struct {
		name  string
		other Coordinate
		want  bool
	}{
		{name: "identical", other: base, want: true},
		{name: "value drift below epsilon", other: Coordinate{Param: 3.2, Value: 0.5 + Epsilon/2}, want: true},
		{name: "value beyond epsilon", other: Coordinate{Param: 3.2, Value: 0.5 + 3*Epsilon}, want: false},
		{name: "next parameter step", other: Coordinate{Param: 3.21, Value: 0.5}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Eq(tt.other); got != tt.want {
				t.Errorf("Eq(%v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Eq(base); got != tt.want {
				t.Errorf("Eq is not symmetric for %v", tt.other)
			}
		})
	}
}

func TestCoordinateCompare(t *testing.T) {
	a := Coordinate{Param: 3, Value: 0.9}
	b := Coordinate{Param: 3.001, Value: 0.1}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare does not order by parameter first")
	}
}

func TestDedupSetCoalesces(t *testing.T) {
	set := NewDedupSet(4)
	c := Coordinate{Param: 3.5, Value: 0.25}

	if !set.Add(c) {
		t.Fatal("first Add returned false")
	}
	if set.Add(c) {
		t.Error("duplicate Add returned true")
	}
	// Neighbouring buckets must still be inspected.
	for _, d := range []float64{Epsilon * 0.9, -Epsilon * 0.9, Epsilon * 0.5} {
		near := Coordinate{Param: c.Param, Value: c.Value + d}
		if set.Add(near) {
			t.Errorf("Add(%v) survived within epsilon", near)
		}
		if !set.Has(near) {
			t.Errorf("Has(%v) = false", near)
		}
	}
	far := Coordinate{Param: c.Param, Value: c.Value + 5*Epsilon}
	if !set.Add(far) {
		t.Error("distinct point rejected")
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}

	set.Reset()
	if set.Len() != 0 || set.Has(c) {
		t.Error("Reset left entries behind")
	}
	if !set.Add(c) {
		t.Error("Add after Reset returned false")
	}
}

func TestDedupSetRejectsNaN(t *testing.T) {
	set := NewDedupSet(0)
	nan := Coordinate{Param: 3, Value: math.NaN()}
	if set.Add(nan) {
		t.Error("NaN point accepted")
	}
	if set.Has(nan) {
		t.Error("Has(NaN) = true")
	}
	if set.Len() != 0 {
		t.Errorf("Len() = %d, want 0", set.Len())
	}
}

// Every pair that survives a set is farther apart than Epsilon.
func TestDedupSetSurvivorsAreSeparated(t *testing.T) {
	set := NewDedupSet(0)
	var kept []Coordinate
	for i := 0; i < 2000; i++ {
		c := Coordinate{Param: 3.7, Value: float64(i) * Epsilon / 3}
		if set.Add(c) {
			kept = append(kept, c)
		}
	}
	for i := range kept {
		for j := i + 1; j < len(kept); j++ {
			if kept[i].Eq(kept[j]) {
				t.Fatalf("%v and %v both survived", kept[i], kept[j])
			}
		}
	}
	if len(kept) < 400 {
		t.Errorf("only %d survivors, coalescing is too aggressive", len(kept))
	}
}
