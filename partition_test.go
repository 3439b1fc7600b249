package bifurcx

import "testing"

func TestLanes(t *testing.T) {
	tests := []struct{ cpus, want int }{
		{0, 2}, {1, 2}, {2, 2}, {3, 2}, {4, 2}, {5, 3}, {8, 4}, {9, 5}, {16, 8},
	}
	for _, tt := range tests {
		if got := Lanes(tt.cpus); got != tt.want {
			t.Errorf("Lanes(%d) = %d, want %d", tt.cpus, got, tt.want)
		}
	}
	if DefaultLanes() < 2 {
		t.Errorf("DefaultLanes() = %d", DefaultLanes())
	}
}

// Every sample index in [1, sampleRes) is owned by exactly one span.
func TestPartitionCoversDomain(t *testing.T) {
	for sampleRes := 1; sampleRes <= 97; sampleRes++ {
		for lanes := 1; lanes <= 12; lanes++ {
			spans := Partition(sampleRes, lanes)
			if len(spans) != lanes {
				t.Fatalf("Partition(%d, %d) returned %d spans", sampleRes, lanes, len(spans))
			}

			owner := make([]int, sampleRes)
			for i, sp := range spans {
				if sp.Low < 1 || sp.High > sampleRes && !sp.Empty() {
					t.Fatalf("Partition(%d, %d): span %d %+v out of domain", sampleRes, lanes, i, sp)
				}
				for x := sp.Low; x < sp.High; x++ {
					owner[x]++
				}
			}
			for x := 1; x < sampleRes; x++ {
				if owner[x] != 1 {
					t.Fatalf("Partition(%d, %d): index %d owned %d times", sampleRes, lanes, x, owner[x])
				}
			}
		}
	}
}

func TestPartitionShape(t *testing.T) {
	spans := Partition(50, 4)
	want := []Span{{1, 14}, {14, 27}, {27, 40}, {40, 50}}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}

	// More lanes than indexes leaves surplus lanes empty.
	spans = Partition(4, 6)
	nonEmpty := 0
	for _, sp := range spans {
		if !sp.Empty() {
			nonEmpty++
		}
	}
	if nonEmpty != 3 {
		t.Errorf("Partition(4, 6) has %d non-empty spans, want 3", nonEmpty)
	}
	if last := spans[len(spans)-1]; last.High != 4 || !last.Empty() {
		t.Errorf("last span = %+v", last)
	}
}
