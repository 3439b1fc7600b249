package bifurcx

import "runtime"

// Span is a half-open [Low, High) range of sample indexes owned by one unit.
type Span struct {
	Low, High int
}

// Len is the number of indexes in the span.
func (s Span) Len() int {
	if s.High <= s.Low {
		return 0
	}
	return s.High - s.Low
}

// Empty reports whether the span owns no index.
func (s Span) Empty() bool { return s.Len() == 0 }

// Lanes returns how many units to run on a host with n logical CPUs: half of
// them, leaving room for rendering, and never fewer than two.
func Lanes(n int) int {
	lanes := (n + 1) / 2
	if lanes < 2 {
		lanes = 2
	}
	return lanes
}

// DefaultLanes applies Lanes to runtime.NumCPU.
func DefaultLanes() int {
	return Lanes(runtime.NumCPU())
}

// Partition splits [1, sampleRes) into lanes contiguous spans using ceiling
// division. The last non-empty span ends exactly at sampleRes; surplus lanes
// get empty spans.
func Partition(sampleRes, lanes int) []Span {
	if lanes < 1 {
		lanes = 1
	}
	spans := make([]Span, lanes)
	total := sampleRes - 1
	if total <= 0 {
		for i := range spans {
			spans[i] = Span{Low: 1, High: 1}
		}
		return spans
	}
	size := (total + lanes - 1) / lanes
	low := 1
	for i := range spans {
		high := min(low+size, sampleRes)
		if i == lanes-1 {
			high = sampleRes
		}
		spans[i] = Span{Low: low, High: high}
		low = high
	}
	return spans
}
