package bifurcx

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// DedupSet remembers coordinate hashes and rejects any new hash within
// Epsilon of one already seen. Buckets are Epsilon wide, so a match can only
// live in the same bucket or a direct neighbour.
type DedupSet struct {
	buckets map[int64][]float64
	n       int
}

// NewDedupSet allocates a set sized for roughly hint entries.
func NewDedupSet(hint int) *DedupSet {
	if hint < 0 {
		hint = 0
	}
	return &DedupSet{buckets: make(map[int64][]float64, hint)}
}

// Add inserts c and reports whether it was new. False means c coalesced with
// an earlier entry and should be dropped.
func (s *DedupSet) Add(c Coordinate) bool {
	h := c.Hash()
	if math.IsNaN(h) {
		return false
	}
	key := int64(math.Floor(h / Epsilon))
	for k := key - 1; k <= key+1; k++ {
		for _, seen := range s.buckets[k] {
			if scalar.EqualWithinAbs(seen, h, Epsilon) {
				return false
			}
		}
	}
	s.buckets[key] = append(s.buckets[key], h)
	s.n++
	return true
}

// Has reports whether c would coalesce with an existing entry.
func (s *DedupSet) Has(c Coordinate) bool {
	h := c.Hash()
	if math.IsNaN(h) {
		return false
	}
	key := int64(math.Floor(h / Epsilon))
	for k := key - 1; k <= key+1; k++ {
		for _, seen := range s.buckets[k] {
			if scalar.EqualWithinAbs(seen, h, Epsilon) {
				return true
			}
		}
	}
	return false
}

// Len is the number of distinct entries.
func (s *DedupSet) Len() int { return s.n }

// Reset empties the set, keeping its allocation.
func (s *DedupSet) Reset() {
	clear(s.buckets)
	s.n = 0
}
