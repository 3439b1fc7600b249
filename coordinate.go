package bifurcx

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
)

// HashScale weights the parameter inside a coordinate hash so that points of
// different parameter steps never coalesce.
const HashScale = 1000

// Epsilon is the coalescing tolerance on coordinate hashes. Tune it together
// with HashScale: with µ <= 4 a hash stays below ~4001 and float64 keeps far
// more precision than this.
const Epsilon = 1e-4

// Coordinate is a single (µ, x) sample.
type Coordinate struct {
	Param float64 `json:"param" yaml:"param"`
	Value float64 `json:"value" yaml:"value"`
}

// Hash folds the coordinate into one number used only for coalescing.
func (c Coordinate) Hash() float64 {
	return c.Param*HashScale + c.Value
}

// Eq reports whether c and o coalesce. The parameter is authoritative and
// small value drift is tolerated.
func (c Coordinate) Eq(o Coordinate) bool {
	return scalar.EqualWithinAbs(c.Hash(), o.Hash(), Epsilon)
}

// Compare orders coordinates by hash.
func (c Coordinate) Compare(o Coordinate) int {
	switch a, b := c.Hash(), o.Hash(); {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6g, %.6g)", c.Param, c.Value)
}
