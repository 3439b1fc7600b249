package bifurcx

import (
	"context"
	"math"
	"slices"
)

// cancelEvery is how many map applications run between cancellation checks.
const cancelEvery = 1 << 14

// Logistic applies the logistic recurrence once.
func Logistic(mu, x float64) float64 {
	return mu * x * (1 - x)
}

// Orbit applies the logistic recurrence n times starting at x.
func Orbit(ctx context.Context, mu, x float64, n int) (float64, error) {
	for n > 0 {
		chunk := min(n, cancelEvery)
		i := 0
		for ; i+3 < chunk; i += 4 {
			x = mu * x * (1 - x)
			x = mu * x * (1 - x)
			x = mu * x * (1 - x)
			x = mu * x * (1 - x)
		}
		for ; i < chunk; i++ {
			x = mu * x * (1 - x)
		}
		n -= chunk
		if n > 0 {
			if err := ctx.Err(); err != nil {
				return x, err
			}
		}
	}
	return x, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// batch is the output of one kernel step: surviving points of one parameter
// step in sweep mode, or the dense cells of one round in iterate mode.
type batch struct {
	step   int
	points []Coordinate
	offset int
	cells  []Cell
}

// kernel is the numeric core shared by parallel units and the cooperative
// loop. Each step is one parameter index (sweep) or one round (iterate).
type kernel interface {
	step(ctx context.Context) (batch, bool, error)
}

func newKernel(mode Mode, s Settings, span Span) kernel {
	if mode == ModeIterate {
		return newIterateKernel(s, span)
	}
	return newSweepKernel(s, span)
}

type sweepKernel struct {
	s     Settings
	seeds []float64
	mu    int
	seen  *DedupSet
}

func newSweepKernel(s Settings, span Span) *sweepKernel {
	seeds := make([]float64, 0, span.Len())
	for x := span.Low; x < span.High; x++ {
		seeds = append(seeds, s.SampleAt(x))
	}
	return &sweepKernel{s: s, seeds: seeds, seen: NewDedupSet(len(seeds))}
}

func (k *sweepKernel) step(ctx context.Context) (batch, bool, error) {
	if k.mu >= int(k.s.ParamRes) || len(k.seeds) == 0 {
		return batch{}, false, nil
	}
	step := k.mu
	k.mu++
	param := k.s.ParamAt(step)
	k.seen.Reset()

	out := batch{step: step}
	keep := func(v float64) {
		c := Coordinate{Param: param, Value: v}
		if finite(v) && k.seen.Add(c) {
			out.points = append(out.points, c)
		}
	}
	for _, x := range k.seeds {
		if err := ctx.Err(); err != nil {
			return out, false, err
		}
		if k.s.Burnin == 0 {
			v, err := Orbit(ctx, param, x, int(k.s.Iterations))
			if err != nil {
				return out, false, err
			}
			keep(v)
			continue
		}
		v, err := Orbit(ctx, param, x, int(k.s.Burnin))
		if err != nil {
			return out, false, err
		}
		for i := k.s.Burnin; i < k.s.Iterations; i++ {
			v = Logistic(param, v)
			keep(v)
			if !finite(v) {
				break
			}
		}
	}
	return out, k.mu < int(k.s.ParamRes), nil
}

type iterateKernel struct {
	s      Settings
	offset int
	cells  []Cell
	round  int
}

func newIterateKernel(s Settings, span Span) *iterateKernel {
	return &iterateKernel{
		s:      s,
		offset: offsetOf(s, span.Low),
		cells:  materialize(s, span.Low, span.High),
	}
}

// step advances every live cell once. Cells that leave the finite range die;
// coalescing is left to the merger, which sees the whole grid.
func (k *iterateKernel) step(ctx context.Context) (batch, bool, error) {
	if k.round >= int(k.s.Iterations) || len(k.cells) == 0 {
		return batch{}, false, nil
	}
	k.round++
	for i := range k.cells {
		if i%cancelEvery == cancelEvery-1 {
			if err := ctx.Err(); err != nil {
				return batch{}, false, err
			}
		}
		c := &k.cells[i]
		if !c.Live {
			continue
		}
		c.Point.Value = Logistic(c.Point.Param, c.Point.Value)
		if !finite(c.Point.Value) {
			*c = Cell{}
		}
	}
	out := batch{step: k.round - 1, offset: k.offset, cells: slices.Clone(k.cells)}
	return out, k.round < int(k.s.Iterations), nil
}
