package bifurcx

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSettings is wrapped by every Settings validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Range is an inclusive [Low, High] domain bound.
type Range struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Span returns the width of the range.
func (r Range) Span() float64 {
	return r.High - r.Low
}

// Contains reports whether v lies inside the range. Bounds are inclusive.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Settings is the immutable configuration of a single run. It is copied into
// the run and into every unit request, so callers may reuse or mutate their
// own value afterwards.
type Settings struct {
	ParamRange  Range  `json:"paramRange" yaml:"paramRange"`
	SampleRange Range  `json:"sampleRange" yaml:"sampleRange"`
	ParamRes    uint32 `json:"paramRes" yaml:"paramRes"`
	SampleRes   uint32 `json:"sampleRes" yaml:"sampleRes"`
	Iterations  uint32 `json:"iterations" yaml:"iterations"`
	// Burnin is the number of map applications discarded before sweep mode
	// starts recording. Zero records only the final value of each orbit.
	Burnin uint32 `json:"burnin,omitempty" yaml:"burnin,omitempty"`
}

// DefaultParamRange and DefaultSampleRange frame the classic logistic map picture.
var (
	DefaultParamRange  = Range{Low: 2.9, High: 4.0}
	DefaultSampleRange = Range{Low: 0, High: 1}
)

// NewSettings returns settings over the default ranges.
func NewSettings(paramRes, sampleRes, iterations uint32) Settings {
	return Settings{
		ParamRange:  DefaultParamRange,
		SampleRange: DefaultSampleRange,
		ParamRes:    paramRes,
		SampleRes:   sampleRes,
		Iterations:  iterations,
	}
}

// ParamSpan is the width of the parameter range.
func (s Settings) ParamSpan() float64 { return s.ParamRange.Span() }

// SampleSpan is the width of the sample range.
func (s Settings) SampleSpan() float64 { return s.SampleRange.Span() }

// ParamAt maps a discrete parameter index to µ.
func (s Settings) ParamAt(i int) float64 {
	return s.ParamRange.Low + float64(i)/float64(s.ParamRes)*s.ParamSpan()
}

// SampleAt maps a discrete sample index to x.
func (s Settings) SampleAt(i int) float64 {
	return s.SampleRange.Low + float64(i)/float64(s.SampleRes)*s.SampleSpan()
}

// Cells is the number of grid slots materialized in iterate mode.
func (s Settings) Cells() int {
	if s.SampleRes == 0 {
		return 0
	}
	return int(s.SampleRes-1) * int(s.ParamRes)
}

// Validate checks resolutions, iteration counts and ranges. Nothing is clamped.
func (s Settings) Validate() error {
	if s.ParamRes == 0 {
		return fmt.Errorf("%w: paramRes must be positive", ErrInvalidSettings)
	}
	if s.SampleRes == 0 {
		return fmt.Errorf("%w: sampleRes must be positive", ErrInvalidSettings)
	}
	if s.Iterations == 0 {
		return fmt.Errorf("%w: iterations must be positive", ErrInvalidSettings)
	}
	if s.Burnin >= s.Iterations {
		return fmt.Errorf("%w: burnin %d must be below iterations %d", ErrInvalidSettings, s.Burnin, s.Iterations)
	}
	if err := validateRange("paramRange", s.ParamRange); err != nil {
		return err
	}
	if err := validateRange("sampleRange", s.SampleRange); err != nil {
		return err
	}
	return nil
}

func validateRange(name string, r Range) error {
	if math.IsNaN(r.Low) || math.IsNaN(r.High) || math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) {
		return fmt.Errorf("%w: %s bounds must be finite", ErrInvalidSettings, name)
	}
	if r.Span() <= 0 {
		return fmt.Errorf("%w: %s is degenerate (%g, %g)", ErrInvalidSettings, name, r.Low, r.High)
	}
	return nil
}
