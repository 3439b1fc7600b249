// Package benchmarks provides micro-benchmarks for the numeric kernel and
// the coalescing set.
package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/comalice/bifurcx"
	"github.com/comalice/bifurcx/internal/production"
)

var sink float64

func BenchmarkOrbit(b *testing.B) {
	ctx := context.Background()
	for _, n := range []int{300, 2048} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			var x float64
			for i := 0; i < b.N; i++ {
				x, _ = bifurcx.Orbit(ctx, 3.7, 0.3, n)
			}
			sink = x
			b.ReportMetric(float64(n), "steps/op")
		})
	}
}

func BenchmarkDedupSetAdd(b *testing.B) {
	set := bifurcx.NewDedupSet(1024)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if i%4096 == 0 {
			set.Reset()
		}
		set.Add(bifurcx.Coordinate{Param: 3.5, Value: float64(i%4096) / 4096})
	}
}

func BenchmarkRunUnit(b *testing.B) {
	s := GenSettings(1)
	req := bifurcx.Request{Mode: bifurcx.ModeSweep, Span: bifurcx.Span{Low: 1, High: int(s.SampleRes)}, Settings: s}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		out := make(chan bifurcx.Message, int(s.ParamRes)*int(s.SampleRes)+1)
		if err := bifurcx.RunUnit(context.Background(), req, out); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProfileParse(b *testing.B) {
	data := GenProfileYAML("dense", bifurcx.ModeSweep)
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var p production.Profile
		if err := yaml.Unmarshal(data, &p); err != nil {
			b.Fatal(err)
		}
		if err := p.Validate(); err != nil {
			b.Fatal(err)
		}
	}
}
