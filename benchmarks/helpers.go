// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"
	"io"
	"log"

	"gopkg.in/yaml.v3"

	"github.com/comalice/bifurcx"
	"github.com/comalice/bifurcx/internal/production"
)

// GenSettings creates settings over the default ranges scaled by factor:
// factor 1 is the classic 100 x 50 x 50 scenario.
func GenSettings(factor int) bifurcx.Settings {
	if factor < 1 {
		factor = 1
	}
	return bifurcx.NewSettings(uint32(100*factor), uint32(50*factor), 50)
}

// GenProfileYAML generates YAML bytes for a profile over the named preset.
func GenProfileYAML(preset string, mode bifurcx.Mode) []byte {
	s, err := bifurcx.Preset(preset)
	if err != nil {
		panic(err)
	}
	p := production.Profile{Name: fmt.Sprintf("%s-%s", preset, mode), Mode: mode, Settings: s}
	data, err := yaml.Marshal(p)
	if err != nil {
		panic(err)
	}
	return data
}

// QuietLogger discards output so logging does not skew timings.
func QuietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
