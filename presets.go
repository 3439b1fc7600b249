package bifurcx

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownPreset is returned by Preset for names not in Presets.
var ErrUnknownPreset = errors.New("unknown preset")

// Presets are the stock resolutions offered to users.
var Presets = map[string]Settings{
	"default": NewSettings(512, 32, 300),
	"sparse":  NewSettings(160, 64, 2048),
	"normal":  NewSettings(192, 128, 2048),
	"dense":   NewSettings(384, 192, 2048),
}

// Preset looks up a named preset.
func Preset(name string) (Settings, error) {
	s, ok := Presets[name]
	if !ok {
		return Settings{}, fmt.Errorf("%w %q (have %v)", ErrUnknownPreset, name, PresetNames())
	}
	return s, nil
}

// PresetNames lists preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
