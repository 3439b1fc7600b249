package bifurcx

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when parsing an unrecognised mode name.
var ErrUnknownMode = errors.New("unknown mode")

// Mode selects the iteration strategy of a run. Modes never mix within a run.
type Mode int

const (
	// ModeSweep computes one long-run value per (µ, x0) pair.
	ModeSweep Mode = iota
	// ModeIterate advances the whole grid one map step per round.
	ModeIterate
)

func (m Mode) String() string {
	switch m {
	case ModeSweep:
		return "sweep"
	case ModeIterate:
		return "iterate"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "sweep" (alias "mu") and "iterate".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sweep", "mu":
		return ModeSweep, nil
	case "iterate":
		return ModeIterate, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if m != ModeSweep && m != ModeIterate {
		return nil, fmt.Errorf("%w %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
