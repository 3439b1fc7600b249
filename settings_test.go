package bifurcx

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestSettingsValidate(t *testing.T) {
	valid := NewSettings(100, 50, 50)

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "valid", mutate: func(*Settings) {}},
		{name: "zero paramRes", mutate: func(s *Settings) { s.ParamRes = 0 }, wantErr: "paramRes"},
		{name: "zero sampleRes", mutate: func(s *Settings) { s.SampleRes = 0 }, wantErr: "sampleRes"},
		{name: "zero iterations", mutate: func(s *Settings) { s.Iterations = 0 }, wantErr: "iterations"},
		{name: "burnin equals iterations", mutate: func(s *Settings) { s.Burnin = s.Iterations }, wantErr: "burnin"},
		{name: "burnin below iterations", mutate: func(s *Settings) { s.Burnin = s.Iterations - 1 }},
		{name: "degenerate paramRange", mutate: func(s *Settings) { s.ParamRange = Range{Low: 3, High: 3} }, wantErr: "paramRange"},
		{name: "inverted sampleRange", mutate: func(s *Settings) { s.SampleRange = Range{Low: 1, High: 0} }, wantErr: "sampleRange"},
		{name: "NaN bound", mutate: func(s *Settings) { s.ParamRange.High = math.NaN() }, wantErr: "finite"},
		{name: "infinite bound", mutate: func(s *Settings) { s.SampleRange.Low = math.Inf(-1) }, wantErr: "finite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("Validate() = %v, want ErrInvalidSettings", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not name %q", err, tt.wantErr)
			}
		})
	}
}

func TestSettingsSampling(t *testing.T) {
	s := NewSettings(100, 50, 50)

	if got := s.ParamAt(0); got != 2.9 {
		t.Errorf("ParamAt(0) = %v, want 2.9", got)
	}
	if got := s.ParamAt(50); math.Abs(got-3.45) > 1e-12 {
		t.Errorf("ParamAt(50) = %v, want 3.45", got)
	}
	if got := s.SampleAt(25); got != 0.5 {
		t.Errorf("SampleAt(25) = %v, want 0.5", got)
	}
	if got := s.Cells(); got != 49*100 {
		t.Errorf("Cells() = %d, want %d", got, 49*100)
	}
	for i := 0; i < int(s.ParamRes); i++ {
		if mu := s.ParamAt(i); !s.ParamRange.Contains(mu) {
			t.Fatalf("ParamAt(%d) = %v outside %v", i, mu, s.ParamRange)
		}
	}
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	want := []string{"default", "dense", "normal", "sparse"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("PresetNames() = %v, want %v", names, want)
	}
	for _, name := range names {
		s, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q): %v", name, err)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}

	s, _ := Preset("dense")
	if s.ParamRes != 384 || s.SampleRes != 192 || s.Iterations != 2048 {
		t.Errorf("dense = %+v", s)
	}
	if _, err := Preset("huge"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("Preset(huge) = %v, want ErrUnknownPreset", err)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		err  bool
	}{
		{in: "sweep", want: ModeSweep},
		{in: "mu", want: ModeSweep},
		{in: " Iterate ", want: ModeIterate},
		{in: "spiral", err: true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.err {
			if !errors.Is(err, ErrUnknownMode) {
				t.Errorf("ParseMode(%q) err = %v, want ErrUnknownMode", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	var m Mode
	if err := m.UnmarshalText([]byte("iterate")); err != nil || m != ModeIterate {
		t.Errorf("UnmarshalText(iterate) = %v, %v", m, err)
	}
	if _, err := Mode(7).MarshalText(); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("MarshalText(7) err = %v", err)
	}
}
