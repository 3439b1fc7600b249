package term

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/comalice/bifurcx"
	"github.com/comalice/bifurcx/render/raster"
)

func TestTerminalPlotAndRedraw(t *testing.T) {
	var buf bytes.Buffer
	s := bifurcx.NewSettings(10, 10, 10)
	term := New(&buf, 20, 6, s)
	term.Home = false

	term.Plot(bifurcx.Coordinate{Param: 2.9, Value: 0})
	term.Plot(bifurcx.Coordinate{Param: 4.0, Value: 1})
	term.Plot(bifurcx.Coordinate{Param: 4.0, Value: 1}) // same cell
	term.Plot(bifurcx.Coordinate{Param: 5, Value: 0.5}) // outside

	if got := strings.Count(term.String(), string(dot)); got != 2 {
		t.Errorf("frame has %d dots, want 2", got)
	}
	if buf.Len() != 0 {
		t.Error("Plot wrote to the terminal")
	}

	term.Redraw()
	if term.Frames() != 1 {
		t.Errorf("Frames() = %d", term.Frames())
	}
	out := buf.String()
	if strings.Count(out, string(dot)) != 2 {
		t.Errorf("written frame:\n%s", out)
	}
	if !strings.Contains(out, "2.9") || !strings.Contains(out, "4") {
		t.Errorf("axis legend missing from frame:\n%s", out)
	}

	term.Clear()
	if strings.Contains(term.String(), string(dot)) {
		t.Error("Clear left dots behind")
	}
}

func TestTerminalHome(t *testing.T) {
	var buf bytes.Buffer
	term := New(&buf, 5, 3, bifurcx.NewSettings(10, 10, 10))
	term.Redraw()
	if !strings.HasPrefix(buf.String(), home) {
		t.Error("frame does not start with the home sequence")
	}
}

func TestTerminalCannotExport(t *testing.T) {
	term := New(&bytes.Buffer{}, 5, 3, bifurcx.NewSettings(10, 10, 10))
	if err := raster.ExportPNG(term, &bytes.Buffer{}); !errors.Is(err, raster.ErrExportUnsupported) {
		t.Errorf("ExportPNG(terminal) = %v, want ErrExportUnsupported", err)
	}
}
