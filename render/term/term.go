// Package term renders a bifurcation diagram as text in a terminal.
package term

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/comalice/bifurcx"
)

const (
	dot   = '•'
	blank = ' '
	home  = "\x1b[H\x1b[2J"
)

var (
	frameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	plotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Terminal draws onto a cols x rows character grid and writes a full frame
// to w on every Redraw.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	cols   int
	rows   int
	param  bifurcx.Range
	value  bifurcx.Range
	cells  [][]bool
	frames int
	// Home moves the cursor to the top-left before each frame.
	Home bool
}

// New creates a terminal renderer framing s.
func New(w io.Writer, cols, rows int, s bifurcx.Settings) *Terminal {
	t := &Terminal{
		w:     w,
		cols:  max(cols, 2),
		rows:  max(rows, 2),
		param: s.ParamRange,
		value: s.SampleRange,
		Home:  true,
	}
	t.cells = make([][]bool, t.rows)
	for i := range t.cells {
		t.cells[i] = make([]bool, t.cols)
	}
	return t
}

// Plot marks the cell under p.
func (t *Terminal) Plot(p bifurcx.Coordinate) {
	if !t.param.Contains(p.Param) || !t.value.Contains(p.Value) {
		return
	}
	col := int((p.Param - t.param.Low) / t.param.Span() * float64(t.cols-1))
	row := t.rows - 1 - int((p.Value-t.value.Low)/t.value.Span()*float64(t.rows-1))

	t.mu.Lock()
	t.cells[row][col] = true
	t.mu.Unlock()
}

// Clear empties the grid; the next Redraw shows a blank frame.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range t.cells {
		clear(row)
	}
}

// Redraw writes the whole frame.
func (t *Terminal) Redraw() {
	t.mu.Lock()
	frame := t.render()
	t.frames++
	t.mu.Unlock()

	if t.Home {
		frame = home + frame
	}
	io.WriteString(t.w, frame) // NOTE: a broken terminal only loses frames
}

// Frames is the number of frames written.
func (t *Terminal) Frames() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames
}

// String renders the current grid without writing it.
func (t *Terminal) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.render()
}

func (t *Terminal) render() string {
	var b strings.Builder
	for i, row := range t.cells {
		line := make([]rune, len(row))
		for j, on := range row {
			if on {
				line[j] = dot
			} else {
				line[j] = blank
			}
		}
		b.WriteString(string(line))
		if i < len(t.cells)-1 {
			b.WriteByte('\n')
		}
	}
	plot := frameStyle.Render(plotStyle.Render(b.String()))
	axis := axisStyle.Render(fmt.Sprintf("µ %.3g → %.3g   x %.3g → %.3g",
		t.param.Low, t.param.High, t.value.Low, t.value.High))
	return lipgloss.JoinVertical(lipgloss.Left, plot, axis) + "\n"
}
