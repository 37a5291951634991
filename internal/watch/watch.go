// Package watch implements the pluggable display sink of spec.md's Design
// Notes: "treat both the terminal watch mode and the windowed display as
// pluggable sinks behind the same interface: {enable, disable,
// refresh(lines, row, col)}". The interpreter never blocks on a sink and
// never lets a sink's failure propagate (spec §5: "errors never cross into
// the optional display thread").
//
// TerminalSink, the one concrete sink this package provides, is grounded on
// the teacher's raw-mode-plus-ANSI approach to terminal output
// (internal/runeio.WriteANSIString) combined with golang.org/x/term for
// raw-mode toggling and github.com/mattn/go-runewidth for cursor-column
// math; no curses/ncurses binding appears anywhere in the retrieval pack
// (see DESIGN.md), so a windowed display sink is out of scope (spec.md §1
// lists it as an external collaborator, out of scope for this module).
package watch

import (
	"fmt"
	"io"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Sink is a pluggable display. The interpreter calls only Refresh, after
// every successful top-level command, with the lines computed by its
// screentext routine; Enable and Disable are left to the sink's owner.
type Sink interface {
	Enable() error
	Disable() error
	Refresh(lines []string, row, col int) error
}

// TerminalSink renders the watched window to a terminal using ANSI cursor
// control: clear screen, redraw each line, then place the cursor at
// (row, col). It is safe for the interpreter's single writer discipline
// (spec §5): Refresh is never called concurrently with itself.
type TerminalSink struct {
	mu       sync.Mutex
	w        io.Writer
	fd       int
	oldState *term.State
}

// NewTerminalSink returns a sink that writes ANSI escapes to w, putting the
// file descriptor fd into raw mode while enabled.
func NewTerminalSink(w io.Writer, fd int) *TerminalSink {
	return &TerminalSink{w: w, fd: fd}
}

// Enable puts the terminal into raw mode, matching the teacher's
// defer-guarded closers pattern (restored by Disable).
func (s *TerminalSink) Enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !term.IsTerminal(s.fd) {
		return nil
	}
	old, err := term.MakeRaw(s.fd)
	if err != nil {
		return err
	}
	s.oldState = old
	return nil
}

// Disable restores the terminal's prior mode.
func (s *TerminalSink) Disable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.oldState == nil {
		return nil
	}
	err := term.Restore(s.fd, s.oldState)
	s.oldState = nil
	return err
}

// Refresh redraws lines and positions the cursor at the given row/column,
// computing display width with go-runewidth so multi-column runes don't
// desync the cursor.
func (s *TerminalSink) Refresh(lines []string, row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, "\x1b[H\x1b[2J")
	for _, line := range lines {
		fmt.Fprint(s.w, line, "\r\n")
	}
	width := 0
	if row >= 0 && row < len(lines) {
		width = runewidth.StringWidth(truncate(lines[row], col))
	}
	fmt.Fprintf(s.w, "\x1b[%d;%dH", row+1, width+1)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 0 {
		n = 0
	}
	if n > len(r) {
		n = len(r)
	}
	return string(r[:n])
}

// Size reports the terminal's current geometry. The interpreter does not
// call it; the watch-parameter vector's width/height slots are not filled
// from it.
func Size(fd int) (width, height int, err error) {
	return term.GetSize(fd)
}
