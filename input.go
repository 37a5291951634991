package goteco

import (
	"github.com/jcorbin/goteco/internal/printable"
	"github.com/jcorbin/goteco/internal/runeio"
)

// LineAssembler implements spec §4.9's command-line assembly: bell-prefixed
// echo helpers, line-kill/rubout editing, and final submission on two
// consecutive escapes. A leading BS, LF, '?' or '*' gets no immediate-action
// handling; it is taken as an ordinary character. It is the terminal
// front end's counterpart to the EI command file's literal pass-through.
type LineAssembler struct {
	r   runeio.Reader
	out func(s string)
	buf []rune
}

// NewLineAssembler wraps r as a command-line source, echoing edited
// keystrokes via out (nil discards echo).
func NewLineAssembler(r runeio.Reader, out func(s string)) *LineAssembler {
	if out == nil {
		out = func(string) {}
	}
	return &LineAssembler{r: r, out: out}
}

// ReadLine assembles and returns one complete command line, terminated by
// two consecutive ESC characters (both included in the returned text, as
// TECO commands expect ESC-ESC to end a command), or io.EOF-equivalent
// false when the input stream is exhausted with nothing assembled.
func (la *LineAssembler) ReadLine() (cmd string, ok bool) {
	la.buf = la.buf[:0]
	escRun := 0
	bellRun := 0
	for {
		r, _, err := la.r.ReadRune()
		if err != nil {
			if len(la.buf) == 0 {
				return "", false
			}
			return string(la.buf), true
		}

		switch r {
		case esc:
			escRun++
			la.buf = append(la.buf, esc)
			la.echo(string(esc))
			if escRun >= 2 {
				return string(la.buf), true
			}
			continue
		case bel:
			bellRun++
			r2, _, err2 := la.r.ReadRune()
			if err2 == nil && r2 == ' ' {
				la.echo(string(la.buf))
			} else if err2 == nil && r2 == '*' {
				la.echo(string(la.buf))
			} else if bellRun >= 2 {
				la.buf = la.buf[:0]
				bellRun = 0
			}
			continue
		case 0x15: // ^U: line-kill
			la.buf = la.buf[:0]
			la.echo("\n")
			continue
		case rub, '\b':
			if len(la.buf) > 0 {
				la.buf = la.buf[:len(la.buf)-1]
				la.echo("\b \b")
			}
			continue
		case '\r':
			la.buf = append(la.buf, '\r', '\n')
			la.echo("\r\n")
			continue
		}

		escRun = 0
		bellRun = 0
		la.buf = append(la.buf, r)
		la.echo(printable.Rune(r))
	}
}

func (la *LineAssembler) echo(s string) { la.out(s) }
