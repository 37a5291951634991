package goteco

import (
	"strings"

	"github.com/jcorbin/goteco/internal/printable"
)

// traceChar echoes one dispatched command character in printable form when
// the trace flag (`?`) is on (spec §4.10).
func (in *Interp) traceChar(r rune) {
	if !in.flags.trace {
		return
	}
	in.logf("", "%s", printable.Rune(r))
}

// traceString echoes a consumed string-argument body in printable form
// when tracing is on.
func (in *Interp) traceString(s string) {
	if !in.flags.trace {
		return
	}
	in.logf("", "%s", printable.String(s))
}

// reportError prints a failed command per eh's bit layout (spec §4.10):
// low two bits = 1 => "?XXX" only; 2 or 3 => "?XXX <message>"; bit 2 set
// additionally echoes the failed command up to the offending character.
func (in *Interp) reportError(err *Error, failedPrefix string) {
	detail := in.flags.eh & 3
	if detail == 0 {
		detail = 1
	}
	switch detail {
	case 1:
		in.logf("", "?%s", err.Kind)
	default:
		in.logf("", "?%s %s", err.Kind, err.Error())
	}
	if in.flags.eh&4 != 0 && failedPrefix != "" {
		in.logf("", "%s?", printable.String(failedPrefix))
	}
}

// screentext computes the text handed to the watch display and to
// auto-verify (spec §4.10, Design Notes "pluggable display"): every line of
// the buffer, split at line-feed, plus dot's (row, col) within them. It
// does not trim the lines to a window around dot.
func (in *Interp) screentext() (lines []string, row, col int) {
	text := in.buf.String()
	all := strings.Split(text, "\n")
	pos := 0
	dotLine, dotCol := 0, 0
	for i, line := range all {
		end := pos + len([]rune(line))
		if in.buf.dot <= end {
			dotLine = i
			dotCol = in.buf.dot - pos
			break
		}
		pos = end + 1
	}
	return all, dotLine, dotCol
}

// autoVerify implements spec §4.10's auto-verify routine. It runs only
// after a successful search (not between commands): if es (or, when es is
// zero, ev) is non-zero, print
// the current line (extended by the flag's high byte for lines before/
// after), with a visible marker character (the flag's low byte) inserted at
// dot.
func (in *Interp) autoVerify() {
	flag := in.flags.es
	if flag == 0 {
		flag = in.flags.ev
	}
	if flag == 0 {
		return
	}
	marker := rune(flag & 0xff)
	extend := (flag >> 8) & 0xff

	lines, row, col := in.screentext()
	lo, hi := row-extend, row+extend
	if lo < 0 {
		lo = 0
	}
	if hi >= len(lines) {
		hi = len(lines) - 1
	}
	var sb strings.Builder
	for i := lo; i <= hi; i++ {
		line := lines[i]
		if i == row {
			r := []rune(line)
			if col >= 0 && col <= len(r) {
				sb.WriteString(string(r[:col]))
				sb.WriteRune(marker)
				sb.WriteString(string(r[col:]))
			} else {
				sb.WriteString(line)
			}
		} else {
			sb.WriteString(line)
		}
		sb.WriteByte('\n')
	}
	in.logf("", "%s", sb.String())
}
