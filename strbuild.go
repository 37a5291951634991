package goteco

import (
	"strings"
	"unicode"
)

const edNoCaretConv = 1 // bit 0 of ed: bare ^x is literal, not control-x

// readStringArg reads a command's string argument (spec §4.2): the
// delimiter is ESC unless the at-sign modifier is set, in which case the
// next character in the command is consumed as the delimiter. Raises UTC
// if the delimiter is never found.
func readStringArg(cmd []rune, pos int, atmod bool, cmdName string) (s string, next int) {
	term := rune(esc)
	if atmod {
		if pos >= len(cmd) {
			raise(UTC, cmdName)
		}
		term = cmd[pos]
		pos++
	}
	start := pos
	for pos < len(cmd) && cmd[pos] != term {
		pos++
	}
	if pos >= len(cmd) {
		raise(UTC, cmdName)
	}
	return string(cmd[start:pos]), pos + 1
}

// readTwoStringArgs reads the two delimiter-sharing strings of a
// search-and-replace form (spec §4.2).
func readTwoStringArgs(cmd []rune, pos int, atmod bool, cmdName string) (s1, s2 string, next int) {
	term := rune(esc)
	if atmod && pos < len(cmd) {
		term = cmd[pos]
	}
	s1, pos = readStringArg(cmd, pos, atmod, cmdName)
	s2, pos = readStringArgDelim(cmd, pos, term, cmdName)
	return s1, s2, pos
}

func readStringArgDelim(cmd []rune, pos int, term rune, cmdName string) (s string, next int) {
	start := pos
	for pos < len(cmd) && cmd[pos] != term {
		pos++
	}
	if pos >= len(cmd) {
		raise(UTC, cmdName)
	}
	return string(cmd[start:pos]), pos + 1
}

// buildString is the string-build post-processing pass of spec §4.2: a
// single left-to-right substitution pass so escapes never recursively
// expand. regs resolves ^EQ/^EU register references in the current scope.
func buildString(s string, regs *registerStore, ed int) string {
	rs := []rune(s)
	var out strings.Builder
	out.Grow(len(rs))
	i := 0
	for i < len(rs) {
		r := rs[i]
		if r != '^' {
			out.WriteRune(r)
			i++
			continue
		}
		if i+1 >= len(rs) {
			out.WriteRune(r)
			i++
			continue
		}
		c := rs[i+1]
		switch {
		case c == 'Q' || c == 'q' || c == 'R' || c == 'r':
			if i+2 < len(rs) {
				out.WriteRune(rs[i+2])
				i += 3
				continue
			}
		case c == 'E' || c == 'e':
			if n, ok := buildCaretE(rs, i, regs, &out); ok {
				i = n
				continue
			}
		case c == 'V' || c == 'v':
			if i+2 < len(rs) {
				out.WriteRune(unicode.ToLower(rs[i+2]))
				i += 3
				continue
			}
		case c == 'W' || c == 'w':
			if i+2 < len(rs) {
				out.WriteRune(unicode.ToUpper(rs[i+2]))
				i += 3
				continue
			}
		}
		if ed&edNoCaretConv != 0 {
			out.WriteRune(r)
			i++
			continue
		}
		out.WriteRune(makeControl(c))
		i += 2
	}
	return out.String()
}

// buildCaretE handles "^EQ q" (register text) and "^EU q" (register
// numeric-as-character); returns the new scan position and true if it
// recognized one of those two forms starting at i.
func buildCaretE(rs []rune, i int, regs *registerStore, out *strings.Builder) (next int, ok bool) {
	if i+2 >= len(rs) {
		return 0, false
	}
	sub := rs[i+2]
	nameStart := i + 3
	switch sub {
	case 'Q', 'q':
		name, n, found := parseRegNameRunes(rs, nameStart)
		if !found {
			return 0, false
		}
		out.WriteString(regText(regs, name))
		return n, true
	case 'U', 'u':
		name, n, found := parseRegNameRunes(rs, nameStart)
		if !found {
			return 0, false
		}
		out.WriteRune(rune(regs.get(name).Num))
		return n, true
	}
	return 0, false
}

func regText(regs *registerStore, name regName) string {
	if !name.Local {
		if s, ok := regs.global.pseudoText(name.Char); ok {
			return s
		}
	}
	return regs.get(name).Text
}

// parseRegNameRunes parses a register name starting at i: either one
// alphanumeric rune, or '.' followed by one alphanumeric rune.
func parseRegNameRunes(rs []rune, i int) (name regName, next int, ok bool) {
	if i >= len(rs) {
		return regName{}, 0, false
	}
	if rs[i] == '.' {
		if i+1 >= len(rs) || !isAlnumRune(rs[i+1]) {
			return regName{}, 0, false
		}
		return regName{Char: upperByte(byte(rs[i+1])), Local: true}, i + 2, true
	}
	if !isAlnumRune(rs[i]) {
		return regName{}, 0, false
	}
	return regName{Char: upperByte(byte(rs[i]))}, i + 1, true
}

func isAlnumRune(r rune) bool {
	return r < 0x80 && isAlnum(byte(r))
}

// makeControl returns the control character for c ('a' => ^A), raising IUC
// for characters with no control form, per the original's makecontrol.
func makeControl(c rune) rune {
	n := c
	if (0o100 <= n && n <= 0o137) || (0o141 <= n && n <= 0o172) {
		return n & 0x1f
	}
	raise(IUC, string(c))
	return 0
}
