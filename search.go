package goteco

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const specialRegexChars = `][\^$.?+(){}`

// patternToRegex compiles a build-expanded search string into a Go regular
// expression source string, per spec §4.3's editor-form-to-regex table.
func patternToRegex(s string, regs *registerStore) string {
	rs := []rune(s)
	var out strings.Builder
	i := 0
	for i < len(rs) {
		if frag, n, ok := tryCaretForm(rs, i, regs); ok {
			out.WriteString(frag)
			i = n
			continue
		}
		r := rs[i]
		if strings.ContainsRune(specialRegexChars, r) {
			out.WriteByte('\\')
			out.WriteRune(r)
		} else {
			out.WriteRune(r)
		}
		i++
	}
	return out.String()
}

// tryCaretForm recognizes "^N<class>", "^E<letter>[q]", bare "^X", and bare
// "^S" starting at i; ok is false if rs[i] isn't the start of any of them.
func tryCaretForm(rs []rune, i int, regs *registerStore) (frag string, next int, ok bool) {
	if i >= len(rs) || rs[i] != '^' || i+1 >= len(rs) {
		return "", 0, false
	}
	c := rs[i+1]
	switch {
	case c == 'N' || c == 'n':
		inner, n := classFragment(rs, i+2, regs)
		return invertClass(inner), n, true
	case c == 'E' || c == 'e':
		frag, n := parseEForm(rs, i, regs)
		return frag, n, true
	case c == 'X' || c == 'x':
		return ".", i + 2, true
	case c == 'S' || c == 's':
		return `\W`, i + 2, true
	}
	return "", 0, false
}

// classFragment parses a single class-producing unit at i for use after
// ^N: an ^E-form, bare ^X/^S, or else a single literal character.
func classFragment(rs []rune, i int, regs *registerStore) (string, int) {
	if i < len(rs) && rs[i] == '^' && i+1 < len(rs) {
		c := rs[i+1]
		switch {
		case c == 'E' || c == 'e':
			return parseEForm(rs, i, regs)
		case c == 'X' || c == 'x':
			return ".", i + 2
		case c == 'S' || c == 's':
			return `\W`, i + 2
		}
	}
	if i >= len(rs) {
		raise(ISA)
	}
	r := rs[i]
	if strings.ContainsRune(specialRegexChars, r) {
		return "\\" + string(r), i + 1
	}
	return string(r), i + 1
}

// parseEForm parses "^E<letter>" (and "^EGq"/"^EE...regex") starting with
// rs[i]=='^', rs[i+1] in {E,e}.
func parseEForm(rs []rune, i int, regs *registerStore) (string, int) {
	if i+2 >= len(rs) {
		raise(ICE)
	}
	sub := rs[i+2]
	switch sub {
	case 'S', 's':
		return "[ \t]+", i + 3
	case 'X', 'x':
		return ".", i + 3
	case 'A', 'a':
		return "[A-Za-z]", i + 3
	case 'B', 'b':
		return `\W`, i + 3
	case 'C', 'c':
		return `[\w$_.]`, i + 3
	case 'D', 'd':
		return `\d`, i + 3
	case 'L', 'l':
		return `[\r\n\v\f]`, i + 3
	case 'R', 'r':
		return `\w`, i + 3
	case 'V', 'v':
		return "[a-z]", i + 3
	case 'W', 'w':
		return "[A-Z]", i + 3
	case 'G', 'g':
		name, n, ok := parseRegNameRunes(rs, i+3)
		if !ok {
			raise(ICE)
		}
		return makeCharClass(regs.get(name).Text), n
	case 'E', 'e':
		return string(rs[i+3:]), len(rs)
	default:
		raise(ICE)
	}
	return "", 0
}

func makeCharClass(text string) string {
	seen := map[rune]bool{}
	var sb strings.Builder
	sb.WriteByte('[')
	for _, r := range text {
		if seen[r] {
			continue
		}
		seen[r] = true
		if r == ']' || r == '\\' || r == '^' || r == '-' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte(']')
	return sb.String()
}

// invertClass negates a class fragment produced by classFragment/parseEForm.
func invertClass(frag string) string {
	if strings.HasPrefix(frag, "[") && strings.HasSuffix(frag, "]") {
		inner := frag[1 : len(frag)-1]
		if strings.HasPrefix(inner, "^") {
			return "[" + inner[1:] + "]"
		}
		return "[^" + inner + "]"
	}
	switch frag {
	case `\w`:
		return `\W`
	case `\W`:
		return `\w`
	case `\d`:
		return `\D`
	case `\D`:
		return `\d`
	}
	if utf8.RuneCountInString(frag) == 1 {
		return "[^" + frag + "]"
	}
	return frag
}

// compileSearch builds the anchored and unanchored regexes for a
// build-expanded search string, honoring the ^X case-sensitivity flag
// (spec §4.3: "case-insensitive unless the ^X flag is non-zero").
// The string builder turns ^E, ^N, ^S and ^X into control characters, so
// those are mapped back to their caret pairs before pattern compilation.
func compileSearch(built string, regs *registerStore, caretX int) (re, anchored *regexp.Regexp) {
	var caret strings.Builder
	for _, r := range built {
		switch r {
		case 0x05, 0x0e, 0x13, 0x18:
			caret.WriteByte('^')
			caret.WriteRune(r + 0x40)
		default:
			caret.WriteRune(r)
		}
	}
	src := patternToRegex(caret.String(), regs)
	mods := "s"
	if caretX == 0 {
		mods += "i"
	}
	re = regexp.MustCompile("(?" + mods + ")" + src)
	anchored = regexp.MustCompile("(?" + mods + ")^(?:" + src + ")")
	return re, anchored
}

// searchArgs bundles a search invocation's parameters (spec §4.3).
type searchArgs struct {
	pattern     string // raw, not yet build-expanded
	count       int    // signed repeat count; negative = reverse
	start, end  int    // window, inclusive bounds on match start
	colon       bool
	resetOnFail bool
	nextPage    func() bool // advances to the next input page; false if none
}

// runSearch executes spec §4.3's search semantics against in's buffer,
// returning the committed value to store via setval-equivalent logic, and
// setting dot/lastStringLen/lastSearch as a side effect of success.
func (in *Interp) runSearch(lv *level, a searchArgs) int {
	built := a.pattern
	if built != "" {
		built = buildString(built, lv.regs, in.flags.ed)
		in.regs.global.lastSearch = built
	} else {
		built = in.regs.global.lastSearch
	}
	re, anchored := compileSearch(built, lv.regs, in.flags.caretX)

	rep := a.count
	if rep < 0 {
		rep = -rep
	}
	forward := a.count >= 0
	start, end := a.start, a.end
	pos := start
	if !forward {
		pos = end
	}
	var laststart = -1
	var matched bool
	var ms, me int

	for rep > 0 {
		if forward {
			ms, me, matched = in.searchForwardOnce(re, pos, start, end)
			if !matched {
				if a.nextPage != nil && a.nextPage() {
					start, pos = 0, 0
					end = in.buf.end()
					continue
				}
				break
			}
			pos = me
		} else {
			ms, me, matched = in.searchReverseOnce(anchored, pos, start, end, laststart)
			if matched {
				laststart = ms
				rep--
				if rep == 0 {
					break
				}
				if pos > 0 {
					pos--
				}
				continue
			}
			if pos > 0 {
				pos--
				continue
			}
			break
		}
		rep--
	}

	if matched && rep == 0 {
		in.buf.dot = me
		in.lastStringLen = -(me - ms)
		if a.colon {
			return -1
		}
		if _, inIter := lv.topIter(); inIter && lv.peek() == ';' {
			return -1
		}
		in.autoVerify()
		return in.buf.dot
	}

	if a.resetOnFail && in.flags.ed&16 == 0 {
		in.buf.dot = 0
	}
	if a.colon {
		return 0
	}
	if _, ok := lv.topIter(); ok {
		if lv.peek() != ';' {
			in.logf("", "%Search fail in iter")
			exitInnerIteration(lv)
		}
		return 0
	}
	raise(SRH, built)
	return 0
}

func (in *Interp) searchForwardOnce(re *regexp.Regexp, pos, start, end int) (ms, me int, ok bool) {
	text := in.buf.text
	for {
		sub := string(text[pos:])
		loc := re.FindStringIndex(sub)
		if loc == nil {
			return 0, 0, false
		}
		msByte, meByte := loc[0], loc[1]
		ms = pos + utf8.RuneCountInString(sub[:msByte])
		me = pos + utf8.RuneCountInString(sub[:meByte])
		if ms < start || ms > end {
			if ms+1 > len(text) {
				return 0, 0, false
			}
			pos = ms + 1
			continue
		}
		return ms, me, true
	}
}

func (in *Interp) searchReverseOnce(anchored *regexp.Regexp, pos, start, end, laststart int) (ms, me int, ok bool) {
	text := in.buf.text
	if pos < 0 || pos > len(text) {
		return 0, 0, false
	}
	sub := string(text[pos:])
	loc := anchored.FindStringIndex(sub)
	if loc == nil {
		return 0, 0, false
	}
	meByte := loc[1]
	me = pos + utf8.RuneCountInString(sub[:meByte])
	if laststart >= 0 && me > laststart {
		return 0, 0, false
	}
	if pos < start || pos > end {
		return 0, 0, false
	}
	return pos, me, true
}
