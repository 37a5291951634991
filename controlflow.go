package goteco

// iterFrame is spec §3's "Iteration frame": (start_position, remaining
// count). infinite marks an unbounded `<`, whose remaining count is unused;
// the frame belongs to the level whose iters slice holds it.
type iterFrame struct {
	start     int
	remaining int
	infinite  bool
}

// stringArgCmds names every single-character command that consumes a
// normal ESC-or-atsign-delimited string argument, for the purposes of the
// control-flow scanners of spec §4.4 (which must step over exactly one
// command, including its string argument, without being confused by the
// argument's contents).
var stringArgCmds = map[rune]bool{
	'I': true, 'S': true, 'N': true,
	'i': true, 's': true, 'n': true,
}

// twoCharStringArgCmds names two-character commands (first char given)
// whose second char selects a variant that itself takes one or two string
// arguments, e.g. ER"fn", FS"old""new".
var twoCharStringArgCmds = map[rune]map[rune]int{
	'E': {'R': 1, 'W': 1, 'B': 1, 'I': 1, 'N': 1},
	'F': {'S': 2, 'N': 2, 'R': 1, 'B': 2, 'D': 2, 'K': 1, '_': 2},
}

// regNameCmds names commands that are followed by a one- or two-character
// register name (the second form is '.' plus a letter/digit).
var regNameCmds = map[rune]bool{
	'U': true, 'Q': true, '%': true, 'G': true, 'X': true,
	'[': true, ']': true, 'M': true,
	'u': true, 'q': true, 'g': true, 'x': true, 'm': true,
}

// skipOneCommand advances pos past exactly one command (spec §4.4),
// returning the new position. It recognizes modifiers (@, :, ::), string
// arguments (ESC/at-sign delimited, or the special ^A/tag forms), and
// register-name suffixes, without attempting to execute anything.
func skipOneCommand(cmd []rune, pos int) int {
	// modifiers
	atmod := false
	for pos < len(cmd) {
		switch cmd[pos] {
		case '@':
			atmod = true
			pos++
			continue
		case ':':
			pos++
			continue
		}
		break
	}
	if pos >= len(cmd) {
		raise(UTC, "")
	}
	c := cmd[pos]
	pos++

	switch {
	case c == '^':
		if pos >= len(cmd) {
			raise(UTC, "^")
		}
		cc := cmd[pos]
		pos++
		if cc == 'A' || cc == 'a' {
			return skipUntilByte(cmd, pos, 0x01, "^A")
		}
		if cc == 'U' || cc == 'u' {
			return skipRegNameThenString(cmd, pos, atmod, "^U")
		}
		return pos

	case c == '!':
		return skipTagBody(cmd, pos)

	case c == 'O' || c == 'o':
		return skipUntilRune(cmd, pos, '!', "O")

	case stringArgCmds[c]:
		_, next := readStringArg(cmd, pos, atmod, string(c))
		return next

	case regNameCmds[c]:
		return skipRegNameSuffix(cmd, pos)

	case c == 'E' || c == 'e':
		if pos < len(cmd) {
			if n, ok := twoCharStringArgCmds['E'][toUpperRune(cmd[pos])]; ok {
				p := pos + 1
				return skipNStringArgs(cmd, p, atmod, n, "E")
			}
			pos++
		}
		return pos

	case c == 'F' || c == 'f':
		if pos < len(cmd) {
			if n, ok := twoCharStringArgCmds['F'][toUpperRune(cmd[pos])]; ok {
				p := pos + 1
				return skipNStringArgs(cmd, p, atmod, n, "F")
			}
			pos++
		}
		return pos

	default:
		return pos
	}
}

// skipNStringArgs skips n string arguments starting at pos, sharing one
// delimiter across all of them when atmod is set (matching
// readTwoStringArgs' shared-delimiter semantics for two-string commands
// like FS/FN).
func skipNStringArgs(cmd []rune, pos int, atmod bool, n int, cmdName string) int {
	if n == 2 {
		_, _, next := readTwoStringArgs(cmd, pos, atmod, cmdName)
		return next
	}
	p := pos
	for i := 0; i < n; i++ {
		_, p = readStringArg(cmd, p, atmod, cmdName)
	}
	return p
}

func skipUntilByte(cmd []rune, pos int, term rune, name string) int {
	for pos < len(cmd) {
		if cmd[pos] == term {
			return pos + 1
		}
		pos++
	}
	raise(UTC, name)
	return pos
}

func skipUntilRune(cmd []rune, pos int, term rune, name string) int {
	return skipUntilByte(cmd, pos, term, name)
}

func skipRegNameSuffix(cmd []rune, pos int) int {
	if pos < len(cmd) && cmd[pos] == '.' {
		return pos + 2
	}
	return pos + 1
}

func skipRegNameThenString(cmd []rune, pos int, atmod bool, name string) int {
	pos = skipRegNameSuffix(cmd, pos)
	_, next := readStringArg(cmd, pos, atmod, name)
	return next
}

// skipTagBody skips a "!name!" tag body, returning the position just past
// the closing '!'. The "@!delim name delim" form is not recognized: its
// body is also scanned up to the next '!'.
func skipTagBody(cmd []rune, pos int) int {
	return skipUntilByte(cmd, pos, '!', "!")
}

// scanIteration is the iteration-scan skipper of spec §4.4: terminators
// '<' and '>'. Used to jump past a zero-or-negative-count iteration body.
// Returns the terminator found and the position just after it.
func scanIteration(cmd []rune, pos int) (term rune, next int) {
	for pos < len(cmd) {
		c := cmd[pos]
		if c == '<' || c == '>' {
			return c, pos + 1
		}
		pos = skipOneCommand(cmd, pos)
	}
	raise(UTC, "<")
	return 0, pos
}

// scanConditional is the conditional-scan skipper: terminators are
// '"' '\'' '|' '<' '>'. Nested '<...>' pairs are counted and stepped over;
// a '>' that closes an iteration opened before the scan started raises
// BNI, so a skipped conditional range cannot extend past the end of an
// enclosing iteration.
func scanConditional(cmd []rune, pos int) (term rune, next int) {
	depth := 0
	for pos < len(cmd) {
		c := cmd[pos]
		switch c {
		case '<':
			depth++
			pos++
			continue
		case '>':
			if depth == 0 {
				raise(BNI)
			}
			depth--
			pos++
			continue
		case '"', '\'', '|':
			if depth == 0 {
				return c, pos + 1
			}
			pos++
			continue
		}
		pos = skipOneCommand(cmd, pos)
	}
	raise(MAP)
	return 0, pos
}

// scanTag searches forward for a tag named want, in the form "!name!"; the
// "@!delim name delim" form is not recognized. Nested iterations are
// skipped wholesale (not searched into), matching spec §4.4's "a tag inside
// an iteration cannot be reached from outside". Raises TAG if want is never
// found.
func scanTag(cmd []rune, pos int, want string) int {
	for pos < len(cmd) {
		c := cmd[pos]
		switch c {
		case '<':
			pos = skipIterBody(cmd, pos+1)
			continue
		case '!':
			start := pos + 1
			end := start
			for end < len(cmd) && cmd[end] != '!' {
				end++
			}
			if end >= len(cmd) {
				raise(TAG, want)
			}
			name := string(cmd[start:end])
			pos = end + 1
			if name == want {
				return pos
			}
			continue
		case '>':
			raise(BNI)
		}
		pos = skipOneCommand(cmd, pos)
	}
	raise(TAG, want)
	return pos
}

// skipIterBody skips a whole (possibly nested) iteration body, starting
// just past its opening '<' (or, equivalently, from any point inside it,
// to escape exactly one enclosing level), returning the position just past
// the matching '>'.
func skipIterBody(cmd []rune, pos int) int {
	depth := 1
	for {
		term, next := scanIteration(cmd, pos)
		pos = next
		if term == '<' {
			depth++
		} else {
			depth--
			if depth == 0 {
				return pos
			}
		}
	}
}

// execLeftAngle runs '<' (spec §4.5): no argument starts an unbounded
// iteration; a positive argument a bounded one; zero or negative skips the
// body entirely via the iteration scan.
func execLeftAngle(lv *level) {
	if !lv.expr.hasCommitted() {
		lv.pushIter(0, true)
		return
	}
	n := lv.expr.getArgDefault(0)
	if n <= 0 {
		lv.pos = skipIterBody(lv.cmd, lv.pos)
		return
	}
	lv.pushIter(n, false)
}

// execRightAngle runs '>': decrements the current frame's remaining count,
// popping it at zero; otherwise control returns to the frame's start.
func execRightAngle(lv *level) {
	top, ok := lv.topIter()
	if !ok {
		raise(BNI)
	}
	if !top.infinite {
		top.remaining--
		if top.remaining <= 0 {
			lv.popIter()
			return
		}
	}
	lv.pos = top.start
}

// exitInnerIteration pops the innermost iteration frame and advances past
// its matching '>', used by both ';' and a simulated exit on search
// failure inside an iteration (spec §4.3, §4.5).
func exitInnerIteration(lv *level) {
	if len(lv.iters) == 0 {
		raise(SNI)
	}
	lv.popIter()
	lv.pos = skipIterBody(lv.cmd, lv.pos)
}

// execSemicolon runs ';': exits the innermost iteration when the committed
// value is non-negative (or, if colon-modified, when it is negative);
// raises SNI outside any iteration (spec §4.5).
func execSemicolon(lv *level) {
	colon := lv.expr.colons > 0
	val := lv.expr.getArgDefault(0)
	if _, ok := lv.topIter(); !ok {
		raise(SNI)
	}
	exit := val >= 0
	if colon {
		exit = val < 0
	}
	if exit {
		exitInnerIteration(lv)
	}
}

// execRestartIteration runs F<: restarts the current iteration without
// consuming a count (spec §4.5).
func execRestartIteration(lv *level) {
	top, ok := lv.topIter()
	if !ok {
		raise(BNI)
	}
	lv.pos = top.start
}

// condTest applies the conditional-test letter c to n (spec §4.5's n"c
// table), returning the test result and whether c is a known letter.
func condTest(c rune, n int) (bool, bool) {
	switch c {
	case 'A':
		return isAlphaCode(n), true
	case 'C':
		return isAlnumCode(n) || n == '$' || n == '.' || n == '_', true
	case 'D':
		return n >= '0' && n <= '9', true
	case 'E', 'F', 'U', '=':
		return n == 0, true
	case 'G', '>':
		return n > 0, true
	case 'L', 'S', 'T', '<':
		return n < 0, true
	case 'N':
		return n != 0, true
	case 'R':
		return isAlnumCode(n), true
	case 'V':
		return n >= 'a' && n <= 'z', true
	case 'W':
		return n >= 'A' && n <= 'Z', true
	}
	return false, false
}

func isAlphaCode(n int) bool {
	return (n >= 'a' && n <= 'z') || (n >= 'A' && n <= 'Z')
}

func isAlnumCode(n int) bool {
	return isAlphaCode(n) || (n >= '0' && n <= '9')
}

// skipConditionalBranch scans for this conditional's own '|' or '\'',
// skipping any nested "..."...' conditional wholesale so it is never
// confused by a nested conditional's own terminators (spec §4.4/§4.5).
func skipConditionalBranch(cmd []rune, pos int) (rune, int) {
	depth := 0
	for {
		term, next := scanConditional(cmd, pos)
		pos = next
		switch term {
		case '"':
			depth++
		case '\'':
			if depth == 0 {
				return '\'', pos
			}
			depth--
		case '|':
			if depth == 0 {
				return '|', pos
			}
		}
	}
}

// skipToApostrophe scans for the matching '\'' of the conditional whose
// true branch just fell through to '|', skipping any nested conditional
// wholesale.
func skipToApostrophe(cmd []rune, pos int) int {
	depth := 0
	for {
		term, next := scanConditional(cmd, pos)
		pos = next
		switch term {
		case '"':
			depth++
		case '\'':
			if depth == 0 {
				return pos
			}
			depth--
		}
	}
}

// execConditional runs 'n"c ... | ... '' (spec §4.5): compares n against
// the test selected by c; on failure, scans to '|' or '\''; '|' at the
// true-branch end flows to '\''; '\'' is a no-op when reached by flow.
func execConditional(lv *level, n int, c rune) {
	ok, known := condTest(c, n)
	if !known {
		raise(IQC)
	}
	if ok {
		return
	}
	_, next := skipConditionalBranch(lv.cmd, lv.pos)
	lv.pos = next
}

// execPipe runs '|' reached by straight-line flow (the true branch falling
// through): skip to the matching '\''.
func execPipe(lv *level) {
	lv.pos = skipToApostrophe(lv.cmd, lv.pos)
}

