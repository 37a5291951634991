package goteco

import (
	"fmt"
	"strings"
)

// Execute runs cmd as a top-level command string against in's buffer and
// registers (spec §2: "the top-level read-eval loop feeds a command string,
// one line at a time, to the command-level executor"). Any raised Error is
// reported via reportError and returned; a successful run publishes a
// watch-sink snapshot before returning, matching spec §5's single-writer
// discipline.
func (in *Interp) Execute(cmd string) (err *Error) {
	lv := newLevel(in, cmd, in.regs, nil)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(exitExecution); ok {
			return
		}
		if e, ok := r.(*Error); ok {
			err = e
			in.reportError(err, string(lv.cmd[:lv.pos]))
			return
		}
		panic(r)
	}()
	in.run(lv)
	in.publishSnapshot()
	return nil
}

// run drives lv's command string to completion, one command at a time,
// stopping at an explicit exitLevel unwind (spec §4.6: "Mq ... running
// until natural end or explicit ExitLevel").
func (in *Interp) run(lv *level) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(exitLevel); ok {
				return
			}
			panic(r)
		}
	}()
	for !lv.atEnd() {
		in.dispatchOne(lv)
	}
}

// dispatchOne consumes any pending @/: modifiers, then dispatches exactly
// one command character (spec §4.0/Design Notes: "modifiers apply to the
// single command that follows").
func (in *Interp) dispatchOne(lv *level) {
	for !lv.atEnd() {
		switch lv.peek() {
		case '@':
			lv.pos++
			lv.expr.atmod = true
			continue
		case ':':
			lv.pos++
			if !lv.atEnd() && lv.peek() == ':' {
				lv.pos++
				lv.expr.colons = 2
			} else if lv.expr.colons < 1 {
				lv.expr.colons = 1
			}
			continue
		}
		break
	}
	if lv.atEnd() {
		return
	}
	c := lv.cmd[lv.pos]
	lv.pos++
	in.traceChar(c)
	in.dispatchChar(lv, c)
	lv.expr.atmod = false
	lv.expr.colons = 0
}

// dispatchChar is the command dispatch table of spec's Design Notes
// ("dispatch table": commandTable, eCommandTable, fCommandTable,
// caretCommandTable), implemented as a single switch for the top-level
// commands and delegating to dispatchCaret/dispatchE/dispatchF for their
// two-character families.
func (in *Interp) dispatchChar(lv *level, c rune) {
	switch {
	case c >= '0' && c <= '9':
		lv.expr.digit(int(c-'0'), in.flags.radix)
		return
	}

	switch c {
	case ' ', '\t', '\r', '\n', esc:
		// whitespace, and the command-terminating ESC ESC, are no-ops
		// between commands

	case '+', '-', '*', '/', '&', '#':
		lv.expr.doop(byte(c))

	case '(':
		lv.expr.leftParen()
	case ')':
		lv.expr.rightParen()
	case ',':
		lv.expr.comma()

	case '.':
		lv.expr.num, lv.expr.hasNum = in.buf.dot, true
	case 'Z', 'z':
		lv.expr.num, lv.expr.hasNum = in.buf.end(), true
	case 'H', 'h':
		lv.expr.arg2, lv.expr.hasArg2 = 0, true
		lv.expr.num, lv.expr.hasNum = in.buf.end(), true

	case '!':
		execBang(lv)
	case '<':
		execLeftAngle(lv)
	case '>':
		execRightAngle(lv)
	case ';':
		execSemicolon(lv)
	case '"':
		n := lv.expr.getArgRequired(NAQ)
		tc := lv.next("\"")
		execConditional(lv, n, tc)
	case '\'':
		// reached by straight-line flow: no-op
	case '|':
		execPipe(lv)
	case 'O', 'o':
		in.execO(lv)

	case '=':
		in.execEquals(lv)

	case 'I', 'i':
		in.execInsert(lv)
	case 'J', 'j':
		pos := lv.expr.getArgDefault(0)
		in.buf.jump(pos, "J")
	case 'C', 'c':
		n := lv.expr.getArgDefault(1)
		in.buf.moveDot(n, "C")
	case 'R', 'r':
		n := lv.expr.getArgDefault(1)
		in.buf.moveDot(-n, "R")
	case 'L', 'l':
		n := lv.expr.getArgDefault(1)
		in.buf.jump(in.buf.line(n), "L")
	case 'K', 'k':
		in.execKill(lv)
	case 'D', 'd':
		n := lv.expr.getArgDefault(1)
		in.buf.delete(n)
	case 'T', 't':
		in.execType(lv)

	case 'S', 's':
		in.execSearch(lv, false)
	case 'N', 'n':
		in.execSearch(lv, true)

	case 'U', 'u':
		name := in.readRegName(lv, "U")
		n := lv.expr.getArgRequired(NAU)
		lv.regs.setNum(name, n)
	case 'Q', 'q':
		name := in.readRegName(lv, "Q")
		lv.expr.num, lv.expr.hasNum = lv.regs.get(name).Num, true
	case '%':
		name := in.readRegName(lv, "%")
		delta := lv.expr.getArgDefault(1)
		r := lv.regs.get(name)
		r.Num += delta
		lv.regs.set(name, r)
		lv.expr.num, lv.expr.hasNum = r.Num, true
	case 'G', 'g':
		name := in.readRegName(lv, "G")
		in.lastStringLen = in.buf.insert(regText(lv.regs, name))
	case 'X', 'x':
		in.execXfer(lv)
	case '[':
		lv.regs.push(in.readRegName(lv, "["))
	case ']':
		lv.regs.pop(in.readRegName(lv, "]"))
	case 'M', 'm':
		in.execMacro(lv)

	case 'Y', 'y':
		in.cmdY()
	case 'A', 'a':
		in.cmdA()
	case 'P', 'p':
		in.execP(lv)
	case 'W', 'w':
		in.execW(lv)

	case '^':
		in.dispatchCaret(lv)
	case 'E', 'e':
		in.dispatchE(lv)
	case 'F', 'f':
		in.dispatchF(lv)

	default:
		raise(ILL, string(c))
	}
}

// readRegName reads a command's one- or two-character register-name suffix
// (spec §4.6).
func (in *Interp) readRegName(lv *level, cmdName string) regName {
	c := lv.next(cmdName)
	if c == '.' {
		c2 := lv.next(cmdName)
		name, ok := parseRegName("." + string(c2))
		if !ok {
			raise(IQN, string(c2))
		}
		return name
	}
	name, ok := parseRegName(string(c))
	if !ok {
		raise(IQN, string(c))
	}
	return name
}

// execBang runs '!name!': a tag marker is a no-op when reached by flow, so
// execution simply skips its body.
func execBang(lv *level) {
	for lv.pos < len(lv.cmd) && lv.cmd[lv.pos] != '!' {
		lv.pos++
	}
	if lv.pos >= len(lv.cmd) {
		raise(TAG, "")
	}
	lv.pos++
}

// execO runs 'Oname!': an unconditional jump to the tag named, searched for
// from the start of the current level's command string; tags inside an
// iteration are not searched (spec §4.4/§4.6).
func (in *Interp) execO(lv *level) {
	start := lv.pos
	for lv.pos < len(lv.cmd) && lv.cmd[lv.pos] != '!' {
		lv.pos++
	}
	if lv.pos >= len(lv.cmd) {
		raise(UTC, "O")
	}
	name := string(lv.cmd[start:lv.pos])
	lv.pos++
	lv.iters = nil
	lv.pos = scanTag(lv.cmd, 0, name)
}

// execEquals runs '=', '==', and '===' (spec §3 SUPPLEMENTED FEATURES:
// radix-prefixed numeric echo): one '=' prints in the current radix, two
// force octal, three force hex, regardless of the current radix.
func (in *Interp) execEquals(lv *level) {
	n := lv.expr.getArgRequired(NAE)
	base := in.flags.radix
	if lv.peek() == '=' {
		lv.pos++
		base = 8
		if lv.peek() == '=' {
			lv.pos++
			base = 16
		}
	}
	in.logf("", "%s\n", formatRadix(n, base))
}

func formatRadix(n, base int) string {
	neg := n < 0
	if neg {
		n = -n
	}
	var s string
	switch base {
	case 8:
		s = fmt.Sprintf("%o", n)
	case 16:
		s = fmt.Sprintf("%X", n)
	default:
		s = fmt.Sprintf("%d", n)
	}
	if neg {
		return "-" + s
	}
	return s
}

// execInsert runs 'I' (spec §4.7).
func (in *Interp) execInsert(lv *level) {
	raw, next := readStringArg(lv.cmd, lv.pos, lv.expr.atmod, "I")
	lv.pos = next
	in.traceString(raw)
	text := buildString(raw, lv.regs, in.flags.ed)
	in.lastStringLen = in.buf.insert(text)
}

// execKill runs 'K' (line-oriented kill) and its two-argument "m,nK" form
// (spec §4.7).
func (in *Interp) execKill(lv *level) {
	if m, n, ok := lv.expr.twoArg(ARG); ok {
		in.buf.deleteRange(m, n)
		return
	}
	n := lv.expr.getArgDefault(1)
	pos := in.buf.line(n)
	if n >= 0 {
		in.buf.deleteRange(in.buf.dot, pos)
	} else {
		in.buf.deleteRange(pos, in.buf.dot)
	}
}

// execType runs 'T' and its two-argument "m,nT" form (spec §4.7).
func (in *Interp) execType(lv *level) {
	if m, n, ok := lv.expr.twoArg(ARG); ok {
		in.logf("", "%s", in.buf.typeRange(m, n))
		return
	}
	n := lv.expr.getArgDefault(1)
	pos := in.buf.line(n)
	var s string
	if n >= 0 {
		s = in.buf.typeRange(in.buf.dot, pos)
	} else {
		s = in.buf.typeRange(pos, in.buf.dot)
	}
	in.logf("", "%s", s)
}

// execSearch runs 'S' (bounded to the current buffer) and 'N' (advances
// through pages on exhaustion), per spec §4.3/§4.7.
func (in *Interp) execSearch(lv *level, paging bool) {
	count := lv.expr.getArgDefault(1)
	raw, next := readStringArg(lv.cmd, lv.pos, lv.expr.atmod, "S")
	lv.pos = next
	var nextPage func() bool
	if paging {
		nextPage = in.nextPageForward
	}
	val := in.runSearch(lv, searchArgs{
		pattern: raw, count: count, start: 0, end: in.buf.end(),
		colon: lv.expr.colons > 0, resetOnFail: true, nextPage: nextPage,
	})
	lv.expr.num, lv.expr.hasNum = val, true
}

// execXfer runs 'X' (copy a buffer range into a register) and its
// two-argument "m,nX" form; a colon modifier appends instead of replacing
// (spec §4.6/§4.7).
func (in *Interp) execXfer(lv *level) {
	name := in.readRegName(lv, "X")
	colon := lv.expr.colons > 0
	var text string
	if m, n, ok := lv.expr.twoArg(ARG); ok {
		text = in.buf.typeRange(m, n)
	} else if lv.expr.hasCommitted() {
		n := lv.expr.getArgDefault(1)
		pos := in.buf.line(n)
		if n >= 0 {
			text = in.buf.typeRange(in.buf.dot, pos)
		} else {
			text = in.buf.typeRange(pos, in.buf.dot)
		}
	} else {
		text = in.buf.String()
	}
	if colon {
		lv.regs.appendText(name, text)
	} else {
		lv.regs.setText(name, text)
	}
}

// execMacro runs 'M' (spec §4.6): plain M keeps the caller's local register
// scope; a colon modifier gives the child level a fresh one.
func (in *Interp) execMacro(lv *level) {
	name := in.readRegName(lv, "M")
	text := lv.regs.get(name).Text
	childRegs := lv.regs.sameLocal()
	if lv.expr.colons > 0 {
		childRegs = lv.regs.childLocal()
	}
	child := newLevel(in, text, childRegs, lv)
	in.run(child)
}

// execP runs 'P' and "m,nP"; a following 'W' makes it "PW" (spec §4.7),
// writing a subrange without advancing to the next page, the same
// lookahead execEquals uses for "="/"=="/"===". execW (below) is the
// unrelated plain 'W' insert-until-terminator command.
func (in *Interp) execP(lv *level) {
	if lv.peek() == 'W' || lv.peek() == 'w' {
		lv.pos++
		in.cmdPW()
		return
	}
	in.cmdP(lv)
}

// execW runs 'W' (insert-until-terminator). Its argument's bits select
// behavior per spec's SUPPLEMENTED FEATURES section: bit 1 includes tab
// among terminators, bit 2 uppercases each character, bit 5 skips display
// refresh, bit 6 accepts any character (including otherwise-reserved ones).
func (in *Interp) execW(lv *level) {
	n := lv.expr.getArgDefault(0)
	includeTab := n&2 != 0
	uppercase := n&4 != 0
	skipRefresh := n&32 != 0
	anyChar := n&64 != 0

	var sb strings.Builder
	for {
		r, ok := in.readOneChar()
		if !ok {
			break
		}
		isTerm := r == '\r' || r == '\n' || (includeTab && r == '\t')
		if isTerm && !anyChar {
			break
		}
		if uppercase {
			r = toUpperRune(r)
		}
		sb.WriteRune(r)
		if !skipRefresh {
			in.publishSnapshot()
		}
		if anyChar && isTerm {
			break
		}
	}
	in.lastStringLen = in.buf.insert(sb.String())
}

func toUpperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

// dispatchCaret runs every "^X" two-character command (spec's
// caretCommandTable).
func (in *Interp) dispatchCaret(lv *level) {
	sub := lv.next("^")
	switch sub {
	case 'A', 'a':
		start := lv.pos
		for lv.pos < len(lv.cmd) && lv.cmd[lv.pos] != 0x01 {
			lv.pos++
		}
		if lv.pos >= len(lv.cmd) {
			raise(UTC, "^A")
		}
		msg := string(lv.cmd[start:lv.pos])
		lv.pos++
		in.logf("", "%s", msg)

	case 'C', 'c':
		raise(XAB)

	case 'T', 't':
		r, ok := in.readOneChar()
		if ok {
			lv.expr.num, lv.expr.hasNum = int(r), true
		} else {
			lv.expr.num, lv.expr.hasNum = -1, true
		}

	case 'R', 'r':
		n := lv.expr.getArgDefault(0)
		switch n {
		case 0, 8, 10, 16:
			if n != 0 {
				in.flags.radix = n
			}
		default:
			raise(IRA)
		}
		lv.expr.num, lv.expr.hasNum = in.flags.radix, true

	case 'X', 'x':
		in.flags.caretX = lv.expr.numFlagArg(in.flags.caretX)
		lv.expr.num, lv.expr.hasNum = in.flags.caretX, true

	case 'U', 'u':
		name := in.readRegName(lv, "^U")
		raw, next := readStringArg(lv.cmd, lv.pos, lv.expr.atmod, "^U")
		lv.pos = next
		text := buildString(raw, lv.regs, in.flags.ed)
		if lv.expr.colons > 0 {
			lv.regs.appendText(name, text)
		} else {
			lv.regs.setText(name, text)
		}

	case 'S', 's':
		lv.expr.num, lv.expr.hasNum = in.lastStringLen, true

	default:
		raise(IUC, string(sub))
	}
}

// dispatchE runs every "E." two-character command (spec's eCommandTable).
func (in *Interp) dispatchE(lv *level) {
	sub := lv.next("E")
	switch sub {
	case 'R', 'r':
		in.cmdER(lv)
	case 'W', 'w':
		in.cmdEW(lv)
	case 'B', 'b':
		in.cmdEB(lv)
	case 'P', 'p':
		in.cmdEP()
	case 'A', 'a':
		in.cmdA()
	case 'C', 'c':
		in.cmdEC()
	case 'F', 'f':
		in.cmdEF()
	case 'K', 'k':
		in.cmdEK()
	case 'I', 'i':
		in.cmdEI(lv)
	case 'N', 'n':
		in.cmdEN(lv)
	case 'J', 'j':
		in.cmdEJ(lv)
	case 'X', 'x':
		panic(exitExecution{})
	case 'D', 'd':
		in.flags.ed = lv.expr.bitFlagArg(in.flags.ed, 0)
		lv.expr.num, lv.expr.hasNum = in.flags.ed, true
	case 'H', 'h':
		in.flags.eh = lv.expr.numFlagArg(in.flags.eh)
		lv.expr.num, lv.expr.hasNum = in.flags.eh, true
	case 'S', 's':
		in.flags.es = lv.expr.numFlagArg(in.flags.es)
		lv.expr.num, lv.expr.hasNum = in.flags.es, true
	case 'T', 't':
		in.flags.et = lv.expr.bitFlagArg(in.flags.et, in.flags.etFixed())
		lv.expr.num, lv.expr.hasNum = in.flags.et, true
	case 'U', 'u':
		in.flags.eu = lv.expr.numFlagArg(in.flags.eu)
		lv.expr.num, lv.expr.hasNum = in.flags.eu, true
	case 'V', 'v':
		in.flags.ev = lv.expr.numFlagArg(in.flags.ev)
		lv.expr.num, lv.expr.hasNum = in.flags.ev, true
	case 'Y', 'y':
		in.cmdEY()
	default:
		raise(IEC, string(sub))
	}
}

// dispatchF runs every "F." two-character command (spec's fCommandTable):
// search-and-replace variants plus F< (restart iteration).
func (in *Interp) dispatchF(lv *level) {
	sub := lv.next("F")
	switch sub {
	case '<':
		execRestartIteration(lv)
	case 'S', 's':
		in.execFS(lv, 1)
	case 'N', 'n':
		in.execFS(lv, -1)
	case 'R', 'r':
		in.execFR(lv)
	case 'B', 'b':
		in.execFB(lv)
	default:
		raise(IFC, string(sub))
	}
}

// execFS runs FS/FN (find-and-replace, forward or reverse): search for the
// first string, and on success, replace the match with the build-expanded
// second string.
func (in *Interp) execFS(lv *level, dir int) {
	count := lv.expr.getArgDefault(1) * dir
	s1, s2, next := readTwoStringArgs(lv.cmd, lv.pos, lv.expr.atmod, "FS")
	lv.pos = next
	var nextPage func() bool
	if dir > 0 {
		nextPage = in.nextPageForward
	}
	val := in.runSearch(lv, searchArgs{
		pattern: s1, count: count, start: 0, end: in.buf.end(),
		colon: lv.expr.colons > 0, resetOnFail: true, nextPage: nextPage,
	})
	if val != 0 {
		repl := buildString(s2, lv.regs, in.flags.ed)
		matchStart := in.buf.dot + in.lastStringLen
		in.buf.deleteRange(matchStart, in.buf.dot)
		in.lastStringLen = in.buf.insert(repl)
	}
	lv.expr.num, lv.expr.hasNum = val, true
}

// execFR runs FR (replace the text just matched by the prior search with a
// new build-expanded string, without searching again).
func (in *Interp) execFR(lv *level) {
	raw, next := readStringArg(lv.cmd, lv.pos, lv.expr.atmod, "FR")
	lv.pos = next
	repl := buildString(raw, lv.regs, in.flags.ed)
	matchStart := in.buf.dot + in.lastStringLen
	if matchStart > in.buf.dot {
		matchStart = in.buf.dot
	}
	in.buf.deleteRange(matchStart, in.buf.dot)
	in.lastStringLen = in.buf.insert(repl)
}

// execFB runs FB (find backward): a reverse-search alias of FS for callers
// that spell it out explicitly.
func (in *Interp) execFB(lv *level) {
	in.execFS(lv, -1)
}

// exitExecution is a typed panic used by EX to unwind every level back to
// the top-level Execute call and end the run cleanly, the way the teacher's
// core uses a distinct marker type to distinguish "stop" from "error".
type exitExecution struct{}
