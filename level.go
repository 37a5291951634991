package goteco

// level is one command-execution level (spec §2 component 9: "per-level
// state: command string, cursor, iteration stack, modifier flags, local
// registers"). Executing a macro (Mq) creates a fresh level bound either to
// a new or the same local register scope (spec §4.6); it runs until it
// falls off the end of its command string or an explicit exitLevel.
type level struct {
	interp *Interp
	cmd    []rune
	pos    int
	expr   exprState
	regs   *registerStore
	iters  []iterFrame
	parent *level
}

// exitLevel unwinds execution of just this level, the way the teacher's
// core uses a typed panic value to unwind one isolated piece of work.
type exitLevel struct{}

func newLevel(in *Interp, cmd string, regs *registerStore, parent *level) *level {
	return &level{interp: in, cmd: []rune(cmd), regs: regs, parent: parent}
}

func (lv *level) atEnd() bool { return lv.pos >= len(lv.cmd) }

// peek returns the next command character without consuming it, or 0 at
// end of command.
func (lv *level) peek() rune {
	if lv.atEnd() {
		return 0
	}
	return lv.cmd[lv.pos]
}

// next consumes and returns the next command character, raising UTC(name)
// if the command has run out of characters where one was required.
func (lv *level) next(name string) rune {
	if lv.atEnd() {
		raise(UTC, name)
	}
	c := lv.cmd[lv.pos]
	lv.pos++
	return c
}

// pushIter starts a new iteration frame at the current position.
func (lv *level) pushIter(remaining int, infinite bool) {
	lv.iters = append(lv.iters, iterFrame{start: lv.pos, remaining: remaining, infinite: infinite})
}

func (lv *level) topIter() (*iterFrame, bool) {
	if len(lv.iters) == 0 {
		return nil, false
	}
	return &lv.iters[len(lv.iters)-1], true
}

func (lv *level) popIter() {
	lv.iters = lv.iters[:len(lv.iters)-1]
}
