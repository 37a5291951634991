package goteco

import (
	"fmt"
	"io"
	"sort"

	"github.com/jcorbin/goteco/internal/printable"
)

// interpDumper prints a snapshot of an Interp's state to out, in the
// teacher's "vmDumper" idiom: a small value wrapping the thing to dump plus
// its destination, with one dump method doing the formatting. Used by the
// -dump CLI flag.
type interpDumper struct {
	in  *Interp
	out io.Writer
}

func (d interpDumper) dump() {
	fmt.Fprintf(d.out, "dot: %d/%d\n", d.in.buf.dot, d.in.buf.end())
	fmt.Fprintf(d.out, "text: %q\n", printable.String(d.in.buf.String()))
	fmt.Fprintf(d.out, "flags: ed=%d eh=%d es=%d et=%d eu=%d ev=%d ^x=%d radix=%d trace=%v\n",
		d.in.flags.ed, d.in.flags.eh, d.in.flags.es, d.in.flags.et,
		d.in.flags.eu, d.in.flags.ev, d.in.flags.caretX, d.in.flags.radix, d.in.flags.trace)
	d.dumpRegisters("global", d.in.regs.global.regs)
	d.dumpRegisters("local", d.in.regs.local)
	fmt.Fprintf(d.out, "register stack: %d entries\n", len(d.in.regs.global.stack))
}

func (d interpDumper) dumpRegisters(scope string, tbl map[byte]*register) {
	names := make([]byte, 0, len(tbl))
	for c := range tbl {
		names = append(names, c)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	for _, c := range names {
		local := scope == "local"
		fmt.Fprintf(d.out, "%s %s\n", scope, tbl[c].describe(regName{Char: c, Local: local}))
	}
}

// Dump writes a human-readable snapshot of in's buffer, flags, and
// registers to out, for debugging and test failure output.
func (in *Interp) Dump(out io.Writer) {
	interpDumper{in: in, out: out}.dump()
}
