// Package goteco implements a TECO-style text-editing command language: a
// command-driven editor whose commands are terse punctuation and letter
// sequences operating on a character buffer, a family of named registers,
// and a small expression evaluator.
package goteco

import (
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/jcorbin/goteco/internal/flushio"
	"github.com/jcorbin/goteco/internal/pageio"
	"github.com/jcorbin/goteco/internal/runeio"
	"github.com/jcorbin/goteco/internal/watch"
)

// Interp is a TECO interpreter: the buffer, register store, global flags,
// and file slots of spec §3, built with New and a set of Options, mirroring
// the teacher's VM/api.go construction pattern.
type Interp struct {
	buf   buffer
	flags *flags
	wp    watchParams

	lastStringLen int

	regs *registerStore

	in      [2]*pageio.Reader
	out_    [2]*pageio.Writer
	curIn   int
	curOut  int
	eiStack []*pageio.Reader // nested EI command-file sources

	enPattern string
	enMatches []string

	cmdInput  io.Reader
	cmdReader runeio.Reader
	out       flushio.WriteFlusher
	logf      func(level, mess string, args ...interface{})
	watch     watch.Sink

	memLimit   uint
	searchPath []string
	closers    []io.Closer
	initTrace  bool
}

// New constructs an Interp, applying opts in order (spec §3's "Lifecycles:
// the buffer, register store, and global flags live for the process").
func New(opts ...Option) *Interp {
	in := &Interp{}
	Options(defaultOptions, Options(opts...)).apply(in)
	if in.logf == nil {
		in.logf = func(string, string, ...interface{}) {}
	}
	in.flags = newFlags(in.watch != nil)
	in.flags.trace = in.initTrace
	in.regs = newRegisterStore(newGlobalRegisters())
	in.cmdReader = runeio.NewReader(in.cmdInput)
	return in
}

// Close flushes and closes every open stream (terminal output, the two
// input slots, the two output slots, any open EI file), aggregating
// failures the way golang-migrate aggregates multi-source close errors,
// since spec §5 requires every file be closed on every completion path.
func (in *Interp) Close() error {
	var result *multierror.Error
	if in.out != nil {
		if err := in.out.Flush(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, r := range in.in {
		if r != nil {
			if err := r.Close(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	for _, w := range in.out_ {
		if w != nil {
			if err := w.Discard(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	for _, r := range in.eiStack {
		if err := r.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, cl := range in.closers {
		if err := cl.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// SeedBuffer places text in the buffer with dot at its start, used by the
// CLI front end to put the joined command-line arguments where a startup
// macro can parse them (spec §6).
func (in *Interp) SeedBuffer(text string) {
	in.buf.text = []rune(text)
	in.buf.dot = 0
}

// Dot returns the buffer cursor, for callers (tests, the watch sink) that
// need a read-only snapshot.
func (in *Interp) Dot() int { return in.buf.dot }

// Text returns the buffer's full text.
func (in *Interp) Text() string { return in.buf.String() }

// readOneChar reads one rune from the command-input stream (spec §4.9's
// ^T, which reads a single raw character), reporting false at EOF.
func (in *Interp) readOneChar() (rune, bool) {
	r, _, err := in.cmdReader.ReadRune()
	if err != nil {
		return 0, false
	}
	return r, true
}

// publishSnapshot hands the current buffer/dot to the watch sink (spec §5's
// single-writer discipline). It is called at the end of every top-level
// Execute that succeeds and after each character W reads; ^T does not
// publish before blocking for input.
func (in *Interp) publishSnapshot() {
	if in.watch == nil {
		return
	}
	lines, row, col := in.screentext()
	in.watch.Refresh(lines, row, col)
}
