package goteco

import (
	"io"

	"github.com/jcorbin/goteco/internal/flushio"
	"github.com/jcorbin/goteco/internal/watch"
)

// Option configures an Interp at construction time.
type Option interface{ apply(in *Interp) }

var defaultOptions = Options(
	WithInput(io.NopCloser(new(zeroReader))),
	WithOutput(io.Discard),
)

// Options flattens a list of options into one, the way the teacher's
// VMOptions does: nested Options collapse, nils and no-ops drop out.
func Options(opts ...Option) Option {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(*Interp) {}

type options []Option

func (opts options) apply(in *Interp) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(in)
		}
	}
}

type zeroReader struct{}

func (zeroReader) Read([]byte) (int, error) { return 0, io.EOF }

type withLogf func(level, mess string, args ...interface{})

func (fn withLogf) apply(in *Interp) { in.logf = fn }

// WithLogf sets the function backing the interpreter's diagnostic and trace
// output (spec §4.10's command/string tracer).
func WithLogf(fn func(level, mess string, args ...interface{})) Option { return withLogf(fn) }

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type memLimitOption uint
type searchPathOption []string
type watchOption struct{ sink watch.Sink }
type traceOption bool

// WithInput supplies the stream that ^T and W read single characters from.
func WithInput(r io.Reader) Option { return inputOption{r} }

// WithOutput supplies a stream that Close flushes (and closes, if it is an
// io.Closer). Command output itself (T, =, tracing, error reports) goes
// through the WithLogf function, not through this stream.
func WithOutput(w io.Writer) Option { return outputOption{w} }

// WithMemLimit records a text buffer size limit on the Interp; 0 means
// unbounded. No command checks the buffer against this limit.
func WithMemLimit(limit uint) Option { return memLimitOption(limit) }

// WithSearchPath sets the directory list consulted, in order, for a bare
// EI command-file name, in place of the TECO_PATH/PATH/host-default chain
// of §6.
func WithSearchPath(dirs ...string) Option { return searchPathOption(dirs) }

// WithTrace starts the interpreter with the `?` trace flag already on
// (spec §4.10).
func WithTrace(on bool) Option { return traceOption(on) }

// WithWatch attaches a pluggable display sink (Design Notes: pluggable
// display) that mirrors the buffer around dot as the interpreter runs.
func WithWatch(sink watch.Sink) Option { return watchOption{sink} }

func (o inputOption) apply(in *Interp) {
	in.cmdInput = o.Reader
}

func (o outputOption) apply(in *Interp) {
	if in.out != nil {
		in.out.Flush()
	}
	in.out = flushio.NewWriteFlusher(o.Writer)
	if cl, ok := o.Writer.(io.Closer); ok {
		in.closers = append(in.closers, cl)
	}
}

func (lim memLimitOption) apply(in *Interp) { in.memLimit = uint(lim) }

func (sp searchPathOption) apply(in *Interp) { in.searchPath = append([]string(nil), sp...) }

func (w watchOption) apply(in *Interp) { in.watch = w.sink }

func (t traceOption) apply(in *Interp) { in.initTrace = bool(t) }
