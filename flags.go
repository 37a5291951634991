package goteco

// flags holds the process-lifetime global flags of spec §3: ed, eh, es,
// et, eu, ev, ^x, radix, trace. Bit layout and fixed-bit pinning for et
// follow the original (original_source/teco/teco.py): bit 7 ("terminal
// capable") is always set; bit 9 pins on when a text "watch" display is
// available, bit 10 when a windowed display is available.
type flags struct {
	ed, eh, es, et, eu, ev, caretX int
	radix                          int
	trace                          bool
}

const (
	etTerminalCapable = 1 << 7
	etWatchAvailable  = 1 << 9
	etDisplayAvailable = 1 << 10
)

func newFlags(hasWatch bool) *flags {
	f := &flags{radix: 10, et: etTerminalCapable}
	if hasWatch {
		f.et |= etWatchAvailable
	}
	return f
}

// etFixed returns the bits et may never lose, per spec §3/§6.
func (f *flags) etFixed() int {
	fixed := etTerminalCapable
	if f.et&(etWatchAvailable|etDisplayAvailable) != 0 {
		fixed |= f.et & (etWatchAvailable | etDisplayAvailable)
	}
	return fixed
}

// watchParams is the 8-element integer vector of spec §3's "Watch
// parameters": tab width, width, height, and reserved slots.
type watchParams [8]int

const (
	wpTabWidth = 0
	wpWidth    = 1
	wpHeight   = 2
)
