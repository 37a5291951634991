package goteco

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jcorbin/goteco/internal/pageio"
)

// openInput opens name for reading into the current input slot (spec §4.8:
// "ER \"fn\" opens fn for reading into the current slot and splits on
// form-feed"). An empty name just selects slot 0, matching "ER \"\" selects
// input slot 0".
func (in *Interp) openInput(slot int, name string) {
	if name == "" {
		in.curIn = slot
		return
	}
	r, err := pageio.Open(name)
	if err != nil {
		raise(FNF, name)
	}
	if in.in[slot] != nil {
		in.in[slot].Close()
	}
	in.in[slot] = r
	in.curIn = slot
	in.regs.global.lastFilename = name
}

// cmdER runs ER (spec §4.8).
func (in *Interp) cmdER(lv *level) {
	name, next := readStringArg(lv.cmd, lv.pos, lv.expr.atmod, "ER")
	lv.pos = next
	slot := 0
	if name != "" {
		slot = in.curIn
	}
	in.openInput(slot, name)
}

// cmdEP runs EP: select input/output slot 1.
func (in *Interp) cmdEP() {
	in.curIn = 1
	in.curOut = 1
}

// cmdEW runs EW (spec §4.8): "" selects output slot 0; a name opens a
// temporary file next to fn.
func (in *Interp) cmdEW(lv *level) {
	name, next := readStringArg(lv.cmd, lv.pos, lv.expr.atmod, "EW")
	lv.pos = next
	if name == "" {
		in.curOut = 0
		return
	}
	w, err := pageio.Create(name)
	if err != nil {
		raise(NFO, name)
	}
	if in.out_[in.curOut] != nil {
		raise(OFO)
	}
	in.out_[in.curOut] = w
	in.regs.global.lastFilename = name
}

// cmdEB runs EB (spec §4.8): opens the same name for both input and output
// with backup, renaming the original to "fn~" on close.
func (in *Interp) cmdEB(lv *level) {
	name, next := readStringArg(lv.cmd, lv.pos, lv.expr.atmod, "EB")
	lv.pos = next
	r, err := pageio.Open(name)
	if err != nil {
		raise(FNF, name)
	}
	w, err := pageio.Create(name)
	if err != nil {
		r.Close()
		raise(NFO, name)
	}
	if in.in[in.curIn] != nil {
		in.in[in.curIn].Close()
	}
	if in.out_[in.curOut] != nil {
		raise(OFO)
	}
	in.in[in.curIn] = r
	in.out_[in.curOut] = w
	in.regs.global.lastFilename = name
}

// cmdEC runs EC (spec §4.8): writes the remaining input to the output and
// closes both.
func (in *Interp) cmdEC() {
	r := in.in[in.curIn]
	w := in.out_[in.curOut]
	if w == nil {
		raise(NFO)
	}
	backup := wasBackup(in)
	w.WriteString(in.buf.String())
	in.buf.clear()
	for r != nil {
		text, ok := r.NextPage()
		if !ok {
			break
		}
		w.WriteString(text)
		if r.FF() {
			w.WriteString("\f")
		}
	}
	if r != nil {
		r.Close()
		in.in[in.curIn] = nil
	}
	var perr error
	if backup {
		perr = w.PromoteWithBackup()
	} else {
		perr = w.Promote()
	}
	in.out_[in.curOut] = nil
	if perr != nil {
		raise(FER)
	}
}

// wasBackup reports whether the current output slot was opened via EB,
// tracked by the writer sharing its finalName with the current input slot.
func wasBackup(in *Interp) bool {
	r, w := in.in[in.curIn], in.out_[in.curOut]
	return r != nil && w != nil && r.Name() == w.Name()
}

// cmdEF runs EF: closes the output file only, promoting it.
func (in *Interp) cmdEF() {
	w := in.out_[in.curOut]
	if w == nil {
		raise(NFO)
	}
	err := w.Promote()
	in.out_[in.curOut] = nil
	if err != nil {
		raise(FER)
	}
}

// cmdEK runs EK: discards the output temporary file.
func (in *Interp) cmdEK() {
	w := in.out_[in.curOut]
	if w == nil {
		raise(NFO)
	}
	w.Discard()
	in.out_[in.curOut] = nil
}

// cmdEI runs EI (spec §4.8, §6): executes the named file as a nested
// command-input source, using the TECO_PATH/PATH/host-default search chain.
func (in *Interp) cmdEI(lv *level) {
	name, next := readStringArg(lv.cmd, lv.pos, lv.expr.atmod, "EI")
	lv.pos = next
	if name == "" {
		return
	}
	path, ok := in.resolveSearchPath(name)
	if !ok {
		if lv.expr.colons > 0 {
			lv.expr.num, lv.expr.hasNum = 0, true
			return
		}
		raise(FNF, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		raise(FNF, name)
	}
	child := newLevel(in, string(data), lv.regs.childLocal(), lv)
	in.run(child)
}

// resolveSearchPath implements spec §6's EI search chain: directories named
// by the filename itself win outright; otherwise TECO_PATH, then PATH, then
// a host default are tried in order.
func (in *Interp) resolveSearchPath(name string) (string, bool) {
	if strings.ContainsRune(name, os.PathSeparator) {
		if _, err := os.Stat(name); err == nil {
			return name, true
		}
		return "", false
	}
	dirs := in.searchPath
	if len(dirs) == 0 {
		if p := os.Getenv("TECO_PATH"); p != "" {
			dirs = filepath.SplitList(p)
		} else if p := os.Getenv("PATH"); p != "" {
			dirs = filepath.SplitList(p)
		} else {
			dirs = []string{"/usr/local/lib/teco", "/usr/lib/teco"}
		}
	}
	for _, dir := range dirs {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// cmdEN runs EN (spec §4.8): "pattern" stores a glob expansion; "" returns
// the next match into lastfilename, setting -1, or FNF (0 if colon-modified)
// on exhaustion.
func (in *Interp) cmdEN(lv *level) {
	pattern, next := readStringArg(lv.cmd, lv.pos, lv.expr.atmod, "EN")
	lv.pos = next
	if pattern != "" {
		in.enPattern = pattern
		matches, err := filepath.Glob(pattern)
		if err != nil {
			raise(IFN, pattern)
		}
		in.enMatches = matches
		return
	}
	if len(in.enMatches) == 0 {
		if lv.expr.colons > 0 {
			lv.expr.num, lv.expr.hasNum = 0, true
			return
		}
		raise(FNF, in.enPattern)
	}
	in.regs.global.lastFilename = in.enMatches[0]
	in.enMatches = in.enMatches[1:]
	lv.expr.num, lv.expr.hasNum = -1, true
}

// cmdEJ runs EJ (spec §6): -1EJ returns (cpu<<8)|os with cpu=0, os=7,
// pretending a PDP-11/RT-11 environment because Unix-style answers confuse
// scripts that build filenames from the answer (per the original). 0EJ
// returns the parent process id modulo 256, a stable per-session
// identifier; 1EJ is reserved and always 0; 2EJ returns the user id.
func (in *Interp) cmdEJ(lv *level) {
	n := lv.expr.getArgDefault(0)
	var val int
	switch n {
	case -1:
		val = 7
	case 0:
		val = os.Getppid() % 256
	case 1:
		val = 0
	case 2:
		val = os.Getuid()
	default:
		val = 0
	}
	lv.expr.num, lv.expr.hasNum = val, true
}

// nextPageForward advances the current input slot to its next page,
// replacing the buffer contents, for use as a search's page-continuation
// callback (spec §4.3, §4.7's "N" search-with-page-advance).
func (in *Interp) nextPageForward() bool {
	r := in.in[in.curIn]
	if r == nil {
		return false
	}
	text, ok := r.NextPage()
	if !ok {
		return false
	}
	in.buf.text = []rune(text)
	in.buf.dot = 0
	return true
}

// cmdY runs Y (yank): replaces the buffer with the next page. Fails YCA if
// an output file is open and the buffer is non-empty, unless bit 1 of ed is
// set (spec §4.7).
func (in *Interp) cmdY() {
	if in.out_[in.curOut] != nil && in.buf.end() > 0 && in.flags.ed&2 == 0 {
		raise(YCA)
	}
	in.yank()
}

// cmdEY runs EY: always yanks, bypassing the YCA guard.
func (in *Interp) cmdEY() {
	in.yank()
}

func (in *Interp) yank() {
	r := in.in[in.curIn]
	if r == nil {
		raise(NFI)
	}
	text, ok := r.NextPage()
	if !ok {
		in.buf.clear()
		return
	}
	in.buf.text = []rune(text)
	in.buf.dot = 0
}

// cmdA runs A (append to buffer): reads the next page into the end of the
// buffer without moving dot (spec §4.7).
func (in *Interp) cmdA() {
	r := in.in[in.curIn]
	if r == nil {
		raise(NFI)
	}
	text, ok := r.NextPage()
	if !ok {
		return
	}
	dot := in.buf.dot
	in.buf.text = append(in.buf.text, []rune(text)...)
	in.buf.dot = dot
}

// cmdP runs P (spec §4.7): writes the current page and yanks the next;
// "PW" writes a subrange without advancing; "m,nP" writes [m,n) without
// yanking.
func (in *Interp) cmdP(lv *level) {
	w := in.out_[in.curOut]
	if w == nil {
		raise(NFO)
	}
	if m, n, ok := lv.expr.twoArg(ARG); ok {
		w.WriteString(in.buf.typeRange(m, n))
		return
	}
	n := lv.expr.getArgDefault(1)
	if n <= 0 {
		raise(NPA)
	}
	w.WriteString(in.buf.String())
	for i := 0; i < n; i++ {
		w.WriteString("\f")
		if !in.nextPageForward() {
			break
		}
		if i < n-1 {
			w.WriteString(in.buf.String())
		}
	}
}

// cmdPW runs PW (spec §4.7): writes the buffer without advancing to the
// next page.
func (in *Interp) cmdPW() {
	w := in.out_[in.curOut]
	if w == nil {
		raise(NFO)
	}
	w.WriteString(in.buf.String())
}
