package pageio

import (
	"os"
	"strings"
)

const ff = '\f'

// Reader reads a paged input file: its content split on form-feed into an
// ordered list of page texts, consumed one at a time by NextPage. It
// implements the "Paged input stream" data model of spec §3, grounded on
// the original's inputstream.open/readpage (teco.py).
type Reader struct {
	name   string
	pages  []string
	ffflag bool
	eoflag bool
}

// Open reads name whole and splits it on form-feed. No page has been
// consumed yet; call NextPage to get the first one. Matches the original's
// eager read-whole-file-then-split behavior rather than streaming, since a
// TECO input file's pages must be seekable by repeated EB/ER.
func Open(name string) (*Reader, error) {
	name = expandUser(name)
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return &Reader{
		name:  name,
		pages: strings.Split(string(data), string(ff)),
	}, nil
}

// NextPage consumes and returns the next page's text. ok is false once all
// pages have been consumed, matching the original's readpage() returning
// ("", 0) past end of file.
func (r *Reader) NextPage() (text string, ok bool) {
	if len(r.pages) == 0 {
		r.ffflag = false
		r.eoflag = true
		return "", false
	}
	text, r.pages = r.pages[0], r.pages[1:]
	r.ffflag = len(r.pages) > 0
	r.eoflag = !r.ffflag
	return text, true
}

// FF reports whether an unread page remains after the last NextPage call.
func (r *Reader) FF() bool { return r.ffflag }

// EOF reports whether the last page has been consumed.
func (r *Reader) EOF() bool { return r.eoflag }

// Name returns the path the reader was opened from.
func (r *Reader) Name() string { return r.name }

// Close is a no-op: Open already read the whole file, so there is no
// descriptor left to release.
func (r *Reader) Close() error { return nil }
