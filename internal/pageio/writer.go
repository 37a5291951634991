package pageio

import (
	"os"
	"path/filepath"
	"strings"
)

// Writer builds a paged output file: pages are written to a temporary file
// created alongside the destination, and only land at the destination name
// when Promote (or PromoteWithBackup) succeeds. Discard removes the
// temporary without ever touching the destination. This is the "Paged
// output stream" data model of spec §3, grounded on the original's
// outputstream.open (teco.py), which puts the temp file in the destination
// directory "so we don't end up with cross-mountpath issues."
type Writer struct {
	tmp       *os.File
	finalName string
}

// Create opens a temporary file in the same directory as finalName.
func Create(finalName string) (*Writer, error) {
	finalName = expandUser(finalName)
	dir := filepath.Dir(finalName)
	tmp, err := os.CreateTemp(dir, ".teco")
	if err != nil {
		return nil, err
	}
	return &Writer{tmp: tmp, finalName: finalName}, nil
}

// Name returns the pending final name.
func (w *Writer) Name() string { return w.finalName }

// WriteString writes page text to the temporary file, collapsing any CRLF
// to a bare line-feed: spec §3's file format writes only line-feed on
// output even though CRLF is preserved on read.
func (w *Writer) WriteString(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	_, err := w.tmp.WriteString(s)
	return err
}

// Promote closes the temporary file and renames it to the final name.
func (w *Writer) Promote() error {
	if err := w.tmp.Close(); err != nil {
		return err
	}
	return os.Rename(w.tmp.Name(), w.finalName)
}

// PromoteWithBackup closes the temporary file, renames any existing file at
// the final name to finalName+"~", then renames the temporary into its
// place. This backs EB's "open for both input and output, and on close
// rename the original to fn~" semantics.
func (w *Writer) PromoteWithBackup() error {
	if err := w.tmp.Close(); err != nil {
		return err
	}
	if _, err := os.Stat(w.finalName); err == nil {
		if err := os.Rename(w.finalName, w.finalName+"~"); err != nil {
			return err
		}
	}
	return os.Rename(w.tmp.Name(), w.finalName)
}

// Discard closes and removes the temporary file without promoting it,
// backing EK.
func (w *Writer) Discard() error {
	name := w.tmp.Name()
	closeErr := w.tmp.Close()
	if err := os.Remove(name); err != nil && closeErr == nil {
		closeErr = err
	}
	return closeErr
}
