// Package logio implements the small leveled logger the command-line front
// end and the interpreter's own "trace" flag (spec §4.10) both write
// through: one mutex-guarded buffer, flushed a line at a time, so that
// interleaved writes from the main loop and from a live watch-display
// refresh never tear a line in half.
package logio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Logger is a leveled logging facility around a closable output stream.
type Logger struct {
	sync.Mutex
	output   io.WriteCloser
	buf      bytes.Buffer
	exitCode int
}

// SetOutput sets the logger's output stream, closing any prior one.
func (log *Logger) SetOutput(out io.WriteCloser) {
	log.Lock()
	defer log.Unlock()
	if log.output != nil {
		log.output.Close()
	}
	log.output = out
}

// ExitCode returns a code suitable for os.Exit: non-zero if any error was
// ever logged.
func (log *Logger) ExitCode() int {
	log.Lock()
	defer log.Unlock()
	return log.exitCode
}

// Close closes the output stream.
func (log *Logger) Close() error {
	log.Lock()
	defer log.Unlock()
	if log.output == nil {
		return nil
	}
	return log.output.Close()
}

// Leveledf returns a printf-style function that logs at the given level.
func (log *Logger) Leveledf(level string) func(mess string, args ...interface{}) {
	return func(mess string, args ...interface{}) { log.Printf(level, mess, args...) }
}

// ErrorIf logs a non-nil error at ERROR level and marks the exit code.
func (log *Logger) ErrorIf(err error) {
	if err != nil {
		log.Errorf("%v", err)
	}
}

// Errorf logs at ERROR level and marks ExitCode() non-zero.
func (log *Logger) Errorf(mess string, args ...interface{}) {
	log.Lock()
	defer log.Unlock()
	log.printf("ERROR", mess, args...)
	log.exitCode = 1
}

// Printf prints a line to the output stream like "LEVEL: message...\n".
func (log *Logger) Printf(level, mess string, args ...interface{}) {
	log.Lock()
	defer log.Unlock()
	log.printf(level, mess, args...)
}

func (log *Logger) printf(level, mess string, args ...interface{}) {
	if level != "" {
		log.buf.WriteString(level)
		log.buf.WriteString(": ")
	}
	if len(args) > 0 {
		fmt.Fprintf(&log.buf, mess, args...)
	} else {
		log.buf.WriteString(mess)
	}
	if b := log.buf.Bytes(); len(b) > 0 && b[len(b)-1] != '\n' {
		log.buf.WriteByte('\n')
	}
	if log.output != nil {
		log.buf.WriteTo(log.output)
	} else {
		log.buf.Reset()
	}
}
