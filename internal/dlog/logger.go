// Package dlog is a small diagnostic logger used by the cmd/ CLIs. It is
// not part of the bsondoc library surface.
package dlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Verbosity levels.
const (
	Always = iota
	Info
	DebugLow
	DebugHigh
)

const timeFormat = "2006-01-02T15:04:05.000-0700"

// Logger is a mutex-guarded writer with an integer verbosity gate.
type Logger struct {
	mutex     *sync.Mutex
	writer    io.Writer
	format    string
	verbosity int
}

// New returns a Logger writing to os.Stderr at the given verbosity.
func New(verbosity int) *Logger {
	return &Logger{
		mutex:     &sync.Mutex{},
		writer:    os.Stderr,
		format:    timeFormat,
		verbosity: verbosity,
	}
}

func (l *Logger) SetVerbosity(v int) {
	l.verbosity = v
}

func (l *Logger) SetWriter(w io.Writer) {
	l.writer = w
}

func (l *Logger) SetDateFormat(dateFormat string) {
	l.format = dateFormat
}

func (l *Logger) Logf(minVerb int, format string, a ...interface{}) {
	if minVerb < 0 {
		panic("cannot set a minimum log verbosity that is less than 0")
	}
	if minVerb <= l.verbosity {
		l.mutex.Lock()
		defer l.mutex.Unlock()
		l.log(fmt.Sprintf(format, a...))
	}
}

func (l *Logger) Log(minVerb int, msg string) {
	if minVerb < 0 {
		panic("cannot set a minimum log verbosity that is less than 0")
	}
	if minVerb <= l.verbosity {
		l.mutex.Lock()
		defer l.mutex.Unlock()
		l.log(msg)
	}
}

func (l *Logger) log(msg string) {
	fmt.Fprintf(l.writer, "%v\t%v\n", time.Now().Format(l.format), msg)
}

// logWriter adapts a Logger to io.Writer at a fixed verbosity.
type logWriter struct {
	logger       *Logger
	minVerbosity int
}

func (lw *logWriter) Write(message []byte) (int, error) {
	lw.logger.Log(lw.minVerbosity, string(message))
	return len(message), nil
}

// Writer returns an io.Writer that writes to the logger at the given verbosity.
func (l *Logger) Writer(minVerb int) io.Writer {
	return &logWriter{l, minVerb}
}

//// Global default logger, mirroring the teacher's package-level convenience functions.

var global = New(0)

func Logf(minVerb int, format string, a ...interface{}) { global.Logf(minVerb, format, a...) }
func Log(minVerb int, msg string)                       { global.Log(minVerb, msg) }
func SetVerbosity(v int)                                { global.SetVerbosity(v) }
func SetWriter(w io.Writer)                              { global.SetWriter(w) }
func SetDateFormat(dateFormat string)                   { global.SetDateFormat(dateFormat) }
func Writer(minVerb int) io.Writer                      { return global.Writer(minVerb) }
