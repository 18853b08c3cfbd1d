package ode

import (
	"fmt"
	"io"
	"strings"
)

// Logger accumulates messages during a solve and writes them to Output
// once flushed. Generalized from the teacher lineage's Logger
// (logger.go), unchanged in shape since the buffering strategy fits a
// Driver's solve loop just as well as a Simulation's run loop.
type Logger struct {
	Output io.Writer
	buff   strings.Builder
}

// NewLogger builds a Logger writing to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{Output: w}
}

// Logf formats a message into the logger's buffer. Messages are not
// written to Output until Flush is called.
func (l *Logger) Logf(format string, a ...interface{}) {
	if l == nil {
		return
	}
	fmt.Fprintf(&l.buff, format, a...)
}

// Flush writes the buffered messages to Output and resets the buffer.
func (l *Logger) Flush() {
	if l == nil || l.Output == nil {
		return
	}
	l.Output.Write([]byte(l.buff.String()))
	l.buff.Reset()
}
