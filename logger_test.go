package ode

import (
	"strings"
	"testing"
)

func TestLoggerBuffersUntilFlush(t *testing.T) {
	var buf strings.Builder
	l := NewLogger(&buf)
	l.Logf("step %d accepted\n", 1)
	if buf.Len() != 0 {
		t.Fatal("Logf must not write before Flush")
	}
	l.Flush()
	if buf.String() != "step 1 accepted\n" {
		t.Errorf("unexpected flushed content: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "accepted") {
		t.Error("expected buffered message to survive flush")
	}
}

func TestLoggerNilSafe(t *testing.T) {
	var l *Logger
	l.Logf("noop")
	l.Flush()
}
