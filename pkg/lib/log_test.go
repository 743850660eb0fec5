package lib

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelInfo)
	l.Debugf("hidden %d", 1)
	l.Infof("loaded %d files", 2)
	l.Warnf("macro %q redefined", "m")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug message should be dropped: %q", out)
	}
	for _, want := range []string{"loaded 2 files", `macro "m" redefined`, "info:", "warn:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}

	buf.Reset()
	l.SetLevel(LevelDebug)
	l.Debugf("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}

func TestLogger_Nil(t *testing.T) {
	var l *Logger
	l.Infof("no panic")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.New("boom"))
	if !strings.Contains(buf.String(), "Error:") || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
