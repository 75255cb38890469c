package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgress_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, false)

	p.Marked("a.txt")
	p.Unmarked("dir/b.log")

	want := "a.txt marked successfully.\ndir/b.log unmarked successfully.\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}

func TestProgress_ColorOutput(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, true)

	p.Marked("a.txt")

	out := buf.String()
	if !strings.Contains(out, "\x1b[32m") {
		t.Errorf("Expected green ANSI code, got %q", out)
	}
	if !strings.HasPrefix(out, "a.txt ") || !strings.HasSuffix(out, " successfully.\n") {
		t.Errorf("Unexpected line %q", out)
	}
}

func TestProgress_NilWriter(t *testing.T) {
	p := NewProgress(nil, true)
	p.Marked("a.txt")

	var nilProgress *Progress
	nilProgress.Unmarked("a.txt")
}
