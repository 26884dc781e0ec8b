package term

import (
	"bytes"
	"os"
	"testing"
	"time"
)

// pipeTerminal builds a Terminal whose input is the read end of a pipe and
// whose output is an in-memory buffer. Pipes are not TTYs, which is exactly
// the degraded mode under test.
func pipeTerminal(t *testing.T) (*Terminal, *os.File, *bytes.Buffer) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})
	var out bytes.Buffer
	return NewWithIO(r, &out), w, &out
}

func TestRawModeNoTTY(t *testing.T) {
	term, _, _ := pipeTerminal(t)

	if term.IsTerminal() {
		t.Fatal("IsTerminal() = true for a pipe")
	}

	// Raw-mode calls on a non-TTY must be harmless no-ops.
	if err := term.EnableRaw(); err != nil {
		t.Errorf("EnableRaw() error = %v, want nil on non-TTY", err)
	}
	term.DisableRaw()
	term.DisableRaw() // second call must also be safe
}

func TestReadByteNonBlocking(t *testing.T) {
	term, _, _ := pipeTerminal(t)

	start := time.Now()
	if b, ok := term.ReadByte(); ok {
		t.Errorf("ReadByte() = %q, want no byte on empty input", b)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("ReadByte() blocked for %v", elapsed)
	}
}

func TestReadByteDeliversInput(t *testing.T) {
	term, w, _ := pipeTerminal(t)

	if _, err := w.Write([]byte("qm")); err != nil {
		t.Fatalf("pipe write error = %v", err)
	}

	got := readWithDeadline(t, term, 2)
	if string(got) != "qm" {
		t.Errorf("ReadByte() sequence = %q, want %q", got, "qm")
	}

	// Drained: next read reports nothing.
	if b, ok := term.ReadByte(); ok {
		t.Errorf("ReadByte() = %q after drain, want none", b)
	}
}

func TestReadByteAfterClose(t *testing.T) {
	term, w, _ := pipeTerminal(t)

	if _, err := w.Write([]byte{'x'}); err != nil {
		t.Fatalf("pipe write error = %v", err)
	}
	got := readWithDeadline(t, term, 1)
	if string(got) != "x" {
		t.Fatalf("ReadByte() = %q, want %q", got, "x")
	}

	_ = w.Close()

	// After the writer closes, reads must keep returning "no byte" without
	// blocking or panicking.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, ok := term.ReadByte(); !ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEscapeWrites(t *testing.T) {
	term, _, out := pipeTerminal(t)

	term.ClearScreen()
	term.HideCursor()
	term.MoveCursor(3, 7)
	term.ShowCursor()

	want := "\x1b[2J\x1b[H" + "\x1b[?25l" + "\x1b[3;7H" + "\x1b[?25h"
	if got := out.String(); got != want {
		t.Errorf("escape writes = %q, want %q", got, want)
	}
}

func TestSizeFallback(t *testing.T) {
	term, _, _ := pipeTerminal(t)

	w, h := term.Size()
	if w != 80 || h != 24 {
		t.Errorf("Size() = %dx%d, want 80x24 fallback on non-TTY", w, h)
	}
}

func readWithDeadline(t *testing.T, term *Terminal, n int) []byte {
	t.Helper()
	var got []byte
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < n && time.Now().Before(deadline) {
		if b, ok := term.ReadByte(); ok {
			got = append(got, b)
			continue
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(got) < n {
		t.Fatalf("read %d bytes before deadline, want %d", len(got), n)
	}
	return got
}
