// Package term owns the terminal: raw-mode toggling, non-blocking keyboard
// reads, and cursor/screen escape writes. Everything degrades to a no-op
// when stdin is not a TTY so the rest of the program never has to care.
package term

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

const (
	escClearScreen = "\x1b[2J\x1b[H"
	escHideCursor  = "\x1b[?25l"
	escShowCursor  = "\x1b[?25h"
	escMoveCursor  = "\x1b[%d;%dH" // row;col, 1-based
)

// Terminal wraps an input file and an output writer with raw-mode state.
type Terminal struct {
	in  *os.File
	out io.Writer
	fd  int
	tty bool

	mu    sync.Mutex
	saved *term.State // non-nil only while raw mode is engaged

	once sync.Once
	keys chan byte
}

// New returns a Terminal over stdin/stdout.
func New() *Terminal {
	return NewWithIO(os.Stdin, os.Stdout)
}

// NewWithIO returns a Terminal over explicit descriptors. Tests use a pipe
// for input and a buffer for output.
func NewWithIO(in *os.File, out io.Writer) *Terminal {
	fd := int(in.Fd())
	return &Terminal{
		in:   in,
		out:  out,
		fd:   fd,
		tty:  term.IsTerminal(fd),
		keys: make(chan byte, 64),
	}
}

// IsTerminal reports whether the input descriptor is an interactive TTY.
func (t *Terminal) IsTerminal() bool {
	return t.tty
}

// EnableRaw switches the terminal to raw mode so keystrokes arrive byte by
// byte without echo. On a non-TTY this is a no-op. Callers must pair it
// with DisableRaw on every exit path.
func (t *Terminal) EnableRaw() error {
	if !t.tty {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saved != nil {
		return nil // already raw
	}

	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	t.saved = state
	return nil
}

// DisableRaw restores the terminal mode saved by EnableRaw. It is
// idempotent: only the first call after EnableRaw restores anything, so
// layered defers cannot double-restore.
func (t *Terminal) DisableRaw() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saved == nil {
		return
	}
	_ = term.Restore(t.fd, t.saved)
	t.saved = nil
}

// ReadByte returns the next pending input byte without blocking. The second
// return is false when no byte is ready.
func (t *Terminal) ReadByte() (byte, bool) {
	t.once.Do(func() { go t.pump() })

	select {
	case b, ok := <-t.keys:
		if !ok {
			return 0, false
		}
		return b, true
	default:
		return 0, false
	}
}

// pump moves input bytes onto the keys channel. It exits when the input
// descriptor reports an error (closed pipe, EOF).
func (t *Terminal) pump() {
	buf := make([]byte, 64)
	for {
		n, err := t.in.Read(buf)
		for i := 0; i < n; i++ {
			t.keys <- buf[i]
		}
		if err != nil {
			close(t.keys)
			return
		}
	}
}

// ClearScreen erases the display and homes the cursor.
func (t *Terminal) ClearScreen() {
	fmt.Fprint(t.out, escClearScreen)
}

// MoveCursor positions the cursor at a 1-based row and column.
func (t *Terminal) MoveCursor(row, col int) {
	fmt.Fprintf(t.out, escMoveCursor, row, col)
}

// HideCursor makes the cursor invisible until ShowCursor runs.
func (t *Terminal) HideCursor() {
	fmt.Fprint(t.out, escHideCursor)
}

// ShowCursor makes the cursor visible again.
func (t *Terminal) ShowCursor() {
	fmt.Fprint(t.out, escShowCursor)
}

// Write lets callers send rendered frames through the same writer the
// escape helpers use.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// Size returns the terminal dimensions, falling back to 80x24 when the
// descriptor is not a TTY or cannot report a size.
func (t *Terminal) Size() (width, height int) {
	if t.tty {
		if w, h, err := term.GetSize(t.fd); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return 80, 24
}
