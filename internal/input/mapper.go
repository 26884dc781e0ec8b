// Package input decodes raw terminal bytes into semantic commands. Escape
// sequences arrive one byte at a time, so the decoder is a small state
// machine fed by the read loop.
package input

// Command is a semantic action decoded from keyboard input.
type Command string

const (
	CmdVolumeUp       Command = "volumeUp"
	CmdVolumeDown     Command = "volumeDown"
	CmdVolumeUpFine   Command = "volumeUpFine"
	CmdVolumeDownFine Command = "volumeDownFine"
	CmdToggleMute     Command = "toggleMute"
	CmdPlayPause      Command = "playPause"
	CmdNext           Command = "next"
	CmdPrevious       Command = "previous"
	CmdChangeSource   Command = "changeSource"
	CmdPowerToggle    Command = "powerToggle"
	CmdRefresh        Command = "refresh"
	CmdHelp           Command = "help"
	CmdQuit           Command = "quit"
)

const (
	keyEscape byte = 0x1b
	keyCtrlC  byte = 0x03 // ETX
)

type state int

const (
	stateGround state = iota
	stateEscape       // saw ESC, expecting '['
	stateCSI          // inside ESC[..., accumulating parameter bytes
)

// Mapper turns a byte stream into commands. Feed it one byte at a time; it
// reports a command only when a complete mapping is recognized. Unrecognized
// escape continuations are consumed and dropped without error.
type Mapper struct {
	state  state
	params []byte
}

// NewMapper returns a Mapper in its ground state.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Reset drops any partially consumed escape sequence. The interactive loop
// calls this on phase changes so half-typed sequences cannot leak across a
// modal boundary.
func (m *Mapper) Reset() {
	m.state = stateGround
	m.params = m.params[:0]
}

// Feed consumes one input byte. The boolean is true when the byte completed
// a recognized command.
func (m *Mapper) Feed(b byte) (Command, bool) {
	switch m.state {
	case stateEscape:
		if b == '[' {
			m.state = stateCSI
			m.params = m.params[:0]
			return "", false
		}
		// ESC followed by anything else is not a sequence we know; the
		// byte is consumed as part of the discarded sequence.
		m.state = stateGround
		return "", false

	case stateCSI:
		// CSI bodies are parameter bytes (0x30-0x3F) and intermediate
		// bytes (0x20-0x2F); the first byte in 0x40-0x7E terminates the
		// sequence.
		if b >= 0x30 && b <= 0x3f || b >= 0x20 && b <= 0x2f {
			m.params = append(m.params, b)
			return "", false
		}
		m.state = stateGround
		if b >= 0x40 && b <= 0x7e {
			return m.finishCSI(b)
		}
		return "", false

	default:
		if b == keyEscape {
			m.state = stateEscape
			return "", false
		}
		return plainKey(b)
	}
}

// finishCSI maps a completed ESC[ sequence to a command.
func (m *Mapper) finishCSI(final byte) (Command, bool) {
	switch string(m.params) {
	case "":
		switch final {
		case 'A':
			return CmdVolumeUp, true
		case 'B':
			return CmdVolumeDown, true
		case 'C':
			return CmdNext, true
		case 'D':
			return CmdPrevious, true
		}
	case "1;2": // shift-modified arrows
		switch final {
		case 'A':
			return CmdVolumeUpFine, true
		case 'B':
			return CmdVolumeDownFine, true
		}
	}
	return "", false
}

// plainKey maps a single non-escape byte, case-insensitively.
func plainKey(b byte) (Command, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}

	switch b {
	case ' ':
		return CmdPlayPause, true
	case 'm':
		return CmdToggleMute, true
	case 's':
		return CmdChangeSource, true
	case 'p':
		return CmdPowerToggle, true
	case 'r':
		return CmdRefresh, true
	case 'h', '?':
		return CmdHelp, true
	case 'q', keyCtrlC:
		return CmdQuit, true
	case '+', '=':
		return CmdVolumeUp, true
	case '-', '_':
		return CmdVolumeDown, true
	}
	return "", false
}
