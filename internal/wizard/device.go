package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amebalabs/KefirCLI/internal/kef"
)

// Choice is the picker's outcome: either a discovered speaker or a host the
// user typed in. Host is always populated.
type Choice struct {
	Device *kef.Device
	Host   string
	Name   string
}

// ScanFunc performs the network scan the picker runs while showing its
// spinner.
type ScanFunc func(ctx context.Context) ([]*kef.Device, error)

type pickerState int

const (
	pickerScanning pickerState = iota
	pickerList
	pickerManual
)

// Styles for the speaker picker
var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	pickerItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	pickerSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	pickerFoundStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82"))

	pickerDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	pickerErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

type scanDoneMsg struct {
	devices []*kef.Device
	err     error
}

// SpeakerModel is the bubbletea model for the speaker picker. It scans
// first, then offers the results plus a manual host-entry row.
type SpeakerModel struct {
	ctx  context.Context
	scan ScanFunc

	state   pickerState
	spinner spinner.Model
	input   textinput.Model
	devices []*kef.Device
	scanErr error
	cursor  int
	choice  *Choice
	width   int
	height  int
}

// NewSpeakerModel creates a picker that runs scan during its spinner phase.
func NewSpeakerModel(ctx context.Context, scan ScanFunc) SpeakerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = pickerTitleStyle

	ti := textinput.New()
	ti.Placeholder = "192.168.1.42 or speaker.local"
	ti.CharLimit = 100
	ti.Width = 40

	return SpeakerModel{
		ctx:     ctx,
		scan:    scan,
		state:   pickerScanning,
		spinner: sp,
		input:   ti,
		width:   80,
		height:  20,
	}
}

// Init starts the spinner and the scan.
func (m SpeakerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runScan())
}

func (m SpeakerModel) runScan() tea.Cmd {
	return func() tea.Msg {
		devices, err := m.scan(m.ctx)
		return scanDoneMsg{devices: devices, err: err}
	}
}

// Update handles messages.
func (m SpeakerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanDoneMsg:
		m.devices = msg.devices
		m.scanErr = msg.err
		m.state = pickerList
		if len(m.devices) == 0 {
			// Nothing found: jump straight to manual entry.
			m.state = pickerManual
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != pickerScanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m SpeakerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case pickerScanning:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		}
		return m, nil

	case pickerManual:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if len(m.devices) > 0 {
				m.state = pickerList
				m.input.Blur()
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			host := strings.TrimSpace(m.input.Value())
			if host == "" {
				return m, nil
			}
			m.choice = &Choice{Host: host}
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	default: // pickerList
		// The row after the last device is "enter host manually".
		last := len(m.devices)

		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "enter", " ":
			if m.cursor < len(m.devices) {
				d := m.devices[m.cursor]
				m.choice = &Choice{Device: d, Host: d.IP, Name: d.Name}
				return m, tea.Quit
			}
			m.state = pickerManual
			m.input.Focus()
			return m, textinput.Blink

		case "up", "k", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j", "ctrl+n":
			if m.cursor < last {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			m.cursor = last
		}
		return m, nil
	}
}

// View renders the model.
func (m SpeakerModel) View() string {
	var b strings.Builder

	b.WriteString(pickerTitleStyle.Render("🔊 Add a KEF speaker"))
	b.WriteString("\n\n")

	switch m.state {
	case pickerScanning:
		b.WriteString(m.spinner.View())
		b.WriteString(" Scanning the network for speakers...")
		b.WriteString("\n\n")
		b.WriteString(pickerDimStyle.Render("esc cancel"))

	case pickerManual:
		b.WriteString("Speaker address:\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		if m.scanErr != nil {
			b.WriteString(pickerErrStyle.Render("scan failed: " + m.scanErr.Error()))
			b.WriteString("\n")
		} else if len(m.devices) == 0 {
			b.WriteString(pickerDimStyle.Render("No speakers found on the network."))
			b.WriteString("\n")
		}
		b.WriteString(pickerDimStyle.Render("enter confirm • esc back"))

	default:
		for i, d := range m.devices {
			line := pickerFoundStyle.Render("● ") + d.Name
			if d.Model != "" {
				line += " " + pickerDimStyle.Render("("+d.Model+")")
			}
			line += pickerDimStyle.Render(" - " + d.IP)
			b.WriteString(m.renderRow(i, line))
		}
		b.WriteString(m.renderRow(len(m.devices), pickerDimStyle.Render("○ ")+"Enter host manually..."))

		b.WriteString("\n")
		b.WriteString(pickerDimStyle.Render(fmt.Sprintf("%d found • ↑/↓ navigate • enter select • esc quit", len(m.devices))))
	}

	return b.String()
}

func (m SpeakerModel) renderRow(i int, line string) string {
	if i == m.cursor {
		return pickerSelectedStyle.Render("▸ "+line) + "\n"
	}
	return pickerItemStyle.Render("  "+line) + "\n"
}

// Choice returns the selection, or nil when the picker was cancelled.
func (m SpeakerModel) Choice() *Choice {
	return m.choice
}

// RunSpeakerPicker scans for speakers and lets the user pick one or type a
// host. A nil Choice with a nil error means the user cancelled.
func RunSpeakerPicker(ctx context.Context, scan ScanFunc) (*Choice, error) {
	model := NewSpeakerModel(ctx, scan)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(SpeakerModel).Choice(), nil
}
