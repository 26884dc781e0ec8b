package core

import (
	"fmt"
	"strings"
)

// Source identifies a physical or network input on the speaker.
type Source string

const (
	SourceWifi      Source = "wifi"
	SourceBluetooth Source = "bluetooth"
	SourceTV        Source = "tv"
	SourceOptic     Source = "optic"
	SourceCoaxial   Source = "coaxial"
	SourceAnalog    Source = "analog"
	SourceUSB       Source = "usb"

	// SourceStandby is not a selectable input: the speaker reports it while
	// powered down, and writing it powers the speaker off.
	SourceStandby Source = "standby"
)

// Sources lists the selectable inputs in the order the speaker's own UI
// presents them. The source menu and the `source list` command iterate this.
var Sources = []Source{
	SourceWifi,
	SourceBluetooth,
	SourceTV,
	SourceOptic,
	SourceCoaxial,
	SourceAnalog,
	SourceUSB,
}

// ParseSource converts user input into a Source.
func ParseSource(s string) (Source, error) {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Sources {
		if src == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown source %q (valid: %s)", s, SourceNames())
}

// SourceNames returns the selectable sources as a comma-separated string.
func SourceNames() string {
	names := make([]string, len(Sources))
	for i, s := range Sources {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// DisplayName returns a human-readable label for the source.
func (s Source) DisplayName() string {
	switch s {
	case SourceWifi:
		return "Wi-Fi"
	case SourceBluetooth:
		return "Bluetooth"
	case SourceTV:
		return "TV"
	case SourceOptic:
		return "Optical"
	case SourceCoaxial:
		return "Coaxial"
	case SourceAnalog:
		return "Analog"
	case SourceUSB:
		return "USB"
	case SourceStandby:
		return "Standby"
	default:
		return string(s)
	}
}
