package kef

import "github.com/amebalabs/KefirCLI/internal/core"

// Value is the typed envelope the speaker wraps every datum in. The Type
// field names which of the payload fields is populated.
type Value struct {
	Type           string  `json:"type"`
	I32            *int    `json:"i32_,omitempty"`
	I64            *int64  `json:"i64_,omitempty"`
	Bool           *bool   `json:"bool_,omitempty"`
	String         *string `json:"string_,omitempty"`
	PhysicalSource *string `json:"kefPhysicalSource,omitempty"`
	SpeakerStatus  *string `json:"kefSpeakerStatus,omitempty"`
}

// IntValue wraps an int for writing.
func IntValue(v int) Value {
	return Value{Type: "i32_", I32: &v}
}

// BoolValue wraps a bool for writing.
func BoolValue(v bool) Value {
	return Value{Type: "bool_", Bool: &v}
}

// SourceValue wraps a physical source for writing.
func SourceValue(s core.Source) Value {
	v := string(s)
	return Value{Type: "kefPhysicalSource", PhysicalSource: &v}
}

// Int extracts an i32 payload.
func (v Value) Int() (int, bool) {
	if v.I32 == nil {
		return 0, false
	}
	return *v.I32, true
}

// Int64 extracts an i64 payload.
func (v Value) Int64() (int64, bool) {
	if v.I64 == nil {
		return 0, false
	}
	return *v.I64, true
}

// Boolean extracts a bool payload.
func (v Value) Boolean() (bool, bool) {
	if v.Bool == nil {
		return false, false
	}
	return *v.Bool, true
}

// Source extracts a physical-source payload.
func (v Value) Source() (core.Source, bool) {
	if v.PhysicalSource == nil {
		return "", false
	}
	return core.Source(*v.PhysicalSource), true
}

// Status extracts a speaker-status payload.
func (v Value) Status() (string, bool) {
	if v.SpeakerStatus == nil {
		return "", false
	}
	return *v.SpeakerStatus, true
}
