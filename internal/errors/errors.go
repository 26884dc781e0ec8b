package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrNoSpeakers         = errors.New("no speakers configured")
	ErrSpeakerNotFound    = errors.New("speaker not found")
	ErrNoDefaultSpeaker   = errors.New("no default speaker set")
	ErrSpeakerUnreachable = errors.New("speaker unreachable")
	ErrSpeakerStandby     = errors.New("speaker is in standby")
	ErrInvalidSource      = errors.New("invalid source")
	ErrNotPlaying         = errors.New("nothing is playing")
	ErrNetworkError       = errors.New("network error")
	ErrTimeout            = errors.New("request timeout")
	ErrConfigNotFound     = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// KefirError wraps an error with a user-friendly suggestion.
type KefirError struct {
	Err        error
	Suggestion string
}

func (e *KefirError) Error() string {
	return e.Err.Error()
}

func (e *KefirError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &KefirError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's already a KefirError with suggestion
	var kefirErr *KefirError
	if errors.As(err, &kefirErr) && kefirErr.Suggestion != "" {
		return kefirErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Profile errors
	if errors.Is(err, ErrNoSpeakers) || strings.Contains(errStr, "no speakers configured") {
		return "Run 'kefirctl setup' to discover and add a speaker"
	}

	if errors.Is(err, ErrSpeakerNotFound) || strings.Contains(errStr, "speaker not found") {
		return "Run 'kefirctl speakers list' to see configured speakers"
	}

	if errors.Is(err, ErrNoDefaultSpeaker) {
		return "Run 'kefirctl speakers default <name>' or pass --speaker"
	}

	// Power errors
	if errors.Is(err, ErrSpeakerStandby) || strings.Contains(errStr, "standby") {
		return "Run 'kefirctl power on' to wake the speaker"
	}

	// Source errors
	if errors.Is(err, ErrInvalidSource) || strings.Contains(errStr, "unknown source") {
		return "Run 'kefirctl source list' to see valid sources"
	}

	if errors.Is(err, ErrNotPlaying) {
		return "Start playback from the KEF Connect app or a streaming source"
	}

	// Network errors
	if errors.Is(err, ErrSpeakerUnreachable) || errors.Is(err, ErrNetworkError) ||
		errors.Is(err, ErrTimeout) || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no route to host") {
		return "Check that the speaker is powered and on the same network; 'kefirctl discover' rescans"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || strings.Contains(errStr, "config") {
		return "Run 'kefirctl config init' to create a configuration file"
	}

	// Server errors
	if strings.Contains(errStr, "500") || strings.Contains(errStr, "server error") {
		return "The speaker's firmware refused the request. Try again in a moment"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
