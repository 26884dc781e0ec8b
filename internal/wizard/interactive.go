// Package wizard implements the interactive first-run setup: scan the
// network for speakers, pick one (or type a host), name it, and save the
// profile.
package wizard

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true when the wizard's prompts can actually be shown.
// Piped or redirected output means callers should fail with instructions
// instead of blocking on an invisible prompt.
func CanInteract() bool {
	return IsTerminal()
}
