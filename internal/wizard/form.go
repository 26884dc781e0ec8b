package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// Profile holds the answers from the naming form.
type Profile struct {
	Name    string
	Default bool
}

// RunProfileForm asks for the speaker's name and whether it becomes the
// default. suggested seeds the name field. When firstSpeaker is true the
// default question is skipped: the first profile is always the default.
func RunProfileForm(suggested string, firstSpeaker bool) (Profile, error) {
	p := Profile{Name: suggested, Default: firstSpeaker}

	fields := []huh.Field{
		huh.NewInput().
			Title("Speaker name").
			Description("How this speaker appears in lists and prompts").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("name cannot be empty")
				}
				return nil
			}).
			Value(&p.Name),
	}
	if !firstSpeaker {
		fields = append(fields, huh.NewConfirm().
			Title("Make this the default speaker?").
			Value(&p.Default))
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return Profile{}, fmt.Errorf("setup cancelled: %w", err)
	}

	p.Name = strings.TrimSpace(p.Name)
	return p, nil
}
