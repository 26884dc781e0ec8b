package cli

import (
	"os"

	"github.com/amebalabs/KefirCLI/internal/config"
	"github.com/amebalabs/KefirCLI/internal/kef"
	"github.com/amebalabs/KefirCLI/internal/render"
)

// speakerEnv overrides the default profile without touching the store.
const speakerEnv = "KEFIRCLI_SPEAKER"

// resolveSpeaker picks the speaker a control command targets. Resolution
// order: --speaker flag, $KEFIRCLI_SPEAKER, then the default profile. The
// returned profile is nil when the identifier was a raw host with no
// matching profile.
func resolveSpeaker() (*kef.Speaker, *config.Speaker, error) {
	identifier := speakerArg
	if identifier == "" {
		identifier = os.Getenv(speakerEnv)
	}

	if identifier == "" {
		profile, err := store.DefaultSpeaker()
		if err != nil {
			return nil, nil, err
		}
		return newSpeaker(profile.Host), &profile, nil
	}

	// The identifier may name a profile, or be a bare host/IP.
	if profile, err := store.Speaker(identifier); err == nil {
		return newSpeaker(profile.Host), &profile, nil
	}
	return newSpeaker(identifier), nil, nil
}

func newSpeaker(host string) *kef.Speaker {
	sp := kef.NewSpeaker(host)
	sp.Client().SetTimeout(cfg.Timeout())
	return sp
}

// touchLastSeen records a successful interaction with a profiled speaker.
// Best effort: a store write failure never fails the command that worked.
func touchLastSeen(profile *config.Speaker) {
	if profile == nil {
		return
	}
	_ = store.UpdateLastSeen(profile.ID)
}

// renderConfig merges the persisted theme over the config file's defaults.
func renderConfig() render.Config {
	rc := render.Config{Colors: cfg.UI.Colors, Emojis: cfg.UI.Emojis}
	if theme, ok, err := store.Theme(); err == nil && ok {
		rc.Colors = theme.Colors
		rc.Emojis = theme.Emojis
	}
	return rc
}

// speakerLabel names the target for human output.
func speakerLabel(profile *config.Speaker, sp *kef.Speaker) string {
	if profile != nil && profile.Name != "" {
		return profile.Name
	}
	return sp.Host()
}
