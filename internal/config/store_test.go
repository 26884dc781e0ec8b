package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	kefirerr "github.com/amebalabs/KefirCLI/internal/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "speakers.json"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestStoreAddSpeaker(t *testing.T) {
	store := newTestStore(t)

	sp, err := store.AddSpeaker("Living Room", "10.0.0.93", false)
	if err != nil {
		t.Fatalf("AddSpeaker() error = %v", err)
	}
	if sp.ID == "" {
		t.Error("AddSpeaker() returned empty ID")
	}
	if !sp.IsDefault {
		t.Error("first speaker should become default even without the flag")
	}

	// Duplicate names are rejected, case-insensitively.
	if _, err := store.AddSpeaker("living room", "10.0.0.94", false); err == nil {
		t.Error("AddSpeaker() with duplicate name succeeded, want error")
	}

	// File permissions are owner-only.
	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("file permissions = %o, want 0600", mode)
	}
}

func TestStoreSingleDefaultInvariant(t *testing.T) {
	store := newTestStore(t)

	a, _ := store.AddSpeaker("Alpha", "10.0.0.1", false)
	b, _ := store.AddSpeaker("Beta", "10.0.0.2", false)
	c, _ := store.AddSpeaker("Gamma", "10.0.0.3", true)
	_ = a

	countDefaults := func() (int, string) {
		speakers, err := store.Speakers()
		if err != nil {
			t.Fatalf("Speakers() error = %v", err)
		}
		n, id := 0, ""
		for _, sp := range speakers {
			if sp.IsDefault {
				n++
				id = sp.ID
			}
		}
		return n, id
	}

	if n, id := countDefaults(); n != 1 || id != c.ID {
		t.Fatalf("after add with default: %d defaults (id %s), want exactly Gamma", n, id)
	}

	if _, err := store.SetDefaultSpeaker(b.ID); err != nil {
		t.Fatalf("SetDefaultSpeaker() error = %v", err)
	}
	if n, id := countDefaults(); n != 1 || id != b.ID {
		t.Fatalf("after SetDefaultSpeaker: %d defaults (id %s), want exactly Beta", n, id)
	}

	// The invariant survives a reload from disk.
	reloaded, err := NewStore(store.Path())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	def, err := reloaded.DefaultSpeaker()
	if err != nil {
		t.Fatalf("DefaultSpeaker() error = %v", err)
	}
	if def.ID != b.ID {
		t.Errorf("DefaultSpeaker() = %s, want %s", def.Name, "Beta")
	}
}

func TestStoreLookup(t *testing.T) {
	store := newTestStore(t)
	added, _ := store.AddSpeaker("Office", "kef-office.local", false)

	tests := []struct {
		name       string
		identifier string
		wantErr    bool
	}{
		{"by id", added.ID, false},
		{"by name", "Office", false},
		{"by name case-insensitive", "office", false},
		{"by host", "kef-office.local", false},
		{"unknown", "garage", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := store.Speaker(tt.identifier)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Speaker(%q) error = %v, wantErr %v", tt.identifier, err, tt.wantErr)
			}
			if !tt.wantErr && sp.ID != added.ID {
				t.Errorf("Speaker(%q).ID = %s, want %s", tt.identifier, sp.ID, added.ID)
			}
			if tt.wantErr && !errors.Is(err, kefirerr.ErrSpeakerNotFound) {
				t.Errorf("error = %v, want ErrSpeakerNotFound", err)
			}
		})
	}
}

func TestStoreRemoveSpeaker(t *testing.T) {
	store := newTestStore(t)
	a, _ := store.AddSpeaker("Alpha", "10.0.0.1", true)
	b, _ := store.AddSpeaker("Beta", "10.0.0.2", false)

	if err := store.RemoveSpeaker(a.ID); err != nil {
		t.Fatalf("RemoveSpeaker() error = %v", err)
	}

	// Removing the default promotes the survivor.
	def, err := store.DefaultSpeaker()
	if err != nil {
		t.Fatalf("DefaultSpeaker() error = %v", err)
	}
	if def.ID != b.ID {
		t.Errorf("DefaultSpeaker() = %s, want Beta", def.Name)
	}

	if err := store.RemoveSpeaker("nope"); err == nil {
		t.Error("RemoveSpeaker(unknown) succeeded, want error")
	}
}

func TestStoreEmpty(t *testing.T) {
	store := newTestStore(t)

	speakers, err := store.Speakers()
	if err != nil {
		t.Fatalf("Speakers() error = %v", err)
	}
	if len(speakers) != 0 {
		t.Errorf("Speakers() = %d entries, want 0", len(speakers))
	}

	if _, err := store.DefaultSpeaker(); !errors.Is(err, kefirerr.ErrNoSpeakers) {
		t.Errorf("DefaultSpeaker() error = %v, want ErrNoSpeakers", err)
	}
	if _, err := store.Speaker("any"); !errors.Is(err, kefirerr.ErrNoSpeakers) {
		t.Errorf("Speaker() error = %v, want ErrNoSpeakers", err)
	}
}

func TestStoreUpdateLastSeen(t *testing.T) {
	store := newTestStore(t)
	sp, _ := store.AddSpeaker("Alpha", "10.0.0.1", false)
	before := sp.LastSeen

	if err := store.UpdateLastSeen(sp.ID); err != nil {
		t.Fatalf("UpdateLastSeen() error = %v", err)
	}

	got, err := store.Speaker(sp.ID)
	if err != nil {
		t.Fatalf("Speaker() error = %v", err)
	}
	if got.LastSeen.Before(before) {
		t.Errorf("LastSeen went backwards: %v -> %v", before, got.LastSeen)
	}
}

func TestStoreTheme(t *testing.T) {
	store := newTestStore(t)

	// Unset until first update.
	_, ok, err := store.Theme()
	if err != nil {
		t.Fatalf("Theme() error = %v", err)
	}
	if ok {
		t.Error("Theme() ok = true for fresh store, want false")
	}

	f := false
	theme, err := store.UpdateTheme(&f, nil)
	if err != nil {
		t.Fatalf("UpdateTheme() error = %v", err)
	}
	if theme.Colors {
		t.Error("Colors = true after disabling, want false")
	}
	if !theme.Emojis {
		t.Error("Emojis = false, want untouched default true")
	}

	// Partial update leaves the other field alone.
	theme, err = store.UpdateTheme(nil, &f)
	if err != nil {
		t.Fatalf("UpdateTheme() error = %v", err)
	}
	if theme.Colors || theme.Emojis {
		t.Errorf("theme = %+v, want both false", theme)
	}

	// Persisted across reload.
	reloaded, _ := NewStore(store.Path())
	got, ok, err := reloaded.Theme()
	if err != nil || !ok {
		t.Fatalf("Theme() after reload = %v, %v, %v", got, ok, err)
	}
	if got.Colors || got.Emojis {
		t.Errorf("reloaded theme = %+v, want both false", got)
	}
}
