package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	kefirerr "github.com/amebalabs/KefirCLI/internal/errors"
)

// DefaultStoreFileName is the profile store file under the config directory.
const DefaultStoreFileName = "speakers.json"

// Speaker is a saved speaker profile.
type Speaker struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Host      string    `json:"host"`
	IsDefault bool      `json:"is_default"`
	LastSeen  time.Time `json:"last_seen"`
}

// Theme is the persisted display preference.
type Theme struct {
	Colors bool `json:"colors"`
	Emojis bool `json:"emojis"`
}

// storeFile is the on-disk shape of speakers.json.
type storeFile struct {
	Speakers []Speaker `json:"speakers"`
	Theme    *Theme    `json:"theme,omitempty"`
}

// Store persists speaker profiles and the theme to a JSON file. Every
// mutating call rewrites the whole file, which keeps the single-default
// invariant atomic: clearing old defaults and setting the new one land in
// one write.
type Store struct {
	path string

	mu     sync.Mutex
	data   storeFile
	loaded bool
}

// NewStore creates a store at the specified path. An empty path uses the
// default location under the user config directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, DefaultStoreFileName)
	}
	return &Store{path: path}, nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// load reads the file once. A missing file is an empty store.
func (s *Store) load() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("read speaker store: %w", err)
	}

	if err := json.Unmarshal(data, &s.data); err != nil {
		return fmt.Errorf("parse speaker store: %w", err)
	}
	s.loaded = true
	return nil
}

// save writes the store with owner-only permissions.
func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode speaker store: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write speaker store: %w", err)
	}
	return nil
}

// Speakers returns all profiles, default first, then by name.
func (s *Store) Speakers() ([]Speaker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}

	out := make([]Speaker, len(s.data.Speakers))
	copy(out, s.data.Speakers)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// AddSpeaker saves a new profile. The first speaker added becomes the
// default regardless of makeDefault; an explicit makeDefault clears the flag
// on every other profile in the same save.
func (s *Store) AddSpeaker(name, host string, makeDefault bool) (Speaker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return Speaker{}, err
	}

	name = strings.TrimSpace(name)
	host = strings.TrimSpace(host)
	if name == "" {
		return Speaker{}, fmt.Errorf("speaker name must not be empty")
	}
	if host == "" {
		return Speaker{}, fmt.Errorf("speaker host must not be empty")
	}
	for _, sp := range s.data.Speakers {
		if strings.EqualFold(sp.Name, name) {
			return Speaker{}, fmt.Errorf("speaker %q already exists", name)
		}
	}

	if len(s.data.Speakers) == 0 {
		makeDefault = true
	}

	speaker := Speaker{
		ID:        uuid.NewString(),
		Name:      name,
		Host:      host,
		IsDefault: makeDefault,
		LastSeen:  time.Now(),
	}

	if makeDefault {
		for i := range s.data.Speakers {
			s.data.Speakers[i].IsDefault = false
		}
	}
	s.data.Speakers = append(s.data.Speakers, speaker)

	if err := s.save(); err != nil {
		return Speaker{}, err
	}
	return speaker, nil
}

// RemoveSpeaker deletes a profile by id, name, or host. Removing the default
// promotes the first remaining profile so a default always exists while any
// profile does.
func (s *Store) RemoveSpeaker(identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}

	idx := s.find(identifier)
	if idx < 0 {
		return kefirerr.WithSuggestion(
			fmt.Errorf("%w: %q", kefirerr.ErrSpeakerNotFound, identifier),
			"Run 'kefirctl speakers list' to see configured speakers")
	}

	wasDefault := s.data.Speakers[idx].IsDefault
	s.data.Speakers = append(s.data.Speakers[:idx], s.data.Speakers[idx+1:]...)
	if wasDefault && len(s.data.Speakers) > 0 {
		s.data.Speakers[0].IsDefault = true
	}

	return s.save()
}

// Speaker looks up a profile by id, name, or host.
func (s *Store) Speaker(identifier string) (Speaker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return Speaker{}, err
	}

	if len(s.data.Speakers) == 0 {
		return Speaker{}, kefirerr.ErrNoSpeakers
	}
	idx := s.find(identifier)
	if idx < 0 {
		return Speaker{}, fmt.Errorf("%w: %q", kefirerr.ErrSpeakerNotFound, identifier)
	}
	return s.data.Speakers[idx], nil
}

// DefaultSpeaker returns the profile marked default.
func (s *Store) DefaultSpeaker() (Speaker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return Speaker{}, err
	}

	if len(s.data.Speakers) == 0 {
		return Speaker{}, kefirerr.ErrNoSpeakers
	}
	for _, sp := range s.data.Speakers {
		if sp.IsDefault {
			return sp, nil
		}
	}
	return Speaker{}, kefirerr.ErrNoDefaultSpeaker
}

// SetDefaultSpeaker marks one profile default and clears all others within
// the same save.
func (s *Store) SetDefaultSpeaker(identifier string) (Speaker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return Speaker{}, err
	}

	idx := s.find(identifier)
	if idx < 0 {
		return Speaker{}, fmt.Errorf("%w: %q", kefirerr.ErrSpeakerNotFound, identifier)
	}

	for i := range s.data.Speakers {
		s.data.Speakers[i].IsDefault = i == idx
	}

	if err := s.save(); err != nil {
		return Speaker{}, err
	}
	return s.data.Speakers[idx], nil
}

// UpdateLastSeen stamps a profile with the current time. Called after any
// successful speaker interaction.
func (s *Store) UpdateLastSeen(identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}

	idx := s.find(identifier)
	if idx < 0 {
		return fmt.Errorf("%w: %q", kefirerr.ErrSpeakerNotFound, identifier)
	}
	s.data.Speakers[idx].LastSeen = time.Now()
	return s.save()
}

// Theme returns the persisted theme. The boolean reports whether one was
// ever saved; callers fall back to config.toml defaults when it is false.
func (s *Store) Theme() (Theme, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return Theme{}, false, err
	}

	if s.data.Theme == nil {
		return Theme{}, false, nil
	}
	return *s.data.Theme, true, nil
}

// UpdateTheme persists theme fields. Nil leaves a field unchanged; the first
// update starts from colors and emojis enabled.
func (s *Store) UpdateTheme(colors, emojis *bool) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return Theme{}, err
	}

	if s.data.Theme == nil {
		s.data.Theme = &Theme{Colors: true, Emojis: true}
	}
	if colors != nil {
		s.data.Theme.Colors = *colors
	}
	if emojis != nil {
		s.data.Theme.Emojis = *emojis
	}

	if err := s.save(); err != nil {
		return Theme{}, err
	}
	return *s.data.Theme, nil
}

// find returns the index of the profile matching an id, name, or host, or
// -1. IDs match exactly; names and hosts match case-insensitively.
func (s *Store) find(identifier string) int {
	for i, sp := range s.data.Speakers {
		if sp.ID == identifier {
			return i
		}
	}
	for i, sp := range s.data.Speakers {
		if strings.EqualFold(sp.Name, identifier) || strings.EqualFold(sp.Host, identifier) {
			return i
		}
	}
	return -1
}
