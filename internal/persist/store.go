package persist

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"pkt.systems/codexpad/schema"
	"pkt.systems/pslog"
)

// Preferences captures the durable editor preferences of a profile.
type Preferences struct {
	Settings schema.Settings  `json:"settings"`
	Theme    schema.ThemeName `json:"theme,omitempty"`
}

// Store persists preferences to disk. Documents are never written here.
type Store struct {
	dir string
	log pslog.Logger
}

// NewStore constructs a persistent store at the given directory.
func NewStore(dir string) (*Store, error) {
	return NewStoreWithLogger(dir, nil)
}

// NewStoreWithLogger constructs a persistent store with logging.
func NewStoreWithLogger(dir string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("state_dir", dir)
	}
	return &Store{dir: dir, log: logger}, nil
}

// Load reads a profile's preferences. The boolean is false when nothing was saved yet.
func (s *Store) Load(profile string) (Preferences, bool, error) {
	data, err := os.ReadFile(s.pathForProfile(profile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.debug("preferences load miss", "profile", profile)
			return Preferences{}, false, nil
		}
		s.warn("preferences load failed", profile, err)
		return Preferences{}, false, err
	}
	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		s.warn("preferences load failed", profile, err)
		return Preferences{}, false, err
	}
	s.debug("preferences load ok", "profile", profile, "theme", prefs.Theme)
	return prefs, true, nil
}

// Save atomically writes a profile's preferences.
func (s *Store) Save(profile string, prefs Preferences) error {
	path := s.pathForProfile(profile)
	if err := writeFileAtomic(path, prefs); err != nil {
		s.warn("preferences save failed", profile, err)
		return err
	}
	if s.log != nil {
		s.log.Trace("preferences save ok", "profile", profile)
	}
	return nil
}

func writeFileAtomic(path string, value any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "prefs-*.json")
	if err != nil {
		return err
	}
	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Store) debug(msg string, kv ...any) {
	if s.log != nil {
		s.log.Debug(msg, kv...)
	}
}

func (s *Store) warn(msg, profile string, err error) {
	if s.log != nil {
		s.log.Warn(msg, "profile", profile, "err", err)
	}
}

func (s *Store) pathForProfile(profile string) string {
	name := sanitize(profile)
	if name == "" {
		name = "default"
	}
	return filepath.Join(s.dir, name+".json")
}

func sanitize(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	return b.String()
}
