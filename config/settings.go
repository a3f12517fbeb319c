package config

import (
	"errors"
	"log"
	"os"
	"os/user"
	"sync"
	"time"

	"github.com/zalando/go-keyring"
)

// Preference keys.
const (
	LastOpenedDirPrefKey     = "last_opened_directory"
	RecentFilesPrefKey       = "recent_files"
	BackgroundColorPrefKey   = "viewer_background_color"
	WindowGeometryPrefKey    = "window_geometry"
	LanguagePrefKey          = "language"
	SlideshowIntervalPrefKey = "slideshow_interval_seconds"

	// RemoveBgAPIKeyPrefKey doubles as the keyring service name and, when
	// no system keyring is available, the fallback preference key.
	RemoveBgAPIKeyPrefKey = "remove_bg_api_key"
)

// Defaults.
const (
	DefaultBackgroundColor   = "#404040"
	DefaultSlideshowInterval = 5 * time.Second
	maxRecentFiles           = 10
)

// Settings holds the persisted application settings. The storage itself is
// an opaque Preferences store; the API key additionally goes through the
// system keyring when one is available.
type Settings struct {
	prefs  Preferences
	userid string
}

var (
	settingsInstance *Settings
	settingsOnce     sync.Once
)

// GetSettings returns the singleton Settings backed by the given store.
func GetSettings(p Preferences) *Settings {
	settingsOnce.Do(func() {
		u, err := user.Current()
		if err != nil {
			log.Fatalf("failed to initialize %s settings: %v", AppName, err)
		}
		settingsInstance = &Settings{prefs: p, userid: u.Uid}
	})
	return settingsInstance
}

// NewSettings creates a non-singleton Settings, used by tests.
func NewSettings(p Preferences) *Settings {
	return &Settings{prefs: p, userid: "test"}
}

// GetLastOpenedDirectory returns the directory of the last opened image,
// defaulting to the user's home directory.
func (s *Settings) GetLastOpenedDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return s.prefs.StringWithFallback(LastOpenedDirPrefKey, home)
}

// SetLastOpenedDirectory records the directory of the last opened image.
func (s *Settings) SetLastOpenedDirectory(dir string) {
	s.prefs.SetString(LastOpenedDirPrefKey, dir)
}

// GetRecentFiles returns the recently opened files, most recent first.
func (s *Settings) GetRecentFiles() []string {
	return s.prefs.StringList(RecentFilesPrefKey)
}

// AddRecentFile moves (or inserts) path at the front of the recent list,
// trimming it to the maximum length.
func (s *Settings) AddRecentFile(path string) {
	recent := []string{path}
	for _, p := range s.prefs.StringList(RecentFilesPrefKey) {
		if p == path {
			continue
		}
		recent = append(recent, p)
		if len(recent) == maxRecentFiles {
			break
		}
	}
	s.prefs.SetStringList(RecentFilesPrefKey, recent)
}

// RemoveRecentFile drops path from the recent list (e.g. after a failed
// load of a no-longer-present file).
func (s *Settings) RemoveRecentFile(path string) {
	recent := []string{}
	for _, p := range s.prefs.StringList(RecentFilesPrefKey) {
		if p != path {
			recent = append(recent, p)
		}
	}
	s.prefs.SetStringList(RecentFilesPrefKey, recent)
}

// GetBackgroundColor returns the viewer background color as a hex string.
func (s *Settings) GetBackgroundColor() string {
	return s.prefs.StringWithFallback(BackgroundColorPrefKey, DefaultBackgroundColor)
}

// SetBackgroundColor sets the viewer background color.
func (s *Settings) SetBackgroundColor(hex string) {
	s.prefs.SetString(BackgroundColorPrefKey, hex)
}

// GetWindowGeometry returns the saved window geometry string ("WxH+X+Y").
func (s *Settings) GetWindowGeometry() string {
	return s.prefs.StringWithFallback(WindowGeometryPrefKey, "1024x768+100+100")
}

// SetWindowGeometry saves the window geometry string.
func (s *Settings) SetWindowGeometry(geometry string) {
	s.prefs.SetString(WindowGeometryPrefKey, geometry)
}

// GetLanguage returns the UI language code, empty for the system default.
func (s *Settings) GetLanguage() string {
	return s.prefs.String(LanguagePrefKey)
}

// SetLanguage sets the UI language code.
func (s *Settings) SetLanguage(lang string) {
	s.prefs.SetString(LanguagePrefKey, lang)
}

// GetSlideshowInterval returns the slideshow advance interval.
func (s *Settings) GetSlideshowInterval() time.Duration {
	secs := s.prefs.IntWithFallback(SlideshowIntervalPrefKey, int(DefaultSlideshowInterval/time.Second))
	if secs <= 0 {
		return DefaultSlideshowInterval
	}
	return time.Duration(secs) * time.Second
}

// SetSlideshowInterval sets the slideshow advance interval.
func (s *Settings) SetSlideshowInterval(d time.Duration) {
	s.prefs.SetInt(SlideshowIntervalPrefKey, int(d/time.Second))
}

// GetRemoveBgAPIKey returns the background-removal API key from the
// keyring, falling back to the preferences store when no keyring backend
// is available.
func (s *Settings) GetRemoveBgAPIKey() string {
	apiKey, err := keyring.Get(RemoveBgAPIKeyPrefKey, s.userid)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			log.Printf("failed to retrieve API key from keyring: %v", err)
		}
		return s.prefs.String(RemoveBgAPIKeyPrefKey)
	}
	return apiKey
}

// SetRemoveBgAPIKey stores the background-removal API key in the keyring,
// falling back to the preferences store on keyring failure.
func (s *Settings) SetRemoveBgAPIKey(apiKey string) {
	if err := keyring.Set(RemoveBgAPIKeyPrefKey, s.userid, apiKey); err != nil {
		log.Printf("failed to save API key to keyring, using settings file: %v", err)
		s.prefs.SetString(RemoveBgAPIKeyPrefKey, apiKey)
		return
	}
	// Clear any stale plaintext copy once the keyring works.
	s.prefs.RemoveValue(RemoveBgAPIKeyPrefKey)
}
