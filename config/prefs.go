package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Preferences is the opaque key-value store the rest of the application
// reads and writes its settings through.
type Preferences interface {
	String(key string) string
	StringWithFallback(key, fallback string) string
	SetString(key, value string)

	Int(key string) int
	IntWithFallback(key string, fallback int) int
	SetInt(key string, value int)

	Bool(key string) bool
	BoolWithFallback(key string, fallback bool) bool
	SetBool(key string, value bool)

	StringList(key string) []string
	SetStringList(key string, value []string)

	RemoveValue(key string)
}

// filePrefs is a JSON-file backed Preferences implementation. Every Set
// persists immediately; a viewer session is short-lived and settings
// writes are rare.
type filePrefs struct {
	path string
	mu   sync.RWMutex
	data map[string]any
}

// GetPath returns the path to the user's config directory.
func GetPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting user home directory: %v", err)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(AppName))
}

// GetFilename returns the path to the user's settings file.
func GetFilename() string {
	return filepath.Join(GetPath(), SettingsFileName)
}

// NewFilePreferences loads (or initializes) a Preferences store backed by
// the JSON file at path.
func NewFilePreferences(path string) Preferences {
	p := &filePrefs{path: path, data: make(map[string]any)}
	raw, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(raw, &p.data); err != nil {
			log.Printf("Error parsing settings file %s, starting fresh: %v", path, err)
			p.data = make(map[string]any)
		}
	}
	return p
}

func (p *filePrefs) save() {
	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		log.Printf("Error creating settings directory: %v", err)
		return
	}
	raw, err := json.MarshalIndent(p.data, "", "  ")
	if err != nil {
		log.Printf("Error encoding settings: %v", err)
		return
	}
	if err := os.WriteFile(p.path, raw, 0644); err != nil {
		log.Printf("Error writing settings file: %v", err)
	}
}

func (p *filePrefs) String(key string) string {
	return p.StringWithFallback(key, "")
}

func (p *filePrefs) StringWithFallback(key, fallback string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.data[key].(string); ok {
		return v
	}
	return fallback
}

func (p *filePrefs) SetString(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = value
	p.save()
}

func (p *filePrefs) Int(key string) int {
	return p.IntWithFallback(key, 0)
}

func (p *filePrefs) IntWithFallback(key string, fallback int) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch v := p.data[key].(type) {
	case int:
		return v
	case float64: // JSON numbers decode as float64
		return int(v)
	}
	return fallback
}

func (p *filePrefs) SetInt(key string, value int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = value
	p.save()
}

func (p *filePrefs) Bool(key string) bool {
	return p.BoolWithFallback(key, false)
}

func (p *filePrefs) BoolWithFallback(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.data[key].(bool); ok {
		return v
	}
	return fallback
}

func (p *filePrefs) SetBool(key string, value bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = value
	p.save()
}

func (p *filePrefs) StringList(key string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch v := p.data[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

func (p *filePrefs) SetStringList(key string, value []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = value
	p.save()
}

func (p *filePrefs) RemoveValue(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, key)
	p.save()
}
