package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownSetting is returned for keys outside the settings table
var ErrUnknownSetting = errors.New("unknown setting")

// Manager provides keyed read/write access to config settings
type Manager struct {
	config     *Config
	configPath string
}

// NewManager creates a new config manager
func NewManager(cfg *Config, configPath string) *Manager {
	return &Manager{
		config:     cfg,
		configPath: configPath,
	}
}

// Setting is one effective configuration value
type Setting struct {
	Key   string
	Value string
}

// Settings returns every setting in a fixed order
func (m *Manager) Settings() []Setting {
	return []Setting{
		{Key: "server.listen", Value: m.config.Server.Listen},
		{Key: "paths.shared_dir", Value: m.config.Paths.SharedDir},
		{Key: "ffmpeg.path", Value: m.config.FFmpeg.Path},
		{Key: "audio.bitrate", Value: m.config.Audio.Bitrate},
		{Key: "batch.concurrency", Value: strconv.Itoa(m.config.Batch.Concurrency)},
	}
}

// Get returns the value of a single setting by key
func (m *Manager) Get(key string) (string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, s := range m.Settings() {
		if s.Key == key {
			return s.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSetting, key)
}

// Set updates a single setting, validates the resulting config, and saves it.
// A value that fails validation leaves both the config and the file untouched.
func (m *Manager) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	snapshot := *m.config

	switch key {
	case "server.listen":
		m.config.Server.Listen = value
	case "paths.shared_dir":
		m.config.Paths.SharedDir = value
	case "ffmpeg.path":
		m.config.FFmpeg.Path = value
	case "audio.bitrate":
		m.config.Audio.Bitrate = value
	case "batch.concurrency":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("batch.concurrency must be an integer, got %q", value)
		}
		m.config.Batch.Concurrency = n
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}

	if err := m.config.Validate(); err != nil {
		*m.config = snapshot
		return err
	}
	return Save(m.config, m.configPath)
}
