package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Paths  PathsConfig  `yaml:"paths"`
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
	Audio  AudioConfig  `yaml:"audio"`
	Batch  BatchConfig  `yaml:"batch"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// PathsConfig contains the shared directory all request paths resolve against
type PathsConfig struct {
	SharedDir string `yaml:"shared_dir"`
}

// FFmpegConfig contains external tool settings
type FFmpegConfig struct {
	Path string `yaml:"path"`
}

// AudioConfig contains audio extraction settings
type AudioConfig struct {
	Bitrate string `yaml:"bitrate"`
}

// BatchConfig contains batch execution settings
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// Default returns the configuration used when nothing else is specified
func Default() *Config {
	return &Config{
		Server: ServerConfig{Listen: ":5000"},
		Paths:  PathsConfig{SharedDir: "/shared"},
		FFmpeg: FFmpegConfig{Path: "ffmpeg"},
		Audio:  AudioConfig{Bitrate: "192k"},
		Batch:  BatchConfig{Concurrency: 1},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Fields left unset in the file keep their defaults, and environment
// variables override both.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to the default
// configuration (plus environment overrides) when no file exists at path
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return Load(path)
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen must not be empty")
	}
	if c.Paths.SharedDir == "" {
		return fmt.Errorf("paths.shared_dir must not be empty")
	}
	if c.FFmpeg.Path == "" {
		return fmt.Errorf("ffmpeg.path must not be empty")
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1, got %d", c.Batch.Concurrency)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Listen = envOr("CLIPCUTTER_LISTEN", c.Server.Listen)
	c.Paths.SharedDir = envOr("CLIPCUTTER_SHARED_DIR", c.Paths.SharedDir)
	c.FFmpeg.Path = envOr("CLIPCUTTER_FFMPEG_PATH", c.FFmpeg.Path)
	c.Audio.Bitrate = envOr("CLIPCUTTER_AUDIO_BITRATE", c.Audio.Bitrate)

	if v := os.Getenv("CLIPCUTTER_BATCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Batch.Concurrency = n
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
