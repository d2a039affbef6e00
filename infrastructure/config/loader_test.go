package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Listen != ":5000" {
		t.Errorf("Default() Server.Listen = %q, want %q", cfg.Server.Listen, ":5000")
	}
	if cfg.Paths.SharedDir != "/shared" {
		t.Errorf("Default() Paths.SharedDir = %q, want %q", cfg.Paths.SharedDir, "/shared")
	}
	if cfg.FFmpeg.Path != "ffmpeg" {
		t.Errorf("Default() FFmpeg.Path = %q, want %q", cfg.FFmpeg.Path, "ffmpeg")
	}
	if cfg.Audio.Bitrate != "192k" {
		t.Errorf("Default() Audio.Bitrate = %q, want %q", cfg.Audio.Bitrate, "192k")
	}
	if cfg.Batch.Concurrency != 1 {
		t.Errorf("Default() Batch.Concurrency = %d, want 1", cfg.Batch.Concurrency)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate, got: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `server:
  listen: ":8080"
paths:
  shared_dir: /mnt/media
batch:
  concurrency: 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Server.Listen != ":8080" {
		t.Errorf("Load() Server.Listen = %q, want %q", cfg.Server.Listen, ":8080")
	}
	if cfg.Paths.SharedDir != "/mnt/media" {
		t.Errorf("Load() Paths.SharedDir = %q, want %q", cfg.Paths.SharedDir, "/mnt/media")
	}
	if cfg.Batch.Concurrency != 4 {
		t.Errorf("Load() Batch.Concurrency = %d, want 4", cfg.Batch.Concurrency)
	}

	// Unset fields keep defaults
	if cfg.FFmpeg.Path != "ffmpeg" {
		t.Errorf("Load() FFmpeg.Path = %q, want default %q", cfg.FFmpeg.Path, "ffmpeg")
	}
	if cfg.Audio.Bitrate != "192k" {
		t.Errorf("Load() Audio.Bitrate = %q, want default %q", cfg.Audio.Bitrate, "192k")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not: valid"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for invalid yaml, got nil")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() unexpected error: %v", err)
	}
	if cfg.Server.Listen != ":5000" {
		t.Errorf("LoadOrDefault() Server.Listen = %q, want default", cfg.Server.Listen)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  listen: \":8080\"\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("CLIPCUTTER_LISTEN", ":9999")
	t.Setenv("CLIPCUTTER_SHARED_DIR", "/data")
	t.Setenv("CLIPCUTTER_BATCH_CONCURRENCY", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Server.Listen != ":9999" {
		t.Errorf("Load() Server.Listen = %q, want env override %q", cfg.Server.Listen, ":9999")
	}
	if cfg.Paths.SharedDir != "/data" {
		t.Errorf("Load() Paths.SharedDir = %q, want env override %q", cfg.Paths.SharedDir, "/data")
	}
	if cfg.Batch.Concurrency != 8 {
		t.Errorf("Load() Batch.Concurrency = %d, want env override 8", cfg.Batch.Concurrency)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	original := Default()
	original.Server.Listen = ":7000"
	original.Batch.Concurrency = 3

	if err := Save(original, path); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if *loaded != *original {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, original)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid default",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty listen",
			mutate:  func(c *Config) { c.Server.Listen = "" },
			wantErr: true,
		},
		{
			name:    "empty shared dir",
			mutate:  func(c *Config) { c.Paths.SharedDir = "" },
			wantErr: true,
		},
		{
			name:    "empty ffmpeg path",
			mutate:  func(c *Config) { c.FFmpeg.Path = "" },
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Batch.Concurrency = 0 },
			wantErr: true,
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *Config) { c.Batch.Concurrency = -2 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
