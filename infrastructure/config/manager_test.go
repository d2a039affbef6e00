package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestManager_Settings(t *testing.T) {
	mgr := NewManager(Default(), "unused.yaml")

	settings := mgr.Settings()
	if len(settings) != 5 {
		t.Fatalf("expected 5 settings, got %d", len(settings))
	}
	if settings[0].Key != "server.listen" || settings[0].Value != ":5000" {
		t.Errorf("unexpected first setting %+v", settings[0])
	}
	if settings[4].Key != "batch.concurrency" || settings[4].Value != "1" {
		t.Errorf("unexpected last setting %+v", settings[4])
	}
}

func TestManager_Get(t *testing.T) {
	mgr := NewManager(Default(), "unused.yaml")

	value, err := mgr.Get("ffmpeg.path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "ffmpeg" {
		t.Errorf("expected 'ffmpeg', got %q", value)
	}

	if _, err := mgr.Get("no.such.key"); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("expected ErrUnknownSetting, got %v", err)
	}
}

func TestManager_Set(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	mgr := NewManager(cfg, path)

	if err := mgr.Set("server.listen", ":8080"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("expected listen ':8080', got %q", cfg.Server.Listen)
	}

	// The change must be persisted.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if loaded.Server.Listen != ":8080" {
		t.Errorf("expected saved listen ':8080', got %q", loaded.Server.Listen)
	}
}

func TestManager_Set_Concurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	mgr := NewManager(cfg, path)

	if err := mgr.Set("batch.concurrency", "4"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Batch.Concurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.Batch.Concurrency)
	}

	if err := mgr.Set("batch.concurrency", "lots"); err == nil {
		t.Error("expected error for non-integer concurrency")
	}
	if err := mgr.Set("batch.concurrency", "0"); err == nil {
		t.Error("expected validation error for zero concurrency")
	}
}

func TestManager_Set_UnknownKey(t *testing.T) {
	mgr := NewManager(Default(), filepath.Join(t.TempDir(), "config.yaml"))

	if err := mgr.Set("no.such.key", "value"); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("expected ErrUnknownSetting, got %v", err)
	}
}

func TestManager_Set_InvalidValueNotSaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	if err := Save(cfg, path); err != nil {
		t.Fatalf("saving initial config: %v", err)
	}
	mgr := NewManager(cfg, path)

	if err := mgr.Set("paths.shared_dir", ""); err == nil {
		t.Fatal("expected validation error for empty shared_dir")
	}
	if cfg.Paths.SharedDir != "/shared" {
		t.Errorf("in-memory config should keep the old value, got %q", cfg.Paths.SharedDir)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if loaded.Paths.SharedDir != "/shared" {
		t.Errorf("file should keep the old value, got %q", loaded.Paths.SharedDir)
	}
}
