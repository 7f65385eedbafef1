package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseURL != "https://api.fogswap.io/v1" {
		t.Errorf("base_url = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("timeout = %s", cfg.Timeout)
	}
	if cfg.HistoryFile != filepath.Join(home, DefaultHistoryFileName) {
		t.Errorf("history_file = %q", cfg.HistoryFile)
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FOGSWAP_TIMEOUT", "5s")

	path := filepath.Join(t.TempDir(), "fogswap.yaml")
	content := "base_url: http://localhost:8080/v1\nuser_agent: custom/1.0\nhistory_file: /tmp/h.json\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("base_url = %q", cfg.BaseURL)
	}
	if cfg.UserAgent != "custom/1.0" {
		t.Errorf("user_agent = %q", cfg.UserAgent)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %s, env should override", cfg.Timeout)
	}
	if cfg.HistoryFile != "/tmp/h.json" {
		t.Errorf("history_file = %q", cfg.HistoryFile)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for an explicit missing file")
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FOGSWAP_TIMEOUT", "-1s")

	if _, err := Load(); err == nil {
		t.Error("expected error for negative timeout")
	}
}
