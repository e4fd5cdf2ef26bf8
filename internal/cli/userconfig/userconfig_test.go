package userconfig

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileReturnsEmptyConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServerURL != "" {
		t.Errorf("server url = %q, want empty", cfg.ServerURL)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := Save(&UserConfig{ServerURL: "http://mall.example.com:8080"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServerURL != "http://mall.example.com:8080" {
		t.Errorf("server url = %q", cfg.ServerURL)
	}
}

func TestGetConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("failed to get config path: %v", err)
	}
	if !strings.HasPrefix(path, home) {
		t.Errorf("path %q not under home %q", path, home)
	}
	if filepath.Base(path) != "config.json" {
		t.Errorf("unexpected file name in %q", path)
	}
}
