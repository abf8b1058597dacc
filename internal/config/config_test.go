package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "does-not-exist")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d; want 3000", cfg.Port)
	}
	if cfg.SnapshotInterval != 3*time.Second {
		t.Errorf("SnapshotInterval = %v; want 3s", cfg.SnapshotInterval)
	}
	if cfg.SendBuffer != 32 {
		t.Errorf("SendBuffer = %d; want 32", cfg.SendBuffer)
	}
	if cfg.JoinLimit <= 0 || cfg.JoinWindow <= 0 {
		t.Errorf("join limiter defaults = %d/%v; want positive", cfg.JoinLimit, cfg.JoinWindow)
	}
}

func TestLoadPortFromEnv(t *testing.T) {
	t.Setenv("CONFIG_ENV", "does-not-exist")
	t.Setenv("PORT", "4100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 4100 {
		t.Errorf("Port = %d; want 4100", cfg.Port)
	}
}

func TestLoadRejectsUnparsableValues(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	bad := []byte("read_limit: notanumber\n")
	if err := os.WriteFile(filepath.Join(dir, "config", "config.broken.yaml"), bad, 0o644); err != nil {
		t.Fatal(err)
	}
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatal(err)
		}
	})
	t.Setenv("CONFIG_ENV", "broken")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil for unparsable read_limit; want error")
	}
}
