package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_WritesDefaultConfigWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if resolved != path {
		t.Errorf("expected resolved path %s, got %s", path, resolved)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config to be written: %v", err)
	}

	def := Default()
	if cfg.Addr != def.Addr || cfg.Presence != def.Presence || cfg.Store != def.Store {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
addr: ":7000"
store:
  driver: memory
presence:
  sweep_interval: 30s
  stale_after: 20s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CHATROOM_ADDR", ":6000")
	t.Setenv("CHATROOM_PRESENCE_STALE_AFTER", "12s")

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr != ":6000" {
		t.Errorf("expected env to override addr, got %q", cfg.Addr)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("expected driver from file, got %q", cfg.Store.Driver)
	}
	if cfg.Presence.SweepInterval != 30*time.Second {
		t.Errorf("expected sweep interval from file, got %v", cfg.Presence.SweepInterval)
	}
	if cfg.Presence.StaleAfter != 12*time.Second {
		t.Errorf("expected stale_after from env, got %v", cfg.Presence.StaleAfter)
	}
	if cfg.StoreTimeout != Default().StoreTimeout {
		t.Errorf("expected default store timeout, got %v", cfg.StoreTimeout)
	}
}

func TestUpdateFrom_OnlyOverridesNonZero(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{LogLevel: "debug", Store: StoreConfig{Driver: DriverMemory}})

	if cfg.LogLevel != "debug" || cfg.Store.Driver != DriverMemory {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Addr != Default().Addr || cfg.Store.SQLitePath != Default().Store.SQLitePath {
		t.Errorf("zero values must not override: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	// Aligning the sweep with the threshold is not required in either direction.
	cfg := Default()
	cfg.Presence.SweepInterval = time.Second
	cfg.Presence.StaleAfter = time.Minute
	if err := cfg.Validate(); err != nil {
		t.Errorf("independent presence durations should be valid: %v", err)
	}

	bad := Default()
	bad.Store.Driver = "postgres"
	bad.Presence.StaleAfter = 0
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"unknown store.driver", "presence.stale_after"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}
