// Package config holds process-wide scan defaults: a default
// ScanOptions value and the default force posture for deletes. The
// force default is read by hostapi.DefaultForce; the stored ScanOptions
// are persisted but no scan in this module reads them. It is adapted from the teacher's
// internal/settings/settings.go (same on-disk JSON, same
// load-or-default, mutex-guarded singleton shape) but persists scan
// preferences, not scan results — the latter is explicitly out of
// scope (spec Non-goals: "no persisted scan history across process
// restarts").
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"disksight/internal/model"
)

// Config is the persisted set of process-wide scan preferences.
type Config struct {
	DefaultScanOptions model.ScanOptions `json:"default_scan_options"`
	ForceDeleteDefault bool              `json:"force_delete_default"`
}

// Default returns the built-in configuration: unrestricted scan
// options and force=false (every ConfirmRequired delete needs an
// explicit confirmation, never the default).
func Default() *Config {
	return &Config{
		DefaultScanOptions: model.DefaultScanOptions(),
		ForceDeleteDefault: false,
	}
}

var (
	current *Config
	mu      sync.RWMutex
)

func path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "config: resolve home directory")
	}
	dir := filepath.Join(home, ".config", "disksight")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "config: create config directory")
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the persisted config, falling back to Default() when no
// file exists or it fails to parse.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	p, err := path()
	if err != nil {
		current = Default()
		return current, nil
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			current = Default()
			return current, nil
		}
		return nil, errors.Wrapf(err, "config: read %q", p)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		current = Default()
		return current, nil
	}

	current = cfg
	return current, nil
}

// Save persists cfg to disk and makes it the current in-memory config.
func Save(cfg *Config) error {
	mu.Lock()
	defer mu.Unlock()

	p, err := path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "config: marshal")
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return errors.Wrapf(err, "config: write %q", p)
	}

	current = cfg
	return nil
}

// Get returns the current in-memory config, loading it from disk on
// first use.
func Get() *Config {
	mu.RLock()
	if current != nil {
		defer mu.RUnlock()
		return current
	}
	mu.RUnlock()

	cfg, _ := Load()
	return cfg
}
