package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names an environment variable pointing at a config file. It
// is consulted when no --config flag is given.
const EnvConfig = "PLANET_TERRAIN_CONFIG"

// Load resolves configuration as defaults < file < flags.
// The result is not validated; call Validate once logging is up so its
// warnings are not lost.
func Load() (*Config, error) {
	cfg, err := LoadFrom(ConfigPath())
	if err != nil {
		return nil, err
	}
	applyFlags(cfg)
	return cfg, nil
}

// LoadFrom reads defaults overlaid with the file at path. An empty path
// searches the standard locations and falls back to plain defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing candidate: $PLANET_TERRAIN_CONFIG,
// ./config.yaml, then the user config directory.
func findConfigFile() string {
	var candidates []string
	if env := os.Getenv(EnvConfig); env != "" {
		candidates = append(candidates, env)
	}
	candidates = append(candidates, "config.yaml", filepath.Join(ConfigDir(), "config.yaml"))

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "PlanetTerrain")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "PlanetTerrain")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "planet-terrain")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "planet-terrain")
	}
}

// loadFromFile overlays a YAML file onto cfg. Unknown keys are rejected so
// typos in LOD settings do not pass silently; an empty file is fine.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
