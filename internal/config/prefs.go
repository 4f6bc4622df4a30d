// Package config loads projector's preferences: the comma-separated
// list of root directories to scan and the editor launch command.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is the persisted preferences structure.
type Config struct {
	// ProjectsDirectory is a comma-separated list of root directories
	// whose immediate subdirectories are treated as projects.
	ProjectsDirectory string `json:"projectsDirectory"`

	// Editor is the editor launch command, split on whitespace into an
	// argument vector. The project path is appended as the final
	// argument; shell quoting is not interpreted.
	Editor string `json:"editor"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		ProjectsDirectory: "~/projects",
		Editor:            "code",
	}
}

// Directories returns the configured roots, trimmed, with empty entries
// dropped and ~ expanded. Order is preserved.
func (c *Config) Directories() []string {
	var dirs []string
	for _, dir := range strings.Split(c.ProjectsDirectory, ",") {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		dirs = append(dirs, ExpandPath(dir))
	}
	return dirs
}

// EditorArgv returns the editor command as an argument vector.
func (c *Config) EditorArgv() []string {
	return strings.Fields(c.Editor)
}

// Load reads the config file from the default location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config file at path, merging it over the defaults.
// A missing file is not an error; invalid JSON is.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to the default config path, creating parent
// directories as needed.
func Save(cfg *Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ConfigPath returns the config file location, honoring
// $XDG_CONFIG_HOME.
func ConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "projector.json")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "projector", "config.json")
}

// StateDir returns the directory for mutable state (the key-value
// database), honoring $XDG_STATE_HOME.
func StateDir() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "projector")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
