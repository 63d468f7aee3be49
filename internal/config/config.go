package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
)

// CleanupConfig holds the retention policy and sweep schedule.
type CleanupConfig struct {
	// Enabled turns the background sweep on or off
	Enabled bool `json:"enabled"`

	// IntervalMinutes is how often the background sweep runs
	IntervalMinutes int `json:"intervalMinutes"`

	// RetentionDays is the soft expiry threshold; records older than twice
	// this value are deleted regardless of status
	RetentionDays int `json:"retentionDays"`

	// AutoDeleteResolved enables the soft expiry rule for resolved records
	AutoDeleteResolved bool `json:"autoDeleteResolved"`
}

// Config holds application configuration.
type Config struct {
	// Hotkey is the capture shortcut registered by the desktop shell.
	// The core stores it but does not interpret it.
	Hotkey string `json:"hotkey"`

	// Projects is the MRU-ordered list of tracked project directories
	Projects []string `json:"projects"`

	// LastProject is the most recently captured-to project (empty if none)
	LastProject string `json:"lastProject,omitempty"`

	// Cleanup is the retention policy and sweep schedule
	Cleanup CleanupConfig `json:"cleanup"`

	// Port is the loopback dashboard port
	Port int `json:"port,omitempty"`
}

// DefaultPort is the dashboard server port when the config does not set one.
const DefaultPort = 9999

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Hotkey:   "CommandOrControl+Shift+X",
		Projects: []string{},
		Cleanup: CleanupConfig{
			Enabled:            true,
			IntervalMinutes:    30,
			RetentionDays:      30,
			AutoDeleteResolved: true,
		},
		Port: DefaultPort,
	}
}

// Dir returns the configuration directory, honoring SNAG_CONFIG_DIR.
// Defaults to ~/.config/snag.
func Dir() (string, error) {
	if dir := os.Getenv("SNAG_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "snag"), nil
}

// Load loads configuration from baseDir/config.json. A missing file is
// written out with defaults; a corrupt file falls back to defaults without
// failing. SNAG_PORT overrides the configured port.
// The baseDir parameter allows tests to use t.TempDir().
func Load(baseDir string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(baseDir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if werr := Write(baseDir, cfg); werr != nil {
				return nil, werr
			}
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	// Unmarshal over the defaults so absent keys keep their default values.
	// A corrupt file never bricks the app.
	if err := json.Unmarshal(data, cfg); err != nil {
		cfg = DefaultConfig()
	}
	if cfg.Projects == nil {
		cfg.Projects = []string{}
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	applyEnv(cfg)
	return cfg, nil
}

// Write persists the configuration to baseDir/config.json, creating the
// directory if needed.
func Write(baseDir string, cfg *Config) error {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(baseDir, "config.json"), append(data, '\n'), 0o644)
}

// AddProject registers a project directory, moving it to the head of the MRU
// list, and persists the change. The path is normalized to an absolute path.
func AddProject(baseDir string, cfg *Config, projectPath string) error {
	return TouchProject(baseDir, cfg, projectPath)
}

// TouchProject moves a project to the head of the MRU list and records it as
// the last captured-to project, then persists the change.
func TouchProject(baseDir string, cfg *Config, projectPath string) error {
	normalized, err := filepath.Abs(projectPath)
	if err != nil {
		return err
	}

	projects := make([]string, 0, len(cfg.Projects)+1)
	projects = append(projects, normalized)
	for _, p := range cfg.Projects {
		if p != normalized {
			projects = append(projects, p)
		}
	}
	cfg.Projects = projects
	cfg.LastProject = normalized

	return Write(baseDir, cfg)
}

// applyEnv overlays environment overrides onto the loaded config.
func applyEnv(cfg *Config) {
	if s := os.Getenv("SNAG_PORT"); s != "" {
		if port, err := strconv.Atoi(s); err == nil && port > 0 {
			cfg.Port = port
		}
	}
}
