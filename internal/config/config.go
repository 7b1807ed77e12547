// ABOUTME: Application configuration management for the trainer CLI.
// ABOUTME: Handles oauth folder location, log file and recent plan paths.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// App stores trainer tool configuration.
type App struct {
	// OAuthFolder is the directory holding the service token store.
	// Supports ~ expansion. Defaults to ~/.config/trainer/oauth.
	OAuthFolder string `json:"oauth_folder,omitempty"`

	// LogFile, when set, receives rotated log output in addition to stderr.
	LogFile string `json:"log_file,omitempty"`

	// RecentPlans is the most-recently-opened plan files, newest first.
	RecentPlans []string `json:"recent_plans,omitempty"`

	// Training carries the last imported authoring configuration so
	// commands that run without a plan file (schedule, fartlek) still know
	// the zones, prefix and preferred days.
	Training map[string]any `json:"training,omitempty"`
}

// GetTraining decodes the persisted authoring configuration. Returns an
// empty configuration when none has been imported yet.
func (c *App) GetTraining() (*Training, error) {
	if len(c.Training) == 0 {
		return &Training{
			Paces:       map[string]string{},
			SwimPaces:   map[string]string{},
			PowerValues: map[string]string{},
			HeartRates:  map[string]string{},
			Extra:       map[string]any{},
		}, nil
	}
	return LoadTraining(c.Training)
}

// SetTraining persists an authoring configuration snapshot.
func (c *App) SetTraining(t *Training) {
	if t == nil {
		c.Training = nil
		return
	}
	c.Training = t.ToMap()
}

// GetOAuthFolder returns the configured oauth folder with ~ expanded,
// defaulting to the standard config location.
func (c *App) GetOAuthFolder() string {
	if c.OAuthFolder == "" {
		return filepath.Join(filepath.Dir(GetConfigPath()), "oauth")
	}
	return ExpandPath(c.OAuthFolder)
}

// RememberPlan records a plan path at the head of the recent list, capped at
// ten entries.
func (c *App) RememberPlan(path string) {
	out := []string{path}
	for _, p := range c.RecentPlans {
		if p != path && len(out) < 10 {
			out = append(out, p)
		}
	}
	c.RecentPlans = out
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "trainer", "config.json")
}

// Load reads config from disk.
func Load() (*App, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &App{}, nil
		}
		return nil, err
	}

	var cfg App
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *App) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
