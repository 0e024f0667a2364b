package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Version int         `toml:"version"`
	SiteURL string      `toml:"site_url"`
	UI      UISettings  `toml:"ui"`
	Log     LogSettings `toml:"log"`

	// StateFile holds per-page element state (checkbox toggles) between sessions
	StateFile string `toml:"state_file"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	PreviewEnabled bool   `toml:"preview_enabled"`
	DebounceMS     int    `toml:"debounce_ms"`
	ToggleKey      string `toml:"toggle_key"`
	MaxResults     int    `toml:"max_results"`
}

// LogSettings configures the rotating log file
type LogSettings struct {
	Dir   string `toml:"dir"`
	Level string `toml:"level"`
}

// Service handles configuration management
type Service interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// service is the concrete implementation
type service struct {
	filePath string
}

// NewService creates a new config service rooted in the user config directory
func NewService() Service {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	appDir := filepath.Join(configDir, "siteseek")
	_ = os.MkdirAll(appDir, 0755)

	return &service{
		filePath: filepath.Join(appDir, "config.toml"),
	}
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		UI: UISettings{
			PreviewEnabled: true,
			DebounceMS:     250,
			ToggleKey:      "/",
			MaxResults:     10,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// Load loads the configuration from the default path
func (s *service) Load() (*Config, error) {
	return s.LoadFromPath(s.filePath)
}

// Save saves the configuration to the default path
func (s *service) Save(config *Config) error {
	return s.SaveToPath(config, s.filePath)
}

// LoadFromPath loads the configuration from the given file
func (s *service) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.UI.DebounceMS <= 0 {
		cfg.UI.DebounceMS = 250
	}
	if cfg.UI.MaxResults <= 0 {
		cfg.UI.MaxResults = 10
	}
	if cfg.UI.ToggleKey == "" {
		cfg.UI.ToggleKey = "/"
	}

	return cfg, nil
}

// SaveToPath saves the configuration to the given file
func (s *service) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
