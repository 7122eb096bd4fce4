package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Backend       BackendConfig  `toml:"backend"`
	Storage       StorageConfig  `toml:"storage"`
	Week          WeekConfig     `toml:"week"`
	Notifications NotifyConfig   `toml:"notifications"`
	Calendar      CalendarConfig `toml:"calendar"`
}

type BackendConfig struct {
	URL         string `toml:"url"`
	APIKey      string `toml:"api_key"`
	AccessToken string `toml:"access_token"`
	UserID      string `toml:"user_id"`
}

// Configured reports whether enough is set to talk to the backend.
func (b BackendConfig) Configured() bool {
	return b.URL != "" && b.APIKey != "" && b.UserID != ""
}

type StorageConfig struct {
	Backend string `toml:"backend"` // "sqlite" or "file"
	DataDir string `toml:"data_dir"`
}

type WeekConfig struct {
	StartDay string `toml:"start_day"`
}

type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
}

type CalendarConfig struct {
	Source   string `toml:"source"` // ICS URL or file path
	Category string `toml:"category"`
}

const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend: StorageSQLite,
		},
		Week: WeekConfig{
			StartDay: "monday",
		},
		Notifications: NotifyConfig{
			Enabled: true,
		},
		Calendar: CalendarConfig{
			Category: "work",
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "daybook"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the default config file. A .env file in the working directory
// is loaded first so its variables can override file values.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.resolveDataDir(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DAYBOOK_BACKEND_URL"); v != "" {
		cfg.Backend.URL = v
	}
	if v := os.Getenv("DAYBOOK_API_KEY"); v != "" {
		cfg.Backend.APIKey = v
	}
	if v := os.Getenv("DAYBOOK_ACCESS_TOKEN"); v != "" {
		cfg.Backend.AccessToken = v
	}
	if v := os.Getenv("DAYBOOK_USER_ID"); v != "" {
		cfg.Backend.UserID = v
	}
	if v := os.Getenv("DAYBOOK_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
}

func (c *Config) resolveDataDir() error {
	if c.Storage.DataDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return err
		}
		c.Storage.DataDir = dir
		return nil
	}
	if strings.HasPrefix(c.Storage.DataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		c.Storage.DataDir = filepath.Join(home, c.Storage.DataDir[2:])
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageSQLite, StorageFile:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", StorageSQLite, StorageFile, c.Storage.Backend)
	}
	switch c.Calendar.Category {
	case "work", "personal":
	default:
		return fmt.Errorf("calendar.category must be work or personal, got %q", c.Calendar.Category)
	}
	return nil
}

// WriteDefault creates path with the default config unless it exists.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	out, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, out, 0600)
}

// SetValue persists one dotted key (e.g. "backend.user_id") to the file at
// path using read-modify-write so other settings are preserved.
func SetValue(path, key string, value any) error {
	section, field, ok := strings.Cut(key, ".")
	if !ok || section == "" || field == "" {
		return fmt.Errorf("config key %q must look like section.field", key)
	}

	cfg := make(map[string]any)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	sec, ok := cfg[section].(map[string]any)
	if !ok {
		sec = make(map[string]any)
	}
	sec[field] = value
	cfg[section] = sec

	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	var check Config
	if err := toml.Unmarshal(out, &check); err != nil {
		return fmt.Errorf("config key %q: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, out, 0600)
}
