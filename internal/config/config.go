package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. OMIKUJI_MAX_ITEMS.
const EnvPrefix = "OMIKUJI"

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config represents the omikuji configuration
type Config struct {
	HistoryLimit   int             `yaml:"history_limit" split_words:"true"`
	HistoryEnabled bool            `yaml:"history_enabled" split_words:"true"`
	MaxItems       int             `yaml:"max_items" split_words:"true"`
	Storage        StorageConfig   `yaml:"storage" split_words:"true"`
	Animation      AnimationConfig `yaml:"animation" split_words:"true"`
	Haptics        bool            `yaml:"haptics" split_words:"true"`
	LogLevel       string          `yaml:"log_level" split_words:"true"`
	LogEncoding    string          `yaml:"log_encoding" split_words:"true"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Driver      string        `yaml:"driver" split_words:"true"`
	Path        string        `yaml:"path,omitempty" split_words:"true"`
	RedisAddr   string        `yaml:"redis_addr,omitempty" split_words:"true"`
	RedisDB     int           `yaml:"redis_db" split_words:"true"`
	RedisPrefix string        `yaml:"redis_prefix,omitempty" split_words:"true"`
	Timeout     time.Duration `yaml:"timeout" split_words:"true"`
}

// AnimationConfig holds the draw phase delays.
type AnimationConfig struct {
	Shake  time.Duration `yaml:"shake" split_words:"true"`
	Reveal time.Duration `yaml:"reveal" split_words:"true"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		HistoryLimit:   50,
		HistoryEnabled: true,
		MaxItems:       24,
		Storage: StorageConfig{
			Driver:      DriverSQLite,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "omikuji:",
			Timeout:     2 * time.Second,
		},
		Animation: AnimationConfig{
			Shake:  1500 * time.Millisecond,
			Reveal: 1000 * time.Millisecond,
		},
		Haptics:     true,
		LogLevel:    "warn",
		LogEncoding: "console",
	}
}

// DefaultDir returns ~/.config/omikuji.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "omikuji"), nil
}

// ConfigManager manages configuration persistence
type ConfigManager struct {
	configPath string
	envFiles   []string
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() (*ConfigManager, error) {
	configDir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return NewConfigManagerWithPath(filepath.Join(configDir, "config.yaml")), nil
}

// NewConfigManagerWithPath creates a config manager with custom config path.
// A .env file next to the config file and one in the working directory are
// loaded if present.
func NewConfigManagerWithPath(configPath string) *ConfigManager {
	return &ConfigManager{
		configPath: configPath,
		envFiles:   []string{".env", filepath.Join(filepath.Dir(configPath), ".env")},
	}
}

// WithEnvFiles replaces the .env files consulted by Load.
func (cm *ConfigManager) WithEnvFiles(files ...string) *ConfigManager {
	cm.envFiles = files
	return cm
}

// LoadFile reads the configuration file only, or returns the default if
// the file doesn't exist. Missing fields keep their defaults.
func (cm *ConfigManager) LoadFile() (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(cm.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cm.validateAndSetDefaults(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Load returns the effective configuration: the file, then .env files,
// then OMIKUJI_* environment variables.
func (cm *ConfigManager) Load() (*Config, error) {
	config, err := cm.LoadFile()
	if err != nil {
		return nil, err
	}

	if err := cm.LoadEnvFiles(); err != nil {
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if err := cm.validateAndSetDefaults(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadEnvFiles loads every existing .env file into the process
// environment. Variables that are already set win.
func (cm *ConfigManager) LoadEnvFiles() error {
	var existing []string
	for _, f := range cm.envFiles {
		if info, err := os.Stat(f); err == nil && !info.IsDir() {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Save writes the configuration to file
func (cm *ConfigManager) Save(config *Config) error {
	// Validate configuration before saving
	if err := cm.validateAndSetDefaults(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Ensure config directory exists
	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validateAndSetDefaults validates configuration and sets defaults for missing fields
func (cm *ConfigManager) validateAndSetDefaults(config *Config) error {
	if config.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be greater than 0")
	}
	if config.HistoryLimit > 1000 {
		return fmt.Errorf("history_limit cannot exceed 1000 items")
	}

	if config.MaxItems < 0 {
		return fmt.Errorf("max_items must not be negative")
	}
	if config.MaxItems > 1000 {
		return fmt.Errorf("max_items cannot exceed 1000")
	}

	config.Storage.Driver = strings.ToLower(strings.TrimSpace(config.Storage.Driver))
	switch config.Storage.Driver {
	case "":
		config.Storage.Driver = DriverSQLite
	case DriverSQLite, DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("storage.driver must be one of sqlite, memory, redis (got %q)", config.Storage.Driver)
	}
	if config.Storage.Driver == DriverRedis && config.Storage.RedisAddr == "" {
		return fmt.Errorf("storage.redis_addr is required for the redis driver")
	}
	if config.Storage.RedisDB < 0 {
		return fmt.Errorf("storage.redis_db must not be negative")
	}
	if config.Storage.Timeout <= 0 {
		config.Storage.Timeout = 2 * time.Second
	}

	if config.Animation.Shake < 0 || config.Animation.Reveal < 0 {
		return fmt.Errorf("animation delays must not be negative")
	}

	if config.LogLevel == "" {
		config.LogLevel = "warn"
	}
	if config.LogEncoding == "" {
		config.LogEncoding = "console"
	}

	return nil
}

// GetConfigPath returns the path to the config file
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}

// field binds a user-facing key to a Config field.
type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

var fields = map[string]field{
	"history-limit": {
		get: func(c *Config) string { return strconv.Itoa(c.HistoryLimit) },
		set: func(c *Config, v string) error { return setInt(&c.HistoryLimit, "history-limit", v) },
	},
	"history-enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.HistoryEnabled) },
		set: func(c *Config, v string) error { return setBool(&c.HistoryEnabled, "history-enabled", v) },
	},
	"max-items": {
		get: func(c *Config) string { return strconv.Itoa(c.MaxItems) },
		set: func(c *Config, v string) error { return setInt(&c.MaxItems, "max-items", v) },
	},
	"storage-driver": {
		get: func(c *Config) string { return c.Storage.Driver },
		set: func(c *Config, v string) error { c.Storage.Driver = v; return nil },
	},
	"storage-path": {
		get: func(c *Config) string { return orDefault(c.Storage.Path) },
		set: func(c *Config, v string) error { c.Storage.Path = v; return nil },
	},
	"redis-addr": {
		get: func(c *Config) string { return c.Storage.RedisAddr },
		set: func(c *Config, v string) error { c.Storage.RedisAddr = v; return nil },
	},
	"redis-db": {
		get: func(c *Config) string { return strconv.Itoa(c.Storage.RedisDB) },
		set: func(c *Config, v string) error { return setInt(&c.Storage.RedisDB, "redis-db", v) },
	},
	"redis-prefix": {
		get: func(c *Config) string { return c.Storage.RedisPrefix },
		set: func(c *Config, v string) error { c.Storage.RedisPrefix = v; return nil },
	},
	"storage-timeout": {
		get: func(c *Config) string { return c.Storage.Timeout.String() },
		set: func(c *Config, v string) error { return setDuration(&c.Storage.Timeout, "storage-timeout", v) },
	},
	"shake-delay": {
		get: func(c *Config) string { return c.Animation.Shake.String() },
		set: func(c *Config, v string) error { return setDuration(&c.Animation.Shake, "shake-delay", v) },
	},
	"reveal-delay": {
		get: func(c *Config) string { return c.Animation.Reveal.String() },
		set: func(c *Config, v string) error { return setDuration(&c.Animation.Reveal, "reveal-delay", v) },
	},
	"haptics": {
		get: func(c *Config) string { return strconv.FormatBool(c.Haptics) },
		set: func(c *Config, v string) error { return setBool(&c.Haptics, "haptics", v) },
	},
	"log-level": {
		get: func(c *Config) string { return c.LogLevel },
		set: func(c *Config, v string) error { c.LogLevel = v; return nil },
	},
	"log-encoding": {
		get: func(c *Config) string { return c.LogEncoding },
		set: func(c *Config, v string) error { c.LogEncoding = v; return nil },
	},
}

// Keys returns every configuration key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Update modifies a specific configuration value in the file. Environment
// overrides are not written back.
func (cm *ConfigManager) Update(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	config, err := cm.LoadFile()
	if err != nil {
		return err
	}

	if err := f.set(config, value); err != nil {
		return err
	}

	return cm.Save(config)
}

// Get returns the effective value for a specific configuration key
func (cm *ConfigManager) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}

	config, err := cm.Load()
	if err != nil {
		return "", err
	}

	return f.get(config), nil
}

// List returns all configuration keys and effective values
func (cm *ConfigManager) List() (map[string]string, error) {
	config, err := cm.Load()
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(fields))
	for k, f := range fields {
		result[k] = f.get(config)
	}
	return result, nil
}

func orDefault(s string) string {
	if s == "" {
		return "[default]"
	}
	return s
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key, value string) error {
	switch value {
	case "true":
		*dst = true
	case "false":
		*dst = false
	default:
		return fmt.Errorf("invalid boolean value for %s: %s (must be 'true' or 'false')", key, value)
	}
	return nil
}

func setDuration(dst *time.Duration, key, value string) error {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid duration value for %s: %s (e.g. 1500ms)", key, value)
	}
	*dst = d
	return nil
}
