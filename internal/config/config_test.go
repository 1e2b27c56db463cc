package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// newTestManager returns a manager rooted in a temp dir that only reads
// .env files from that dir.
func newTestManager(t *testing.T) *ConfigManager {
	t.Helper()
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	return NewConfigManagerWithPath(configPath).WithEnvFiles(filepath.Join(tempDir, ".env"))
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.HistoryLimit != 50 {
		t.Errorf("Expected default history limit 50, got %d", config.HistoryLimit)
	}
	if config.MaxItems != 24 {
		t.Errorf("Expected default max items 24, got %d", config.MaxItems)
	}
	if !config.HistoryEnabled {
		t.Error("Expected history enabled by default")
	}
	if config.Storage.Driver != DriverSQLite {
		t.Errorf("Expected default driver sqlite, got %s", config.Storage.Driver)
	}
	if config.Animation.Shake != 1500*time.Millisecond || config.Animation.Reveal != time.Second {
		t.Errorf("Unexpected default animation %+v", config.Animation)
	}
	if config.LogLevel != "warn" {
		t.Errorf("Expected default log level warn, got %s", config.LogLevel)
	}
}

func TestConfigManager_LoadNonExistent(t *testing.T) {
	cm := newTestManager(t)

	config, err := cm.Load()
	if err != nil {
		t.Fatalf("Expected no error loading non-existent config, got: %v", err)
	}

	expectedDefault := DefaultConfig()
	if config.HistoryLimit != expectedDefault.HistoryLimit {
		t.Errorf("Expected default history limit %d, got %d", expectedDefault.HistoryLimit, config.HistoryLimit)
	}
}

func TestConfigManager_SaveAndLoad(t *testing.T) {
	cm := newTestManager(t)

	testConfig := DefaultConfig()
	testConfig.HistoryLimit = 100
	testConfig.MaxItems = 0
	testConfig.Storage.Driver = DriverRedis
	testConfig.Storage.RedisAddr = "cache:6379"
	testConfig.Animation.Shake = 250 * time.Millisecond

	if err := cm.Save(testConfig); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(cm.GetConfigPath()); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loadedConfig, err := cm.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedConfig.HistoryLimit != 100 {
		t.Errorf("Expected history limit 100, got %d", loadedConfig.HistoryLimit)
	}
	if loadedConfig.MaxItems != 0 {
		t.Errorf("Expected max items 0, got %d", loadedConfig.MaxItems)
	}
	if loadedConfig.Storage.Driver != DriverRedis || loadedConfig.Storage.RedisAddr != "cache:6379" {
		t.Errorf("Unexpected storage config %+v", loadedConfig.Storage)
	}
	if loadedConfig.Animation.Shake != 250*time.Millisecond {
		t.Errorf("Expected shake 250ms, got %s", loadedConfig.Animation.Shake)
	}
}

func TestConfigManager_PartialFileKeepsDefaults(t *testing.T) {
	cm := newTestManager(t)

	if err := os.WriteFile(cm.GetConfigPath(), []byte("max_items: 5\nanimation:\n  shake: 2s\n"), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := cm.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.MaxItems != 5 {
		t.Errorf("Expected max items 5, got %d", config.MaxItems)
	}
	if config.Animation.Shake != 2*time.Second {
		t.Errorf("Expected shake 2s, got %s", config.Animation.Shake)
	}
	if config.Animation.Reveal != time.Second {
		t.Errorf("Expected default reveal 1s, got %s", config.Animation.Reveal)
	}
	if config.HistoryLimit != 50 {
		t.Errorf("Expected default history limit 50, got %d", config.HistoryLimit)
	}
}

func TestConfigManager_MalformedFile(t *testing.T) {
	cm := newTestManager(t)

	if err := os.WriteFile(cm.GetConfigPath(), []byte("history_limit: [oops"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := cm.Load(); err == nil {
		t.Error("Expected error for malformed config file")
	}
}

func TestConfigManager_EnvOverrides(t *testing.T) {
	cm := newTestManager(t)
	if err := cm.Update("max-items", "10"); err != nil {
		t.Fatalf("Failed to update config: %v", err)
	}

	t.Setenv("OMIKUJI_MAX_ITEMS", "12")
	t.Setenv("OMIKUJI_STORAGE_DRIVER", "memory")
	t.Setenv("OMIKUJI_ANIMATION_REVEAL", "300ms")
	t.Setenv("OMIKUJI_HISTORY_ENABLED", "false")

	config, err := cm.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.MaxItems != 12 {
		t.Errorf("Expected env max items 12, got %d", config.MaxItems)
	}
	if config.Storage.Driver != DriverMemory {
		t.Errorf("Expected env driver memory, got %s", config.Storage.Driver)
	}
	if config.Animation.Reveal != 300*time.Millisecond {
		t.Errorf("Expected env reveal 300ms, got %s", config.Animation.Reveal)
	}
	if config.HistoryEnabled {
		t.Error("Expected env to disable history")
	}

	// Overrides are not written back to the file.
	fileConfig, err := cm.LoadFile()
	if err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}
	if fileConfig.MaxItems != 10 {
		t.Errorf("Expected file max items 10, got %d", fileConfig.MaxItems)
	}
}

func TestConfigManager_InvalidEnvOverride(t *testing.T) {
	cm := newTestManager(t)
	t.Setenv("OMIKUJI_HISTORY_LIMIT", "lots")

	if _, err := cm.Load(); err == nil {
		t.Error("Expected error for non-numeric OMIKUJI_HISTORY_LIMIT")
	}
}

func TestConfigManager_EnvFile(t *testing.T) {
	cm := newTestManager(t)
	envPath := filepath.Join(filepath.Dir(cm.GetConfigPath()), ".env")
	if err := os.WriteFile(envPath, []byte("OMIKUJI_LOG_LEVEL=debug\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// godotenv sets the variable directly; register it for cleanup.
	t.Setenv("OMIKUJI_LOG_LEVEL", "")
	os.Unsetenv("OMIKUJI_LOG_LEVEL")

	config, err := cm.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.LogLevel != "debug" {
		t.Errorf("Expected log level from .env, got %s", config.LogLevel)
	}
}

func TestConfigManager_Validation(t *testing.T) {
	cm := newTestManager(t)

	tests := []struct {
		name        string
		config      *Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			config:      &Config{HistoryLimit: 50},
			expectError: false,
		},
		{
			name:        "zero history limit",
			config:      &Config{HistoryLimit: 0},
			expectError: true,
			errorMsg:    "history_limit must be greater than 0",
		},
		{
			name:        "negative history limit",
			config:      &Config{HistoryLimit: -5},
			expectError: true,
			errorMsg:    "history_limit must be greater than 0",
		},
		{
			name:        "excessive history limit",
			config:      &Config{HistoryLimit: 1500},
			expectError: true,
			errorMsg:    "history_limit cannot exceed 1000 items",
		},
		{
			name:        "negative max items",
			config:      &Config{HistoryLimit: 10, MaxItems: -1},
			expectError: true,
			errorMsg:    "max_items must not be negative",
		},
		{
			name:        "unknown driver",
			config:      &Config{HistoryLimit: 10, Storage: StorageConfig{Driver: "etcd"}},
			expectError: true,
			errorMsg:    `storage.driver must be one of sqlite, memory, redis (got "etcd")`,
		},
		{
			name:        "redis without address",
			config:      &Config{HistoryLimit: 10, Storage: StorageConfig{Driver: DriverRedis}},
			expectError: true,
			errorMsg:    "storage.redis_addr is required for the redis driver",
		},
		{
			name:        "negative delay",
			config:      &Config{HistoryLimit: 10, Animation: AnimationConfig{Shake: -time.Second}},
			expectError: true,
			errorMsg:    "animation delays must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cm.Save(tt.config)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %s, but got none", tt.name)
				} else if tt.errorMsg != "" && err.Error() != "invalid configuration: "+tt.errorMsg {
					t.Errorf("Expected error message '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error for %s: %v", tt.name, err)
				}
			}
		})
	}
}

func TestConfigManager_Update(t *testing.T) {
	cm := newTestManager(t)

	tests := []struct {
		name        string
		key         string
		value       string
		expectError bool
	}{
		{"valid history-limit", "history-limit", "100", false},
		{"valid history-enabled", "history-enabled", "false", false},
		{"valid max-items", "max-items", "0", false},
		{"valid storage-driver", "storage-driver", "memory", false},
		{"valid storage-path", "storage-path", "/tmp/omikuji.db", false},
		{"valid storage-timeout", "storage-timeout", "3s", false},
		{"valid shake-delay", "shake-delay", "2s", false},
		{"valid haptics", "haptics", "false", false},
		{"valid log-level", "log-level", "debug", false},
		{"invalid key", "invalid-key", "value", true},
		{"invalid history-limit", "history-limit", "not-a-number", true},
		{"out of range history-limit", "history-limit", "5000", true},
		{"invalid haptics", "haptics", "maybe", true},
		{"invalid reveal-delay", "reveal-delay", "soon", true},
		{"invalid driver", "storage-driver", "etcd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cm.Update(tt.key, tt.value)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %s, but got none", tt.name)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error for %s: %v", tt.name, err)
				}

				retrievedValue, err := cm.Get(tt.key)
				if err != nil {
					t.Errorf("Failed to get value after update: %v", err)
				} else if retrievedValue != tt.value {
					t.Errorf("Expected retrieved value %s, got %s", tt.value, retrievedValue)
				}
			}
		})
	}
}

func TestConfigManager_Get(t *testing.T) {
	cm := newTestManager(t)

	config := DefaultConfig()
	config.HistoryLimit = 75
	config.Haptics = false
	config.Storage.Path = "/test/omikuji.db"
	if err := cm.Save(config); err != nil {
		t.Fatalf("Failed to save test config: %v", err)
	}

	tests := []struct {
		name          string
		key           string
		expectedValue string
		expectError   bool
	}{
		{"get history-limit", "history-limit", "75", false},
		{"get haptics", "haptics", "false", false},
		{"get storage-path", "storage-path", "/test/omikuji.db", false},
		{"get reveal-delay", "reveal-delay", "1s", false},
		{"get invalid key", "invalid-key", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := cm.Get(tt.key)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %s, but got none", tt.name)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error for %s: %v", tt.name, err)
				} else if value != tt.expectedValue {
					t.Errorf("Expected value %s, got %s", tt.expectedValue, value)
				}
			}
		})
	}
}

func TestConfigManager_List(t *testing.T) {
	cm := newTestManager(t)

	values, err := cm.List()
	if err != nil {
		t.Fatalf("Failed to list default config: %v", err)
	}

	for _, key := range Keys() {
		if _, exists := values[key]; !exists {
			t.Errorf("Expected key %s to exist in list output", key)
		}
	}

	if values["history-limit"] != "50" {
		t.Errorf("Expected default history-limit 50, got %s", values["history-limit"])
	}
	if values["storage-path"] != "[default]" {
		t.Errorf("Expected default storage-path [default], got %s", values["storage-path"])
	}
}

func TestConfigManager_GetConfigPath(t *testing.T) {
	configPath := "/test/config/path.yaml"
	cm := NewConfigManagerWithPath(configPath)

	if cm.GetConfigPath() != configPath {
		t.Errorf("Expected config path %s, got %s", configPath, cm.GetConfigPath())
	}
}

func TestNewConfigManager(t *testing.T) {
	cm, err := NewConfigManager()
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	configPath := cm.GetConfigPath()
	if !filepath.IsAbs(configPath) {
		t.Errorf("Expected absolute config path, got %s", configPath)
	}

	if !strings.HasSuffix(configPath, filepath.Join(".config", "omikuji", "config.yaml")) {
		t.Errorf("Expected config path to end with .config/omikuji/config.yaml, got %s", configPath)
	}
}
