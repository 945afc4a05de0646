package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const configFileName = "config.toml"

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	configDir string
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a configuration manager rooted at the XDG config directory.
func NewManager() (*Manager, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return NewManagerWithDir(configDir)
}

// NewManagerWithDir creates a configuration manager reading configDir/config.toml.
func NewManagerWithDir(configDir string) (*Manager, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	// LEXGRID_DATABASE_PATH, LEXGRID_WORKSPACE_WINDOW_STATE_ID, ...
	v.SetEnvPrefix("LEXGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Shorter names shared with logging.NewFromEnv.
	if err := v.BindEnv("logging.level", "LEXGRID_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind LEXGRID_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "LEXGRID_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind LEXGRID_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		configDir: configDir,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
// A default config file is written on first run.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.configDir, dirPerm); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", m.configDir, err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.buildConfig()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.ConfigFile(), err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf("failed to create default config at %s: %w", m.configDir, createErr)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

// buildConfig unmarshals, fills derived values and validates.
func (m *Manager) buildConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.ConfigFile(),
			err,
		)
	}
	if err := ensureDatabasePath(config); err != nil {
		return nil, err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func ensureDatabasePath(config *Config) error {
	if config.Database.Path != "" {
		return nil
	}
	dbPath, err := GetDatabaseFile()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	config.Database.Path = dbPath
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	config.Workspace.WindowStateID = strings.TrimSpace(config.Workspace.WindowStateID)
	config.LanguageServer.Command = strings.TrimSpace(config.LanguageServer.Command)
	if config.LanguageServer.Args == nil {
		config.LanguageServer.Args = []string{}
	}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	configCopy.LanguageServer.Args = append([]string(nil), m.config.LanguageServer.Args...)
	return &configCopy
}

// ConfigFile returns the path of the configuration file.
func (m *Manager) ConfigFile() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(m.configDir, configFileName)
}

// createDefaultConfig writes the default config and its JSON schema.
func (m *Manager) createDefaultConfig() error {
	configFile := filepath.Join(m.configDir, configFileName)
	if err := WriteConfigFile(DefaultConfig(), configFile); err != nil {
		return err
	}
	if err := GenerateSchemaFile(m.configDir); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Created default configuration file: %s\n", configFile)
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Empty so LEXGRID_DATABASE_PATH is picked up by AutomaticEnv; resolved in Load.
	m.viper.SetDefault("database.path", "")

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)

	m.viper.SetDefault("workspace.window_state_id", defaults.Workspace.WindowStateID)
	m.viper.SetDefault("workspace.snapshot_interval_ms", defaults.Workspace.SnapshotIntervalMs)
	m.viper.SetDefault("workspace.resize_step_percent", defaults.Workspace.ResizeStepPercent)
	m.viper.SetDefault("workspace.check_workers", defaults.Workspace.CheckWorkers)

	m.viper.SetDefault("language_server.command", defaults.LanguageServer.Command)
	m.viper.SetDefault("language_server.args", defaults.LanguageServer.Args)
}
