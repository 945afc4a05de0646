// Package config loads lexgrid settings from TOML files, environment variables and defaults.
package config

// Config represents the complete configuration for lexgrid.
type Config struct {
	Database       DatabaseConfig       `mapstructure:"database" toml:"database" json:"database"`
	Logging        LoggingConfig        `mapstructure:"logging" toml:"logging" json:"logging"`
	Workspace      WorkspaceConfig      `mapstructure:"workspace" toml:"workspace" json:"workspace"`
	LanguageServer LanguageServerConfig `mapstructure:"language_server" toml:"language_server" json:"language_server"`
}

// DatabaseConfig holds the settings store location.
type DatabaseConfig struct {
	// Path of the sqlite file. Empty means $XDG_DATA_HOME/lexgrid/lexgrid.sqlite.
	Path string `mapstructure:"path" toml:"path" json:"path" jsonschema:"description=SQLite settings database path"`
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=off"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
}

// WorkspaceConfig holds layout engine tunables.
type WorkspaceConfig struct {
	// WindowStateID scopes persisted layouts. One id per window.
	WindowStateID      string  `mapstructure:"window_state_id" toml:"window_state_id" json:"window_state_id"`
	SnapshotIntervalMs int     `mapstructure:"snapshot_interval_ms" toml:"snapshot_interval_ms" json:"snapshot_interval_ms" jsonschema:"minimum=50"`
	ResizeStepPercent  float64 `mapstructure:"resize_step_percent" toml:"resize_step_percent" json:"resize_step_percent" jsonschema:"exclusiveMinimum=0,maximum=100"`
	// CheckWorkers bounds concurrent file existence checks during restore.
	CheckWorkers int `mapstructure:"check_workers" toml:"check_workers" json:"check_workers" jsonschema:"minimum=1"`
}

// LanguageServerConfig describes the optional language server process.
type LanguageServerConfig struct {
	// Command is empty when no language server should be started.
	Command string   `mapstructure:"command" toml:"command" json:"command"`
	Args    []string `mapstructure:"args" toml:"args" json:"args"`
}

// Enabled reports whether a language server command is configured.
func (c LanguageServerConfig) Enabled() bool {
	return c.Command != ""
}
