package config

// Default configuration constants
const (
	defaultLogLevel  = "info"
	defaultLogFormat = "console"

	defaultWindowStateID      = "main"
	defaultSnapshotIntervalMs = 500
	defaultResizeStepPercent  = 5.0
	defaultCheckWorkers       = 8

	minSnapshotIntervalMs = 50
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Workspace: WorkspaceConfig{
			WindowStateID:      defaultWindowStateID,
			SnapshotIntervalMs: defaultSnapshotIntervalMs,
			ResizeStepPercent:  defaultResizeStepPercent,
			CheckWorkers:       defaultCheckWorkers,
		},
		LanguageServer: LanguageServerConfig{
			Args: []string{},
		},
	}
}
