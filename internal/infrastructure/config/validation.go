package config

import (
	"fmt"
	"strings"
)

// validateConfig performs validation of configuration values.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateWorkspace(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "off", "disabled":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of trace, debug, info, warn, error, off (got %q)", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be console or json (got %q)", config.Logging.Format))
	}
	return validationErrors
}

func validateWorkspace(config *Config) []string {
	var validationErrors []string
	ws := config.Workspace
	if strings.TrimSpace(ws.WindowStateID) == "" {
		validationErrors = append(validationErrors, "workspace.window_state_id must not be empty")
	}
	if ws.SnapshotIntervalMs < minSnapshotIntervalMs {
		validationErrors = append(validationErrors,
			fmt.Sprintf("workspace.snapshot_interval_ms must be at least %d", minSnapshotIntervalMs))
	}
	if ws.ResizeStepPercent <= 0 || ws.ResizeStepPercent > 100 {
		validationErrors = append(validationErrors, "workspace.resize_step_percent must be in (0, 100]")
	}
	if ws.CheckWorkers < 1 {
		validationErrors = append(validationErrors, "workspace.check_workers must be at least 1")
	}
	return validationErrors
}
