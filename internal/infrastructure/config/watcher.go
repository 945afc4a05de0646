package config

import (
	"github.com/fsnotify/fsnotify"

	"github.com/bnema/lexgrid/internal/logging"
)

// Watch starts watching the config file for changes and reloads automatically.
// Invalid edits are logged and the previous configuration is kept.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}

	m.viper.OnConfigChange(m.handleConfigEvent)
	m.viper.WatchConfig()

	m.watching = true
	return nil
}

func (m *Manager) handleConfigEvent(e fsnotify.Event) {
	log := logging.NewFromEnv()
	log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("fsnotify config change detected")

	m.mu.Lock()
	if err := m.reload(); err != nil {
		m.mu.Unlock()
		log.Warn().Err(err).Msg("failed to reload config")
		return
	}
	m.notifyCallbacksLocked()
}

// notifyCallbacksLocked copies callbacks and config, releases lock, then notifies.
// Must be called with m.mu held for write.
func (m *Manager) notifyCallbacksLocked() {
	config := *m.config
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, callback := range callbacks {
		callback(&config)
	}
}

// OnConfigChange registers a callback function to be called when config changes.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// reload re-reads the file. Must be called with the lock held for write.
func (m *Manager) reload() error {
	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}
	config, err := m.buildConfig()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}
