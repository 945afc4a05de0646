// Package snapshot persists the workspace layout in the background.
package snapshot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bnema/lexgrid/internal/application/port"
	"github.com/bnema/lexgrid/internal/application/usecase"
	"github.com/bnema/lexgrid/internal/logging"
)

const (
	// DefaultIntervalMs is the debounce delay used when none is configured.
	DefaultIntervalMs = 500

	defaultRetryDelay = 50 * time.Millisecond
	maxSaveAttempts   = 3
)

// Service handles debounced, fire-and-forget layout saves.
// Saves run one at a time; a change committed during a write is written next.
type Service struct {
	saveUC     *usecase.SaveLayoutUseCase
	provider   port.LayoutProvider
	interval   time.Duration
	retryDelay time.Duration
	saveMu     sync.Mutex

	mu     sync.Mutex
	timer  *time.Timer
	dirty  bool
	ctx    context.Context
	cancel context.CancelFunc
}

// NewService creates a new snapshot service.
func NewService(saveUC *usecase.SaveLayoutUseCase, provider port.LayoutProvider, intervalMs int) *Service {
	if intervalMs <= 0 {
		intervalMs = DefaultIntervalMs
	}
	return &Service{
		saveUC:     saveUC,
		provider:   provider,
		interval:   time.Duration(intervalMs) * time.Millisecond,
		retryDelay: defaultRetryDelay,
	}
}

// Start enables background saves.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(ctx)
	logging.FromContext(ctx).Debug().Dur("interval", s.interval).Msg("snapshot service started")
}

// Stop cancels pending saves and flushes the latest layout.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.ctx = nil
	s.mu.Unlock()

	return s.SaveNow(ctx)
}

// MarkDirty signals that the layout changed. Saves are debounced so a burst of
// mutations produces one write.
func (s *Service) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		if ctx == nil || ctx.Err() != nil {
			return
		}
		if err := s.save(ctx); err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("failed to save layout snapshot")
		}
	})
}

// Dirty reports whether a change has not been saved yet.
func (s *Service) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// SaveNow forces an immediate save when the layout is dirty. A save already in
// progress is waited for first.
func (s *Service) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	return s.save(ctx)
}

// save writes the current layout until no change is pending.
func (s *Service) save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	for s.Dirty() {
		if err := s.saveOnce(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) saveOnce(ctx context.Context) error {
	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()

	windowStateID := s.provider.WindowStateID()
	if windowStateID == "" {
		return nil
	}
	input := usecase.SaveLayoutInput{
		WindowStateID: windowStateID,
		Layout:        s.provider.CurrentLayout(),
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = s.saveUC.Execute(ctx, input)
		if err == nil || !isTransient(err) || attempt == maxSaveAttempts {
			break
		}
		logging.FromContext(ctx).Debug().
			Err(err).
			Int("attempt", attempt).
			Msg("transient layout save failure, retrying")

		timer := time.NewTimer(s.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			err = ctx.Err()
		case <-timer.C:
		}
		if ctx.Err() != nil {
			break
		}
	}

	if err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return fmt.Errorf("save layout snapshot: %w", err)
	}
	return nil
}

// isTransient matches SQLite lock contention, which clears once the other writer commits.
func isTransient(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
