package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bnema/lexgrid/internal/application/port"
	"github.com/bnema/lexgrid/internal/domain/entity"
	"github.com/bnema/lexgrid/internal/domain/repository"
	"github.com/bnema/lexgrid/internal/logging"
)

// LazyDB implements port.DatabaseProvider with lazy initialization.
// The connection is created on first access, deferring the WASM compilation and
// migration cost until a command actually reads or writes settings.
type LazyDB struct {
	dbPath string
	db     *sql.DB
	err    error
	once   sync.Once
	mu     sync.RWMutex
}

var _ port.DatabaseProvider = (*LazyDB)(nil)

// NewLazyDB creates a new lazy database provider.
func NewLazyDB(dbPath string) *LazyDB {
	return &LazyDB{dbPath: dbPath}
}

// DB returns the database connection, initializing it if necessary.
func (l *LazyDB) DB(ctx context.Context) (*sql.DB, error) {
	l.once.Do(func() {
		log := logging.FromContext(ctx)
		log.Debug().Str("path", l.dbPath).Msg("lazy database initialization starting")

		db, err := NewConnection(ctx, l.dbPath)
		l.mu.Lock()
		l.db, l.err = db, err
		l.mu.Unlock()

		if err != nil {
			log.Error().Err(err).Msg("lazy database initialization failed")
		}
	})

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.err != nil {
		return nil, fmt.Errorf("database initialization failed: %w", l.err)
	}
	return l.db, nil
}

// Close closes the database connection if it was initialized.
func (l *LazyDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// IsInitialized returns true if the database has been initialized.
func (l *LazyDB) IsInitialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db != nil
}

// Path returns the database path.
func (l *LazyDB) Path() string {
	return l.dbPath
}

// LazySettingsRepository resolves its database on first use.
type LazySettingsRepository struct {
	provider port.DatabaseProvider
	repo     repository.SettingsRepository
	once     sync.Once
	initErr  error
}

// NewLazySettingsRepository creates a settings repository that opens the database on demand.
func NewLazySettingsRepository(provider port.DatabaseProvider) *LazySettingsRepository {
	return &LazySettingsRepository{provider: provider}
}

func (r *LazySettingsRepository) init(ctx context.Context) error {
	r.once.Do(func() {
		db, err := r.provider.DB(ctx)
		if err != nil {
			r.initErr = err
			return
		}
		r.repo = NewSettingsRepository(db)
	})
	return r.initErr
}

// Get implements repository.SettingsRepository.
func (r *LazySettingsRepository) Get(ctx context.Context, windowStateID string) (entity.SettingsRecord, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.Get(ctx, windowStateID)
}

// Set implements repository.SettingsRepository.
func (r *LazySettingsRepository) Set(ctx context.Context, windowStateID, key string, value json.RawMessage) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Set(ctx, windowStateID, key, value)
}
