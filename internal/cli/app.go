// Package cli wires lexgrid's layout engine for command-line use.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/bnema/lexgrid/internal/application/usecase"
	"github.com/bnema/lexgrid/internal/cli/styles"
	"github.com/bnema/lexgrid/internal/domain/repository"
	"github.com/bnema/lexgrid/internal/infrastructure/config"
	"github.com/bnema/lexgrid/internal/infrastructure/filesystem"
	"github.com/bnema/lexgrid/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/lexgrid/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config *config.Config
	Theme  *styles.Theme

	configMgr *config.Manager

	db       *sqlite.LazyDB
	Settings repository.SettingsRepository
	Files    *filesystem.Adapter
	IDs      usecase.IDGenerator

	// Use cases
	PanesUC   *usecase.ManagePanesUseCase
	TabsUC    *usecase.ManageTabsUseCase
	SaveUC    *usecase.SaveLayoutUseCase
	RestoreUC *usecase.RestoreLayoutUseCase

	windowStateID string
	ctx           context.Context
}

// Options override config values from command-line flags.
type Options struct {
	WindowStateID string
	DatabasePath  string
}

// NewApp loads configuration and builds the use cases. The database is opened
// on first use.
func NewApp(opts Options) (*App, error) {
	mgr, cfg := loadConfig()
	if opts.DatabasePath != "" {
		cfg.Database.Path = opts.DatabasePath
	}

	// The logger passes everything; the configured level is applied globally so a
	// config reload can change it.
	logger := logging.NewFromConfigValues("trace", cfg.Logging.Format)
	logging.SetGlobalLevel(cfg.Logging.Level)
	ctx := logging.WithContext(context.Background(), logger)

	windowStateID := cfg.Workspace.WindowStateID
	if opts.WindowStateID != "" {
		windowStateID = opts.WindowStateID
	}
	ctx = logging.WithWindowStateID(ctx, windowStateID)

	db := sqlite.NewLazyDB(cfg.Database.Path)
	settings := sqlite.NewLazySettingsRepository(db)
	files := filesystem.New()
	ids := usecase.NewIDGenerator()

	logger.Debug().Str("db_path", cfg.Database.Path).Msg("cli app initialized")

	return &App{
		Config:        cfg,
		configMgr:     mgr,
		Theme:         styles.NewTheme(),
		db:            db,
		Settings:      settings,
		Files:         files,
		IDs:           ids,
		PanesUC:       usecase.NewManagePanesUseCase(ids),
		TabsUC:        usecase.NewManageTabsUseCase(ids),
		SaveUC:        usecase.NewSaveLayoutUseCase(settings, ids),
		RestoreUC:     usecase.NewRestoreLayoutUseCase(settings, files, ids, cfg.Workspace.CheckWorkers),
		windowStateID: windowStateID,
		ctx:           ctx,
	}, nil
}

// loadConfig loads the config file, falling back to defaults on error. The
// manager is nil when the defaults are used.
func loadConfig() (*config.Manager, *config.Config) {
	mgr, err := config.NewManager()
	if err == nil {
		err = mgr.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: using default configuration: %v\n", err)
		cfg := config.DefaultConfig()
		if dbPath, dbErr := config.GetDatabaseFile(); dbErr == nil {
			cfg.Database.Path = dbPath
		}
		return nil, cfg
	}
	return mgr, mgr.Get()
}

// WatchConfig calls fn with the new configuration after every valid edit of the
// config file. It does nothing when the defaults are in use.
func (a *App) WatchConfig(fn func(*config.Config)) error {
	if a.configMgr == nil {
		return nil
	}
	a.configMgr.OnConfigChange(fn)
	if err := a.configMgr.Watch(); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	return nil
}

// Ctx returns the context carrying the CLI logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// WindowStateID returns the settings scope the CLI operates on.
func (a *App) WindowStateID() string {
	return a.windowStateID
}

// Close releases the database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
