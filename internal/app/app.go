package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/league/internal/common"
	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/services/league"
	"github.com/bobmcallan/league/internal/storage"
)

// App holds the initialized storage and services.
// It is the shared core used by cmd/league-server.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Storage       interfaces.StorageManager
	LeagueService interfaces.LeagueService
	StartupTime   time.Time

	recorderCancel context.CancelFunc
	recorderDone   chan struct{}
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: the given path, LEAGUE_CONFIG,
// league.toml next to the binary, then config/league.toml.
func ResolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("LEAGUE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "league.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/league.toml" // fallback for development
		}
	}
	return configPath
}

// NewApp loads configuration and initializes storage and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewAppWithConfig(config)
}

// NewAppWithConfig initializes storage and services from a loaded config.
func NewAppWithConfig(config *common.Config) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	leagueService := league.NewService(storageManager, logger,
		league.WithMinSpacing(config.Recorder.GetMinSpacing()),
		league.WithChartSize(config.Chart.Width, config.Chart.Height),
	)

	a := &App{
		Config:        config,
		Logger:        logger,
		Storage:       storageManager,
		LeagueService: leagueService,
		StartupTime:   startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: stop recorder, close storage.
func (a *App) Close() {
	if a.recorderCancel != nil {
		a.recorderCancel()
		<-a.recorderDone
		a.recorderCancel = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// StartRecorder launches the background snapshot recorder when enabled.
func (a *App) StartRecorder() {
	if !a.Config.Recorder.Enabled {
		a.Logger.Info().Msg("Snapshot recorder disabled")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.recorderCancel = cancel
	a.recorderDone = make(chan struct{})

	interval := a.Config.Recorder.GetInterval()
	a.Logger.Info().Dur("interval", interval).Msg("Snapshot recorder started")
	go func() {
		defer close(a.recorderDone)
		startRecorder(ctx, a.LeagueService, a.Logger, interval)
	}()
}
