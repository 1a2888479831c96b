package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"server-runner/internal/auth"
	"server-runner/internal/backups"
	"server-runner/internal/containers"
	"server-runner/internal/events"
	internalhttp "server-runner/internal/http"
	"server-runner/internal/serverlogs"
	"server-runner/internal/shared/configs"
	"server-runner/internal/shared/databases"
	"server-runner/internal/shared/filestorages"
	"server-runner/internal/shared/loggers"
	"server-runner/internal/shared/objectstores"
	"server-runner/internal/stores"
	"server-runner/internal/streams"
	"server-runner/internal/syncs"

	"gorm.io/gorm"
)

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	logFile          io.Closer
	db               *gorm.DB
	remoteStore      objectstores.RemoteStore
	containerService containers.ContainerService

	uploadQueue      *streams.PartitionedQueue[events.BackupCreatedEvent]
	uploadConsumer   streams.BackupUploadConsumer
	backgroundCtx    context.Context
	backgroundCancel context.CancelFunc
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	var logFile io.WriteCloser
	var extraWriters []io.Writer
	if config.Log.File != "" {
		logFile = loggers.NewRotatingFile(loggers.RotatingFileOptions{
			Filename:   config.Log.File,
			MaxSizeMB:  config.Log.MaxSizeMB,
			MaxBackups: config.Log.MaxBackups,
			Compress:   true,
		})
		extraWriters = append(extraWriters, logFile)
	}
	appLogger, err := loggers.New(config.Log.Level, extraWriters...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "server-runner").
		Logger()

	// Initialize backup history
	db, err := databases.Open(config.Database, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	historyStore := stores.NewNopBackupHistoryStore()
	if db != nil {
		historyStore, err = stores.NewBackupHistoryStore(db)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize history store: %w", err)
		}
	}

	// Initialize archive storage
	if err := os.MkdirAll(config.Backups.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	fileStorage, err := filestorages.NewFileStorage(config.Backups.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize remote sync
	remoteStore, err := objectstores.New(context.Background(), config.Sync)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote store: %w", err)
	}
	syncService := syncs.NewSyncService(remoteStore, fileStorage, historyStore, config.Sync)

	// Initialize auto-upload stream
	var uploadQueue *streams.PartitionedQueue[events.BackupCreatedEvent]
	var uploadConsumer streams.BackupUploadConsumer
	uploadProducer := streams.NewNopBackupUploadProducer()
	if config.Sync.AutoUpload && remoteStore != nil {
		uploadQueue = streams.NewPartitionedQueue[events.BackupCreatedEvent]()
		uploadProducer = streams.NewBackupUploadProducer(uploadQueue)
		consumerLogger := appLogger.With().Str(loggers.FieldComponent, "consumer").Logger()
		uploadConsumer = streams.NewBackupUploadConsumer(uploadQueue, syncService, consumerLogger)
	}

	// Initialize container control
	containerService := containers.NewDisabledContainerService(config.Containers.Name)
	if config.Containers.Enabled {
		containerService, err = containers.NewDockerContainerService(config.Containers, config.Backups.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize container service: %w", err)
		}
	}

	backupService := backups.NewBackupService(config.Backups, fileStorage, historyStore, containerService, uploadProducer)
	authService := auth.NewAuthService(config.Auth)
	logReader := serverlogs.NewFileLogReader(config.ServerLogs.File)

	// Initialize http router
	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(internalhttp.Services{
		Auth:       authService,
		Backups:    backupService,
		Containers: containerService,
		Logs:       logReader,
		Sync:       syncService,
	}, internalhttp.RouterOptions{
		AllowedOrigin:  config.CORS.AllowedOrigin,
		MaxUploadBytes: config.Backups.MaxUploadBytes,
	}, httpLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:           config,
		appLogger:        appLogger,
		server:           server,
		logFile:          logFile,
		db:               db,
		remoteStore:      remoteStore,
		containerService: containerService,
		uploadQueue:      uploadQueue,
		uploadConsumer:   uploadConsumer,
	}, nil
}

// Start starts the HTTP server in a blocking manner.
func (app *App) Start() error {
	app.appLogger.Info().
		Msgf("Starting server-runner on port %d (log_level=%s, backups_dir=%s, data_dir=%s, containers=%t, sync_provider=%q, history_db=%s)",
			app.config.Server.Port,
			app.config.Log.Level,
			app.config.Backups.Dir,
			app.config.Backups.DataDir,
			app.config.Containers.Enabled,
			app.config.Sync.Provider,
			app.config.Database.Driver)

	// start background consumers
	app.backgroundCtx, app.backgroundCancel = context.WithCancel(context.Background())
	if app.uploadConsumer != nil {
		app.uploadConsumer.Start(app.backgroundCtx)
	}

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the application.
func (app *App) Shutdown(ctx context.Context) error {
	// 1) Shutdown server
	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")

	// 2) Refuse new upload events and drain the queued ones; an expired ctx cancels the rest
	if app.uploadQueue != nil {
		app.uploadQueue.Close()
	}
	if app.uploadConsumer != nil {
		stopped := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				if app.backgroundCancel != nil {
					app.backgroundCancel()
				}
			case <-stopped:
			}
		}()
		app.uploadConsumer.Stop()
		close(stopped)
		app.appLogger.Info().Msg("Background consumers stopped")
	}
	if app.backgroundCancel != nil {
		app.backgroundCancel()
	}

	// 3) Release clients; the game server container is left as it is
	var errs []error
	if err := app.containerService.Close(); err != nil {
		errs = append(errs, fmt.Errorf("container client close failed: %w", err))
	}
	if app.remoteStore != nil {
		if err := app.remoteStore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("remote store close failed: %w", err))
		}
	}
	if err := databases.Close(app.db); err != nil {
		errs = append(errs, fmt.Errorf("database close failed: %w", err))
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
	}

	return errors.Join(errs...)
}
