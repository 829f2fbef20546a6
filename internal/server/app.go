// Package server assembles the checklist service from its configuration and
// runs the HTTP API until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/termblocks/checklist/internal/logging"
	"github.com/termblocks/checklist/internal/server/config"
	api "github.com/termblocks/checklist/internal/server/http"
	"github.com/termblocks/checklist/internal/server/repositories/repomanager"
	"github.com/termblocks/checklist/internal/server/services"
	"github.com/termblocks/checklist/internal/server/storage"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	server      *api.Server
}

// NewApp connects the database, applies migrations, opens file storage and
// builds the HTTP server. Logs go to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogFormat, w)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	rm, err := openRepositoryManager(ctx, c)
	if err != nil {
		return nil, err
	}

	st, err := openStorage(ctx, c)
	if err != nil {
		_ = rm.Close()
		return nil, err
	}

	cs := services.NewChecklistService(rm, st, c, logger)
	us := services.NewUserService(rm, logger)

	router := api.NewRouter(cs, us, logger.With("module", "http"))
	srv := api.NewServer(c.HTTPAddr, router, c.ShutdownTimeout, logger)

	return &App{config: c, logger: logger, repomanager: rm, server: srv}, nil
}

func openRepositoryManager(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == config.MemoryDSN {
		return repomanager.NewInMemoryRepositoryManager(), nil
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	return rm, nil
}

func openStorage(ctx context.Context, c *config.Config) (storage.Storage, error) {
	switch c.Storage {
	case config.StorageLocal:
		st, err := storage.NewLocalStorage(c.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("storage init error: %w", err)
		}
		return st, nil
	case config.StorageS3:
		st, err := storage.NewS3Storage(ctx, storage.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("storage init error: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.Storage)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if cerr := app.repomanager.Close(); cerr != nil {
		app.logger.Warn(ctx, "close database", "error", cerr)
	}
	if err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
