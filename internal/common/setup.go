package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"evcharge-dashboard-go/internal/api"
	"evcharge-dashboard-go/internal/charging"
	"evcharge-dashboard-go/internal/database"
	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/persistence"
	"evcharge-dashboard-go/internal/security"
	"evcharge-dashboard-go/internal/session"
	"evcharge-dashboard-go/internal/snapshot"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

// Services is every component a command needs, wired to one store.
type Services struct {
	DbService   *database.Service
	Blobs       snapshot.BlobStore
	Coordinator *persistence.Coordinator
	Sessions    *session.Manager
	Charging    *charging.Service
	Dashboard   *api.DashboardService
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices opens the blob store and database, then loads the
// snapshot or seeds a fresh one. A *persistence.Error from the first write
// is logged and the services are still returned.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	blobs, err := snapshot.New(ctx, cfg.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("unable to open snapshot store: %w", err)
	}

	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		closeBlobs(blobs)
		return nil, err
	}

	zap.L().Info("Loading seed data", zap.String("seed_file", cfg.Database.SeedFile))
	seed, err := database.LoadSeed(cfg.Database.SeedFile)
	if err != nil {
		dbService.Close()
		closeBlobs(blobs)
		return nil, err
	}

	hasher := security.NewBcryptHasher(cfg.Accounts.BcryptCost)
	coordinator := persistence.NewCoordinator(dbService, blobs, cfg.Snapshot.Key, cfg.Snapshot.Timeout, seed, hasher)

	if err := coordinator.Initialize(ctx); err != nil {
		var persistErr *persistence.Error
		if !errors.As(err, &persistErr) || !coordinator.Ready() {
			dbService.Close()
			closeBlobs(blobs)
			return nil, err
		}
		zap.L().Warn("Initial snapshot not persisted; state will not survive a restart", zap.Error(err))
	}

	return &Services{
		DbService:   dbService,
		Blobs:       blobs,
		Coordinator: coordinator,
		Sessions:    session.NewManager(dbService, coordinator, blobs, cfg.Snapshot.SessionKey, hasher, cfg.Accounts.CustomerStartingBalance),
		Charging:    charging.NewService(dbService, coordinator, cfg.Charging),
		Dashboard:   api.NewDashboardService(dbService, coordinator, cfg.Accounts.TopUpAmount),
	}, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
	closeBlobs(cs.Blobs)
}

func closeBlobs(blobs snapshot.BlobStore) {
	if closer, ok := blobs.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			zap.L().Warn("Failed to close snapshot store", zap.Error(err))
		}
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
