package snapshot

import (
	"context"
	"errors"
	"fmt"

	"evcharge-dashboard-go/internal/models"

	"go.uber.org/zap"
)

// ErrNotFound is returned by Get when the key holds no blob.
var ErrNotFound = errors.New("snapshot: blob not found")

// BlobStore is a byte-oriented key/value surface that survives restarts.
// Put overwrites; the last writer wins.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// New builds the backend named by cfg.Backend.
func New(ctx context.Context, cfg models.SnapshotConfig) (BlobStore, error) {
	zap.L().Info("Opening snapshot store", zap.String("backend", cfg.Backend))

	switch cfg.Backend {
	case "file", "":
		return NewFileStore(cfg.Dir)
	case "redis":
		return NewRedisStore(ctx, cfg.Redis)
	case "minio":
		return NewMinioStore(ctx, cfg.Minio)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Backend)
	}
}
