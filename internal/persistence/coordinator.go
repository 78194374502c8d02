package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"evcharge-dashboard-go/internal/database"
	"evcharge-dashboard-go/internal/security"
	"evcharge-dashboard-go/internal/snapshot"
	"evcharge-dashboard-go/internal/store"

	"go.uber.org/zap"
)

// Store is the part of the embedded database the coordinator drives.
type Store interface {
	Export(ctx context.Context) ([]byte, error)
	Load(ctx context.Context, image []byte) error
	Reset(ctx context.Context) error
	Seed(ctx context.Context, seed *database.SeedData, hasher security.Hasher) error
}

// Error reports that a mutation is visible in memory but its snapshot could
// not be written, so a restart would lose it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("persistence failed after %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PartiallyApplied is implemented by errors returned after some writes
// already landed. Mutate persists the visible state before returning them.
type PartiallyApplied interface {
	PartiallyApplied() bool
}

func partiallyApplied(err error) bool {
	var p PartiallyApplied
	return errors.As(err, &p) && p.PartiallyApplied()
}

// Coordinator owns the lifecycle of the snapshot: load or seed at start, and
// re-export after every successful mutation. Mutations go through one lock.
type Coordinator struct {
	mu          sync.Mutex
	db          Store
	blobs       snapshot.BlobStore
	key         string
	timeout     time.Duration
	seed        *database.SeedData
	hasher      security.Hasher
	initialized bool
}

func NewCoordinator(db Store, blobs snapshot.BlobStore, key string, timeout time.Duration, seed *database.SeedData, hasher security.Hasher) *Coordinator {
	return &Coordinator{
		db:      db,
		blobs:   blobs,
		key:     key,
		timeout: timeout,
		seed:    seed,
		hasher:  hasher,
	}
}

// Initialize loads the stored snapshot, or seeds and persists a fresh
// database when there is none or it cannot be loaded. Calling it again is a
// no-op.
func (c *Coordinator) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		zap.L().Debug("Persistence already initialized")
		return nil
	}

	image, err := c.get(ctx)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		zap.L().Info("No snapshot found, seeding defaults", zap.String("key", c.key))
		return c.reseed(ctx, "initialize")
	case err != nil:
		zap.L().Error("Failed to read snapshot", zap.String("key", c.key), zap.Error(err))
		return &Error{Op: "initialize", Err: fmt.Errorf("unable to read snapshot: %w", err)}
	}

	if err := c.db.Load(ctx, image); err != nil {
		if !errors.Is(err, store.ErrCorruptImage) {
			return fmt.Errorf("unable to load snapshot: %w", err)
		}
		zap.L().Warn("Snapshot is corrupt, seeding defaults",
			zap.String("key", c.key),
			zap.Int("bytes", len(image)),
			zap.Error(err))
		return c.reseed(ctx, "initialize")
	}

	c.initialized = true
	zap.L().Info("Snapshot loaded", zap.String("key", c.key), zap.Int("bytes", len(image)))
	return nil
}

// Ready reports whether the database holds loaded or seeded state.
func (c *Coordinator) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// AfterMutation exports the current image and overwrites the snapshot. On
// failure the in-memory state is kept and an *Error is returned.
func (c *Coordinator) AfterMutation(ctx context.Context, op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persist(ctx, op)
}

// Mutate runs fn under the coordinator lock and persists when it succeeds,
// or when it fails with an error that reports PartiallyApplied. A snapshot
// failure is joined with fn's own error in the latter case.
func (c *Coordinator) Mutate(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := fn(ctx)
	if err != nil && !partiallyApplied(err) {
		return err
	}

	if perr := c.persist(ctx, op); perr != nil {
		if err != nil {
			return errors.Join(err, perr)
		}
		return perr
	}
	return err
}

// Reset drops the snapshot and starts again from the seed dataset.
func (c *Coordinator) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	zap.L().Warn("Resetting persisted state", zap.String("key", c.key))

	delCtx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := c.blobs.Delete(delCtx, c.key); err != nil {
		return &Error{Op: "reset", Err: fmt.Errorf("unable to delete snapshot: %w", err)}
	}
	return c.reseed(ctx, "reset")
}

func (c *Coordinator) reseed(ctx context.Context, op string) error {
	if err := c.db.Reset(ctx); err != nil {
		return fmt.Errorf("unable to reset database: %w", err)
	}
	if err := c.db.Seed(ctx, c.seed, c.hasher); err != nil {
		return fmt.Errorf("unable to seed database: %w", err)
	}

	// The seeded state is usable even if the first write fails
	c.initialized = true
	return c.persist(ctx, op)
}

func (c *Coordinator) persist(ctx context.Context, op string) error {
	image, err := c.db.Export(ctx)
	if err != nil {
		zap.L().Error("Failed to export database", zap.String("op", op), zap.Error(err))
		return &Error{Op: op, Err: err}
	}

	putCtx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := c.blobs.Put(putCtx, c.key, image); err != nil {
		zap.L().Error("Failed to write snapshot",
			zap.String("op", op),
			zap.String("key", c.key),
			zap.Error(err))
		return &Error{Op: op, Err: err}
	}

	zap.L().Debug("Snapshot written", zap.String("op", op), zap.Int("bytes", len(image)))
	return nil
}

func (c *Coordinator) get(ctx context.Context) ([]byte, error) {
	getCtx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.blobs.Get(getCtx, c.key)
}

func (c *Coordinator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
