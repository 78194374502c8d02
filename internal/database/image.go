package database

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"evcharge-dashboard-go/internal/store"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var sqliteHeader = []byte("SQLite format 3\x00")

// withRawConn runs fn on the driver connection that holds the database.
func withRawConn(ctx context.Context, db *sql.DB, fn func(*sqlite3.SQLiteConn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("unable to acquire connection: %w", err)
	}
	defer conn.Close()

	return conn.Raw(func(driverConn any) error {
		sqliteConn, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		return fn(sqliteConn)
	})
}

// Export returns the full binary image of the database.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	var image []byte
	err := withRawConn(ctx, s.db, func(conn *sqlite3.SQLiteConn) error {
		var err error
		image, err = conn.Serialize("main")
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unable to serialize database: %w", err)
	}

	zap.L().Debug("Database exported", zap.Int("bytes", len(image)))
	return image, nil
}

// Load replaces the database with a previously exported image. The image is
// checked in a scratch database first; on any problem store.ErrCorruptImage
// is returned and the current contents are left alone.
func (s *Service) Load(ctx context.Context, image []byte) error {
	if !bytes.HasPrefix(image, sqliteHeader) {
		return fmt.Errorf("%w: missing SQLite header (%d bytes)", store.ErrCorruptImage, len(image))
	}

	scratch, err := openMemoryDb()
	if err != nil {
		return err
	}
	defer scratch.Close()

	err = withRawConn(ctx, scratch, func(conn *sqlite3.SQLiteConn) error {
		return conn.Deserialize(image, "main")
	})
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrCorruptImage, err)
	}

	if err := verifyImage(ctx, scratch); err != nil {
		return fmt.Errorf("%w: %v", store.ErrCorruptImage, err)
	}

	// A deserialized database cannot grow, so the rows are copied into the
	// live connection with the backup API instead of deserializing in place.
	err = withRawConn(ctx, scratch, func(src *sqlite3.SQLiteConn) error {
		return withRawConn(ctx, s.db, func(dst *sqlite3.SQLiteConn) error {
			backup, err := dst.Backup("main", src, "main")
			if err != nil {
				return err
			}
			if _, err := backup.Step(-1); err != nil {
				backup.Finish()
				return err
			}
			return backup.Finish()
		})
	})
	if err != nil {
		return fmt.Errorf("unable to restore database image: %w", err)
	}

	zap.L().Info("Database image loaded", zap.Int("bytes", len(image)))
	return nil
}

func verifyImage(ctx context.Context, db *sql.DB) error {
	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&result); err != nil {
		return fmt.Errorf("quick_check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("quick_check: %s", result)
	}

	var users, stations, transactions int
	if err := db.QueryRowContext(ctx, queryProbeSchema).Scan(&users, &stations, &transactions); err != nil {
		return fmt.Errorf("schema probe: %w", err)
	}

	// Every column the store reads must exist
	for _, query := range []string{queryGetUserById, queryGetStationById, queryListUserTransactions} {
		rows, err := db.QueryContext(ctx, query, 0)
		if err != nil {
			return fmt.Errorf("schema probe: %w", err)
		}
		rows.Close()
	}

	zap.L().Debug("Database image verified",
		zap.Int("users", users),
		zap.Int("stations", stations),
		zap.Int("transactions", transactions))
	return nil
}
