/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.DashboardStore.
var _ store.DashboardStore = (*Service)(nil)

// timeLayout is fixed width so that text ordering is chronological.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// Service is the embedded relational store. It holds exactly one in-memory
// SQLite connection; the whole database lives in that connection and is
// moved in and out with Export and Load.
type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening in-memory SQLite database")
	db, err := openMemoryDb()
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

// openMemoryDb pins the pool to a single connection that never expires;
// a second connection would see a different, empty database.
func openMemoryDb() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
	return db, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('customer', 'operator')),
		wallet_cents INTEGER NOT NULL DEFAULT 0 CHECK (wallet_cents >= 0),
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('available', 'occupied', 'offline')),
		power TEXT NOT NULL,
		connector_type TEXT NOT NULL,
		location TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_stations_status ON stations(status);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		station_name TEXT NOT NULL,
		amount_cents INTEGER NOT NULL CHECK (amount_cents > 0),
		energy_quantity TEXT NOT NULL,
		energy_unit TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_user_created ON transactions(user_id, created_at);
	`

func (s *Service) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Reset drops every table and recreates an empty schema.
func (s *Service) Reset(ctx context.Context) error {
	zap.L().Warn("Resetting database")
	_, err := s.db.ExecContext(ctx, `
		DROP TABLE IF EXISTS transactions;
		DROP TABLE IF EXISTS stations;
		DROP TABLE IF EXISTS users;`)
	if err != nil {
		return fmt.Errorf("unable to drop tables: %w", err)
	}
	return s.initSchema(ctx)
}

// toCents converts a money amount to integer cents; sub-cent precision is rejected.
func toCents(amount decimal.Decimal) (int64, error) {
	shifted := amount.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %s has more than two decimal places", store.ErrInvalidAmount, amount)
	}
	return shifted.IntPart(), nil
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zap.L().Warn("Failed to close rows", zap.Error(err))
	}
}
