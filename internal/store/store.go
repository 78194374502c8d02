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

package store

import (
	"context"
	"errors"
	"time"

	"evcharge-dashboard-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared by the store and its consumers.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrStationNotFound     = errors.New("station not found")
	ErrDuplicateUser       = errors.New("username already exists")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrStationNotAvailable = errors.New("station not available")
	ErrInvalidTransition   = errors.New("invalid station status transition")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrCorruptImage        = errors.New("corrupt database image")
)

// CreateUserParams contains the parameters for inserting a user. The secret is
// already hashed.
type CreateUserParams struct {
	Username     string
	PasswordHash string
	Role         models.Role
	Wallet       decimal.Decimal
}

// InsertTransactionParams contains the parameters for appending a charging record.
type InsertTransactionParams struct {
	UserId      int64
	StationName string
	Amount      decimal.Decimal
	Energy      models.Energy
	CreatedAt   time.Time
}

// DashboardStore is the full query and mutation surface of the embedded store.
type DashboardStore interface {
	// --- Users ---
	GetUserById(ctx context.Context, userId int64) (*models.User, error)
	GetUserByName(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error)
	DebitWallet(ctx context.Context, userId int64, amount decimal.Decimal) error
	CreditWallet(ctx context.Context, userId int64, amount decimal.Decimal) error

	// --- Stations ---
	ListStations(ctx context.Context) ([]models.Station, error)
	GetStationById(ctx context.Context, stationId int64) (*models.Station, error)
	CountStations(ctx context.Context, status *models.StationStatus) (int, error)
	SetStationStatus(ctx context.Context, stationId int64, status models.StationStatus) error
	ReserveStation(ctx context.Context, stationId int64) error
	ToggleStation(ctx context.Context, stationId int64) (models.StationStatus, error)

	// --- Transactions ---
	InsertTransaction(ctx context.Context, params InsertTransactionParams) (*models.Transaction, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	ListUserTransactions(ctx context.Context, userId int64) ([]models.Transaction, error)
	EnergyByStation(ctx context.Context) ([]models.EnergyTotal, error)

	// --- Image ---
	Export(ctx context.Context) ([]byte, error)
	Load(ctx context.Context, image []byte) error

	// --- Lifecycle ---
	Close()
}
