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
	"errors"
	"fmt"
	"time"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/store"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var role, createdAt string
	var walletCents int64
	if err := row.Scan(&user.Id, &user.Username, &user.PasswordHash, &role, &walletCents, &createdAt); err != nil {
		return nil, err
	}

	user.Role = models.Role(role)
	if !user.Role.Valid() {
		return nil, fmt.Errorf("user %d has unknown role %q", user.Id, role)
	}
	user.Wallet = fromCents(walletCents)

	var err error
	user.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserById(ctx context.Context, userId int64) (*models.User, error) {
	zap.L().Debug("Querying user by ID", zap.Int64("user_id", userId))

	user, err := scanUser(s.db.QueryRowContext(ctx, queryGetUserById, userId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", store.ErrUserNotFound, userId)
		}
		zap.L().Error("Failed to query user by ID", zap.Int64("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by ID: %w", err)
	}

	return user, nil
}

func (s *Service) GetUserByName(ctx context.Context, username string) (*models.User, error) {
	zap.L().Debug("Querying user by name", zap.String("username", username))

	user, err := scanUser(s.db.QueryRowContext(ctx, queryGetUserByName, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrUserNotFound, username)
		}
		zap.L().Error("Failed to query user by name", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by name: %w", err)
	}

	return user, nil
}

func (s *Service) CreateUser(ctx context.Context, params store.CreateUserParams) (*models.User, error) {
	zap.L().Info("Creating user", zap.String("username", params.Username), zap.String("role", string(params.Role)))

	if !params.Role.Valid() {
		return nil, fmt.Errorf("invalid role %q", params.Role)
	}
	if params.Wallet.IsNegative() {
		return nil, fmt.Errorf("%w: starting balance %s is negative", store.ErrInvalidAmount, params.Wallet)
	}
	walletCents, err := toCents(params.Wallet)
	if err != nil {
		return nil, err
	}

	var userId int64
	err = s.db.QueryRowContext(ctx, queryInsertUser,
		params.Username, params.PasswordHash, string(params.Role), walletCents, formatTime(time.Now())).
		Scan(&userId)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", store.ErrDuplicateUser, params.Username)
		}
		zap.L().Error("Failed to insert user", zap.String("username", params.Username), zap.Error(err))
		return nil, fmt.Errorf("unable to insert user: %w", err)
	}

	zap.L().Info("User created successfully", zap.Int64("id", userId), zap.String("username", params.Username))
	return s.GetUserById(ctx, userId)
}

// DebitWallet subtracts amount only if the balance covers it. A shortfall
// returns store.ErrInsufficientBalance and changes nothing.
func (s *Service) DebitWallet(ctx context.Context, userId int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: debit %s must be positive", store.ErrInvalidAmount, amount)
	}
	cents, err := toCents(amount)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, queryDebitWallet, cents, userId, cents)
	if err != nil {
		zap.L().Error("Failed to debit wallet", zap.Int64("user_id", userId), zap.Error(err))
		return fmt.Errorf("unable to debit wallet: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		if err := s.requireUser(ctx, userId); err != nil {
			return err
		}
		return fmt.Errorf("%w: user %d cannot cover %s", store.ErrInsufficientBalance, userId, amount)
	}

	zap.L().Debug("Wallet debited", zap.Int64("user_id", userId), zap.String("amount", amount.String()))
	return nil
}

func (s *Service) CreditWallet(ctx context.Context, userId int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: credit %s must be positive", store.ErrInvalidAmount, amount)
	}
	cents, err := toCents(amount)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, queryCreditWallet, cents, userId)
	if err != nil {
		zap.L().Error("Failed to credit wallet", zap.Int64("user_id", userId), zap.Error(err))
		return fmt.Errorf("unable to credit wallet: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", store.ErrUserNotFound, userId)
	}

	zap.L().Debug("Wallet credited", zap.Int64("user_id", userId), zap.String("amount", amount.String()))
	return nil
}

func (s *Service) requireUser(ctx context.Context, userId int64) error {
	var count int
	if err := s.db.QueryRowContext(ctx, queryUserExists, userId).Scan(&count); err != nil {
		return fmt.Errorf("unable to check user: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: id %d", store.ErrUserNotFound, userId)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
