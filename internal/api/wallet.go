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

package api

import (
	"context"
	"errors"
	"fmt"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/persistence"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetUser returns the public fields of a user; the password hash is dropped.
func (s *DashboardService) GetUser(ctx context.Context, userId int64) (*models.UserView, error) {
	user, err := s.db.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &models.UserView{
		Id:       user.Id,
		Username: user.Username,
		Role:     user.Role,
		Wallet:   user.Wallet,
	}, nil
}

func (s *DashboardService) CreditWallet(ctx context.Context, userId int64, amount decimal.Decimal) error {
	zap.L().Info("Crediting wallet",
		zap.Int64("user_id", userId),
		zap.String("amount", amount.String()))

	if !amount.IsPositive() {
		return fmt.Errorf("credit amount must be positive, got %s", amount)
	}

	return s.mutator.Mutate(ctx, "credit_wallet", func(ctx context.Context) error {
		return s.db.CreditWallet(ctx, userId, amount)
	})
}

// TopUp adds the configured fixed amount to the wallet and returns it.
func (s *DashboardService) TopUp(ctx context.Context, userId int64) (decimal.Decimal, error) {
	err := s.CreditWallet(ctx, userId, s.topUpAmount)
	var persistErr *persistence.Error
	if err != nil && !errors.As(err, &persistErr) {
		return decimal.Zero, err
	}
	// A snapshot failure still leaves the credit applied
	return s.topUpAmount, err
}
