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
	"fmt"

	"evcharge-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
)

// Mutator runs a mutation and persists its outcome.
type Mutator interface {
	Mutate(ctx context.Context, op string, fn func(ctx context.Context) error) error
}

// DashboardService is the query surface the dashboard pages consume.
// Mutations go through the mutator so each one is persisted.
type DashboardService struct {
	db          store.DashboardStore
	mutator     Mutator
	topUpAmount decimal.Decimal
}

func NewDashboardService(db store.DashboardStore, mutator Mutator, topUpAmount decimal.Decimal) *DashboardService {
	return &DashboardService{
		db:          db,
		mutator:     mutator,
		topUpAmount: topUpAmount,
	}
}

func (s *DashboardService) HealthCheck(ctx context.Context) error {
	_, err := s.db.CountStations(ctx, nil)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
