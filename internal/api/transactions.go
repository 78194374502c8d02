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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"evcharge-dashboard-go/internal/models"

	"go.uber.org/zap"
)

var csvHeader = []string{"ID", "UserID", "Station", "Amount", "Energy", "Timestamp"}

// ListTransactions returns one user's history newest first, or every
// transaction in insertion order when userId is nil.
func (s *DashboardService) ListTransactions(ctx context.Context, userId *int64) ([]models.Transaction, error) {
	var (
		transactions []models.Transaction
		err          error
	)
	if userId == nil {
		transactions, err = s.db.ListTransactions(ctx)
	} else {
		transactions, err = s.db.ListUserTransactions(ctx, *userId)
	}
	if err != nil {
		zap.L().Error("Failed to list transactions", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}
	return transactions, nil
}

// EnergyByStation is the delivered energy per station for the analytics view.
func (s *DashboardService) EnergyByStation(ctx context.Context) ([]models.EnergyTotal, error) {
	return s.db.EnergyByStation(ctx)
}

// ExportTransactions flattens every transaction, in insertion order, into
// display strings.
func (s *DashboardService) ExportTransactions(ctx context.Context) ([]models.ExportRow, error) {
	transactions, err := s.ListTransactions(ctx, nil)
	if err != nil {
		return nil, err
	}

	rows := make([]models.ExportRow, len(transactions))
	for i, tx := range transactions {
		rows[i] = models.ExportRow{
			Id:          tx.Id,
			UserId:      tx.UserId,
			StationName: tx.StationName,
			Amount:      tx.Amount.StringFixed(2),
			Energy:      tx.Energy.String(),
			Timestamp:   tx.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return rows, nil
}

// WriteTransactionsCSV writes the export with a fixed header row.
func (s *DashboardService) WriteTransactionsCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.ExportTransactions(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.Id, 10),
			strconv.FormatInt(row.UserId, 10),
			row.StationName,
			row.Amount,
			row.Energy,
			row.Timestamp,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", row.Id, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	zap.L().Info("Transactions exported", zap.Int("rows", len(rows)))
	return nil
}
