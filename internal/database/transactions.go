package database

import (
	"context"
	"fmt"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InsertTransaction appends a charging record. Rows are never updated or deleted.
func (s *Service) InsertTransaction(ctx context.Context, params store.InsertTransactionParams) (*models.Transaction, error) {
	zap.L().Info("Recording transaction",
		zap.Int64("user_id", params.UserId),
		zap.String("station_name", params.StationName),
		zap.String("amount", params.Amount.String()),
		zap.String("energy", params.Energy.String()))

	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transaction amount %s must be positive", store.ErrInvalidAmount, params.Amount)
	}
	amountCents, err := toCents(params.Amount)
	if err != nil {
		return nil, err
	}
	if params.Energy.Unit == "" {
		return nil, fmt.Errorf("energy unit cannot be empty")
	}

	createdAt := formatTime(params.CreatedAt)

	var id int64
	err = s.db.QueryRowContext(ctx, queryInsertTransaction,
		params.UserId, params.StationName, amountCents,
		params.Energy.Quantity.String(), params.Energy.Unit, createdAt).
		Scan(&id)
	if err != nil {
		zap.L().Error("Failed to insert transaction", zap.Int64("user_id", params.UserId), zap.Error(err))
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	// Read the timestamp back through the same layout so callers see what was stored
	storedAt, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &models.Transaction{
		Id:          id,
		UserId:      params.UserId,
		StationName: params.StationName,
		Amount:      fromCents(amountCents),
		Energy:      params.Energy,
		CreatedAt:   storedAt,
	}, nil
}

// ListTransactions returns every transaction in insertion order.
func (s *Service) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	zap.L().Debug("Querying all transactions")
	return s.queryTransactions(ctx, queryListTransactions)
}

// ListUserTransactions returns one user's transactions, newest first.
func (s *Service) ListUserTransactions(ctx context.Context, userId int64) ([]models.Transaction, error) {
	zap.L().Debug("Querying transaction history", zap.Int64("user_id", userId))
	return s.queryTransactions(ctx, queryListUserTransactions, userId)
}

func (s *Service) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer closeRows(rows)

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var amountCents int64
		var quantityStr, createdAt string
		err := rows.Scan(&tx.Id, &tx.UserId, &tx.StationName, &amountCents, &quantityStr, &tx.Energy.Unit, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		tx.Amount = fromCents(amountCents)
		tx.Energy.Quantity, err = decimal.NewFromString(quantityStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse energy quantity '%s': %w", quantityStr, err)
		}
		tx.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during transaction row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}

// EnergyByStation sums delivered energy per station name and unit, in order
// of first appearance.
func (s *Service) EnergyByStation(ctx context.Context) ([]models.EnergyTotal, error) {
	rows, err := s.db.QueryContext(ctx, queryTransactionEnergy)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction energy: %w", err)
	}
	defer closeRows(rows)

	type key struct{ name, unit string }
	index := make(map[key]int)
	var totals []models.EnergyTotal

	for rows.Next() {
		var name, quantityStr, unit string
		if err := rows.Scan(&name, &quantityStr, &unit); err != nil {
			return nil, fmt.Errorf("failed to scan energy row: %w", err)
		}
		quantity, err := decimal.NewFromString(quantityStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse energy quantity '%s': %w", quantityStr, err)
		}

		k := key{name, unit}
		if i, ok := index[k]; ok {
			totals[i].Quantity = totals[i].Quantity.Add(quantity)
			continue
		}
		index[k] = len(totals)
		totals = append(totals, models.EnergyTotal{StationName: name, Quantity: quantity, Unit: unit})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating energy rows: %w", err)
	}
	return totals, nil
}
