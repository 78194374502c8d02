package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
)

func kwh(quantity string) models.Energy {
	return models.Energy{Quantity: decimal.RequireFromString(quantity), Unit: "kWh"}
}

func TestInsertTransaction(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice", "20.00")
	now := time.Date(2024, 3, 1, 12, 0, 0, 123456000, time.UTC)

	tx, err := service.InsertTransaction(ctx, store.InsertTransactionParams{
		UserId:      user.Id,
		StationName: "Tech Park Hub",
		Amount:      decimal.RequireFromString("15.50"),
		Energy:      kwh("27"),
		CreatedAt:   now,
	})
	if err != nil {
		t.Fatalf("InsertTransaction failed: %v", err)
	}

	if tx.Id == 0 {
		t.Error("Expected a generated id")
	}
	if !tx.Amount.Equal(decimal.RequireFromString("15.50")) {
		t.Errorf("Expected amount 15.50, got %s", tx.Amount)
	}
	if !tx.CreatedAt.Equal(now) {
		t.Errorf("Expected timestamp %s, got %s", now, tx.CreatedAt)
	}
	if tx.Energy.String() != "27 kWh" {
		t.Errorf("Expected energy '27 kWh', got %q", tx.Energy.String())
	}
}

func TestInsertTransaction_Invalid(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice", "20.00")

	_, err := service.InsertTransaction(ctx, store.InsertTransactionParams{
		UserId: user.Id, StationName: "x", Amount: decimal.Zero, Energy: kwh("1"), CreatedAt: time.Now(),
	})
	if !errors.Is(err, store.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount for zero amount, got %v", err)
	}

	_, err = service.InsertTransaction(ctx, store.InsertTransactionParams{
		UserId: user.Id, StationName: "x", Amount: decimal.RequireFromString("1.00"), CreatedAt: time.Now(),
	})
	if err == nil {
		t.Error("Expected error for missing energy unit")
	}

	// foreign key
	_, err = service.InsertTransaction(ctx, store.InsertTransactionParams{
		UserId: 999, StationName: "x", Amount: decimal.RequireFromString("1.00"), Energy: kwh("1"), CreatedAt: time.Now(),
	})
	if err == nil {
		t.Error("Expected error for unknown user")
	}
}

func TestListTransactions_Ordering(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	alice := createTestUser(t, service, "alice", "0.00")
	bob := createTestUser(t, service, "bob", "0.00")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inserts := []struct {
		userId int64
		at     time.Time
	}{
		{alice.Id, base.Add(2 * time.Hour)},
		{bob.Id, base.Add(time.Hour)},
		{alice.Id, base},
		{alice.Id, base.Add(3 * time.Hour)},
	}
	for _, in := range inserts {
		_, err := service.InsertTransaction(ctx, store.InsertTransactionParams{
			UserId: in.userId, StationName: "Green Park Station",
			Amount: decimal.RequireFromString("1.00"), Energy: kwh("10"), CreatedAt: in.at,
		})
		if err != nil {
			t.Fatalf("InsertTransaction failed: %v", err)
		}
	}

	all, err := service.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Expected 4 transactions, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Id <= all[i-1].Id {
			t.Errorf("Expected ascending ids, got %d after %d", all[i].Id, all[i-1].Id)
		}
	}

	history, err := service.ListUserTransactions(ctx, alice.Id)
	if err != nil {
		t.Fatalf("ListUserTransactions failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("Expected 3 transactions for alice, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].CreatedAt.After(history[i-1].CreatedAt) {
			t.Errorf("Expected newest first, got %s after %s", history[i].CreatedAt, history[i-1].CreatedAt)
		}
	}
}

func TestEnergyByStation(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice", "0.00")

	records := []struct {
		station string
		energy  string
	}{
		{"Tech Park Hub", "10"},
		{"EcoVillage Community", "7.5"},
		{"Tech Park Hub", "12.25"},
	}
	for _, r := range records {
		_, err := service.InsertTransaction(ctx, store.InsertTransactionParams{
			UserId: user.Id, StationName: r.station,
			Amount: decimal.RequireFromString("1.00"), Energy: kwh(r.energy), CreatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("InsertTransaction failed: %v", err)
		}
	}

	totals, err := service.EnergyByStation(ctx)
	if err != nil {
		t.Fatalf("EnergyByStation failed: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("Expected 2 totals, got %d", len(totals))
	}
	if totals[0].StationName != "Tech Park Hub" || !totals[0].Quantity.Equal(decimal.RequireFromString("22.25")) {
		t.Errorf("Unexpected first total: %+v", totals[0])
	}
	if totals[1].StationName != "EcoVillage Community" || !totals[1].Quantity.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("Unexpected second total: %+v", totals[1])
	}
}
