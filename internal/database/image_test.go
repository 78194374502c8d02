package database

import (
	"context"
	"errors"
	"testing"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
)

func TestExportLoad_RoundTrip(t *testing.T) {
	source, cleanupSource := setupSeededDb(t)
	defer cleanupSource()

	ctx := context.Background()

	if err := source.ReserveStation(ctx, availableStationId); err != nil {
		t.Fatalf("ReserveStation failed: %v", err)
	}
	user, err := source.GetUserByName(ctx, "user")
	if err != nil {
		t.Fatalf("GetUserByName failed: %v", err)
	}
	if err := source.DebitWallet(ctx, user.Id, decimal.RequireFromString("15.50")); err != nil {
		t.Fatalf("DebitWallet failed: %v", err)
	}

	image, err := source.Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	target, cleanupTarget := setupTestDb(t)
	defer cleanupTarget()

	if err := target.Load(ctx, image); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	loaded, err := target.GetUserByName(ctx, "user")
	if err != nil {
		t.Fatalf("GetUserByName after load failed: %v", err)
	}
	if !loaded.Wallet.Equal(decimal.RequireFromString("234.50")) {
		t.Errorf("Expected wallet 234.50, got %s", loaded.Wallet)
	}

	station, err := target.GetStationById(ctx, availableStationId)
	if err != nil {
		t.Fatalf("GetStationById after load failed: %v", err)
	}
	if station.Status != models.StationOccupied {
		t.Errorf("Expected occupied after load, got %s", station.Status)
	}

	// The loaded database must keep accepting writes
	_, err = target.CreateUser(ctx, store.CreateUserParams{
		Username: "newcomer", PasswordHash: "hash", Role: models.RoleCustomer,
	})
	if err != nil {
		t.Errorf("CreateUser after load failed: %v", err)
	}

	again, err := target.Export(ctx)
	if err != nil {
		t.Fatalf("Export after load failed: %v", err)
	}
	if len(again) == 0 {
		t.Error("Expected non-empty image")
	}
}

func TestLoad_CorruptImage(t *testing.T) {
	service, cleanup := setupSeededDb(t)
	defer cleanup()

	ctx := context.Background()

	images := map[string][]byte{
		"empty":     {},
		"garbage":   []byte("definitely not a database"),
		"truncated": append([]byte(nil), sqliteHeader...),
	}

	for name, image := range images {
		err := service.Load(ctx, image)
		if !errors.Is(err, store.ErrCorruptImage) {
			t.Errorf("%s: expected ErrCorruptImage, got %v", name, err)
		}
	}

	// Existing contents survive a rejected image
	count, err := service.CountStations(ctx, nil)
	if err != nil {
		t.Fatalf("CountStations failed: %v", err)
	}
	if count != 6 {
		t.Errorf("Expected 6 stations after rejected loads, got %d", count)
	}
}

func TestLoad_ForeignSchema(t *testing.T) {
	other, cleanupOther := setupTestDb(t)
	defer cleanupOther()

	ctx := context.Background()
	if _, err := other.db.ExecContext(ctx, `DROP TABLE transactions; CREATE TABLE unrelated (x INTEGER);`); err != nil {
		t.Fatalf("Failed to alter schema: %v", err)
	}
	image, err := other.Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	service, cleanup := setupTestDb(t)
	defer cleanup()

	if err := service.Load(ctx, image); !errors.Is(err, store.ErrCorruptImage) {
		t.Errorf("Expected ErrCorruptImage, got %v", err)
	}
}
