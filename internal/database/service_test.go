package database

import (
	"context"
	"testing"
	"time"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/security"

	"golang.org/x/crypto/bcrypt"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	t.Helper()

	service, err := NewService(context.Background(), models.DatabaseConfig{PingTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cleanup := func() {
		service.Close()
	}

	return service, cleanup
}

func setupSeededDb(t *testing.T) (*Service, func()) {
	t.Helper()

	service, cleanup := setupTestDb(t)

	seed, err := LoadSeed("")
	if err != nil {
		cleanup()
		t.Fatalf("Failed to load default seed: %v", err)
	}
	if err := service.Seed(context.Background(), seed, security.NewBcryptHasher(bcrypt.MinCost)); err != nil {
		cleanup()
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return service, cleanup
}

func TestNewService_RejectsZeroPingTimeout(t *testing.T) {
	if _, err := NewService(context.Background(), models.DatabaseConfig{}); err == nil {
		t.Fatal("Expected error for zero ping timeout")
	}
}

func TestSeed_DefaultDataset(t *testing.T) {
	service, cleanup := setupSeededDb(t)
	defer cleanup()

	ctx := context.Background()

	stations, err := service.ListStations(ctx)
	if err != nil {
		t.Fatalf("ListStations failed: %v", err)
	}
	if len(stations) != 6 {
		t.Fatalf("Expected 6 stations, got %d", len(stations))
	}
	if stations[0].Name != "Downtown Plaza Charge" || stations[0].Status != models.StationAvailable {
		t.Errorf("Unexpected first station: %+v", stations[0])
	}

	admin, err := service.GetUserByName(ctx, "admin")
	if err != nil {
		t.Fatalf("GetUserByName failed: %v", err)
	}
	if admin.Role != models.RoleOperator {
		t.Errorf("Expected admin to be operator, got %s", admin.Role)
	}
	if admin.PasswordHash == "admin" {
		t.Error("Expected seeded password to be hashed")
	}

	user, err := service.GetUserByName(ctx, "user")
	if err != nil {
		t.Fatalf("GetUserByName failed: %v", err)
	}
	history, err := service.ListUserTransactions(ctx, user.Id)
	if err != nil {
		t.Fatalf("ListUserTransactions failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("Expected 3 seeded transactions, got %d", len(history))
	}
	// newest first
	if history[0].StationName != "Tech Park Hub" {
		t.Errorf("Expected newest transaction at Tech Park Hub, got %s", history[0].StationName)
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	if _, err := LoadSeed("does-not-exist.yaml"); err == nil {
		t.Fatal("Expected error for missing seed file")
	}
}

func TestReset_ClearsTables(t *testing.T) {
	service, cleanup := setupSeededDb(t)
	defer cleanup()

	ctx := context.Background()
	if err := service.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	count, err := service.CountStations(ctx, nil)
	if err != nil {
		t.Fatalf("CountStations failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no stations after reset, got %d", count)
	}
}
