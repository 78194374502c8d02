package database

import (
	"context"
	"errors"
	"testing"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
)

func createTestUser(t *testing.T, service *Service, username string, wallet string) *models.User {
	t.Helper()

	user, err := service.CreateUser(context.Background(), store.CreateUserParams{
		Username:     username,
		PasswordHash: "hash",
		Role:         models.RoleCustomer,
		Wallet:       decimal.RequireFromString(wallet),
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestCreateUser_Duplicate(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	createTestUser(t, service, "alice", "10.00")

	_, err := service.CreateUser(context.Background(), store.CreateUserParams{
		Username:     "alice",
		PasswordHash: "other",
		Role:         models.RoleCustomer,
	})
	if !errors.Is(err, store.ErrDuplicateUser) {
		t.Fatalf("Expected ErrDuplicateUser, got %v", err)
	}
}

func TestCreateUser_RejectsNegativeWallet(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.CreateUser(context.Background(), store.CreateUserParams{
		Username:     "bob",
		PasswordHash: "hash",
		Role:         models.RoleCustomer,
		Wallet:       decimal.RequireFromString("-1.00"),
	})
	if !errors.Is(err, store.ErrInvalidAmount) {
		t.Fatalf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestGetUserById_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.GetUserById(context.Background(), 42)
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestDebitWallet(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice", "20.00")

	if err := service.DebitWallet(ctx, user.Id, decimal.RequireFromString("15.50")); err != nil {
		t.Fatalf("DebitWallet failed: %v", err)
	}

	after, err := service.GetUserById(ctx, user.Id)
	if err != nil {
		t.Fatalf("GetUserById failed: %v", err)
	}
	expected := decimal.RequireFromString("4.50")
	if !after.Wallet.Equal(expected) {
		t.Errorf("Expected wallet %s, got %s", expected, after.Wallet)
	}
}

func TestDebitWallet_InsufficientBalance(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice", "10.00")

	err := service.DebitWallet(ctx, user.Id, decimal.RequireFromString("15.50"))
	if !errors.Is(err, store.ErrInsufficientBalance) {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}

	after, err := service.GetUserById(ctx, user.Id)
	if err != nil {
		t.Fatalf("GetUserById failed: %v", err)
	}
	if !after.Wallet.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("Expected wallet unchanged at 10.00, got %s", after.Wallet)
	}
}

func TestDebitWallet_ExactBalance(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice", "15.50")

	if err := service.DebitWallet(ctx, user.Id, decimal.RequireFromString("15.50")); err != nil {
		t.Fatalf("DebitWallet failed: %v", err)
	}

	after, _ := service.GetUserById(ctx, user.Id)
	if !after.Wallet.IsZero() {
		t.Errorf("Expected empty wallet, got %s", after.Wallet)
	}
}

func TestDebitWallet_UnknownUser(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	err := service.DebitWallet(context.Background(), 99, decimal.RequireFromString("1.00"))
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestDebitWallet_InvalidAmounts(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	user := createTestUser(t, service, "alice", "10.00")

	for _, amount := range []string{"0", "-5.00", "1.005"} {
		err := service.DebitWallet(context.Background(), user.Id, decimal.RequireFromString(amount))
		if !errors.Is(err, store.ErrInvalidAmount) {
			t.Errorf("Expected ErrInvalidAmount for %s, got %v", amount, err)
		}
	}
}

func TestCreditWallet(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice", "4.50")

	if err := service.CreditWallet(ctx, user.Id, decimal.RequireFromString("15.50")); err != nil {
		t.Fatalf("CreditWallet failed: %v", err)
	}

	after, _ := service.GetUserById(ctx, user.Id)
	if !after.Wallet.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("Expected wallet 20.00, got %s", after.Wallet)
	}

	err := service.CreditWallet(ctx, 99, decimal.RequireFromString("1.00"))
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
