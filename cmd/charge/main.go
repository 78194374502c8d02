package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"evcharge-dashboard-go/internal/charging"
	"evcharge-dashboard-go/internal/common"
	"evcharge-dashboard-go/internal/config"
	"evcharge-dashboard-go/internal/models"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	stationFlag := flag.Int64("station", 0, "Station id to start charging at (required)")
	flag.Parse()

	if *stationFlag == 0 {
		fmt.Println("Usage: charge -station <id>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	current, err := common.RequireSession(ctx, services.Sessions, models.RoleCustomer)
	if err != nil {
		fmt.Printf("✗ %v\n", err)
		os.Exit(1)
	}

	result, err := services.Charging.StartCharging(ctx, current.UserId, *stationFlag)

	var inconsistent *charging.InconsistentStateError
	switch {
	case errors.As(err, &inconsistent):
		fmt.Println("✗ CHARGING FAILED AFTER PAYMENT")
		fmt.Printf("  %s was debited for station %d, but the session could not be recorded.\n",
			common.FormatMoney(inconsistent.Debited), inconsistent.StationId)
		fmt.Println("  Do not retry; contact an operator.")
		os.Exit(2)
	case errors.Is(err, charging.ErrInsufficientFunds):
		fmt.Println("✗ Insufficient funds. Top up your wallet first.")
		os.Exit(1)
	case errors.Is(err, charging.ErrStationUnavailable):
		fmt.Printf("✗ Station %d is not available.\n", *stationFlag)
		os.Exit(1)
	case err != nil && !common.PersistenceWarning(err):
		zap.L().Fatal("Charging failed", zap.String("state", result.State.String()), zap.Error(err))
	}

	tx := result.Transaction
	fmt.Printf("✓ Charging started at %s\n", tx.StationName)
	fmt.Printf("  Charged %s for %s (transaction #%d)\n", common.FormatMoney(tx.Amount), tx.Energy.String(), tx.Id)

	if refreshed, err := services.Sessions.RefreshSession(ctx); err == nil && refreshed != nil {
		fmt.Printf("  Wallet balance: %s\n", common.FormatMoney(refreshed.Wallet))
	}
}
