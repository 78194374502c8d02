package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"evcharge-dashboard-go/internal/common"
	"evcharge-dashboard-go/internal/config"
	"evcharge-dashboard-go/internal/models"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	topUpFlag := flag.Bool("topup", false, "Add the configured top-up amount to the wallet")
	flag.Parse()

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

	if *topUpFlag {
		amount, err := services.Dashboard.TopUp(ctx, current.UserId)
		if err != nil && !common.PersistenceWarning(err) {
			zap.L().Fatal("Failed to top up wallet", zap.Error(err))
		}
		fmt.Printf("✓ Added %s to wallet\n", common.FormatMoney(amount))

		if current, err = services.Sessions.RefreshSession(ctx); err != nil || current == nil {
			zap.L().Fatal("Failed to refresh session", zap.Error(err))
		}
	}

	history, err := services.Dashboard.ListTransactions(ctx, &current.UserId)
	if err != nil {
		zap.L().Fatal("Failed to load history", zap.Error(err))
	}

	common.PrintSession(current)
	common.PrintHeader("CHARGING HISTORY", common.DefaultWidth)
	common.PrintTransactions(history)
	common.PrintFooter(fmt.Sprintf("SUMMARY: %d sessions, balance %s", len(history), common.FormatMoney(current.Wallet)),
		common.DefaultWidth)
}
