package main

import (
	"context"
	"flag"
	"fmt"

	"evcharge-dashboard-go/internal/common"
	"evcharge-dashboard-go/internal/config"

	"go.uber.org/zap"
)

func printOverview(ctx context.Context, services *common.Services) error {
	stations, err := services.Dashboard.ListStations(ctx)
	if err != nil {
		return err
	}
	overview, err := services.Dashboard.Overview(ctx)
	if err != nil {
		return err
	}
	transactions, err := services.Dashboard.ListTransactions(ctx, nil)
	if err != nil {
		return err
	}

	common.PrintHeader("CHARGING NETWORK", common.WideWidth)
	common.PrintStations(stations)

	summary := fmt.Sprintf("SUMMARY: %d stations (%d occupied, %d offline), %d transactions recorded",
		overview.Total, overview.Occupied, overview.Offline, len(transactions))
	common.PrintFooter(summary, common.WideWidth)
	return nil
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	resetFlag := flag.Bool("reset", false, "Discard the saved state and reseed the default dataset")
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

	if *resetFlag {
		zap.L().Info("Resetting state to seed data")
		if err := services.Coordinator.Reset(ctx); err != nil && !common.PersistenceWarning(err) {
			zap.L().Fatal("Failed to reset state", zap.Error(err))
		}
		if err := services.Sessions.Logout(ctx); err != nil {
			zap.L().Warn("Failed to clear session", zap.Error(err))
		}
	}

	if err := printOverview(ctx, services); err != nil {
		zap.L().Fatal("Failed to read stations", zap.Error(err))
	}

	zap.L().Info("Setup complete", zap.String("snapshot_backend", cfg.Snapshot.Backend))
}
