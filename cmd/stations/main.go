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

func toggle(ctx context.Context, services *common.Services, stationId int64) {
	if _, err := common.RequireSession(ctx, services.Sessions, models.RoleOperator); err != nil {
		fmt.Printf("✗ %v\n", err)
		os.Exit(1)
	}

	next, err := services.Dashboard.ToggleStation(ctx, stationId)
	if err != nil && !common.PersistenceWarning(err) {
		fmt.Printf("✗ Cannot toggle station %d: %v\n", stationId, err)
		os.Exit(1)
	}
	fmt.Printf("✓ Station %d is now %s\n", stationId, next)
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	toggleFlag := flag.Int64("toggle", 0, "Switch a station between offline and available (operator only)")
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

	if *toggleFlag != 0 {
		toggle(ctx, services, *toggleFlag)
	}

	stations, err := services.Dashboard.ListStations(ctx)
	if err != nil {
		zap.L().Fatal("Failed to list stations", zap.Error(err))
	}
	overview, err := services.Dashboard.Overview(ctx)
	if err != nil {
		zap.L().Fatal("Failed to count stations", zap.Error(err))
	}

	common.PrintHeader("STATIONS", common.WideWidth)
	common.PrintStations(stations)
	common.PrintFooter(fmt.Sprintf("SUMMARY: %d total, %d available, %d occupied, %d offline",
		overview.Total, overview.Total-overview.Occupied-overview.Offline, overview.Occupied, overview.Offline),
		common.WideWidth)
}
