package main

import (
	"context"
	"flag"
	"fmt"
	"io"
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

	outFlag := flag.String("out", "", "Write the CSV to this file instead of stdout")
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

	if _, err := common.RequireSession(ctx, services.Sessions, models.RoleOperator); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if *outFlag != "" {
		file, err := os.Create(*outFlag)
		if err != nil {
			zap.L().Fatal("Failed to create output file", zap.String("path", *outFlag), zap.Error(err))
		}
		defer file.Close()
		w = file
	}

	if err := services.Dashboard.WriteTransactionsCSV(ctx, w); err != nil {
		zap.L().Fatal("Failed to export transactions", zap.Error(err))
	}

	if *outFlag != "" {
		fmt.Printf("✓ Transactions written to %s\n", *outFlag)
	}
}
