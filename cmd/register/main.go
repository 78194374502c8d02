package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"evcharge-dashboard-go/internal/common"
	"evcharge-dashboard-go/internal/config"
	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/session"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	nameFlag := flag.String("name", "", "Username (required)")
	passwordFlag := flag.String("password", "", "Password (required)")
	roleFlag := flag.String("role", "customer", "Role: customer or operator")
	flag.Parse()

	if *nameFlag == "" || *passwordFlag == "" {
		fmt.Println("Usage: register -name <username> -password <password> [-role customer|operator]")
		os.Exit(1)
	}

	role, err := models.ParseRole(*roleFlag)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
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

	current, err := services.Sessions.Register(ctx, *nameFlag, *passwordFlag, role)
	if err != nil && !common.PersistenceWarning(err) {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("✗ Registration failed: %v\n", verr)
			os.Exit(1)
		}
		zap.L().Fatal("Failed to register user", zap.Error(err))
	}

	if current == nil {
		fmt.Println("✓ Registered; log in once the store is writable again")
		return
	}
	fmt.Printf("✓ Registered %s as %s\n", current.Username, current.Role)
	common.PrintSession(current)
}
