package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"evcharge-dashboard-go/internal/common"
	"evcharge-dashboard-go/internal/config"
	"evcharge-dashboard-go/internal/session"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	nameFlag := flag.String("name", "", "Username")
	passwordFlag := flag.String("password", "", "Password")
	logoutFlag := flag.Bool("logout", false, "Clear the current session")
	whoamiFlag := flag.Bool("whoami", false, "Refresh and print the current session")
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

	switch {
	case *logoutFlag:
		if err := services.Sessions.Logout(ctx); err != nil {
			zap.L().Fatal("Failed to log out", zap.Error(err))
		}
		fmt.Println("✓ Logged out")

	case *whoamiFlag:
		current, err := services.Sessions.RefreshSession(ctx)
		if err != nil {
			zap.L().Fatal("Failed to refresh session", zap.Error(err))
		}
		if current == nil {
			fmt.Println("Not logged in")
			return
		}
		common.PrintSession(current)

	default:
		if *nameFlag == "" || *passwordFlag == "" {
			fmt.Println("Usage: login -name <username> -password <password> | -logout | -whoami")
			os.Exit(1)
		}

		current, err := services.Sessions.Login(ctx, *nameFlag, *passwordFlag)
		if err != nil {
			var verr *session.ValidationError
			if errors.As(err, &verr) {
				fmt.Printf("✗ Login failed: %v\n", verr)
				os.Exit(1)
			}
			zap.L().Fatal("Failed to log in", zap.Error(err))
		}

		fmt.Printf("✓ Logged in as %s\n", current.Username)
		common.PrintSession(current)
	}
}
