/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"evcharge-dashboard-go/internal/models"

	"github.com/shopspring/decimal"
)

func Load() (*models.Config, error) {
	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	snapshotTimeout, err := getEnvDuration("SNAPSHOT_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	sessionCost, err := getEnvDecimal("CHARGING_SESSION_COST", decimal.RequireFromString("15.50"))
	if err != nil {
		return nil, err
	}
	if !sessionCost.IsPositive() {
		return nil, fmt.Errorf("CHARGING_SESSION_COST must be positive, got %s", sessionCost)
	}

	startingBalance, err := getEnvDecimal("CUSTOMER_STARTING_BALANCE", decimal.RequireFromString("100.00"))
	if err != nil {
		return nil, err
	}
	if startingBalance.IsNegative() {
		return nil, fmt.Errorf("CUSTOMER_STARTING_BALANCE cannot be negative, got %s", startingBalance)
	}

	topUp, err := getEnvDecimal("WALLET_TOPUP_AMOUNT", decimal.RequireFromString("50.00"))
	if err != nil {
		return nil, err
	}
	if !topUp.IsPositive() {
		return nil, fmt.Errorf("WALLET_TOPUP_AMOUNT must be positive, got %s", topUp)
	}

	for key, amount := range map[string]decimal.Decimal{
		"CHARGING_SESSION_COST":     sessionCost,
		"CUSTOMER_STARTING_BALANCE": startingBalance,
		"WALLET_TOPUP_AMOUNT":       topUp,
	} {
		if !amount.Shift(2).IsInteger() {
			return nil, fmt.Errorf("%s must have at most two decimal places, got %s", key, amount)
		}
	}

	minEnergy := getEnvInt("CHARGING_MIN_ENERGY_KWH", 10)
	maxEnergy := getEnvInt("CHARGING_MAX_ENERGY_KWH", 39)
	if minEnergy <= 0 || maxEnergy < minEnergy {
		return nil, fmt.Errorf("invalid energy range [%d, %d]", minEnergy, maxEnergy)
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			SeedFile:    getEnvString("SEED_FILE", ""),
			PingTimeout: pingTimeout,
		},
		Snapshot: models.SnapshotConfig{
			Backend:    getEnvString("SNAPSHOT_BACKEND", "file"),
			Dir:        getEnvString("SNAPSHOT_DIR", ".numocity"),
			Key:        getEnvString("SNAPSHOT_KEY", "numocity_sqlite_db"),
			SessionKey: getEnvString("SESSION_KEY", "numocity_current_user"),
			Timeout:    snapshotTimeout,
			Redis: models.RedisConfig{
				Addr:     getEnvString("REDIS_ADDR", "localhost:6379"),
				Password: getEnvString("REDIS_PASSWORD", ""),
				DB:       getEnvInt("REDIS_DB", 0),
				Prefix:   getEnvString("REDIS_PREFIX", "numocity:"),
			},
			Minio: models.MinioConfig{
				Endpoint:  getEnvString("MINIO_ENDPOINT", "localhost:9000"),
				AccessKey: getEnvString("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnvString("MINIO_SECRET_KEY", ""),
				Bucket:    getEnvString("MINIO_BUCKET", "numocity"),
				Region:    getEnvString("MINIO_REGION", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
		Charging: models.ChargingConfig{
			SessionCost:  sessionCost,
			MinEnergyKWh: minEnergy,
			MaxEnergyKWh: maxEnergy,
		},
		Accounts: models.AccountsConfig{
			CustomerStartingBalance: startingBalance,
			TopUpAmount:             topUp,
			BcryptCost:              getEnvInt("BCRYPT_COST", 0),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	if value := os.Getenv(key); value != "" {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid decimal for %s: %q (%w)", key, value, err)
		}
		return d, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
