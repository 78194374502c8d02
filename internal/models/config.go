package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Snapshot SnapshotConfig
	Charging ChargingConfig
	Accounts AccountsConfig
}

// DatabaseConfig holds embedded store settings
type DatabaseConfig struct {
	SeedFile    string
	PingTimeout time.Duration
}

// SnapshotConfig selects and configures the blob backend
type SnapshotConfig struct {
	Backend    string
	Dir        string
	Key        string
	SessionKey string
	Timeout    time.Duration
	Redis      RedisConfig
	Minio      MinioConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// ChargingConfig holds the per-session price and the simulated energy range
type ChargingConfig struct {
	SessionCost  decimal.Decimal
	MinEnergyKWh int
	MaxEnergyKWh int
}

// AccountsConfig holds wallet defaults and hashing cost
type AccountsConfig struct {
	CustomerStartingBalance decimal.Decimal
	TopUpAmount             decimal.Decimal
	BcryptCost              int
}
