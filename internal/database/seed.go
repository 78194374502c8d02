package database

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/security"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

//go:embed seed.yaml
var defaultSeed []byte

const seedTimeLayout = "2006-01-02T15:04:05"

type SeedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Wallet   string `yaml:"wallet"`
}

type SeedStation struct {
	Name          string `yaml:"name"`
	Status        string `yaml:"status"`
	Power         string `yaml:"power"`
	ConnectorType string `yaml:"connector_type"`
	Location      string `yaml:"location"`
}

type SeedTransaction struct {
	Username  string `yaml:"username"`
	Station   string `yaml:"station"`
	Amount    string `yaml:"amount"`
	Energy    string `yaml:"energy"`
	Unit      string `yaml:"unit"`
	Timestamp string `yaml:"timestamp"`
}

// SeedData is the dataset written into a fresh store.
type SeedData struct {
	Users        []SeedUser        `yaml:"users"`
	Stations     []SeedStation     `yaml:"stations"`
	Transactions []SeedTransaction `yaml:"transactions"`
}

// LoadSeed reads the seed file, or the built-in dataset when seedFile is empty.
func LoadSeed(seedFile string) (*SeedData, error) {
	data := defaultSeed
	if seedFile != "" {
		seedPath := seedFile
		if !filepath.IsAbs(seedFile) {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
			seedPath = filepath.Join(wd, seedFile)
		}

		var err error
		data, err = os.ReadFile(seedPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
		}
	}

	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("unable to parse seed data: %w", err)
	}

	for i, u := range seed.Users {
		if u.Username == "" || u.Password == "" {
			return nil, fmt.Errorf("seed user at index %d missing username or password", i)
		}
	}
	for i, st := range seed.Stations {
		if st.Name == "" {
			return nil, fmt.Errorf("seed station at index %d missing name", i)
		}
	}

	return &seed, nil
}

// Seed writes the dataset into the (empty) tables in a single SQL transaction.
func (s *Service) Seed(ctx context.Context, seed *SeedData, hasher security.Hasher) error {
	zap.L().Info("Seeding database",
		zap.Int("users", len(seed.Users)),
		zap.Int("stations", len(seed.Stations)),
		zap.Int("transactions", len(seed.Transactions)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	userIds := make(map[string]int64, len(seed.Users))

	for _, u := range seed.Users {
		role, err := models.ParseRole(u.Role)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		wallet := decimal.Zero
		if u.Wallet != "" {
			wallet, err = decimal.NewFromString(u.Wallet)
			if err != nil {
				return fmt.Errorf("seed user %s: invalid wallet %q: %w", u.Username, u.Wallet, err)
			}
		}
		walletCents, err := toCents(wallet)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		hash, err := hasher.Hash(u.Password)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}

		var id int64
		if err := tx.QueryRowContext(ctx, queryInsertUser, u.Username, hash, string(role), walletCents, now).Scan(&id); err != nil {
			return fmt.Errorf("failed to insert seed user %s: %w", u.Username, err)
		}
		userIds[u.Username] = id
	}

	for _, st := range seed.Stations {
		status, err := models.ParseStationStatus(st.Status)
		if err != nil {
			return fmt.Errorf("seed station %s: %w", st.Name, err)
		}
		if _, err := tx.ExecContext(ctx, queryInsertStation, st.Name, string(status), st.Power, st.ConnectorType, st.Location); err != nil {
			return fmt.Errorf("failed to insert seed station %s: %w", st.Name, err)
		}
	}

	for i, t := range seed.Transactions {
		userId, ok := userIds[t.Username]
		if !ok {
			return fmt.Errorf("seed transaction %d references unknown user %q", i, t.Username)
		}
		amount, err := decimal.NewFromString(t.Amount)
		if err != nil {
			return fmt.Errorf("seed transaction %d: invalid amount %q: %w", i, t.Amount, err)
		}
		amountCents, err := toCents(amount)
		if err != nil {
			return fmt.Errorf("seed transaction %d: %w", i, err)
		}
		quantity, err := decimal.NewFromString(t.Energy)
		if err != nil {
			return fmt.Errorf("seed transaction %d: invalid energy %q: %w", i, t.Energy, err)
		}
		ts, err := time.Parse(seedTimeLayout, t.Timestamp)
		if err != nil {
			return fmt.Errorf("seed transaction %d: invalid timestamp %q: %w", i, t.Timestamp, err)
		}
		unit := t.Unit
		if unit == "" {
			unit = "kWh"
		}

		var id int64
		err = tx.QueryRowContext(ctx, queryInsertTransaction,
			userId, t.Station, amountCents, quantity.String(), unit, formatTime(ts)).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert seed transaction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	zap.L().Info("Database seeded successfully")
	return nil
}
