package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"evcharge-dashboard-go/internal/database"
	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/persistence"
	"evcharge-dashboard-go/internal/security"
	"evcharge-dashboard-go/internal/snapshot"
	"evcharge-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	db      *database.Service
	blobs   *snapshot.MemoryStore
	service *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewService(ctx, models.DatabaseConfig{PingTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	seed, err := database.LoadSeed("")
	require.NoError(t, err)

	blobs := snapshot.NewMemoryStore()
	coordinator := persistence.NewCoordinator(db, blobs, "test_sqlite_db", time.Second, seed, security.NewBcryptHasher(bcrypt.MinCost))
	require.NoError(t, coordinator.Initialize(ctx))

	return &fixture{
		db:      db,
		blobs:   blobs,
		service: NewDashboardService(db, coordinator, decimal.RequireFromString("50.00")),
	}
}

func (f *fixture) userId(t *testing.T, name string) int64 {
	t.Helper()
	user, err := f.db.GetUserByName(context.Background(), name)
	require.NoError(t, err)
	return user.Id
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.service.HealthCheck(context.Background()))
}

func TestOverview(t *testing.T) {
	f := newFixture(t)

	overview, err := f.service.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StationOverview{Total: 6, Occupied: 1, Offline: 1}, *overview)
}

func TestSetStationStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	putsBefore := f.blobs.Puts()

	require.NoError(t, f.service.SetStationStatus(ctx, 3, models.StationAvailable))
	assert.Equal(t, putsBefore+1, f.blobs.Puts())

	// same status is a no-op and writes nothing
	require.NoError(t, f.service.SetStationStatus(ctx, 3, models.StationAvailable))
	assert.Equal(t, putsBefore+1, f.blobs.Puts())

	err := f.service.SetStationStatus(ctx, 1, models.StationOccupied)
	assert.ErrorIs(t, err, store.ErrInvalidTransition)

	err = f.service.SetStationStatus(ctx, 2, models.StationAvailable)
	assert.ErrorIs(t, err, store.ErrInvalidTransition)

	err = f.service.SetStationStatus(ctx, 999, models.StationOffline)
	assert.ErrorIs(t, err, store.ErrStationNotFound)
}

func TestToggleStation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	next, err := f.service.ToggleStation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StationOffline, next)

	_, err = f.service.ToggleStation(ctx, 2)
	assert.ErrorIs(t, err, store.ErrInvalidTransition)
}

func TestListTransactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.service.ListTransactions(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Downtown Plaza Charge", all[0].StationName)

	userId := f.userId(t, "user")
	mine, err := f.service.ListTransactions(ctx, &userId)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "Tech Park Hub", mine[0].StationName)

	adminId := f.userId(t, "admin")
	none, err := f.service.ListTransactions(ctx, &adminId)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetUser_HidesHash(t *testing.T) {
	f := newFixture(t)

	view, err := f.service.GetUser(context.Background(), f.userId(t, "user"))
	require.NoError(t, err)
	assert.Equal(t, "user", view.Username)
	assert.True(t, view.Wallet.Equal(decimal.RequireFromString("250.00")))
}

func TestTopUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := f.userId(t, "user")

	amount, err := f.service.TopUp(ctx, userId)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("50.00")))

	view, err := f.service.GetUser(ctx, userId)
	require.NoError(t, err)
	assert.True(t, view.Wallet.Equal(decimal.RequireFromString("300.00")), "got %s", view.Wallet)

	f.blobs.FailPut = errors.New("quota exceeded")
	amount, err = f.service.TopUp(ctx, userId)
	var perr *persistence.Error
	require.ErrorAs(t, err, &perr)
	assert.True(t, amount.Equal(decimal.RequireFromString("50.00")))

	_, err = f.service.TopUp(ctx, 999)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestCreditWallet_RejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	err := f.service.CreditWallet(context.Background(), f.userId(t, "user"), decimal.Zero)
	assert.Error(t, err)
}

func TestEnergyByStation(t *testing.T) {
	f := newFixture(t)

	totals, err := f.service.EnergyByStation(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.Equal(t, "Downtown Plaza Charge", totals[0].StationName)
	assert.True(t, totals[0].Quantity.Equal(decimal.NewFromInt(45)))
}

func TestWriteTransactionsCSV(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	require.NoError(t, f.service.WriteTransactionsCSV(context.Background(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"ID", "UserID", "Station", "Amount", "Energy", "Timestamp"}, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "Downtown Plaza Charge", records[1][2])
	assert.Equal(t, "28.50", records[1][3])
	assert.Equal(t, "45 kWh", records[1][4])
	assert.Equal(t, "2023-10-10T14:30:00Z", records[1][5])
}
