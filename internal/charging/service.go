package charging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/persistence"
	"evcharge-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const energyUnit = "kWh"

// Store is the part of the database a charging attempt touches.
type Store interface {
	GetUserById(ctx context.Context, userId int64) (*models.User, error)
	GetStationById(ctx context.Context, stationId int64) (*models.Station, error)
	DebitWallet(ctx context.Context, userId int64, amount decimal.Decimal) error
	CreditWallet(ctx context.Context, userId int64, amount decimal.Decimal) error
	ReserveStation(ctx context.Context, stationId int64) error
	InsertTransaction(ctx context.Context, params store.InsertTransactionParams) (*models.Transaction, error)
}

// Mutator runs a mutation and persists its outcome.
type Mutator interface {
	Mutate(ctx context.Context, op string, fn func(ctx context.Context) error) error
}

// EnergySource yields the quantity delivered by one session.
type EnergySource func() models.Energy

// UniformEnergy draws a whole number of kWh in [lo, hi].
func UniformEnergy(lo, hi int) EnergySource {
	return func() models.Energy {
		n := lo
		if hi > lo {
			n += rand.Intn(hi - lo + 1)
		}
		return models.Energy{Quantity: decimal.NewFromInt(int64(n)), Unit: energyUnit}
	}
}

type Service struct {
	store   Store
	mutator Mutator
	cost    decimal.Decimal
	energy  EnergySource
	now     func() time.Time
}

func NewService(db Store, mutator Mutator, cfg models.ChargingConfig) *Service {
	return &Service{
		store:   db,
		mutator: mutator,
		cost:    cfg.SessionCost,
		energy:  UniformEnergy(cfg.MinEnergyKWh, cfg.MaxEnergyKWh),
		now:     time.Now,
	}
}

// WithEnergySource replaces the simulated meter.
func (s *Service) WithEnergySource(source EnergySource) *Service {
	s.energy = source
	return s
}

// Result is the terminal state of an attempt and, once recorded, its row.
type Result struct {
	State       State
	Transaction *models.Transaction
}

// StartCharging runs debit, reserve, record and commit for one session.
//
// Rejections (ErrInsufficientFunds, ErrStationUnavailable) leave nothing
// changed; a lost station race is compensated by crediting the debit back.
// A failed record returns *InconsistentStateError. If everything is applied
// but the snapshot write fails, the Result is returned with a
// *persistence.Error.
func (s *Service) StartCharging(ctx context.Context, userId, stationId int64) (*Result, error) {
	a := &attempt{
		service:   s,
		userId:    userId,
		stationId: stationId,
		state:     Requested,
	}
	zap.L().Info("Charging requested", zap.Int64("user_id", userId), zap.Int64("station_id", stationId))

	err := s.mutator.Mutate(ctx, "charge", a.run)

	var persistErr *persistence.Error
	switch {
	case err == nil:
		a.advance(Committed)
		zap.L().Info("Charging committed",
			zap.Int64("user_id", userId),
			zap.Int64("station_id", stationId),
			zap.Int64("transaction_id", a.tx.Id),
			zap.String("amount", a.tx.Amount.String()),
			zap.String("energy", a.tx.Energy.String()))
	case a.state == Recorded && errors.As(err, &persistErr):
		zap.L().Error("Charging applied but not persisted",
			zap.Int64("user_id", userId),
			zap.Int64("transaction_id", a.tx.Id),
			zap.Error(err))
	case a.state == Inconsistent:
		zap.L().Error("Charging left inconsistent state",
			zap.Int64("user_id", userId),
			zap.Int64("station_id", stationId),
			zap.Error(err))
	default:
		zap.L().Warn("Charging rejected",
			zap.Int64("user_id", userId),
			zap.Int64("station_id", stationId),
			zap.Error(err))
	}

	return &Result{State: a.state, Transaction: a.tx}, err
}

type attempt struct {
	service   *Service
	userId    int64
	stationId int64
	state     State
	tx        *models.Transaction
}

func (a *attempt) advance(to State) {
	zap.L().Debug("Charging state change",
		zap.Int64("user_id", a.userId),
		zap.Int64("station_id", a.stationId),
		zap.Stringer("from", a.state),
		zap.Stringer("to", to))
	a.state = to
}

func (a *attempt) reject(err error) error {
	a.advance(Rejected)
	return err
}

func (a *attempt) run(ctx context.Context) error {
	s := a.service
	cost := s.cost

	// Fresh reads; the cached session is never trusted for money or availability
	user, err := s.store.GetUserById(ctx, a.userId)
	if err != nil {
		return a.reject(err)
	}
	station, err := s.store.GetStationById(ctx, a.stationId)
	if err != nil {
		return a.reject(err)
	}

	if user.Wallet.LessThan(cost) {
		return a.reject(fmt.Errorf("%w: balance %s, session costs %s", ErrInsufficientFunds, user.Wallet, cost))
	}
	if station.Status != models.StationAvailable {
		return a.reject(fmt.Errorf("%w: %s is %s", ErrStationUnavailable, station.Name, station.Status))
	}
	a.advance(Validated)

	if err := s.store.DebitWallet(ctx, a.userId, cost); err != nil {
		if errors.Is(err, store.ErrInsufficientBalance) {
			return a.reject(fmt.Errorf("%w: %v", ErrInsufficientFunds, err))
		}
		return a.reject(fmt.Errorf("unable to debit wallet: %w", err))
	}
	a.advance(Debited)

	if err := s.store.ReserveStation(ctx, a.stationId); err != nil {
		return a.compensate(ctx, err)
	}
	a.advance(StationReserved)

	tx, err := s.store.InsertTransaction(ctx, store.InsertTransactionParams{
		UserId:      a.userId,
		StationName: station.Name,
		Amount:      cost,
		Energy:      s.energy(),
		CreatedAt:   s.now(),
	})
	if err != nil {
		a.advance(Inconsistent)
		return &InconsistentStateError{
			UserId:    a.userId,
			StationId: a.stationId,
			Debited:   cost,
			Err:       err,
		}
	}
	a.tx = tx
	a.advance(Recorded)
	return nil
}

// compensate undoes the debit after the station could not be reserved.
func (a *attempt) compensate(ctx context.Context, reserveErr error) error {
	cost := a.service.cost
	zap.L().Warn("Station reservation failed, refunding debit",
		zap.Int64("user_id", a.userId),
		zap.Int64("station_id", a.stationId),
		zap.String("amount", cost.String()),
		zap.Error(reserveErr))

	if err := a.service.store.CreditWallet(ctx, a.userId, cost); err != nil {
		a.advance(Inconsistent)
		return &InconsistentStateError{
			UserId:    a.userId,
			StationId: a.stationId,
			Debited:   cost,
			Err:       errors.Join(reserveErr, fmt.Errorf("refund failed: %w", err)),
		}
	}

	if errors.Is(reserveErr, store.ErrStationNotAvailable) || errors.Is(reserveErr, store.ErrStationNotFound) {
		return a.reject(fmt.Errorf("%w: %v", ErrStationUnavailable, reserveErr))
	}
	return a.reject(fmt.Errorf("unable to reserve station: %w", reserveErr))
}
