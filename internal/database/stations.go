package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/store"

	"go.uber.org/zap"
)

// allowedTransitions lists every legal status change. Anything else,
// including occupied -> offline, is rejected.
var allowedTransitions = map[models.StationStatus][]models.StationStatus{
	models.StationAvailable: {models.StationOccupied, models.StationOffline},
	models.StationOccupied:  {models.StationAvailable},
	models.StationOffline:   {models.StationAvailable},
}

func canTransition(from, to models.StationStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func scanStation(row rowScanner) (*models.Station, error) {
	var station models.Station
	var status string
	if err := row.Scan(&station.Id, &station.Name, &status, &station.Power, &station.ConnectorType, &station.Location); err != nil {
		return nil, err
	}
	station.Status = models.StationStatus(status)
	if !station.Status.Valid() {
		return nil, fmt.Errorf("station %d has unknown status %q", station.Id, status)
	}
	return &station, nil
}

func (s *Service) ListStations(ctx context.Context) ([]models.Station, error) {
	zap.L().Debug("Querying stations")

	rows, err := s.db.QueryContext(ctx, queryListStations)
	if err != nil {
		zap.L().Error("Failed to query stations", zap.Error(err))
		return nil, fmt.Errorf("unable to query stations: %w", err)
	}
	defer closeRows(rows)

	var stations []models.Station
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			zap.L().Error("Failed to scan station row", zap.Error(err))
			return nil, fmt.Errorf("unable to scan station row: %w", err)
		}
		stations = append(stations, *station)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during station row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating station rows: %w", err)
	}

	return stations, nil
}

func (s *Service) GetStationById(ctx context.Context, stationId int64) (*models.Station, error) {
	station, err := scanStation(s.db.QueryRowContext(ctx, queryGetStationById, stationId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", store.ErrStationNotFound, stationId)
		}
		zap.L().Error("Failed to query station", zap.Int64("station_id", stationId), zap.Error(err))
		return nil, fmt.Errorf("unable to query station: %w", err)
	}
	return station, nil
}

// CountStations counts all stations, or only those in status when it is non-nil.
func (s *Service) CountStations(ctx context.Context, status *models.StationStatus) (int, error) {
	var count int
	var err error
	if status == nil {
		err = s.db.QueryRowContext(ctx, queryCountStations).Scan(&count)
	} else {
		if !status.Valid() {
			return 0, fmt.Errorf("unknown station status %q", *status)
		}
		err = s.db.QueryRowContext(ctx, queryCountStationsByStatus, string(*status)).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("unable to count stations: %w", err)
	}
	return count, nil
}

// SetStationStatus moves a station to status if the transition is legal.
// Setting the current status again is a no-op.
func (s *Service) SetStationStatus(ctx context.Context, stationId int64, status models.StationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown station status %q", status)
	}

	station, err := s.GetStationById(ctx, stationId)
	if err != nil {
		return err
	}
	if station.Status == status {
		return nil
	}
	if !canTransition(station.Status, status) {
		return fmt.Errorf("%w: %s -> %s", store.ErrInvalidTransition, station.Status, status)
	}

	err = s.transition(ctx, stationId, station.Status, status)
	if errors.Is(err, errStatusChanged) {
		return fmt.Errorf("%w: station %d left %s", store.ErrInvalidTransition, stationId, station.Status)
	}
	return err
}

// ReserveStation flips available -> occupied in one conditional update.
func (s *Service) ReserveStation(ctx context.Context, stationId int64) error {
	err := s.transition(ctx, stationId, models.StationAvailable, models.StationOccupied)
	if errors.Is(err, errStatusChanged) {
		if _, err := s.GetStationById(ctx, stationId); err != nil {
			return err
		}
		return fmt.Errorf("%w: id %d", store.ErrStationNotAvailable, stationId)
	}
	return err
}

// ToggleStation is the operator switch: offline <-> available. Occupied
// stations cannot be toggled.
func (s *Service) ToggleStation(ctx context.Context, stationId int64) (models.StationStatus, error) {
	station, err := s.GetStationById(ctx, stationId)
	if err != nil {
		return "", err
	}

	var next models.StationStatus
	switch station.Status {
	case models.StationOffline:
		next = models.StationAvailable
	case models.StationAvailable:
		next = models.StationOffline
	default:
		return station.Status, fmt.Errorf("%w: station %d is %s", store.ErrInvalidTransition, stationId, station.Status)
	}

	err = s.transition(ctx, stationId, station.Status, next)
	if errors.Is(err, errStatusChanged) {
		return station.Status, fmt.Errorf("%w: station %d left %s", store.ErrInvalidTransition, stationId, station.Status)
	}
	if err != nil {
		return station.Status, err
	}
	return next, nil
}

var errStatusChanged = errors.New("station status changed concurrently")

func (s *Service) transition(ctx context.Context, stationId int64, from, to models.StationStatus) error {
	result, err := s.db.ExecContext(ctx, queryTransitionStation, string(to), stationId, string(from))
	if err != nil {
		zap.L().Error("Failed to update station status", zap.Int64("station_id", stationId), zap.Error(err))
		return fmt.Errorf("unable to update station status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errStatusChanged
	}

	zap.L().Info("Station status changed",
		zap.Int64("station_id", stationId),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return nil
}
