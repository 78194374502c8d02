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

package api

import (
	"context"
	"fmt"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/store"

	"go.uber.org/zap"
)

func (s *DashboardService) ListStations(ctx context.Context) ([]models.Station, error) {
	stations, err := s.db.ListStations(ctx)
	if err != nil {
		zap.L().Error("Failed to list stations", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve stations: %w", err)
	}
	return stations, nil
}

// CountStations counts every station, or only those in status when non-nil.
func (s *DashboardService) CountStations(ctx context.Context, status *models.StationStatus) (int, error) {
	return s.db.CountStations(ctx, status)
}

// Overview returns the operator counters.
func (s *DashboardService) Overview(ctx context.Context) (*models.StationOverview, error) {
	occupied := models.StationOccupied
	offline := models.StationOffline

	var overview models.StationOverview
	var err error
	if overview.Total, err = s.db.CountStations(ctx, nil); err != nil {
		return nil, err
	}
	if overview.Occupied, err = s.db.CountStations(ctx, &occupied); err != nil {
		return nil, err
	}
	if overview.Offline, err = s.db.CountStations(ctx, &offline); err != nil {
		return nil, err
	}
	return &overview, nil
}

// SetStationStatus is the operator control. Only offline <-> available is
// allowed here; occupancy is owned by charging.
func (s *DashboardService) SetStationStatus(ctx context.Context, stationId int64, status models.StationStatus) error {
	zap.L().Info("Setting station status",
		zap.Int64("station_id", stationId),
		zap.String("status", string(status)))

	station, err := s.db.GetStationById(ctx, stationId)
	if err != nil {
		return err
	}
	if station.Status == status {
		return nil
	}
	if station.Status == models.StationOccupied || status == models.StationOccupied {
		return fmt.Errorf("%w: operators cannot move %s -> %s", store.ErrInvalidTransition, station.Status, status)
	}

	return s.mutator.Mutate(ctx, "set_station_status", func(ctx context.Context) error {
		return s.db.SetStationStatus(ctx, stationId, status)
	})
}

// ToggleStation flips offline <-> available and returns the new status.
func (s *DashboardService) ToggleStation(ctx context.Context, stationId int64) (models.StationStatus, error) {
	var next models.StationStatus
	err := s.mutator.Mutate(ctx, "toggle_station", func(ctx context.Context) error {
		var err error
		next, err = s.db.ToggleStation(ctx, stationId)
		return err
	})
	if err != nil {
		zap.L().Warn("Station toggle failed", zap.Int64("station_id", stationId), zap.Error(err))
	}
	return next, err
}
