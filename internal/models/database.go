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

package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Role is fixed when the user is created
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOperator Role = "operator"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleOperator
}

// ParseRole accepts the legacy "user" spelling for customers.
func ParseRole(s string) (Role, error) {
	switch s {
	case "customer", "user":
		return RoleCustomer, nil
	case "operator":
		return RoleOperator, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// StationStatus is exactly one of available, occupied, offline
type StationStatus string

const (
	StationAvailable StationStatus = "available"
	StationOccupied  StationStatus = "occupied"
	StationOffline   StationStatus = "offline"
)

func (s StationStatus) Valid() bool {
	switch s {
	case StationAvailable, StationOccupied, StationOffline:
		return true
	}
	return false
}

// ParseStationStatus is case-insensitive for the first letter ("Available" from old seeds).
func ParseStationStatus(s string) (StationStatus, error) {
	switch s {
	case "available", "Available":
		return StationAvailable, nil
	case "occupied", "Occupied":
		return StationOccupied, nil
	case "offline", "Offline":
		return StationOffline, nil
	}
	return "", fmt.Errorf("unknown station status %q", s)
}

// User represents an account. PasswordHash never leaves the database package
// except for credential checks.
type User struct {
	Id           int64           `db:"id"`
	Username     string          `db:"username"`
	PasswordHash string          `db:"password_hash"`
	Role         Role            `db:"role"`
	Wallet       decimal.Decimal `db:"wallet_cents"`
	CreatedAt    time.Time       `db:"created_at"`
}

// Station represents a charge point
type Station struct {
	Id            int64         `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Status        StationStatus `db:"status" json:"status"`
	Power         string        `db:"power" json:"power"`
	ConnectorType string        `db:"connector_type" json:"connector_type"`
	Location      string        `db:"location" json:"location"`
}

// Energy is a delivered quantity with its unit, e.g. 25 kWh
type Energy struct {
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

func (e Energy) String() string {
	return e.Quantity.String() + " " + e.Unit
}

// Transaction is an append-only charging record. StationName is a snapshot
// taken at charge time.
type Transaction struct {
	Id          int64           `db:"id" json:"id"`
	UserId      int64           `db:"user_id" json:"user_id"`
	StationName string          `db:"station_name" json:"station_name"`
	Amount      decimal.Decimal `db:"amount_cents" json:"amount"`
	Energy      Energy          `json:"energy"`
	CreatedAt   time.Time       `db:"created_at" json:"timestamp"`
}
