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
	"github.com/shopspring/decimal"
)

// UserView is the public part of a user row
type UserView struct {
	Id       int64           `json:"id"`
	Username string          `json:"username"`
	Role     Role            `json:"role"`
	Wallet   decimal.Decimal `json:"wallet"`
}

// StationOverview holds the operator dashboard counters
type StationOverview struct {
	Total    int `json:"total"`
	Occupied int `json:"occupied"`
	Offline  int `json:"offline"`
}

// EnergyTotal is the delivered energy summed per station name
type EnergyTotal struct {
	StationName string          `json:"station_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
}

// ExportRow is one line of the transaction dump
type ExportRow struct {
	Id          int64  `json:"id"`
	UserId      int64  `json:"user_id"`
	StationName string `json:"station"`
	Amount      string `json:"amount"`
	Energy      string `json:"energy"`
	Timestamp   string `json:"timestamp"`
}
