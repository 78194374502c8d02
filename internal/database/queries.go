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

package database

const (
	// User queries
	queryGetUserById = `
		SELECT id, username, password_hash, role, wallet_cents, created_at
		FROM users
		WHERE id = ?`

	queryGetUserByName = `
		SELECT id, username, password_hash, role, wallet_cents, created_at
		FROM users
		WHERE username = ?`

	queryUserExists = `
		SELECT COUNT(*) FROM users WHERE id = ?`

	queryInsertUser = `
		INSERT INTO users (username, password_hash, role, wallet_cents, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`

	// Conditional debit: zero rows affected means the balance would go negative
	queryDebitWallet = `
		UPDATE users
		SET wallet_cents = wallet_cents - ?
		WHERE id = ? AND wallet_cents >= ?`

	queryCreditWallet = `
		UPDATE users
		SET wallet_cents = wallet_cents + ?
		WHERE id = ?`

	// Station queries
	queryListStations = `
		SELECT id, name, status, power, connector_type, location
		FROM stations
		ORDER BY id`

	queryGetStationById = `
		SELECT id, name, status, power, connector_type, location
		FROM stations
		WHERE id = ?`

	queryCountStations = `
		SELECT COUNT(*) FROM stations`

	queryCountStationsByStatus = `
		SELECT COUNT(*) FROM stations WHERE status = ?`

	queryInsertStation = `
		INSERT INTO stations (name, status, power, connector_type, location)
		VALUES (?, ?, ?, ?, ?)`

	// Conditional transition: zero rows affected means the status changed underneath
	queryTransitionStation = `
		UPDATE stations
		SET status = ?
		WHERE id = ? AND status = ?`

	// Transaction queries
	queryInsertTransaction = `
		INSERT INTO transactions (user_id, station_name, amount_cents, energy_quantity, energy_unit, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`

	queryListTransactions = `
		SELECT id, user_id, station_name, amount_cents, energy_quantity, energy_unit, created_at
		FROM transactions
		ORDER BY id`

	queryListUserTransactions = `
		SELECT id, user_id, station_name, amount_cents, energy_quantity, energy_unit, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`

	queryTransactionEnergy = `
		SELECT station_name, energy_quantity, energy_unit
		FROM transactions
		WHERE station_name != ''
		ORDER BY id`

	// Image probe
	queryProbeSchema = `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM stations),
			(SELECT COUNT(*) FROM transactions)`
)
