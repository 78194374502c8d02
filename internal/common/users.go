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

package common

import (
	"context"
	"errors"
	"fmt"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/persistence"
	"evcharge-dashboard-go/internal/session"

	"go.uber.org/zap"
)

// RequireSession returns the refreshed session of a user with role. A
// redirect from the session manager becomes a readable error for the CLI.
func RequireSession(ctx context.Context, sessions *session.Manager, role models.Role) (*models.Session, error) {
	if _, err := sessions.RequireRole(ctx, role); err != nil {
		var redirect *session.RedirectError
		if errors.As(err, &redirect) {
			zap.L().Info("Session does not allow command",
				zap.String("required_role", string(role)),
				zap.String("redirect", redirect.Target))
			if redirect.Target == session.TargetLanding {
				return nil, fmt.Errorf("not logged in; run the login command first")
			}
			return nil, fmt.Errorf("this command needs a %s session (current session belongs on %s)", role, redirect.Target)
		}
		return nil, err
	}

	// The cached wallet may be stale; read the row again before showing it
	current, err := sessions.RefreshSession(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("session user no longer exists; log in again")
	}
	return current, nil
}

// PrintSession prints the logged-in user block.
func PrintSession(s *models.Session) {
	fmt.Printf("\n┌─ User: %s (%s)\n", s.Username, s.Role)
	fmt.Printf("│  ID: %d\n", s.UserId)
	fmt.Printf("│  Wallet: %s\n", FormatMoney(s.Wallet))
	fmt.Printf("└  Logged in: %s\n", s.LoggedInAt.Format("2006-01-02 15:04:05"))
}

// PersistenceWarning prints a warning when err carries a snapshot write
// failure and reports whether it did.
func PersistenceWarning(err error) bool {
	var persistErr *persistence.Error
	if !errors.As(err, &persistErr) {
		return false
	}
	zap.L().Warn("State changed but snapshot not written", zap.Error(err))
	fmt.Println("⚠ The change is applied but could not be saved; it will be lost on restart.")
	return true
}
