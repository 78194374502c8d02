package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session is the cached projection of a logged-in user. It has no secret and
// may be stale; the users row is authoritative for the wallet.
type Session struct {
	Id         string          `json:"id"`
	UserId     int64           `json:"user_id"`
	Username   string          `json:"username"`
	Role       Role            `json:"role"`
	Wallet     decimal.Decimal `json:"wallet"`
	LoggedInAt time.Time       `json:"logged_in_at"`
}
