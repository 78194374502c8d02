package charging

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// State of one charging attempt. Requested through Committed is the happy
// path; Rejected and Inconsistent are the failure exits.
type State int

const (
	Requested State = iota
	Validated
	Debited
	StationReserved
	Recorded
	Committed
	Rejected
	Inconsistent
)

var stateNames = [...]string{
	Requested:       "requested",
	Validated:       "validated",
	Debited:         "debited",
	StationReserved: "station_reserved",
	Recorded:        "recorded",
	Committed:       "committed",
	Rejected:        "rejected",
	Inconsistent:    "inconsistent",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Rejections. Nothing is left changed when these are returned.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrStationUnavailable = errors.New("station unavailable")
)

// InconsistentStateError is returned when the wallet was debited and the
// station occupied but no transaction row could be written. It must not be
// retried: a retry charges again.
type InconsistentStateError struct {
	UserId    int64
	StationId int64
	Debited   decimal.Decimal
	Err       error
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("charging left inconsistent state for user %d at station %d (debited %s): %v",
		e.UserId, e.StationId, e.Debited, e.Err)
}

func (e *InconsistentStateError) Unwrap() error {
	return e.Err
}

// PartiallyApplied marks the error so the coordinator persists what is visible.
func (e *InconsistentStateError) PartiallyApplied() bool {
	return true
}
