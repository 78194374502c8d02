package session

import (
	"errors"
	"fmt"

	"evcharge-dashboard-go/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNameTaken          = errors.New("username already exists")
)

// ValidationError is reported straight back to the caller; retrying the same
// input gives the same answer.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Redirect targets
const (
	TargetLanding   = "landing"
	TargetDashboard = "dashboard"
	TargetOperator  = "operator"
)

// RedirectError tells the caller to send the user somewhere else instead of
// rendering the requested surface.
type RedirectError struct {
	Target string
}

func (e *RedirectError) Error() string {
	return "redirect to " + e.Target
}

// targetFor is the home surface of a role.
func targetFor(role models.Role) string {
	if role == models.RoleOperator {
		return TargetOperator
	}
	return TargetDashboard
}
