package application

import (
	"slices"

	"github.com/example/facility-booking/internal/persistence"
)

// HasRole reports whether user holds one of roles. A nil user holds none.
func HasRole(user *persistence.AuthUser, roles ...persistence.Role) bool {
	if user == nil {
		return false
	}
	return slices.Contains(roles, user.Role)
}

// GateState is the outcome of evaluating an AccessGate.
type GateState int

const (
	// GateLoading means the session has not been resolved yet.
	GateLoading GateState = iota
	// GateDenied means the resolved user lacks every allowed role.
	GateDenied
	// GateGranted means the resolved user holds an allowed role.
	GateGranted
)

func (s GateState) String() string {
	switch s {
	case GateLoading:
		return "loading"
	case GateDenied:
		return "denied"
	case GateGranted:
		return "granted"
	}
	return "unknown"
}

// AccessGate decides whether content reserved for Roles may be shown.
type AccessGate struct {
	Roles []persistence.Role
}

// Evaluate returns GateLoading until resolved is true, then grants or denies
// according to HasRole.
func (g AccessGate) Evaluate(resolved bool, user *persistence.AuthUser) GateState {
	if !resolved {
		return GateLoading
	}
	if HasRole(user, g.Roles...) {
		return GateGranted
	}
	return GateDenied
}
