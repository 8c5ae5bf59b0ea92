package market

import (
	"encoding/json"
	"fmt"
	"math"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
)

// Actor is the authenticated caller of a service operation. The zero Actor is anonymous.
type Actor struct {
	UserID int64
	Role   string
}

// Anonymous reports whether the caller has no session
func (a Actor) Anonymous() bool { return a.UserID <= 0 }

// IsStaff reports whether the caller holds a staff or admin role
func (a Actor) IsStaff() bool { return !a.Anonymous() && models.IsStaffRole(a.Role) }

// IsAdmin reports whether the caller is an administrator
func (a Actor) IsAdmin() bool { return !a.Anonymous() && a.Role == models.RoleAdmin }

// CanManage reports whether the caller owns ownerID's data or is staff
func (a Actor) CanManage(ownerID int64) bool {
	return a.IsStaff() || (!a.Anonymous() && a.UserID == ownerID)
}

func requireSession(a Actor, op string) error {
	if a.Anonymous() {
		return fmt.Errorf("service: %s: %w", op, marketerrors.ErrUnauthorized)
	}
	return nil
}

func forbidden(op string) error {
	return fmt.Errorf("service: %s: %w", op, marketerrors.ErrForbidden)
}

func invalidID(entity string, id int64) error {
	return fmt.Errorf("service: %w - invalid %s id %d", marketerrors.ErrInvalidInput, entity, id)
}

// idValue reads a JSON-decoded identifier
func idValue(raw any) (int64, bool) {
	switch n := raw.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

// withField returns a copy of fields with key set
func withField(fields map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[key] = value
	return out
}
