package market

import (
	"context"
	"fmt"
	"strings"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
)

// UserService manages accounts. Role and activation changes are explicit operations.
type UserService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store}
}

// List returns accounts matching q
func (s *UserService) List(ctx context.Context, actor Actor, q repository.Query) ([]models.User, error) {
	if !actor.IsStaff() {
		return nil, forbidden("list users")
	}
	users, err := s.store.Users.GetAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list users: %w", err)
	}
	return users, nil
}

// Get returns one account
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, invalidID("user", id)
	}
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get user %d: %w", id, err)
	}
	return user, nil
}

// Update changes the username or email of an account. Callers may edit themselves; admins
// may edit anyone.
func (s *UserService) Update(ctx context.Context, actor Actor, id int64, fields map[string]any) (*models.User, error) {
	if id <= 0 {
		return nil, invalidID("user", id)
	}
	if err := requireSession(actor, "update user"); err != nil {
		return nil, err
	}
	if actor.UserID != id && !actor.IsAdmin() {
		return nil, forbidden(fmt.Sprintf("update user %d", id))
	}

	for key := range fields {
		if key != "username" && key != "email" {
			return nil, fmt.Errorf("service: %w - %s cannot be changed here", marketerrors.ErrInvalidInput, key)
		}
	}

	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		if raw, ok := fields["username"]; ok {
			username, isString := raw.(string)
			if !isString {
				return &marketerrors.FieldTypeError{Entity: "user", Field: "username", Expected: "string", Actual: fmt.Sprintf("%T", raw)}
			}
			n, err := tx.RenameUser(ctx, id, strings.TrimSpace(username))
			if err != nil {
				return err
			}
			if n == 0 {
				return marketerrors.ErrNotFound
			}
		}
		if email, ok := fields["email"]; ok {
			n, err := tx.Users.Update(ctx, id, map[string]any{"email": email})
			if err != nil {
				return err
			}
			if n == 0 {
				return marketerrors.ErrNotFound
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to update user %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

// SetActive activates or deactivates an account. Deactivation ends its sessions.
func (s *UserService) SetActive(ctx context.Context, actor Actor, id int64, active bool) (*models.User, error) {
	if id <= 0 {
		return nil, invalidID("user", id)
	}
	if !actor.IsStaff() {
		return nil, forbidden(fmt.Sprintf("change activation of user %d", id))
	}

	n, err := s.store.SetUserActive(ctx, id, active)
	if err != nil {
		return nil, fmt.Errorf("service: failed to set user %d active=%t: %w", id, active, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("service: set user %d active: %w", id, marketerrors.ErrNotFound)
	}
	return s.Get(ctx, id)
}

// SetRole changes the role of an account
func (s *UserService) SetRole(ctx context.Context, actor Actor, id int64, role string) (*models.User, error) {
	if id <= 0 {
		return nil, invalidID("user", id)
	}
	if !actor.IsAdmin() {
		return nil, forbidden(fmt.Sprintf("change role of user %d", id))
	}
	return s.setRole(ctx, id, role)
}

// Promote sets the role of the named user without a session. It backs the command line
// bootstrap of the first administrator.
func (s *UserService) Promote(ctx context.Context, username, role string) (*models.User, error) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find user %q: %w", username, err)
	}
	return s.setRole(ctx, user.ID, role)
}

func (s *UserService) setRole(ctx context.Context, id int64, role string) (*models.User, error) {
	n, err := s.store.SetUserRole(ctx, id, role)
	if err != nil {
		return nil, fmt.Errorf("service: failed to set role of user %d: %w", id, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("service: set role of user %d: %w", id, marketerrors.ErrNotFound)
	}
	return s.Get(ctx, id)
}

// Delete removes an account. An account with a profile cannot be removed until the profile is.
func (s *UserService) Delete(ctx context.Context, actor Actor, id int64) error {
	if id <= 0 {
		return invalidID("user", id)
	}
	if !actor.IsAdmin() {
		return forbidden(fmt.Sprintf("delete user %d", id))
	}

	if _, err := s.store.ProfileByUser(ctx, id); err == nil {
		return fmt.Errorf("service: %w - user %d still has a profile", marketerrors.ErrConflict, id)
	} else if !repository.IsNotFound(err) {
		return fmt.Errorf("service: failed to check profile of user %d: %w", id, err)
	}

	n, err := s.store.Users.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("service: failed to delete user %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("service: delete user %d: %w", id, marketerrors.ErrNotFound)
	}
	return nil
}

// Profile returns the profile of a user
func (s *UserService) Profile(ctx context.Context, id int64) (*models.Profile, error) {
	if id <= 0 {
		return nil, invalidID("user", id)
	}
	profile, err := s.store.ProfileByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get profile of user %d: %w", id, err)
	}
	return profile, nil
}
