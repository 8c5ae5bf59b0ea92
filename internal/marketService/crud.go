package market

import (
	"context"
	"fmt"
	"strconv"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/repository"
)

// Policy describes who may read and change the rows of a resource. Role gates such as
// staff-only writes are applied by the router; the policy covers row ownership.
type Policy[T any] struct {
	// OwnerColumn holds the owning user id. Empty means the rows have no owner.
	OwnerColumn string
	Owner       func(*T) int64
	// PrivateRead limits reads to the owner and staff
	PrivateRead bool
}

func (p Policy[T]) owned() bool { return p.OwnerColumn != "" && p.Owner != nil }

// CRUDService implements the generic resource operations on top of a mapper
type CRUDService[T any] struct {
	mapper *repository.Mapper[T]
	build  func(map[string]any) (*T, error)
	policy Policy[T]
}

// NewCRUDService creates a CRUDService. build validates create payloads and returns the entity.
func NewCRUDService[T any](mapper *repository.Mapper[T], build func(map[string]any) (*T, error), policy Policy[T]) *CRUDService[T] {
	return &CRUDService[T]{mapper: mapper, build: build, policy: policy}
}

func (s *CRUDService[T]) entity() string { return s.mapper.Table().Schema.Entity }

// Get returns one row
func (s *CRUDService[T]) Get(ctx context.Context, actor Actor, id int64) (*T, error) {
	if id <= 0 {
		return nil, invalidID(s.entity(), id)
	}

	item, err := s.mapper.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get %s %d: %w", s.entity(), id, err)
	}

	if s.policy.PrivateRead && s.policy.owned() {
		if err := requireSession(actor, "get "+s.entity()); err != nil {
			return nil, err
		}
		if !actor.CanManage(s.policy.Owner(item)) {
			return nil, forbidden(fmt.Sprintf("get %s %d", s.entity(), id))
		}
	}
	return item, nil
}

// List returns the rows matching q. Private resources only list the caller's own rows unless
// the caller is staff.
func (s *CRUDService[T]) List(ctx context.Context, actor Actor, q repository.Query) ([]T, error) {
	if s.policy.PrivateRead && s.policy.owned() && !actor.IsStaff() {
		if err := requireSession(actor, "list "+s.entity()); err != nil {
			return nil, err
		}
		q = q.With(s.policy.OwnerColumn, strconv.FormatInt(actor.UserID, 10))
	}

	items, err := s.mapper.GetAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list %s: %w", s.entity(), err)
	}
	return items, nil
}

// Create validates fields and inserts a new row. An owned resource defaults its owner to the
// caller, and only staff may create rows owned by someone else.
func (s *CRUDService[T]) Create(ctx context.Context, actor Actor, fields map[string]any) (*T, error) {
	if err := s.writable(fields); err != nil {
		return nil, err
	}
	fields, err := s.ownedFields(actor, fields, "create")
	if err != nil {
		return nil, err
	}

	item, err := s.build(fields)
	if err != nil {
		return nil, fmt.Errorf("service: invalid %s: %w", s.entity(), err)
	}

	if _, err := s.mapper.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("service: failed to create %s: %w", s.entity(), err)
	}
	return item, nil
}

func (s *CRUDService[T]) ownedFields(actor Actor, fields map[string]any, op string) (map[string]any, error) {
	if !s.policy.owned() {
		return fields, nil
	}
	if err := requireSession(actor, op+" "+s.entity()); err != nil {
		return nil, err
	}

	raw, ok := fields[s.policy.OwnerColumn]
	if !ok {
		if op == "create" {
			return withField(fields, s.policy.OwnerColumn, actor.UserID), nil
		}
		return fields, nil
	}
	if owner, isID := idValue(raw); isID && owner == actor.UserID {
		return fields, nil
	}
	if !actor.IsStaff() {
		return nil, forbidden(fmt.Sprintf("%s %s for another user", op, s.entity()))
	}
	return fields, nil
}

// writable rejects payloads that set store-maintained columns
func (s *CRUDService[T]) writable(fields map[string]any) error {
	if err := s.mapper.Table().Schema.CheckWritable(fields); err != nil {
		return fmt.Errorf("service: invalid %s: %w", s.entity(), err)
	}
	return nil
}

// Update applies a partial update and returns the stored row
func (s *CRUDService[T]) Update(ctx context.Context, actor Actor, id int64, fields map[string]any) (*T, error) {
	if id <= 0 {
		return nil, invalidID(s.entity(), id)
	}
	if err := s.authorize(ctx, actor, id, "update"); err != nil {
		return nil, err
	}
	if err := s.writable(fields); err != nil {
		return nil, err
	}
	fields, err := s.ownedFields(actor, fields, "update")
	if err != nil {
		return nil, err
	}

	n, err := s.mapper.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("service: failed to update %s %d: %w", s.entity(), id, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("service: update %s %d: %w", s.entity(), id, marketerrors.ErrNotFound)
	}

	item, err := s.mapper.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to reload %s %d: %w", s.entity(), id, err)
	}
	return item, nil
}

// Delete removes one row
func (s *CRUDService[T]) Delete(ctx context.Context, actor Actor, id int64) error {
	if id <= 0 {
		return invalidID(s.entity(), id)
	}
	if err := s.authorize(ctx, actor, id, "delete"); err != nil {
		return err
	}

	n, err := s.mapper.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("service: failed to delete %s %d: %w", s.entity(), id, err)
	}
	if n == 0 {
		return fmt.Errorf("service: delete %s %d: %w", s.entity(), id, marketerrors.ErrNotFound)
	}
	return nil
}

// authorize checks that the caller may change row id of an owned resource
func (s *CRUDService[T]) authorize(ctx context.Context, actor Actor, id int64, op string) error {
	if !s.policy.owned() {
		return nil
	}
	if err := requireSession(actor, op+" "+s.entity()); err != nil {
		return err
	}

	item, err := s.mapper.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service: failed to %s %s %d: %w", op, s.entity(), id, err)
	}
	if !actor.CanManage(s.policy.Owner(item)) {
		return forbidden(fmt.Sprintf("%s %s %d", op, s.entity(), id))
	}
	return nil
}
