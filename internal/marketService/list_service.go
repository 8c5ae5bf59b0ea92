package market

import (
	"context"
	"fmt"
	"strconv"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
)

// ListService manages the saved-listing collections of users
type ListService struct {
	*CRUDService[models.List]
	store *repository.Store
}

func NewListService(store *repository.Store) *ListService {
	return &ListService{
		CRUDService: NewCRUDService(store.Lists, models.NewList, Policy[models.List]{
			OwnerColumn: "user_id",
			Owner:       func(l *models.List) int64 { return l.UserID },
		}),
		store: store,
	}
}

// List returns the caller's lists, or public lists of every user when q asks for is_public=true
func (s *ListService) List(ctx context.Context, actor Actor, q repository.Query) ([]models.List, error) {
	public, _ := strconv.ParseBool(q["is_public"])
	if !public && !actor.IsStaff() {
		if err := requireSession(actor, "list lists"); err != nil {
			return nil, err
		}
		q = q.With("user_id", strconv.FormatInt(actor.UserID, 10))
	}

	lists, err := s.store.Lists.GetAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list lists: %w", err)
	}
	return lists, nil
}

// Get returns a list that is public or belongs to the caller
func (s *ListService) Get(ctx context.Context, actor Actor, id int64) (*models.List, error) {
	list, err := s.CRUDService.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !list.IsPublic && !actor.CanManage(list.UserID) {
		return nil, forbidden(fmt.Sprintf("get list %d", id))
	}
	return list, nil
}

// Items returns a page of the listings saved in a list
func (s *ListService) Items(ctx context.Context, actor Actor, listID int64, q repository.Query) ([]models.ListItem, error) {
	if _, err := s.Get(ctx, actor, listID); err != nil {
		return nil, err
	}
	items, err := s.store.ListItemsOf(ctx, listID, q)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list items of list %d: %w", listID, err)
	}
	return items, nil
}

// AddItem saves a listing in a list owned by the caller. A listing appears in a list once.
func (s *ListService) AddItem(ctx context.Context, actor Actor, listID int64, fields map[string]any) (*models.ListItem, error) {
	if err := s.owner(ctx, actor, listID, "add to"); err != nil {
		return nil, err
	}

	item, err := models.NewListItem(withField(fields, "list_id", listID))
	if err != nil {
		return nil, fmt.Errorf("service: invalid list item: %w", err)
	}
	if _, err := s.store.Listings.GetByID(ctx, item.ListingID); err != nil {
		return nil, fmt.Errorf("service: failed to load listing %d: %w", item.ListingID, err)
	}

	if _, err := s.store.ListItems.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("service: failed to add listing %d to list %d: %w", item.ListingID, listID, err)
	}
	return item, nil
}

// RemoveItem deletes an entry from a list owned by the caller
func (s *ListService) RemoveItem(ctx context.Context, actor Actor, listID, itemID int64) error {
	if itemID <= 0 {
		return invalidID("list item", itemID)
	}
	if err := s.owner(ctx, actor, listID, "remove from"); err != nil {
		return err
	}

	n, err := s.store.DeleteListItem(ctx, listID, itemID)
	if err != nil {
		return fmt.Errorf("service: failed to remove item %d from list %d: %w", itemID, listID, err)
	}
	if n == 0 {
		return fmt.Errorf("service: remove item %d from list %d: %w", itemID, listID, marketerrors.ErrNotFound)
	}
	return nil
}

func (s *ListService) owner(ctx context.Context, actor Actor, listID int64, op string) error {
	if err := requireSession(actor, op+" list"); err != nil {
		return err
	}
	if listID <= 0 {
		return invalidID("list", listID)
	}

	list, err := s.store.Lists.GetByID(ctx, listID)
	if err != nil {
		return fmt.Errorf("service: failed to load list %d: %w", listID, err)
	}
	if list.UserID != actor.UserID {
		return forbidden(fmt.Sprintf("%s list %d", op, listID))
	}
	return nil
}
