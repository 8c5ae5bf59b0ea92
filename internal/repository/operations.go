package repository

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
)

// Purchase is everything written when a buyer checks out
type Purchase struct {
	Order       *models.Order
	Items       []models.OrderItem
	Transaction *models.Transaction
	// Delivery is the shipping template copied for every item
	Delivery models.Delivery
	// SoldOut lists the purchased listings to mark sold once the order is stored. A listing that
	// is no longer active fails the whole purchase with ErrListingClosed.
	SoldOut []int64
}

// PlaceOrder stores the order, its items, one delivery per item and the payment in one
// transaction. Listing purchase counters move by the item quantities.
func (s *Store) PlaceOrder(ctx context.Context, p *Purchase) error {
	return s.InTx(ctx, func(tx *Store) error {
		if _, err := tx.Orders.Create(ctx, p.Order); err != nil {
			return err
		}

		for i := range p.Items {
			item := &p.Items[i]
			item.OrderID = p.Order.ID
			if _, err := tx.OrderItems.Create(ctx, item); err != nil {
				return err
			}
			if err := tx.AdjustListingCounter(ctx, item.ListingID, "purchase_count", item.Quantity); err != nil {
				return err
			}

			delivery := p.Delivery
			delivery.OrderItemID = item.ID
			if _, err := tx.Deliveries.Create(ctx, &delivery); err != nil {
				return err
			}
		}

		if p.Transaction != nil {
			orderID := p.Order.ID
			p.Transaction.OrderID = &orderID
			if _, err := tx.Transactions.Create(ctx, p.Transaction); err != nil {
				return err
			}
		}

		for _, listingID := range p.SoldOut {
			n, err := tx.exec(ctx, "mark listing sold",
				"UPDATE listings SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
				models.ListingSold, time.Now().UTC(), listingID, models.ListingActive)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("mark listing %d sold: %w", listingID, marketerrors.ErrListingClosed)
			}
		}

		p.Order.Items = p.Items
		return nil
	})
}

// OrderItemsOf returns the items of an order
func (s *Store) OrderItemsOf(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return s.OrderItems.FindBy(ctx, "order_id", orderID)
}

// CreateReview stores a review and bumps the listing's review counter
func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	return s.InTx(ctx, func(tx *Store) error {
		if _, err := tx.Reviews.Create(ctx, r); err != nil {
			return err
		}
		return tx.AdjustListingCounter(ctx, r.ListingID, "review_count", 1)
	})
}

// DeleteReview removes a review and lowers the listing's review counter
func (s *Store) DeleteReview(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := s.InTx(ctx, func(tx *Store) error {
		r, err := tx.Reviews.GetByID(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				return nil
			}
			return err
		}
		if n, err = tx.Reviews.Delete(ctx, id); err != nil || n == 0 {
			return err
		}
		return tx.AdjustListingCounter(ctx, r.ListingID, "review_count", -1)
	})
	return n, err
}

// UserByUsername returns the user with the given username or ErrNotFound
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.Users.FindOne(ctx, "username", username)
}

// SetUserActive activates or deactivates an account. Deactivation also ends its sessions.
func (s *Store) SetUserActive(ctx context.Context, userID int64, active bool) (int64, error) {
	var n int64
	err := s.InTx(ctx, func(tx *Store) error {
		var err error
		n, err = tx.exec(ctx, "set user active",
			"UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?", active, time.Now().UTC(), userID)
		if err != nil || n == 0 || active {
			return err
		}
		_, err = tx.exec(ctx, "end user sessions", "DELETE FROM sessions WHERE user_id = ?", userID)
		return err
	})
	return n, err
}

// SetUserRole changes a user's role and the role cached on their sessions
func (s *Store) SetUserRole(ctx context.Context, userID int64, role string) (int64, error) {
	if !slices.Contains(models.Roles, role) {
		return 0, &marketerrors.FieldValueError{Entity: "user", Field: "role", Value: role, Allowed: models.Roles}
	}

	var n int64
	err := s.InTx(ctx, func(tx *Store) error {
		var err error
		now := time.Now().UTC()
		n, err = tx.exec(ctx, "set user role", "UPDATE users SET role = ?, updated_at = ? WHERE id = ?", role, now, userID)
		if err != nil || n == 0 {
			return err
		}
		_, err = tx.exec(ctx, "set session role", "UPDATE sessions SET role = ?, updated_at = ? WHERE user_id = ?", role, now, userID)
		return err
	})
	return n, err
}

// RenameUser changes a username; a taken name is ErrConflict
func (s *Store) RenameUser(ctx context.Context, userID int64, username string) (int64, error) {
	if username == "" {
		return 0, &marketerrors.FieldTypeError{Entity: "user", Field: "username", Expected: "string", Actual: "empty"}
	}
	return s.exec(ctx, "rename user", "UPDATE users SET username = ?, updated_at = ? WHERE id = ?",
		username, time.Now().UTC(), userID)
}

// SessionByToken returns the session holding token or ErrNotFound
func (s *Store) SessionByToken(ctx context.Context, token string) (*models.Session, error) {
	return s.Sessions.FindOne(ctx, "token", token)
}

// ProfileByUser returns the profile of a user or ErrNotFound
func (s *Store) ProfileByUser(ctx context.Context, userID int64) (*models.Profile, error) {
	return s.Profiles.FindOne(ctx, "user_id", userID)
}

// ChatMessagesOf returns a page of a chat's messages, oldest first
func (s *Store) ChatMessagesOf(ctx context.Context, chatID int64, q Query) ([]models.ChatMessage, error) {
	return s.ChatMessages.GetAll(ctx, q.With("chat_id", strconv.FormatInt(chatID, 10)))
}

// TouchChat moves a chat's updated_at forward so recent conversations sort first
func (s *Store) TouchChat(ctx context.Context, chatID int64) error {
	n, err := s.exec(ctx, "touch chat", "UPDATE chats SET updated_at = ? WHERE id = ?", time.Now().UTC(), chatID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("touch chat %d: %w", chatID, marketerrors.ErrNotFound)
	}
	return nil
}

// TicketMessagesOf returns a page of a ticket's messages, oldest first
func (s *Store) TicketMessagesOf(ctx context.Context, ticketID int64, q Query) ([]models.TicketMessage, error) {
	return s.TicketMessages.GetAll(ctx, q.With("ticket_id", strconv.FormatInt(ticketID, 10)))
}

// ListItemsOf returns a page of the listings saved in a list
func (s *Store) ListItemsOf(ctx context.Context, listID int64, q Query) ([]models.ListItem, error) {
	return s.ListItems.GetAll(ctx, q.With("list_id", strconv.FormatInt(listID, 10)))
}
