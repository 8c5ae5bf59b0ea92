package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
)

// Store bundles one mapper per entity over a shared handle
type Store struct {
	db      *sql.DB
	handle  DBTX
	dialect Dialect

	Users          *Mapper[models.User]
	Sessions       *Mapper[models.Session]
	Profiles       *Mapper[models.Profile]
	Categories     *Mapper[models.Category]
	Listings       *Mapper[models.Listing]
	Bids           *Mapper[models.Bid]
	Orders         *Mapper[models.Order]
	OrderItems     *Mapper[models.OrderItem]
	Transactions   *Mapper[models.Transaction]
	Deliveries     *Mapper[models.Delivery]
	Reviews        *Mapper[models.Review]
	Chats          *Mapper[models.Chat]
	ChatMessages   *Mapper[models.ChatMessage]
	Tickets        *Mapper[models.SupportTicket]
	TicketMessages *Mapper[models.TicketMessage]
	Lists          *Mapper[models.List]
	ListItems      *Mapper[models.ListItem]
}

// NewStore builds a store on db. A nil db falls back to the process-wide default connection.
func NewStore(db *sql.DB, d Dialect) *Store {
	if db == nil {
		db, d = Default()
	}
	return newStore(db, db, d)
}

func newStore(db *sql.DB, handle DBTX, d Dialect) *Store {
	return &Store{
		db:      db,
		handle:  handle,
		dialect: d,

		Users:          NewMapper(handle, d, userTable),
		Sessions:       NewMapper(handle, d, sessionTable),
		Profiles:       NewMapper(handle, d, profileTable),
		Categories:     NewMapper(handle, d, categoryTable),
		Listings:       NewMapper(handle, d, listingTable),
		Bids:           NewMapper(handle, d, bidTable),
		Orders:         NewMapper(handle, d, orderTable),
		OrderItems:     NewMapper(handle, d, orderItemTable),
		Transactions:   NewMapper(handle, d, transactionTable),
		Deliveries:     NewMapper(handle, d, deliveryTable),
		Reviews:        NewMapper(handle, d, reviewTable),
		Chats:          NewMapper(handle, d, chatTable),
		ChatMessages:   NewMapper(handle, d, chatMessageTable),
		Tickets:        NewMapper(handle, d, ticketTable),
		TicketMessages: NewMapper(handle, d, ticketMessageTable),
		Lists:          NewMapper(handle, d, listTable),
		ListItems:      NewMapper(handle, d, listItemTable),
	}
}

// DB returns the underlying connection pool
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the SQL dialect of the store
func (s *Store) Dialect() Dialect { return s.dialect }

// Migrate creates the schema on the store's connection
func (s *Store) Migrate(ctx context.Context) error {
	return Migrate(ctx, s.handle, s.dialect)
}

// InTx runs fn with a store bound to a single transaction, committing when fn returns nil
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if _, nested := s.handle.(*sql.Tx); nested {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(newStore(s.db, tx, s.dialect)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := s.handle.ExecContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return 0, classify(op, err)
	}
	return res.RowsAffected()
}

var listingCounters = map[string]bool{
	"bid_count":      true,
	"purchase_count": true,
	"review_count":   true,
}

// AdjustListingCounter adds delta to one of the listing counters
func (s *Store) AdjustListingCounter(ctx context.Context, listingID int64, counter string, delta int64) error {
	if !listingCounters[counter] {
		return fmt.Errorf("adjust listing counter %q: %w", counter, marketerrors.ErrInvalidInput)
	}

	query := fmt.Sprintf("UPDATE listings SET %[1]s = %[1]s + ?, updated_at = ? WHERE id = ?", counter)
	n, err := s.exec(ctx, "adjust listing "+counter, query, delta, time.Now().UTC(), listingID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("adjust listing %d: %w", listingID, marketerrors.ErrNotFound)
	}
	return nil
}

// ChatBetween returns the chat shared by two users in either order, or ErrNotFound
func (s *Store) ChatBetween(ctx context.Context, a, b int64) (*models.Chat, error) {
	query := chatTable.selectSQL() + " WHERE (user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?) ORDER BY id LIMIT 1"
	chats, err := s.Chats.query(ctx, "chat between users", query, a, b, b, a)
	if err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return nil, fmt.Errorf("chat between %d and %d: %w", a, b, marketerrors.ErrNotFound)
	}
	return &chats[0], nil
}

// DeleteSessionByToken removes the session holding token
func (s *Store) DeleteSessionByToken(ctx context.Context, token string) (int64, error) {
	return s.exec(ctx, "delete session", "DELETE FROM sessions WHERE token = ?", token)
}

// PurgeExpiredSessions deletes every session that expired before now
func (s *Store) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return s.exec(ctx, "purge sessions", "DELETE FROM sessions WHERE expires_at <= ?", now.UTC())
}

// DeleteListItem removes a listing from a list
func (s *Store) DeleteListItem(ctx context.Context, listID, itemID int64) (int64, error) {
	return s.exec(ctx, "delete list item", "DELETE FROM list_items WHERE id = ? AND list_id = ?", itemID, listID)
}
