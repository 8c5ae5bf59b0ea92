package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
)

// AuctionDB defines the bid storage interface for the auction system
type AuctionDB interface {
	GetListing(ctx context.Context, listingID int64) (models.Listing, error)
	RecordBid(ctx context.Context, bid *models.Bid) error
	GetBidsByListing(ctx context.Context, listingID int64) ([]models.Bid, error)
	GetWinningBid(ctx context.Context, listingID int64) (models.Bid, error)
	GetListingsByBidder(ctx context.Context, bidderID int64) ([]models.Listing, error)
}

// AuctionRepo is the SQL implementation of AuctionDB
type AuctionRepo struct {
	store *Store
}

// NewAuctionRepo creates an AuctionRepo on top of a store
func NewAuctionRepo(store *Store) *AuctionRepo {
	return &AuctionRepo{store: store}
}

// GetListing returns the listing a bid targets
func (r *AuctionRepo) GetListing(ctx context.Context, listingID int64) (models.Listing, error) {
	listing, err := r.store.Listings.GetByID(ctx, listingID)
	if err != nil {
		return models.Listing{}, fmt.Errorf("get listing %d: %w", listingID, err)
	}
	return *listing, nil
}

// RecordBid stores the bid and raises the listing's current price in one transaction.
// The price only moves when the bid is still the highest, so concurrent bids cannot lower it.
func (r *AuctionRepo) RecordBid(ctx context.Context, bid *models.Bid) error {
	return r.store.InTx(ctx, func(tx *Store) error {
		n, err := tx.exec(ctx, "raise listing price",
			`UPDATE listings SET current_price = ?, bid_count = bid_count + 1, updated_at = ?
WHERE id = ? AND (bid_count = 0 OR current_price IS NULL OR current_price < ?)`,
			bid.Amount, time.Now().UTC(), bid.ListingID, bid.Amount)
		if err != nil {
			return fmt.Errorf("record bid for listing %d: %w", bid.ListingID, err)
		}
		if n == 0 {
			if _, err := tx.Listings.GetByID(ctx, bid.ListingID); err != nil {
				return fmt.Errorf("record bid for listing %d: %w", bid.ListingID, err)
			}
			return fmt.Errorf("record bid for listing %d: %w", bid.ListingID, marketerrors.ErrBidTooLow)
		}

		if _, err := tx.Bids.Create(ctx, bid); err != nil {
			return fmt.Errorf("record bid for listing %d: %w", bid.ListingID, err)
		}
		return nil
	})
}

// GetBidsByListing returns all bids for a listing in the order they were placed
func (r *AuctionRepo) GetBidsByListing(ctx context.Context, listingID int64) ([]models.Bid, error) {
	bids, err := r.store.Bids.FindBy(ctx, "listing_id", listingID)
	if err != nil {
		return nil, fmt.Errorf("get bids for listing %d: %w", listingID, err)
	}
	if len(bids) == 0 {
		return nil, fmt.Errorf("get bids for listing %d: %w", listingID, marketerrors.ErrNoBids)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid for a listing; on equal amounts the earliest bid wins
func (r *AuctionRepo) GetWinningBid(ctx context.Context, listingID int64) (models.Bid, error) {
	query := bidTable.selectSQL() + " WHERE listing_id = ? ORDER BY amount DESC, bid_time ASC, id ASC LIMIT 1"
	bids, err := r.store.Bids.query(ctx, "get winning bid", query, listingID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("get winning bid for listing %d: %w", listingID, err)
	}
	if len(bids) == 0 {
		return models.Bid{}, fmt.Errorf("get winning bid for listing %d: %w", listingID, marketerrors.ErrNoBids)
	}
	return bids[0], nil
}

// GetListingsByBidder returns all listings a user has bid on
func (r *AuctionRepo) GetListingsByBidder(ctx context.Context, bidderID int64) ([]models.Listing, error) {
	query := listingTable.selectSQL() + " WHERE id IN (SELECT listing_id FROM bids WHERE bidder_id = ?) ORDER BY id ASC"
	listings, err := r.store.Listings.query(ctx, "get listings by bidder", query, bidderID)
	if err != nil {
		return nil, fmt.Errorf("get listings for user %d: %w", bidderID, err)
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("get listings for user %d: %w", bidderID, marketerrors.ErrUserNoBids)
	}
	return listings, nil
}

// IsNotFound reports whether err means the requested row does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, marketerrors.ErrNotFound)
}
