package bidding

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"auction-marketplace/internal/events"
	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
)

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	repo      repository.AuctionDB
	publisher events.Publisher
	now       func() time.Time
}

// NewBiddingService creates a new BiddingService instance. publisher may be nil.
func NewBiddingService(repo repository.AuctionDB, publisher events.Publisher) *BiddingService {
	return &BiddingService{
		repo:      repo,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PlaceBid validates and records a user's bid on an auction listing
func (s *BiddingService) PlaceBid(ctx context.Context, listingID, bidderID int64, amount float64) (models.Bid, error) {
	if listingID <= 0 || bidderID <= 0 {
		return models.Bid{}, fmt.Errorf("service: %w - missing listing or bidder", marketerrors.ErrInvalidBid)
	}
	if amount <= 0 {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", marketerrors.ErrInvalidBid)
	}

	now := s.now()
	bid, err := models.NewBid(map[string]any{
		"listing_id": listingID,
		"bidder_id":  bidderID,
		"amount":     amount,
		"bid_time":   now,
	})
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: %w - %v", marketerrors.ErrInvalidBid, err)
	}

	if err := s.validateBid(ctx, bid, now); err != nil {
		return models.Bid{}, err
	}

	if err := s.repo.RecordBid(ctx, bid); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid on listing %d by user %d: %w", listingID, bidderID, err)
	}

	events.Emit(ctx, s.publisher, events.Event{
		Type:       events.BidPlaced,
		Key:        strconv.FormatInt(listingID, 10),
		ActorID:    bidderID,
		OccurredAt: now,
		Payload:    bid.ToMap(),
	})
	return *bid, nil
}

// validateBid checks the listing state and the amount against the current highest bid
func (s *BiddingService) validateBid(ctx context.Context, bid *models.Bid, now time.Time) error {
	listing, err := s.repo.GetListing(ctx, bid.ListingID)
	if err != nil {
		return fmt.Errorf("service: failed to load listing %d: %w", bid.ListingID, err)
	}

	switch {
	case !listing.IsAuction():
		return fmt.Errorf("service: %w - listing %d", marketerrors.ErrNotAuction, listing.ID)
	case listing.Status != models.ListingActive:
		return fmt.Errorf("service: %w - listing %d is %s", marketerrors.ErrListingClosed, listing.ID, listing.Status)
	case !listing.AuctionRunning(now):
		return fmt.Errorf("service: %w - listing %d", marketerrors.ErrAuctionNotRunning, listing.ID)
	case listing.SellerID == bid.BidderID:
		return fmt.Errorf("service: %w - sellers cannot bid on their own listing", marketerrors.ErrInvalidBid)
	}

	winningBid, err := s.repo.GetWinningBid(ctx, bid.ListingID)
	switch {
	case err == nil:
		if bid.Amount <= winningBid.Amount {
			return fmt.Errorf("service: %w - current highest bid is %.2f", marketerrors.ErrBidTooLow, winningBid.Amount)
		}
	case errors.Is(err, marketerrors.ErrNoBids):
		if bid.Amount < listing.MinimumBid() {
			return fmt.Errorf("service: %w - starting price is %.2f", marketerrors.ErrBidTooLow, listing.MinimumBid())
		}
	default:
		return fmt.Errorf("service: failed to check winning bid: %w", err)
	}

	return nil
}

// GetBidsForListing returns all bids for a listing
func (s *BiddingService) GetBidsForListing(ctx context.Context, listingID int64) ([]models.Bid, error) {
	if listingID <= 0 {
		return nil, fmt.Errorf("service: %w - invalid listing id", marketerrors.ErrInvalidBid)
	}

	bids, err := s.repo.GetBidsByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for listing %d: %w", listingID, err)
	}

	return bids, nil
}

// GetWinningBid returns the highest bid for a listing
func (s *BiddingService) GetWinningBid(ctx context.Context, listingID int64) (models.Bid, error) {
	if listingID <= 0 {
		return models.Bid{}, fmt.Errorf("service: %w - invalid listing id", marketerrors.ErrInvalidBid)
	}

	winningBid, err := s.repo.GetWinningBid(ctx, listingID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for listing %d: %w", listingID, err)
	}

	return winningBid, nil
}

// GetListingsByBidder returns all listings a user has placed bids on
func (s *BiddingService) GetListingsByBidder(ctx context.Context, bidderID int64) ([]models.Listing, error) {
	if bidderID <= 0 {
		return nil, fmt.Errorf("service: %w - invalid user id", marketerrors.ErrInvalidBid)
	}

	listings, err := s.repo.GetListingsByBidder(ctx, bidderID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get listings for user %d: %w", bidderID, err)
	}

	return listings, nil
}
