package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"auction-marketplace/internal/config"
	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"

	"github.com/stretchr/testify/require"
)

// newTestStore opens a migrated SQLite store in a temp dir
func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	cfg := config.DBConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "market.db"),
		MaxOpenConns: 1,
	}
	db, d, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewStore(db, d)
	require.NoError(t, store.Migrate(ctx))
	return store
}

// Helper to create a user
func seedUser(t *testing.T, store *Store, username string) *models.User {
	t.Helper()
	u, err := models.NewUser(map[string]any{"username": username, "password_hash": "hash"})
	require.NoError(t, err)
	_, err = store.Users.Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

// Helper to create an auction listing
func seedAuction(t *testing.T, store *Store, sellerID int64, title string, startingPrice float64) *models.Listing {
	t.Helper()
	l, err := models.NewListing(map[string]any{
		"seller_id":      sellerID,
		"title":          title,
		"listing_type":   models.ListingTypeAuction,
		"starting_price": startingPrice,
	})
	require.NoError(t, err)
	_, err = store.Listings.Create(context.Background(), l)
	require.NoError(t, err)
	return l
}

// Helper to create a new Bid
func newBid(listingID, bidderID int64, amount float64, at time.Time) *models.Bid {
	return &models.Bid{
		ListingID: listingID,
		BidderID:  bidderID,
		Amount:    amount,
		BidTime:   at,
	}
}

func TestAuctionRepo_RecordBid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	repo := NewAuctionRepo(store)

	seller := seedUser(t, store, "seller")
	bidder := seedUser(t, store, "bidder")
	listing := seedAuction(t, store, seller.ID, "Camera", 100)

	// steps run in order; each one depends on the price left by the previous
	steps := []struct {
		name      string
		bid       *models.Bid
		wantErr   error
		wantPrice float64
		wantCount int64
	}{
		{name: "first_bid", bid: newBid(listing.ID, bidder.ID, 120, time.Now()), wantPrice: 120, wantCount: 1},
		{name: "lower_bid", bid: newBid(listing.ID, bidder.ID, 110, time.Now()), wantErr: marketerrors.ErrBidTooLow, wantPrice: 120, wantCount: 1},
		{name: "equal_bid", bid: newBid(listing.ID, bidder.ID, 120, time.Now()), wantErr: marketerrors.ErrBidTooLow, wantPrice: 120, wantCount: 1},
		{name: "higher_bid", bid: newBid(listing.ID, bidder.ID, 150.5, time.Now()), wantPrice: 150.5, wantCount: 2},
		{name: "listing_not_found", bid: newBid(9999, bidder.ID, 500, time.Now()), wantErr: marketerrors.ErrNotFound, wantPrice: 150.5, wantCount: 2},
	}

	for _, step := range steps {
		err := repo.RecordBid(ctx, step.bid)
		if step.wantErr != nil {
			require.ErrorIs(t, err, step.wantErr, step.name)
			require.Zero(t, step.bid.ID, step.name)
		} else {
			require.NoError(t, err, step.name)
			require.NotZero(t, step.bid.ID, step.name)
		}

		got, err := repo.GetListing(ctx, listing.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CurrentPrice, step.name)
		require.Equal(t, step.wantPrice, *got.CurrentPrice, step.name)
		require.Equal(t, step.wantCount, got.BidCount, step.name)
	}

	bids, err := repo.GetBidsByListing(ctx, listing.ID)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	require.Equal(t, 120.0, bids[0].Amount)
	require.Equal(t, 150.5, bids[1].Amount)
}

func TestAuctionRepo_GetWinningBid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	repo := NewAuctionRepo(store)

	seller := seedUser(t, store, "seller")
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	listing := seedAuction(t, store, seller.ID, "Lamp", 10)
	empty := seedAuction(t, store, seller.ID, "Vase", 10)

	t.Run("no_bids", func(t *testing.T) {
		_, err := repo.GetWinningBid(ctx, empty.ID)
		require.ErrorIs(t, err, marketerrors.ErrNoBids)

		_, err = repo.GetBidsByListing(ctx, empty.ID)
		require.ErrorIs(t, err, marketerrors.ErrNoBids)
	})

	t.Run("equal_amounts_earliest_wins", func(t *testing.T) {
		base := time.Now().UTC().Add(-time.Minute)
		// insert directly; the conditional price update would reject the tie
		first := newBid(listing.ID, alice.ID, 50, base)
		_, err := store.Bids.Create(ctx, first)
		require.NoError(t, err)
		_, err = store.Bids.Create(ctx, newBid(listing.ID, bob.ID, 50, base.Add(time.Second)))
		require.NoError(t, err)
		_, err = store.Bids.Create(ctx, newBid(listing.ID, bob.ID, 20, base.Add(2*time.Second)))
		require.NoError(t, err)

		winner, err := repo.GetWinningBid(ctx, listing.ID)
		require.NoError(t, err)
		require.Equal(t, first.ID, winner.ID)
		require.Equal(t, alice.ID, winner.BidderID)
	})
}

func TestAuctionRepo_GetListingsByBidder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	repo := NewAuctionRepo(store)

	seller := seedUser(t, store, "seller")
	bidder := seedUser(t, store, "bidder")
	idle := seedUser(t, store, "idle")
	camera := seedAuction(t, store, seller.ID, "Camera", 10)
	lens := seedAuction(t, store, seller.ID, "Lens", 10)
	seedAuction(t, store, seller.ID, "Tripod", 10)

	require.NoError(t, repo.RecordBid(ctx, newBid(camera.ID, bidder.ID, 20, time.Now())))
	require.NoError(t, repo.RecordBid(ctx, newBid(camera.ID, bidder.ID, 30, time.Now())))
	require.NoError(t, repo.RecordBid(ctx, newBid(lens.ID, bidder.ID, 15, time.Now())))

	listings, err := repo.GetListingsByBidder(ctx, bidder.ID)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	require.Equal(t, camera.ID, listings[0].ID)
	require.Equal(t, lens.ID, listings[1].ID)

	_, err = repo.GetListingsByBidder(ctx, idle.ID)
	require.ErrorIs(t, err, marketerrors.ErrUserNoBids)
}

// Concurrent bids never lower the price and every accepted bid is counted
func TestAuctionRepo_ConcurrentBids(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	repo := NewAuctionRepo(store)

	seller := seedUser(t, store, "seller")
	listing := seedAuction(t, store, seller.ID, "Watch", 100)

	const bidders = 20
	users := make([]*models.User, bidders)
	for i := range users {
		users[i] = seedUser(t, store, fmt.Sprintf("bidder-%02d", i))
	}

	amounts := rand.Perm(bidders)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int64
	)
	for i, a := range amounts {
		wg.Add(1)
		go func(user *models.User, amount float64) {
			defer wg.Done()
			err := repo.RecordBid(ctx, newBid(listing.ID, user.ID, amount, time.Now()))
			if err != nil && !errors.Is(err, marketerrors.ErrBidTooLow) {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(users[i], float64(101+a))
	}
	wg.Wait()

	got, err := repo.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	require.Equal(t, float64(100+bidders), *got.CurrentPrice)
	require.Equal(t, accepted, got.BidCount)

	bids, err := repo.GetBidsByListing(ctx, listing.ID)
	require.NoError(t, err)
	require.Len(t, bids, int(accepted))
}
