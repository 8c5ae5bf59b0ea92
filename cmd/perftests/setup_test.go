package perftests

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	bidding "auction-marketplace/internal/biddingService"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"
)

// benchEnv is a bidding service on a migrated SQLite store with a seller and a pool of bidders
type benchEnv struct {
	store   *repository.Store
	svc     *bidding.BiddingService
	seller  int64
	bidders []int64
}

func newBenchEnv(b *testing.B, numBidders int) *benchEnv {
	b.Helper()
	ctx := context.Background()
	utils.Configure("error", "text")

	db, d, err := repository.Open(ctx, config.DBConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(b.TempDir(), "bench.db"),
		MaxOpenConns: 1,
	}, nil)
	if err != nil {
		b.Fatalf("failed to open database: %v", err)
	}
	b.Cleanup(func() { db.Close() })

	store := repository.NewStore(db, d)
	if err := store.Migrate(ctx); err != nil {
		b.Fatalf("failed to migrate: %v", err)
	}

	env := &benchEnv{
		store: store,
		svc:   bidding.NewBiddingService(repository.NewAuctionRepo(store), nil),
	}
	env.seller = env.addUser(b, "seller")
	for i := 0; i < numBidders; i++ {
		env.bidders = append(env.bidders, env.addUser(b, fmt.Sprintf("bidder_%d", i)))
	}
	return env
}

func (e *benchEnv) addUser(b *testing.B, username string) int64 {
	b.Helper()
	u, err := models.NewUser(map[string]any{"username": username, "password_hash": "hash"})
	if err != nil {
		b.Fatalf("invalid user: %v", err)
	}
	if _, err := e.store.Users.Create(context.Background(), u); err != nil {
		b.Fatalf("failed to create user: %v", err)
	}
	return u.ID
}

// addAuctions stores n running auctions and returns their ids
func (e *benchEnv) addAuctions(b *testing.B, n int, startingPrice float64) []int64 {
	b.Helper()
	now := time.Now().UTC()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		l, err := models.NewListing(map[string]any{
			"seller_id":      e.seller,
			"title":          fmt.Sprintf("Benchmark lot %d", i),
			"listing_type":   models.ListingTypeAuction,
			"starting_price": startingPrice,
			"auction_start":  now.Add(-time.Hour),
			"auction_end":    now.Add(24 * time.Hour),
		})
		if err != nil {
			b.Fatalf("invalid listing: %v", err)
		}
		if _, err := e.store.Listings.Create(context.Background(), l); err != nil {
			b.Fatalf("failed to create listing: %v", err)
		}
		ids = append(ids, l.ID)
	}
	return ids
}

// bidder returns the i-th bidder of the pool, wrapping around
func (e *benchEnv) bidder(i int) int64 {
	return e.bidders[i%len(e.bidders)]
}
