package integrationtests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"auction-marketplace/internal/events"
	"auction-marketplace/internal/models"
	"auction-marketplace/services/market/helpers"

	"github.com/stretchr/testify/require"
)

// runningAuction returns the fields of an auction that opened an hour ago and closes in an hour
func runningAuction(startingPrice float64) map[string]any {
	now := time.Now().UTC()
	return map[string]any{
		"title":          "Vintage camera",
		"listing_type":   models.ListingTypeAuction,
		"starting_price": startingPrice,
		"auction_start":  now.Add(-time.Hour),
		"auction_end":    now.Add(time.Hour),
	}
}

// RecordBidHandler Tests
func TestRecordBidHandler(t *testing.T) {
	app := SetupTestRouter(t)
	seller, _ := app.seedUser(t, "seller", models.RoleUser)
	bidder, token := app.seedUser(t, "bidder", models.RoleUser)
	listing := app.seedListing(t, seller.ID, runningAuction(50))

	tests := []struct {
		name       string
		token      string
		request    any
		wantStatus int
	}{
		{
			name:       "Anonymous",
			request:    helpers.PlaceBidRequest{ListingID: listing.ID, Amount: 60},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Invalid_JSON",
			token:      token,
			request:    "{listing_id: 'missing quotes', amount: 100}",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Below_Starting_Price",
			token:      token,
			request:    helpers.PlaceBidRequest{ListingID: listing.ID, Amount: 40},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "Valid_Bid",
			token:      token,
			request:    helpers.PlaceBidRequest{ListingID: listing.ID, Amount: 100},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Not_Higher_Than_Winning",
			token:      token,
			request:    helpers.PlaceBidRequest{ListingID: listing.ID, Amount: 100},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "Unknown_Listing",
			token:      token,
			request:    helpers.PlaceBidRequest{ListingID: listing.ID + 100, Amount: 100},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, w := ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/bids", tt.token, tt.request)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus == http.StatusCreated {
				bid := object(t, resp, "bid")
				require.Equal(t, float64(listing.ID), bid["listing_id"])
				require.Equal(t, float64(bidder.ID), bid["bidder_id"])
				require.Equal(t, 100.0, bid["amount"])
				require.NotZero(t, bid["id"])

				_, err := time.Parse(time.RFC3339, bid["bid_time"].(string))
				require.NoError(t, err)
			}
		})
	}

	// the accepted bid raised the listing price and was published
	resp, w := ExecuteRequestAndParse(t, app.router, http.MethodGet, fmt.Sprintf("/api/listings/%d", listing.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := object(t, resp, "listing")
	require.Equal(t, 100.0, got["current_price"])
	require.Equal(t, 1.0, got["bid_count"])

	require.Len(t, app.publisher.OfType(events.BidPlaced), 1)
}

func TestRecordBidHandler_ListingRules(t *testing.T) {
	app := SetupTestRouter(t)
	seller, sellerToken := app.seedUser(t, "seller", models.RoleUser)
	_, token := app.seedUser(t, "bidder", models.RoleUser)

	auction := app.seedListing(t, seller.ID, runningAuction(10))
	buyNow := app.seedListing(t, seller.ID, map[string]any{"buy_now_price": 25.0})
	ended := runningAuction(10)
	ended["auction_end"] = time.Now().UTC().Add(-time.Minute)
	closed := app.seedListing(t, seller.ID, ended)

	tests := []struct {
		name       string
		token      string
		listingID  int64
		wantStatus int
	}{
		{name: "Own_Listing", token: sellerToken, listingID: auction.ID, wantStatus: http.StatusBadRequest},
		{name: "Not_An_Auction", token: token, listingID: buyNow.ID, wantStatus: http.StatusBadRequest},
		{name: "Auction_Ended", token: token, listingID: closed.ID, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := helpers.PlaceBidRequest{ListingID: tt.listingID, Amount: 50}
			_, w := ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/bids", tt.token, req)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestGetBidsByListingHandler(t *testing.T) {
	app := SetupTestRouter(t)
	seller, _ := app.seedUser(t, "seller", models.RoleUser)
	_, alice := app.seedUser(t, "alice", models.RoleUser)
	_, bob := app.seedUser(t, "bob", models.RoleUser)
	listing := app.seedListing(t, seller.ID, runningAuction(10))
	empty := app.seedListing(t, seller.ID, runningAuction(10))

	for i, token := range []string{alice, bob, alice} {
		req := helpers.PlaceBidRequest{ListingID: listing.ID, Amount: float64(20 + i*5)}
		_, w := ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/bids", token, req)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	tests := []struct {
		name       string
		url        string
		wantStatus int
		wantCount  int
	}{
		{name: "With_Bids", url: fmt.Sprintf("/api/listings/%d/bids", listing.ID), wantStatus: http.StatusOK, wantCount: 3},
		{name: "No_Bids", url: fmt.Sprintf("/api/listings/%d/bids", empty.ID), wantStatus: http.StatusOK, wantCount: 0},
		{name: "Bad_ID", url: "/api/listings/abc/bids", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, w := ExecuteRequestAndParse(t, app.router, http.MethodGet, tt.url, "", nil)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				require.Len(t, array(t, resp, "bids"), tt.wantCount)
			}
		})
	}
}

func TestGetWinningBidHandler(t *testing.T) {
	app := SetupTestRouter(t)
	seller, _ := app.seedUser(t, "seller", models.RoleUser)
	_, alice := app.seedUser(t, "alice", models.RoleUser)
	bob, bobToken := app.seedUser(t, "bob", models.RoleUser)
	listing := app.seedListing(t, seller.ID, runningAuction(10))
	empty := app.seedListing(t, seller.ID, runningAuction(10))

	for _, bid := range []struct {
		token  string
		amount float64
	}{{alice, 15}, {bobToken, 42.5}, {alice, 30}} {
		_, w := ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/bids", bid.token,
			helpers.PlaceBidRequest{ListingID: listing.ID, Amount: bid.amount})
		if bid.amount == 30 {
			// lower than the current winner
			require.Equal(t, http.StatusConflict, w.Code)
			continue
		}
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	tests := []struct {
		name       string
		listingID  int64
		wantStatus int
	}{
		{name: "Highest_Bid", listingID: listing.ID, wantStatus: http.StatusOK},
		{name: "No_Bids", listingID: empty.ID, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := fmt.Sprintf("/api/listings/%d/winning", tt.listingID)
			resp, w := ExecuteRequestAndParse(t, app.router, http.MethodGet, url, "", nil)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				bid := object(t, resp, "bid")
				require.Equal(t, 42.5, bid["amount"])
				require.Equal(t, float64(bob.ID), bid["bidder_id"])
			}
		})
	}
}

func TestGetListingsByBidderHandler(t *testing.T) {
	app := SetupTestRouter(t)
	seller, _ := app.seedUser(t, "seller", models.RoleUser)
	alice, aliceToken := app.seedUser(t, "alice", models.RoleUser)
	idle, _ := app.seedUser(t, "idle", models.RoleUser)
	first := app.seedListing(t, seller.ID, runningAuction(10))
	second := app.seedListing(t, seller.ID, runningAuction(10))

	for i, id := range []int64{first.ID, second.ID} {
		_, w := ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/bids", aliceToken,
			helpers.PlaceBidRequest{ListingID: id, Amount: float64(20 + i)})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	tests := []struct {
		name      string
		userID    int64
		wantCount int
	}{
		{name: "Bidder", userID: alice.ID, wantCount: 2},
		{name: "No_Bids", userID: idle.ID, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := fmt.Sprintf("/api/users/%d/listings", tt.userID)
			resp, w := ExecuteRequestAndParse(t, app.router, http.MethodGet, url, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			require.Len(t, array(t, resp, "listings"), tt.wantCount)
		})
	}
}
