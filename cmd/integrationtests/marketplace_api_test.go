package integrationtests

import (
	"fmt"
	"net/http"
	"testing"

	"auction-marketplace/internal/events"
	"auction-marketplace/internal/models"
	"auction-marketplace/services/market/helpers"

	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	app := SetupTestRouter(t)

	resp, w := ExecuteRequestAndParse(t, app.router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", resp["message"])
}

func TestAuthFlow(t *testing.T) {
	app := SetupTestRouter(t)

	// Register
	resp, w := ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/auth/register", "",
		helpers.RegisterRequest{Username: "carol", Password: "correct-horse"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := object(t, resp, "user")
	require.Equal(t, "carol", user["username"])
	require.NotContains(t, user, "password_hash")

	// Duplicate username
	_, w = ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/auth/register", "",
		helpers.RegisterRequest{Username: "carol", Password: "another-pass"})
	require.Equal(t, http.StatusConflict, w.Code)

	// Wrong password
	_, w = ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/auth/login", "",
		helpers.LoginRequest{Username: "carol", Password: "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Login
	resp, w = ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/auth/login", "",
		helpers.LoginRequest{Username: "carol", Password: "correct-horse"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	session := object(t, resp, "session")
	token, _ := session["token"].(string)
	require.NotEmpty(t, token)
	require.NotEmpty(t, w.Result().Cookies())

	// Me
	resp, w = ExecuteRequestAndParse(t, app.router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "carol", object(t, resp, "user")["username"])

	// Logout ends the session
	_, w = ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, w = ExecuteRequestAndParse(t, app.router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGuards(t *testing.T) {
	app := SetupTestRouter(t)
	_, userToken := app.seedUser(t, "user", models.RoleUser)
	_, staffToken := app.seedUser(t, "staff", models.RoleStaff)
	_, adminToken := app.seedUser(t, "admin", models.RoleAdmin)

	tests := []struct {
		name       string
		method     string
		url        string
		token      string
		body       any
		wantStatus int
	}{
		{name: "Category_Anonymous", method: http.MethodPost, url: "/api/categories", body: map[string]any{"name": "Books"}, wantStatus: http.StatusUnauthorized},
		{name: "Category_User", method: http.MethodPost, url: "/api/categories", token: userToken, body: map[string]any{"name": "Books"}, wantStatus: http.StatusForbidden},
		{name: "Category_Staff", method: http.MethodPost, url: "/api/categories", token: staffToken, body: map[string]any{"name": "Music"}, wantStatus: http.StatusCreated},
		{name: "Categories_Public", method: http.MethodGet, url: "/api/categories", wantStatus: http.StatusOK},
		{name: "Users_User", method: http.MethodGet, url: "/api/users", token: userToken, wantStatus: http.StatusForbidden},
		{name: "Users_Staff", method: http.MethodGet, url: "/api/users", token: staffToken, wantStatus: http.StatusOK},
		{name: "Sessions_Staff", method: http.MethodGet, url: "/api/sessions", token: staffToken, wantStatus: http.StatusForbidden},
		{name: "Sessions_Admin", method: http.MethodGet, url: "/api/sessions", token: adminToken, wantStatus: http.StatusOK},
		{name: "Deliveries_User", method: http.MethodGet, url: "/api/deliveries", token: userToken, wantStatus: http.StatusForbidden},
		{name: "Orders_Anonymous", method: http.MethodGet, url: "/api/orders", wantStatus: http.StatusUnauthorized},
		{name: "Bad_Token", method: http.MethodGet, url: "/api/orders", token: "not-a-session", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, w := ExecuteRequestAndParse(t, app.router, tt.method, tt.url, tt.token, tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestListingLifecycle(t *testing.T) {
	app := SetupTestRouter(t)
	seller, sellerToken := app.seedUser(t, "seller", models.RoleUser)
	_, otherToken := app.seedUser(t, "other", models.RoleUser)

	resp, w := ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/listings", sellerToken, map[string]any{
		"title":         "Desk lamp",
		"listing_type":  models.ListingTypeBuyNow,
		"buy_now_price": 12.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	listing := object(t, resp, "listing")
	require.Equal(t, float64(seller.ID), listing["seller_id"])
	url := fmt.Sprintf("/api/listings/%v", listing["id"])

	// Unknown fields are rejected
	_, w = ExecuteRequestAndParse(t, app.router, http.MethodPut, url, sellerToken, map[string]any{"colour": "red"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Only the seller may change it
	_, w = ExecuteRequestAndParse(t, app.router, http.MethodPut, url, otherToken, map[string]any{"title": "Mine now"})
	require.Equal(t, http.StatusForbidden, w.Code)

	resp, w = ExecuteRequestAndParse(t, app.router, http.MethodPut, url, sellerToken, map[string]any{"title": "Brass desk lamp"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Brass desk lamp", object(t, resp, "listing")["title"])

	resp, w = ExecuteRequestAndParse(t, app.router, http.MethodGet, fmt.Sprintf("/api/listings?seller_id=%d", seller.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, array(t, resp, "listings"), 1)

	_, w = ExecuteRequestAndParse(t, app.router, http.MethodDelete, url, sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, w = ExecuteRequestAndParse(t, app.router, http.MethodGet, url, "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPurchaseFlow(t *testing.T) {
	app := SetupTestRouter(t)
	seller, sellerToken := app.seedUser(t, "seller", models.RoleUser)
	_, buyerToken := app.seedUser(t, "buyer", models.RoleUser)
	_, snooperToken := app.seedUser(t, "snooper", models.RoleUser)
	listing := app.seedListing(t, seller.ID, map[string]any{"buy_now_price": 25.0})

	shipping := helpers.ShippingRequest{
		AddressLine1: "1 High Street",
		City:         "Leeds",
		Postcode:     "LS1 1AA",
		Country:      "GB",
	}

	tests := []struct {
		name       string
		token      string
		request    helpers.PurchaseRequest
		wantStatus int
	}{
		{
			name:       "Missing_Shipping",
			token:      buyerToken,
			request:    helpers.PurchaseRequest{Items: []helpers.PurchaseItemRequest{{ListingID: listing.ID}}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Own_Listing",
			token:      sellerToken,
			request:    helpers.PurchaseRequest{Items: []helpers.PurchaseItemRequest{{ListingID: listing.ID}}, Shipping: shipping},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Purchase",
			token:      buyerToken,
			request:    helpers.PurchaseRequest{Items: []helpers.PurchaseItemRequest{{ListingID: listing.ID}}, Shipping: shipping},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Already_Sold",
			token:      snooperToken,
			request:    helpers.PurchaseRequest{Items: []helpers.PurchaseItemRequest{{ListingID: listing.ID}}, Shipping: shipping},
			wantStatus: http.StatusConflict,
		},
	}

	var orderID any
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, w := ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/orders", tt.token, tt.request)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus == http.StatusCreated {
				order := object(t, resp, "order")
				require.Equal(t, 25.0, order["total_amount"])
				require.Equal(t, models.OrderPending, order["status"])
				orderID = order["id"]
			}
		})
	}
	require.NotNil(t, orderID)

	itemsURL := fmt.Sprintf("/api/orders/%v/items", orderID)
	resp, w := ExecuteRequestAndParse(t, app.router, http.MethodGet, itemsURL, buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := array(t, resp, "order_items")
	require.Len(t, items, 1)
	require.Equal(t, float64(listing.ID), items[0].(map[string]any)["listing_id"])

	// Orders are private to the buyer
	_, w = ExecuteRequestAndParse(t, app.router, http.MethodGet, itemsURL, snooperToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	resp, w = ExecuteRequestAndParse(t, app.router, http.MethodGet, fmt.Sprintf("/api/listings/%d", listing.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.ListingSold, object(t, resp, "listing")["status"])

	require.Len(t, app.publisher.OfType(events.OrderPlaced), 1)
}

func TestListItems(t *testing.T) {
	app := SetupTestRouter(t)
	seller, _ := app.seedUser(t, "seller", models.RoleUser)
	_, ownerToken := app.seedUser(t, "owner", models.RoleUser)
	_, otherToken := app.seedUser(t, "other", models.RoleUser)
	listing := app.seedListing(t, seller.ID, map[string]any{"buy_now_price": 8.0})

	resp, w := ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/lists", ownerToken,
		map[string]any{"name": "Wishlist", "is_public": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	listURL := fmt.Sprintf("/api/lists/%v", object(t, resp, "list")["id"])

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "Not_Owner", token: otherToken, wantStatus: http.StatusForbidden},
		{name: "Owner", token: ownerToken, wantStatus: http.StatusCreated},
		{name: "Duplicate", token: ownerToken, wantStatus: http.StatusConflict},
	}

	var itemID any
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, w := ExecuteRequestAndParse(t, app.router, http.MethodPost, listURL+"/items", tt.token,
				map[string]any{"listing_id": listing.ID})
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusCreated {
				itemID = object(t, resp, "list_item")["id"]
			}
		})
	}
	require.NotNil(t, itemID)

	resp, w = ExecuteRequestAndParse(t, app.router, http.MethodGet, listURL+"/items", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, array(t, resp, "list_items"), 1)

	_, w = ExecuteRequestAndParse(t, app.router, http.MethodDelete, fmt.Sprintf("%s/items/%v", listURL, itemID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp, w = ExecuteRequestAndParse(t, app.router, http.MethodGet, listURL+"/items", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, array(t, resp, "list_items"))
}

func TestPurchaseClosesAuction(t *testing.T) {
	app := SetupTestRouter(t)
	seller, _ := app.seedUser(t, "seller", models.RoleUser)
	_, buyerToken := app.seedUser(t, "buyer", models.RoleUser)
	_, bidderToken := app.seedUser(t, "bidder", models.RoleUser)

	fields := runningAuction(10)
	fields["buy_now_price"] = 50.0
	listing := app.seedListing(t, seller.ID, fields)

	shipping := helpers.ShippingRequest{AddressLine1: "2 Mill Lane", City: "York", Postcode: "YO1 7HH", Country: "GB"}
	purchase := func(token string, quantity int64) int {
		req := helpers.PurchaseRequest{
			Items:    []helpers.PurchaseItemRequest{{ListingID: listing.ID, Quantity: quantity}},
			Shipping: shipping,
		}
		_, w := ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/orders", token, req)
		return w.Code
	}

	require.Equal(t, http.StatusBadRequest, purchase(buyerToken, 3))
	require.Equal(t, http.StatusCreated, purchase(buyerToken, 1))
	require.Equal(t, http.StatusConflict, purchase(bidderToken, 1))

	_, w := ExecuteRequestAndParse(t, app.router, http.MethodPost, "/api/bids", bidderToken,
		helpers.PlaceBidRequest{ListingID: listing.ID, Amount: 20})
	require.Equal(t, http.StatusConflict, w.Code, "a bought auction stops taking bids")
}
