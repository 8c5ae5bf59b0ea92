package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	bidding "auction-marketplace/internal/biddingService"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/events"
	market "auction-marketplace/internal/marketService"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/server"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// testApp bundles the router with the store behind it so tests can seed rows directly
type testApp struct {
	router    *gin.Engine
	store     *repository.Store
	publisher *events.MemoryPublisher
}

// SetupTestRouter initializes the router on a migrated SQLite database in a temp dir
func SetupTestRouter(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, d, err := repository.Open(ctx, config.DBConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "market.db"),
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := repository.NewStore(db, d)
	require.NoError(t, store.Migrate(ctx))

	publisher := events.NewMemoryPublisher(0)
	router := server.SetupRouter(server.Deps{
		Services: market.NewServices(store, nil, publisher, time.Hour),
		Bidding:  bidding.NewBiddingService(repository.NewAuctionRepo(store), publisher),
		Session:  config.SessionConfig{TTL: time.Hour, CookieName: "session_token"},
	})
	return &testApp{router: router, store: store, publisher: publisher}
}

// seedUser creates a user with the given role and opens a session for it, returning the user and its token
func (a *testApp) seedUser(t *testing.T, username, role string) (*models.User, string) {
	t.Helper()
	ctx := context.Background()

	u, err := models.NewUser(map[string]any{"username": username, "password_hash": "hash", "role": role})
	require.NoError(t, err)
	_, err = a.store.Users.Create(ctx, u)
	require.NoError(t, err)

	s, err := models.NewSession(map[string]any{
		"user_id":    u.ID,
		"role":       u.Role,
		"token":      utils.GenerateToken(),
		"expires_at": time.Now().UTC().Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = a.store.Sessions.Create(ctx, s)
	require.NoError(t, err)

	return u, s.Token
}

// seedListing stores a listing for sellerID with the given fields on top of an active buy-now default
func (a *testApp) seedListing(t *testing.T, sellerID int64, fields map[string]any) *models.Listing {
	t.Helper()
	values := map[string]any{
		"seller_id":    sellerID,
		"title":        "Record player",
		"listing_type": models.ListingTypeBuyNow,
	}
	for k, v := range fields {
		values[k] = v
	}
	l, err := models.NewListing(values)
	require.NoError(t, err)
	_, err = a.store.Listings.Create(context.Background(), l)
	require.NoError(t, err)
	return l
}

// ExecuteRequestAndParse executes an HTTP request on the router and parses the response envelope.
// An empty token sends the request anonymously.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err, "failed to marshal body")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "failed to unmarshal response")
	}
	return resp, w
}

// object returns the payload stored under key as a JSON object
func object(t *testing.T, resp map[string]any, key string) map[string]any {
	t.Helper()
	v, ok := resp[key].(map[string]any)
	require.True(t, ok, "expected object under %q in %v", key, resp)
	return v
}

// array returns the payload stored under key as a JSON array
func array(t *testing.T, resp map[string]any, key string) []any {
	t.Helper()
	v, ok := resp[key].([]any)
	require.True(t, ok, "expected array under %q in %v", key, resp)
	return v
}
