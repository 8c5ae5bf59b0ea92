package market

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"auction-marketplace/internal/config"
	"auction-marketplace/internal/events"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func ptr[T any](v T) *T { return &v }

type testEnv struct {
	store     *repository.Store
	services  *Services
	publisher *events.MemoryPublisher
}

// newTestEnv opens a migrated SQLite store in a temp dir and wires the services on it
func newTestEnv(t *testing.T, index ...*fakeIndex) *testEnv {
	t.Helper()
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
	var services *Services
	if len(index) > 0 {
		services = NewServices(store, index[0], publisher, time.Hour)
	} else {
		services = NewServices(store, nil, publisher, time.Hour)
	}
	services.Auth.cost = bcrypt.MinCost

	return &testEnv{store: store, services: services, publisher: publisher}
}

// Helper to create a user and return an actor for it
func (e *testEnv) seedUser(t *testing.T, username, role string) Actor {
	t.Helper()
	u, err := models.NewUser(map[string]any{"username": username, "password_hash": "hash", "role": role})
	require.NoError(t, err)
	_, err = e.store.Users.Create(context.Background(), u)
	require.NoError(t, err)
	return Actor{UserID: u.ID, Role: u.Role}
}

// Helper to create an active listing
func (e *testEnv) seedListing(t *testing.T, sellerID int64, fields map[string]any) *models.Listing {
	t.Helper()
	values := map[string]any{
		"seller_id":    sellerID,
		"title":        "Camera",
		"listing_type": models.ListingTypeBuyNow,
	}
	for k, v := range fields {
		values[k] = v
	}
	l, err := models.NewListing(values)
	require.NoError(t, err)
	_, err = e.store.Listings.Create(context.Background(), l)
	require.NoError(t, err)
	return l
}
