package market

import (
	"context"
	"testing"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestListService_Items(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.services.Lists
	seller := env.seedUser(t, "seller", models.RoleUser)
	alice := env.seedUser(t, "alice", models.RoleUser)
	bob := env.seedUser(t, "bob", models.RoleUser)
	listing := env.seedListing(t, seller.UserID, nil)

	private, err := svc.Create(ctx, alice, map[string]any{"name": "Watching"})
	require.NoError(t, err)
	require.False(t, private.IsPublic)
	public, err := svc.Create(ctx, alice, map[string]any{"name": "Gift ideas", "is_public": true})
	require.NoError(t, err)

	item, err := svc.AddItem(ctx, alice, private.ID, map[string]any{"listing_id": float64(listing.ID), "note": "under 50"})
	require.NoError(t, err)
	require.Equal(t, private.ID, item.ListID)

	_, err = svc.AddItem(ctx, alice, private.ID, map[string]any{"listing_id": float64(listing.ID)})
	require.ErrorIs(t, err, marketerrors.ErrConflict)
	_, err = svc.AddItem(ctx, alice, private.ID, map[string]any{"listing_id": 999.0})
	require.ErrorIs(t, err, marketerrors.ErrNotFound)
	_, err = svc.AddItem(ctx, bob, private.ID, map[string]any{"listing_id": float64(listing.ID)})
	require.ErrorIs(t, err, marketerrors.ErrForbidden)

	_, err = svc.Get(ctx, bob, private.ID)
	require.ErrorIs(t, err, marketerrors.ErrForbidden)
	_, err = svc.Items(ctx, bob, private.ID, repository.Query{})
	require.ErrorIs(t, err, marketerrors.ErrForbidden)

	got, err := svc.Get(ctx, Actor{}, public.ID)
	require.NoError(t, err, "public lists are readable by anyone")
	require.Equal(t, "Gift ideas", got.Name)

	items, err := svc.Items(ctx, alice, private.ID, repository.Query{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.ErrorIs(t, svc.RemoveItem(ctx, bob, private.ID, item.ID), marketerrors.ErrForbidden)
	require.ErrorIs(t, svc.RemoveItem(ctx, alice, public.ID, item.ID), marketerrors.ErrNotFound, "items are scoped to their list")
	require.NoError(t, svc.RemoveItem(ctx, alice, private.ID, item.ID))
	require.ErrorIs(t, svc.RemoveItem(ctx, alice, private.ID, item.ID), marketerrors.ErrNotFound)
}

func TestListService_List(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.services.Lists
	alice := env.seedUser(t, "alice", models.RoleUser)
	bob := env.seedUser(t, "bob", models.RoleUser)

	for _, fields := range []map[string]any{
		{"name": "A1"},
		{"name": "A2", "is_public": true},
	} {
		_, err := svc.Create(ctx, alice, fields)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, bob, map[string]any{"name": "B1", "is_public": true})
	require.NoError(t, err)

	tests := []struct {
		name        string
		actor       Actor
		query       repository.Query
		expected    []string
		expectedErr error
	}{
		{name: "own_lists", actor: alice, query: repository.Query{"sort": "name"}, expected: []string{"A1", "A2"}},
		{name: "public_lists", actor: bob, query: repository.Query{"is_public": "true", "sort": "name"}, expected: []string{"A2", "B1"}},
		{name: "anonymous_public", actor: Actor{}, query: repository.Query{"is_public": "true", "sort": "name"}, expected: []string{"A2", "B1"}},
		{name: "anonymous_own", actor: Actor{}, query: repository.Query{}, expectedErr: marketerrors.ErrUnauthorized},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			lists, err := svc.List(ctx, tc.actor, tc.query)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			names := make([]string, len(lists))
			for i, l := range lists {
				names[i] = l.Name
			}
			require.Equal(t, tc.expected, names)
		})
	}
}
