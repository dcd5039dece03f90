package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	pkgredis "github.com/angelmondragon/storefront-checkout/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := pkgredis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Hour), mr
}

func TestStoreAddAndQuantities(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()
	owner := UserOwner("uid-1")

	qty, err := store.Add(ctx, owner, " p1 ", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
	qty, err = store.Add(ctx, owner, "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, qty)
	_, err = store.Add(ctx, owner, "p2", 1)
	require.NoError(t, err)

	quantities, err := store.Quantities(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 3, "p2": 1}, quantities)
	assert.Equal(t, time.Hour, mr.TTL("sf:cart:user:uid-1"))
}

func TestStoreAddValidates(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, UserOwner("u"), "", 1)
	assert.Error(t, err)
	_, err = store.Add(ctx, UserOwner("u"), "p1", 0)
	assert.Error(t, err)
	_, err = store.Add(ctx, Owner("bogus"), "p1", 1)
	assert.Error(t, err)
}

func TestStoreQuantitiesSkipsMalformedEntries(t *testing.T) {
	store, mr := setupStore(t)
	mr.HSet("sf:cart:user:u", "p1", "2", "p2", "abc", "p3", "0")

	quantities, err := store.Quantities(context.Background(), UserOwner("u"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 2}, quantities)
}

func TestStoreDecrementStopsAtOne(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	owner := UserOwner("u")
	_, err := store.Add(ctx, owner, "p1", 2)
	require.NoError(t, err)

	qty, err := store.Decrement(ctx, owner, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, qty)

	qty, err = store.Decrement(ctx, owner, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, qty)

	_, err = store.Decrement(ctx, owner, "missing")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestStoreRemoveAndClear(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()
	owner := UserOwner("u")
	_, _ = store.Add(ctx, owner, "p1", 1)
	_, _ = store.Add(ctx, owner, "p2", 1)

	require.NoError(t, store.Remove(ctx, owner, "p1"))
	quantities, err := store.Quantities(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p2": 1}, quantities)

	require.NoError(t, store.Clear(ctx, owner))
	assert.False(t, mr.Exists("sf:cart:user:u"))
	quantities, err = store.Quantities(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, quantities)
}

func TestStoreRedisFailure(t *testing.T) {
	store, mr := setupStore(t)
	mr.Close()

	_, err := store.Quantities(context.Background(), UserOwner("u"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
