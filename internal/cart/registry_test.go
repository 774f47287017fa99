package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artyaffairs/storefront/internal/cache"
	"github.com/artyaffairs/storefront/internal/media"
	"github.com/artyaffairs/storefront/internal/models"
)

func newTestRegistry(remote Remote, c cache.Cache) *Registry {
	return NewRegistry(Deps{Remote: remote, Media: media.NewNormalizer(testBase), Cache: c})
}

func TestRegistry_ReusesStore(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	r := newTestRegistry(remote, cache.NewMemory())

	s1 := r.For(ctx, buyer)
	s2 := r.For(ctx, buyer)
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, remote.count("ListCart"))

	other := r.For(ctx, models.User{ID: "u2"})
	assert.NotSame(t, s1, other)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_ConcurrentFirstUseInitialisesOnce(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	r := newTestRegistry(remote, cache.NewMemory())

	var wg sync.WaitGroup
	stores := make([]*Store, 8)
	for i := range stores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i] = r.For(ctx, buyer)
		}(i)
	}
	wg.Wait()

	for _, s := range stores {
		assert.Same(t, stores[0], s)
		require.NotNil(t, s.Snapshot().User)
	}
	assert.Equal(t, 1, remote.count("EnsureProfile"))
}

func TestRegistry_SignOut(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	a := remote.addArtwork("a1", models.CategoryCeramic, 2, 100)
	c := cache.NewMemory()
	r := newTestRegistry(remote, c)

	s := r.For(ctx, buyer)
	require.NoError(t, s.AddItem(ctx, a, 1))

	r.SignOut(ctx, "u1")
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, s.Items())
	assert.Nil(t, s.Snapshot().User)

	// the remote cart is untouched
	assert.Len(t, remote.remoteLines("u1"), 1)

	// signing out an unknown user is a no-op
	r.SignOut(ctx, "nobody")
}

func TestRegistry_EvictIdleKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	a := remote.addArtwork("a1", models.CategoryCeramic, 2, 100)
	c := cache.NewMemory()
	r := newTestRegistry(remote, c)

	s := r.For(ctx, buyer)
	require.NoError(t, s.AddItem(ctx, a, 1))

	assert.Equal(t, 0, r.EvictIdle(time.Now(), time.Hour))
	assert.Equal(t, 1, r.EvictIdle(time.Now().Add(2*time.Hour), time.Hour))
	assert.Equal(t, 0, r.Len())

	var p persisted
	found, err := c.Get(ctx, cache.Key(StorageKey, "u1"), &p)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, p.Items, 1)
}
