package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/repositories"
	"github.com/desertthunder/cocktailparty/internal/shared"
)

var (
	margarita = models.FavoriteItem{ID: "11007", Name: "Margarita", Thumb: "https://www.thecocktaildb.com/images/media/drink/5noda61589575158.jpg"}
	mojito    = models.FavoriteItem{ID: "11000", Name: "Mojito", Thumb: "https://www.thecocktaildb.com/images/media/drink/metwgh1606770327.jpg"}
)

func persisted(t *testing.T, kv repositories.KVStore, accountID string) []models.FavoriteItem {
	t.Helper()
	items, err := repositories.NewFavoritesRepository(kv).Load(context.Background(), accountID)
	require.NoError(t, err)
	return items
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()

	t.Run("add then remove", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))

		require.NoError(t, s.AddToFavorites(ctx, margarita))
		assert.True(t, s.IsFavorite(margarita.ID))
		assert.Equal(t, []models.FavoriteItem{margarita}, persisted(t, kv, DemoAccountID))

		require.NoError(t, s.RemoveFromFavorites(ctx, margarita.ID))
		assert.False(t, s.IsFavorite(margarita.ID))
		assert.Empty(t, persisted(t, kv, DemoAccountID))
	})

	t.Run("insertion order is kept", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))

		require.NoError(t, s.AddToFavorites(ctx, mojito))
		require.NoError(t, s.AddToFavorites(ctx, margarita))
		assert.Equal(t, []models.FavoriteItem{mojito, margarita}, s.Favorites())
		assert.Equal(t, s.Favorites(), persisted(t, kv, DemoAccountID))
	})

	t.Run("logout hides favorites and login restores them", func(t *testing.T) {
		s, _ := newStore(t, quietLogger())
		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))
		require.NoError(t, s.AddToFavorites(ctx, margarita))

		require.NoError(t, s.Logout(ctx))
		assert.False(t, s.IsFavorite(margarita.ID))

		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))
		assert.True(t, s.IsFavorite(margarita.ID))
	})

	t.Run("favorites are scoped per account", func(t *testing.T) {
		s, _ := newStore(t, quietLogger())
		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))
		require.NoError(t, s.AddToFavorites(ctx, margarita))

		require.NoError(t, s.Register(ctx, "Ada", "ada@example.com", "secret1"))
		assert.False(t, s.IsFavorite(margarita.ID))
		assert.Empty(t, s.Favorites())
	})

	t.Run("removing an absent id is a no-op", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))
		require.NoError(t, s.AddToFavorites(ctx, margarita))
		writes := kv.SetCount()

		require.NoError(t, s.RemoveFromFavorites(ctx, "does-not-exist"))
		assert.Equal(t, []models.FavoriteItem{margarita}, s.Favorites())
		assert.Equal(t, writes, kv.SetCount(), "no write should happen")
	})

	t.Run("no session means no-op", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		writes := kv.SetCount()

		require.NoError(t, s.AddToFavorites(ctx, margarita))
		require.NoError(t, s.RemoveFromFavorites(ctx, margarita.ID))
		saved, err := s.ToggleFavorite(ctx, margarita)
		require.NoError(t, err)

		assert.False(t, saved)
		assert.False(t, s.IsFavorite(margarita.ID))
		assert.Empty(t, s.Favorites())
		assert.Equal(t, writes, kv.SetCount())
	})

	t.Run("item without id is rejected", func(t *testing.T) {
		s, _ := newStore(t, quietLogger())
		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))
		assert.ErrorIs(t, s.AddToFavorites(ctx, models.FavoriteItem{Name: "Nameless"}), shared.ErrInvalidInput)
	})

	t.Run("toggle", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))

		saved, err := s.ToggleFavorite(ctx, mojito)
		require.NoError(t, err)
		assert.True(t, saved)
		assert.True(t, s.IsFavorite(mojito.ID))

		saved, err = s.ToggleFavorite(ctx, mojito)
		require.NoError(t, err)
		assert.False(t, saved)
		assert.Empty(t, persisted(t, kv, DemoAccountID))
	})
}

func TestFavoritesDuplicatePolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("set semantics by default", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))

		require.NoError(t, s.AddToFavorites(ctx, margarita))
		writes := kv.SetCount()
		require.NoError(t, s.AddToFavorites(ctx, margarita))

		assert.Len(t, s.Favorites(), 1)
		assert.Equal(t, writes, kv.SetCount())
	})

	t.Run("append semantics when allowed", func(t *testing.T) {
		opts := quietLogger()
		opts.AllowDuplicates = true
		s, kv := newStore(t, opts)
		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))

		require.NoError(t, s.AddToFavorites(ctx, margarita))
		require.NoError(t, s.AddToFavorites(ctx, mojito))
		require.NoError(t, s.AddToFavorites(ctx, margarita))
		assert.Equal(t, []models.FavoriteItem{margarita, mojito, margarita}, persisted(t, kv, DemoAccountID))

		require.NoError(t, s.RemoveFromFavorites(ctx, margarita.ID))
		assert.Equal(t, []models.FavoriteItem{mojito}, s.Favorites(), "remove drops every entry with the id")
	})
}

func TestFavoritesWriteFailure(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t, quietLogger())
	require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))
	require.NoError(t, s.AddToFavorites(ctx, margarita))

	kv.Fail(false, true, false)

	err := s.AddToFavorites(ctx, mojito)
	assert.ErrorIs(t, err, shared.ErrStorage)
	assert.False(t, s.IsFavorite(mojito.ID), "memory must match storage after a failed write")

	err = s.RemoveFromFavorites(ctx, margarita.ID)
	assert.ErrorIs(t, err, shared.ErrStorage)
	assert.True(t, s.IsFavorite(margarita.ID))

	saved, err := s.ToggleFavorite(ctx, margarita)
	assert.ErrorIs(t, err, shared.ErrStorage)
	assert.True(t, saved)

	kv.Fail(false, false, false)
	assert.Equal(t, s.Favorites(), persisted(t, kv, DemoAccountID))
}

func TestFavoritesConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t, quietLogger())
	require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item := models.FavoriteItem{ID: fmt.Sprintf("%d", 17000+i), Name: fmt.Sprintf("Drink %d", i)}
			assert.NoError(t, s.AddToFavorites(ctx, item))
		}()
	}
	wg.Wait()

	assert.Len(t, s.Favorites(), 20)
	assert.ElementsMatch(t, s.Favorites(), persisted(t, kv, DemoAccountID))
}
