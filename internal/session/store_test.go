package session

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/repositories"
	"github.com/desertthunder/cocktailparty/internal/shared"
	tu "github.com/desertthunder/cocktailparty/internal/testing"
)

func quietLogger() Options {
	return Options{Logger: shared.NewLogger(&bytes.Buffer{})}
}

// newStore returns an initialized store over a fresh FlakyKV.
func newStore(t *testing.T, opts Options) (*Store, *tu.FlakyKV) {
	t.Helper()
	kv := tu.NewFlakyKV()
	s := New(kv, opts)
	require.NoError(t, s.Initialize(context.Background()))
	return s, kv
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds the demo account", func(t *testing.T) {
		kv := tu.NewFlakyKV()
		s := New(kv, quietLogger())
		assert.True(t, s.Loading(), "store should report loading before initialization")

		require.NoError(t, s.Initialize(ctx))
		assert.False(t, s.Loading())
		assert.Nil(t, s.User())

		accounts, err := repositories.NewAccountDirectory(kv).Load(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, DemoAccountID, accounts[0].ID)
		assert.Equal(t, DemoName, accounts[0].Name)
		assert.Equal(t, DemoEmail, accounts[0].Email)
		assert.NotEqual(t, DemoPassword, accounts[0].Secret)
		assert.True(t, shared.VerifySecret(DemoPassword, accounts[0].Secret))
	})

	t.Run("keeps an existing directory", func(t *testing.T) {
		kv := tu.NewFlakyKV()
		require.NoError(t, repositories.NewAccountDirectory(kv).Save(ctx, []models.Account{}))

		s := New(kv, quietLogger())
		require.NoError(t, s.Initialize(ctx))

		n, err := s.Accounts(ctx)
		require.NoError(t, err)
		assert.Zero(t, n, "an empty but present directory must not be reseeded")
	})

	t.Run("restores a persisted session", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))
		require.NoError(t, s.AddToFavorites(ctx, models.FavoriteItem{ID: "11007", Name: "Margarita"}))

		restored := New(kv, quietLogger())
		require.NoError(t, restored.Initialize(ctx))

		require.NotNil(t, restored.User())
		assert.Equal(t, DemoName, restored.User().Name)
		assert.True(t, restored.IsFavorite("11007"))
	})

	t.Run("corrupt session degrades to signed out", func(t *testing.T) {
		kv := tu.NewFlakyKV()
		require.NoError(t, kv.Set(ctx, repositories.SessionKey, []byte("{oops")))

		s := New(kv, quietLogger())
		err := s.Initialize(ctx)
		assert.ErrorIs(t, err, shared.ErrCorruptData)
		assert.Nil(t, s.User())
		assert.False(t, s.Loading())

		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword), "demo account should still be seeded")
	})

	t.Run("corrupt favorites restore as empty", func(t *testing.T) {
		kv := tu.NewFlakyKV()
		require.NoError(t, repositories.NewSessionRecord(kv).Save(ctx, models.Session{ID: "1", Name: DemoName, Email: DemoEmail}))
		require.NoError(t, kv.Set(ctx, repositories.FavoritesKey("1"), []byte("42")))

		s := New(kv, quietLogger())
		require.NoError(t, s.Initialize(ctx))
		require.NotNil(t, s.User())
		assert.Empty(t, s.Favorites())
	})

	t.Run("storage failure ends loading", func(t *testing.T) {
		kv := tu.NewFlakyKV()
		kv.Fail(true, true, false)

		s := New(kv, quietLogger())
		err := s.Initialize(ctx)
		assert.ErrorIs(t, err, shared.ErrStorage)
		assert.False(t, s.Loading())
		assert.Nil(t, s.User())
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("demo account", func(t *testing.T) {
		s, _ := newStore(t, quietLogger())

		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))
		user := s.User()
		require.NotNil(t, user)
		assert.Equal(t, "Demo User", user.Name)
		assert.Equal(t, DemoEmail, user.Email)
		assert.Empty(t, s.Favorites())
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		s, _ := newStore(t, quietLogger())
		require.NoError(t, s.Login(ctx, "  Demo@CocktailParty.com ", DemoPassword))
		assert.Equal(t, DemoAccountID, s.User().ID)
	})

	t.Run("persists the session", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))

		raw, err := kv.Get(ctx, repositories.SessionKey)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"1","name":"Demo User","email":"demo@cocktailparty.com"}`, string(raw))
	})

	t.Run("wrong password keeps the current session", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		require.NoError(t, s.Register(ctx, "Ada", "ada@example.com", "secret1"))
		before := s.User()
		raw, _ := kv.Get(ctx, repositories.SessionKey)

		err := s.Login(ctx, DemoEmail, "wrong")
		assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
		assert.Equal(t, before, s.User())

		after, _ := kv.Get(ctx, repositories.SessionKey)
		assert.Equal(t, raw, after)
	})

	t.Run("unknown email", func(t *testing.T) {
		s, _ := newStore(t, quietLogger())
		err := s.Login(ctx, "nobody@example.com", DemoPassword)
		assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
		assert.Nil(t, s.User())
	})

	t.Run("plaintext directory signs nobody in", func(t *testing.T) {
		kv := tu.NewFlakyKV()
		legacy := `[{"id":"1","name":"Demo User","email":"demo@cocktailparty.com","password":"demo123"}]`
		require.NoError(t, kv.Set(ctx, repositories.AccountsKey, []byte(legacy)))

		s := New(kv, quietLogger())
		require.NoError(t, s.Initialize(ctx))

		n, err := s.Accounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "a present directory must not be reseeded")

		assert.ErrorIs(t, s.Login(ctx, DemoEmail, DemoPassword), shared.ErrInvalidCredentials)
		assert.Nil(t, s.User())
	})

	t.Run("restores the account's favorites", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		want := []models.FavoriteItem{{ID: "11000", Name: "Mojito"}, {ID: "11007", Name: "Margarita"}}
		require.NoError(t, repositories.NewFavoritesRepository(kv).Save(ctx, DemoAccountID, want))

		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))
		if diff := cmp.Diff(want, s.Favorites()); diff != "" {
			t.Errorf("favorites mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("session write failure leaves state unchanged", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		kv.FailKeyPrefix = repositories.SessionKey
		kv.Fail(false, true, false)

		err := s.Login(ctx, DemoEmail, DemoPassword)
		assert.ErrorIs(t, err, shared.ErrStorage)
		assert.Nil(t, s.User())
	})

	t.Run("delay honors cancellation", func(t *testing.T) {
		s, _ := newStore(t, Options{Logger: quietLogger().Logger, LoginDelay: time.Hour})

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := s.Login(cctx, DemoEmail, DemoPassword)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, s.User())
		assert.False(t, s.Loading())
	})

	t.Run("reports loading while in flight", func(t *testing.T) {
		s, _ := newStore(t, Options{Logger: quietLogger().Logger, LoginDelay: 200 * time.Millisecond})

		done := make(chan error, 1)
		go func() { done <- s.Login(ctx, DemoEmail, DemoPassword) }()

		assert.Eventually(t, s.Loading, time.Second, 5*time.Millisecond)
		require.NoError(t, <-done)
		assert.False(t, s.Loading())
		assert.NotNil(t, s.User())
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("existing email fails without touching the directory", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		before, err := kv.Get(ctx, repositories.AccountsKey)
		require.NoError(t, err)

		err = s.Register(ctx, "Impostor", "DEMO@cocktailparty.com", "whatever1")
		assert.ErrorIs(t, err, shared.ErrAccountExists)
		assert.Nil(t, s.User())

		after, err := kv.Get(ctx, repositories.AccountsKey)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("fresh email signs in with empty favorites", func(t *testing.T) {
		s, kv := newStore(t, Options{Logger: quietLogger().Logger, NewID: func() string { return "acct-2" }})

		require.NoError(t, s.Register(ctx, " Ada Lovelace ", "Ada@Example.com", "secret1"))

		user := s.User()
		require.NotNil(t, user)
		assert.Equal(t, "acct-2", user.ID)
		assert.Equal(t, "Ada Lovelace", user.Name)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Empty(t, s.Favorites())

		raw, err := kv.Get(ctx, repositories.FavoritesKey("acct-2"))
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(raw))

		accounts, err := repositories.NewAccountDirectory(kv).Load(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, DemoAccountID, accounts[0].ID, "registration order is preserved")
		assert.Equal(t, "acct-2", accounts[1].ID)
		assert.NotContains(t, accounts[1].Secret, "secret1")
	})

	t.Run("new account can log in again", func(t *testing.T) {
		s, _ := newStore(t, quietLogger())
		require.NoError(t, s.Register(ctx, "Ada", "ada@example.com", "secret1"))
		require.NoError(t, s.Logout(ctx))

		require.NoError(t, s.Login(ctx, "ada@example.com", "secret1"))
		assert.Equal(t, "Ada", s.User().Name)
	})

	t.Run("ids never collide", func(t *testing.T) {
		ids := []string{DemoAccountID, DemoAccountID, "fresh"}
		next := func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}
		s, _ := newStore(t, Options{Logger: quietLogger().Logger, NewID: next})

		require.NoError(t, s.Register(ctx, "Ada", "ada@example.com", "secret1"))
		assert.Equal(t, "fresh", s.User().ID)
	})

	t.Run("blank email is rejected", func(t *testing.T) {
		s, _ := newStore(t, quietLogger())
		assert.ErrorIs(t, s.Register(ctx, "Ada", "  ", "secret1"), shared.ErrInvalidInput)
	})

	t.Run("corrupt directory is not overwritten", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		require.NoError(t, kv.Set(ctx, repositories.AccountsKey, []byte("not json")))

		err := s.Register(ctx, "Ada", "ada@example.com", "secret1")
		assert.ErrorIs(t, err, shared.ErrCorruptData)

		raw, _ := kv.Get(ctx, repositories.AccountsKey)
		assert.Equal(t, "not json", string(raw))
	})

	t.Run("directory write failure", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		kv.Fail(false, true, false)

		err := s.Register(ctx, "Ada", "ada@example.com", "secret1")
		assert.ErrorIs(t, err, shared.ErrStorage)
		assert.Nil(t, s.User())
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the session but keeps data", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))
		require.NoError(t, s.AddToFavorites(ctx, models.FavoriteItem{ID: "11007", Name: "Margarita"}))

		require.NoError(t, s.Logout(ctx))
		assert.Nil(t, s.User())
		assert.Empty(t, s.Favorites())

		raw, err := kv.Get(ctx, repositories.SessionKey)
		require.NoError(t, err)
		assert.Nil(t, raw)

		saved, err := repositories.NewFavoritesRepository(kv).Load(ctx, DemoAccountID)
		require.NoError(t, err)
		assert.Len(t, saved, 1)
	})

	t.Run("without a session", func(t *testing.T) {
		s, _ := newStore(t, quietLogger())
		assert.NoError(t, s.Logout(ctx))
	})

	t.Run("delete failure still signs out in memory", func(t *testing.T) {
		s, kv := newStore(t, quietLogger())
		require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))
		kv.Fail(false, false, true)

		assert.ErrorIs(t, s.Logout(ctx), shared.ErrStorage)
		assert.Nil(t, s.User())
	})
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, quietLogger())

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":null,"isLoading":false,"favorites":[]}`, string(data))

	require.NoError(t, s.Login(ctx, DemoEmail, DemoPassword))
	require.NoError(t, s.AddToFavorites(ctx, models.FavoriteItem{ID: "11007", Name: "Margarita", Thumb: "m.jpg"}))

	data, err = json.Marshal(s.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"user":{"id":"1","name":"Demo User","email":"demo@cocktailparty.com"},
		"isLoading":false,
		"favorites":[{"idDrink":"11007","strDrink":"Margarita","strDrinkThumb":"m.jpg"}]
	}`, string(data))

	snap := s.Snapshot()
	snap.Favorites[0].Name = "mutated"
	snap.User.Name = "mutated"
	assert.Equal(t, "Margarita", s.Favorites()[0].Name, "snapshot must be a copy")
	assert.Equal(t, DemoName, s.User().Name)
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	a, kv := newStore(t, quietLogger())
	require.NoError(t, a.Login(ctx, DemoEmail, DemoPassword))

	b := New(kv, quietLogger())
	require.NoError(t, b.Initialize(ctx))
	require.NoError(t, b.AddToFavorites(ctx, models.FavoriteItem{ID: "11000", Name: "Mojito"}))

	assert.False(t, a.IsFavorite("11000"))
	require.NoError(t, a.Reload(ctx))
	assert.True(t, a.IsFavorite("11000"))

	require.NoError(t, b.Logout(ctx))
	require.NoError(t, a.Reload(ctx))
	assert.Nil(t, a.User())
	assert.Empty(t, a.Favorites())

	t.Run("corrupt data keeps state", func(t *testing.T) {
		require.NoError(t, a.Login(ctx, DemoEmail, DemoPassword))
		require.NoError(t, kv.Set(ctx, repositories.FavoritesKey(DemoAccountID), []byte("{")))

		assert.ErrorIs(t, a.Reload(ctx), shared.ErrCorruptData)
		assert.True(t, a.IsFavorite("11000"))
	})
}
