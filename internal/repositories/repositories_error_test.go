package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/shared"
)

type brokenKV struct{ err error }

func (b brokenKV) Get(context.Context, string) ([]byte, error)   { return nil, b.err }
func (b brokenKV) Set(context.Context, string, []byte) error     { return b.err }
func (b brokenKV) Delete(context.Context, string) error          { return b.err }
func (b brokenKV) List(context.Context, string) ([]string, error) { return nil, b.err }
func (b brokenKV) Clear(context.Context) error                   { return b.err }

func TestRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Storage", func(t *testing.T) {
		kv := brokenKV{err: errors.New("disk full")}

		_, err := NewAccountDirectory(kv).Load(ctx)
		assert.ErrorIs(t, err, shared.ErrStorage)

		_, err = NewAccountDirectory(kv).Exists(ctx)
		assert.ErrorIs(t, err, shared.ErrStorage)

		err = NewSessionRecord(kv).Save(ctx, models.Session{ID: "1"})
		assert.ErrorIs(t, err, shared.ErrStorage)

		err = NewSessionRecord(kv).Clear(ctx)
		assert.ErrorIs(t, err, shared.ErrStorage)

		err = NewFavoritesRepository(kv).Save(ctx, "1", nil)
		assert.ErrorIs(t, err, shared.ErrStorage)

		_, err = NewFavoritesRepository(kv).Accounts(ctx)
		assert.ErrorIs(t, err, shared.ErrStorage)
	})

	t.Run("CorruptData", func(t *testing.T) {
		kv := NewMemoryStore()
		require.NoError(t, kv.Set(ctx, AccountsKey, []byte("{not json")))
		require.NoError(t, kv.Set(ctx, SessionKey, []byte(`"a string"`)))
		require.NoError(t, kv.Set(ctx, FavoritesKey("1"), []byte(`{"idDrink":"1"}`)))

		_, err := NewAccountDirectory(kv).Load(ctx)
		assert.ErrorIs(t, err, shared.ErrCorruptData)

		_, err = NewSessionRecord(kv).Load(ctx)
		assert.ErrorIs(t, err, shared.ErrCorruptData)

		_, err = NewFavoritesRepository(kv).Load(ctx, "1")
		assert.ErrorIs(t, err, shared.ErrCorruptData)
	})

	t.Run("Session without id", func(t *testing.T) {
		kv := NewMemoryStore()
		require.NoError(t, kv.Set(ctx, SessionKey, []byte(`{"name":"Ghost"}`)))

		_, err := NewSessionRecord(kv).Load(ctx)
		assert.ErrorIs(t, err, shared.ErrCorruptData)
	})

	t.Run("Empty account id", func(t *testing.T) {
		repo := NewFavoritesRepository(NewMemoryStore())
		_, err := repo.Load(ctx, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.ErrorIs(t, repo.Save(ctx, "", nil), shared.ErrInvalidInput)
	})

	t.Run("Closed database", func(t *testing.T) {
		db := setupTestDB(t)
		kv := NewSQLiteStore(db)
		require.NoError(t, db.Close())

		_, err := kv.Get(ctx, "k")
		assert.Error(t, err)
		assert.Error(t, kv.Set(ctx, "k", []byte("v")))
		assert.Error(t, kv.Delete(ctx, "k"))
		_, err = kv.List(ctx, "")
		assert.Error(t, err)
		assert.Error(t, kv.Clear(ctx))
	})
}
