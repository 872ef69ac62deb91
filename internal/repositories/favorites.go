package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/shared"
)

// FavoritesRepository persists one ordered favorites list per account.
type FavoritesRepository struct {
	kv KVStore
}

// NewFavoritesRepository creates a [FavoritesRepository] backed by kv.
func NewFavoritesRepository(kv KVStore) *FavoritesRepository {
	return &FavoritesRepository{kv: kv}
}

// Load returns the favorites of accountID in insertion order. An absent list is empty.
func (r *FavoritesRepository) Load(ctx context.Context, accountID string) ([]models.FavoriteItem, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: empty account id", shared.ErrInvalidInput)
	}
	var items []models.FavoriteItem
	if _, err := loadJSON(ctx, r.kv, FavoritesKey(accountID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Save replaces the favorites of accountID.
func (r *FavoritesRepository) Save(ctx context.Context, accountID string, items []models.FavoriteItem) error {
	if accountID == "" {
		return fmt.Errorf("%w: empty account id", shared.ErrInvalidInput)
	}
	if items == nil {
		items = []models.FavoriteItem{}
	}
	return saveJSON(ctx, r.kv, FavoritesKey(accountID), items)
}

// Accounts lists the ids of accounts that have a favorites document.
func (r *FavoritesRepository) Accounts(ctx context.Context) ([]string, error) {
	keys, err := r.kv.List(ctx, favoritesKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list favorites: %v", shared.ErrStorage, err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k[len(favoritesKeyPrefix):])
	}
	return ids, nil
}
