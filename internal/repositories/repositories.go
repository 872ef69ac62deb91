package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/cocktailparty/internal/shared"
)

// Store keys. Account directories holding plaintext passwords instead of a secret hash are not
// supported: they load, but none of their accounts can sign in.
const (
	AccountsKey        = "cocktail_users"
	SessionKey         = "cocktail_user"
	favoritesKeyPrefix = "cocktail_favorites_"
)

// FavoritesKey returns the key holding the favorites of accountID.
func FavoritesKey(accountID string) string {
	return favoritesKeyPrefix + accountID
}

// KVStore is a string-keyed store of opaque values.
type KVStore interface {
	// Get returns the value under key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set creates or replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns all keys with the given prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
	// Clear removes every key.
	Clear(ctx context.Context) error
}

// loadJSON decodes the document under key into v and reports whether it was present.
func loadJSON(ctx context.Context, kv KVStore, key string, v any) (bool, error) {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: failed to read %s: %v", shared.ErrStorage, key, err)
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", shared.ErrCorruptData, key, err)
	}
	return true, nil
}

// saveJSON encodes v and writes it under key.
func saveJSON(ctx context.Context, kv KVStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

// deleteKey removes key, wrapping failures as storage errors.
func deleteKey(ctx context.Context, kv KVStore, key string) error {
	if err := kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: failed to delete %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}
