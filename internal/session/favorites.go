package session

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/shared"
)

// AddToFavorites saves item for the active account. Without a session it does nothing.
//
// Unless duplicates are allowed, adding an id that is already saved is a no-op.
func (s *Store) AddToFavorites(ctx context.Context, item models.FavoriteItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}
	if !s.allowDuplicates && containsItem(s.items, item.ID) {
		return nil
	}

	return s.commit(ctx, append(cloneItems(s.items), item))
}

// RemoveFromFavorites drops every entry with id from the active account's favorites.
// Without a session, or when id is not saved, it does nothing.
func (s *Store) RemoveFromFavorites(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil || !containsItem(s.items, id) {
		return nil
	}

	kept := slices.DeleteFunc(cloneItems(s.items), func(f models.FavoriteItem) bool { return f.ID == id })
	return s.commit(ctx, kept)
}

// ToggleFavorite removes item when saved and adds it otherwise, returning whether it is saved
// afterwards. Without a session it does nothing and reports false.
func (s *Store) ToggleFavorite(ctx context.Context, item models.FavoriteItem) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return false, nil
	}

	if containsItem(s.items, item.ID) {
		kept := slices.DeleteFunc(cloneItems(s.items), func(f models.FavoriteItem) bool { return f.ID == item.ID })
		if err := s.commit(ctx, kept); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.commit(ctx, append(cloneItems(s.items), item)); err != nil {
		return false, err
	}
	return true, nil
}

// IsFavorite reports whether id is saved for the active account. It does not touch storage.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsItem(s.items, id)
}

// Favorites returns a copy of the active account's favorites in insertion order.
func (s *Store) Favorites() []models.FavoriteItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// commit persists items and then adopts them. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, items []models.FavoriteItem) error {
	if err := s.favorites.Save(ctx, s.user.ID, items); err != nil {
		s.logger.Error("failed to persist favorites", "account", s.user.ID, "error", err)
		return err
	}
	s.items = items
	return nil
}

func containsItem(items []models.FavoriteItem, id string) bool {
	return slices.ContainsFunc(items, func(f models.FavoriteItem) bool { return f.ID == id })
}

func cloneItems(items []models.FavoriteItem) []models.FavoriteItem {
	if items == nil {
		return []models.FavoriteItem{}
	}
	return slices.Clone(items)
}
