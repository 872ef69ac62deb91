package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/shared"
)

// SessionRecord persists the signed-in identity.
type SessionRecord struct {
	kv KVStore
}

// NewSessionRecord creates a [SessionRecord] backed by kv.
func NewSessionRecord(kv KVStore) *SessionRecord {
	return &SessionRecord{kv: kv}
}

// Load returns the persisted session, or nil when nobody is signed in.
func (r *SessionRecord) Load(ctx context.Context) (*models.Session, error) {
	var s models.Session
	found, err := loadJSON(ctx, r.kv, SessionKey, &s)
	if err != nil || !found {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrCorruptData, SessionKey, err)
	}
	return &s, nil
}

// Save writes s as the active session.
func (r *SessionRecord) Save(ctx context.Context, s models.Session) error {
	return saveJSON(ctx, r.kv, SessionKey, s)
}

// Clear removes the active session.
func (r *SessionRecord) Clear(ctx context.Context) error {
	return deleteKey(ctx, r.kv, SessionKey)
}
