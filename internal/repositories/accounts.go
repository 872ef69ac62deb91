package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/shared"
)

// AccountDirectory persists the ordered list of registered accounts as one document.
type AccountDirectory struct {
	kv KVStore
}

// NewAccountDirectory creates an [AccountDirectory] backed by kv.
func NewAccountDirectory(kv KVStore) *AccountDirectory {
	return &AccountDirectory{kv: kv}
}

// Exists reports whether a directory document has ever been written.
func (d *AccountDirectory) Exists(ctx context.Context) (bool, error) {
	data, err := d.kv.Get(ctx, AccountsKey)
	if err != nil {
		return false, fmt.Errorf("%w: failed to read %s: %v", shared.ErrStorage, AccountsKey, err)
	}
	return data != nil, nil
}

// Load returns the accounts in registration order. An absent directory is empty.
func (d *AccountDirectory) Load(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if _, err := loadJSON(ctx, d.kv, AccountsKey, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save replaces the directory document.
func (d *AccountDirectory) Save(ctx context.Context, accounts []models.Account) error {
	if accounts == nil {
		accounts = []models.Account{}
	}
	return saveJSON(ctx, d.kv, AccountsKey, accounts)
}

// FindByEmail returns the account whose normalized email matches, or nil.
func FindByEmail(accounts []models.Account, email string) *models.Account {
	email = shared.NormalizeEmail(email)
	for i := range accounts {
		if shared.NormalizeEmail(accounts[i].Email) == email {
			return &accounts[i]
		}
	}
	return nil
}
