package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/repositories"
	"github.com/desertthunder/cocktailparty/internal/shared"
)

// Demo account seeded into an empty directory.
const (
	DemoAccountID = "1"
	DemoName      = "Demo User"
	DemoEmail     = "demo@cocktailparty.com"
	DemoPassword  = "demo123"
)

// State is the view presentation layers render.
type State struct {
	User      *models.Session       `json:"user"`
	Loading   bool                  `json:"isLoading"`
	Favorites []models.FavoriteItem `json:"favorites"`
}

// Options configures a [Store]. Zero values select defaults.
type Options struct {
	Logger *log.Logger
	// LoginDelay is applied before Login and Register complete.
	LoginDelay time.Duration
	// AllowDuplicates keeps appending items that are already saved.
	AllowDuplicates bool
	// NewID generates account ids; defaults to [shared.GenerateID].
	NewID func() string
	// Hash derives stored secrets; defaults to [shared.HashSecret].
	Hash func(password string) (string, error)
}

// Store holds the active session and its favorites.
type Store struct {
	accounts  *repositories.AccountDirectory
	sessions  *repositories.SessionRecord
	favorites *repositories.FavoritesRepository

	logger          *log.Logger
	loginDelay      time.Duration
	allowDuplicates bool
	newID           func() string
	hash            func(string) (string, error)

	mu          sync.RWMutex
	user        *models.Session
	items       []models.FavoriteItem
	initialized bool
	pending     int
}

// New creates a [Store] over kv. The store reports Loading until [Store.Initialize] returns.
func New(kv repositories.KVStore, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.NewID == nil {
		opts.NewID = shared.GenerateID
	}
	if opts.Hash == nil {
		opts.Hash = shared.HashSecret
	}

	return &Store{
		accounts:        repositories.NewAccountDirectory(kv),
		sessions:        repositories.NewSessionRecord(kv),
		favorites:       repositories.NewFavoritesRepository(kv),
		logger:          shared.WithLogger(opts.Logger, "component", "session"),
		loginDelay:      opts.LoginDelay,
		allowDuplicates: opts.AllowDuplicates,
		newID:           opts.NewID,
		hash:            opts.Hash,
	}
}

// Initialize seeds the demo account into an absent directory and restores a persisted
// session with its favorites.
//
// Failures are logged and returned, but always leave a usable store: unreadable data is
// treated as no prior state, and loading ends either way.
func (s *Store) Initialize(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.initialized = true
		s.mu.Unlock()
	}()

	var errs []error
	if err := s.seed(ctx); err != nil {
		s.logger.Error("failed to seed account directory", "error", err)
		errs = append(errs, err)
	}

	if err := s.restore(ctx); err != nil {
		s.logger.Warn("starting without a session", "error", err)
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (s *Store) seed(ctx context.Context) error {
	exists, err := s.accounts.Exists(ctx)
	if err != nil || exists {
		return err
	}

	secret, err := s.hash(DemoPassword)
	if err != nil {
		return err
	}
	demo := models.Account{ID: DemoAccountID, Name: DemoName, Email: DemoEmail, Secret: secret}
	if err := s.accounts.Save(ctx, []models.Account{demo}); err != nil {
		return err
	}

	s.logger.Info("seeded demo account", "email", DemoEmail)
	return nil
}

// restore loads the persisted session into memory.
func (s *Store) restore(ctx context.Context) error {
	user, err := s.sessions.Load(ctx)
	if err != nil || user == nil {
		return err
	}

	items, err := s.favorites.Load(ctx, user.ID)
	if err != nil {
		s.logger.Warn("ignoring unreadable favorites", "account", user.ID, "error", err)
		items = nil
	}

	s.mu.Lock()
	s.user, s.items = user, items
	s.mu.Unlock()

	s.logger.Debug("restored session", "account", user.ID, "favorites", len(items))
	return nil
}

// Reload re-reads the session and favorites from storage, picking up writes made by another
// process sharing the same database. Unreadable data keeps the current in-memory state.
func (s *Store) Reload(ctx context.Context) error {
	user, err := s.sessions.Load(ctx)
	if err != nil {
		return err
	}

	var items []models.FavoriteItem
	if user != nil {
		if items, err = s.favorites.Load(ctx, user.ID); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.user, s.items = user, items
	s.mu.Unlock()
	return nil
}

// Login signs in the account matching email and password.
//
// On failure nothing changes, including an already active session.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.begin()
	defer s.end()

	if err := s.delay(ctx); err != nil {
		return err
	}

	accounts, err := s.accounts.Load(ctx)
	if err != nil {
		s.logger.Error("failed to read account directory", "error", err)
		return err
	}

	account := repositories.FindByEmail(accounts, email)
	if account == nil || !shared.VerifySecret(password, account.Secret) {
		s.logger.Info("rejected login", "email", shared.NormalizeEmail(email))
		return shared.ErrInvalidCredentials
	}

	user := account.Session()
	items, err := s.favorites.Load(ctx, user.ID)
	if err != nil {
		s.logger.Warn("ignoring unreadable favorites", "account", user.ID, "error", err)
		items = nil
	}

	if err := s.sessions.Save(ctx, user); err != nil {
		s.logger.Error("failed to persist session", "error", err)
		return err
	}

	s.mu.Lock()
	s.user, s.items = &user, items
	s.mu.Unlock()

	s.logger.Info("signed in", "account", user.ID)
	return nil
}

// Register creates an account and signs it in.
//
// An email already present in the directory fails with [shared.ErrAccountExists] and leaves the
// directory untouched.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	name, email = strings.TrimSpace(name), shared.NormalizeEmail(email)
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrInvalidInput)
	}

	s.begin()
	defer s.end()

	if err := s.delay(ctx); err != nil {
		return err
	}

	accounts, err := s.accounts.Load(ctx)
	if err != nil {
		s.logger.Error("failed to read account directory", "error", err)
		return err
	}
	if repositories.FindByEmail(accounts, email) != nil {
		return shared.ErrAccountExists
	}

	secret, err := s.hash(password)
	if err != nil {
		return err
	}
	account := models.Account{ID: s.uniqueID(accounts), Name: name, Email: email, Secret: secret}

	if err := s.accounts.Save(ctx, append(accounts, account)); err != nil {
		s.logger.Error("failed to persist account directory", "error", err)
		return err
	}
	s.logger.Info("registered account", "account", account.ID)

	// The directory write is the commit point; an absent favorites document reads as empty.
	if err := s.favorites.Save(ctx, account.ID, nil); err != nil {
		s.logger.Warn("failed to initialize favorites", "account", account.ID, "error", err)
	}

	user := account.Session()
	if err := s.sessions.Save(ctx, user); err != nil {
		s.logger.Error("failed to persist session", "error", err)
		return err
	}

	s.mu.Lock()
	s.user, s.items = &user, nil
	s.mu.Unlock()
	return nil
}

// Logout ends the active session. Accounts and persisted favorites are kept.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user, s.items = nil, nil
	s.mu.Unlock()

	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Error("failed to clear session", "error", err)
		return err
	}
	s.logger.Info("signed out")
	return nil
}

// User returns a copy of the active session, or nil.
func (s *Store) User() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Loading reports whether initialization or a login/register is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.initialized || s.pending > 0
}

// Snapshot returns the current user, loading flag and favorites as one consistent view.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Loading:   !s.initialized || s.pending > 0,
		Favorites: cloneItems(s.items),
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// Accounts returns the number of registered accounts.
func (s *Store) Accounts(ctx context.Context) (int, error) {
	accounts, err := s.accounts.Load(ctx)
	return len(accounts), err
}

func (s *Store) begin() {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
}

func (s *Store) end() {
	s.mu.Lock()
	s.pending--
	s.mu.Unlock()
}

// delay waits for the configured login latency or until ctx is done.
func (s *Store) delay(ctx context.Context) error {
	if s.loginDelay <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(s.loginDelay)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// uniqueID draws ids until one is not taken.
func (s *Store) uniqueID(accounts []models.Account) string {
	for {
		id := s.newID()
		taken := false
		for _, a := range accounts {
			if a.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}
