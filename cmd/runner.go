package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/repositories"
	"github.com/desertthunder/cocktailparty/internal/services"
	"github.com/desertthunder/cocktailparty/internal/session"
	"github.com/desertthunder/cocktailparty/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	ephemeral   bool
	kv          repositories.KVStore
	db          *sql.DB
	store       *session.Store
	cocktails   services.CocktailService
	api         *services.APIService
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	input       *bufio.Reader
	stdin       io.Reader
	openBrowser func(string) error
	closers     []io.Closer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	// KV replaces the configured database; used by tests and --ephemeral runs.
	KV          repositories.KVStore
	Cocktails   services.CocktailService
	API         *services.APIService
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	Input       io.Reader
	OpenBrowser func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		kv:          opts.KV,
		cocktails:   opts.Cocktails,
		api:         opts.API,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		stdin:       opts.Input,
		input:       bufio.NewReader(opts.Input),
		openBrowser: opts.OpenBrowser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, ingredientsCommand, cocktailsCommand, favoritesCommand, apiCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config and builds the API clients.
//
// A missing file keeps the defaults so 'setup config' can create it.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			config, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return ctx, err
			}
			r.config = config
			r.logger.Debug("loaded config", "path", r.configPath)
		} else if cmd.IsSet("config") {
			r.logger.Warn("config file not found, using defaults", "path", r.configPath)
		}
	}

	level := r.config.Log.Level
	if l := cmd.String("log-level"); l != "" {
		level = l
	}
	if err := shared.ApplyLogLevel(r.logger, level); err != nil {
		return ctx, err
	}

	r.ephemeral = r.ephemeral || cmd.Bool("ephemeral")

	if r.cocktails == nil {
		r.cocktails = services.NewCocktailDBFromConfig(r.config.CocktailDB)
	}
	if r.api == nil {
		if db, ok := r.cocktails.(*services.CocktailDB); ok {
			r.api = db.API()
		} else {
			r.api = services.NewAPIService(r.config.CocktailDB.BaseURL, r.httpClient)
		}
	}
	return ctx, nil
}

// Close releases the database and any log files opened by commands.
func (r *Runner) Close(ctx context.Context, _ *cli.Command) error {
	var errs []error
	if r.db != nil {
		errs = append(errs, r.db.Close())
		r.db, r.kv, r.store = nil, nil, nil
	}
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	r.closers = nil
	return errors.Join(errs...)
}

// SetLogger replaces the logger used by the runner and anything it builds afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// openKV returns the injected store, an in-memory one for --ephemeral, or the migrated database.
func (r *Runner) openKV(ctx context.Context) (repositories.KVStore, error) {
	if r.kv != nil {
		return r.kv, nil
	}
	if r.ephemeral {
		r.logger.Debug("using in-memory storage")
		r.kv = repositories.NewMemoryStore()
		return r.kv, nil
	}

	db, err := shared.OpenDatabase(ctx, r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", shared.ErrStorage, r.config.Database.Path, err)
	}
	r.db = db
	r.kv = repositories.NewSQLiteStore(db)
	return r.kv, nil
}

// Store returns the initialized session store, building it on first use.
//
// Initialization failures are logged; the store is usable either way.
func (r *Runner) Store(ctx context.Context) (*session.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	kv, err := r.openKV(ctx)
	if err != nil {
		return nil, err
	}

	store := r.newStore(kv)
	if err := store.Initialize(ctx); err != nil {
		r.logger.Warn("session store started without saved state", "error", err)
	}

	r.store = store
	return store, nil
}

// newStore builds an uninitialized session store over kv using the [session] config.
func (r *Runner) newStore(kv repositories.KVStore) *session.Store {
	return session.New(kv, session.Options{
		Logger:          r.logger,
		LoginDelay:      r.config.Session.LoginDelay,
		AllowDuplicates: r.config.Session.AllowDuplicateFavorites,
	})
}

// requireSession returns the store and the signed-in user, or [shared.ErrNotAuthenticated].
func (r *Runner) requireSession(ctx context.Context) (*session.Store, *models.Session, error) {
	store, err := r.Store(ctx)
	if err != nil {
		return nil, nil, err
	}
	user := store.User()
	if user == nil {
		return nil, nil, fmt.Errorf("%w: run 'cparty auth login' first", shared.ErrNotAuthenticated)
	}
	return store, user, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
