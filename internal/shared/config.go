package shared

import (
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Server     ServerConfig     `toml:"server"`
	CocktailDB CocktailDBConfig `toml:"cocktaildb"`
	Session    SessionConfig    `toml:"session"`
	Log        LogConfig        `toml:"log"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr joins host and port into a listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// CocktailDBConfig points the API client at TheCocktailDB.
type CocktailDBConfig struct {
	BaseURL   string        `toml:"base_url"`
	SiteURL   string        `toml:"site_url"`
	RateLimit float64       `toml:"rate_limit"`
	Timeout   time.Duration `toml:"timeout"`
}

// SessionConfig tunes the session store.
type SessionConfig struct {
	LoginDelay              time.Duration `toml:"login_delay"`
	AllowDuplicateFavorites bool          `toml:"allow_duplicate_favorites"`
}

// LogConfig controls log level and the file used by full-screen commands.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads a TOML configuration file from path and overlays it onto [DefaultConfig],
// so keys missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports values that would leave a component unusable.
func (c *Config) Validate() error {
	switch {
	case c.Database.Path == "":
		return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	case c.CocktailDB.BaseURL == "":
		return fmt.Errorf("%w: cocktaildb.base_url is empty", ErrInvalidConfig)
	case c.CocktailDB.RateLimit < 0:
		return fmt.Errorf("%w: cocktaildb.rate_limit must not be negative", ErrInvalidConfig)
	case c.Session.LoginDelay < 0:
		return fmt.Errorf("%w: session.login_delay must not be negative", ErrInvalidConfig)
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
