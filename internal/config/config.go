// Package config loads crit's runtime configuration from a YAML file,
// a .env file, CRIT_ environment variables and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/roach88/criteria/internal/dialect"
)

// EnvPrefix prefixes every environment variable, e.g. CRIT_DIALECT.
const EnvPrefix = "CRIT"

// Config holds the settings shared by every command.
type Config struct {
	Dialect           string `mapstructure:"dialect"`
	DSN               string `mapstructure:"dsn"`
	Schema            string `mapstructure:"schema"`
	IdentifierQuoting bool   `mapstructure:"identifier_quoting"`
	IgnoreCase        bool   `mapstructure:"ignore_case"`
	LogLevel          string `mapstructure:"log_level"`

	// File is the config file that was read, empty if none.
	File string `mapstructure:"-"`
}

// Options controls where Load looks.
type Options struct {
	// Fs defaults to the OS filesystem.
	Fs afero.Fs

	// ConfigFile is an explicit config path. It must exist when set.
	// Otherwise crit.yaml is searched in the working directory and in
	// ~/.config/crit.
	ConfigFile string

	// Overrides take precedence over every other source. Keys are the
	// mapstructure names, e.g. "dialect".
	Overrides map[string]any
}

// Load resolves configuration. Precedence, highest first: overrides,
// environment, .env, config file, defaults.
func Load(opts Options) (*Config, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yaml")

	v.SetDefault("dialect", "sqlite")
	v.SetDefault("dsn", "")
	v.SetDefault("schema", "")
	v.SetDefault("identifier_quoting", false)
	v.SetDefault("ignore_case", false)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("crit")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "crit"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if err := loadDotEnv(fs, v); err != nil {
		return nil, err
	}

	for k, val := range opts.Overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	slog.Debug("configuration loaded", "file", cfg.File, "dialect", cfg.Dialect, "schema", cfg.Schema)
	return &cfg, nil
}

// loadDotEnv applies CRIT_ entries of ./.env that are not already set in
// the process environment.
func loadDotEnv(fs afero.Fs, v *viper.Viper) error {
	f, err := fs.Open(".env")
	if err != nil {
		return nil
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("parse .env: %w", err)
	}
	for name, val := range values {
		key, ok := strings.CutPrefix(name, EnvPrefix+"_")
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		v.Set(strings.ToLower(key), val)
	}
	return nil
}

// Adapter returns the dialect adapter named by Dialect.
func (c *Config) Adapter() (dialect.Adapter, error) {
	return dialect.Lookup(c.Dialect)
}

// Validate checks the dialect, the DSN format for that dialect, the schema
// file extension and the log level. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	adapter, err := c.Adapter()
	if err != nil {
		errs = append(errs, err)
	}

	if adapter != nil && c.DSN != "" {
		switch adapter.Name() {
		case "mysql":
			if _, err := mysql.ParseDSN(c.DSN); err != nil {
				errs = append(errs, fmt.Errorf("dsn: %w", err))
			}
		case "pgsql":
			if strings.HasPrefix(c.DSN, "postgres://") || strings.HasPrefix(c.DSN, "postgresql://") {
				if _, err := pq.ParseURL(c.DSN); err != nil {
					errs = append(errs, fmt.Errorf("dsn: %w", err))
				}
			}
		}
	}

	if c.Schema != "" {
		switch strings.ToLower(filepath.Ext(c.Schema)) {
		case ".yaml", ".yml", ".cue":
		default:
			errs = append(errs, fmt.Errorf("schema %s: must be a .yaml, .yml or .cue file", c.Schema))
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q: must be one of debug, info, warn, error", c.LogLevel))
	}

	return errors.Join(errs...)
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
