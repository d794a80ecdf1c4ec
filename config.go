package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const envPrefix = "ORADOC_"

// Config holds the TOML-driven documentation run configuration.
type Config struct {
	Source      SourceConfig      `toml:"source" envPrefix:"SOURCE_"`
	Schema      string            `toml:"schema" env:"SCHEMA"`
	Locale      string            `toml:"locale" env:"LOCALE"`
	LocaleDir   string            `toml:"locale_dir" env:"LOCALE_DIR"`
	Format      string            `toml:"format" env:"FORMAT"`
	Output      string            `toml:"output" env:"OUTPUT"`
	UseDBAViews bool              `toml:"use_dba_views" env:"USE_DBA_VIEWS"`
	LogLevel    string            `toml:"log_level" env:"LOG_LEVEL"`
	Views       map[string]string `toml:"views"` // logical all_* view → concrete view
	Snapshot    SnapshotConfig    `toml:"snapshot" envPrefix:"SNAPSHOT_"`

	// configDir is the directory containing the TOML file, used to resolve relative paths.
	configDir string
}

// SourceConfig identifies the catalog source engine and how to connect to it.
type SourceConfig struct {
	Type     string `toml:"type" env:"TYPE"` // oracle|sqlite|postgres|mysql
	DSN      string `toml:"dsn" env:"DSN"`
	User     string `toml:"user" env:"USER"`
	Password string `toml:"password" env:"PASSWORD"`
	SysDBA   bool   `toml:"sysdba" env:"SYSDBA"`
}

// SnapshotConfig is the target of "oradoc snapshot".
type SnapshotConfig struct {
	Type string `toml:"type" env:"TYPE"` // sqlite|postgres|mysql
	DSN  string `toml:"dsn" env:"DSN"`
}

func configErrorf(format string, args ...any) error {
	return newErrorf(KindConfig, format, args...)
}

// readConfig decodes the file and the environment without validating, so
// flags and prompts can still fill gaps. An empty path starts from the
// defaults so a run can be driven by environment and flags alone.
func readConfig(path string) (*Config, error) {
	cfg := Config{
		Locale:   DefaultLocale,
		Format:   FormatHTML.String(),
		LogLevel: "info",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Kind: KindConfig, Message: "read config", Cause: err}
		}
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, &Error{Kind: KindConfig, Message: "parse config", Cause: err}
		}
		if unknown := md.Undecoded(); len(unknown) > 0 {
			keys := make([]string, len(unknown))
			for i, k := range unknown {
				keys[i] = k.String()
			}
			return nil, configErrorf("unknown config keys: %s", strings.Join(keys, ", "))
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		cfg.configDir = filepath.Dir(absPath)
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
		cfg.configDir = wd
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, &Error{Kind: KindConfig, Message: "environment overrides", Cause: err}
	}
	return &cfg, nil
}

// validate checks the settings that do not depend on the connected user.
func (c *Config) validate() error {
	c.Schema = strings.ToUpper(strings.TrimSpace(c.Schema))
	c.Locale = strings.TrimSpace(c.Locale)
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}

	if _, err := ParseFormat(c.Format); err != nil {
		return err
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return configErrorf("log_level must be one of: debug, info, warn, error")
	}

	// Source validation
	if c.Source.Type == "" {
		return configErrorf("source.type is required (must be oracle, sqlite, postgres or mysql)")
	}
	src, err := newSourceDB(c.Source.Type)
	if err != nil {
		return &Error{Kind: KindConfig, Message: "source.type", Cause: err}
	}
	if c.Source.DSN == "" {
		return configErrorf("source.dsn is required")
	}
	if c.Source.SysDBA && c.Source.Type != "oracle" {
		return configErrorf("source.sysdba is an Oracle-only option")
	}
	if c.UseDBAViews && !src.SupportsDBAViews() {
		return configErrorf("use_dba_views is not supported for %s sources", c.Source.Type)
	}

	if _, err := defaultCatalogViews().withOverrides(c.Views); err != nil {
		return err
	}

	switch c.Snapshot.Type {
	case "", "sqlite", "postgres", "mysql":
	default:
		return configErrorf("snapshot.type must be one of: sqlite, postgres, mysql")
	}
	return nil
}

// ReportFormat returns the parsed output format.
func (c *Config) ReportFormat() (Format, error) {
	return ParseFormat(c.Format)
}

// finalize fills the defaults that depend on the connected user: the
// documented schema and the output path.
func (c *Config) finalize(user string) error {
	if c.Schema == "" {
		c.Schema = strings.ToUpper(strings.TrimSpace(user))
	}
	if c.Schema == "" {
		return configErrorf("schema is required (the %s source has no user to default to)", c.Source.Type)
	}
	if c.Output == "" {
		f, err := c.ReportFormat()
		if err != nil {
			return err
		}
		c.Output = c.Schema + f.Ext()
	}
	return nil
}

// localeDir returns the directory searched for message catalogs before the
// embedded ones, or "" when none is configured.
func (c *Config) localeDir() string {
	if c.LocaleDir == "" {
		return ""
	}
	return c.resolvePath(c.LocaleDir)
}

// resolvePath resolves a path relative to the config file directory.
func (c *Config) resolvePath(p string) string {
	if filepath.IsAbs(p) || c.configDir == "" {
		return p
	}
	return filepath.Join(c.configDir, p)
}
