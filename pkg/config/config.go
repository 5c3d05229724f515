// Package config loads plmgraph settings from a TOML file.
//
// Lookup order for [Load] with an empty path:
//
//  1. ./plmgraph.toml
//  2. $XDG_CONFIG_HOME/plmgraph/config.toml (os.UserConfigDir)
//
// A missing file is not an error; defaults apply. Command-line flags override
// file values.
//
//	[render]
//	mode = "brief"
//	strict = true
//
//	[cache]
//	backend = "file"     # none, file, redis, mongo
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "info"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	charmlog "github.com/charmbracelet/log"

	"github.com/matzehuels/plmgraph/pkg/cache"
	"github.com/matzehuels/plmgraph/pkg/errors"
	"github.com/matzehuels/plmgraph/pkg/pipeline"
)

// FileName is the project-local config file name.
const FileName = "plmgraph.toml"

// Config represents the complete plmgraph configuration.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// RenderConfig configures the default view.
type RenderConfig struct {
	// Mode is the render mode batch uses when --mode is not given.
	Mode string `toml:"mode"`
	// Strict fails a document on a malformed Transform.
	Strict bool `toml:"strict"`
}

// CacheConfig selects the render cache backend.
type CacheConfig struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	URL      string        `toml:"url"`
	Database string        `toml:"database"`
	TTL      time.Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	MaxBody int    `toml:"max_body"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Mode:   pipeline.DefaultMode,
			Strict: true,
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     pipeline.DefaultCacheTTL,
		},
		Server: ServerConfig{
			Addr:    ":8080",
			MaxBody: errors.DefaultMaxDocumentSize,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var validBackends = map[string]bool{
	cache.BackendNone:  true,
	cache.BackendFile:  true,
	cache.BackendRedis: true,
	cache.BackendMongo: true,
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := pipeline.ValidateMode(c.Render.Mode); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.mode")
	}
	if !validBackends[c.Cache.Backend] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache.backend: %q (must be one of: none, file, redis, mongo)", c.Cache.Backend)
	}
	if (c.Cache.Backend == cache.BackendRedis || c.Cache.Backend == cache.BackendMongo) && c.Cache.URL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.url is required for the %s backend", c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendMongo && c.Cache.Database == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.database is required for the mongo backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	if c.Server.MaxBody <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body must be positive")
	}
	if _, err := charmlog.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// LogLevel returns the configured level. Validate guarantees it parses.
func (c *Config) LogLevel() charmlog.Level {
	level, err := charmlog.ParseLevel(c.Log.Level)
	if err != nil {
		return charmlog.InfoLevel
	}
	return level
}

// CacheOptions converts the cache section for [cache.Open].
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:  c.Cache.Backend,
		Dir:      c.Cache.Dir,
		URL:      c.Cache.URL,
		Database: c.Cache.Database,
	}
}

// LoadFromFile reads path over the defaults and validates the result.
// Unknown keys are rejected.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load reads path, or searches the default locations when path is empty.
// When nothing is found the defaults are returned.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromFile(path)
	}
	for _, candidate := range SearchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return LoadFromFile(candidate)
		}
	}
	return Default(), nil
}

// SearchPaths returns the files Load consults, in order.
func SearchPaths() []string {
	paths := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "plmgraph", "config.toml"))
	}
	return paths
}
