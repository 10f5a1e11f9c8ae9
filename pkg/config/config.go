// Package config loads familytree settings from a TOML file.
//
// The file is named familytree.toml and is looked up in the working
// directory first, then in the user config directory
// ($XDG_CONFIG_HOME/familytree on Linux). Every setting has a default, so
// a missing file is not an error. Command-line flags override file values.
//
//	[render]
//	appearance = "record"
//	formats = ["svg"]
//	output_dir = "~"
//	name = "family_tree"
//
//	[cache]
//	backend = "file"
//	ttl = "24h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//	prefix = "familytree:"
//
//	[sqlite]
//	table = "persons"
//	order_by = "id"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/familytree/pkg/diagram"
	ferrors "github.com/matzehuels/familytree/pkg/errors"
)

// FileName is the config file looked up by [Find].
const FileName = "familytree.toml"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the full settings tree.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Mongo  MongoConfig  `toml:"mongo"`
	SQLite SQLiteConfig `toml:"sqlite"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig controls diagram output.
type RenderConfig struct {
	Appearance string   `toml:"appearance"`
	Formats    []string `toml:"formats"`
	OutputDir  string   `toml:"output_dir"`
	Name       string   `toml:"name"`
	RankDir    string   `toml:"rankdir"`
}

// CacheConfig selects and tunes the artifact cache.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	TTL     string      `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig locates a person collection.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	SortBy     string `toml:"sort_by"`
}

// SQLiteConfig names the person table read with --sqlite.
type SQLiteConfig struct {
	Table   string `toml:"table"`
	OrderBy string `toml:"order_by"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Appearance: "record",
			Formats:    []string{"svg"},
			OutputDir:  "~",
			Name:       "family_tree",
			RankDir:    "TB",
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     "24h",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "familytree:",
			},
		},
		Mongo: MongoConfig{
			Collection: "persons",
		},
		SQLite: SQLiteConfig{
			Table: "persons",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 1 << 20,
		},
	}
}

// Load reads path over the defaults. Unknown keys are an error so typos do
// not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "config file %s not found", path)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find returns the first config file that exists, or "" if there is none.
func Find() string {
	candidates := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "familytree", FileName))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// LoadDefault loads the file found by [Find], or the defaults if none
// exists. It also returns the path that was loaded.
func LoadDefault() (Config, string, error) {
	path := Find()
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Validate checks values that the loaders cannot type-check.
func (c Config) Validate() error {
	if _, err := diagram.AppearanceByName(c.Render.Appearance); err != nil {
		return err
	}
	switch strings.ToUpper(c.Render.RankDir) {
	case "TB", "BT", "LR", "RL":
	default:
		return ferrors.New(ferrors.ErrCodeInvalidInput, "invalid rankdir %q", c.Render.RankDir)
	}
	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendRedis:
	default:
		return ferrors.New(ferrors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return err
	}
	if c.Server.MaxBodyBytes <= 0 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "server.max_body_bytes must be positive")
	}
	return nil
}

// TTLDuration parses TTL. An empty TTL means no expiry.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d < 0 {
		return 0, ferrors.New(ferrors.ErrCodeInvalidInput, "invalid cache ttl %q", c.TTL)
	}
	return d, nil
}

// CacheDir returns the file cache directory, defaulting to a familytree
// directory under the user cache dir.
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return ExpandHome(c.Dir)
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	return filepath.Join(base, "familytree"), nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
