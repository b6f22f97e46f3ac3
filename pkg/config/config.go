// Package config loads the clrfp configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/clrfp/config.toml, falling
// back to ~/.config/clrfp/config.toml. Every key is optional; a missing file
// yields [Default]. Command-line flags take precedence over file values.
//
//	color  = "foreground"
//	digest = "md5"
//	input  = "key"
//	format = "png"
//	tile   = 30
//
//	[server]
//	addr      = ":8080"
//	redis_url = "redis://localhost:6379/0"
//	cache_ttl = "24h"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/clrfp/pkg/cache"
	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/pipeline"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Config holds file-level defaults.
type Config struct {
	Color  string `toml:"color"`
	Digest string `toml:"digest"`
	Input  string `toml:"input"`
	Format string `toml:"format"`
	Tile   int    `toml:"tile"`

	Server Server `toml:"server"`
}

// Server configures `clrfp serve`.
type Server struct {
	Addr     string `toml:"addr"`
	RedisURL string `toml:"redis_url"`
	CacheTTL string `toml:"cache_ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Color:  pipeline.DefaultColor,
		Digest: pipeline.DefaultDigest,
		Input:  pipeline.DefaultInput,
		Format: pipeline.DefaultFormat,
		Tile:   pipeline.DefaultTile,
		Server: Server{
			Addr:     ":8080",
			CacheTTL: cache.DefaultTTL.String(),
		},
	}
}

// DefaultPath returns the config file location for app.
func DefaultPath(app string) (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, app, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", app, FileName), nil
}

// Load reads path on top of [Default]. A missing file is not an error.
// Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidOption, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		names := make([]string, len(undecoded))
		for i, k := range undecoded {
			names[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidOption, "%s: unknown keys: %s", path, strings.Join(names, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks every value the file may set.
func (c Config) Validate() error {
	opts := c.Options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if c.Server.RedisURL != "" {
		if err := errors.ValidateRedisURL(c.Server.RedisURL); err != nil {
			return err
		}
	}
	if _, err := c.Server.TTL(); err != nil {
		return err
	}
	return nil
}

// Options converts the file values into pipeline options.
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		Input:  c.Input,
		Digest: c.Digest,
		Format: c.Format,
		Color:  c.Color,
		Tile:   c.Tile,
	}
}

// TTL parses CacheTTL, returning cache.DefaultTTL when it is empty.
func (s Server) TTL() (time.Duration, error) {
	if s.CacheTTL == "" {
		return cache.DefaultTTL, nil
	}
	d, err := time.ParseDuration(s.CacheTTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidOption, "invalid cache_ttl %q", s.CacheTTL)
	}
	return d, nil
}
