// Package config holds the settings shared by every request the server handles.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/f4ah6o/servedir/internal/probe"
)

// DefaultExpiresMs is how far in the future the Expires header points when
// nothing else is configured.
const DefaultExpiresMs = 5000

// DefaultAddr is the listen address used by the site binary.
const DefaultAddr = ":8080"

// ErrNotDirectory is returned by Validate when RootDir names something that
// is not a directory.
var ErrNotDirectory = errors.New("root is not a directory")

// Config is the server configuration. It is built once at startup and only
// read afterwards, so it is safe to share between request goroutines.
type Config struct {
	// RootDir is the directory tree exposed to clients. After Validate it is
	// absolute and free of symlinks.
	RootDir string `toml:"root" yaml:"root"`
	// ETag enables content hashing and If-None-Match handling.
	ETag bool `toml:"etag" yaml:"etag"`
	// Expires is added to the current time to build the Expires header.
	// Zero disables the header.
	Expires Millis `toml:"expires" yaml:"expires"`
	// Addr is the TCP address the site binary listens on.
	Addr string `toml:"addr" yaml:"addr"`
	// ShowReasons appends the internal reason code to 404 bodies.
	ShowReasons bool `toml:"show_reasons" yaml:"show_reasons"`
}

// Default returns the configuration used when no file or flag overrides it.
// RootDir is the process working directory, or "." if that cannot be read.
func Default() Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return Config{
		RootDir: wd,
		ETag:    true,
		Expires: DefaultExpiresMs,
		Addr:    DefaultAddr,
	}
}

// Load reads a configuration file on top of Default. The format is picked
// from the extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q", ext)
	}

	// Relative roots in a file are relative to the file, not to the cwd.
	if cfg.RootDir != "" && !filepath.IsAbs(cfg.RootDir) {
		cfg.RootDir = filepath.Join(filepath.Dir(path), cfg.RootDir)
	}
	return cfg, nil
}

// Validate checks the configuration and canonicalizes RootDir in place.
// The root must exist and be a directory.
func (c *Config) Validate() error {
	if c.RootDir == "" {
		return errors.New("root directory is empty")
	}
	if c.Expires < 0 {
		return fmt.Errorf("expires must be >= 0, got %d", c.Expires)
	}

	if !probe.Exists(c.RootDir) {
		return fmt.Errorf("root %q: %w", c.RootDir, os.ErrNotExist)
	}

	abs, err := filepath.Abs(c.RootDir)
	if err != nil {
		return fmt.Errorf("resolve root %q: %w", c.RootDir, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fmt.Errorf("resolve root %q: %w", c.RootDir, err)
	}
	fi, err := os.Stat(resolved)
	if err != nil {
		return fmt.Errorf("stat root %q: %w", resolved, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s: %w", resolved, ErrNotDirectory)
	}

	c.RootDir = resolved
	return nil
}
