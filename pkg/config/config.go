// Package config loads localfile settings.
//
// Settings are layered: built-in defaults, then an optional TOML project
// file, then the API key file in .localfile/, then environment variables.
// Command-line flags are applied last by the caller.
//
// A project file looks like:
//
//	[api]
//	url = "https://content.example.com"
//
//	[content]
//	universal = "content/references"
//	firm = "content/library"
//
//	[cache]
//	ttl = "30m"
package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/localfile/pkg/cache"
	lferrors "github.com/matzehuels/localfile/pkg/errors"
	"github.com/matzehuels/localfile/pkg/gateway"
)

const (
	// FileName is the project file looked up in the working directory.
	FileName = "localfile.toml"

	// KeyDir holds config.json with the API key, below the working directory.
	KeyDir = ".localfile"

	// DefaultAddr is the preview server listen address.
	DefaultAddr = "127.0.0.1:8420"
)

// Environment variables read by Load.
const (
	EnvAPIKey   = "LOCALFILE_API_KEY"
	EnvAPIURL   = "LOCALFILE_API_URL"
	EnvCacheDir = "LOCALFILE_CACHE_DIR"
	EnvRedisURL = "LOCALFILE_REDIS_URL"
)

// Config is the merged configuration.
type Config struct {
	API     API     `toml:"api"`
	Content Content `toml:"content"`
	Cache   Cache   `toml:"cache"`
	Server  Server  `toml:"server"`

	// Path is the project file that was read, if any.
	Path string `toml:"-"`
}

// API configures the content gateway and session sync.
type API struct {
	URL string `toml:"url"`
	Key string `toml:"-"`
}

// Content names the content directories. Relative paths in the project
// file are relative to that file.
type Content struct {
	Universal  string `toml:"universal"`
	Firm       string `toml:"firm"`
	Blueprints string `toml:"blueprints"`
	PluginRoot string `toml:"plugin_root"`
}

// Cache configures the gateway cache. RedisURL, when set, takes
// precedence over Dir.
type Cache struct {
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
	Disabled bool          `toml:"disabled"`
}

// Server configures the preview server.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API:    API{URL: gateway.DefaultBaseURL},
		Cache:  Cache{Dir: cache.DefaultDir(), TTL: cache.TTLContent},
		Server: Server{Addr: DefaultAddr},
	}
}

// Load builds the configuration for workingDir. path names an explicit
// project file; when empty, workingDir/localfile.toml is used if present.
// An explicit path that does not exist is an error.
func Load(workingDir, path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(workingDir, FileName)
	}
	if err := cfg.readFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	key, err := ReadKeyFile(workingDir)
	if err != nil {
		return cfg, err
	}
	if key != "" {
		cfg.API.Key = key
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return lferrors.Wrap(lferrors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return lferrors.Wrap(lferrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return lferrors.Wrap(lferrors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	c.Path = path
	base := filepath.Dir(path)
	for _, p := range []*string{&c.Content.Universal, &c.Content.Firm, &c.Content.Blueprints, &c.Content.PluginRoot, &c.Cache.Dir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.API.Key = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.URL = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
}

// ReadKeyFile returns the api_key from workingDir/.localfile/config.json.
// A missing file yields "".
func ReadKeyFile(workingDir string) (string, error) {
	if workingDir == "" {
		return "", nil
	}
	path := filepath.Join(workingDir, KeyDir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", lferrors.Wrap(lferrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	var f struct {
		APIKey string `json:"api_key"`
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return "", lferrors.Wrap(lferrors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	return f.APIKey, nil
}

// Validate checks URLs and durations.
func (c Config) Validate() error {
	if err := lferrors.ValidateURL(c.API.URL); err != nil {
		return lferrors.Wrap(lferrors.ErrCodeInvalidInput, err, "api.url")
	}
	if c.Cache.TTL < 0 {
		return lferrors.New(lferrors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if c.Cache.RedisURL != "" {
		if !strings.HasPrefix(c.Cache.RedisURL, "redis://") && !strings.HasPrefix(c.Cache.RedisURL, "rediss://") {
			return lferrors.New(lferrors.ErrCodeInvalidInput, "cache.redis_url must use redis:// or rediss://")
		}
	}
	if c.Server.Addr == "" {
		return lferrors.New(lferrors.ErrCodeInvalidInput, "server.addr cannot be empty")
	}
	return nil
}
