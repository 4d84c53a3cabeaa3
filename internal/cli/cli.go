// Package cli implements the localfile command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/localfile/pkg/cache"
	"github.com/matzehuels/localfile/pkg/config"
	"github.com/matzehuels/localfile/pkg/content"
	"github.com/matzehuels/localfile/pkg/gateway"
	"github.com/matzehuels/localfile/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "localfile"

	// gatewayPrefix is where universal references live on the content gateway.
	gatewayPrefix = "references/"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	workDir    string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// workingDir returns --working-dir, or the process working directory.
func (c *CLI) workingDir() string {
	if c.workDir != "" {
		return c.workDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// loadConfig reads and validates the layered configuration.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.workingDir(), c.configPath)
	if err != nil {
		return cfg, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return cfg, cfg.Validate()
}

// =============================================================================
// Factories
// =============================================================================

// newCache opens the gateway cache: Redis when configured, else the file
// cache. Disabled caching yields a NullCache.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.RedisURL != "" {
		c.Logger.Debug("using redis cache")
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, cache.DefaultRedisPrefix)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// newGateway creates a gateway client over a fresh cache. The caller
// closes the returned cache.
func (c *CLI) newGateway(ctx context.Context, cfg config.Config, noCache bool) (*gateway.Client, cache.Cache, error) {
	cc, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}
	gw, err := gateway.New(gateway.Options{
		BaseURL:    cfg.API.URL,
		APIKey:     cfg.API.Key,
		PluginRoot: cfg.Content.PluginRoot,
		Cache:      cc,
		TTL:        cfg.Cache.TTL,
		Logger:     c.Logger,
	})
	if err != nil {
		cc.Close()
		return nil, nil, err
	}
	return gw, cc, nil
}

// newRunner creates a pipeline runner. When the gateway can serve content
// (an API key or a plugin root is configured), universal references
// missing from universalDir are fetched through it.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, universalDir string, noCache bool) (*pipeline.Runner, func(), error) {
	runner := pipeline.NewRunner(nil, c.Logger)
	if cfg.API.Key == "" && cfg.Content.PluginRoot == "" {
		return runner, func() {}, nil
	}
	gw, cc, err := c.newGateway(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("universal content falls back to gateway", "url", cfg.API.URL)
	runner.Sources[content.ScopeUniversal] = content.Chain(content.DirSource(universalDir), gw.Source(gatewayPrefix))
	return runner, func() { cc.Close() }, nil
}

// =============================================================================
// Errors
// =============================================================================

// silentError is returned by commands that already reported the failure
// or were asked to stay quiet.
type silentError struct{ error }

func (e silentError) Unwrap() error { return e.error }

// IsSilent reports whether err should not be printed.
func IsSilent(err error) bool {
	var s silentError
	return stderrors.As(err, &s)
}
