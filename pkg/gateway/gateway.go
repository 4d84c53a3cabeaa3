// Package gateway fetches shared content files for the resolver.
//
// Content is looked up in three places, in order: the local cache, the
// content API, and a read-only plugin directory shipped with the tool.
// API responses are cached for [cache.TTLContent]. There is a single
// request per lookup; failed requests fall through to the plugin copy.
//
//	gw, _ := gateway.New(gateway.Options{
//	    BaseURL:    "https://content.example.com",
//	    APIKey:     key,
//	    Cache:      fileCache,
//	    PluginRoot: "/opt/localfile/content",
//	})
//	res, err := gw.Fetch(ctx, "methods/tnmm.md")
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/localfile/pkg/cache"
	lferrors "github.com/matzehuels/localfile/pkg/errors"
	"github.com/matzehuels/localfile/pkg/observability"
)

const (
	// DefaultBaseURL is the content API used when none is configured.
	DefaultBaseURL = "https://content.localfile.dev"

	httpTimeout  = 10 * time.Second
	cacheKeyType = "content"
)

// Origin reports where fetched content came from.
type Origin string

const (
	OriginCache  Origin = "cache"
	OriginAPI    Origin = "api"
	OriginPlugin Origin = "plugin"
)

// Result is the outcome of a successful Fetch.
type Result struct {
	Path    string
	Content []byte
	Origin  Origin
}

// Options configure a Client. Only BaseURL is required; without an API
// key the API step is skipped.
type Options struct {
	BaseURL    string
	APIKey     string
	PluginRoot string
	Cache      cache.Cache   // nil disables caching
	TTL        time.Duration // defaults to cache.TTLContent
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client is a content gateway client.
type Client struct {
	http       *http.Client
	base       *url.URL
	apiKey     string
	pluginRoot string
	cache      cache.Cache
	keys       cache.Keyer
	ttl        time.Duration
	logger     *log.Logger
}

// New creates a Client. Cache keys are scoped by the API host.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if err := lferrors.ValidateURL(opts.BaseURL); err != nil {
		return nil, err
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, lferrors.Wrap(lferrors.ErrCodeInvalidInput, err, "parse api url")
	}

	c := &Client{
		http:       opts.HTTPClient,
		base:       base,
		apiKey:     opts.APIKey,
		pluginRoot: opts.PluginRoot,
		cache:      opts.Cache,
		keys:       cache.NewScopedKeyer(nil, base.Host+"/"),
		ttl:        opts.TTL,
		logger:     opts.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: httpTimeout}
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.ttl <= 0 {
		c.ttl = cache.TTLContent
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c, nil
}

// HasAPIKey reports whether API requests will be attempted.
func (c *Client) HasAPIKey() bool { return c.apiKey != "" }

// Fetch returns the content at path. It fails with NOT_FOUND when no
// layer has the file.
func (c *Client) Fetch(ctx context.Context, path string) (Result, error) {
	path = strings.TrimPrefix(path, "/")
	if err := lferrors.ValidateReferencePath(path); err != nil {
		return Result{}, err
	}

	key := c.keys.ContentKey(path)
	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Debug("cache read failed", "path", path, "error", err)
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, cacheKeyType)
		return Result{Path: path, Content: data, Origin: OriginCache}, nil
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	if c.apiKey != "" {
		data, err := c.fetchAPI(ctx, path)
		switch {
		case err == nil:
			if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
				c.logger.Debug("cache write failed", "path", path, "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
			}
			return Result{Path: path, Content: data, Origin: OriginAPI}, nil
		case errors.Is(err, cache.ErrNotFound):
			c.logger.Debug("not on content api", "path", path)
		default:
			c.logger.Warn("content api request failed", "path", path, "error", err)
		}
	}

	if data, ok := c.readPlugin(path); ok {
		return Result{Path: path, Content: data, Origin: OriginPlugin}, nil
	}
	return Result{}, lferrors.New(lferrors.ErrCodeNotFound, "not found: %s", path)
}

func (c *Client) fetchAPI(ctx context.Context, path string) ([]byte, error) {
	body, err := c.get(ctx, c.endpoint("api", "content", path))
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (c *Client) readPlugin(path string) ([]byte, bool) {
	if c.pluginRoot == "" {
		return nil, false
	}
	full := filepath.Join(c.pluginRoot, filepath.FromSlash(path))
	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	data, err := os.ReadFile(full)
	if err != nil {
		c.logger.Debug("plugin read failed", "path", full, "error", err)
		return nil, false
	}
	return data, true
}

// Validate checks the API key against the API. A rejected key returns
// an UNAUTHORIZED error; transport failures return NETWORK_ERROR.
func (c *Client) Validate(ctx context.Context) error {
	if c.apiKey == "" {
		return lferrors.New(lferrors.ErrCodeUnauthorized,
			"no API key found: set LOCALFILE_API_KEY or add {\"api_key\": \"...\"} to .localfile/config.json")
	}
	body, err := c.get(ctx, c.endpoint("api", "validate"))
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusUnauthorized {
			return lferrors.New(lferrors.ErrCodeUnauthorized, "API key is invalid or the subscription is inactive")
		}
		return lferrors.Wrap(lferrors.ErrCodeNetwork, err, "could not reach %s", c.base.Host)
	}
	body.Close()
	return nil
}

func (c *Client) endpoint(parts ...string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(parts, "/")
	return u.String()
}

func (c *Client) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("x-request-id", uuid.NewString())

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, cache.Retryable(errors.Join(cache.ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("status %d", e.code) }

func (e *statusError) Unwrap() error {
	if e.code == http.StatusNotFound {
		return cache.ErrNotFound
	}
	return cache.ErrNetwork
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code >= 500:
		return cache.Retryable(&statusError{code: code})
	default:
		return &statusError{code: code}
	}
}
