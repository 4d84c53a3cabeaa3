// Package cache stores fetched content with an expiry.
//
// The content gateway keeps API responses here so repeated assemblies do
// not hit the network. [FileCache] is the default for the CLI, [RedisCache]
// lets several machines share one cache, and [NullCache] disables caching.
//
// Keys come from a [Keyer] so that the original content path can be read
// back when listing entries:
//
//	c, _ := cache.NewFileCache(cache.DefaultDir())
//	k := cache.NewDefaultKeyer()
//	_ = c.Set(ctx, k.ContentKey("methods/tnmm.md"), data, cache.TTLContent)
package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TTLContent is how long fetched content stays fresh.
const TTLContent = time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. hit is false for missing or expired
	// entries; err is reserved for storage failures.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Entries lists the stored entries, expired ones included.
	Entries(ctx context.Context) ([]Entry, error)
	// Clear removes every entry and reports how many were removed.
	Clear(ctx context.Context) (int, error)
	// Close releases the underlying storage.
	Close() error
}

// Entry describes one stored value.
type Entry struct {
	Key       string
	Size      int
	StoredAt  time.Time
	ExpiresAt time.Time // zero when the entry never expires
}

// Age returns how long ago the entry was stored.
func (e Entry) Age(now time.Time) time.Duration { return now.Sub(e.StoredAt) }

// Expired reports whether the entry is past its expiry at now.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// record is the stored form of an entry in the file and Redis caches.
type record struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func newRecord(key string, data []byte, ttl time.Duration) record {
	now := time.Now()
	r := record{Key: key, Data: data, StoredAt: now}
	if ttl > 0 {
		r.ExpiresAt = now.Add(ttl)
	}
	return r
}

func (r record) entry() Entry {
	return Entry{Key: r.Key, Size: len(r.Data), StoredAt: r.StoredAt, ExpiresAt: r.ExpiresAt}
}

// Keyer builds cache keys for content paths and maps them back.
type Keyer interface {
	ContentKey(path string) string
	ContentPath(key string) (path string, ok bool)
}

const contentPrefix = "content:"

// DefaultKeyer prefixes content paths with "content:".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ContentKey returns the key for a content path.
func (DefaultKeyer) ContentKey(path string) string { return contentPrefix + path }

// ContentPath returns the content path of a key made by ContentKey.
func (DefaultKeyer) ContentPath(key string) (string, bool) {
	return strings.CutPrefix(key, contentPrefix)
}

// DefaultDir returns the cache directory: $LOCALFILE_CACHE_DIR, else
// $XDG_CACHE_HOME/localfile, else ~/.cache/localfile.
func DefaultDir() string {
	if dir := os.Getenv("LOCALFILE_CACHE_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "localfile")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "localfile-cache")
	}
	return filepath.Join(home, ".cache", "localfile")
}
