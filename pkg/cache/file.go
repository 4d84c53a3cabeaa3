package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileCache implements a file-based cache for CLI usage.
// Each entry is a JSON file holding the original key, the data and its
// timestamps.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in the given directory.
// The directory will be created if it doesn't exist.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Get retrieves a value from the cache. Expired and corrupt entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	rec, ok, err := readRecord(path)
	if err != nil || !ok {
		return nil, false, err
	}
	if rec.entry().Expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return rec.Data, true, nil
}

// Set stores a value in the cache.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	raw, err := json.Marshal(newRecord(key, data, ttl))
	if err != nil {
		return err
	}
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Entries lists every readable entry, sorted by key.
func (c *FileCache) Entries(ctx context.Context) ([]Entry, error) {
	var out []Entry
	err := c.walk(func(path string) error {
		if rec, ok, _ := readRecord(path); ok {
			out = append(out, rec.entry())
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, err
}

// Clear removes every entry file.
func (c *FileCache) Clear(ctx context.Context) (int, error) {
	n := 0
	err := c.walk(func(path string) error {
		if err := os.Remove(path); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// walk calls fn for each entry file. A missing directory has no entries.
func (c *FileCache) walk(fn func(path string) error) error {
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		return fn(path)
	})
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// path shards entries by the first byte of the key digest.
func (c *FileCache) path(key string) string {
	name := keyDigest(key)
	return filepath.Join(c.dir, name[:2], name[2:]+".json")
}

// keyDigest is the hex SHA-256 of key. Content paths may hold characters
// that are unsafe in file names, so entries are named by digest and the
// key is kept inside the record.
func keyDigest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// readRecord decodes an entry file. Corrupt files are removed and
// reported as absent.
func readRecord(path string) (record, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return record{}, false, nil
	}
	if err != nil {
		return record{}, false, err
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		_ = os.Remove(path)
		return record{}, false, nil
	}
	return rec, true, nil
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
