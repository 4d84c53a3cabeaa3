package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if entries, _ := c.Entries(ctx); len(entries) != 0 {
		t.Errorf("Entries() = %v", entries)
	}
	if n, _ := c.Clear(ctx); n != 0 {
		t.Errorf("Clear() = %d", n)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested"))
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "content:a.md"); hit || err != nil {
		t.Fatalf("empty cache Get = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "content:a.md", []byte("alpha"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "content:a.md")
	if err != nil || !hit || string(data) != "alpha" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "content:a.md"); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "content:a.md"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "content:a.md"); hit {
		t.Error("deleted key still hits")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed on read")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("ttl 0 should never expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("broken")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "broken"); hit || err != nil {
		t.Errorf("corrupt entry Get = %v, %v", hit, err)
	}
}

func TestFileCacheEntriesAndClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for key, value := range map[string]string{"content:b.md": "bb", "content:a.md": "a"} {
		if err := c.Set(ctx, key, []byte(value), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := c.Entries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	type summary struct {
		Key  string
		Size int
	}
	var got []summary
	for _, e := range entries {
		got = append(got, summary{e.Key, e.Size})
		if e.Expired(time.Now()) || e.Age(time.Now()) < 0 {
			t.Errorf("entry %s has bad timestamps", e.Key)
		}
	}
	want := []summary{{"content:a.md", 1}, {"content:b.md", 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	n, err := c.Clear(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Clear() = %d, %v", n, err)
	}
	if entries, _ := c.Entries(ctx); len(entries) != 0 {
		t.Errorf("entries left after Clear: %v", entries)
	}
}

func TestEntryExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		e    Entry
		want bool
	}{
		{"never", Entry{}, false},
		{"future", Entry{ExpiresAt: now.Add(time.Minute)}, false},
		{"past", Entry{ExpiresAt: now.Add(-time.Minute)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFileCachePathSharding(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a := c.path("content:methods/tnmm.md")
	if a != c.path("content:methods/tnmm.md") {
		t.Error("path should be stable for a key")
	}
	if a == c.path("content:methods/cup.md") {
		t.Error("distinct keys should map to distinct files")
	}
	rel, err := filepath.Rel(c.Dir(), a)
	if err != nil {
		t.Fatal(err)
	}
	if dir, file := filepath.Split(rel); len(dir) != 3 || len(file) != 62+len(".json") {
		t.Errorf("path = %q, want <2 hex>/<62 hex>.json", rel)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	key := k.ContentKey("methods/tnmm.md")
	if key != "content:methods/tnmm.md" {
		t.Errorf("ContentKey() = %q", key)
	}
	if path, ok := k.ContentPath(key); !ok || path != "methods/tnmm.md" {
		t.Errorf("ContentPath() = %q, %v", path, ok)
	}
	if _, ok := k.ContentPath("other:x"); ok {
		t.Error("foreign keys should not map back")
	}
}

func TestScopedKeyer(t *testing.T) {
	k := NewScopedKeyer(nil, "api.example.com/")
	key := k.ContentKey("a.md")
	if key != "api.example.com/content:a.md" {
		t.Errorf("ContentKey() = %q", key)
	}
	if path, ok := k.ContentPath(key); !ok || path != "a.md" {
		t.Errorf("ContentPath() = %q, %v", path, ok)
	}
	if _, ok := k.ContentPath("content:a.md"); ok {
		t.Error("unscoped key should not map back")
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("LOCALFILE_CACHE_DIR", "")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	if got := DefaultDir(); got != filepath.Join("/tmp/xdg", "localfile") {
		t.Errorf("DefaultDir() = %q", got)
	}
	t.Setenv("LOCALFILE_CACHE_DIR", "/srv/cache")
	if got := DefaultDir(); got != "/srv/cache" {
		t.Errorf("DefaultDir() = %q", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url", ""); err == nil {
		t.Error("expected an error for a malformed url")
	}
}
