package cache

import "strings"

// ScopedKeyer wraps a Keyer with a prefix. The gateway scopes keys by API
// host so that content from different endpoints never mixes in one cache
// directory.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "content.example.com/")
//	k.ContentKey("methods/tnmm.md") // "content.example.com/content:methods/tnmm.md"
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ContentKey generates a prefixed content key.
func (k *ScopedKeyer) ContentKey(path string) string {
	return k.prefix + k.inner.ContentKey(path)
}

// ContentPath reverses ContentKey. Keys from another scope report false.
func (k *ScopedKeyer) ContentPath(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, k.prefix)
	if !ok {
		return "", false
	}
	return k.inner.ContentPath(rest)
}
