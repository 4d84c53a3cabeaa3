package gateway

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/matzehuels/localfile/pkg/content"
	lferrors "github.com/matzehuels/localfile/pkg/errors"
)

// CachedFile is one cached content file.
type CachedFile struct {
	Path    string
	Age     time.Duration
	Size    int
	Expired bool
}

// Status lists the cached content files of this gateway's API host,
// sorted by path.
func (c *Client) Status(ctx context.Context) ([]CachedFile, error) {
	entries, err := c.cache.Entries(ctx)
	if err != nil {
		return nil, lferrors.Wrap(lferrors.ErrCodeInternal, err, "list cache")
	}
	now := time.Now()
	var files []CachedFile
	for _, e := range entries {
		path, ok := c.keys.ContentPath(e.Key)
		if !ok {
			continue
		}
		files = append(files, CachedFile{
			Path:    path,
			Age:     e.Age(now),
			Size:    e.Size,
			Expired: e.Expired(now),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ClearCache removes every cached entry and reports how many there were.
func (c *Client) ClearCache(ctx context.Context) (int, error) {
	n, err := c.cache.Clear(ctx)
	if err != nil {
		return n, lferrors.Wrap(lferrors.ErrCodeInternal, err, "clear cache")
	}
	return n, nil
}

// FormatAge renders a cache age the short way: seconds under a minute,
// whole minutes under an hour, otherwise hours with one decimal.
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}

// Source adapts the gateway to a resolver layer. Reference paths are
// looked up below prefix, so "@references/methods/tnmm" with prefix
// "references/" fetches "references/methods/tnmm.md".
func (c *Client) Source(prefix string) content.Source {
	return gatewaySource{client: c, prefix: prefix}
}

type gatewaySource struct {
	client *Client
	prefix string
}

func (s gatewaySource) Read(ctx context.Context, name string) ([]byte, error) {
	res, err := s.client.Fetch(ctx, s.prefix+name)
	if err != nil {
		if lferrors.Is(err, lferrors.ErrCodeNotFound) {
			return nil, content.ErrNotFound
		}
		return nil, err
	}
	return res.Content, nil
}
