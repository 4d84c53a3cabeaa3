package content

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	lferrors "github.com/matzehuels/localfile/pkg/errors"
)

// Extensions are tried in this order when resolving a reference path.
var Extensions = []string{".md", ".json", ".txt", ""}

// ErrNotFound is returned by a Source that has no file for a path.
var ErrNotFound = errors.New("content not found")

// Source reads content files for one scope. name is the reference path
// with one of [Extensions] appended.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads content from a directory on disk.
type DirSource string

// Read returns the file at name below the directory. Directories and
// missing files report ErrNotFound.
func (d DirSource) Read(_ context.Context, name string) ([]byte, error) {
	path := filepath.Join(string(d), filepath.FromSlash(name))
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotFound
	}
	return os.ReadFile(path)
}

// Chain reads from each source in turn and returns the first hit. A
// source error other than ErrNotFound stops the lookup.
func Chain(srcs ...Source) Source { return chain(srcs) }

type chain []Source

func (c chain) Read(ctx context.Context, name string) ([]byte, error) {
	for _, src := range c {
		data, err := src.Read(ctx, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

// Dirs are the content directories of the four layers. Group and Entity
// are optional; references into an unset layer resolve to the sentinel.
type Dirs struct {
	Universal string
	Firm      string
	Group     string
	Entity    string
}

// Resolver turns section values into text.
type Resolver struct {
	sources map[Scope]Source
	logger  *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSource replaces the source used for a scope. The content gateway
// uses this to serve universal content from its cache and API.
func WithSource(scope Scope, src Source) Option {
	return func(r *Resolver) {
		if src != nil {
			r.sources[scope] = src
		}
	}
}

// WithLogger sets the logger used for unresolved-reference warnings.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a resolver reading from dirs.
func NewResolver(dirs Dirs, opts ...Option) *Resolver {
	r := &Resolver{
		sources: make(map[Scope]Source),
		logger:  log.Default(),
	}
	for scope, dir := range map[Scope]string{
		ScopeUniversal: dirs.Universal,
		ScopeFirm:      dirs.Firm,
		ScopeGroup:     dirs.Group,
		ScopeEntity:    dirs.Entity,
	} {
		if dir != "" {
			r.sources[scope] = DirSource(dir)
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the text for a raw section value. Literal text is
// returned unchanged. A reference that cannot be read is logged and
// replaced by [Unresolved].
func (r *Resolver) Resolve(ctx context.Context, raw string) string {
	doc, ok := r.resolve(ctx, raw)
	if !ok {
		return Unresolved(raw)
	}
	return doc.Body
}

// ResolveDocument is Resolve with the file's front matter exposed. ok is
// false when the reference could not be resolved; literal text is always ok.
func (r *Resolver) ResolveDocument(ctx context.Context, raw string) (Document, bool) {
	return r.resolve(ctx, raw)
}

func (r *Resolver) resolve(ctx context.Context, raw string) (Document, bool) {
	ref := ParseRef(raw)
	if !ref.IsReference() {
		return Document{Body: raw}, true
	}
	if err := lferrors.ValidateReferencePath(ref.Path); err != nil {
		r.logger.Warn("rejected content reference", "ref", raw, "err", lferrors.UserMessage(err))
		return Document{}, false
	}

	src, ok := r.sources[ref.Scope]
	if !ok {
		r.logger.Warn("no content directory configured for reference", "ref", raw, "scope", ref.Scope)
		return Document{}, false
	}

	for _, ext := range Extensions {
		data, err := src.Read(ctx, ref.Path+ext)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			r.logger.Warn("could not read content reference", "ref", raw, "err", err)
			return Document{}, false
		}
		return ParseDocument(string(data)), true
	}

	r.logger.Warn("could not resolve reference", "ref", raw, "scope", ref.Scope)
	return Document{}, false
}

// Document is a content file split into front matter and body.
type Document struct {
	Front FrontMatter
	Body  string
}

// FrontMatter is the optional YAML header of a content file.
type FrontMatter struct {
	Title   string   `yaml:"title"`
	Owner   string   `yaml:"owner"`
	Updated string   `yaml:"updated"`
	Tags    []string `yaml:"tags"`
}

// ParseDocument trims text and strips a leading "---" fenced header. The
// body is whatever follows the second fence, trimmed. A header that is not
// valid YAML is still stripped; only the metadata is lost.
func ParseDocument(text string) Document {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "---") {
		return Document{Body: text}
	}
	parts := strings.SplitN(text, "---", 3)
	if len(parts) < 3 {
		return Document{Body: text}
	}
	var fm FrontMatter
	_ = yaml.Unmarshal([]byte(parts[1]), &fm)
	return Document{Front: fm, Body: strings.TrimSpace(parts[2])}
}
