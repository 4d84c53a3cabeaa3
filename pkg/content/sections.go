package content

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/matzehuels/localfile/pkg/ordered"
	"github.com/matzehuels/localfile/pkg/textfmt"
)

// partSeparator joins the resolved parts of a composite section.
const partSeparator = "\n\n"

// Sections holds resolved section text and provenance under one shared,
// ordered key list.
type Sections struct {
	keys []string
	text map[string]string
	meta map[string]Meta
}

// NewSections returns an empty set.
func NewSections() *Sections {
	return &Sections{
		text: make(map[string]string),
		meta: make(map[string]Meta),
	}
}

// Put stores a section. Re-putting a key keeps its position.
func (s *Sections) Put(key, text string, meta Meta) {
	if _, ok := s.text[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.text[key] = text
	s.meta[key] = meta
}

// Keys returns section keys in blueprint order.
func (s *Sections) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of sections.
func (s *Sections) Len() int { return len(s.keys) }

// Has reports whether key was resolved.
func (s *Sections) Has(key string) bool {
	_, ok := s.text[key]
	return ok
}

// Text returns the resolved text of key, or "".
func (s *Sections) Text(key string) string { return s.text[key] }

// Meta returns the provenance of key. Unknown keys report literal
// entity-level provenance.
func (s *Sections) Meta(key string) Meta {
	if m, ok := s.meta[key]; ok {
		return m
	}
	return Meta{Provenance: Classify("")}
}

// CompleteCount returns how many sections hold written content.
func (s *Sections) CompleteCount() int {
	n := 0
	for _, k := range s.keys {
		if IsComplete(s.text[k]) {
			n++
		}
	}
	return n
}

// AllComplete reports whether every section holds written content.
func (s *Sections) AllComplete() bool {
	return s.CompleteCount() == len(s.keys)
}

// UnresolvedKeys lists sections containing an unresolved reference,
// including composites with a single failed part.
func (s *Sections) UnresolvedKeys() []string {
	var out []string
	for _, k := range s.keys {
		if strings.Contains(s.text[k], "[UNRESOLVED") {
			out = append(out, k)
		}
	}
	return out
}

type sectionJSON struct {
	Key  string `json:"key"`
	Text string `json:"text"`
	Meta Meta   `json:"meta"`
}

// MarshalJSON encodes the sections as an ordered array.
func (s *Sections) MarshalJSON() ([]byte, error) {
	out := make([]sectionJSON, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, sectionJSON{Key: k, Text: s.text[k], Meta: s.meta[k]})
	}
	return json.Marshal(out)
}

// ResolveSections resolves every blueprint section in order.
//
// A string value is resolved and classified on its own. A list value is
// a composite: each element is resolved and classified, the texts are
// joined with a blank line, and the meta takes the first part as primary
// while recording every part and the distinct layer labels. Any other
// value is stringified and treated as literal entity text.
func (r *Resolver) ResolveSections(ctx context.Context, sections *ordered.Map) *Sections {
	out := NewSections()
	sections.Range(func(key string, value any) bool {
		switch v := value.(type) {
		case string:
			out.Put(key, r.Resolve(ctx, v), Meta{Provenance: Classify(v)})
		case []any:
			text, meta := r.resolveComposite(ctx, v)
			out.Put(key, text, meta)
		default:
			out.Put(key, textfmt.Scalar(v), Meta{Provenance: Classify("")})
		}
		return true
	})
	return out
}

func (r *Resolver) resolveComposite(ctx context.Context, elems []any) (string, Meta) {
	texts := make([]string, 0, len(elems))
	parts := make([]Provenance, 0, len(elems))
	for _, e := range elems {
		if s, ok := e.(string); ok {
			texts = append(texts, r.Resolve(ctx, s))
			parts = append(parts, Classify(s))
			continue
		}
		texts = append(texts, textfmt.Scalar(e))
		parts = append(parts, Classify(""))
	}

	primary := Classify("")
	if len(parts) > 0 {
		primary = parts[0]
	}
	var labels []string
	seen := make(map[string]bool)
	for _, p := range parts {
		if !seen[p.Label] {
			seen[p.Label] = true
			labels = append(labels, p.Label)
		}
	}
	return strings.Join(texts, partSeparator), Meta{
		Provenance:      primary,
		Composite:       true,
		CompositeLabels: labels,
		Parts:           parts,
	}
}
