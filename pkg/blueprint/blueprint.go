// Package blueprint models the per-entity document blueprint and turns
// inherited template blueprints into the canonical chapter tree.
//
// A blueprint names the entity and fiscal year, lists the report sections
// in order (key → content value) and optionally arranges them into a
// chapter tree of exactly three levels: [Chapter], [Section], [Subsection].
//
// Blueprints that set based_on instead carry path-keyed content
// ("executive-summary/objective") plus covered profiles and transactions.
// [Inherit] loads the named template, expands its dynamic nodes,
// applies title overrides and bridges the result back into flat sections
// and chapters so that every renderer sees one shape.
package blueprint

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/matzehuels/localfile/pkg/category"
	"github.com/matzehuels/localfile/pkg/errors"
	"github.com/matzehuels/localfile/pkg/ordered"
	"github.com/matzehuels/localfile/pkg/textfmt"
)

// =============================================================================
// Blueprint
// =============================================================================

// Blueprint is a decoded blueprint file.
type Blueprint struct {
	Entity        string `json:"entity"`
	FiscalYear    any    `json:"fiscal_year,omitempty"`
	Name          string `json:"name,omitempty"`
	Type          string `json:"type,omitempty"`           // e.g. "local-file"
	BlueprintType string `json:"blueprint_type,omitempty"` // "builtin" or custom

	Sections     *ordered.Map        `json:"sections,omitempty"`      // key → content value
	SectionNotes *ordered.Map        `json:"section_notes,omitempty"` // key → string or []string
	Footnotes    map[string][]string `json:"footnotes,omitempty"`
	Chapters     []Chapter           `json:"chapters,omitempty"`

	// Inheritance fields, consumed by Inherit.
	BasedOn             string            `json:"based_on,omitempty"`
	TitleOverrides      map[string]string `json:"title_overrides,omitempty"`
	CoveredProfiles     []Item            `json:"covered_profiles,omitempty"`
	CoveredTransactions []Item            `json:"covered_transactions,omitempty"`
	Content             *ordered.Map      `json:"content,omitempty"`
}

// Load reads and decodes a blueprint file.
func Load(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "blueprint not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read blueprint %s", path)
	}
	return Parse(data, path)
}

// Parse decodes a blueprint. name identifies the source in errors.
func Parse(data []byte, name string) (*Blueprint, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var bp Blueprint
	if err := dec.Decode(&bp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed blueprint JSON in %s", name)
	}
	if bp.Sections == nil {
		bp.Sections = ordered.New()
	}
	return &bp, nil
}

// DisplayName returns the blueprint name or the default label.
func (b *Blueprint) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return "OECD Blueprint"
}

// DocumentType returns the blueprint type, defaulting to "local-file".
func (b *Blueprint) DocumentType() string {
	if b.Type != "" {
		return b.Type
	}
	return "local-file"
}

// IsBuiltin reports whether the blueprint ships with the tool.
func (b *Blueprint) IsBuiltin() bool { return b.BlueprintType == "builtin" }

// HasChapters reports whether the blueprint carries a chapter tree.
func (b *Blueprint) HasChapters() bool { return len(b.Chapters) > 0 }

// SectionKeys returns the section keys in blueprint order.
func (b *Blueprint) SectionKeys() []string { return b.Sections.Keys() }

// Note returns the section note for key as a list of lines. A string note
// is a single line; empty notes yield nil.
func (b *Blueprint) Note(key string) Note {
	v, ok := b.SectionNotes.Get(key)
	if !ok {
		return nil
	}
	return noteFrom(v)
}

// NoteKeys returns the keys of all section notes in file order.
func (b *Blueprint) NoteKeys() []string { return b.SectionNotes.Keys() }

// FootnotesFor returns the footnotes attached to a section.
func (b *Blueprint) FootnotesFor(key string) []string { return b.Footnotes[key] }

// Note is a section note. Notes are written either as one string or as a
// list of strings.
type Note []string

// String joins the note lines for single-line display.
func (n Note) String() string {
	return strings.Join(n, "; ")
}

func noteFrom(v any) Note {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		var out Note
		for _, e := range t {
			if s := ordered.Text(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := ordered.Text(t); s != "" {
			return Note{s}
		}
		return nil
	}
}

// =============================================================================
// Chapter tree
// =============================================================================

// Chapter is the top level of the document tree.
type Chapter struct {
	ID       string    `json:"id,omitempty"`
	Title    string    `json:"title,omitempty"`
	Keys     []string  `json:"keys,omitempty"` // set only on leaf chapters
	Sections []Section `json:"sections,omitempty"`
}

// Section is the second level of the document tree.
//
// Older blueprints list a section as a bare key string; such a section has
// Bare set and exactly one key, and renders under its humanized key.
type Section struct {
	ID          string       `json:"id,omitempty"`
	Title       string       `json:"title,omitempty"`
	Keys        []string     `json:"keys,omitempty"`
	Subsections []Subsection `json:"subsections,omitempty"`
	Bare        bool         `json:"-"`
}

// Subsection is the third and deepest level of the document tree.
type Subsection struct {
	ID    string   `json:"id,omitempty"`
	Title string   `json:"title,omitempty"`
	Keys  []string `json:"keys,omitempty"`
}

// UnmarshalJSON accepts a section object or a bare section key.
func (s *Section) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var key string
		if err := json.Unmarshal(data, &key); err != nil {
			return err
		}
		*s = Section{Keys: []string{key}, Bare: true}
		return nil
	}
	type plain Section
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Section(p)
	return nil
}

// MarshalJSON writes bare sections back as their key.
func (s Section) MarshalJSON() ([]byte, error) {
	if s.Bare && len(s.Keys) == 1 {
		return json.Marshal(s.Keys[0])
	}
	type plain Section
	return json.Marshal(plain(s))
}

// Heading returns the section title, or the display label of a bare
// section's key.
func (s *Section) Heading() string {
	if s.Bare && len(s.Keys) == 1 {
		return category.HumanizeKey(s.Keys[0])
	}
	return s.Title
}

// Keys returns every section key the chapter tree references, in
// document order.
func Keys(chapters []Chapter) []string {
	var out []string
	for _, ch := range chapters {
		out = append(out, ch.Keys...)
		for _, sec := range ch.Sections {
			out = append(out, sec.Keys...)
			for _, sub := range sec.Subsections {
				out = append(out, sub.Keys...)
			}
		}
	}
	return out
}

// =============================================================================
// Covered items
// =============================================================================

// Item is an entry of covered_profiles or covered_transactions: either a
// bare slug or an object with an id and optional title.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// UnmarshalJSON accepts a slug string or an {id, title} object.
func (it *Item) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*it = Item{ID: id}
		return nil
	}
	type plain Item
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*it = Item(p)
	return nil
}

// DisplayTitle returns the explicit title, or the slug in title case
// ("full-fledged-distributor" → "Full Fledged Distributor").
func (it Item) DisplayTitle() string {
	if it.Title != "" {
		return it.Title
	}
	return textfmt.HumanizeSlug(it.ID)
}
