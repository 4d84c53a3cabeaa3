// Package content resolves blueprint section values into text and records
// where each piece of text came from.
//
// A section value is either literal prose or a scoped reference into one of
// four content layers:
//
//	@references/<path>  universal content shipped with the tool  (layer 1)
//	@library/<path>     the firm's own library                   (layer 2)
//	@group/<path>       content shared by one client group       (layer 3)
//	@entity/<path>      content for a single entity              (layer 4)
//
// Literal text also counts as layer 4. Resolution is a single lookup: text
// read from a file is never inspected for further references.
package content

import "strings"

// Scope identifies the content layer a value refers to.
type Scope int

// Scopes in layer order. ScopeLiteral is plain text written in the blueprint.
const (
	ScopeLiteral Scope = iota
	ScopeUniversal
	ScopeFirm
	ScopeGroup
	ScopeEntity
)

var scopePrefixes = []struct {
	scope  Scope
	prefix string
}{
	{ScopeUniversal, "@references/"},
	{ScopeFirm, "@library/"},
	{ScopeGroup, "@group/"},
	{ScopeEntity, "@entity/"},
}

// String returns the scope name used in logs.
func (s Scope) String() string {
	switch s {
	case ScopeUniversal:
		return "universal"
	case ScopeFirm:
		return "firm"
	case ScopeGroup:
		return "group"
	case ScopeEntity:
		return "entity"
	default:
		return "literal"
	}
}

// Prefix returns the reference prefix of the scope, or "" for literals.
func (s Scope) Prefix() string {
	for _, p := range scopePrefixes {
		if p.scope == s {
			return p.prefix
		}
	}
	return ""
}

// Ref is a parsed section value.
type Ref struct {
	Scope Scope
	Path  string // path inside the scope directory, without extension
	Raw   string // the value as written
}

// ParseRef classifies a raw value by its prefix.
func ParseRef(raw string) Ref {
	for _, p := range scopePrefixes {
		if strings.HasPrefix(raw, p.prefix) {
			return Ref{Scope: p.scope, Path: strings.TrimPrefix(raw, p.prefix), Raw: raw}
		}
	}
	return Ref{Scope: ScopeLiteral, Raw: raw}
}

// IsReference reports whether the value points into a content layer.
func (r Ref) IsReference() bool {
	return r.Scope != ScopeLiteral
}

// Unresolved returns the visible placeholder for a reference that could not
// be resolved.
func Unresolved(raw string) string {
	return "[UNRESOLVED: " + raw + "]"
}

// IsComplete reports whether resolved text counts as written content. Empty
// text, "[No ..." placeholders and unresolved sentinels do not.
func IsComplete(text string) bool {
	return text != "" && !strings.HasPrefix(text, "[No ") && !strings.HasPrefix(text, "[UNRESOLVED")
}
