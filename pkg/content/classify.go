package content

import "encoding/json"

// Provenance describes the content layer a piece of text came from. The
// colors match the --layer1..--layer4 custom properties of the brand
// stylesheet.
type Provenance struct {
	Layer      int       `json:"layer"`
	Label      string    `json:"label"`
	SourcePath SourceRef `json:"source_path"`
	Scope      string    `json:"scope"`
	Color      string    `json:"color"`
	Impact     string    `json:"impact"`
}

// SourceRef is the reference a section was loaded from. It is empty for
// literal text and encodes as JSON null then.
type SourceRef string

// MarshalJSON implements [json.Marshaler].
func (s SourceRef) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// Meta is the provenance of a resolved section. Composite sections (list
// values) take their primary fields from the first part.
type Meta struct {
	Provenance
	Composite       bool         `json:"composite,omitempty"`
	CompositeLabels []string     `json:"composite_labels,omitempty"`
	Parts           []Provenance `json:"parts,omitempty"`
}

var layerInfo = map[Scope]Provenance{
	ScopeUniversal: {
		Layer: 1, Label: "Universal", Scope: "plugin", Color: "#64748b",
		Impact: "Standard content from the plugin — updates with plugin upgrades",
	},
	ScopeFirm: {
		Layer: 2, Label: "Firm Library", Scope: "firm", Color: "#94a3b8",
		Impact: "From your firm library — shared across all clients",
	},
	ScopeGroup: {
		Layer: 3, Label: "Group", Scope: "group", Color: "#a855f7",
		Impact: "Group-wide — editing affects all local files in this group",
	},
	ScopeEntity: {
		Layer: 4, Label: "Entity", Scope: "entity", Color: "#3b82f6",
		Impact: "Entity-specific — this report only",
	},
}

// Classify returns the provenance of a raw section value. It looks only at
// the value's prefix and never touches the filesystem.
func Classify(raw string) Provenance {
	ref := ParseRef(raw)
	if !ref.IsReference() {
		return layerInfo[ScopeEntity]
	}
	p := layerInfo[ref.Scope]
	p.SourcePath = SourceRef(raw)
	return p
}
