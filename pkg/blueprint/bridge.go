package blueprint

import (
	"strings"

	"github.com/matzehuels/localfile/pkg/ordered"
)

// FlatKey converts a content path key into a section key:
// "executive-summary/objective" → "executive_summary_objective".
func FlatKey(path string) string {
	return strings.NewReplacer("-", "_", "/", "_").Replace(path)
}

// Bridge rewrites an inheriting blueprint into flat sections and a chapter
// tree built from the expanded template nodes.
//
// Every content path key becomes a flat section key, and single-element
// lists are unwrapped. Top-level nodes become chapters, their children
// sections, and anything deeper a subsection that rolls up the content of
// all its descendants. Chapters and sections hold only the key that
// exactly matches their own path. The inheritance fields are cleared.
func Bridge(bp *Blueprint, nodes []Node) {
	b := bridge{content: bp.Content, sections: ordered.New()}
	bp.Content.Range(func(path string, value any) bool {
		if list, ok := value.([]any); ok && len(list) == 1 {
			value = list[0]
		}
		b.sections.Set(FlatKey(path), value)
		return true
	})

	chapters := make([]Chapter, 0, len(nodes))
	for _, n := range nodes {
		chapters = append(chapters, b.chapter(n))
	}

	bp.Sections = b.sections
	bp.Chapters = chapters
	if bp.SectionNotes == nil {
		bp.SectionNotes = ordered.New()
	}
	if bp.Footnotes == nil {
		bp.Footnotes = map[string][]string{}
	}
	bp.Content = nil
	bp.BasedOn = ""
	bp.CoveredProfiles = nil
	bp.CoveredTransactions = nil
	bp.TitleOverrides = nil
}

type bridge struct {
	content  *ordered.Map
	sections *ordered.Map
}

func (b *bridge) chapter(n Node) Chapter {
	ch := Chapter{ID: n.ID, Title: n.Title}
	if len(n.Children) == 0 {
		ch.Keys = b.exactKeys(n.ID)
		return ch
	}
	ch.Sections = make([]Section, 0, len(n.Children))
	for _, c := range n.Children {
		ch.Sections = append(ch.Sections, b.section(c, n.ID))
	}
	return ch
}

func (b *bridge) section(n Node, parent string) Section {
	path := joinPath(parent, n.ID)
	sec := Section{ID: n.ID, Title: n.Title, Keys: b.exactKeys(path)}
	for _, c := range n.Children {
		subPath := joinPath(path, c.ID)
		sec.Subsections = append(sec.Subsections, Subsection{
			ID:    c.ID,
			Title: c.Title,
			Keys:  b.descendantKeys(subPath),
		})
	}
	return sec
}

func (b *bridge) exactKeys(path string) []string {
	flat := FlatKey(path)
	if b.sections.Has(flat) {
		return []string{flat}
	}
	return nil
}

// descendantKeys returns the node's own key and every key below it, in
// content order. Matching runs on content paths, not flat keys, so a
// sibling such as "dist-limited" never rolls up under "dist".
func (b *bridge) descendantKeys(path string) []string {
	var keys []string
	seen := make(map[string]bool)
	b.content.Range(func(p string, _ any) bool {
		if p != path && !strings.HasPrefix(p, path+"/") {
			return true
		}
		if flat := FlatKey(p); !seen[flat] {
			seen[flat] = true
			keys = append(keys, flat)
		}
		return true
	})
	return keys
}
