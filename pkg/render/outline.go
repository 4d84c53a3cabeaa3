package render

import (
	"strings"

	"github.com/matzehuels/localfile/pkg/autotable"
	"github.com/matzehuels/localfile/pkg/blueprint"
	"github.com/matzehuels/localfile/pkg/category"
)

// part is a heading of the document outline and the section keys shown
// directly under it. A part with Key set stands for that single section
// and is titled by it.
type part struct {
	ID       string
	Title    string
	Category category.ID // set on the top level of the categorized outline
	Key      string
	Keys     []string
	Parts    []part
}

// outline returns the structure every renderer walks: the blueprint's
// chapter tree when it has one, else the section keys categorized into
// buckets. The categorized outline also carries the auto tables the
// records call for. Either way auto tables that do not apply to their
// transaction are left out, and an _intro key is followed by the auto
// table it introduces unless that table is placed elsewhere.
func (d *Document) outline() (parts []part, chaptered bool) {
	if d.Blueprint.HasChapters() {
		parts, chaptered = chapterParts(d.Blueprint.Chapters), true
	} else {
		parts = d.categoryParts()
	}
	walkParts(parts, func(p *part) { p.Keys = d.applicable(p.Keys) })
	parts = pruneKeyParts(parts)

	placed := make(map[string]bool)
	walkParts(parts, func(p *part) {
		for _, k := range p.Keys {
			placed[k] = true
		}
	})
	walkParts(parts, func(p *part) { p.Keys = withIntroTables(p.Keys, placed) })
	return parts, chaptered
}

func chapterParts(chapters []blueprint.Chapter) []part {
	out := make([]part, 0, len(chapters))
	for _, ch := range chapters {
		p := part{ID: ch.ID, Title: ch.Title, Keys: ch.Keys}
		for _, sec := range ch.Sections {
			if sec.Bare {
				p.Parts = append(p.Parts, keyPart(sec.Keys[0]))
				continue
			}
			sp := part{ID: sec.ID, Title: sec.Title, Keys: sec.Keys}
			for _, sub := range sec.Subsections {
				sp.Parts = append(sp.Parts, part{ID: sub.ID, Title: sub.Title, Keys: sub.Keys})
			}
			p.Parts = append(p.Parts, sp)
		}
		out = append(out, p)
	}
	return out
}

func (d *Document) categoryParts() []part {
	keys := autotable.FallbackKeys(d.Sections.Keys(), d.autoContext())
	var out []part
	for _, b := range category.Group(keys) {
		p := part{ID: string(b.ID), Title: b.Label(), Category: b.ID}
		var groups []category.Subgroup
		switch b.ID {
		case category.Functional:
			groups = category.Profiles(b.Keys)
		case category.Transactions:
			groups = category.TransactionGroups(b.Keys, d.Records)
		case category.Benchmark:
			groups = category.Benchmarks(b.Keys, d.Records, d.logger())
		default:
			p.Parts = keyParts(b.Keys)
		}
		for _, g := range groups {
			p.Parts = append(p.Parts, part{ID: g.ID, Title: g.Title, Parts: keyParts(g.Keys)})
		}
		out = append(out, p)
	}
	return out
}

func keyPart(key string) part {
	return part{ID: key, Title: category.HumanizeKey(key), Key: key, Keys: []string{key}}
}

func keyParts(keys []string) []part {
	out := make([]part, 0, len(keys))
	for _, k := range keys {
		out = append(out, keyPart(k))
	}
	return out
}

func walkParts(parts []part, fn func(*part)) {
	for i := range parts {
		fn(&parts[i])
		walkParts(parts[i].Parts, fn)
	}
}

// applicable drops auto keys whose table does not apply.
func (d *Document) applicable(keys []string) []string {
	var out []string
	for _, k := range keys {
		if autotable.IsAuto(k) && d.autoResult(k).Kind == autotable.KindOmitted {
			continue
		}
		out = append(out, k)
	}
	return out
}

// pruneKeyParts removes single-section parts left without their key.
func pruneKeyParts(parts []part) []part {
	out := parts[:0]
	for _, p := range parts {
		if p.Key != "" && len(p.Keys) == 0 {
			continue
		}
		p.Parts = pruneKeyParts(p.Parts)
		out = append(out, p)
	}
	return out
}

func withIntroTables(keys []string, placed map[string]bool) []string {
	var out []string
	for _, k := range keys {
		out = append(out, k)
		if base, ok := strings.CutSuffix(k, "_intro"); ok && autotable.IsAuto(base) && !placed[base] {
			placed[base] = true
			out = append(out, base)
		}
	}
	return out
}
