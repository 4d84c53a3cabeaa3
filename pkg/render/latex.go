package render

import (
	"strings"

	"github.com/matzehuels/localfile/pkg/autotable"
	"github.com/matzehuels/localfile/pkg/category"
	"github.com/matzehuels/localfile/pkg/content"
	"github.com/matzehuels/localfile/pkg/textfmt"
)

// LaTeX populates a LaTeX template with the entity name, fiscal year and
// report body.
func LaTeX(tmpl string, d *Document) string {
	return fill(tmpl,
		"ENTITY_NAME", textfmt.EscapeLaTeX(d.entityName("Unknown Entity")),
		"GROUP_NAME", textfmt.EscapeLaTeX(d.Records.GroupName()),
		"FISCAL_YEAR", textfmt.EscapeLaTeX(d.FiscalYear("N/A")),
		"REPORT_BODY", LaTeXBody(d),
	)
}

// latexLevels are the heading commands by outline depth.
var latexLevels = []string{"section", "subsection", "subsubsection", "paragraph"}

// LaTeXBody renders the report body. With a chapter tree, chapters become
// \section, sections \subsection and subsections \subsubsection. Without
// one, sections are categorized into the fixed report outline.
func LaTeXBody(d *Document) string {
	parts, chaptered := d.outline()
	if !chaptered {
		parts = latexOutline(parts)
	}
	w := &latexWriter{d: d}
	w.walk(parts, 0)
	return strings.Join(w.parts, "\n")
}

// latexOutline arranges category buckets as Executive Summary, Business
// Description, Industry Analysis, Economic Analysis, Closing and Other.
// The first two and Economic Analysis are always present.
func latexOutline(buckets []part) []part {
	byID := make(map[category.ID]part, len(buckets))
	for _, b := range buckets {
		byID[b.Category] = b
	}
	get := func(id category.ID, title string) part {
		p, ok := byID[id]
		if !ok {
			p = part{ID: string(id)}
		}
		if title != "" {
			p.Title = title
		}
		return p
	}

	out := []part{
		get(category.Preamble, "Executive Summary"),
		get(category.Business, category.Business.Label()),
	}
	if p, ok := byID[category.Industry]; ok {
		out = append(out, p)
	}
	econ := part{ID: "economic-analysis", Title: "Economic Analysis"}
	for _, id := range []category.ID{category.Functional, category.Transactions, category.Benchmark} {
		if p, ok := byID[id]; ok {
			econ.Parts = append(econ.Parts, p)
		}
	}
	out = append(out, econ)
	for _, id := range []category.ID{category.Closing, category.Other} {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

type latexWriter struct {
	d     *Document
	parts []string
}

func (w *latexWriter) walk(parts []part, depth int) {
	cmd := latexLevels[min(depth, len(latexLevels)-1)]
	for _, p := range parts {
		w.parts = append(w.parts, `\`+cmd+"{"+textfmt.EscapeLaTeX(p.Title)+"}")
		for _, k := range p.Keys {
			w.parts = append(w.parts, w.content(k), "")
		}
		w.walk(p.Parts, depth+1)
	}
}

func (w *latexWriter) content(key string) string {
	if autotable.IsAuto(key) {
		r := w.d.autoResult(key)
		if r.Kind == autotable.KindEmpty || r.Kind == autotable.KindNotFound {
			return textfmt.EscapeLaTeX(autoPlaceholder(r))
		}
		return autotable.LaTeX(r)
	}
	if text := w.d.Sections.Text(key); content.IsComplete(text) {
		return textfmt.EscapeLaTeX(text)
	}
	return textfmt.EscapeLaTeX(pendingPlaceholder(key))
}
