package render

import (
	"strings"

	"github.com/matzehuels/localfile/pkg/autotable"
	"github.com/matzehuels/localfile/pkg/content"
	"github.com/matzehuels/localfile/pkg/textfmt"
)

var mdEsc = textfmt.EscapeMarkdown

// Markdown populates the plain-text preview.
func Markdown(tmpl string, d *Document) string {
	status := "`In Progress`"
	if d.Ready() {
		status = "`Ready`"
	}
	return fill(tmpl,
		"ENTITY_NAME", mdEsc(d.entityName("Unknown Entity")),
		"GROUP_NAME", mdEsc(d.Records.GroupName()),
		"COUNTRY", mdEsc(d.country("—")),
		"FISCAL_YEAR", mdEsc(d.FiscalYear("N/A")),
		"STATUS", status,
		"REPORT_BODY", MarkdownBody(d),
	)
}

// MarkdownBody renders the outline with one heading level per depth,
// starting at "##". Section text is Markdown source and passes through;
// headings are escaped. Each section heading carries a status badge.
func MarkdownBody(d *Document) string {
	outline, _ := d.outline()
	var lines []string
	var walk func(ps []part, depth int)
	walk = func(ps []part, depth int) {
		for _, p := range ps {
			heading := strings.Repeat("#", min(depth+2, 6)) + " " + mdEsc(p.Title)
			if p.Key != "" {
				heading += " " + mdBadge(d, p.Key)
			}
			lines = append(lines, heading, "")
			for _, k := range p.Keys {
				lines = append(lines, mdSection(d, k), "")
			}
			walk(p.Parts, depth+1)
		}
	}
	walk(outline, 0)
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func mdBadge(d *Document, key string) string {
	switch {
	case autotable.IsAuto(key):
		return "`Auto`"
	case content.IsComplete(d.Sections.Text(key)):
		return "`Complete`"
	}
	return "`Pending`"
}

func mdSection(d *Document, key string) string {
	if autotable.IsAuto(key) {
		r := d.autoResult(key)
		if table := autotable.Markdown(r); table != "" {
			return table
		}
		return "*" + mdEsc(autoPlaceholder(r)) + "*"
	}
	if text := d.Sections.Text(key); content.IsComplete(text) {
		return text
	}
	return "*" + mdEsc(pendingPlaceholder(key)) + "*"
}
