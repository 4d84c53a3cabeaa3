package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/matzehuels/localfile/pkg/autotable"
	"github.com/matzehuels/localfile/pkg/category"
	"github.com/matzehuels/localfile/pkg/content"
)

// Report populates the read-only X-ray report. Every section carries an
// annotation naming its content layer, the layer's impact, its source
// path(s), a composite badge and the section note. Sections follow the
// chapter tree, or the categorized outline with a controlled transactions
// overview after the business description.
func Report(tmpl string, d *Document) string {
	fy := d.FiscalYear("N/A")
	outline, chaptered := d.outline()
	var parts []string
	num := 0
	for _, top := range outline {
		num++
		parts = append(parts, `  <div class="doc-category">`+esc(top.Title)+`</div>`)
		w := reportWriter{d: d, num: num}
		w.keys(top.Keys)
		w.walk(top.Parts)
		parts = append(parts, w.parts...)
		if !chaptered && top.Category == category.Business && len(d.Transactions) > 0 {
			num++
			parts = append(parts, reportOverview(d, fy))
		}
	}

	return fill(tmpl,
		"ENTITY_NAME", esc(d.entityName("Unknown Entity")),
		"ENTITY_ID", esc(d.entityID()),
		"FISCAL_YEAR", esc(fy),
		"CURRENCY", esc(d.currency()),
		"REPORT_SECTIONS", strings.Join(parts, "\n\n"),
	)
}

// reportWriter numbers the sections of one top-level part.
type reportWriter struct {
	d     *Document
	num   int
	n     int
	parts []string
}

func (w *reportWriter) keys(keys []string) {
	for _, k := range keys {
		w.n++
		w.parts = append(w.parts, reportSection(w.d, k, fmt.Sprintf("%d.%d", w.num, w.n)))
	}
}

// walk renders nested parts. Single-section parts are titled by the
// section itself.
func (w *reportWriter) walk(parts []part) {
	for _, p := range parts {
		if p.Key == "" {
			w.parts = append(w.parts, `  <div class="doc-subcategory">`+esc(p.Title)+`</div>`)
		}
		w.keys(p.Keys)
		w.walk(p.Parts)
	}
}

func reportSection(d *Document, key, number string) string {
	meta := d.Sections.Meta(key)
	text := d.Sections.Text(key)

	var body string
	switch {
	case autotable.IsAuto(key):
		if table, ok := d.autoHTML(key); ok {
			body = `<div class="doc-body">` + table + `</div>`
		} else {
			body = `<div class="doc-body-pending">` + table + `</div>`
		}
	case content.IsComplete(text):
		body = `<div class="doc-body">` + d.bodyHTML(text) + `</div>`
	default:
		body = `<div class="doc-body-pending">` + esc(pendingPlaceholder(key)) + `</div>`
	}

	return `  <div class="annotated-section" data-layer="` + strconv.Itoa(meta.Layer) + `">` + "\n" +
		"    " + annotation(meta, d.Blueprint.Note(key).String()) + "\n" +
		`    <div class="doc-section-title">` + number + " " + esc(category.HumanizeKey(key)) + "</div>\n" +
		"    " + body + "\n" +
		"  </div>"
}

// bodyHTML renders section text, as Markdown when enabled.
func (d *Document) bodyHTML(text string) string {
	if !d.Options.MarkdownBodies {
		return esc(text)
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		d.logger().Warn("markdown conversion failed", "err", err)
		return esc(text)
	}
	return strings.TrimSpace(buf.String())
}

func annotation(meta content.Meta, note string) string {
	color := meta.Color
	if color == "" {
		color = "#3b82f6"
	}
	label := meta.Label
	if label == "" {
		label = "Entity"
	}
	return `<div class="annotation"><div class="annotation-bar">` +
		`<span class="annotation-dot" style="background:` + color + `"></span>` +
		`<span class="annotation-label" style="color:` + color + `">` + esc(label) + `</span>` +
		`<span style="color:var(--sn-text-dim)">&middot;</span>` +
		`<span class="annotation-impact">` + esc(meta.Impact) + `</span></div>` +
		sourceLines(meta) + compositeBadge(meta) + noteLine(note) +
		`</div>`
}

// sourceLines lists the source path, or one line per composite part.
func sourceLines(meta content.Meta) string {
	if meta.Composite && len(meta.Parts) > 0 {
		var lines []string
		for i, p := range meta.Parts {
			if p.SourcePath != "" {
				lines = append(lines, fmt.Sprintf(`<div class="annotation-source">Part %d: <code>%s</code></div>`, i+1, esc(string(p.SourcePath))))
			}
		}
		return strings.Join(lines, "\n")
	}
	if meta.SourcePath != "" {
		return `<div class="annotation-source">Source: <code>` + esc(string(meta.SourcePath)) + `</code></div>`
	}
	return ""
}

// compositeBadge shows the contributing layers of a composite drawing on
// at least two of them.
func compositeBadge(meta content.Meta) string {
	if !meta.Composite || len(meta.CompositeLabels) <= 1 {
		return ""
	}
	dots := make([]string, 0, len(meta.Parts))
	for _, p := range meta.Parts {
		dots = append(dots, `<span class="annotation-dot" style="background:`+p.Color+`"></span>`+
			`<span style="color:`+p.Color+`;font-size:10px">`+esc(p.Label)+`</span>`)
	}
	return `<div class="annotation-bar" style="margin-top:4px;padding:4px 10px;font-size:10px">` +
		`<span style="color:var(--sn-text-dim);margin-right:4px">Composite:</span>` +
		strings.Join(dots, ` <span style="color:var(--sn-text-dim)">+</span> `) +
		`</div>`
}

func noteLine(note string) string {
	if note == "" {
		return ""
	}
	return `<div class="annotation-note">Note: ` + esc(note) + `</div>`
}

func reportOverview(d *Document, fy string) string {
	currency := esc(d.currency())
	rows := make([]string, 0, len(d.Transactions))
	for _, tx := range d.Transactions {
		rows = append(rows, "        <tr>\n"+
			"          <td>"+esc(orDefault(tx.Name, "Unknown"))+" ("+esc(d.counterpartyName(tx))+")</td>\n"+
			"          <td>"+tx.FormattedAmount()+"</td>\n"+
			"          <td>"+esc(tpMethod(tx))+"</td>\n"+
			"          <td>"+esc(testedProfile(tx))+"</td>\n"+
			"        </tr>")
	}
	return "  <div class=\"doc-category\">Controlled Transactions Overview</div>\n" +
		"  <div class=\"annotated-section\" data-layer=\"4\">\n" +
		"    <div class=\"annotation\">\n" +
		"      <div class=\"annotation-bar\">\n" +
		"        <span class=\"annotation-dot\" style=\"background:var(--sn-layer4)\"></span>\n" +
		"        <span class=\"annotation-label\" style=\"color:var(--sn-layer4)\">Auto</span>\n" +
		"        <span style=\"color:var(--sn-text-dim)\">&middot;</span>\n" +
		"        <span class=\"annotation-impact\">Generated from transaction data</span>\n" +
		"      </div>\n" +
		"    </div>\n" +
		"    <div class=\"doc-body\">The following table summarises the controlled transactions of " +
		esc(d.entityName("Unknown Entity")) + " for the fiscal year " + esc(fy) + ".</div>\n" +
		"    <table class=\"doc-table\">\n" +
		"      <caption>Controlled Transactions Overview</caption>\n" +
		"      <thead><tr><th>Transaction</th><th>Amount (" + currency + ")</th><th>Method</th><th>Tested party profile</th></tr></thead>\n" +
		"      <tbody>" + strings.Join(rows, "\n") + "</tbody>\n" +
		"    </table>\n" +
		"  </div>"
}
