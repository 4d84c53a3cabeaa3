package render

import (
	"strings"

	"github.com/matzehuels/localfile/pkg/autotable"
	"github.com/matzehuels/localfile/pkg/category"
	"github.com/matzehuels/localfile/pkg/content"
	"github.com/matzehuels/localfile/pkg/textfmt"
)

// Editor populates the HTML intake editor: every section in outline order
// with a textarea, its layer and a status badge, followed by the editable
// transaction rows and the notes gathered from earlier sessions.
func Editor(tmpl string, d *Document) string {
	status := "In Progress"
	if d.Ready() {
		status = "Ready"
	}
	return fill(tmpl,
		"ENTITY_NAME", esc(d.entityName("Unknown Entity")),
		"ENTITY_ID", esc(d.entityID()),
		"GROUP_NAME", esc(d.Records.GroupName()),
		"COUNTRY", esc(d.country("—")),
		"FISCAL_YEAR", esc(d.FiscalYear("N/A")),
		"CURRENCY", esc(d.currency()),
		"STATUS", status,
		"CONTENT_SECTIONS", editorSections(d),
		"TRANSACTIONS_BADGE", statusBadge(len(d.Transactions) > 0),
		"TRANSACTION_ROWS", editorTransactionRows(d),
		"NOTES_BLOCK", notesBlock(d),
	)
}

func statusBadge(complete bool) string {
	if complete {
		return `<span class="badge badge-success">Complete</span>`
	}
	return `<span class="badge badge-warning">Pending</span>`
}

func editorSections(d *Document) string {
	outline, _ := d.outline()
	var parts []string
	var walk func(ps []part, depth int)
	walk = func(ps []part, depth int) {
		for _, p := range ps {
			switch {
			case depth == 0:
				parts = append(parts, `<div class="category-divider">`+esc(p.Title)+`</div>`)
			case p.Key == "":
				parts = append(parts, `<div class="subcategory-divider">`+esc(p.Title)+`</div>`)
			}
			for _, key := range p.Keys {
				parts = append(parts, editorSection(d, key))
			}
			walk(p.Parts, depth+1)
		}
	}
	walk(outline, 0)
	return strings.Join(parts, "\n")
}

func editorSection(d *Document, key string) string {
	meta := d.Sections.Meta(key)
	text := d.Sections.Text(key)
	label := category.HumanizeKey(key)
	complete := content.IsComplete(text)
	badge := statusBadge(complete)

	var layer string
	if meta.Color != "" {
		layer = `<span style="display:flex;align-items:center;gap:4px">` +
			`<span class="layer-dot" style="background:` + meta.Color + `"></span>` +
			`<span class="layer-label">` + esc(meta.Label) + `</span></span>`
	}
	var note string
	if n := d.Blueprint.Note(key).String(); n != "" {
		note = `<div style="font-size:11px;color:var(--sn-primary);font-style:italic;margin-top:6px">` + esc(n) + `</div>`
	}

	var body string
	if autotable.IsAuto(key) {
		if table, ok := d.autoHTML(key); ok {
			badge = `<span class="badge badge-auto">Auto</span>`
			body = `    <div class="auto-table-container">` + table + "</div>\n"
		} else {
			body = `    <div class="auto-placeholder">` + table + "</div>\n"
		}
	} else {
		var shown string
		if complete {
			shown = esc(text)
		}
		body = `    <textarea class="edit-area" id="` + esc(key) + `" data-label="` + esc(label) + `" ` +
			`placeholder="` + esc("Write or ask the assistant to draft: "+label) + `">` + shown + "</textarea>\n"
	}

	return "<div class=\"section\">\n" +
		"  <div class=\"section-header\">\n" +
		"    <span class=\"section-label\">" + esc(label) + "</span>\n" +
		"    <div style=\"display:flex;align-items:center;gap:10px\">" + layer + badge + "</div>\n" +
		"  </div>\n" +
		"  <div class=\"section-content\">\n" +
		body + note +
		"  </div>\n" +
		"</div>"
}

func editorTransactionRows(d *Document) string {
	rows := make([]string, 0, len(d.Transactions))
	for _, tx := range d.Transactions {
		rows = append(rows, "        <tr>\n"+
			`          <td><input class="cell-input" type="text" data-field="name" value="`+esc(tx.Name)+`"></td>`+"\n"+
			`          <td><input class="cell-input" type="text" data-field="counterparty" value="`+esc(d.counterpartyName(tx))+`"></td>`+"\n"+
			`          <td><input class="cell-input" type="text" data-field="amount" value="`+tx.FormattedAmount()+`"></td>`+"\n"+
			"          <td>"+esc(tpMethod(tx))+"</td>\n"+
			"          <td>"+esc(testedProfile(tx))+"</td>\n"+
			"        </tr>")
	}
	return strings.Join(rows, "\n")
}

func notesList(notes []string, context string) string {
	if len(notes) == 0 {
		return ""
	}
	var items strings.Builder
	for _, n := range notes {
		items.WriteString("<li>" + esc(n) + "</li>")
	}
	label := ""
	if context != "" {
		label = " — " + esc(context)
	}
	return `<div class="notes-block"><div class="notes-header">Notes` + label + `</div>` +
		`<ul class="notes-list">` + items.String() + `</ul></div>`
}

// notesBlock gathers group, entity, transaction and section notes. It is
// empty when there are none anywhere.
func notesBlock(d *Document) string {
	var blocks []string
	add := func(b string) {
		if b != "" {
			blocks = append(blocks, b)
		}
	}

	g := d.Records.Group
	add(notesList(g.Notes, orDefault(g.Name, "Group")))
	add(notesList(d.Entity.Notes, d.entityName("Entity")))
	for _, tx := range d.Transactions {
		add(notesList(tx.Notes, orDefault(tx.Name, "Transaction")))
	}

	var sectionNotes []string
	for _, key := range d.Blueprint.NoteKeys() {
		if n := d.Blueprint.Note(key).String(); n != "" {
			sectionNotes = append(sectionNotes, textfmt.Humanize(key)+": "+n)
		}
	}
	add(notesList(sectionNotes, "Report sections"))

	if len(blocks) == 0 {
		return ""
	}
	return `<div class="notes-container"><h3 class="notes-title">Notes from previous sessions</h3>` +
		strings.Join(blocks, "") + `</div>`
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}
