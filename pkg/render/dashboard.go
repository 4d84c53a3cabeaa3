package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/localfile/pkg/category"
	"github.com/matzehuels/localfile/pkg/content"
)

// TransactionsCardKey is the dashboard card standing for the transaction
// data. Section editor keys starting with "_auto_" are generated from the
// records and are not editable.
const TransactionsCardKey = "_auto_transactions_table"

type card struct {
	key        string
	label      string
	complete   bool
	auto       bool
	layerColor string
}

type cardGroup struct {
	id    category.ID
	cards []card
}

// Progress counts completed dashboard cards.
type Progress struct {
	Complete int
	Total    int
}

// Percent returns the completion percentage rounded to the nearest
// integer, ties to even.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return int(math.RoundToEven(float64(p.Complete) / float64(p.Total) * 100))
}

func dashboardCards(d *Document) []cardGroup {
	var groups []cardGroup
	hasTx := false
	for _, b := range category.Group(d.Sections.Keys()) {
		g := cardGroup{id: b.ID}
		if b.ID == category.Transactions {
			hasTx = true
			g.cards = append(g.cards, transactionsCard(d))
		}
		for _, key := range b.Keys {
			g.cards = append(g.cards, card{
				key:        key,
				label:      category.HumanizeKey(key),
				complete:   content.IsComplete(d.Sections.Text(key)),
				layerColor: d.Sections.Meta(key).Color,
			})
		}
		groups = append(groups, g)
	}
	if !hasTx {
		g := cardGroup{id: category.Transactions, cards: []card{transactionsCard(d)}}
		groups = insertGroup(groups, g)
	}
	return groups
}

func transactionsCard(d *Document) card {
	return card{
		key:      TransactionsCardKey,
		label:    fmt.Sprintf("Transactions Data (%d recorded)", len(d.Transactions)),
		complete: len(d.Transactions) > 0,
		auto:     true,
	}
}

// insertGroup places g at its position in category.Order.
func insertGroup(groups []cardGroup, g cardGroup) []cardGroup {
	rank := func(id category.ID) int {
		for i, o := range category.Order {
			if o == id {
				return i
			}
		}
		return len(category.Order)
	}
	for i, existing := range groups {
		if rank(existing.id) > rank(g.id) {
			return append(groups[:i], append([]cardGroup{g}, groups[i:]...)...)
		}
	}
	return append(groups, g)
}

// DashboardProgress returns the completion counts the dashboard shows,
// including the transaction data card.
func DashboardProgress(d *Document) Progress {
	var p Progress
	for _, g := range dashboardCards(d) {
		for _, c := range g.cards {
			p.Total++
			if c.complete {
				p.Complete++
			}
		}
	}
	return p
}

// Dashboard populates the section dashboard: one card per section grouped
// by category, a transaction data card and overall progress.
func Dashboard(tmpl string, d *Document) string {
	groups := dashboardCards(d)
	p := DashboardProgress(d)

	var out []string
	for _, g := range groups {
		out = append(out, `<div class="category">`,
			`  <div class="category-header">`+esc(g.id.Label())+`</div>`,
			`  <div class="category-cards">`)
		for _, c := range g.cards {
			out = append(out, "    "+dashboardCard(c))
		}
		out = append(out, "  </div>", "</div>")
	}

	return fill(tmpl,
		"ENTITY_NAME", esc(d.entityName("Unknown Entity")),
		"ENTITY_ID", esc(d.entityID()),
		"FISCAL_YEAR", esc(d.FiscalYear("N/A")),
		"PROGRESS_FRACTION", fmt.Sprintf("%d of %d sections", p.Complete, p.Total),
		"PROGRESS_DETAIL", fmt.Sprintf("%d%% complete", p.Percent()),
		"PROGRESS_PCT", strconv.Itoa(p.Percent()),
		"SECTION_CARDS", strings.Join(out, "\n"),
	)
}

func dashboardCard(c card) string {
	status, badgeClass, badge := "status-pending", "badge-pending", "Pending"
	switch {
	case c.auto:
		status, badgeClass, badge = "status-auto", "badge-auto", "Auto"
	case c.complete:
		status, badgeClass, badge = "status-complete", "badge-complete", "Complete"
	}
	var dot string
	if c.layerColor != "" {
		dot = `<span class="layer-dot" style="background:` + c.layerColor + `"></span>`
	}
	return `<div class="section-card" data-key="` + esc(c.key) + `">` +
		`<span class="section-status ` + status + `"></span>` +
		`<div class="section-info"><div class="section-label">` + esc(c.label) + `</div></div>` +
		`<div class="section-meta">` + dot + `<span class="badge ` + badgeClass + `">` + badge + `</span></div>` +
		`</div>`
}

// SectionEditor populates the single-section editor for key. Keys starting
// with "_auto_" show a read-only notice instead of a textarea.
func SectionEditor(tmpl string, d *Document, key string) string {
	meta := d.Sections.Meta(key)
	if !d.Sections.Has(key) {
		meta = content.Meta{}
	}

	var badge, source, note string
	if meta.Color != "" {
		badge = `<span class="layer-badge" style="border-color: ` + meta.Color + `30; background: ` + meta.Color + `10;">` +
			`<span class="dot" style="background: ` + meta.Color + `"></span>` + esc(meta.Label) + `</span>`
	}
	if meta.SourcePath != "" {
		source = `<span class="source-path">` + esc(string(meta.SourcePath)) + `</span>`
	}
	if n := d.Blueprint.Note(key).String(); n != "" {
		note = `<div class="section-note">Note: ` + esc(n) + `</div>`
	}

	var body, actions string
	if strings.HasPrefix(key, "_auto_") {
		body = `<span class="auto-label">Auto-generated from your data</span>` +
			`<div class="auto-table-container"><p style="padding:16px;color:var(--sn-text-muted);">` +
			`This section is built automatically from your records.</p></div>`
	} else {
		var shown string
		if text := d.Sections.Text(key); content.IsComplete(text) {
			shown = esc(text)
		}
		body = `<textarea class="edit-area" data-original="` + shown + `" placeholder="Enter content for this section...">` +
			shown + `</textarea>`
		actions = `<div class="action-bar"><button class="btn btn-primary" onclick="sendUpdates()">Send updates</button>` +
			`<span class="copy-status"></span></div>`
	}

	return fill(tmpl,
		"ENTITY_NAME", esc(d.entityName("Unknown Entity")),
		"ENTITY_ID", esc(d.entityID()),
		"FISCAL_YEAR", esc(d.FiscalYear("N/A")),
		"SECTION_KEY", esc(key),
		"SECTION_CATEGORY", esc(category.Of(key).Label()),
		"SECTION_LABEL", esc(category.HumanizeKey(key)),
		"LAYER_BADGE", badge,
		"SOURCE_PATH", source,
		"SECTION_NOTE", note,
		"SECTION_CONTENT", body,
		"ACTION_BAR", actions,
	)
}
