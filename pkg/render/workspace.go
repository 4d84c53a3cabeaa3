package render

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/localfile/pkg/autotable"
	"github.com/matzehuels/localfile/pkg/blueprint"
	"github.com/matzehuels/localfile/pkg/category"
	"github.com/matzehuels/localfile/pkg/content"
	"github.com/matzehuels/localfile/pkg/textfmt"
)

// =============================================================================
// Workspace
// =============================================================================

// Workspace populates the combined workspace editor: the numbered chapter
// tree with editable elements, review state, notes and footnotes, the
// document stage, progress metrics, a jurisdiction map, general notes and
// the blueprint picker.
func Workspace(tmpl string, d *Document) string {
	fy := d.FiscalYear("")
	title, subtitle := "Local File", d.entityName("")
	meta := "Transfer Pricing Documentation"
	if fy != "" {
		meta += " &middot; Fiscal Year " + esc(fy)
	}
	lf := d.localFile()
	stage := 0
	if lf != nil {
		title = orDefault(lf.Title, title)
		subtitle = orDefault(lf.Subtitle, subtitle)
		if lf.Meta != "" {
			meta = esc(lf.Meta)
		}
		stage = stageIndex(lf.Status)
	}
	m := ProgressMetrics(d)

	return fill(tmpl,
		"GROUP_NAME", esc(d.Records.Group.Name),
		"ENTITY_NAME", esc(d.entityName("")),
		"ENTITY_ID", esc(d.entityID()),
		"FISCAL_YEAR", esc(fy),
		"COUNTRY", esc(d.country("")),
		"BLUEPRINT_NAME", esc(d.Blueprint.DisplayName()),
		"DOCUMENT_TITLE", esc(title),
		"DOCUMENT_SUBTITLE", esc(subtitle),
		"DOCUMENT_META", meta,
		"STAGE_DRAFT_CLASS", activeIf(stage == 0),
		"STAGE_REVIEW_CLASS", activeIf(stage == 1),
		"STAGE_FINAL_CLASS", activeIf(stage == 2),
		"STAGE_FILL_1", fillIf(stage >= 1),
		"STAGE_FILL_2", fillIf(stage >= 2),
		"TOTAL_SECTIONS", strconv.Itoa(m.Total),
		"REVIEWED_COUNT", strconv.Itoa(m.Reviewed),
		"SIGNOFF_COUNT", strconv.Itoa(m.SignedOff),
		"REVIEW_PCT", strconv.Itoa(m.ReviewPercent())+"%",
		"SIGNOFF_PCT", strconv.Itoa(m.SignOffPercent())+"%",
		"JURISDICTION_SVG", jurisdictionSVG(d),
		"DOCUMENT_SECTIONS", workspaceSections(d),
		"GENERAL_NOTES", generalNotes(d),
		"BLUEPRINT_CARDS", blueprintCards(d),
	)
}

func stageIndex(status string) int {
	switch status {
	case "review":
		return 1
	case "final":
		return 2
	}
	return 0
}

func activeIf(ok bool) string {
	if ok {
		return "active"
	}
	return ""
}

func fillIf(ok bool) string {
	if ok {
		return "100%"
	}
	return "0%"
}

// Metrics are the workspace review counters. Total is the number of
// blueprint sections; the counts come from the local file's section status.
type Metrics struct {
	Total     int
	Reviewed  int
	SignedOff int
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.RoundToEven(float64(n) / float64(total) * 100))
}

// ReviewPercent returns the reviewed share in percent.
func (m Metrics) ReviewPercent() int { return percent(m.Reviewed, m.Total) }

// SignOffPercent returns the signed-off share in percent.
func (m Metrics) SignOffPercent() int { return percent(m.SignedOff, m.Total) }

// ProgressMetrics counts reviewed and signed-off entries of the entity's
// section status.
func ProgressMetrics(d *Document) Metrics {
	m := Metrics{Total: d.Blueprint.Sections.Len()}
	if lf := d.localFile(); lf != nil {
		for _, s := range lf.SectionStatus {
			if s.Reviewed {
				m.Reviewed++
			}
			if s.SignedOff {
				m.SignedOff++
			}
		}
	}
	return m
}

// =============================================================================
// Document sections
// =============================================================================

const editPen = `<span class="edit-pen"><svg><use href="#icon-pencil"/></svg></span>`

func workspaceSections(d *Document) string {
	outline, _ := d.outline()
	var parts []string
	for i, ch := range outline {
		n := i + 1
		id := ch.ID
		if id == "" {
			id = textfmt.Slugify(orDefault(ch.Title, fmt.Sprintf("chapter-%d", n)))
		}
		title := orDefault(ch.Title, fmt.Sprintf("Chapter %d", n))
		st := d.sectionStatus(id)

		parts = append(parts,
			`<div class="section" id="`+esc(id)+`">`,
			`  <div class="section-heading" data-section-key="`+esc(id)+`" data-reviewed="`+boolAttr(st.Reviewed)+
				`" data-signed-off="`+boolAttr(st.SignedOff)+`">`+strconv.Itoa(n)+" "+esc(title)+editPen+`</div>`)

		for _, key := range ch.Keys {
			parts = append(parts, element(d, key, "", false))
		}
		for j, sec := range ch.Parts {
			number := fmt.Sprintf("%d.%d", n, j+1)
			if sec.Key != "" {
				for k, key := range sec.Keys {
					parts = append(parts, element(d, key, number, k == 0))
				}
				continue
			}
			secSlug := fmt.Sprintf("%s-sec-%d", id, j+1)
			if sec.ID != "" {
				secSlug = id + "-" + textfmt.Slugify(sec.ID)
			}
			parts = append(parts, `<div class="section-sec-heading" id="`+esc(secSlug)+`">`+
				number+" "+esc(sec.Title)+editPen+`</div>`)
			for _, key := range sec.Keys {
				parts = append(parts, element(d, key, "", false))
			}
			for k, sub := range sec.Parts {
				subSlug := fmt.Sprintf("%s-%s-sub-%d", id, sec.ID, k+1)
				if sub.ID != "" {
					subSlug = id + "-" + sec.ID + "-" + textfmt.Slugify(sub.ID)
				}
				parts = append(parts, `<div class="section-subsec-heading" id="`+esc(subSlug)+`">`+
					fmt.Sprintf("%s.%d ", number, k+1)+esc(sub.Title)+editPen+`</div>`)
				for _, key := range sub.Keys {
					parts = append(parts, element(d, key, "", false))
				}
			}
		}
		parts = append(parts, `</div>`)
	}
	return strings.Join(parts, "\n")
}

func boolAttr(b bool) string { return strconv.FormatBool(b) }

const insertDivider = `<div class="insert-divider">` +
	`<div class="insert-divider-hit" onclick="insertElement(this.parentNode.querySelector('.insert-divider-btn'))"></div>` +
	`<button class="insert-divider-btn" onclick="insertElement(this)" title="Add element here"><svg><use href="#icon-chat"/></svg></button>` +
	`<div class="insert-divider-line"></div></div>`

const expandButton = `<button class="expand-btn" onclick="toggleExpand(this)"><span class="expand-icon">&#9662;</span></button>`

// element renders one content key. Single-section parts get a numbered
// subheading. Sections without usable text show a pending placeholder and
// auto sections without data say what is missing.
func element(d *Document, key, number string, subheading bool) string {
	meta := d.Sections.Meta(key)
	text := d.Sections.Text(key)
	label := category.HumanizeKey(key)
	layerClass := "xray-layer" + strconv.Itoa(meta.Layer)
	st := d.sectionStatus(key)

	var parts []string
	if subheading {
		parts = append(parts, `<div class="section-subheading" id="`+textfmt.Slugify(key)+`" data-section-key="`+esc(key)+
			`" data-reviewed="`+boolAttr(st.Reviewed)+`" data-signed-off="`+boolAttr(st.SignedOff)+`">`+
			number+" "+esc(label)+editPen+`</div>`)
	}
	parts = append(parts, insertDivider)

	if autotable.IsAuto(key) {
		body, ok := d.autoHTML(key)
		if !ok {
			body = `<div class="section-placeholder">` + body + `</div>`
		}
		parts = append(parts, `<div class="section-body-wrapper">`+
			`<div class="section-body `+layerClass+` collapsed" contenteditable="false" data-section-key="`+esc(key)+`">`+
			body+expandButton+`</div></div>`)
		return strings.Join(parts, "\n")
	}

	var original, shown string
	if content.IsComplete(text) {
		original, shown = esc(text), esc(text)
	} else {
		shown = `<span class="section-placeholder" contenteditable="false">` + esc(pendingPlaceholder(key)) + `</span>`
	}
	parts = append(parts, `<div class="section-body-wrapper">`+
		`<div class="section-body `+layerClass+` collapsed" contenteditable="true" data-section-key="`+esc(key)+
		`" data-original="`+original+`">`+
		`<button class="chat-btn" title="Edit with assistant" onclick="chatEdit(this)"><svg><use href="#icon-chat"/></svg></button>`+
		shown+expandButton+`</div>`)

	var items strings.Builder
	for _, n := range d.Blueprint.Note(key) {
		items.WriteString("<li>" + esc(n) + "</li>")
	}
	parts = append(parts, `<div class="element-note"><div class="element-note-header">`+
		`<div class="element-note-label">`+esc(label)+` notes</div>`+
		`<button class="note-chat-btn" title="Edit notes with assistant" onclick="chatEditNote(this)"><svg><use href="#icon-chat"/></svg></button>`+
		`</div><ul class="note-list" contenteditable="true">`+items.String()+`</ul></div>`)

	if fns := d.Blueprint.FootnotesFor(key); len(fns) > 0 {
		var b strings.Builder
		for i, fn := range fns {
			fmt.Fprintf(&b, `<div class="footnote-entry"><span class="footnote-num">%d</span><span class="footnote-text">%s</span></div>`, i+1, esc(fn))
		}
		parts = append(parts, `<div class="element-footnote">`+b.String()+`</div>`)
	}
	parts = append(parts, `</div>`)
	return strings.Join(parts, "\n")
}

// =============================================================================
// Side panels
// =============================================================================

// generalNotes shows the first two notes of the group, the entity and each
// transaction.
func generalNotes(d *Document) string {
	var groups []string
	add := func(title string, notes []string) {
		if len(notes) == 0 {
			return
		}
		if len(notes) > 2 {
			notes = notes[:2]
		}
		var items strings.Builder
		for _, n := range notes {
			items.WriteString("<li>" + esc(n) + "</li>")
		}
		groups = append(groups, `<div class="note-group">`+
			`<div class="note-group-title" contenteditable="true">`+esc(title)+`</div>`+
			`<ul class="note-list" contenteditable="true">`+items.String()+`</ul></div>`)
	}
	add(orDefault(d.Records.Group.Name, "Group"), d.Records.Group.Notes)
	add(d.entityName("Entity"), d.Entity.Notes)
	for _, tx := range d.Transactions {
		add(orDefault(tx.Name, "Transaction"), tx.Notes)
	}
	return strings.Join(groups, "\n")
}

type jurisdictionMaps struct {
	Jurisdictions map[string]struct {
		ViewBox string `json:"viewBox"`
		Paths   []struct {
			Role string `json:"role"`
			D    string `json:"d"`
		} `json:"paths"`
	} `json:"jurisdictions"`
}

// jurisdictionSVG draws the entity's country from jurisdiction-maps.json
// in the universal content directory. It is empty when the file or the
// country is missing.
func jurisdictionSVG(d *Document) string {
	if d.Options.UniversalDir == "" {
		return ""
	}
	path := filepath.Join(d.Options.UniversalDir, "jurisdiction-maps.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var maps jurisdictionMaps
	if err := json.Unmarshal(data, &maps); err != nil {
		d.logger().Warn("malformed jurisdiction maps", "path", path, "err", err)
		return ""
	}
	entry, ok := maps.Jurisdictions[d.country("")]
	if !ok {
		return ""
	}
	viewBox := orDefault(entry.ViewBox, "0 0 800 700")
	lines := []string{`<svg class="map-svg" viewBox="` + esc(viewBox) + `" xmlns="http://www.w3.org/2000/svg">`}
	for _, p := range entry.Paths {
		class := "map-land"
		if p.Role == "highlight" {
			class = "map-highlight"
		}
		lines = append(lines, `  <path class="`+class+`" d="`+esc(p.D)+`"/>`)
	}
	lines = append(lines, `</svg>`)
	return strings.Join(lines, "\n")
}

// blueprintCards lists every readable *.json blueprint in the blueprints
// directory, marking the one in use as active.
func blueprintCards(d *Document) string {
	dir := d.Options.BlueprintsDir
	if dir == "" {
		return ""
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var cards []string
	for _, name := range names {
		bp, err := blueprint.Load(filepath.Join(dir, name))
		if err != nil {
			d.logger().Debug("skipping unreadable blueprint", "file", name, "err", err)
			continue
		}
		cards = append(cards, blueprintCard(bp, d.Blueprint))
	}
	return strings.Join(cards, "\n")
}

func blueprintCard(bp, current *blueprint.Blueprint) string {
	active := ""
	if bp.DisplayName() == current.DisplayName() && bp.Entity == current.Entity {
		active = " active"
	}
	badgeClass, badge := "custom", "Custom"
	if bp.IsBuiltin() {
		badgeClass, badge = "builtin", "Standard"
	}
	var preview strings.Builder
	for _, ch := range bp.Chapters {
		preview.WriteString(`<div class="bp-preview-chapter">` + esc(ch.Title) + `</div>`)
		for range ch.Sections {
			preview.WriteString(`<div class="bp-preview-section l4" style="width:80%"></div>`)
		}
	}
	kind := textfmt.Title(strings.ReplaceAll(bp.DocumentType(), "-", " "))
	return `<div class="bp-card` + active + `">` +
		`<div class="bp-card-preview">` + preview.String() + `</div>` +
		`<div class="bp-card-info">` +
		`<span class="bp-card-badge ` + badgeClass + `">` + badge + `</span>` +
		`<div class="bp-card-name">` + esc(bp.DisplayName()) + `</div>` +
		`<div class="bp-card-meta">` + esc(kind) + ` &middot; ` + strconv.Itoa(bp.Sections.Len()) + ` sections</div>` +
		`</div></div>`
}

