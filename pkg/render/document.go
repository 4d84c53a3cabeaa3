package render

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/localfile/pkg/autotable"
	"github.com/matzehuels/localfile/pkg/blueprint"
	"github.com/matzehuels/localfile/pkg/category"
	"github.com/matzehuels/localfile/pkg/content"
	"github.com/matzehuels/localfile/pkg/records"
	"github.com/matzehuels/localfile/pkg/textfmt"
)

// Document is the input shared by all renderers.
type Document struct {
	Records      *records.Records
	Entity       *records.Entity
	Transactions []*records.Transaction // transactions involving the entity
	Blueprint    *blueprint.Blueprint
	Sections     *content.Sections

	Options Options
	Logger  *log.Logger
}

// Options tune individual renderers.
type Options struct {
	// MarkdownBodies renders report section bodies as Markdown.
	MarkdownBodies bool
	// BlueprintsDir lists the blueprints offered in the workspace.
	BlueprintsDir string
	// UniversalDir holds jurisdiction-maps.json for the workspace map.
	UniversalDir string
}

func (d *Document) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.Default()
}

func (d *Document) entityID() string { return d.Entity.ID }

// entityName returns the entity name or def when it has none.
func (d *Document) entityName(def string) string {
	if d.Entity.Name != "" {
		return d.Entity.Name
	}
	return def
}

// FiscalYear returns the blueprint's fiscal year, falling back to the
// entity's, or def when neither is set.
func (d *Document) FiscalYear(def string) string {
	if fy := records.FiscalYear(d.Blueprint.FiscalYear, d.Entity.FiscalYear); fy != "" {
		return fy
	}
	return def
}

func (d *Document) country(def string) string {
	if c := d.Entity.Location(); c != "" {
		return c
	}
	return def
}

func (d *Document) currency() string { return records.Currency(d.Transactions) }

func (d *Document) localFile() *records.LocalFile {
	if lf, ok := d.Records.LocalFile(d.entityID()); ok {
		return lf
	}
	return nil
}

func (d *Document) sectionStatus(key string) records.SectionStatus {
	if lf := d.localFile(); lf != nil {
		return lf.SectionStatus[key]
	}
	return records.SectionStatus{}
}

// Ready reports whether every section is written and the entity has at
// least one transaction.
func (d *Document) Ready() bool {
	return d.Sections.AllComplete() && len(d.Transactions) > 0
}

func (d *Document) autoContext() autotable.Context {
	return autotable.Context{Records: d.Records, EntityID: d.entityID(), Transactions: d.Transactions}
}

func (d *Document) autoResult(key string) autotable.Result {
	return autotable.Build(key, d.autoContext())
}

// autoHTML returns the table of an auto section, or its escaped
// placeholder and false when the records yield none.
func (d *Document) autoHTML(key string) (string, bool) {
	r := d.autoResult(key)
	if table := autotable.HTML(r); table != "" {
		return table, true
	}
	return esc(autoPlaceholder(r)), false
}

// autoPlaceholder names what an auto section is missing.
func autoPlaceholder(r autotable.Result) string {
	if r.Kind == autotable.KindNotFound {
		return "[" + r.Missing + "]"
	}
	return "[No data available]"
}

// pendingPlaceholder stands in for a section without usable text.
func pendingPlaceholder(key string) string {
	return "[" + category.HumanizeKey(key) + " -- pending]"
}

// counterpartyName returns the display name of the other side of tx.
func (d *Document) counterpartyName(tx *records.Transaction) string {
	return d.Records.EntityName(tx.Counterparty(d.entityID()))
}

// testedProfile mirrors the editor tables: the tested party's profile, a
// dash when that side has none, and "" when the tested party is neither side.
func testedProfile(tx *records.Transaction) string {
	if tx.TestedParty == "" || (tx.TestedParty != tx.FromEntity && tx.TestedParty != tx.ToEntity) {
		return ""
	}
	if p := tx.TestedProfile(); p != "" {
		return p
	}
	return "—"
}

func tpMethod(tx *records.Transaction) string {
	if tx.TPMethod == "" {
		return "—"
	}
	return strings.ToUpper(tx.TPMethod)
}

// fill replaces <<NAME>> markers. pairs alternate name and value.
func fill(tmpl string, pairs ...string) string {
	args := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		args = append(args, "<<"+pairs[i]+">>", pairs[i+1])
	}
	return strings.NewReplacer(args...).Replace(tmpl)
}

var esc = textfmt.EscapeHTML
