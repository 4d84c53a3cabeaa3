package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/localfile/pkg/blueprint"
	"github.com/matzehuels/localfile/pkg/content"
	"github.com/matzehuels/localfile/pkg/records"
)

type renderer struct {
	name   string
	render func(*Document) string
}

// bodyRenderers fill only the marker holding the document body.
var bodyRenderers = []renderer{
	{"latex", func(d *Document) string { return LaTeX("<<REPORT_BODY>>", d) }},
	{"editor", func(d *Document) string { return Editor("<<CONTENT_SECTIONS>>", d) }},
	{"report", func(d *Document) string { return Report("<<REPORT_SECTIONS>>", d) }},
	{"workspace", func(d *Document) string { return Workspace("<<DOCUMENT_SECTIONS>>", d) }},
	{"markdown", func(d *Document) string { return Markdown("<<REPORT_BODY>>", d) }},
}

// singleTransactionDocument is one entity with one transaction of txType
// and a blueprint holding only tx_001_summary.
func singleTransactionDocument(t *testing.T, txType string) *Document {
	t.Helper()
	recs, err := records.Parse([]byte(`{
	  "entities": [{"id": "acme-nl", "name": "Acme NL"}, {"id": "acme-de", "name": "Acme DE"}],
	  "transactions": [{"id": "tx-001", "name": "Support", "transaction_type": "`+txType+`",
	    "from_entity": "acme-de", "to_entity": "acme-nl", "amount": 100000, "currency": "EUR",
	    "contractual_terms": {"payment_terms": "30 days"},
	    "characteristics": {"service_type": "IT support"}}]
	}`), "records.json")
	if err != nil {
		t.Fatal(err)
	}
	bp, err := blueprint.Parse([]byte(`{"entity": "acme-nl", "sections": {"tx_001_summary": "plain text"}}`), "bp.json")
	if err != nil {
		t.Fatal(err)
	}
	entity, err := recs.FindEntity("acme-nl")
	if err != nil {
		t.Fatal(err)
	}
	secs := content.NewSections()
	secs.Put("tx_001_summary", "plain text", content.Meta{Provenance: content.Classify("plain text")})
	return &Document{
		Records:      recs,
		Entity:       entity,
		Transactions: recs.EntityTransactions("acme-nl"),
		Blueprint:    bp,
		Sections:     secs,
		Logger:       log.New(&bytes.Buffer{}),
	}
}

func TestRenderersSingleTransaction(t *testing.T) {
	tests := []struct {
		txType          string
		characteristics bool
	}{
		{"services", true},
		{"loan-arrangement", false},
	}
	for _, tt := range tests {
		for _, r := range bodyRenderers {
			t.Run(tt.txType+"/"+r.name, func(t *testing.T) {
				got := r.render(singleTransactionDocument(t, tt.txType))
				for _, want := range []string{"plain text", "001 Summary", "001 Contractual Terms", "30 days"} {
					if !strings.Contains(got, want) {
						t.Errorf("output missing %q:\n%s", want, got)
					}
				}
				if strings.Contains(got, "Contractual Terms -- pending") {
					t.Error("auto section rendered as pending text")
				}
				if has := strings.Contains(got, "001 Characteristics"); has != tt.characteristics {
					t.Errorf("characteristics shown = %v, want %v", has, tt.characteristics)
				}
				if has := strings.Contains(got, "IT support"); has != tt.characteristics {
					t.Errorf("characteristics table shown = %v, want %v", has, tt.characteristics)
				}
			})
		}
	}
}

const summaryChapterBlueprint = `{
  "entity": "acme-nl",
  "sections": {
    "executive_summary_objective": "@references/preamble/objective",
    "executive_summary_entity_introduction": "@entity/intro",
    "tx_009_contractual_terms": ""
  },
  "chapters": [
    {"id": "executive-summary", "title": "Executive Summary", "sections": [
      {"id": "objective", "title": "Objective", "keys": ["executive_summary_objective"]},
      {"id": "intro", "title": "Introduction", "keys": ["executive_summary_entity_introduction"]},
      {"id": "terms", "title": "Terms", "keys": ["tx_009_contractual_terms"]}
    ]}
  ]
}`

func TestRenderersFollowChapters(t *testing.T) {
	pending := map[string]string{
		"latex":     "[Executive Summary Entity Introduction -- pending]",
		"editor":    `<span class="badge badge-warning">Pending</span>`,
		"report":    "[Executive Summary Entity Introduction -- pending]",
		"workspace": "[Executive Summary Entity Introduction -- pending]",
		"markdown":  `\[Executive Summary Entity Introduction -- pending\]`,
	}
	for _, r := range bodyRenderers {
		t.Run(r.name, func(t *testing.T) {
			d := testDocument(t, summaryChapterBlueprint, map[string]string{
				"executive_summary_objective":           "Objective text",
				"executive_summary_entity_introduction": content.Unresolved("@entity/intro"),
			})
			got := r.render(d)
			for _, want := range []string{"Executive Summary", "Objective text", "Transaction tx-009 not found", pending[r.name]} {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, unwanted := range []string{"Other", "Report Preamble", "UNRESOLVED"} {
				if strings.Contains(got, unwanted) {
					t.Errorf("output contains %q:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestWorkspaceWithoutChapters(t *testing.T) {
	d := testDocument(t, `{"entity": "acme-nl", "sections": {"group_overview": "", "tx_1_summary": "Summary"}}`,
		map[string]string{"tx_1_summary": "Summary"})
	got := Workspace("<<DOCUMENT_SECTIONS>>", d)
	for _, want := range []string{
		`<div class="section" id="business">`,
		`Transactions Overview`,
		`<span class="section-placeholder" contenteditable="false">[Group Overview -- pending]</span>`,
		`<div class="section-sec-heading" id="transactions-Transfer_of_Tangible_Goods">`,
		`data-section-key="tx_1_summary" data-original="Summary"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Workspace() missing %q", want)
		}
	}
}

func TestOutlineIntroTables(t *testing.T) {
	d := chapterDocument(t)
	parts, chaptered := d.outline()
	if !chaptered {
		t.Fatal("chapter tree ignored")
	}
	keys := parts[0].Parts[1].Keys
	if len(keys) != 2 || keys[1] != "tx_1_contractual_terms" {
		t.Errorf("intro keys = %v, want the table after its intro", keys)
	}

	d = testDocument(t, `{"entity": "acme-nl", "sections": {"tx_1_contractual_terms_intro": "Terms follow."}}`,
		map[string]string{"tx_1_contractual_terms_intro": "Terms follow."})
	body := LaTeXBody(d)
	if n := strings.Count(body, `\begin{tabularx}{\textwidth}{lX}`+"\n"+`\toprule`+"\n"+`Term & Detail`); n != 1 {
		t.Errorf("terms table rendered %d times, want once:\n%s", n, body)
	}
}
