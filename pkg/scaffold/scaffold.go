// Package scaffold generates a starting blueprint from group records.
//
// The generated blueprint lists content sections only, in document order:
// preamble, business description, industry analysis, one functional
// profile block per distinct profile, one block per covered transaction,
// one block per distinct benchmark, and closing sections. Table sections
// (contractual terms, search results, ...) are left out because they are
// built from records at assembly time. Every section starts as a
// "[Label]" placeholder, except method selection for known methods,
// which points at the shared method description.
package scaffold

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/localfile/pkg/errors"
	"github.com/matzehuels/localfile/pkg/ordered"
	"github.com/matzehuels/localfile/pkg/records"
	"github.com/matzehuels/localfile/pkg/textfmt"
)

// SchemaVersion is written into every generated blueprint.
const SchemaVersion = "0.5.0"

// AllTransactions selects every transaction of the entity.
const AllTransactions = "all"

// MethodReferences maps transfer pricing methods to shared content.
var MethodReferences = map[string]string{
	"tnmm":         "@references/methods/tnmm",
	"cup":          "@references/methods/cup",
	"cost-plus":    "@references/methods/cost-plus",
	"resale-price": "@references/methods/resale-price",
	"profit-split": "@references/methods/profit-split",
	"valuation":    "@references/methods/valuation",
}

// Blueprint is a generated blueprint. Field order is the JSON key order.
type Blueprint struct {
	SchemaVersion string       `json:"schema_version"`
	Group         string       `json:"group"`
	Entity        string       `json:"entity"`
	Deliverable   string       `json:"deliverable"`
	FiscalYear    string       `json:"fiscal_year"`
	Sections      *ordered.Map `json:"sections"`
	SectionNotes  *ordered.Map `json:"section_notes"`
}

// Request describes what to generate.
type Request struct {
	Entity       string
	FiscalYear   string // defaults to the entity's or its local file's fiscal year
	Transactions string // comma-separated ids; "" or "all" selects every entity transaction
}

// Generator builds blueprints from one set of records.
type Generator struct {
	recs   *records.Records
	logger *log.Logger
}

// New creates a Generator. A nil logger uses log.Default().
func New(recs *records.Records, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{recs: recs, logger: logger}
}

// Generate builds the blueprint for req. Unknown transaction ids are
// logged and skipped; it fails when none remain.
func (g *Generator) Generate(req Request) (*Blueprint, error) {
	entity, err := g.recs.FindEntity(req.Entity)
	if err != nil {
		return nil, err
	}

	fy := req.FiscalYear
	if fy == "" {
		var lfYear any
		if lf, ok := g.recs.LocalFile(entity.ID); ok {
			lfYear = lf.FiscalYear
		}
		fy = records.FiscalYear(entity.FiscalYear, lfYear)
	}
	if fy == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no fiscal year given and none recorded for entity %q", entity.ID)
	}

	txs := g.selectTransactions(entity.ID, req.Transactions)
	if len(txs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no valid transactions selected for entity %q", entity.ID)
	}
	g.logger.Debug("generating blueprint", "entity", entity.ID, "transactions", len(txs))

	return &Blueprint{
		SchemaVersion: SchemaVersion,
		Group:         g.recs.Group.ID,
		Entity:        entity.ID,
		Deliverable:   "local-file",
		FiscalYear:    fy,
		Sections:      Sections(txs),
		SectionNotes:  ordered.New(),
	}, nil
}

func (g *Generator) selectTransactions(entityID, spec string) []*records.Transaction {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == AllTransactions {
		return g.recs.EntityTransactions(entityID)
	}
	var out []*records.Transaction
	for _, id := range strings.Split(spec, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		tx, ok := g.recs.Transaction(id)
		if !ok {
			g.logger.Warn("transaction not found in records", "id", id)
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Defaults picks an entity, fiscal year and transactions for a quick
// start: the first local file entry with covered transactions, otherwise
// the first entity with up to three of its transactions spanning at
// least two transaction types where possible.
func (g *Generator) Defaults() (Request, error) {
	for _, lf := range g.recs.LocalFiles {
		if len(lf.CoveredTransactions) > 0 {
			fy := records.FiscalYear(lf.FiscalYear)
			if fy == "" {
				fy = "2024"
			}
			return Request{
				Entity:       lf.Entity,
				FiscalYear:   fy,
				Transactions: strings.Join(lf.CoveredTransactions, ","),
			}, nil
		}
	}
	if len(g.recs.Entities) == 0 {
		return Request{}, errors.New(errors.ErrCodeInvalidInput, "no entities found in records")
	}
	entityID := g.recs.Entities[0].ID
	txs := g.recs.EntityTransactions(entityID)
	if len(txs) == 0 {
		return Request{}, errors.New(errors.ErrCodeInvalidInput, "no transactions found for entity %q", entityID)
	}

	var ids []string
	types := map[string]bool{}
	for _, tx := range txs {
		if len(ids) < 3 || (!types[tx.TransactionType] && len(types) < 2) {
			ids = append(ids, tx.ID)
			types[tx.TransactionType] = true
		}
		if len(ids) >= 3 && len(types) >= 2 {
			break
		}
	}
	return Request{Entity: entityID, FiscalYear: "2024", Transactions: strings.Join(ids, ",")}, nil
}

// Sections returns the ordered content sections for the transactions.
func Sections(txs []*records.Transaction) *ordered.Map {
	m := ordered.New()
	set := func(key, label string) { m.Set(key, "["+label+"]") }

	m.Set("preamble_objective", "@references/preamble/objective")
	set("preamble_scope", "Scope")
	m.Set("preamble_work_performed", "@references/preamble/work-performed")
	set("preamble_summary_of_results", "Summary of Results")

	set("executive_summary", "Executive Summary")
	set("group_overview", "Group Overview")
	set("entity_introduction", "Entity Introduction")
	set("management_structure", "Management Structure")
	set("management_org_chart", "Organization Chart")
	set("local_reporting", "Local Reporting")
	set("business_description", "Business Description")
	set("business_restructurings", "Business Restructurings")
	set("intangible_transfers", "Intangible Transfers")

	set("industry_analysis_primary", "Industry Analysis")

	for _, profile := range distinct(txs, func(tx *records.Transaction) []string {
		return []string{tx.FromEntityProfile, tx.ToEntityProfile}
	}) {
		slug := underscore(profile)
		name := textfmt.HumanizeSlug(profile)
		set("fp_"+slug+"_overview", name+" -- Overview")
		set("fp_"+slug+"_functions", name+" -- Functions")
		set("fp_"+slug+"_assets", name+" -- Assets")
		set("fp_"+slug+"_risks", name+" -- Risks")
	}

	for _, tx := range txs {
		p := underscore(tx.ID) + "_"
		set(p+"summary", "Summary")
		set(p+"contractual_terms_intro", "Contractual Terms")
		if !records.IsFinancialType(tx.TransactionType) {
			set(p+"characteristics_intro", "Characteristics")
		}
		set(p+"economic_circumstances_intro", "Economic Circumstances")
		set(p+"business_strategies", "Business Strategies")
		set(p+"far_variations", "FAR Variations")
		set(p+"recognition", "Recognition Analysis")
		set(p+"recognition_specific", "Type-specific Test")
		set(p+"recognition_conclusion", "Recognition Conclusion")
		if ref, ok := MethodReferences[tx.TPMethod]; ok {
			m.Set(p+"method_selection", ref)
		} else {
			set(p+"method_selection", "Method Selection")
		}
		set(p+"application_intro", "Application Introduction")
		set(p+"conclusion", "Conclusion")
	}

	for _, bm := range distinct(txs, func(tx *records.Transaction) []string {
		return []string{tx.Benchmark}
	}) {
		p := "bm_" + underscore(bm) + "_"
		set(p+"allocation_intro", "Allocation")
		set(p+"search_strategy_intro", "Search Strategy")
		set(p+"search_results_intro", "Search Results")
		set(p+"adjustments_intro", "Comparability Adjustments")
		set(p+"conclusion", "Benchmark Conclusion")
	}

	set("transactions_not_covered_intro", "Transactions Not Covered")
	set("appendices", "Appendices")
	return m
}

// distinct collects non-empty values in first-seen order.
func distinct(txs []*records.Transaction, values func(*records.Transaction) []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, tx := range txs {
		for _, v := range values(tx) {
			if v != "" && !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

func underscore(slug string) string { return strings.ReplaceAll(slug, "-", "_") }

// Marshal encodes the blueprint as indented JSON with a trailing newline.
func (b *Blueprint) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode blueprint")
	}
	return append(data, '\n'), nil
}

// Write saves the blueprint to path, creating parent directories.
func (b *Blueprint) Write(path string) error {
	data, err := b.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
