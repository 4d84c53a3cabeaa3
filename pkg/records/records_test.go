package records

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/localfile/pkg/errors"
)

const sampleRecords = `{
  "group": {"id": "acme", "name": "Acme Group", "notes": ["Group restructured in 2023"]},
  "entities": [
    {"id": "acme-nl", "name": "Acme Netherlands B.V.", "jurisdiction": "NL", "fiscal_year": 2024},
    {"id": "acme-de", "name": "Acme GmbH", "country": "DE"}
  ],
  "transactions": [
    {"id": "tx-1", "name": "Distribution of goods", "from_entity": "acme-de", "to_entity": "acme-nl",
     "transaction_type": "tangible-goods", "amount": 1200000, "currency": "EUR",
     "tested_party": "acme-nl", "from_entity_profile": "manufacturer", "to_entity_profile": "distributor",
     "contractual_terms": {"payment_terms": "60 days", "incoterms": "DAP"}},
    {"id": "tx-2", "name": "Intercompany loan", "from_entity": "acme-nl", "to_entity": "acme-de",
     "transaction_type": "loan-arrangement", "amount": 5000000.5, "currency": "USD"},
    {"id": "tx-3", "name": "Unrelated", "from_entity": "acme-de", "to_entity": "acme-us"}
  ],
  "benchmarks": [
    {"id": "bm-dist", "name": "Distributor benchmark", "transactions": ["tx-1"],
     "tables": [{"id": "search_results", "columns": ["Company", "Margin"], "rows": {"tx-1": ["Comp A", 2.5]}}]}
  ],
  "local_files": [
    {"entity": "acme-nl", "fiscal_year": "2024", "status": "review", "covered_transactions": ["tx-1"],
     "section_status": {"group_overview": {"reviewed": true}}}
  ]
}`

func mustParse(t *testing.T) *Records {
	t.Helper()
	r, err := Parse([]byte(sampleRecords), "sample")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return r
}

func TestParse(t *testing.T) {
	r := mustParse(t)

	if r.Group.Name != "Acme Group" || len(r.Group.Notes) != 1 {
		t.Errorf("Group = %+v", r.Group)
	}
	if len(r.Entities) != 2 || len(r.Transactions) != 3 {
		t.Fatalf("got %d entities, %d transactions", len(r.Entities), len(r.Transactions))
	}
	if got := r.Transactions[0].Amount; got != json.Number("1200000") {
		t.Errorf("amount = %#v, want json.Number", got)
	}
	if diff := cmp.Diff([]string{"payment_terms", "incoterms"}, r.Transactions[0].ContractualTerms.Keys()); diff != "" {
		t.Errorf("contractual term order mismatch (-want +got):\n%s", diff)
	}
	if !r.LocalFiles[0].SectionStatus["group_overview"].Reviewed {
		t.Error("section status not decoded")
	}
}

func TestGroupAsString(t *testing.T) {
	r, err := Parse([]byte(`{"group": "Acme Group"}`), "inline")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if r.GroupName() != "Acme Group" {
		t.Errorf("GroupName() = %q", r.GroupName())
	}

	empty, _ := Parse([]byte(`{}`), "inline")
	if empty.GroupName() != "Unknown Group" {
		t.Errorf("GroupName() = %q, want placeholder", empty.GroupName())
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`{"entities": [`), "broken.json")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("Parse() error = %v, want INVALID_INPUT", err)
	}
	if !strings.Contains(err.Error(), "broken.json") {
		t.Errorf("error should name the source: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte(sampleRecords), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	_, err := Load(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFindEntity(t *testing.T) {
	r := mustParse(t)

	e, err := r.FindEntity("acme-de")
	if err != nil {
		t.Fatalf("FindEntity() error: %v", err)
	}
	if e.Location() != "DE" {
		t.Errorf("Location() = %q, want country fallback", e.Location())
	}

	_, err = r.FindEntity("acme-fr")
	if !errors.Is(err, errors.ErrCodeEntityNotFound) {
		t.Fatalf("FindEntity(unknown) error = %v", err)
	}
	if !strings.Contains(err.Error(), "acme-nl, acme-de") {
		t.Errorf("error should list available entities: %v", err)
	}
}

func TestEntityTransactions(t *testing.T) {
	r := mustParse(t)
	txs := r.EntityTransactions("acme-nl")
	var ids []string
	for _, tx := range txs {
		ids = append(ids, tx.ID)
	}
	if diff := cmp.Diff([]string{"tx-1", "tx-2"}, ids); diff != "" {
		t.Errorf("EntityTransactions() mismatch (-want +got):\n%s", diff)
	}
	if got := txs[0].Counterparty("acme-nl"); got != "acme-de" {
		t.Errorf("Counterparty() = %q", got)
	}
	if got := txs[0].TestedProfile(); got != "distributor" {
		t.Errorf("TestedProfile() = %q", got)
	}
	if got := txs[1].FormattedAmount(); got != "5,000,000" {
		t.Errorf("FormattedAmount() = %q", got)
	}
	if !txs[1].IsFinancial() || txs[0].IsFinancial() {
		t.Error("IsFinancial() mismatch")
	}
}

func TestLookups(t *testing.T) {
	r := mustParse(t)

	if got := r.EntityName("acme-de"); got != "Acme GmbH" {
		t.Errorf("EntityName() = %q", got)
	}
	if got := r.EntityName("acme-us"); got != "acme-us" {
		t.Errorf("EntityName(unknown) = %q, want id", got)
	}
	if _, ok := r.Transaction("tx-3"); !ok {
		t.Error("Transaction(tx-3) not found")
	}
	bm, ok := r.Benchmark("bm-dist")
	if !ok {
		t.Fatal("Benchmark() not found")
	}
	tbl, ok := bm.Table("search_results")
	if !ok || tbl.Rows.Len() != 1 {
		t.Errorf("Table() = %+v, %v", tbl, ok)
	}
	if diff := cmp.Diff([]string{"tx-1"}, r.CoveredTransactions("acme-nl")); diff != "" {
		t.Errorf("CoveredTransactions() mismatch (-want +got):\n%s", diff)
	}
	if r.CoveredTransactions("acme-de") != nil {
		t.Error("CoveredTransactions() without local file should be nil")
	}
}

func TestHumanizeTransactionType(t *testing.T) {
	tests := map[string]string{
		"tangible-goods":      "Transfer of Tangible Goods",
		"factoring":           "Receivables Factoring",
		"royalty-free-access": "Royalty Free Access",
		"":                    "",
	}
	for in, want := range tests {
		if got := HumanizeTransactionType(in); got != want {
			t.Errorf("HumanizeTransactionType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFiscalYearAndCurrency(t *testing.T) {
	if got := FiscalYear(nil, json.Number("2024")); got != "2024" {
		t.Errorf("FiscalYear() = %q", got)
	}
	if got := FiscalYear("", nil); got != "" {
		t.Errorf("FiscalYear() = %q, want empty", got)
	}
	if got := Currency(nil); got != "EUR" {
		t.Errorf("Currency(nil) = %q", got)
	}
	if got := Currency([]*Transaction{{Currency: "USD"}}); got != "USD" {
		t.Errorf("Currency() = %q", got)
	}
}
