package autotable

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/localfile/pkg/records"
)

const sampleRecords = `{
  "entities": [
    {"id": "acme-nl", "name": "Acme NL"},
    {"id": "acme-de", "name": "Acme DE"},
    {"id": "acme-us", "name": "Acme US"}
  ],
  "transactions": [
    {"id": "tx-1", "name": "Goods", "from_entity": "acme-de", "to_entity": "acme-nl",
     "transaction_type": "tangible-goods", "amount": 1200000, "currency": "EUR",
     "contractual_terms": {"payment_terms": "60 days", "incoterms": "DAP & FCA"},
     "characteristics": {"product_type": "Consumer goods"},
     "economic_circumstances": {}},
    {"id": "tx-2", "name": "Loan", "from_entity": "acme-nl", "to_entity": "acme-de",
     "transaction_type": "loan-arrangement", "amount": 5000000, "currency": "USD",
     "contractual_terms": {"interest_rate": "4.5%", "maturity": 5},
     "characteristics": {"ignored": "yes"}},
    {"id": "tx-3", "name": "Services", "from_entity": "acme-us", "to_entity": "acme-nl",
     "transaction_type": "services", "amount": 2500, "currency": "EUR"},
    {"id": "tx-4", "name": "Elsewhere", "from_entity": "acme-de", "to_entity": "acme-us"}
  ],
  "benchmarks": [
    {"id": "dist-study", "name": "Distributor study", "transactions": ["tx-1"],
     "tables": [{"id": "search_results", "columns": ["Company", "Revenue", "Margin"],
                 "rows": {"r1": ["Comp & Co", 125000, 2.5], "r2": ["Beta", 900, 3]}}]},
    {"id": "unused", "transactions": ["tx-4"], "tables": []}
  ],
  "local_files": [{"entity": "acme-nl", "covered_transactions": ["tx-1", "tx-2"]}]
}`

func testContext(t *testing.T, entity string) Context {
	t.Helper()
	recs, err := records.Parse([]byte(sampleRecords), "records.json")
	if err != nil {
		t.Fatal(err)
	}
	return Context{Records: recs, EntityID: entity, Transactions: recs.EntityTransactions(entity)}
}

func TestIsAuto(t *testing.T) {
	tests := map[string]bool{
		"preamble_transactions_overview":       true,
		"transactions_not_covered":             true,
		"tx_1_contractual_terms":               true,
		"tx_12_characteristics":                true,
		"tx_3_economic_circumstances":          true,
		"bm_dist_study_search_results":         true,
		"bm_x_adjustments":                     true,
		"tx_1_contractual_terms_intro":         false,
		"tx_a_contractual_terms":               false,
		"bm_dist_study_conclusion":             false,
		"transactions_not_covered_intro":       false,
		"group_overview":                       false,
		"bm__allocation":                       false,
		"preamble_transactions_overview_intro": false,
	}
	for key, want := range tests {
		if got := IsAuto(key); got != want {
			t.Errorf("IsAuto(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestOverview(t *testing.T) {
	r := Build(KeyOverview, testContext(t, "acme-nl"))

	want := strings.Join([]string{
		`\begin{tabularx}{\textwidth}{XllXr}`,
		`\toprule`,
		`Description & From & To & Currency & Amount \\`,
		`\midrule`,
		`Goods & Acme DE & Acme NL & EUR & 1,200,000 \\`,
		`Loan & Acme NL & Acme DE & USD & 5,000,000 \\`,
		`\bottomrule`,
		`\end{tabularx}`,
	}, "\n")
	if diff := cmp.Diff(want, LaTeX(r)); diff != "" {
		t.Errorf("LaTeX() mismatch (-want +got):\n%s", diff)
	}

	html := HTML(r)
	if !strings.HasPrefix(html, `<table class="doc-table"><thead><tr><th>Description</th><th>From</th>`) {
		t.Errorf("HTML() = %s", html)
	}
	if !strings.Contains(html, `<td style="text-align:right">1,200,000</td>`) {
		t.Errorf("HTML() should right-align amounts: %s", html)
	}

	md := Markdown(r)
	wantMD := "| Description | From | To | Currency | Amount |\n|---|---|---|---|---:|\n| Goods | Acme DE | Acme NL | EUR | 1,200,000 |"
	if !strings.HasPrefix(md, wantMD) {
		t.Errorf("Markdown() = %q", md)
	}
}

func TestOverviewFallsBackToEntityTransactions(t *testing.T) {
	r := Build(KeyOverview, testContext(t, "acme-us"))
	if r.Kind != KindTable || len(r.Table.Rows) != 2 {
		t.Fatalf("Build() = %+v", r)
	}
	if r.Table.Rows[0][0].Text != "Services" || r.Table.Rows[1][0].Text != "Elsewhere" {
		t.Errorf("rows = %+v", r.Table.Rows)
	}
}

func TestNotCovered(t *testing.T) {
	r := Build(KeyNotCovered, testContext(t, "acme-nl"))
	if got, want := LaTeX(r), `Services & Acme US & Provision of Services & 2,500 \\`; !strings.Contains(got, want) {
		t.Errorf("LaTeX() = %s, want row %s", got, want)
	}
	if !strings.Contains(LaTeX(r), "{Xllr}") {
		t.Errorf("LaTeX() spec: %s", LaTeX(r))
	}
	wantHTML := `<tr><td>Services</td><td>Acme US</td><td>Provision of Services</td><td style="text-align:right">2,500</td></tr>`
	if !strings.Contains(HTML(r), wantHTML) {
		t.Errorf("HTML() = %s", HTML(r))
	}

	// Without a local file every entity transaction counts as covered.
	r = Build(KeyNotCovered, testContext(t, "acme-de"))
	if r.Kind != KindSentence {
		t.Fatalf("Kind = %v, want sentence", r.Kind)
	}
	if !strings.HasPrefix(LaTeX(r), "No additional intercompany transactions") {
		t.Errorf("LaTeX() = %q", LaTeX(r))
	}
	if html := HTML(r); !strings.HasPrefix(html, "<p>No additional") || !strings.HasSuffix(html, "</p>") {
		t.Errorf("HTML() = %q", html)
	}
}

func TestContractualTerms(t *testing.T) {
	ctx := testContext(t, "acme-nl")

	r := Build("tx_1_contractual_terms", ctx)
	wantHTML := `<table class="doc-table"><thead><tr><th>Term</th><th>Detail</th></tr></thead><tbody>` +
		`<tr><td><strong>Payment Terms</strong></td><td>60 days</td></tr>` +
		`<tr><td><strong>Incoterms</strong></td><td>DAP &amp; FCA</td></tr></tbody></table>`
	if diff := cmp.Diff(wantHTML, HTML(r)); diff != "" {
		t.Errorf("HTML() mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(LaTeX(r), `{lX}`) || !strings.Contains(LaTeX(r), `Incoterms & DAP \& FCA \\`) {
		t.Errorf("LaTeX() = %s", LaTeX(r))
	}

	// Financial transactions render transposed.
	r = Build("tx_2_contractual_terms", ctx)
	want := strings.Join([]string{
		`\begin{tabularx}{\textwidth}{XX}`,
		`\toprule`,
		`Interest Rate & Maturity \\`,
		`\midrule`,
		`4.5\% & 5 \\`,
		`\bottomrule`,
		`\end{tabularx}`,
	}, "\n")
	if diff := cmp.Diff(want, LaTeX(r)); diff != "" {
		t.Errorf("LaTeX() mismatch (-want +got):\n%s", diff)
	}
	if got := HTML(r); !strings.Contains(got, "<tbody><tr><td>4.5%</td><td>5</td></tr></tbody>") {
		t.Errorf("HTML() = %s", got)
	}
}

func TestTransactionTablesEmpty(t *testing.T) {
	ctx := testContext(t, "acme-nl")
	tests := []struct {
		key  string
		kind Kind
	}{
		{"tx_1_characteristics", KindTable},
		{"tx_2_characteristics", KindOmitted},
		{"tx_1_economic_circumstances", KindEmpty},
		{"tx_3_contractual_terms", KindEmpty},
		{"tx_9_contractual_terms", KindNotFound},
	}
	for _, tt := range tests {
		r := Build(tt.key, ctx)
		if r.Kind != tt.kind {
			t.Errorf("Build(%q).Kind = %v, want %v", tt.key, r.Kind, tt.kind)
		}
		if (tt.kind == KindEmpty || tt.kind == KindOmitted) && (LaTeX(r) != "" || HTML(r) != "" || Markdown(r) != "") {
			t.Errorf("%q should encode as empty", tt.key)
		}
	}
	r := Build("tx_1_characteristics", ctx)
	if !strings.Contains(HTML(r), "<th>Characteristic</th><th>Description</th>") {
		t.Errorf("HTML() = %s", HTML(r))
	}
	if got := LaTeX(Build("tx_9_contractual_terms", ctx)); got != "% Transaction tx-9 not found" {
		t.Errorf("LaTeX() = %q", got)
	}
	if got := HTML(Build("tx_9_contractual_terms", ctx)); got != "" {
		t.Errorf("HTML() = %q", got)
	}
}

func TestBenchmarkTables(t *testing.T) {
	ctx := testContext(t, "acme-nl")

	r := Build("bm_dist_study_search_results", ctx)
	want := strings.Join([]string{
		`\begin{tabularx}{\textwidth}{lXX}`,
		`\toprule`,
		`Company & Revenue & Margin \\`,
		`\midrule`,
		`Comp \& Co & 125,000 & 2.5 \\`,
		`Beta & 900 & 3 \\`,
		`\bottomrule`,
		`\end{tabularx}`,
	}, "\n")
	if diff := cmp.Diff(want, LaTeX(r)); diff != "" {
		t.Errorf("LaTeX() mismatch (-want +got):\n%s", diff)
	}
	if got := HTML(r); !strings.Contains(got, "<tr><td>Comp &amp; Co</td><td>125000</td><td>2.5</td></tr>") {
		t.Errorf("HTML() = %s", got)
	}

	missing := map[string]string{
		"bm_dist_study_allocation": "% Table allocation not found in benchmark dist-study",
		"bm_nope_allocation":       "% Benchmark nope not found",
	}
	for key, want := range missing {
		r := Build(key, ctx)
		if got := LaTeX(r); got != want {
			t.Errorf("LaTeX(%q) = %q, want %q", key, got, want)
		}
		if HTML(r) != "" {
			t.Errorf("HTML(%q) should be empty", key)
		}
	}
}

func TestUnknownKey(t *testing.T) {
	r := Build("group_overview", testContext(t, "acme-nl"))
	if got := LaTeX(r); got != "% Unknown auto section: group_overview" {
		t.Errorf("LaTeX() = %q", got)
	}
	if HTML(r) != "" || Markdown(r) != "" {
		t.Error("unknown keys should not render in HTML or Markdown")
	}
}

func TestFallbackKeys(t *testing.T) {
	ctx := testContext(t, "acme-nl")
	got := FallbackKeys([]string{"group_overview", "tx_1_contractual_terms"}, ctx)
	want := []string{
		"group_overview",
		"tx_1_contractual_terms",
		"preamble_transactions_overview",
		"transactions_not_covered",
		"tx_1_characteristics",
		"tx_1_economic_circumstances",
		"tx_2_contractual_terms",
		"tx_2_economic_circumstances",
		"tx_3_contractual_terms",
		"tx_3_characteristics",
		"tx_3_economic_circumstances",
		"bm_dist_study_allocation",
		"bm_dist_study_search_strategy",
		"bm_dist_study_search_results",
		"bm_dist_study_adjustments",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FallbackKeys() mismatch (-want +got):\n%s", diff)
	}
}
