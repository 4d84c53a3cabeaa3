package category

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/localfile/pkg/records"
)

func TestOf(t *testing.T) {
	tests := map[string]ID{
		"preamble_objective":                   Preamble,
		"preamble_transactions_overview":       Preamble,
		"executive_summary":                    Business,
		"group_overview":                       Business,
		"entity_introduction":                  Business,
		"management_structure":                 Business,
		"business_strategy":                    Business,
		"local_organisation":                   Business,
		"intangible_ownership":                 Business,
		"industry_analysis":                    Industry,
		"industry_analysis_market":             Industry,
		"fp_distributor_functions":             Functional,
		"tx_1_summary":                         Transactions,
		"bm_dist_search_results":               Benchmark,
		"transactions_not_covered":             Closing,
		"transactions_not_covered_intro":       Closing,
		"appendices":                           Closing,
		"appendices_extra":                     Other,
		"conclusion":                           Other,
		"executive_summary_objective":          Other,
		"preamble_management_business_local_x": Preamble,
	}
	for key, want := range tests {
		if got := Of(key); got != want {
			t.Errorf("Of(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestGroup(t *testing.T) {
	keys := []string{"appendices", "tx_1_summary", "group_overview", "preamble_objective", "misc", "tx_2_summary"}
	got := Group(keys)
	want := []Bucket{
		{ID: Preamble, Keys: []string{"preamble_objective"}},
		{ID: Business, Keys: []string{"group_overview"}},
		{ID: Transactions, Keys: []string{"tx_1_summary", "tx_2_summary"}},
		{ID: Closing, Keys: []string{"appendices"}},
		{ID: Other, Keys: []string{"misc"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Group() mismatch (-want +got):\n%s", diff)
	}
	if got[0].Label() != "Report Preamble" || got[2].Label() != "Controlled Transactions" {
		t.Errorf("labels = %q, %q", got[0].Label(), got[2].Label())
	}
	if Group(nil) != nil {
		t.Error("Group(nil) should be empty")
	}
}

func TestHumanizeKey(t *testing.T) {
	tests := map[string]string{
		"group_overview":                        "Group Overview",
		"fp_limited_risk_distributor_functions": "Limited Risk Distributor Functions",
		"tx_001_summary":                        "001 Summary",
		"bm_benchmark_a_conclusion":             "Benchmark A Conclusion",
		"preamble_fp_x":                         "Fp X",
	}
	for key, want := range tests {
		if got := HumanizeKey(key); got != want {
			t.Errorf("HumanizeKey(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestProfiles(t *testing.T) {
	keys := []string{
		"fp_limited_risk_distributor_overview",
		"fp_manufacturer_functions",
		"fp_limited_risk_distributor_risks",
		"fp_summary",
	}
	want := []Subgroup{
		{ID: "limited_risk_distributor", Title: "Limited Risk Distributor", Keys: []string{"fp_limited_risk_distributor_overview", "fp_limited_risk_distributor_risks"}},
		{ID: "manufacturer", Title: "Manufacturer", Keys: []string{"fp_manufacturer_functions"}},
		{ID: OtherSubgroup, Title: "Other", Keys: []string{"fp_summary"}},
	}
	if diff := cmp.Diff(want, Profiles(keys)); diff != "" {
		t.Errorf("Profiles() mismatch (-want +got):\n%s", diff)
	}
}

func testRecords() *records.Records {
	return &records.Records{
		Transactions: []records.Transaction{
			{ID: "tx-1", TransactionType: "tangible-goods"},
			{ID: "tx-2", TransactionType: "loan-arrangement"},
			{ID: "tx-3", TransactionType: "tangible-goods"},
		},
		Benchmarks: []records.Benchmark{
			{ID: "dist", Name: "Distributor study"},
			{ID: "dist-eu", Name: "EU distributor study"},
		},
	}
}

func TestTransactionGroups(t *testing.T) {
	keys := []string{"tx_1_summary", "tx_2_summary", "tx_3_summary", "tx_9_summary", "tx_abc_summary"}
	want := []Subgroup{
		{ID: "Transfer of Tangible Goods", Title: "Transfer of Tangible Goods", Keys: []string{"tx_1_summary", "tx_3_summary"}},
		{ID: "Loan Arrangements", Title: "Loan Arrangements", Keys: []string{"tx_2_summary"}},
		{ID: OtherSubgroup, Title: "Other Transactions", Keys: []string{"tx_9_summary", "tx_abc_summary"}},
	}
	if diff := cmp.Diff(want, TransactionGroups(keys, testRecords())); diff != "" {
		t.Errorf("TransactionGroups() mismatch (-want +got):\n%s", diff)
	}
}

func TestTransactionID(t *testing.T) {
	if id, ok := TransactionID("tx_12_contractual_terms"); !ok || id != "tx-12" {
		t.Errorf("TransactionID() = %q, %v", id, ok)
	}
	if _, ok := TransactionID("tx_summary"); ok {
		t.Error("TransactionID() should reject keys without a number")
	}
}

func TestBenchmarks(t *testing.T) {
	var logs bytes.Buffer
	keys := []string{
		"bm_dist_allocation_intro",
		"bm_dist_eu_search_results",
		"bm_dist_conclusion",
		"bm_other_study_search_strategy",
		"bm_loose",
	}
	want := []Subgroup{
		{ID: "dist", Title: "Distributor study", Keys: []string{"bm_dist_allocation_intro", "bm_dist_conclusion"}},
		{ID: "dist_eu", Title: "EU distributor study", Keys: []string{"bm_dist_eu_search_results"}},
		{ID: "other_study", Title: "Other Study", Keys: []string{"bm_other_study_search_strategy"}},
		{ID: "loose", Title: "Loose", Keys: []string{"bm_loose"}},
	}
	got := Benchmarks(keys, testRecords(), log.New(&logs))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Benchmarks() mismatch (-want +got):\n%s", diff)
	}
	for _, k := range []string{"bm_other_study_search_strategy", "bm_loose"} {
		if !strings.Contains(logs.String(), k) {
			t.Errorf("expected a warning for %s", k)
		}
	}
	if strings.Contains(logs.String(), "bm_dist_conclusion") {
		t.Error("known benchmark keys should not warn")
	}
}
