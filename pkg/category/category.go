// Package category groups flat section keys into report chapters when a
// blueprint has no chapter tree.
//
// Keys follow naming conventions (preamble_*, fp_*, tx_<n>_*, bm_<slug>_*)
// that [Of] maps to a fixed set of categories. [Group] buckets keys in
// [Order]; [Profiles], [TransactionGroups] and [Benchmarks] split the economic
// analysis categories into per-profile, per-type and per-benchmark groups.
package category

import (
	"strings"

	"github.com/matzehuels/localfile/pkg/textfmt"
)

// ID identifies a category.
type ID string

// Categories in display order.
const (
	Preamble     ID = "preamble"
	Business     ID = "business"
	Industry     ID = "industry"
	Functional   ID = "functional"
	Transactions ID = "transactions"
	Benchmark    ID = "benchmark"
	Closing      ID = "closing"
	Other        ID = "other"
)

// Order is the fixed order categories are emitted in.
var Order = []ID{Preamble, Business, Industry, Functional, Transactions, Benchmark, Closing, Other}

var labels = map[ID]string{
	Preamble:     "Report Preamble",
	Business:     "Business Description",
	Industry:     "Industry Analysis",
	Functional:   "Functional Analysis",
	Transactions: "Controlled Transactions",
	Benchmark:    "Benchmark Application",
	Closing:      "Closing",
	Other:        "Other",
}

// Label returns the display label of a category.
func (id ID) Label() string { return labels[id] }

var businessKeys = map[string]bool{
	"executive_summary":   true,
	"group_overview":      true,
	"entity_introduction": true,
}

var businessPrefixes = []string{"management_", "business_", "local_", "intangible_"}

type rule struct {
	match func(key string) bool
	id    ID
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{prefix("preamble_"), Preamble},
	{func(k string) bool { return businessKeys[k] || hasAnyPrefix(k, businessPrefixes) }, Business},
	{prefix("industry_analysis"), Industry},
	{prefix("fp_"), Functional},
	{prefix("tx_"), Transactions},
	{prefix("bm_"), Benchmark},
	{func(k string) bool { return strings.HasPrefix(k, "transactions_not_covered") || k == "appendices" }, Closing},
}

func prefix(p string) func(string) bool {
	return func(k string) bool { return strings.HasPrefix(k, p) }
}

func hasAnyPrefix(k string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(k, p) {
			return true
		}
	}
	return false
}

// Of returns the category of a section key.
func Of(key string) ID {
	for _, r := range rules {
		if r.match(key) {
			return r.id
		}
	}
	return Other
}

// Bucket is a category together with its keys in input order.
type Bucket struct {
	ID   ID
	Keys []string
}

// Label returns the bucket's category label.
func (b Bucket) Label() string { return b.ID.Label() }

// Group buckets keys by category. Buckets follow [Order]; empty
// categories are omitted.
func Group(keys []string) []Bucket {
	byID := make(map[ID][]string)
	for _, k := range keys {
		id := Of(k)
		byID[id] = append(byID[id], k)
	}
	var out []Bucket
	for _, id := range Order {
		if ks := byID[id]; len(ks) > 0 {
			out = append(out, Bucket{ID: id, Keys: ks})
		}
	}
	return out
}

var humanizePrefixes = []string{"preamble_", "fp_", "tx_", "bm_"}

// HumanizeKey returns the display label of a section key. The first
// matching category prefix is dropped:
//
//	group_overview                         → Group Overview
//	fp_limited_risk_distributor_functions  → Limited Risk Distributor Functions
//	tx_001_summary                         → 001 Summary
func HumanizeKey(key string) string {
	display := key
	for _, p := range humanizePrefixes {
		if strings.HasPrefix(display, p) {
			display = strings.TrimPrefix(display, p)
			break
		}
	}
	return textfmt.Humanize(display)
}
