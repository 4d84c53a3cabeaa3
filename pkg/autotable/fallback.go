package autotable

import (
	"strings"

	"github.com/matzehuels/localfile/pkg/records"
)

// FallbackKeys extends the blueprint section keys with the auto keys a
// document without a chapter tree should carry: the overview and the
// not-covered list, the term tables of every entity transaction
// (characteristics only for non-financial types), and the four tables of
// every benchmark that covers one of those transactions. Keys already
// present keep their position; new keys are appended in that order.
func FallbackKeys(keys []string, ctx Context) []string {
	auto := []string{KeyOverview, KeyNotCovered}
	entityTx := make(map[string]bool, len(ctx.Transactions))
	for _, tx := range ctx.Transactions {
		entityTx[tx.ID] = true
		prefix := strings.ReplaceAll(tx.ID, "-", "_") + "_"
		auto = append(auto, prefix+"contractual_terms")
		if !records.IsFinancialType(tx.TransactionType) {
			auto = append(auto, prefix+"characteristics")
		}
		auto = append(auto, prefix+"economic_circumstances")
	}
	for _, bm := range ctx.Records.Benchmarks {
		if !coversAny(bm.Transactions, entityTx) {
			continue
		}
		slug := strings.ReplaceAll(bm.ID, "-", "_")
		for _, table := range BenchmarkTables {
			auto = append(auto, "bm_"+slug+"_"+table)
		}
	}

	out := append([]string(nil), keys...)
	seen := toSet(keys)
	for _, k := range auto {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func coversAny(ids []string, set map[string]bool) bool {
	for _, id := range ids {
		if set[id] {
			return true
		}
	}
	return false
}
