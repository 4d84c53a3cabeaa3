package category

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/localfile/pkg/records"
	"github.com/matzehuels/localfile/pkg/textfmt"
)

// OtherSubgroup collects keys that do not fit a named subgroup.
const OtherSubgroup = "_other"

// Subgroup is a titled run of keys inside one category.
type Subgroup struct {
	ID    string
	Title string
	Keys  []string
}

// subgroups accumulates keys per id in first-seen order.
type subgroups struct {
	order []string
	byID  map[string]*Subgroup
}

func newSubgroups() *subgroups {
	return &subgroups{byID: make(map[string]*Subgroup)}
}

func (s *subgroups) add(id, title, key string) {
	g, ok := s.byID[id]
	if !ok {
		g = &Subgroup{ID: id, Title: title}
		s.byID[id] = g
		s.order = append(s.order, id)
	}
	g.Keys = append(g.Keys, key)
}

func (s *subgroups) list() []Subgroup {
	out := make([]Subgroup, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

var profileKeyRe = regexp.MustCompile(`^fp_(.+?)_(overview|functions|assets|risks)$`)

// Profiles splits functional analysis keys by profile slug. Keys that do not
// end in a known block name are collected under [OtherSubgroup].
func Profiles(keys []string) []Subgroup {
	s := newSubgroups()
	for _, k := range keys {
		if m := profileKeyRe.FindStringSubmatch(k); m != nil {
			s.add(m[1], textfmt.Humanize(m[1]), k)
			continue
		}
		s.add(OtherSubgroup, "Other", k)
	}
	return s.list()
}

var txKeyRe = regexp.MustCompile(`^tx_(\d+)_`)

// TransactionID maps a tx_<n>_* section key to its transaction id "tx-<n>".
func TransactionID(key string) (string, bool) {
	m := txKeyRe.FindStringSubmatch(key)
	if m == nil {
		return "", false
	}
	return "tx-" + m[1], true
}

// TransactionGroups splits controlled transaction keys by the humanized type of
// the transaction they belong to. Transactions are looked up across the
// whole group. Keys without a transaction number, or whose transaction is
// unknown, are collected under [OtherSubgroup].
func TransactionGroups(keys []string, recs *records.Records) []Subgroup {
	s := newSubgroups()
	for _, k := range keys {
		id, ok := TransactionID(k)
		if !ok {
			s.add(OtherSubgroup, "Other Transactions", k)
			continue
		}
		tx, found := recs.Transaction(id)
		if !found || tx.TransactionType == "" {
			s.add(OtherSubgroup, "Other Transactions", k)
			continue
		}
		label := records.HumanizeTransactionType(tx.TransactionType)
		s.add(label, label, k)
	}
	return s.list()
}

var benchmarkKeyRe = regexp.MustCompile(`^bm_(.+?)_(allocation|search_strategy|search_results|adjustments)(_intro)?$`)

// Benchmarks splits benchmark keys by benchmark. A key belongs to the
// longest known benchmark slug (id with "-" → "_") it starts with. Keys
// matching no known benchmark fall back to the slug before a table suffix,
// or to everything after "bm_", and are reported through logger.
//
// Subgroup titles use the benchmark name from the records when the slug
// maps back to a known benchmark id.
func Benchmarks(keys []string, recs *records.Records, logger *log.Logger) []Subgroup {
	if logger == nil {
		logger = log.Default()
	}
	known := make([]string, 0, len(recs.Benchmarks))
	for _, bm := range recs.Benchmarks {
		known = append(known, strings.ReplaceAll(bm.ID, "-", "_"))
	}

	s := newSubgroups()
	for _, k := range keys {
		rest := strings.TrimPrefix(k, "bm_")
		slug := ""
		for _, candidate := range known {
			if (rest == candidate || strings.HasPrefix(rest, candidate+"_")) && len(candidate) > len(slug) {
				slug = candidate
			}
		}
		if slug == "" {
			if m := benchmarkKeyRe.FindStringSubmatch(k); m != nil {
				slug = m[1]
			} else {
				slug = rest
			}
			logger.Warn("section key matches no known benchmark", "key", k, "grouped_as", slug)
		}
		s.add(slug, benchmarkTitle(slug, recs), k)
	}
	return s.list()
}

func benchmarkTitle(slug string, recs *records.Records) string {
	if bm, ok := recs.Benchmark(strings.ReplaceAll(slug, "_", "-")); ok && bm.Name != "" {
		return bm.Name
	}
	return textfmt.Humanize(slug)
}
