// Package autotable builds the tables that some sections take from the
// records instead of from prose.
//
// A section key is an auto key when [IsAuto] accepts it: the transactions
// overview, the not-covered list, the per-transaction term tables and the
// benchmark tables. [Build] turns such a key into a format-neutral
// [Result]; [LaTeX], [HTML] and [Markdown] encode it for each renderer.
package autotable

import (
	"regexp"
	"strings"

	"github.com/matzehuels/localfile/pkg/ordered"
	"github.com/matzehuels/localfile/pkg/records"
	"github.com/matzehuels/localfile/pkg/textfmt"
)

// Fixed auto keys.
const (
	KeyOverview    = "preamble_transactions_overview"
	KeyNotCovered  = "transactions_not_covered"
	notCoveredText = "No additional intercompany transactions were identified for the tested entity that are not covered in this documentation."
)

// Transaction and benchmark table names that auto keys may end in.
var (
	TransactionTables = []string{"contractual_terms", "characteristics", "economic_circumstances"}
	BenchmarkTables   = []string{"allocation", "search_strategy", "search_results", "adjustments"}
)

var (
	txAutoRe = regexp.MustCompile(`^tx_(\d+)_(contractual_terms|characteristics|economic_circumstances)$`)
	bmAutoRe = regexp.MustCompile(`^bm_(.+?)_(allocation|search_strategy|search_results|adjustments)$`)
)

// IsAuto reports whether key names a generated table.
func IsAuto(key string) bool {
	return key == KeyOverview || key == KeyNotCovered || txAutoRe.MatchString(key) || bmAutoRe.MatchString(key)
}

// Kind is the shape of a build result.
type Kind int

const (
	// KindEmpty means there is nothing to show, e.g. an empty term map.
	KindEmpty Kind = iota
	// KindTable carries a Table.
	KindTable
	// KindSentence carries a fixed sentence.
	KindSentence
	// KindNotFound means the records lack the transaction, benchmark or
	// table the key refers to.
	KindNotFound
	// KindUnknown means the key is not an auto key.
	KindUnknown
	// KindOmitted means the table does not apply to the transaction,
	// e.g. characteristics of a financial transaction. Renderers leave
	// the section out.
	KindOmitted
)

// Result is a generated section.
type Result struct {
	Key      string
	Kind     Kind
	Table    *Table
	Sentence string
	Missing  string // what was not found, e.g. "Transaction tx-3 not found"
}

// Table is a generated table.
type Table struct {
	Spec   string // tabularx column spec
	Header []string
	Rows   [][]Cell
}

// Cell is one table cell.
type Cell struct {
	Text   string
	TeX    string // pre-formatted LaTeX, used verbatim when set
	Strong bool   // emphasised label cell
	Right  bool   // right-aligned amount
}

func textCell(s string) Cell { return Cell{Text: s} }
func labelCell(s string) Cell { return Cell{Text: s, Strong: true} }
func amountCell(v any) Cell {
	s := textfmt.Amount(v)
	if v == nil {
		s = "0"
	}
	return Cell{Text: s, TeX: s, Right: true}
}

// Context carries the records a table is built from.
type Context struct {
	Records      *records.Records
	EntityID     string
	Transactions []*records.Transaction // transactions involving the entity
}

// Build generates the content of an auto section.
func Build(key string, ctx Context) Result {
	switch {
	case key == KeyOverview:
		return overview(ctx)
	case key == KeyNotCovered:
		return notCovered(ctx)
	}
	if m := txAutoRe.FindStringSubmatch(key); m != nil {
		return transactionTable(key, "tx-"+m[1], m[2], ctx)
	}
	if m := bmAutoRe.FindStringSubmatch(key); m != nil {
		return benchmarkTable(key, strings.ReplaceAll(m[1], "_", "-"), m[2], ctx)
	}
	return Result{Key: key, Kind: KindUnknown}
}

func overview(ctx Context) Result {
	var txs []*records.Transaction
	if covered := ctx.Records.CoveredTransactions(ctx.EntityID); len(covered) > 0 {
		set := toSet(covered)
		for i := range ctx.Records.Transactions {
			if set[ctx.Records.Transactions[i].ID] {
				txs = append(txs, &ctx.Records.Transactions[i])
			}
		}
	}
	if len(txs) == 0 {
		txs = ctx.Transactions
	}

	t := &Table{Spec: "XllXr", Header: []string{"Description", "From", "To", "Currency", "Amount"}}
	for _, tx := range txs {
		t.Rows = append(t.Rows, []Cell{
			textCell(tx.Name),
			textCell(ctx.Records.EntityName(tx.FromEntity)),
			textCell(ctx.Records.EntityName(tx.ToEntity)),
			textCell(tx.Currency),
			amountCell(tx.Amount),
		})
	}
	return Result{Key: KeyOverview, Kind: KindTable, Table: t}
}

func notCovered(ctx Context) Result {
	covered := toSet(ctx.Records.CoveredTransactions(ctx.EntityID))
	if len(covered) == 0 {
		for _, tx := range ctx.Transactions {
			covered[tx.ID] = true
		}
	}

	t := &Table{Spec: "Xllr", Header: []string{"Transaction", "Counterparty", "Type", "Amount"}}
	for _, tx := range ctx.Records.EntityTransactions(ctx.EntityID) {
		if covered[tx.ID] {
			continue
		}
		t.Rows = append(t.Rows, []Cell{
			textCell(tx.Name),
			textCell(ctx.Records.EntityName(tx.Counterparty(ctx.EntityID))),
			textCell(records.HumanizeTransactionType(tx.TransactionType)),
			amountCell(tx.Amount),
		})
	}
	if len(t.Rows) == 0 {
		return Result{Key: KeyNotCovered, Kind: KindSentence, Sentence: notCoveredText}
	}
	return Result{Key: KeyNotCovered, Kind: KindTable, Table: t}
}

func transactionTable(key, txID, table string, ctx Context) Result {
	tx, ok := ctx.Records.Transaction(txID)
	if !ok {
		return Result{Key: key, Kind: KindNotFound, Missing: "Transaction " + txID + " not found"}
	}
	empty := Result{Key: key, Kind: KindEmpty}

	switch table {
	case "contractual_terms":
		terms := tx.ContractualTerms
		if terms.Len() == 0 {
			return empty
		}
		if tx.IsFinancial() {
			return Result{Key: key, Kind: KindTable, Table: transposed(terms)}
		}
		return Result{Key: key, Kind: KindTable, Table: pairs(terms, "Term", "Detail")}
	case "characteristics":
		if tx.IsFinancial() {
			return Result{Key: key, Kind: KindOmitted}
		}
		if tx.Characteristics.Len() == 0 {
			return empty
		}
		return Result{Key: key, Kind: KindTable, Table: pairs(tx.Characteristics, "Characteristic", "Description")}
	case "economic_circumstances":
		if tx.EconomicCircumstances.Len() == 0 {
			return empty
		}
		return Result{Key: key, Kind: KindTable, Table: pairs(tx.EconomicCircumstances, "Factor", "Analysis")}
	}
	return Result{Key: key, Kind: KindUnknown}
}

// transposed lays a term map out as one row with a column per term.
func transposed(m *ordered.Map) *Table {
	t := &Table{Spec: strings.Repeat("X", m.Len())}
	row := make([]Cell, 0, m.Len())
	m.Range(func(k string, v any) bool {
		t.Header = append(t.Header, textfmt.Humanize(k))
		row = append(row, textCell(ordered.Text(v)))
		return true
	})
	t.Rows = [][]Cell{row}
	return t
}

// pairs lays a term map out as label/value rows.
func pairs(m *ordered.Map, keyHeader, valueHeader string) *Table {
	t := &Table{Spec: "lX", Header: []string{keyHeader, valueHeader}}
	m.Range(func(k string, v any) bool {
		t.Rows = append(t.Rows, []Cell{labelCell(textfmt.Humanize(k)), textCell(ordered.Text(v))})
		return true
	})
	return t
}

func benchmarkTable(key, bmID, tableID string, ctx Context) Result {
	bm, ok := ctx.Records.Benchmark(bmID)
	if !ok {
		return Result{Key: key, Kind: KindNotFound, Missing: "Benchmark " + bmID + " not found"}
	}
	tbl, ok := bm.Table(tableID)
	if !ok {
		return Result{Key: key, Kind: KindNotFound, Missing: "Table " + tableID + " not found in benchmark " + bmID}
	}
	if len(tbl.Columns) == 0 || tbl.Rows.Len() == 0 {
		return Result{Key: key, Kind: KindEmpty}
	}

	spec := "X"
	if n := len(tbl.Columns); n > 1 {
		spec = "l" + strings.Repeat("X", n-1)
	}
	t := &Table{Spec: spec, Header: append([]string(nil), tbl.Columns...)}
	tbl.Rows.Range(func(_ string, v any) bool {
		values, ok := v.([]any)
		if !ok {
			values = []any{v}
		}
		row := make([]Cell, 0, len(values))
		for _, val := range values {
			row = append(row, benchmarkCell(val))
		}
		t.Rows = append(t.Rows, row)
		return true
	})
	return Result{Key: key, Kind: KindTable, Table: t}
}

// benchmarkCell formats numbers for print: integers above 999 get
// thousands separators, other numbers keep their literal form.
func benchmarkCell(v any) Cell {
	text := ordered.Text(v)
	if n, ok := textfmt.IsInt(v); ok && n > 999 {
		return Cell{Text: text, TeX: textfmt.Amount(v)}
	}
	if _, ok := textfmt.Float(v); ok {
		return Cell{Text: text, TeX: text}
	}
	return Cell{Text: text}
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
