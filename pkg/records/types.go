package records

import (
	"github.com/matzehuels/localfile/pkg/textfmt"
)

// financialTypes are transaction types analysed as financing arrangements.
// Their contractual terms render transposed and they carry no separate
// characteristics table.
var financialTypes = map[string]bool{
	"loan-arrangement":              true,
	"cash-pooling":                  true,
	"financial-guarantees":          true,
	"factoring":                     true,
	"hybrid-instruments":            true,
	"asset-management":              true,
	"captive-insurance":             true,
	"cost-contribution-arrangement": true,
}

// IsFinancialType reports whether a transaction type is financial.
func IsFinancialType(txType string) bool {
	return financialTypes[txType]
}

var transactionTypeLabels = map[string]string{
	"tangible-goods":                "Transfer of Tangible Goods",
	"services":                      "Provision of Services",
	"intangibles":                   "Licensing of Intangibles",
	"sale-of-intangibles":           "Sale of Intangibles",
	"loan-arrangement":              "Loan Arrangements",
	"cash-pooling":                  "Cash Pooling",
	"financial-guarantees":          "Financial Guarantees",
	"factoring":                     "Receivables Factoring",
	"hybrid-instruments":            "Hybrid Instruments",
	"captive-insurance":             "Captive Insurance",
	"cost-contribution-arrangement": "Cost Contribution Arrangements",
	"asset-management":              "Asset Management",
}

// HumanizeTransactionType returns the display label of a transaction type.
// Unknown types are title-cased from their slug.
func HumanizeTransactionType(txType string) string {
	if label, ok := transactionTypeLabels[txType]; ok {
		return label
	}
	return textfmt.HumanizeSlug(txType)
}

// FiscalYear picks the first non-empty fiscal year among the candidates
// and renders it as text. It returns "" when none is set.
func FiscalYear(candidates ...any) string {
	for _, c := range candidates {
		if s := textfmt.Scalar(c); s != "" {
			return s
		}
	}
	return ""
}

// Currency returns the currency of the first transaction, or EUR.
func Currency(txs []*Transaction) string {
	if len(txs) > 0 && txs[0].Currency != "" {
		return txs[0].Currency
	}
	return "EUR"
}
