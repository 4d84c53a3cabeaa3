package category_test

import (
	"fmt"

	"github.com/matzehuels/localfile/pkg/category"
)

func ExampleGroup() {
	keys := []string{
		"tx_001_summary",
		"group_overview",
		"preamble_scope",
		"fp_limited_risk_distributor_functions",
		"appendices",
		"notes_for_reviewer",
	}
	for _, b := range category.Group(keys) {
		fmt.Printf("%s: %v\n", b.Label(), b.Keys)
	}
	// Output:
	// Report Preamble: [preamble_scope]
	// Business Description: [group_overview]
	// Functional Analysis: [fp_limited_risk_distributor_functions]
	// Controlled Transactions: [tx_001_summary]
	// Closing: [appendices]
	// Other: [notes_for_reviewer]
}

func ExampleHumanizeKey() {
	fmt.Println(category.HumanizeKey("group_overview"))
	fmt.Println(category.HumanizeKey("fp_limited_risk_distributor_functions"))
	fmt.Println(category.HumanizeKey("tx_001_summary"))
	// Output:
	// Group Overview
	// Limited Risk Distributor Functions
	// 001 Summary
}
