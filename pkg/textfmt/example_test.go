package textfmt_test

import (
	"fmt"

	"github.com/matzehuels/localfile/pkg/textfmt"
)

func ExampleSlugify() {
	fmt.Println(textfmt.Slugify("  Acme NL B.V. "))
	fmt.Println(textfmt.Slugify("Müller & Söhne GmbH"))
	// Output:
	// Acme_NL_BV
	// Müller__Söhne_GmbH
}

func ExampleAmount() {
	fmt.Println(textfmt.Amount(1234567.0))
	fmt.Println(textfmt.Amount(-1250000.4))
	fmt.Println(textfmt.Amount("n/a"))
	// Output:
	// 1,234,567
	// -1,250,000
	// n/a
}

func ExampleHumanizeSlug() {
	fmt.Println(textfmt.HumanizeSlug("tangible-goods"))
	// Output:
	// Tangible Goods
}
