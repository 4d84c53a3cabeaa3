package textfmt

import (
	"encoding/json"
	"testing"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"group overview", "Group Overview"},
		{"LOAN arrangement", "Loan Arrangement"},
		{"tx-2nd", "Tx-2Nd"},
		{"", ""},
		{"o'neil", "O'Neil"},
	}
	for _, tt := range tests {
		if got := Title(tt.in); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHumanize(t *testing.T) {
	if got := Humanize("interest_rate"); got != "Interest Rate" {
		t.Errorf("Humanize() = %q", got)
	}
	if got := HumanizeSlug("contract-manufacturer"); got != "Contract Manufacturer" {
		t.Errorf("HumanizeSlug() = %q", got)
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{json.Number("1200000"), "1,200,000"},
		{json.Number("999"), "999"},
		{json.Number("1234.6"), "1,235"},
		{json.Number("-4500"), "-4,500"},
		{0, "0"},
		{"n/a", "n/a"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := Amount(tt.in); got != tt.want {
			t.Errorf("Amount(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsInt(t *testing.T) {
	if n, ok := IsInt(json.Number("1500")); !ok || n != 1500 {
		t.Errorf("IsInt(1500) = %d, %v", n, ok)
	}
	if _, ok := IsInt(json.Number("2.5")); ok {
		t.Error("IsInt(2.5) should be false")
	}
	if _, ok := IsInt("12"); ok {
		t.Error("IsInt(string) should be false")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Acme Holding B.V._Local_File_FY2024", "Acme_Holding_BV_Local_File_FY2024"},
		{"  Müller GmbH ", "Müller_GmbH"},
		{"Alpha & Omega (NL)", "Alpha__Omega_NL"},
		{"kebab-case", "kebab-case"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"R&D costs 5% of $10", `R\&D costs 5\% of \$10`},
		{"tx_1 #2 {a}", `tx\_1 \#2 \{a\}`},
		{"~x^2", `\textasciitilde{}x\textasciicircum{}2`},
		{`\textbf{keep}`, `\textbf\{keep\}`},
	}
	for _, tt := range tests {
		if got := EscapeLaTeX(tt.in); got != tt.want {
			t.Errorf("EscapeLaTeX(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeHTML(t *testing.T) {
	if got := EscapeHTML(`<b>"A&B"</b> it's`); got != `&lt;b&gt;&quot;A&amp;B&quot;&lt;/b&gt; it's` {
		t.Errorf("EscapeHTML() = %q", got)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Goods | Services", `Goods \| Services`},
		{"R&D *core* [a]", `R&D \*core\* \[a\]`},
		{"fp_lrd #1", `fp\_lrd \#1`},
		{"two\nlines", "two lines"},
	}
	for _, tt := range tests {
		if got := EscapeMarkdown(tt.in); got != tt.want {
			t.Errorf("EscapeMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
