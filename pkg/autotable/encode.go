package autotable

import (
	"strings"

	"github.com/matzehuels/localfile/pkg/textfmt"
)

// LaTeX encodes a result as a booktabs tabularx table. Missing records
// and unknown keys become LaTeX comments so the document still compiles.
func LaTeX(r Result) string {
	switch r.Kind {
	case KindTable:
		return latexTable(r.Table)
	case KindSentence:
		return r.Sentence
	case KindNotFound:
		return "% " + r.Missing
	case KindUnknown:
		return "% Unknown auto section: " + r.Key
	default:
		return ""
	}
}

func latexTable(t *Table) string {
	var b strings.Builder
	b.WriteString(`\begin{tabularx}{\textwidth}{` + t.Spec + "}\n")
	b.WriteString("\\toprule\n")
	header := make([]string, len(t.Header))
	for i, h := range t.Header {
		header[i] = textfmt.EscapeLaTeX(h)
	}
	b.WriteString(strings.Join(header, " & ") + ` \\` + "\n")
	b.WriteString("\\midrule\n")
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			if c.TeX != "" {
				cells[i] = c.TeX
			} else {
				cells[i] = textfmt.EscapeLaTeX(c.Text)
			}
		}
		b.WriteString(strings.Join(cells, " & ") + ` \\` + "\n")
	}
	b.WriteString("\\bottomrule\n")
	b.WriteString(`\end{tabularx}`)
	return b.String()
}

// HTML encodes a result as a doc-table. Results without content encode
// as "" so callers can show their own placeholder.
func HTML(r Result) string {
	switch r.Kind {
	case KindTable:
		return htmlTable(r.Table)
	case KindSentence:
		return "<p>" + textfmt.EscapeHTML(r.Sentence) + "</p>"
	default:
		return ""
	}
}

func htmlTable(t *Table) string {
	var b strings.Builder
	b.WriteString(`<table class="doc-table"><thead><tr>`)
	for _, h := range t.Header {
		b.WriteString("<th>" + textfmt.EscapeHTML(h) + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for _, c := range row {
			text := textfmt.EscapeHTML(c.Text)
			switch {
			case c.Strong:
				b.WriteString("<td><strong>" + text + "</strong></td>")
			case c.Right:
				b.WriteString(`<td style="text-align:right">` + text + "</td>")
			default:
				b.WriteString("<td>" + text + "</td>")
			}
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

// Markdown encodes a result as a pipe table.
func Markdown(r Result) string {
	switch r.Kind {
	case KindTable:
		return markdownTable(r.Table)
	case KindSentence:
		return r.Sentence
	default:
		return ""
	}
}

var mdCellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func markdownTable(t *Table) string {
	lines := make([]string, 0, len(t.Rows)+2)
	header := make([]string, len(t.Header))
	rule := make([]string, len(t.Header))
	for i, h := range t.Header {
		header[i] = mdCellEscaper.Replace(h)
		rule[i] = "---"
	}
	if len(t.Rows) > 0 {
		for i, c := range t.Rows[0] {
			if c.Right && i < len(rule) {
				rule[i] = "---:"
			}
		}
	}
	lines = append(lines, "| "+strings.Join(header, " | ")+" |", "|"+strings.Join(rule, "|")+"|")
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			text := mdCellEscaper.Replace(c.Text)
			if c.Strong {
				text = "**" + text + "**"
			}
			cells[i] = text
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}
