package textfmt

import "strings"

var latexEscaper = strings.NewReplacer(
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeLaTeX escapes the characters LaTeX treats as special in running
// text. Backslashes are left alone so authors can write commands.
func EscapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}

var htmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// EscapeHTML escapes text for element content and double-quoted
// attributes. Single quotes pass through, which keeps prose readable in
// contenteditable regions.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`#`, `\#`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
	"\n", " ",
)

// EscapeMarkdown escapes inline text such as headings and table cells so
// it renders literally. Line breaks become spaces.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
