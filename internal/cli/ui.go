package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/localfile/pkg/pipeline"
)

var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)

	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
)

// Status colors shared by the sections table and the section picker.
var (
	colorComplete   lipgloss.TerminalColor = colorGreen
	colorPending    lipgloss.TerminalColor = colorAmber
	colorUnresolved lipgloss.TerminalColor = colorRed
)

// printer writes command output. Commands build one from
// cmd.OutOrStdout() so tests can capture what the user sees.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer { return &printer{w: w} }

func (p *printer) line(icon string, style lipgloss.Style, msg string) {
	fmt.Fprintln(p.w, style.Render(icon)+" "+msg)
}

func (p *printer) success(format string, args ...any) {
	p.line("✓", StyleSuccess, fmt.Sprintf(format, args...))
}

func (p *printer) failure(format string, args ...any) {
	p.line("✗", styleIconError, fmt.Sprintf(format, args...))
}

func (p *printer) warning(format string, args ...any) {
	p.line("!", StyleWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) info(format string, args ...any) {
	p.line("›", styleIconInfo, fmt.Sprintf(format, args...))
}

// detail prints an indented, dimmed line.
func (p *printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written output path.
func (p *printer) file(path string) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func (p *printer) keyValue(key, value string) {
	fmt.Fprintln(p.w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// stats prints e.g. "3 transactions · 10/12 sections complete · 2 unresolved".
func (p *printer) stats(s pipeline.Stats) {
	line := fmt.Sprintf("%d transactions · %d/%d sections complete", s.Transactions, s.Complete, s.Sections)
	out := "  " + StyleDim.Render(line)
	if s.Unresolved > 0 {
		out += StyleDim.Render(" · ") + StyleWarning.Render(fmt.Sprintf("%d unresolved", s.Unresolved))
	}
	fmt.Fprintln(p.w, out)
}

// nextStep suggests a command to run next.
func (p *printer) nextStep(description, cmd string) {
	fmt.Fprintln(p.w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// table prints rows under headers. colors, when non-nil, holds one
// foreground per row; a nil entry keeps the default.
func (p *printer) table(headers []string, rows [][]string, colors []lipgloss.TerminalColor) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			if row >= 0 && row < len(colors) && colors[row] != nil {
				return styleTableCell.Foreground(colors[row])
			}
			return styleTableCell
		})
	fmt.Fprintln(p.w, t.Render())
}

// raw writes s unstyled, for machine-readable output.
func (p *printer) raw(s string) {
	io.WriteString(p.w, s)
}
