package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/localfile/pkg/content"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// sectionItem is one row of the section picker.
type sectionItem struct {
	Key    string
	Layer  string
	Status status
}

func sectionItems(s *content.Sections) []sectionItem {
	items := make([]sectionItem, 0, s.Len())
	for _, k := range s.Keys() {
		items = append(items, sectionItem{
			Key:    k,
			Layer:  s.Meta(k).Label,
			Status: sectionStatus(s.Text(k)),
		})
	}
	return items
}

// SectionPickerModel is the bubbletea model for choosing one section.
type SectionPickerModel struct {
	Items    []sectionItem
	Cursor   int
	Offset   int
	Height   int
	Selected string
}

func newSectionPicker(items []sectionItem) SectionPickerModel {
	return SectionPickerModel{Items: items, Height: 15}
}

func (m SectionPickerModel) Init() tea.Cmd {
	return nil
}

func (m SectionPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "n":
			m = m.nextIncomplete()
		case "enter":
			if len(m.Items) > 0 {
				m.Selected = m.Items[m.Cursor].Key
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

// nextIncomplete moves the cursor to the next section that is not
// complete, wrapping around. It stays put when every section is complete.
func (m SectionPickerModel) nextIncomplete() SectionPickerModel {
	for step := 1; step <= len(m.Items); step++ {
		i := (m.Cursor + step) % len(m.Items)
		if m.Items[i].Status != statusComplete {
			m.Cursor = i
			break
		}
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	} else if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m SectionPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Section"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  n next incomplete  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := lipgloss.NewStyle().Foreground(it.Status.color()).Render(statusMark(it.Status))
		line := fmt.Sprintf("%s%s %-40s %s", cursor, mark, it.Key, listDimStyle.Render(it.Layer))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))
	return b.String()
}

func statusMark(s status) string {
	switch s {
	case statusUnresolved:
		return "✗"
	case statusPending:
		return "!"
	}
	return "✓"
}

// pickSection runs the picker and returns the chosen key, or "" when the
// user quit.
func pickSection(s *content.Sections) (string, error) {
	final, err := tea.NewProgram(newSectionPicker(sectionItems(s))).Run()
	if err != nil {
		return "", err
	}
	return final.(SectionPickerModel).Selected, nil
}
