package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/projclean/projclean/internal/config"
)

// pickerModel is the multi-select list shown when RULES is empty on the
// command line and stdin is a TTY (spec.md §6 / SPEC_FULL.md §4.11).
type pickerModel struct {
	catalog  []config.RuleCatalogEntry
	selected map[int]bool
	cursor   int
	quit     bool
	confirm  bool
}

// PickRules runs the interactive catalog picker and returns the raw rule
// strings of the rows the user checked. An empty, nil-error result means
// the user quit without selecting anything.
func PickRules(catalog []config.RuleCatalogEntry) ([]string, error) {
	m := &pickerModel{catalog: catalog, selected: make(map[int]bool)}
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	fm := final.(*pickerModel)
	if !fm.confirm {
		return nil, nil
	}

	var rules []string
	for i, entry := range fm.catalog {
		if fm.selected[i] {
			rules = append(rules, entry.Rule.ID())
		}
	}
	return rules, nil
}

func (m *pickerModel) Init() tea.Cmd { return nil }

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.catalog)-1 {
			m.cursor++
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "enter":
		m.confirm = true
		m.quit = true
		return m, tea.Quit
	case "esc", "ctrl+c", "q":
		m.quit = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *pickerModel) View() string {
	if m.quit {
		return ""
	}

	var b strings.Builder
	b.WriteString("Select project kinds to purge (space to toggle, enter to confirm):\n\n")

	for i, entry := range m.catalog {
		box := "[ ]"
		if m.selected[i] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %-28s %s", box, entry.Label, entry.Rule.ID())
		if i == m.cursor {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
