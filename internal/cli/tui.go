package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sproutworks/furrow/pkg/sim"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PersonaListModel - Interactive persona selection
// =============================================================================

// PersonaListModel is the bubbletea model for interactive persona selection.
type PersonaListModel struct {
	Personas []sim.Persona
	Cursor   int
	Selected *sim.Persona
}

// NewPersonaListModel creates a new persona list model.
func NewPersonaListModel(personas []sim.Persona) PersonaListModel {
	return PersonaListModel{Personas: personas}
}

func (m PersonaListModel) Init() tea.Cmd {
	return nil
}

func (m PersonaListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Personas)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Personas[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PersonaListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Persona"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, p := range m.Personas {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		meta := fmt.Sprintf("%s, %.0f%% efficient", p.Strategy, p.Efficiency*100)
		line := fmt.Sprintf("%s%-12s  %s", cursor, p.Name, listDimStyle.Render(meta))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")

		if i == m.Cursor && p.Description != "" {
			b.WriteString(listDimStyle.Render("    " + p.Description))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Personas))))

	return b.String()
}

// selectPersona runs the interactive picker and returns the chosen
// persona, or false when the user quits without selecting.
func selectPersona(personas []sim.Persona) (sim.Persona, bool, error) {
	p := tea.NewProgram(NewPersonaListModel(personas))
	finalModel, err := p.Run()
	if err != nil {
		return sim.Persona{}, false, err
	}

	fm, ok := finalModel.(PersonaListModel)
	if !ok || fm.Selected == nil {
		return sim.Persona{}, false, nil
	}
	return *fm.Selected, true, nil
}
