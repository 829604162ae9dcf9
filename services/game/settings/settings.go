package settings

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zarux/tdtictactoe/pkg/tictactoe"
)

var (
	listSelectorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}).Render
)

var stoneChoices = []tictactoe.Player{tictactoe.P1, tictactoe.P2}

type settings struct {
	P tictactoe.Player
}

type model struct {
	cursor int
	header string

	settings settings
	done     bool

	clear bool
}

func (m model) GetSettings() settings {
	return m.settings
}

// Done reports whether a stone was picked rather than the screen quit.
func (m model) Done() bool {
	return m.done
}

func InitialModel(header string) *model {
	return &model{
		header: header,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.clear = true
			return m, tea.Quit

		case "enter":
			m.settings.P = stoneChoices[m.cursor]
			m.done = true
			m.clear = true
			return m, tea.Quit

		case "down", "j":
			m.cursor++
			if m.cursor >= len(stoneChoices) {
				m.cursor = 0
			}

		case "up", "k":
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(stoneChoices) - 1
			}
		}
	}

	return m, nil
}

func (m *model) View() string {
	if m.clear {
		return ""
	}

	s := strings.Builder{}
	s.WriteString(m.header)
	s.WriteString("Choose stone:\n")

	for i, p := range stoneChoices {
		if m.cursor == i {
			s.WriteString(listSelectorStyle("(•) "))
		} else {
			s.WriteString(listSelectorStyle("( ) "))
		}

		switch p {
		case tictactoe.P1:
			s.WriteString("X (first)")
		case tictactoe.P2:
			s.WriteString("O")
		}

		s.WriteString("\n")
	}

	return s.String()
}
