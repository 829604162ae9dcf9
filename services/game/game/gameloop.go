package game

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zarux/tdtictactoe/pkg/tictactoe"
)

var (
	errFormat = errors.New("invalid format, use row,col")
	errRange  = fmt.Errorf("row and col must be between 0 and %d", tictactoe.N-1)
)

type botPlayer interface {
	ChooseAction(b tictactoe.Board, legal []tictactoe.Move, role tictactoe.Player, explore bool) tictactoe.Move
}

type model struct {
	game      *tictactoe.Game
	botPlayer tictactoe.Player
	bot       botPlayer
	input     textinput.Model
	header    string
	message   string

	gameOver bool
	Replay   bool
}

var (
	p1Style              = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#007e50ff", Dark: "#6afd76ff"}).Render
	p2Style              = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0003adff", Dark: "#5f61fcff"}).Render
	errorStyle           = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#960000ff", Dark: "#fc7e7eff"}).Render
	winningRowStyle      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#bb0000ff", Dark: "#df1010ff"}).Render
	bracketStyle         = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#414141ff", Dark: "#8f8f8fff"}).Render
	lastMoveBracketStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000ff", Dark: "#ffffffff"}).Render
	coordStyle           = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#8a880fff", Dark: "#ddda1dff"}).Render
)

// InitialModel sets up a game where the human plays playerStone. If the bot
// holds X it opens straight away.
func InitialModel(header string, g *tictactoe.Game, bot botPlayer, playerStone tictactoe.Player) *model {
	ti := textinput.New()
	ti.Placeholder = "row,col"
	ti.CharLimit = 8
	ti.Width = 10
	ti.Focus()

	m := &model{
		game:      g,
		botPlayer: -playerStone,
		bot:       bot,
		input:     ti,
		header:    header,
	}

	if m.game.CurrentPlayer() == m.botPlayer {
		m.botMove()
	}

	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// ParseMove reads a zero-indexed "row,col" pair.
func ParseMove(s string) (tictactoe.Move, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return tictactoe.NoMove, errFormat
	}

	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return tictactoe.NoMove, errFormat
	}

	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return tictactoe.NoMove, errFormat
	}

	move := tictactoe.Move{Row: row, Col: col}
	if !move.InBounds() {
		return tictactoe.NoMove, errRange
	}

	return move, nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "q":
			if m.gameOver {
				return m, tea.Quit
			}

		case "enter":
			if m.gameOver {
				m.Replay = true
				return m, tea.Quit
			}

			m.playerMove(m.input.Value())
			m.input.Reset()
			return m, nil
		}
	}

	if m.gameOver {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) playerMove(in string) {
	move, err := ParseMove(in)
	if err != nil {
		m.message = err.Error()
		return
	}

	if err := m.game.ApplyMove(move); err != nil {
		m.message = "invalid move, try again"
		return
	}
	m.message = ""

	if m.checkGameOver() {
		return
	}

	m.botMove()
}

func (m *model) botMove() {
	move := m.bot.ChooseAction(m.game.Board(), m.game.LegalMoves(), m.botPlayer, false)
	if move != tictactoe.NoMove {
		// move is one of LegalMoves
		_ = m.game.ApplyMove(move)
	}

	m.checkGameOver()
}

func (m *model) checkGameOver() bool {
	m.gameOver = m.game.IsEnded()
	return m.gameOver
}

func markStyle(p tictactoe.Player) string {
	switch p {
	case tictactoe.P1:
		return p1Style(p.Mark())
	case tictactoe.P2:
		return p2Style(p.Mark())
	}

	return p.Mark()
}

// Result describes the end of the game from the human's side.
func Result(winner, botPlayer tictactoe.Player) string {
	switch winner {
	case botPlayer:
		return "Agent Wins!"
	case tictactoe.Empty:
		return "It's a Draw!"
	default:
		return "You Win!"
	}
}

func (m model) View() string {
	if m.gameOver && m.Replay {
		return ""
	}

	board := m.game.Board()
	winner, _ := m.game.Winner()
	highlights := board.WinningLine(winner)

	s := m.header
	s += fmt.Sprintf("You are %s, the agent is %s\n\n", markStyle(-m.botPlayer), markStyle(m.botPlayer))

	s += "   " + coordStyle(" 0  1  2") + "\n"
	for i, p := range board {
		if i%tictactoe.N == 0 {
			s += coordStyle(strconv.Itoa(i/tictactoe.N)) + "  "
		}

		bStyle := bracketStyle
		if slices.Contains(highlights, i) {
			bStyle = winningRowStyle
		} else if m.game.LastMove != tictactoe.NoMove && m.game.LastMove.Idx() == i {
			bStyle = lastMoveBracketStyle
		}

		s += fmt.Sprintf("%s%s%s", bStyle("["), markStyle(p), bStyle("]"))
		if (i+1)%tictactoe.N == 0 {
			s += "\n"
		}
	}
	s += "\n"

	if m.gameOver {
		s += gameOverText + "\n"
		s += Result(winner, m.botPlayer) + "\n\n"
		s += "enter: play again, q: quit\n"
		return s
	}

	s += "Enter your move (row,col) e.g. 0,0 or 1,2: " + m.input.View() + "\n"
	if m.message != "" {
		s += errorStyle(m.message) + "\n"
	}

	return s
}

const gameOverText = `ＧＡＭＥ ＯＶＥＲ`
