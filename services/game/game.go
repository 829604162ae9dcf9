package game

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/Zarux/tdtictactoe/pkg/tictactoe"
	"github.com/Zarux/tdtictactoe/services/game/game"
	"github.com/Zarux/tdtictactoe/services/game/settings"
)

type botPlayer interface {
	ChooseAction(b tictactoe.Board, legal []tictactoe.Move, role tictactoe.Player, explore bool) tictactoe.Move
}

type Service struct {
	bot     botPlayer
	options []tea.ProgramOption
}

func New(bot botPlayer, options ...tea.ProgramOption) *Service {
	return &Service{
		bot:     bot,
		options: options,
	}
}

// Play asks for a side and then runs games until the player quits.
func (s *Service) Play() error {
	settingsModel := settings.InitialModel(header())
	p := tea.NewProgram(settingsModel, s.options...)
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "settings")
	}

	if !settingsModel.Done() {
		return nil
	}

	settings := settingsModel.GetSettings()

	for {
		gameModel := game.InitialModel(header(), tictactoe.New(), s.bot, settings.P)

		p = tea.NewProgram(gameModel, s.options...)
		if _, err := p.Run(); err != nil {
			return errors.Wrap(err, "game")
		}

		if !gameModel.Replay {
			break
		}
	}

	return nil
}

var (
	headerStyle1 = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#4204b5ff", Dark: "#4204b5ff"}).Render
	headerStyle2 = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#19b504ff", Dark: "#19b504ff"}).Render
	headerStyle3 = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b55404ff", Dark: "#b55404ff"}).Render
)

func header() string {
	return fmt.Sprintf(
		"%s %s %s %s %s\n\n",
		headerStyle2("---"),
		headerStyle1("TD"),
		headerStyle2("Tic"),
		headerStyle3("Tac"),
		headerStyle2("Toe ---"),
	)
}
