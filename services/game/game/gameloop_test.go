package game

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Zarux/tdtictactoe/pkg/td"
	"github.com/Zarux/tdtictactoe/pkg/tictactoe"
)

type firstFreeBot struct{}

func (firstFreeBot) ChooseAction(_ tictactoe.Board, legal []tictactoe.Move, _ tictactoe.Player, _ bool) tictactoe.Move {
	if len(legal) == 0 {
		return tictactoe.NoMove
	}
	return legal[0]
}

func enter(t *testing.T, m *model, input string) tea.Cmd {
	t.Helper()
	m.input.SetValue(input)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		in   string
		want tictactoe.Move
		err  error
	}{
		{in: "0,0", want: tictactoe.Move{Row: 0, Col: 0}},
		{in: " 1 , 2 ", want: tictactoe.Move{Row: 1, Col: 2}},
		{in: "2,1", want: tictactoe.Move{Row: 2, Col: 1}},
		{in: "", err: errFormat},
		{in: "1", err: errFormat},
		{in: "a,b", err: errFormat},
		{in: "1,2,3", err: errFormat},
		{in: "1.5,2", err: errFormat},
		{in: "3,0", err: errRange},
		{in: "0,-1", err: errRange},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMove(tt.in)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				require.Equal(t, tictactoe.NoMove, got)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBotOpensWhenHumanIsO(t *testing.T) {
	g := tictactoe.New()
	m := InitialModel("", g, firstFreeBot{}, tictactoe.P2)

	require.Equal(t, tictactoe.P1, g.Board().Get(tictactoe.Move{Row: 0, Col: 0}))
	require.Equal(t, tictactoe.P2, g.CurrentPlayer())
	require.Contains(t, m.View(), "Enter your move")
}

func TestHumanOpensWhenHumanIsX(t *testing.T) {
	g := tictactoe.New()
	InitialModel("", g, firstFreeBot{}, tictactoe.P1)

	require.Equal(t, tictactoe.Board{}, g.Board())
}

func TestBadInputReprompts(t *testing.T) {
	g := tictactoe.New()
	m := InitialModel("", g, firstFreeBot{}, tictactoe.P2)
	before := g.Board()

	for _, in := range []string{"nope", "5,5", "0,0"} {
		cmd := enter(t, m, in)
		require.Nil(t, cmd)
		require.False(t, m.gameOver)
		require.NotEmpty(t, m.message, in)
		require.Equal(t, before, g.Board(), in)
		require.Empty(t, m.input.Value(), "input is cleared for the next attempt")
		require.Contains(t, m.View(), m.message)
	}

	enter(t, m, "1,1")
	require.Empty(t, m.message)
	require.Equal(t, tictactoe.P2, g.Board().Get(tictactoe.Move{Row: 1, Col: 1}))
	require.Equal(t, tictactoe.P1, g.Board().Get(tictactoe.Move{Row: 0, Col: 1}), "bot replies")
}

func TestPlayToEnd(t *testing.T) {
	g := tictactoe.New()
	m := InitialModel("", g, firstFreeBot{}, tictactoe.P2)

	// bot takes the top row: (0,0), (0,1), (0,2)
	enter(t, m, "1,1")
	enter(t, m, "2,2")

	require.True(t, m.gameOver)
	require.Contains(t, m.View(), "Agent Wins!")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.Nil(t, cmd, "keys other than enter and q are ignored once over")

	cmd = enter(t, m, "")
	require.NotNil(t, cmd)
	require.True(t, m.Replay)
	require.Empty(t, m.View())
}

func TestHumanWins(t *testing.T) {
	g := tictactoe.New()
	m := InitialModel("", g, firstFreeBot{}, tictactoe.P1)

	// the human takes the middle column while the bot fills (0,0) and (0,2)
	enter(t, m, "0,1")
	enter(t, m, "1,1")
	require.False(t, m.gameOver)
	enter(t, m, "2,1")

	require.True(t, m.gameOver)
	winner, ok := g.Winner()
	require.True(t, ok)
	require.Equal(t, tictactoe.P1, winner)
	require.Contains(t, m.View(), "You Win!")
}

func TestQuit(t *testing.T) {
	m := InitialModel("", tictactoe.New(), firstFreeBot{}, tictactoe.P1)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.False(t, m.Replay)
}

func TestResult(t *testing.T) {
	require.Equal(t, "Agent Wins!", Result(tictactoe.P1, tictactoe.P1))
	require.Equal(t, "You Win!", Result(tictactoe.P2, tictactoe.P1))
	require.Equal(t, "It's a Draw!", Result(tictactoe.Empty, tictactoe.P2))
}

func TestWithLearner(t *testing.T) {
	g := tictactoe.New()
	learner := td.NewLearner(td.NewValueTable(), td.WithEpsilon(0))
	m := InitialModel("", g, learner, tictactoe.P2)

	require.Len(t, g.LegalMoves(), 8)
	for !m.gameOver {
		legal := g.LegalMoves()
		require.NotEmpty(t, legal)
		enter(t, m, formatMove(legal[0]))
	}

	_, ok := g.Winner()
	require.True(t, ok)
}

func formatMove(m tictactoe.Move) string {
	return string(rune('0'+m.Row)) + "," + string(rune('0'+m.Col))
}
