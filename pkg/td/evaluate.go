package td

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"

	"github.com/Zarux/tdtictactoe/pkg/tictactoe"
)

type SeatResult struct {
	Games  int
	Wins   int
	Draws  int
	Losses int
}

type Evaluation struct {
	Games int
	AsP1  SeatResult
	AsP2  SeatResult

	// Mean and StdDev of the per-game reward.
	Mean   float64
	StdDev float64
}

func (e Evaluation) Wins() int   { return e.AsP1.Wins + e.AsP2.Wins }
func (e Evaluation) Draws() int  { return e.AsP1.Draws + e.AsP2.Draws }
func (e Evaluation) Losses() int { return e.AsP1.Losses + e.AsP2.Losses }

func (e Evaluation) rate(n int) float64 {
	if e.Games == 0 {
		return 0
	}

	return float64(n) / float64(e.Games)
}

func (e Evaluation) WinRate() float64  { return e.rate(e.Wins()) }
func (e Evaluation) DrawRate() float64 { return e.rate(e.Draws()) }
func (e Evaluation) LossRate() float64 { return e.rate(e.Losses()) }

// Evaluate plays games greedy games against a uniform random opponent,
// alternating seats, without touching the value table.
func Evaluate(learner *Learner, games int, rng *rand.Rand) Evaluation {
	eval := Evaluation{Games: games}
	if games <= 0 {
		return eval
	}

	opponent := NewRandomOpponent(rng)
	g := tictactoe.New()
	scores := make([]float64, 0, games)

	for i := range games {
		role := tictactoe.P1
		seat := &eval.AsP1
		if i%2 == 1 {
			role = tictactoe.P2
			seat = &eval.AsP2
		}

		g.Reset()
		for !g.IsEnded() {
			var m tictactoe.Move
			if g.CurrentPlayer() == role {
				m = learner.ChooseAction(g.Board(), g.LegalMoves(), role, false)
			} else {
				m = opponent.NextMove(g.Board(), g.LegalMoves())
			}

			if m == tictactoe.NoMove {
				break
			}

			// moves come from LegalMoves, so this cannot fail
			_ = g.ApplyMove(m)
		}

		winner, _ := g.Winner()
		reward := Reward(winner, role)
		scores = append(scores, reward)

		seat.Games++
		switch reward {
		case RewardWin:
			seat.Wins++
		case RewardDraw:
			seat.Draws++
		default:
			seat.Losses++
		}
	}

	eval.Mean, eval.StdDev = stat.MeanStdDev(scores, nil)
	return eval
}
