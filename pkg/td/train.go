package td

import (
	"context"
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/Zarux/tdtictactoe/pkg/tictactoe"
)

// Engine is the part of the game the trainer drives.
type Engine interface {
	Reset()
	LegalMoves() []tictactoe.Move
	ApplyMove(tictactoe.Move) error
	IsEnded() bool
	Winner() (tictactoe.Player, bool)
	CurrentPlayer() tictactoe.Player
	Board() tictactoe.Board
}

type Opponent interface {
	NextMove(tictactoe.Board, []tictactoe.Move) tictactoe.Move
}

// RandomOpponent picks uniformly among the legal moves.
type RandomOpponent struct {
	rng *rand.Rand
}

func NewRandomOpponent(rng *rand.Rand) *RandomOpponent {
	return &RandomOpponent{rng: rng}
}

func (o *RandomOpponent) NextMove(_ tictactoe.Board, legal []tictactoe.Move) tictactoe.Move {
	if len(legal) == 0 {
		return tictactoe.NoMove
	}

	return legal[o.rng.IntN(len(legal))]
}

type Outcome struct {
	Role   tictactoe.Player
	Winner tictactoe.Player
}

func (o Outcome) Reward() float64 {
	return Reward(o.Winner, o.Role)
}

type Stats struct {
	Episodes int
	Wins     int
	Draws    int
	Losses   int
	States   int
}

func (s *Stats) add(o Outcome) {
	s.Episodes++
	switch o.Reward() {
	case RewardWin:
		s.Wins++
	case RewardDraw:
		s.Draws++
	default:
		s.Losses++
	}
}

type Checkpoint struct {
	Episode    int
	Stats      Stats
	Evaluation Evaluation
}

type Trainer struct {
	learner  *Learner
	opponent Opponent
	engine   Engine
	rng      *rand.Rand

	evalEvery    int
	evalGames    int
	onCheckpoint func(Checkpoint)
}

type TrainerOption func(*Trainer)

func WithEngine(e Engine) TrainerOption {
	return func(t *Trainer) { t.engine = e }
}

func WithOpponent(o Opponent) TrainerOption {
	return func(t *Trainer) { t.opponent = o }
}

// WithCheckpoints evaluates the learner greedily over games games every
// every episodes and hands the result to fn.
func WithCheckpoints(every, games int, fn func(Checkpoint)) TrainerOption {
	return func(t *Trainer) {
		t.evalEvery = every
		t.evalGames = games
		t.onCheckpoint = fn
	}
}

func NewTrainer(learner *Learner, rng *rand.Rand, opts ...TrainerOption) *Trainer {
	t := &Trainer{
		learner: learner,
		rng:     rng,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.engine == nil {
		t.engine = tictactoe.New()
	}

	if t.opponent == nil {
		t.opponent = NewRandomOpponent(rng)
	}

	return t
}

// Train plays episodes self-play games, stopping early if ctx is done.
func (t *Trainer) Train(ctx context.Context, episodes int) (Stats, error) {
	var stats Stats
	for e := range episodes {
		if err := ctx.Err(); err != nil {
			stats.States = t.learner.table.Len()
			return stats, err
		}

		outcome, err := t.Episode()
		if err != nil {
			stats.States = t.learner.table.Len()
			return stats, errors.Wrapf(err, "episode %d", e+1)
		}
		stats.add(outcome)

		if t.onCheckpoint != nil && t.evalEvery > 0 && (e+1)%t.evalEvery == 0 {
			stats.States = t.learner.table.Len()
			t.onCheckpoint(Checkpoint{
				Episode:    e + 1,
				Stats:      stats,
				Evaluation: Evaluate(t.learner, t.evalGames, t.rng),
			})
		}
	}

	stats.States = t.learner.table.Len()
	return stats, nil
}

// Episode plays one game against the opponent, updating the learner after
// each of its moves and once more when the game ends.
func (t *Trainer) Episode() (Outcome, error) {
	t.engine.Reset()

	role := tictactoe.P1
	if t.rng.IntN(2) == 0 {
		role = tictactoe.P2
	}

	if role == tictactoe.P2 {
		if err := t.opponentMove(); err != nil {
			return Outcome{}, err
		}
	}

	var prev StateKey
	hasPrev := false
	for !t.engine.IsEnded() {
		m := t.learner.ChooseAction(t.engine.Board(), t.engine.LegalMoves(), role, true)
		if m == tictactoe.NoMove {
			break
		}

		if err := t.engine.ApplyMove(m); err != nil {
			return Outcome{}, errors.Wrapf(err, "learner move %+v", m)
		}

		current := Encode(t.engine.Board(), role)
		if hasPrev {
			t.learner.UpdateBootstrap(prev, current)
		}
		prev, hasPrev = current, true

		if t.engine.IsEnded() {
			winner, _ := t.engine.Winner()
			t.learner.UpdateTerminal(current, Reward(winner, role))
			return Outcome{Role: role, Winner: winner}, nil
		}

		if err := t.opponentMove(); err != nil {
			return Outcome{}, err
		}

		if t.engine.IsEnded() {
			winner, _ := t.engine.Winner()
			t.learner.UpdateTerminal(prev, Reward(winner, role))
			return Outcome{Role: role, Winner: winner}, nil
		}
	}

	winner, _ := t.engine.Winner()
	return Outcome{Role: role, Winner: winner}, nil
}

func (t *Trainer) opponentMove() error {
	m := t.opponent.NextMove(t.engine.Board(), t.engine.LegalMoves())
	if m == tictactoe.NoMove {
		return nil
	}

	return errors.Wrapf(t.engine.ApplyMove(m), "opponent move %+v", m)
}
