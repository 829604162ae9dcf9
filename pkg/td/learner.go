package td

import (
	"math/rand/v2"

	"github.com/Zarux/tdtictactoe/pkg/tictactoe"
)

const (
	RewardWin  = 1.0
	RewardDraw = 0.5
	RewardLoss = 0.0
)

// Reward scores a finished game for role. winner is Empty for a draw.
func Reward(winner, role tictactoe.Player) float64 {
	switch winner {
	case role:
		return RewardWin
	case tictactoe.Empty:
		return RewardDraw
	default:
		return RewardLoss
	}
}

type Learner struct {
	table *ValueTable
	rng   *rand.Rand

	alpha   float64
	epsilon float64
	gamma   float64
}

type Option func(*Learner)

func WithAlpha(alpha float64) Option {
	return func(l *Learner) { l.alpha = alpha }
}

func WithEpsilon(epsilon float64) Option {
	return func(l *Learner) { l.epsilon = epsilon }
}

func WithGamma(gamma float64) Option {
	return func(l *Learner) { l.gamma = gamma }
}

func WithRand(rng *rand.Rand) Option {
	return func(l *Learner) { l.rng = rng }
}

func NewLearner(table *ValueTable, opts ...Option) *Learner {
	l := &Learner{
		table:   table,
		alpha:   0.1,
		epsilon: 0.1,
		gamma:   0.9,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.rng == nil {
		l.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return l
}

func (l *Learner) Table() *ValueTable {
	return l.table
}

// ChooseAction picks a move for role on b. With explore set, a random legal
// move is taken with probability epsilon; otherwise the move leading to the
// highest valued afterstate wins, ties broken uniformly at random.
// Returns tictactoe.NoMove when legal is empty.
func (l *Learner) ChooseAction(b tictactoe.Board, legal []tictactoe.Move, role tictactoe.Player, explore bool) tictactoe.Move {
	if len(legal) == 0 {
		return tictactoe.NoMove
	}

	if explore && l.rng.Float64() < l.epsilon {
		return legal[l.rng.IntN(len(legal))]
	}

	best := tictactoe.NoMove
	bestValue := 0.0
	ties := 0
	for _, m := range legal {
		v := l.table.Value(Encode(b.Play(m, role), role))

		switch {
		case best == tictactoe.NoMove || v > bestValue:
			best = m
			bestValue = v
			ties = 1
		case v == bestValue:
			// reservoir sampling keeps every tied move equally likely
			ties++
			if l.rng.IntN(ties) == 0 {
				best = m
			}
		}
	}

	return best
}

// Update moves V(key) towards reward, plus the discounted value of next when
// next is not nil:
//
//	V(s) <- V(s) + alpha * (r + gamma*V(s') - V(s))
func (l *Learner) Update(key StateKey, reward float64, next *StateKey) {
	current := l.table.GetOrInsertDefault(key)

	target := reward
	if next != nil {
		target += l.gamma * l.table.GetOrInsertDefault(*next)
	}

	l.table.Set(key, current+l.alpha*(target-current))
}

func (l *Learner) UpdateTerminal(key StateKey, reward float64) {
	l.Update(key, reward, nil)
}

func (l *Learner) UpdateBootstrap(key, next StateKey) {
	l.Update(key, 0, &next)
}
