package td

import (
	"fmt"

	"github.com/Zarux/tdtictactoe/pkg/tictactoe"
)

// StateKey identifies a board as seen by the player it was encoded for: one
// rune per cell in row-major order, 'x' for own marks, 'o' for the opponent's
// and '.' for empty cells.
type StateKey string

const (
	selfRune     = 'x'
	opponentRune = 'o'
	emptyRune    = '.'
)

// Encode flattens b from the point of view of perspective, so the perspective
// player's marks always come out as 'x' whichever side they physically play.
func Encode(b tictactoe.Board, perspective tictactoe.Player) StateKey {
	if perspective == tictactoe.P2 {
		b = b.Negate()
	}

	key := make([]byte, len(b))
	for i, p := range b {
		switch p {
		case tictactoe.P1:
			key[i] = selfRune
		case tictactoe.P2:
			key[i] = opponentRune
		default:
			key[i] = emptyRune
		}
	}

	return StateKey(key)
}

// Decode is the inverse of Encode with perspective P1.
func Decode(key StateKey) (tictactoe.Board, error) {
	var b tictactoe.Board
	if len(key) != len(b) {
		return b, fmt.Errorf("state key %q: want %d cells, got %d", key, len(b), len(key))
	}

	for i := range len(key) {
		switch key[i] {
		case selfRune:
			b[i] = tictactoe.P1
		case opponentRune:
			b[i] = tictactoe.P2
		case emptyRune:
			b[i] = tictactoe.Empty
		default:
			return b, fmt.Errorf("state key %q: bad cell %q at %d", key, key[i], i)
		}
	}

	return b, nil
}
