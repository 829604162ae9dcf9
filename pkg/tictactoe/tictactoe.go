package tictactoe

import (
	"errors"
	"strings"
)

var (
	ErrOutOfBounds = errors.New("move out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrGameOver    = errors.New("game is over")
)

// N is the side length of the board.
const N = 3

type Player int8

const (
	Empty Player = 0
	P1    Player = 1
	P2    Player = -1
)

func (p Player) Mark() string {
	s := " "
	if p == P1 {
		s = "X"
	}

	if p == P2 {
		s = "O"
	}

	return s
}

func (p Player) Opponent() Player {
	return -p
}

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoMove is returned when there is nothing left to play.
var NoMove = Move{Row: -1, Col: -1}

func MoveFromIdx(idx int) Move {
	return Move{
		Row: idx / N,
		Col: idx % N,
	}
}

func (m Move) Idx() int {
	return m.Row*N + m.Col
}

func (m Move) InBounds() bool {
	return m.Row >= 0 && m.Row < N && m.Col >= 0 && m.Col < N
}

// Board is a row-major snapshot of the cells. It is a value type, so passing
// it around never aliases the game state.
type Board [N * N]Player

func (b Board) Get(m Move) Player {
	return b[m.Idx()]
}

// Play returns a copy of the board with p placed at m.
func (b Board) Play(m Move, p Player) Board {
	b[m.Idx()] = p
	return b
}

func (b Board) Negate() Board {
	for i := range b {
		b[i] = -b[i]
	}

	return b
}

func (b Board) EmptyCells() []Move {
	moves := make([]Move, 0, len(b))
	for i, p := range b {
		if p != Empty {
			continue
		}
		moves = append(moves, MoveFromIdx(i))
	}

	return moves
}

func (b Board) Full() bool {
	for _, p := range b {
		if p == Empty {
			return false
		}
	}

	return true
}

var lines = [][N]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // cols
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Winner returns the mark owning a complete line, or Empty.
func (b Board) Winner() Player {
	for _, l := range lines {
		if p := b[l[0]]; p != Empty && b[l[1]] == p && b[l[2]] == p {
			return p
		}
	}

	return Empty
}

// WinningLine returns the cell indices of the first complete line owned by p.
func (b Board) WinningLine(p Player) []int {
	if p == Empty {
		return nil
	}

	for _, l := range lines {
		if b[l[0]] == p && b[l[1]] == p && b[l[2]] == p {
			return l[:]
		}
	}

	return nil
}

// Rows returns the board as a 3x3 grid of raw cell values.
func (b Board) Rows() [][]int8 {
	rows := make([][]int8, N)
	for r := range N {
		rows[r] = make([]int8, N)
		for c := range N {
			rows[r][c] = int8(b[r*N+c])
		}
	}

	return rows
}

func (b Board) String() string {
	var s strings.Builder
	s.WriteString("-------------\n")
	for r := range N {
		s.WriteString("| ")
		for c := range N {
			s.WriteString(b[r*N+c].Mark())
			s.WriteString(" | ")
		}
		s.WriteString("\n-------------\n")
	}

	return s.String()
}

type Game struct {
	board   Board
	current Player
	ended   bool
	winner  Player

	LastMove Move
}

func New() *Game {
	g := &Game{}
	g.Reset()
	return g
}

func (g *Game) Reset() {
	g.board = Board{}
	g.current = P1
	g.ended = false
	g.winner = Empty
	g.LastMove = NoMove
}

func (g *Game) LegalMoves() []Move {
	if g.ended {
		return nil
	}

	return g.board.EmptyCells()
}

// ApplyMove places the current player's mark at m. On error the game is left
// untouched.
func (g *Game) ApplyMove(m Move) error {
	if g.ended {
		return ErrGameOver
	}

	if !m.InBounds() {
		return ErrOutOfBounds
	}

	if g.board.Get(m) != Empty {
		return ErrOccupied
	}

	g.board[m.Idx()] = g.current
	g.LastMove = m

	if g.board.Winner() == g.current {
		g.winner = g.current
		g.ended = true
		return nil
	}

	if g.board.Full() {
		g.winner = Empty
		g.ended = true
		return nil
	}

	g.current = -g.current
	return nil
}

func (g *Game) IsEnded() bool {
	return g.ended
}

// Winner reports the winning mark once the game has ended. Empty means a draw;
// ok is false while the game is still running.
func (g *Game) Winner() (winner Player, ok bool) {
	if !g.ended {
		return Empty, false
	}

	return g.winner, true
}

func (g *Game) CurrentPlayer() Player {
	return g.current
}

func (g *Game) Board() Board {
	return g.board
}
