package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zarux/tdtictactoe/internal/logger"
	"github.com/Zarux/tdtictactoe/pkg/tictactoe"
)

var (
	ErrNoSession   = errors.New("no game in progress, reset first")
	ErrNotYourTurn = errors.New("not your turn")
)

type botPlayer interface {
	ChooseAction(b tictactoe.Board, legal []tictactoe.Move, role tictactoe.Player, explore bool) tictactoe.Move
}

type session struct {
	mu       sync.Mutex
	game     *tictactoe.Game
	agent    tictactoe.Player
	lastSeen time.Time
}

// State is what a client sees of its game.
type State struct {
	Board       [][]int8 `json:"board"`
	Ended       bool     `json:"ended"`
	Winner      *int8    `json:"winner"`
	AgentPlayer int8     `json:"agent_player"`
}

// Service runs one game per session against a shared, read-only policy.
type Service struct {
	bot botPlayer
	// the bot's tie-breaking rng is not safe for concurrent use
	botMu sync.Mutex

	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

func New(bot botPlayer) *Service {
	return &Service{
		bot:      bot,
		sessions: make(map[string]*session),
		ttl:      time.Hour,
		now:      time.Now,
	}
}

// NewGame starts a fresh game under a new session id. The agent opens unless
// userStarts is set.
func (s *Service) NewGame(ctx context.Context, userStarts bool) (string, State) {
	log := logger.FromContext(ctx)

	sess := &session{
		game:     tictactoe.New(),
		agent:    tictactoe.P1,
		lastSeen: s.now(),
	}
	if userStarts {
		sess.agent = tictactoe.P2
	}

	id := uuid.NewString()

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[id] = sess
	s.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !userStarts {
		s.agentMove(sess)
	}

	log.Info("new game", "session", id, "agent", sess.agent.Mark())
	return id, sess.state()
}

// Move plays the human move m and, if the game goes on, the agent's reply.
func (s *Service) Move(ctx context.Context, id string, m tictactoe.Move) (State, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return State{}, ErrNoSession
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()

	if sess.game.IsEnded() {
		return sess.state(), tictactoe.ErrGameOver
	}

	if sess.game.CurrentPlayer() == sess.agent {
		return sess.state(), ErrNotYourTurn
	}

	if err := sess.game.ApplyMove(m); err != nil {
		return sess.state(), err
	}

	if !sess.game.IsEnded() {
		s.agentMove(sess)
	}

	if winner, ended := sess.game.Winner(); ended {
		log.Info("game over", "session", id, "winner", winner.Mark())
	}

	return sess.state(), nil
}

func (s *Service) agentMove(sess *session) {
	s.botMu.Lock()
	m := s.bot.ChooseAction(sess.game.Board(), sess.game.LegalMoves(), sess.agent, false)
	s.botMu.Unlock()

	if m == tictactoe.NoMove {
		return
	}

	// m is one of LegalMoves
	_ = sess.game.ApplyMove(m)
}

func (s *Service) pruneLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		sess.mu.Lock()
		stale := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()

		if stale {
			delete(s.sessions, id)
		}
	}
}

func (s *session) state() State {
	st := State{
		Board:       s.game.Board().Rows(),
		Ended:       s.game.IsEnded(),
		AgentPlayer: int8(s.agent),
	}

	if winner, ok := s.game.Winner(); ok {
		w := int8(winner)
		st.Winner = &w
	}

	return st
}
