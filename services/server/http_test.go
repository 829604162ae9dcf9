package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Zarux/tdtictactoe/pkg/td"
	"github.com/Zarux/tdtictactoe/pkg/tictactoe"
)

// firstFreeBot always takes the first legal move.
type firstFreeBot struct{}

func (firstFreeBot) ChooseAction(_ tictactoe.Board, legal []tictactoe.Move, _ tictactoe.Player, _ bool) tictactoe.Move {
	if len(legal) == 0 {
		return tictactoe.NoMove
	}
	return legal[0]
}

type passingBot struct{}

func (passingBot) ChooseAction(tictactoe.Board, []tictactoe.Move, tictactoe.Player, bool) tictactoe.Move {
	return tictactoe.NoMove
}

type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (c *client) post(path, body string) (int, map[string]any) {
	c.t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}

	var out map[string]any
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func board(t *testing.T, resp map[string]any) [][]int8 {
	t.Helper()

	raw, err := json.Marshal(resp["board"])
	require.NoError(t, err)

	var b [][]int8
	require.NoError(t, json.Unmarshal(raw, &b))
	return b
}

func TestReset(t *testing.T) {
	h := HTTPHandler(New(firstFreeBot{}))

	t.Run("agent starts by default", func(t *testing.T) {
		c := &client{t: t, handler: h}
		code, resp := c.post("/api/reset", "")

		require.Equal(t, http.StatusOK, code)
		require.NotNil(t, c.cookie)
		require.Equal(t, [][]int8{{1, 0, 0}, {0, 0, 0}, {0, 0, 0}}, board(t, resp))
		require.Equal(t, false, resp["ended"])
		require.Nil(t, resp["winner"])
		require.EqualValues(t, 1, resp["agent_player"])
	})

	t.Run("user starts", func(t *testing.T) {
		c := &client{t: t, handler: h}
		code, resp := c.post("/api/reset", `{"user_starts": true}`)

		require.Equal(t, http.StatusOK, code)
		require.Equal(t, [][]int8{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, board(t, resp))
		require.EqualValues(t, -1, resp["agent_player"])
	})

	t.Run("malformed body", func(t *testing.T) {
		c := &client{t: t, handler: h}
		code, resp := c.post("/api/reset", `{"user_starts": "yes"}`)

		require.Equal(t, http.StatusBadRequest, code)
		require.Contains(t, resp["error"], "bad request")
	})
}

func TestMove(t *testing.T) {
	h := HTTPHandler(New(firstFreeBot{}))

	t.Run("without a session", func(t *testing.T) {
		c := &client{t: t, handler: h}
		code, resp := c.post("/api/move", `{"row": 0, "col": 0}`)
		require.Equal(t, http.StatusBadRequest, code)
		require.Equal(t, ErrNoSession.Error(), resp["error"])

		c.cookie = &http.Cookie{Name: sessionCookie, Value: "unknown"}
		code, _ = c.post("/api/move", `{"row": 0, "col": 0}`)
		require.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("malformed input", func(t *testing.T) {
		c := &client{t: t, handler: h}
		c.post("/api/reset", "")

		for _, body := range []string{``, `{"row": 1}`, `{"row": "a", "col": 1}`, `not json`} {
			code, resp := c.post("/api/move", body)
			require.Equal(t, http.StatusBadRequest, code, body)
			require.NotEmpty(t, resp["error"])
		}

		_, resp := c.post("/api/move", `{"row": 1, "col": 1}`)
		require.Equal(t, [][]int8{{1, 1, 0}, {0, -1, 0}, {0, 0, 0}}, board(t, resp), "bad requests must not touch the game")
	})

	t.Run("illegal moves", func(t *testing.T) {
		c := &client{t: t, handler: h}
		c.post("/api/reset", "")

		code, resp := c.post("/api/move", `{"row": 0, "col": 0}`)
		require.Equal(t, http.StatusBadRequest, code)
		require.Contains(t, resp["error"], "invalid move")

		code, _ = c.post("/api/move", `{"row": 3, "col": 0}`)
		require.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("full game", func(t *testing.T) {
		c := &client{t: t, handler: h}
		c.post("/api/reset", "")

		code, resp := c.post("/api/move", `{"row": 1, "col": 1}`)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, false, resp["ended"])

		code, resp = c.post("/api/move", `{"row": 2, "col": 2}`)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, [][]int8{{1, 1, 1}, {0, -1, 0}, {0, 0, -1}}, board(t, resp))
		require.Equal(t, true, resp["ended"])
		require.EqualValues(t, 1, resp["winner"])

		code, resp = c.post("/api/move", `{"row": 2, "col": 0}`)
		require.Equal(t, http.StatusBadRequest, code)
		require.Contains(t, resp["error"], tictactoe.ErrGameOver.Error())
	})

	t.Run("sessions are independent", func(t *testing.T) {
		a := &client{t: t, handler: h}
		b := &client{t: t, handler: h}
		a.post("/api/reset", "")
		b.post("/api/reset", `{"user_starts": true}`)
		require.NotEqual(t, a.cookie.Value, b.cookie.Value)

		_, resp := a.post("/api/move", `{"row": 2, "col": 2}`)
		require.Equal(t, [][]int8{{1, 1, 0}, {0, 0, 0}, {0, 0, -1}}, board(t, resp))

		_, resp = b.post("/api/move", `{"row": 2, "col": 2}`)
		require.Equal(t, [][]int8{{-1, 0, 0}, {0, 0, 0}, {0, 0, 1}}, board(t, resp))
	})
}

func TestNotYourTurn(t *testing.T) {
	svc := New(passingBot{})
	ctx := context.Background()

	id, _ := svc.NewGame(ctx, true)
	_, err := svc.Move(ctx, id, tictactoe.Move{Row: 0, Col: 0})
	require.NoError(t, err)

	state, err := svc.Move(ctx, id, tictactoe.Move{Row: 1, Col: 1})
	require.ErrorIs(t, err, ErrNotYourTurn)
	require.Equal(t, [][]int8{{1, 0, 0}, {0, 0, 0}, {0, 0, 0}}, state.Board)
}

func TestSessionsExpire(t *testing.T) {
	svc := New(firstFreeBot{})
	ctx := context.Background()

	now := time.Now()
	svc.now = func() time.Time { return now }

	old, _ := svc.NewGame(ctx, true)
	now = now.Add(2 * time.Hour)
	fresh, _ := svc.NewGame(ctx, true)

	_, err := svc.Move(ctx, old, tictactoe.Move{Row: 0, Col: 0})
	require.ErrorIs(t, err, ErrNoSession)

	_, err = svc.Move(ctx, fresh, tictactoe.Move{Row: 0, Col: 0})
	require.NoError(t, err)
}

func TestTrainedAgentBehindHTTP(t *testing.T) {
	learner := td.NewLearner(td.NewValueTable(), td.WithEpsilon(0))
	h := HTTPHandler(New(learner))

	c := &client{t: t, handler: h}
	code, resp := c.post("/api/reset", "")
	require.Equal(t, http.StatusOK, code)

	marks := 0
	for _, row := range board(t, resp) {
		for _, v := range row {
			if v != 0 {
				marks++
			}
		}
	}
	require.Equal(t, 1, marks)
}

func TestIndex(t *testing.T) {
	h := HTTPHandler(New(firstFreeBot{}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "TD Tic-Tac-Toe")
}
