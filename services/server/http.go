package server

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"

	"github.com/Zarux/tdtictactoe/internal/logger"
	"github.com/Zarux/tdtictactoe/pkg/tictactoe"
)

const sessionCookie = "session_id"

//go:embed static
var static embed.FS

type httpHandler struct {
	svc *Service
}

func HTTPHandler(s *Service) http.Handler {
	h := &httpHandler{
		svc: s,
	}

	staticFS, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/reset", h.HandleReset)
	mux.HandleFunc("POST /api/move", h.HandleMove)
	mux.Handle("GET /", http.FileServerFS(staticFS))

	return mux
}

type resetRequest struct {
	UserStarts bool `json:"user_starts"`
}

func (h *httpHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}

	id, state := h.svc.NewGame(ctx, req.UserStarts)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, state)
}

type moveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

func (h *httpHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrNoSession.Error())
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}

	if req.Row == nil || req.Col == nil {
		writeError(w, http.StatusBadRequest, "missing row or col")
		return
	}

	state, err := h.svc.Move(ctx, cookie.Value, tictactoe.Move{Row: *req.Row, Col: *req.Col})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, state)
	case errors.Is(err, ErrNotYourTurn):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNoSession):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tictactoe.ErrOccupied),
		errors.Is(err, tictactoe.ErrOutOfBounds),
		errors.Is(err, tictactoe.ErrGameOver):
		writeError(w, http.StatusBadRequest, "invalid move: "+err.Error())
	default:
		log.Error("move failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
