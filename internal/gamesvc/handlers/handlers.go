package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/avvvet/round-services/internal/gamesvc/engine"
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
)

// RoundSource is a scheduler that can describe its live round.
type RoundSource interface {
	Snapshot() engine.Snapshot
}

type Handler struct {
	tokenAuth *jwtauth.JWTAuth
	rounds    map[string]RoundSource
}

func NewHandler(rounds map[string]RoundSource) *Handler {
	return &Handler{rounds: rounds}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	json.NewEncoder(w).Encode(rsp)
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "game service is running at port " + os.Getenv("GAME_SERVICE_PORT"),
		Code:    http.StatusOK,
	})
}

// RoundHandler returns the live round of the game named in the path.
func (h *Handler) RoundHandler(w http.ResponseWriter, r *http.Request) {
	game := chi.URLParam(r, "game")
	src, ok := h.rounds[game]
	if !ok {
		h.CreateResponse(w, Response{
			Message: "unknown game",
			Code:    http.StatusNotFound,
			Error:   "no game named " + game,
		})
		return
	}

	h.CreateResponse(w, Response{
		Message: "round",
		Code:    http.StatusOK,
		Data:    src.Snapshot(),
	})
}
