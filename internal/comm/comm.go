package comm

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/avvvet/round-services/internal/gamesvc/engine"
	"github.com/avvvet/round-services/internal/gamesvc/models"
)

// NATS subjects
const (
	TopicSocketService = "socket.service" // socket service -> game service
	TopicGameService   = "game.service"   // game service -> socket service
)

// message types sent by web clients
const (
	TypeInit         = "init"
	TypeLogout       = "logout"
	TypeDisconnect   = "disconnect"
	TypeGetBalance   = "get-balance"
	TypeCrashBet     = "crash-bet"
	TypeCrashCashOut = "crash-cashout"
	TypeDoubleBet    = "double-bet"
	TypeGetRound     = "get-round"
)

// message types sent by the game service
const (
	TypeInitResponse         = "init-response"
	TypeLogoutResponse       = "logout-response"
	TypeBalanceResponse      = "balance-resp"
	TypeCrashBetResponse     = "crash-bet-response"
	TypeCrashCashOutResponse = "crash-cashout-response"
	TypeDoubleBetResponse    = "double-bet-response"
	TypeRoundResponse        = "round-response"
	TypeCrashRound           = "crash-round"  // broadcast
	TypeDoubleRound          = "double-round" // broadcast
	TypeError                = "error"
)

// ClientTypes lists what the socket service forwards to the game service.
var ClientTypes = map[string]bool{
	TypeInit:         true,
	TypeLogout:       true,
	TypeGetBalance:   true,
	TypeCrashBet:     true,
	TypeCrashCashOut: true,
	TypeDoubleBet:    true,
	TypeGetRound:     true,
}

type WSMessage struct {
	Type     string          `json:"type"` // e.g. "init", "crash-bet"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"` // empty for broadcasts
}

type InitRequest struct {
	UserId int64  `json:"user_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type PlayerData struct {
	Name    string           `json:"name"`
	UserId  int64            `json:"user_id"`
	Avatar  string           `json:"avatar,omitempty"`
	Balance string           `json:"balance"`
	Journal []models.Balance `json:"journal,omitempty"` // get-balance only, oldest first
}

// BetRequest carries the amount either as a JSON number or a string.
type BetRequest struct {
	Amount json.RawMessage `json:"amount"`
	Target int             `json:"target,omitempty"` // double only
}

// AmountText returns the raw amount without JSON quoting.
func (r BetRequest) AmountText() string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(string(r.Amount)), `"`))
}

type RoundRequest struct {
	Game string `json:"game"`
}

// CommandResponse answers every client command. Reason is one of the engine
// rejection codes when Status is false.
type CommandResponse struct {
	Status      bool                    `json:"status"`
	Reason      string                  `json:"reason,omitempty"`
	Balance     string                  `json:"balance,omitempty"`
	Participant *engine.ParticipantView `json:"participant,omitempty"`
	CashOut     *engine.CashOutResult   `json:"cashout,omitempty"`
	Timestamp   int64                   `json:"timestamp"`
}

func NewCommandResponse(err error) CommandResponse {
	return CommandResponse{
		Status:    err == nil,
		Reason:    engine.Reason(err),
		Timestamp: time.Now().UnixMilli(),
	}
}

type Res struct {
	Status bool `json:"status"`
}
