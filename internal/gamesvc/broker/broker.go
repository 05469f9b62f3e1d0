package broker

import (
	"context"
	"encoding/json"

	"github.com/avvvet/round-services/internal/comm"
	"github.com/avvvet/round-services/internal/gamesvc/engine"
	"github.com/avvvet/round-services/internal/gamesvc/models"
	"github.com/avvvet/round-services/internal/gamesvc/session"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Publisher is the part of *nats.Conn the broker writes to.
type Publisher interface {
	Publish(subj string, data []byte) error
}

type Broker struct {
	Conn     *nats.Conn
	pub      Publisher
	Sessions *session.Store
	Ledger   *engine.Ledger
	Crash    *engine.Crash
	Double   *engine.Double
}

func NewBroker(nc *nats.Conn, sessions *session.Store, ledger *engine.Ledger,
	crash *engine.Crash, double *engine.Double) *Broker {
	return &Broker{
		Conn:     nc,
		pub:      nc,
		Sessions: sessions,
		Ledger:   ledger,
		Crash:    crash,
		Double:   double,
	}
}

// handles message coming from socket
func (b *Broker) handleMessage(msgNat *nats.Msg) {
	b.dispatch(msgNat.Data)
}

func (b *Broker) dispatch(data []byte) {
	msg := &comm.WSMessage{}
	if err := json.Unmarshal(data, msg); err != nil {
		log.Errorf("Error nats message %s", err)
		return
	}

	switch msg.Type {
	case comm.TypeInit:
		b.handleInit(msg)
	case comm.TypeLogout:
		b.Sessions.Logout(msg.SocketId)
		b.publishTo(comm.TypeLogoutResponse, comm.Res{Status: true}, msg.SocketId)
	case comm.TypeDisconnect:
		b.Sessions.Logout(msg.SocketId)
	case comm.TypeGetBalance:
		user, ok := b.Sessions.CurrentUser(msg.SocketId)
		if !ok {
			b.publishTo(comm.TypeBalanceResponse, comm.NewCommandResponse(engine.ErrUnauthenticated), msg.SocketId)
			return
		}
		data := b.playerData(user)
		data.Journal = b.Ledger.Journal(user.UserId)
		b.publishTo(comm.TypeBalanceResponse, data, msg.SocketId)
	case comm.TypeCrashBet:
		b.handleCrashBet(msg)
	case comm.TypeCrashCashOut:
		user := b.currentUser(msg.SocketId)
		res, err := b.Crash.CashOut(user)
		rsp := b.response(user, err)
		if err == nil {
			rsp.CashOut = &res
		}
		b.publishTo(comm.TypeCrashCashOutResponse, rsp, msg.SocketId)
	case comm.TypeDoubleBet:
		b.handleDoubleBet(msg)
	case comm.TypeGetRound:
		var request comm.RoundRequest
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			log.Errorf("Error unmarshalling get-round: %s", err)
			return
		}
		switch request.Game {
		case engine.GameCrash:
			b.publishTo(comm.TypeRoundResponse, b.Crash.Snapshot(), msg.SocketId)
		case engine.GameDouble:
			b.publishTo(comm.TypeRoundResponse, b.Double.Snapshot(), msg.SocketId)
		default:
			log.Warnf("get-round for unknown game %q", request.Game)
		}
	default:
		log.Errorf("Unknown message %s", msg.Type)
	}
}

func (b *Broker) handleInit(msg *comm.WSMessage) {
	var request comm.InitRequest
	if err := json.Unmarshal(msg.Data, &request); err != nil {
		log.Errorf("Error unmarshalling init: %s", err)
		return
	}

	user, err := b.Sessions.Login(msg.SocketId, models.User{
		UserId: request.UserId,
		Name:   request.Name,
		Avatar: request.Avatar,
	})
	if err != nil {
		log.Errorf("Error [Sessions.Login] %s", err)
		b.publishTo(comm.TypeInitResponse, comm.NewCommandResponse(engine.ErrUnauthenticated), msg.SocketId)
		return
	}

	b.publishTo(comm.TypeInitResponse, b.playerData(user), msg.SocketId)
}

func (b *Broker) handleCrashBet(msg *comm.WSMessage) {
	var request comm.BetRequest
	if err := json.Unmarshal(msg.Data, &request); err != nil {
		log.Errorf("Error unmarshalling crash-bet: %s", err)
		b.publishTo(comm.TypeCrashBetResponse, comm.NewCommandResponse(engine.ErrInvalidAmount), msg.SocketId)
		return
	}

	user := b.currentUser(msg.SocketId)
	amount, err := engine.ParseAmount(request.AmountText())
	var p engine.ParticipantView
	if user == nil {
		err = engine.ErrUnauthenticated
	} else if err == nil {
		p, err = b.Crash.PlaceBet(user, amount)
	}

	rsp := b.response(user, err)
	if err == nil {
		rsp.Participant = &p
	}
	b.publishTo(comm.TypeCrashBetResponse, rsp, msg.SocketId)
}

func (b *Broker) handleDoubleBet(msg *comm.WSMessage) {
	var request comm.BetRequest
	if err := json.Unmarshal(msg.Data, &request); err != nil {
		log.Errorf("Error unmarshalling double-bet: %s", err)
		b.publishTo(comm.TypeDoubleBetResponse, comm.NewCommandResponse(engine.ErrInvalidAmount), msg.SocketId)
		return
	}

	user := b.currentUser(msg.SocketId)
	amount, err := engine.ParseAmount(request.AmountText())
	var p engine.ParticipantView
	if user == nil {
		err = engine.ErrUnauthenticated
	} else if err == nil {
		p, err = b.Double.PlaceBet(user, amount, request.Target)
	}

	rsp := b.response(user, err)
	if err == nil {
		rsp.Participant = &p
	}
	b.publishTo(comm.TypeDoubleBetResponse, rsp, msg.SocketId)
}

// currentUser returns nil when the socket has no session; the engine turns that
// into an unauthenticated rejection.
func (b *Broker) currentUser(socketId string) *models.User {
	user, ok := b.Sessions.CurrentUser(socketId)
	if !ok {
		return nil
	}
	return user
}

func (b *Broker) response(user *models.User, err error) comm.CommandResponse {
	rsp := comm.NewCommandResponse(err)
	if user != nil {
		rsp.Balance = b.Ledger.Balance(user).StringFixed(2)
	}
	if err != nil && engine.Reason(err) == "internal" {
		log.Errorf("Error command failed: %s", err)
	}
	return rsp
}

func (b *Broker) playerData(user *models.User) comm.PlayerData {
	return comm.PlayerData{
		Name:    user.Name,
		UserId:  user.UserId,
		Avatar:  user.Avatar,
		Balance: b.Ledger.Balance(user).StringFixed(2),
	}
}

// publishTo wraps v in a WSMessage for socketId and publishes it on game.service.
// An empty socketId reaches every client.
func (b *Broker) publishTo(msgType string, v any, socketId string) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("error [publishTo] unable to marshal %s for %s: %s", msgType, socketId, err)
		return
	}

	msg := &comm.WSMessage{
		Type:     msgType,
		Data:     data,
		SocketId: socketId,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.Publish(comm.TopicGameService, payload)
}

// Broadcast publishes every snapshot from snapshots to all clients until the
// channel is closed or ctx is done.
func (b *Broker) Broadcast(ctx context.Context, msgType string, snapshots <-chan engine.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-snapshots:
			if !ok {
				return
			}
			b.publishTo(msgType, s, "")
		}
	}
}

// consume message from socket service
func (b *Broker) SubscribSocketService(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// game service publish message for socket service to consume
func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.pub.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}
