package broker

import (
	"encoding/json"

	"github.com/avvvet/round-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Publisher is the part of *nats.Conn the broker writes to.
type Publisher interface {
	Publish(subj string, data []byte) error
}

type Broker struct {
	Conn    *nats.Conn
	pub     Publisher
	Send    func(string, *comm.WSMessage) bool // deliver to one socket
	SendAll func(*comm.WSMessage) int          // deliver to every socket
}

func NewBroker(conn *nats.Conn, fncSend func(string, *comm.WSMessage) bool, fncSendAll func(*comm.WSMessage) int) *Broker {
	b := &Broker{
		Conn:    conn,
		Send:    fncSend,
		SendAll: fncSendAll,
	}
	if conn != nil {
		b.pub = conn
	}
	return b
}

// WithPublisher replaces the NATS connection used for publishing.
func (b *Broker) WithPublisher(p Publisher) *Broker {
	b.pub = p
	return b
}

// consume message from game service
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// publish message to game service
func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.pub.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

// handleMessages receive message from game service
func (b *Broker) handleMessages(msgNats *nats.Msg) {
	b.dispatch(msgNats.Data)
}

var serverTypes = map[string]bool{
	comm.TypeInitResponse:         true,
	comm.TypeLogoutResponse:       true,
	comm.TypeBalanceResponse:      true,
	comm.TypeCrashBetResponse:     true,
	comm.TypeCrashCashOutResponse: true,
	comm.TypeDoubleBetResponse:    true,
	comm.TypeRoundResponse:        true,
	comm.TypeCrashRound:           true,
	comm.TypeDoubleRound:          true,
	comm.TypeError:                true,
}

func (b *Broker) dispatch(data []byte) {
	message := &comm.WSMessage{}
	if err := json.Unmarshal(data, message); err != nil {
		log.Errorf("Error %s", err)
		return
	}

	if !serverTypes[message.Type] {
		log.Errorf("Unknown message %s", message.Type)
		return
	}

	// round broadcasts carry no socket id
	if message.SocketId == "" {
		b.SendAll(message)
		return
	}

	if !b.Send(message.SocketId, message) {
		log.Debugf("socket %s gone, dropped %s", message.SocketId, message.Type)
	}
}
