package ws

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/avvvet/round-services/internal/comm"
	"github.com/avvvet/round-services/internal/socketsvc/broker"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// client serialises writes; gorilla allows one concurrent writer per conn.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

type Ws struct {
	connMap sync.Map // to keep track of socket connection with socketId
	Broker  *broker.Broker
}

func NewWs() *Ws {
	return &Ws{}
}

// handle socket message from web clients
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	if !comm.ClientTypes[message.Type] {
		log.Warnf("unknown event received: %s", message.Type)
		s.SendError(socketId, "unknown message type "+message.Type)
		return
	}

	if message.Type == comm.TypeInit && !s.validInit(socketId, message) {
		return
	}

	s.forward(socketId, message)
}

func (s *Ws) validInit(socketId string, msg *comm.WSMessage) bool {
	var payload comm.InitRequest
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("Error: invalid_init_data Malformed init payload %s", err)
		s.SendError(socketId, "malformed init payload")
		return false
	}

	if strings.TrimSpace(payload.Name) == "" {
		log.Error("Invalid init payload: missing name")
		s.SendError(socketId, "name is required")
		return false
	}
	return true
}

// forward stamps msg with socketId and hands it to the game service.
func (s *Ws) forward(socketId string, msg *comm.WSMessage) {
	msg.SocketId = socketId
	if len(msg.Data) == 0 {
		msg.Data = json.RawMessage(`{}`)
	}

	bytes, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Failed to marshal WSMessage for NATS: %v", err)
		return
	}

	if err := s.Broker.Publish(comm.TopicSocketService, bytes); err != nil {
		log.Errorf("Failed to publish to NATS topic %s: %v", comm.TopicSocketService, err)
		return
	}

	log.Debugf("Published %s from socket %s", msg.Type, socketId)
}

// HandleDisconnect forgets the socket and tells the game service to end its
// session.
func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.forward(socketId, &comm.WSMessage{Type: comm.TypeDisconnect})
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, &client{conn: conn})
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	c, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return c.(*client).conn, true
}

// Send writes m to one socket. It reports false when the socket is unknown or
// the write failed.
func (s *Ws) Send(socketId string, m *comm.WSMessage) bool {
	c, ok := s.connMap.Load(socketId)
	if !ok {
		return false
	}
	if err := c.(*client).writeJSON(m); err != nil {
		log.Errorf("write to socket %s failed: %v", socketId, err)
		return false
	}
	return true
}

// Broadcast writes m to every socket and returns how many received it.
func (s *Ws) Broadcast(m *comm.WSMessage) int {
	sent := 0
	s.connMap.Range(func(key, value any) bool {
		if err := value.(*client).writeJSON(m); err != nil {
			log.Warnf("broadcast to socket %s failed: %v", key, err)
			return true
		}
		sent++
		return true
	})
	return sent
}

// SendError tells one client its message was refused.
func (s *Ws) SendError(socketId string, errorMsg string) {
	data, err := json.Marshal(map[string]string{"error": errorMsg})
	if err != nil {
		return
	}
	s.Send(socketId, &comm.WSMessage{Type: comm.TypeError, Data: data, SocketId: socketId})
}

func (s *Ws) Count() int {
	count := 0
	s.connMap.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}
